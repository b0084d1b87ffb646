package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmm/internal/domain"
)

type fakeSource struct {
	platform domain.Platform
}

func (f *fakeSource) Platform() domain.Platform { return f.platform }
func (f *fakeSource) Search(context.Context, SearchQuery) ([]domain.ModInfo, error) {
	return nil, nil
}
func (f *fakeSource) GetMod(context.Context, string) (*domain.ModInfo, error) {
	return nil, nil
}
func (f *fakeSource) GetVersions(context.Context, string) ([]domain.RemoteVersion, error) {
	return nil, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	s := &fakeSource{platform: domain.PlatformModrinth}
	r.Register(s)

	got, err := r.Get(domain.PlatformModrinth)
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestRegistry_GetUnregistered(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get(domain.PlatformCurseforge)
	assert.Error(t, err)
}

func TestRegistry_List(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeSource{platform: domain.PlatformModrinth})
	r.Register(&fakeSource{platform: domain.PlatformCurseforge})
	assert.Len(t, r.List(), 2)
}
