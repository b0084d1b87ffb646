package core

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mmm/internal/domain"
	"mmm/internal/source"
	"mmm/internal/storage/cache"
)

type scriptedSource struct {
	platform    domain.Platform
	mods        map[string]*domain.ModInfo
	versions    map[string][]domain.RemoteVersion
	getModCalls int
	err         error
}

func (s *scriptedSource) Platform() domain.Platform { return s.platform }

func (s *scriptedSource) Search(_ context.Context, _ source.SearchQuery) ([]domain.ModInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.ModInfo, 0, len(s.mods))
	for _, m := range s.mods {
		out = append(out, *m)
	}
	return out, nil
}

func (s *scriptedSource) GetMod(_ context.Context, modID string) (*domain.ModInfo, error) {
	s.getModCalls++
	if s.err != nil {
		return nil, s.err
	}
	m, ok := s.mods[modID]
	if !ok {
		return nil, domain.ErrModNotFound
	}
	return m, nil
}

func (s *scriptedSource) GetVersions(_ context.Context, modID string) ([]domain.RemoteVersion, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.versions[modID], nil
}

func newTestService(t *testing.T) (*Service, *scriptedSource, string) {
	t.Helper()
	dataDir := t.TempDir()

	svc, err := NewService(ServiceConfig{DataDir: dataDir, Fetcher: stubDownloader{}}, zap.NewNop().Sugar())
	require.NoError(t, err)
	svc.settings.MinecraftFolder = t.TempDir()

	src := &scriptedSource{
		platform: domain.PlatformModrinth,
		mods: map[string]*domain.ModInfo{
			"sodium": {ID: "sodium", Platform: domain.PlatformModrinth, Name: "Sodium"},
		},
		versions: map[string][]domain.RemoteVersion{
			"sodium": {
				{
					ID: "v2", Name: "2.1", FileName: "sodium-2.1.jar", DownloadURL: "http://x/2.1",
					ReleaseType: domain.ReleaseStable, Loaders: []string{"fabric"}, McVersions: []string{"1.21"},
					PublishedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
				},
				{
					ID: "v1", Name: "2.0", FileName: "sodium-2.0.jar", DownloadURL: "http://x/2.0",
					ReleaseType: domain.ReleaseStable, Loaders: []string{"fabric"}, McVersions: []string{"1.21"},
					PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				},
			},
		},
	}
	svc.RegisterSource(src)

	_, err = svc.Profiles().Create("alpha", "1.21", domain.LoaderFabric)
	require.NoError(t, err)

	return svc, src, dataDir
}

func TestService_GetModCachesResult(t *testing.T) {
	svc, src, dataDir := newTestService(t)
	ctx := context.Background()

	info, err := svc.GetMod(ctx, domain.PlatformModrinth, "sodium")
	require.NoError(t, err)
	assert.Equal(t, "Sodium", info.Name)
	assert.Equal(t, 1, src.getModCalls)

	c := cache.New(dataDir)
	_, ok, err := c.Read(c.ModInfoPath(domain.PlatformModrinth, "sodium"))
	require.NoError(t, err)
	assert.True(t, ok)

	// Second lookup is served from the cache.
	info, err = svc.GetMod(ctx, domain.PlatformModrinth, "sodium")
	require.NoError(t, err)
	assert.Equal(t, "Sodium", info.Name)
	assert.Equal(t, domain.PlatformModrinth, info.Platform)
	assert.Equal(t, 1, src.getModCalls)
}

func TestService_VersionsFiltered(t *testing.T) {
	svc, _, _ := newTestService(t)

	list, err := svc.Versions(context.Background(), "alpha", domain.PlatformModrinth, "sodium", true)
	require.NoError(t, err)
	require.Len(t, list.Versions, 2)

	// Newest first, with latest and recommended annotated.
	assert.Equal(t, "v2", list.Versions[0].ID)
	assert.Equal(t, "v2", list.LatestID)
	assert.Equal(t, "v2", list.RecommendedID)
}

func TestService_VersionsUnknownProfile(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Versions(context.Background(), "ghost", domain.PlatformModrinth, "sodium", true)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestService_InstallRecommended(t *testing.T) {
	svc, _, _ := newTestService(t)

	picked, err := svc.Install(context.Background(), "alpha", domain.PlatformModrinth, "sodium", "")
	require.NoError(t, err)
	assert.Equal(t, "v2", picked.ID)

	name, ok := svc.Mods().InstalledVersionName("alpha", domain.PlatformModrinth, "sodium")
	require.True(t, ok)
	assert.Equal(t, "2.1", name)
}

func TestService_InstallUnknownVersion(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Install(context.Background(), "alpha", domain.PlatformModrinth, "sodium", "v99")
	assert.ErrorIs(t, err, domain.ErrNoVersionSelected)
}

func TestService_CheckUpdate(t *testing.T) {
	svc, _, _ := newTestService(t)

	ctx := context.Background()

	_, err := svc.Install(ctx, "alpha", domain.PlatformModrinth, "sodium", "v1")
	require.NoError(t, err)

	newer, err := svc.CheckUpdate(ctx, "alpha", domain.PlatformModrinth, "sodium")
	require.NoError(t, err)
	require.NotNil(t, newer)
	assert.Equal(t, "v2", newer.ID)

	// Installing the newer version makes the mod current.
	_, err = svc.Install(ctx, "alpha", domain.PlatformModrinth, "sodium", "v2")
	require.NoError(t, err)

	newer, err = svc.CheckUpdate(ctx, "alpha", domain.PlatformModrinth, "sodium")
	require.NoError(t, err)
	assert.Nil(t, newer)
}

func TestService_CheckUpdateOpaqueVersionNames(t *testing.T) {
	// CurseForge display names are rarely dotted numerics; the check must
	// work from version identity and publish date, not the name.
	svc, src, _ := newTestService(t)
	src.mods["jei"] = &domain.ModInfo{ID: "jei", Platform: domain.PlatformModrinth, Name: "JEI"}
	src.versions["jei"] = []domain.RemoteVersion{
		{
			ID: "f2", Name: "jei-fabric-1.21 (Forge friendly)", FileName: "jei-f2.jar", DownloadURL: "http://x/f2",
			ReleaseType: domain.ReleaseStable, Loaders: []string{"fabric"}, McVersions: []string{"1.21"},
			PublishedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "f1", Name: "jei-fabric-1.21 (initial drop)", FileName: "jei-f1.jar", DownloadURL: "http://x/f1",
			ReleaseType: domain.ReleaseStable, Loaders: []string{"fabric"}, McVersions: []string{"1.21"},
			PublishedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	ctx := context.Background()
	_, err := svc.Install(ctx, "alpha", domain.PlatformModrinth, "jei", "f1")
	require.NoError(t, err)

	newer, err := svc.CheckUpdate(ctx, "alpha", domain.PlatformModrinth, "jei")
	require.NoError(t, err)
	require.NotNil(t, newer)
	assert.Equal(t, "f2", newer.ID)

	_, err = svc.Install(ctx, "alpha", domain.PlatformModrinth, "jei", "f2")
	require.NoError(t, err)

	newer, err = svc.CheckUpdate(ctx, "alpha", domain.PlatformModrinth, "jei")
	require.NoError(t, err)
	assert.Nil(t, newer)
}

func TestService_CheckUpdateNotInstalled(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CheckUpdate(context.Background(), "alpha", domain.PlatformModrinth, "sodium")
	assert.ErrorIs(t, err, domain.ErrModNotFound)
}

func TestService_SearchUpstreamFailure(t *testing.T) {
	svc, src, _ := newTestService(t)
	src.err = errors.New("boom")

	_, err := svc.Search(context.Background(), domain.PlatformModrinth, source.SearchQuery{Query: "sodium"})
	assert.Error(t, err)
}

func TestService_FirstRunWritesSettings(t *testing.T) {
	dataDir := t.TempDir()
	_, err := NewService(ServiceConfig{DataDir: dataDir}, zap.NewNop().Sugar())
	require.NoError(t, err)

	_, err = os.Stat(dataDir + "/settings.json")
	assert.NoError(t, err)
}
