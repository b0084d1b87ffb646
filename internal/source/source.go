package source

import (
	"context"
	"fmt"
	"sync"

	"mmm/internal/domain"
)

// SearchQuery contains parameters for searching mods on a platform.
type SearchQuery struct {
	Query       string
	GameVersion string // optional compatibility filter
	Loader      domain.Loader
	FilterByVer bool // whether GameVersion/Loader constrain the search
	Limit       int
	Offset      int
}

// Source is a mod distribution platform the manager can query.
type Source interface {
	Platform() domain.Platform

	Search(ctx context.Context, query SearchQuery) ([]domain.ModInfo, error)
	GetMod(ctx context.Context, modID string) (*domain.ModInfo, error)
	GetVersions(ctx context.Context, modID string) ([]domain.RemoteVersion, error)
}

// Registry manages available platform sources
type Registry struct {
	mu      sync.RWMutex
	sources map[domain.Platform]Source
}

// NewRegistry creates a new source registry
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[domain.Platform]Source),
	}
}

// Register adds a source to the registry
func (r *Registry) Register(s Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[s.Platform()] = s
}

// Get retrieves a source by platform
func (r *Registry) Get(platform domain.Platform) (Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sources[platform]
	if !ok {
		return nil, fmt.Errorf("source not registered: %s", platform)
	}
	return s, nil
}

// List returns all registered sources
func (r *Registry) List() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sources := make([]Source, 0, len(r.sources))
	for _, s := range r.sources {
		sources = append(sources, s)
	}
	return sources
}
