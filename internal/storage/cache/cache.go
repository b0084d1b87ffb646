// Package cache manages the write-once metadata cache: mod icons, mod
// detail JSON and per-version JSON fetched from the platforms, plus the
// transient previousMods stash used around a game launch. Entries are
// never refreshed once written; staleness is an accepted trade for
// offline browsing.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mmm/internal/domain"
)

// Cache manages the on-disk metadata cache
type Cache struct {
	basePath string // <dataDir>/cache
}

// New creates a cache manager rooted at <dataDir>/cache
func New(dataDir string) *Cache {
	return &Cache{basePath: filepath.Join(dataDir, "cache")}
}

// IconPath returns the cache location for a mod's icon image
func (c *Cache) IconPath(platform domain.Platform, modID string) string {
	return filepath.Join(c.basePath, "icons", fmt.Sprintf("%s-%s.png", platform, modID))
}

// ModInfoPath returns the cache location for a mod's metadata JSON
func (c *Cache) ModInfoPath(platform domain.Platform, modID string) string {
	return filepath.Join(c.basePath, "mods", fmt.Sprintf("%s-%s.json", platform, modID))
}

// VersionPath returns the cache location for one version's JSON
func (c *Cache) VersionPath(platform domain.Platform, modID, versionID string) string {
	return filepath.Join(c.basePath, "versions", fmt.Sprintf("%s-%s-%s.json", platform, modID, versionID))
}

// StashDir returns the transient stash area holding the previous mod set
// during a launch.
func (c *Cache) StashDir() string {
	return filepath.Join(c.basePath, "previousMods")
}

// WriteOnce stores content at path unless an entry already exists there.
// Returns true when the entry was written.
func (c *Cache) WriteOnce(path string, content []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("checking cache entry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("creating cache dir: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return false, fmt.Errorf("writing cache entry: %w", err)
	}
	return true, nil
}

// Read returns a cached entry's content, or false when absent
func (c *Cache) Read(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}
	return data, true, nil
}
