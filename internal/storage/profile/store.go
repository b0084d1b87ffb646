// Package profile persists modded-game profiles as directory trees under
// the application data directory. Each profile owns a properties.json
// record plus per-platform mod subdirectories managed by the modstore
// package.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"mmm/internal/domain"
)

const propertiesFile = "properties.json"

// Store manages profile records on disk
type Store struct {
	root string // <dataDir>/profiles
	log  *zap.SugaredLogger
}

// New creates a profile store rooted at <dataDir>/profiles
func New(dataDir string, log *zap.SugaredLogger) *Store {
	return &Store{
		root: filepath.Join(dataDir, "profiles"),
		log:  log,
	}
}

// Dir returns the directory owned by the named profile
func (s *Store) Dir(name string) string {
	return filepath.Join(s.root, name)
}

// propertiesRecord is the JSON shape of a profile's properties.json
type propertiesRecord struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Modloader string `json:"modloader"`
}

// Create makes a new profile directory and writes its property record.
// Directory creation is the uniqueness point: a concurrent create for the
// same name observes the mkdir failure.
func (s *Store) Create(name, gameVersion string, loader domain.Loader) (*domain.Profile, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return nil, fmt.Errorf("creating profiles dir: %w", err)
	}

	dir := s.Dir(name)
	if err := os.Mkdir(dir, 0755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrProfileExists, name)
		}
		return nil, fmt.Errorf("creating profile dir: %w", err)
	}

	profile := &domain.Profile{Name: name, GameVersion: gameVersion, Loader: loader}
	if err := s.writeProperties(dir, profile); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	s.log.Infow("created profile", "name", name, "version", gameVersion, "loader", loader.String())
	return profile, nil
}

// Get loads a single profile by name
func (s *Store) Get(name string) (*domain.Profile, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}
	return s.readProperties(s.Dir(name))
}

// List enumerates all profiles. A directory with a missing or corrupt
// record is logged and skipped so one broken profile cannot take down
// the rest of the listing.
func (s *Store) List() (map[string]*domain.Profile, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]*domain.Profile{}, nil
		}
		return nil, fmt.Errorf("reading profiles dir: %w", err)
	}

	profiles := make(map[string]*domain.Profile, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		p, err := s.readProperties(filepath.Join(s.root, entry.Name()))
		if err != nil {
			s.log.Warnw("skipping unreadable profile", "dir", entry.Name(), "error", err)
			continue
		}
		profiles[p.Name] = p
	}
	return profiles, nil
}

// Rename moves a profile to a new name. The stored name field is
// rewritten before the directory move, so a crash in between leaves a
// state that a retry fixes rather than a record disagreeing with its
// path forever.
func (s *Store) Rename(oldName, newName string) error {
	if err := domain.ValidateName(oldName); err != nil {
		return err
	}
	if err := domain.ValidateName(newName); err != nil {
		return err
	}
	if oldName == newName {
		return nil
	}

	oldDir := s.Dir(oldName)
	profile, err := s.readProperties(oldDir)
	if err != nil {
		return err
	}

	newDir := s.Dir(newName)
	if _, err := os.Stat(newDir); err == nil {
		return fmt.Errorf("%w: %s", domain.ErrProfileExists, newName)
	}

	profile.Name = newName
	if err := s.writeProperties(oldDir, profile); err != nil {
		return err
	}

	if err := os.Rename(oldDir, newDir); err != nil {
		return fmt.Errorf("moving profile dir: %w", err)
	}

	s.log.Infow("renamed profile", "from", oldName, "to", newName)
	return nil
}

// Remove deletes a profile and everything inside it. Irreversible, so
// the name must prove it stays inside the profiles tree first.
func (s *Store) Remove(name string) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}
	dir := s.Dir(name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", domain.ErrProfileNotFound, name)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing profile: %w", err)
	}

	s.log.Infow("removed profile", "name", name)
	return nil
}

func (s *Store) readProperties(dir string) (*domain.Profile, error) {
	data, err := os.ReadFile(filepath.Join(dir, propertiesFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrProfileNotFound, filepath.Base(dir))
		}
		return nil, fmt.Errorf("reading profile record: %w", err)
	}

	var rec propertiesRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing profile record: %w", err)
	}

	loader, err := domain.ParseLoader(rec.Modloader)
	if err != nil {
		return nil, fmt.Errorf("profile record: %w", err)
	}

	return &domain.Profile{Name: rec.Name, GameVersion: rec.Version, Loader: loader}, nil
}

func (s *Store) writeProperties(dir string, profile *domain.Profile) error {
	rec := propertiesRecord{
		Name:      profile.Name,
		Version:   profile.GameVersion,
		Modloader: profile.Loader.String(),
	}

	data, err := json.MarshalIndent(&rec, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling profile record: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, propertiesFile), data, 0644); err != nil {
		return fmt.Errorf("writing profile record: %w", err)
	}
	return nil
}
