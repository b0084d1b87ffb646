// Package modstore persists installed-mod records inside profile
// directories. Each marketplace mod owns
// profiles/<profile>/<platform>/<modId>/properties.json plus the mod
// binary next to it; unmanaged jars live under profiles/<profile>/jar.
package modstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"mmm/internal/domain"
)

const propertiesFile = "properties.json"

// Downloader fetches a remote file to a local path
type Downloader interface {
	Fetch(ctx context.Context, url, destPath string) error
}

// Store manages installed-mod records and raw jar files
type Store struct {
	root string // <dataDir>/profiles
	dl   Downloader
	log  *zap.SugaredLogger
}

// New creates a mod store over <dataDir>/profiles
func New(dataDir string, dl Downloader, log *zap.SugaredLogger) *Store {
	return &Store{
		root: filepath.Join(dataDir, "profiles"),
		dl:   dl,
		log:  log,
	}
}

// Entry is one row of a profile's mod listing: either a marketplace
// record or an unmanaged jar, never both.
type Entry struct {
	Record  *domain.ModRecord
	JarName string
}

func (s *Store) modDir(profileName string, platform domain.Platform, modID string) string {
	return filepath.Join(s.root, profileName, platform.String(), modID)
}

// BinaryPath returns the on-disk location of a record's mod binary
func (s *Store) BinaryPath(profileName string, rec *domain.ModRecord) string {
	return filepath.Join(s.modDir(profileName, rec.Platform, rec.ModID), rec.FileName)
}

// Install downloads a mod version and writes its record. Installing the
// already-installed version is a no-op. Installing a different version of
// an installed mod replaces record and binary together. The new state is
// assembled in a staging directory and renamed into place, so a crash
// mid-install never leaves a record without its binary.
func (s *Store) Install(ctx context.Context, profileName string, mod *domain.ModInfo, version *domain.RemoteVersion) error {
	if version == nil {
		return domain.ErrNoVersionSelected
	}
	if err := domain.ValidateName(profileName); err != nil {
		return err
	}
	if err := domain.ValidateName(mod.ID); err != nil {
		return err
	}

	dir := s.modDir(profileName, mod.Platform, mod.ID)

	existing, err := s.readRecord(dir, mod.Platform)
	switch {
	case err == nil:
		if existing.VersionID == version.ID {
			s.log.Infow("version already installed", "mod", mod.Name, "version", version.Name)
			return nil
		}
		// Update: drop the old version before writing the new one
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("removing previous version: %w", err)
		}
		s.log.Infow("updating mod", "mod", mod.Name, "from", existing.VersionName, "to", version.Name)
	case errors.Is(err, domain.ErrModNotFound):
		// nothing installed yet
	default:
		// Corrupt record: the listing already treats it as absent, so
		// install doubles as repair and replaces the directory wholesale.
		s.log.Warnw("replacing corrupt mod record", "mod", mod.ID, "error", err)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("removing corrupt mod: %w", err)
		}
	}

	staging := dir + ".staging"
	if err := os.MkdirAll(staging, 0755); err != nil {
		return fmt.Errorf("creating staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := s.dl.Fetch(ctx, version.DownloadURL, filepath.Join(staging, version.FileName)); err != nil {
		return fmt.Errorf("downloading mod binary: %w", err)
	}

	rec := &domain.ModRecord{
		ModID:       mod.ID,
		Platform:    mod.Platform,
		VersionID:   version.ID,
		VersionName: version.Name,
		FileName:    version.FileName,
		DownloadURL: version.DownloadURL,
		ReleaseType: version.ReleaseType.String(),
		McVersions:  version.McVersions,
		PublishedAt: version.PublishedAt,
		ModName:     mod.Name,
		Authors:     mod.Authors,
		IconURL:     mod.IconURL,
	}
	if err := writeRecord(staging, rec); err != nil {
		return err
	}

	if err := os.Rename(staging, dir); err != nil {
		return fmt.Errorf("moving mod into place: %w", err)
	}

	s.log.Infow("installed mod", "profile", profileName, "mod", mod.Name, "version", version.Name)
	return nil
}

// Remove deletes a mod's record and binary together. Removing something
// absent is not an error to the caller, only a log line.
func (s *Store) Remove(profileName string, platform domain.Platform, modID string) error {
	if err := domain.ValidateName(profileName); err != nil {
		return err
	}
	if err := domain.ValidateName(modID); err != nil {
		return err
	}
	dir := s.modDir(profileName, platform, modID)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		s.log.Warnw("mod not installed, nothing to remove",
			"profile", profileName, "platform", platform.String(), "mod", modID)
		return nil
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing mod: %w", err)
	}

	s.log.Infow("removed mod", "profile", profileName, "platform", platform.String(), "mod", modID)
	return nil
}

// List returns the profile's mods: marketplace records sorted by mod name
// ascending, then raw jar names. The ordering is user facing.
func (s *Store) List(profileName string) ([]Entry, error) {
	var records []*domain.ModRecord
	for _, platform := range domain.Platforms {
		platformDir := filepath.Join(s.root, profileName, platform.String())
		entries, err := os.ReadDir(platformDir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading %s mods: %w", platform, err)
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			rec, err := s.readRecord(filepath.Join(platformDir, entry.Name()), platform)
			if err != nil {
				s.log.Warnw("skipping unreadable mod record",
					"profile", profileName, "dir", entry.Name(), "error", err)
				continue
			}
			records = append(records, rec)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return strings.ToLower(records[i].ModName) < strings.ToLower(records[j].ModName)
	})

	jars, err := s.ListJars(profileName)
	if err != nil {
		return nil, err
	}

	result := make([]Entry, 0, len(records)+len(jars))
	for _, rec := range records {
		result = append(result, Entry{Record: rec})
	}
	for _, jar := range jars {
		result = append(result, Entry{JarName: jar})
	}
	return result, nil
}

// Installed returns the stored record for a mod, or false when the mod
// is not installed in this profile.
func (s *Store) Installed(profileName string, platform domain.Platform, modID string) (*domain.ModRecord, bool) {
	rec, err := s.readRecord(s.modDir(profileName, platform, modID), platform)
	if err != nil {
		return nil, false
	}
	return rec, true
}

// InstalledVersionName returns the version name recorded for a mod, or
// false when the mod is not installed in this profile.
func (s *Store) InstalledVersionName(profileName string, platform domain.Platform, modID string) (string, bool) {
	rec, ok := s.Installed(profileName, platform, modID)
	if !ok {
		return "", false
	}
	return rec.VersionName, true
}

func (s *Store) readRecord(dir string, platform domain.Platform) (*domain.ModRecord, error) {
	data, err := os.ReadFile(filepath.Join(dir, propertiesFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrModNotFound, filepath.Base(dir))
		}
		return nil, fmt.Errorf("reading mod record: %w", err)
	}

	var rec domain.ModRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing mod record: %w", err)
	}
	rec.Platform = platform
	return &rec, nil
}

func writeRecord(dir string, rec *domain.ModRecord) error {
	data, err := json.MarshalIndent(rec, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling mod record: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, propertiesFile), data, 0644); err != nil {
		return fmt.Errorf("writing mod record: %w", err)
	}
	return nil
}
