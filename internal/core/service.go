package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"mmm/internal/domain"
	"mmm/internal/source"
	"mmm/internal/storage/cache"
	"mmm/internal/storage/config"
	"mmm/internal/storage/modstore"
	"mmm/internal/storage/profile"
)

// ServiceConfig holds configuration for the core service
type ServiceConfig struct {
	DataDir  string // directory for settings, profiles and cache
	Launcher Launcher

	// Fetcher overrides the HTTP downloader used for mod binaries.
	// Nil means the default downloader.
	Fetcher modstore.Downloader
}

// Service is the main orchestrator for profile and mod operations
type Service struct {
	settings  *config.Settings
	profiles  *profile.Store
	mods      *modstore.Store
	cache     *cache.Cache
	registry  *source.Registry
	dl        *Downloader
	lifecycle *Lifecycle
	log       *zap.SugaredLogger

	dataDir string
}

// NewService creates a new core service instance
func NewService(cfg ServiceConfig, log *zap.SugaredLogger) (*Service, error) {
	settings, err := config.Load(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	dl := NewDownloader(nil)
	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = dl
	}
	fileCache := cache.New(cfg.DataDir)
	profiles := profile.New(cfg.DataDir, log)
	mods := modstore.New(cfg.DataDir, fetcher, log)

	activator := NewActivator(mods, settings.ModsDir(), log)
	lifecycle := NewLifecycle(profiles, activator, cfg.Launcher, LifecycleOptions{
		GameDir:  settings.MinecraftFolder,
		StashDir: fileCache.StashDir(),
		Username: settings.OfflineUsername,
	}, log)

	return &Service{
		settings:  settings,
		profiles:  profiles,
		mods:      mods,
		cache:     fileCache,
		registry:  source.NewRegistry(),
		dl:        dl,
		lifecycle: lifecycle,
		log:       log,
		dataDir:   cfg.DataDir,
	}, nil
}

// Settings returns the loaded settings
func (s *Service) Settings() *config.Settings {
	return s.settings
}

// SaveSettings persists the current settings
func (s *Service) SaveSettings() error {
	return config.Save(s.dataDir, s.settings)
}

// Profiles returns the profile store
func (s *Service) Profiles() *profile.Store {
	return s.profiles
}

// Mods returns the mod store
func (s *Service) Mods() *modstore.Store {
	return s.mods
}

// Lifecycle returns the launch lifecycle
func (s *Service) Lifecycle() *Lifecycle {
	return s.lifecycle
}

// RegisterSource adds a platform source to the registry
func (s *Service) RegisterSource(src source.Source) {
	s.registry.Register(src)
}

// Search queries a platform for mods and caches what it learns about
// each hit.
func (s *Service) Search(ctx context.Context, platform domain.Platform, query source.SearchQuery) ([]domain.ModInfo, error) {
	src, err := s.registry.Get(platform)
	if err != nil {
		return nil, err
	}

	mods, err := src.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	for i := range mods {
		s.cacheModInfo(ctx, &mods[i])
	}
	return mods, nil
}

// GetMod retrieves a mod's details, serving from the cache when the
// platform has been asked before.
func (s *Service) GetMod(ctx context.Context, platform domain.Platform, modID string) (*domain.ModInfo, error) {
	path := s.cache.ModInfoPath(platform, modID)
	if data, ok, err := s.cache.Read(path); err == nil && ok {
		var info domain.ModInfo
		if err := json.Unmarshal(data, &info); err == nil {
			info.Platform = platform
			return &info, nil
		}
		s.log.Warnw("corrupt cached mod info", "path", path)
	}

	src, err := s.registry.Get(platform)
	if err != nil {
		return nil, err
	}
	info, err := src.GetMod(ctx, modID)
	if err != nil {
		return nil, err
	}
	s.cacheModInfo(ctx, info)
	return info, nil
}

// Versions lists a mod's published versions filtered for a profile.
// onlyCompatible additionally requires the profile's game version.
func (s *Service) Versions(ctx context.Context, profileName string, platform domain.Platform, modID string, onlyCompatible bool) (VersionList, error) {
	prof, err := s.profiles.Get(profileName)
	if err != nil {
		return VersionList{}, err
	}

	src, err := s.registry.Get(platform)
	if err != nil {
		return VersionList{}, err
	}
	versions, err := src.GetVersions(ctx, modID)
	if err != nil {
		return VersionList{}, err
	}

	for i := range versions {
		if data, err := json.Marshal(versions[i]); err == nil {
			if _, err := s.cache.WriteOnce(s.cache.VersionPath(platform, modID, versions[i].ID), data); err != nil {
				s.log.Warnw("caching version", "error", err)
			}
		}
	}

	return FilterVersions(versions, prof.Loader, prof.GameVersion, onlyCompatible), nil
}

// Install downloads a specific version of a mod into a profile. An empty
// versionID means the recommended version, falling back to the latest.
func (s *Service) Install(ctx context.Context, profileName string, platform domain.Platform, modID, versionID string) (*domain.RemoteVersion, error) {
	info, err := s.GetMod(ctx, platform, modID)
	if err != nil {
		return nil, err
	}

	list, err := s.Versions(ctx, profileName, platform, modID, false)
	if err != nil {
		return nil, err
	}

	if versionID == "" {
		versionID = list.RecommendedID
		if versionID == "" {
			versionID = list.LatestID
		}
	}

	var picked *domain.RemoteVersion
	for i := range list.Versions {
		if list.Versions[i].ID == versionID {
			picked = &list.Versions[i]
			break
		}
	}
	if picked == nil {
		return nil, domain.ErrNoVersionSelected
	}

	if err := s.mods.Install(ctx, profileName, info, picked); err != nil {
		return nil, err
	}
	return picked, nil
}

// Uninstall removes a mod from a profile
func (s *Service) Uninstall(profileName string, platform domain.Platform, modID string) error {
	return s.mods.Remove(profileName, platform, modID)
}

// CheckUpdate reports whether a newer version of an installed mod exists
// for the profile's loader and game version. A nil result means the mod
// is current. Platforms do not agree on version naming, so newer means a
// different version id with a later publish date, never a name
// comparison.
func (s *Service) CheckUpdate(ctx context.Context, profileName string, platform domain.Platform, modID string) (*domain.RemoteVersion, error) {
	installed, ok := s.mods.Installed(profileName, platform, modID)
	if !ok {
		return nil, domain.ErrModNotFound
	}

	list, err := s.Versions(ctx, profileName, platform, modID, true)
	if err != nil {
		return nil, err
	}
	if len(list.Versions) == 0 {
		return nil, nil
	}

	newest := list.Versions[0]
	if newest.ID == installed.VersionID {
		return nil, nil
	}
	if newest.PublishedAt.After(installed.PublishedAt) {
		return &newest, nil
	}
	return nil, nil
}

// Launch runs the full launch cycle for a profile
func (s *Service) Launch(ctx context.Context, profileName string) error {
	return s.lifecycle.Launch(ctx, profileName)
}

// cacheModInfo persists a mod's description and icon. Cache writes are
// best effort; a failure never propagates to the caller.
func (s *Service) cacheModInfo(ctx context.Context, info *domain.ModInfo) {
	if data, err := json.Marshal(info); err == nil {
		if _, err := s.cache.WriteOnce(s.cache.ModInfoPath(info.Platform, info.ID), data); err != nil {
			s.log.Warnw("caching mod info", "mod", info.ID, "error", err)
		}
	}

	if info.IconURL == "" {
		return
	}
	iconPath := s.cache.IconPath(info.Platform, info.ID)
	if _, err := os.Stat(iconPath); err == nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(iconPath), 0755); err != nil {
		return
	}
	if err := s.dl.Fetch(ctx, info.IconURL, iconPath); err != nil {
		s.log.Debugw("fetching icon", "mod", info.ID, "error", err)
	}
}
