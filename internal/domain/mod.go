package domain

import (
	"strings"
	"time"
)

// ModRecord is the persisted metadata for one marketplace mod installed in
// a profile. At most one record exists per (profile, platform, mod id).
// The referenced FileName lives next to the record on disk.
type ModRecord struct {
	ModID       string    `json:"modId"`
	Platform    Platform  `json:"-"`
	VersionID   string    `json:"versionId"`
	VersionName string    `json:"versionName"`
	FileName    string    `json:"fileName"`
	DownloadURL string    `json:"downloadUrl"`
	ReleaseType string    `json:"releaseType"`
	McVersions  []string  `json:"mcVersions"`
	PublishedAt time.Time `json:"publishedAt"`
	ModName     string    `json:"modName"`
	Authors     []string  `json:"authors"`
	IconURL     string    `json:"iconUrl"`
}

// RemoteVersion is one version of a mod as published on a platform,
// normalized to the same shape regardless of where it came from.
type RemoteVersion struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	FileName    string      `json:"fileName"`
	DownloadURL string      `json:"downloadUrl"`
	ReleaseType ReleaseType `json:"releaseType"`
	Loaders     []string    `json:"loaders"`
	McVersions  []string    `json:"mcVersions"`
	PublishedAt time.Time   `json:"publishedAt"`
}

// SupportsLoader reports whether the version declares compatibility with
// the given loader. Platform loader lists vary in casing.
func (v RemoteVersion) SupportsLoader(loader Loader) bool {
	want := loader.String()
	for _, l := range v.Loaders {
		if strings.EqualFold(l, want) {
			return true
		}
	}
	return false
}

// SupportsGameVersion reports whether the version declares compatibility
// with the given Minecraft version.
func (v RemoteVersion) SupportsGameVersion(gameVersion string) bool {
	for _, mc := range v.McVersions {
		if mc == gameVersion {
			return true
		}
	}
	return false
}

// ModInfo is the platform-level description of a mod, used for search
// results and detail pages.
type ModInfo struct {
	ID          string   `json:"id"`
	Platform    Platform `json:"-"`
	Name        string   `json:"name"`
	Summary     string   `json:"summary"`
	Authors     []string `json:"authors"`
	IconURL     string   `json:"iconUrl"`
	Downloads   int64    `json:"downloads"`
	PageURL     string   `json:"pageUrl"`
}

// LaunchOptions is the bag of parameters handed to the external
// game-launch capability.
type LaunchOptions struct {
	LoaderBuild     string // resolved versions/ directory name
	GameDir         string // minecraft installation root
	Username        string
	UUID            string // placeholder, offline mode
	Token           string // placeholder, offline mode
	LauncherName    string
	LauncherVersion string
}
