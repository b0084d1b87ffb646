package core

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"mmm/internal/domain"
)

// PickBestLoaderBuild scans the game's versions directory for installed
// builds of the requested loader that target the requested Minecraft
// version, and returns the build directory name with the highest loader
// version.
//
// Installed builds follow loader-specific naming:
//
//	fabric  fabric-loader-<loader>-<mc>
//	quilt   quilt-loader-<loader>-<mc>
//	forge   <mc>-forge-<loader>
//	neoforge neoforge-<loader>, where the loader stream drops the leading
//	         Minecraft component ("1.21.4" -> builds starting "21.4")
//
// A versions directory that cannot be read means the configured game
// folder is not a Minecraft installation (ErrInvalidGameDir); a readable
// directory with no matching build means the loader itself is missing
// (ErrLoaderNotInstalled). Callers react differently to the two.
func PickBestLoaderBuild(versionsDir string, loader domain.Loader, gameVersion string) (string, error) {
	entries, err := os.ReadDir(versionsDir)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidGameDir, versionsDir)
	}

	var bestName, bestVersion string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		loaderVersion, ok := parseLoaderBuild(entry.Name(), loader, gameVersion)
		if !ok {
			continue
		}
		if bestName == "" || domain.CompareVersions(loaderVersion, bestVersion) > 0 {
			bestName = entry.Name()
			bestVersion = loaderVersion
		}
	}

	if bestName == "" {
		return "", fmt.Errorf("%w: %s for minecraft %s", domain.ErrLoaderNotInstalled, loader, gameVersion)
	}
	return bestName, nil
}

// parseLoaderBuild extracts the pure loader version from a build
// directory name, returning false when the name does not belong to the
// requested loader and Minecraft version.
func parseLoaderBuild(name string, loader domain.Loader, gameVersion string) (string, bool) {
	parts := strings.Split(name, "-")

	switch loader {
	case domain.LoaderFabric, domain.LoaderQuilt:
		// <loader>-loader-<version>-<mc>
		if len(parts) != 4 {
			return "", false
		}
		if !strings.EqualFold(parts[0], loader.String()) || !strings.EqualFold(parts[1], "loader") {
			return "", false
		}
		if parts[3] != gameVersion {
			return "", false
		}
		return parts[2], true

	case domain.LoaderForge:
		// <mc>-forge-<version>
		if len(parts) != 3 {
			return "", false
		}
		if parts[0] != gameVersion || !strings.EqualFold(parts[1], "forge") {
			return "", false
		}
		return parts[2], true

	case domain.LoaderNeoforge:
		// neoforge-<version>; the version stream drops the leading
		// Minecraft component
		if len(parts) != 2 || !strings.EqualFold(parts[0], "neoforge") {
			return "", false
		}
		expected := neoforgeStream(gameVersion)
		if expected == "" {
			return "", false
		}
		if parts[1] != expected && !strings.HasPrefix(parts[1], expected+".") {
			return "", false
		}
		return parts[1], true
	}
	return "", false
}

// neoforgeStream maps a Minecraft version to the matching neoforge
// version prefix: "1.21.4" -> "21.4", "1.21" -> "21".
func neoforgeStream(gameVersion string) string {
	i := strings.IndexByte(gameVersion, '.')
	if i < 0 || i == len(gameVersion)-1 {
		return ""
	}
	return gameVersion[i+1:]
}

// VersionList is the outcome of filtering a mod's published versions for
// a profile.
type VersionList struct {
	Versions      []domain.RemoteVersion
	LatestID      string // most recent entry in Versions
	RecommendedID string // most recent stable entry compatible with the profile's game version
}

// FilterVersions narrows a mod's published versions to those usable by
// the requested loader, most recent first. With onlyCompatible set the
// version must additionally declare the profile's Minecraft version.
// Sorting by publish date applies regardless of filtering.
func FilterVersions(versions []domain.RemoteVersion, loader domain.Loader, gameVersion string, onlyCompatible bool) VersionList {
	filtered := make([]domain.RemoteVersion, 0, len(versions))
	for _, v := range versions {
		if !v.SupportsLoader(loader) {
			continue
		}
		if onlyCompatible && !v.SupportsGameVersion(gameVersion) {
			continue
		}
		filtered = append(filtered, v)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].PublishedAt.After(filtered[j].PublishedAt)
	})

	list := VersionList{Versions: filtered}
	if len(filtered) > 0 {
		list.LatestID = filtered[0].ID
	}
	for _, v := range filtered {
		if v.ReleaseType == domain.ReleaseStable && v.SupportsGameVersion(gameVersion) {
			list.RecommendedID = v.ID
			break
		}
	}
	return list
}
