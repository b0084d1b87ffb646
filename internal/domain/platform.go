package domain

import "fmt"

// Platform identifies a mod distribution platform
type Platform int

const (
	PlatformModrinth Platform = iota
	PlatformCurseforge
)

// Platforms lists every supported platform
var Platforms = []Platform{PlatformModrinth, PlatformCurseforge}

func (p Platform) String() string {
	switch p {
	case PlatformModrinth:
		return "modrinth"
	case PlatformCurseforge:
		return "curseforge"
	default:
		return "unknown"
	}
}

// ParsePlatform converts a platform name to its Platform value
func ParsePlatform(s string) (Platform, error) {
	switch s {
	case "modrinth":
		return PlatformModrinth, nil
	case "curseforge":
		return PlatformCurseforge, nil
	default:
		return 0, fmt.Errorf("unknown platform: %q", s)
	}
}

// Loader identifies a mod loader
type Loader int

const (
	LoaderFabric Loader = iota
	LoaderForge
	LoaderNeoforge
	LoaderQuilt
)

// Loaders lists every supported loader
var Loaders = []Loader{LoaderFabric, LoaderForge, LoaderNeoforge, LoaderQuilt}

func (l Loader) String() string {
	switch l {
	case LoaderFabric:
		return "fabric"
	case LoaderForge:
		return "forge"
	case LoaderNeoforge:
		return "neoforge"
	case LoaderQuilt:
		return "quilt"
	default:
		return "unknown"
	}
}

// DownloadPage returns the loader's installer download page, shown when
// no matching build is installed
func (l Loader) DownloadPage() string {
	switch l {
	case LoaderFabric:
		return "https://fabricmc.net/use/installer/"
	case LoaderForge:
		return "https://files.minecraftforge.net/"
	case LoaderNeoforge:
		return "https://neoforged.net/"
	case LoaderQuilt:
		return "https://quiltmc.org/en/install/"
	default:
		return ""
	}
}

// ParseLoader converts a loader name to its Loader value
func ParseLoader(s string) (Loader, error) {
	switch s {
	case "fabric":
		return LoaderFabric, nil
	case "forge":
		return LoaderForge, nil
	case "neoforge":
		return LoaderNeoforge, nil
	case "quilt":
		return LoaderQuilt, nil
	default:
		return 0, fmt.Errorf("unknown loader: %q", s)
	}
}

// ReleaseType is a version's stability channel
type ReleaseType int

const (
	ReleaseStable ReleaseType = iota
	ReleaseBeta
	ReleaseAlpha
)

func (r ReleaseType) String() string {
	switch r {
	case ReleaseStable:
		return "release"
	case ReleaseBeta:
		return "beta"
	default:
		return "alpha"
	}
}

// ParseReleaseType maps a channel name to its ReleaseType. Unknown
// channels are treated as alpha, the most conservative reading.
func ParseReleaseType(s string) ReleaseType {
	switch s {
	case "release":
		return ReleaseStable
	case "beta":
		return ReleaseBeta
	default:
		return ReleaseAlpha
	}
}
