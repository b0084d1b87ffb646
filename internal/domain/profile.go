package domain

import (
	"fmt"
	"strings"
)

// Profile is a named combination of Minecraft version and mod loader.
// Its name doubles as the on-disk directory key, so it must stay
// filesystem-safe and unique across all profiles.
type Profile struct {
	Name        string `json:"name"`
	GameVersion string `json:"version"`
	Loader      Loader `json:"-"`
}

// ValidateName rejects names that cannot safely serve as a single path
// element: empty, "." or "..", or anything containing a path separator.
// Profile names, mod ids and jar file names all become directory or file
// names under the data directory and must pass this check before any
// path is built from them.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// CollisionPolicy decides what happens when an incoming file or profile
// would shadow an existing one
type CollisionPolicy int

const (
	CollisionCancel CollisionPolicy = iota
	CollisionOverwrite
	CollisionRename // append _1, _2, ... until the name is free
)

func (p CollisionPolicy) String() string {
	switch p {
	case CollisionOverwrite:
		return "overwrite"
	case CollisionRename:
		return "rename"
	default:
		return "cancel"
	}
}

// ParseCollisionPolicy converts a string to a CollisionPolicy
func ParseCollisionPolicy(s string) CollisionPolicy {
	switch s {
	case "overwrite":
		return CollisionOverwrite
	case "rename":
		return CollisionRename
	default:
		return CollisionCancel
	}
}
