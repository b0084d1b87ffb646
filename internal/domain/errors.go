package domain

import "errors"

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileExists      = errors.New("profile already exists")
	ErrInvalidName        = errors.New("invalid name")
	ErrModNotFound        = errors.New("mod not found")
	ErrNoVersionSelected  = errors.New("no version selected")
	ErrNameCollision      = errors.New("file name already taken")
	ErrInvalidGameDir     = errors.New("not a valid minecraft directory")
	ErrLoaderNotInstalled = errors.New("mod loader not installed")
	ErrRestoreFailed      = errors.New("restoring previous mods failed")
	ErrUpstreamRequest    = errors.New("upstream request failed")
	ErrCancelled          = errors.New("cancelled")
)
