package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mmm/internal/domain"
	"mmm/internal/storage/profile"
)

// State is the launch lifecycle's current phase
type State int

const (
	StateIdle State = iota
	StateResolving
	StateStashing
	StateActivating
	StateRunning
	StateRestoring
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateStashing:
		return "stashing"
	case StateActivating:
		return "activating"
	case StateRunning:
		return "running"
	case StateRestoring:
		return "restoring"
	default:
		return "unknown"
	}
}

// Launcher starts the external game process and blocks until it exits.
// The actual launcher (auth, assets, JVM arguments) is outside this
// program's boundary.
type Launcher interface {
	Launch(ctx context.Context, opts domain.LaunchOptions) error
}

// LifecycleOptions configures a launch lifecycle
type LifecycleOptions struct {
	GameDir         string // minecraft installation root
	StashDir        string // transient area for the previous mod set
	Username        string // offline-mode username
	LauncherName    string
	LauncherVersion string

	// Restore retry knobs; zero values take the defaults below
	RestoreRetries int
	RestoreBackoff time.Duration
}

const (
	defaultRestoreRetries = 20
	defaultRestoreBackoff = 500 * time.Millisecond
)

// Lifecycle orchestrates a profile launch: stash the live mod set,
// activate the target profile, run the game, restore the previous set.
// One launch at a time; the mutex covers the whole Idle-to-Idle cycle.
type Lifecycle struct {
	mu        sync.Mutex
	profiles  *profile.Store
	activator *Activator
	launcher  Launcher
	opts      LifecycleOptions
	log       *zap.SugaredLogger

	stateMu sync.Mutex
	state   State

	// removeFile is os.Remove; tests replace it to simulate files the
	// exited game still holds open.
	removeFile func(string) error
}

// NewLifecycle creates a launch lifecycle
func NewLifecycle(profiles *profile.Store, activator *Activator, launcher Launcher, opts LifecycleOptions, log *zap.SugaredLogger) *Lifecycle {
	if opts.RestoreRetries <= 0 {
		opts.RestoreRetries = defaultRestoreRetries
	}
	if opts.RestoreBackoff <= 0 {
		opts.RestoreBackoff = defaultRestoreBackoff
	}
	return &Lifecycle{
		profiles:   profiles,
		activator:  activator,
		launcher:   launcher,
		opts:       opts,
		log:        log,
		removeFile: os.Remove,
	}
}

// State reports the lifecycle's current phase
func (l *Lifecycle) State() State {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()
	return l.state
}

func (l *Lifecycle) setState(s State) {
	l.stateMu.Lock()
	l.state = s
	l.stateMu.Unlock()
}

// Launch runs a full launch cycle for the named profile and blocks until
// the game exits and the previous mod set is back in place. Resolution
// failures surface before any file has moved. Once the game has started
// there is no cancellation path other than the process exiting; a game
// that crashes is restored exactly like one that quit cleanly.
func (l *Lifecycle) Launch(ctx context.Context, profileName string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.setState(StateIdle)

	l.setState(StateResolving)
	prof, err := l.profiles.Get(profileName)
	if err != nil {
		return err
	}

	versionsDir := filepath.Join(l.opts.GameDir, "versions")
	build, err := PickBestLoaderBuild(versionsDir, prof.Loader, prof.GameVersion)
	if err != nil {
		return err
	}
	l.log.Infow("resolved loader build", "profile", profileName, "build", build)

	modsDir := filepath.Join(l.opts.GameDir, "mods")
	if err := os.MkdirAll(modsDir, 0755); err != nil {
		return fmt.Errorf("creating mods dir: %w", err)
	}

	l.setState(StateStashing)
	if err := l.stash(modsDir); err != nil {
		return fmt.Errorf("stashing current mods: %w", err)
	}

	l.setState(StateActivating)
	if err := l.activator.Activate(profileName); err != nil {
		// Put the previous set back rather than leaving the target
		// profile half-applied. A failed restore outranks the
		// activation error: the mods directory is then in an unknown
		// state.
		if restoreErr := l.restore(modsDir); restoreErr != nil {
			l.log.Errorw("restore after failed activation", "error", restoreErr)
			return restoreErr
		}
		return fmt.Errorf("activating profile: %w", err)
	}

	l.setState(StateRunning)
	launchErr := l.launcher.Launch(ctx, domain.LaunchOptions{
		LoaderBuild:     build,
		GameDir:         l.opts.GameDir,
		Username:        l.opts.Username,
		UUID:            uuid.NewString(),
		Token:           uuid.NewString(),
		LauncherName:    l.opts.LauncherName,
		LauncherVersion: l.opts.LauncherVersion,
	})
	if launchErr != nil {
		l.log.Warnw("game process exited with error", "error", launchErr)
	}

	l.setState(StateRestoring)
	if err := l.restore(modsDir); err != nil {
		return err
	}

	return launchErr
}

// stash moves every flat file from the mods directory into the stash
// area. Move, not copy: the mods directory must end up empty of the
// previous set.
func (l *Lifecycle) stash(modsDir string) error {
	if err := os.MkdirAll(l.opts.StashDir, 0755); err != nil {
		return fmt.Errorf("creating stash dir: %w", err)
	}

	names, err := flatFiles(modsDir)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := os.Rename(filepath.Join(modsDir, name), filepath.Join(l.opts.StashDir, name)); err != nil {
			return fmt.Errorf("stashing %s: %w", name, err)
		}
	}
	return nil
}

// restore deletes the profile's files from the mods directory and moves
// the stashed previous set back. The game can hold file handles briefly
// after reporting exit, so deletion retries with a fixed backoff up to a
// cap before giving up with ErrRestoreFailed.
func (l *Lifecycle) restore(modsDir string) error {
	names, err := flatFiles(modsDir)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRestoreFailed, err)
	}
	for _, name := range names {
		if err := l.removeWithRetry(filepath.Join(modsDir, name)); err != nil {
			return err
		}
	}

	stashed, err := flatFiles(l.opts.StashDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // nothing was stashed
		}
		return fmt.Errorf("%w: %v", domain.ErrRestoreFailed, err)
	}
	for _, name := range stashed {
		if err := os.Rename(filepath.Join(l.opts.StashDir, name), filepath.Join(modsDir, name)); err != nil {
			return fmt.Errorf("%w: moving %s back: %v", domain.ErrRestoreFailed, name, err)
		}
	}

	if err := os.RemoveAll(l.opts.StashDir); err != nil {
		l.log.Warnw("removing stash dir", "error", err)
	}
	return nil
}

func (l *Lifecycle) removeWithRetry(path string) error {
	var lastErr error
	for attempt := 0; attempt < l.opts.RestoreRetries; attempt++ {
		lastErr = l.removeFile(path)
		if lastErr == nil || errors.Is(lastErr, os.ErrNotExist) {
			return nil
		}
		l.log.Debugw("file still locked, retrying", "path", path, "attempt", attempt+1)
		time.Sleep(l.opts.RestoreBackoff)
	}
	return fmt.Errorf("%w: deleting %s: %v", domain.ErrRestoreFailed, path, lastErr)
}

// CommandLauncher shells out to an external launcher program, passing the
// resolved launch parameters through MMM_* environment variables.
type CommandLauncher struct {
	Program string
	Args    []string
	log     *zap.SugaredLogger
}

// NewCommandLauncher creates a launcher running the given program
func NewCommandLauncher(program string, args []string, log *zap.SugaredLogger) *CommandLauncher {
	return &CommandLauncher{Program: program, Args: args, log: log}
}

// Launch starts the launcher process and blocks until it exits
func (c *CommandLauncher) Launch(ctx context.Context, opts domain.LaunchOptions) error {
	cmd := exec.CommandContext(ctx, c.Program, c.Args...)
	cmd.WaitDelay = 100 * time.Millisecond
	cmd.Env = append(os.Environ(),
		"MMM_LOADER_BUILD="+opts.LoaderBuild,
		"MMM_GAME_DIR="+opts.GameDir,
		"MMM_USERNAME="+opts.Username,
		"MMM_UUID="+opts.UUID,
		"MMM_TOKEN="+opts.Token,
		"MMM_LAUNCHER_NAME="+opts.LauncherName,
		"MMM_LAUNCHER_VERSION="+opts.LauncherVersion,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.log.Infow("starting game", "build", opts.LoaderBuild, "program", c.Program)
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("game process: %w: %s", err, stderr.String())
		}
		return fmt.Errorf("game process: %w", err)
	}
	return nil
}
