package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mmm/internal/core"
	"mmm/internal/domain"
	"mmm/internal/logging"
	"mmm/internal/source/curseforge"
	"mmm/internal/source/modrinth"
)

var (
	version = "1.0.0"

	// Global flags
	dataDir string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mmm",
	Short: "Minecraft Mod Manager - profile-based mod management",
	Long: `mmm manages per-profile Minecraft mod sets and reconciles them with the
game's mods directory around each launch.

Profiles fix a game version and a mod loader; mods come from Modrinth and
CurseForge or from local jar files. Run 'mmm --help' for available commands.`,
	Version:       version,
	SilenceUsage:  true, // Runtime errors should not print usage
	SilenceErrors: true, // We handle error output in Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default: ~/.local/share/mmm)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// Execute runs the root command. Exit codes: 0 = success, 1 = error,
// 2 = user cancelled.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolveDataDir returns the app data directory, honoring --data
func resolveDataDir() (string, error) {
	if dataDir != "" {
		return dataDir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "mmm"), nil
}

func logDir(dataDir string) string {
	return filepath.Join(dataDir, "logs")
}

// initService creates the core service, the logger behind it and the
// platform sources. launcherProgram may be empty for commands that never
// start the game. The returned closer flushes the log file.
func initService(launcherProgram string) (*core.Service, *zap.SugaredLogger, func(), error) {
	dir, err := resolveDataDir()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, nil, fmt.Errorf("creating data dir: %w", err)
	}

	log, closeLog, err := logging.New(logDir(dir), verbose)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initializing logging: %w", err)
	}

	var launcher core.Launcher
	if launcherProgram != "" {
		launcher = core.NewCommandLauncher(launcherProgram, nil, log)
	}

	svc, err := core.NewService(core.ServiceConfig{DataDir: dir, Launcher: launcher}, log)
	if err != nil {
		closeLog()
		return nil, nil, nil, err
	}

	svc.RegisterSource(modrinth.New(nil))
	svc.RegisterSource(curseforge.New(nil, svc.Settings().CurseforgeProxy))

	return svc, log, closeLog, nil
}

// parsePlatformFlag maps the --platform flag, defaulting to modrinth
func parsePlatformFlag(value string) (domain.Platform, error) {
	if value == "" {
		return domain.PlatformModrinth, nil
	}
	return domain.ParsePlatform(value)
}
