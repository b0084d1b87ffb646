package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mmm/internal/core"
)

var activateCmd = &cobra.Command{
	Use:   "activate <profile>",
	Short: "Copy a profile's mods into the game's mods directory",
	Long: `Reconcile the game's mods directory with a profile: flat files not
belonging to the profile are removed, the profile's mods are copied in.
Subdirectories are left alone.

Use this to apply a profile without launching through mmm.`,
	Args: cobra.ExactArgs(1),
	RunE: runActivate,
}

var launchCmd = &cobra.Command{
	Use:   "launch <profile>",
	Short: "Launch the game with a profile's mods",
	Long: `Run a full launch cycle: stash the current mods, activate the
profile, start the game through the configured launcher command and,
once it exits, restore the previous mods.

The launcher command receives the resolved parameters through MMM_*
environment variables (MMM_LOADER_BUILD, MMM_GAME_DIR, MMM_USERNAME,
MMM_UUID, MMM_TOKEN).

Examples:
  mmm launch survival --launcher ./start-minecraft.sh`,
	Args: cobra.ExactArgs(1),
	RunE: runLaunch,
}

var launcherProgram string

func init() {
	launchCmd.Flags().StringVar(&launcherProgram, "launcher", "", "launcher program to run (default: $MMM_LAUNCHER)")

	rootCmd.AddCommand(activateCmd)
	rootCmd.AddCommand(launchCmd)
}

func runActivate(cmd *cobra.Command, args []string) error {
	service, log, closeLog, err := initService("")
	if err != nil {
		return err
	}
	defer closeLog()

	// Activation is profile-driven; verify the profile exists first so a
	// typo does not empty the mods directory.
	if _, err := service.Profiles().Get(args[0]); err != nil {
		return err
	}

	activator := core.NewActivator(service.Mods(), service.Settings().ModsDir(), log)
	if err := activator.Activate(args[0]); err != nil {
		return fmt.Errorf("activating profile: %w", err)
	}

	fmt.Printf("✓ Activated profile: %s\n", args[0])
	return nil
}

func runLaunch(cmd *cobra.Command, args []string) error {
	program := launcherProgram
	if program == "" {
		program = os.Getenv("MMM_LAUNCHER")
	}
	if program == "" {
		return fmt.Errorf("no launcher configured; pass --launcher or set MMM_LAUNCHER")
	}

	service, log, closeLog, err := initService(program)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Launching %s...\n", args[0])
	if err := service.Launch(ctx, args[0]); err != nil {
		log.Errorw("launch failed", "profile", args[0], "error", err)
		return err
	}

	fmt.Println("✓ Game exited, previous mods restored")
	return nil
}
