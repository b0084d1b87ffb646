package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mmm/internal/domain"
)

var jarCmd = &cobra.Command{
	Use:   "jar",
	Short: "Manage a profile's raw jar files",
	Long: `Manage mod files added from disk instead of a platform. Raw jars
live alongside marketplace mods and are activated the same way.`,
}

var jarAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Add a jar file to a profile",
	Long: `Copy a local jar file into a profile. When a jar with the same name
already exists, --on-conflict decides what happens: cancel (default),
overwrite, or rename.

Examples:
  mmm jar add ~/Downloads/custom.jar --profile survival --on-conflict rename`,
	Args: cobra.ExactArgs(1),
	RunE: runJarAdd,
}

var jarRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a jar file in a profile",
	Args:  cobra.ExactArgs(2),
	RunE:  runJarRename,
}

var jarRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a jar file from a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runJarRemove,
}

var (
	jarProfile    string
	jarOnConflict string
)

func init() {
	jarCmd.PersistentFlags().StringVar(&jarProfile, "profile", "", "target profile (required)")
	_ = jarCmd.MarkPersistentFlagRequired("profile")

	jarAddCmd.Flags().StringVar(&jarOnConflict, "on-conflict", "cancel", "name collision policy: cancel, overwrite or rename")

	jarCmd.AddCommand(jarAddCmd)
	jarCmd.AddCommand(jarRenameCmd)
	jarCmd.AddCommand(jarRemoveCmd)

	rootCmd.AddCommand(jarCmd)
}

func runJarAdd(cmd *cobra.Command, args []string) error {
	policy := domain.ParseCollisionPolicy(jarOnConflict)

	service, _, closeLog, err := initService("")
	if err != nil {
		return err
	}
	defer closeLog()

	name, err := service.Mods().AddJar(jarProfile, args[0], policy)
	if err != nil {
		return fmt.Errorf("adding jar: %w", err)
	}

	fmt.Printf("✓ Added %s to %s\n", name, jarProfile)
	return nil
}

func runJarRename(cmd *cobra.Command, args []string) error {
	service, _, closeLog, err := initService("")
	if err != nil {
		return err
	}
	defer closeLog()

	if err := service.Mods().RenameJar(jarProfile, args[0], args[1]); err != nil {
		return fmt.Errorf("renaming jar: %w", err)
	}

	fmt.Printf("✓ Renamed %s -> %s\n", args[0], args[1])
	return nil
}

func runJarRemove(cmd *cobra.Command, args []string) error {
	service, _, closeLog, err := initService("")
	if err != nil {
		return err
	}
	defer closeLog()

	if err := service.Mods().RemoveJar(jarProfile, args[0]); err != nil {
		return fmt.Errorf("removing jar: %w", err)
	}

	fmt.Printf("✓ Removed %s from %s\n", args[0], jarProfile)
	return nil
}
