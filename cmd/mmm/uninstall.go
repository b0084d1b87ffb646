package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <mod-id>",
	Short: "Remove a mod from a profile",
	Long: `Remove a mod's record and file from a profile. Removing a mod that
is not installed is not an error.

Examples:
  mmm uninstall AANobbMI --profile survival`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstall,
}

var (
	uninstallPlatform string
	uninstallProfile  string
)

func init() {
	uninstallCmd.Flags().StringVarP(&uninstallPlatform, "platform", "p", "", "platform: modrinth (default) or curseforge")
	uninstallCmd.Flags().StringVar(&uninstallProfile, "profile", "", "target profile (required)")
	_ = uninstallCmd.MarkFlagRequired("profile")

	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	platform, err := parsePlatformFlag(uninstallPlatform)
	if err != nil {
		return err
	}

	service, _, closeLog, err := initService("")
	if err != nil {
		return err
	}
	defer closeLog()

	if err := service.Uninstall(uninstallProfile, platform, args[0]); err != nil {
		return fmt.Errorf("uninstalling mod: %w", err)
	}

	fmt.Printf("✓ Removed %s from %s\n", args[0], uninstallProfile)
	return nil
}
