package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install <mod-id>",
	Short: "Install a mod into a profile",
	Long: `Download a mod version and record it in a profile. Without
--version-id the recommended version is installed. Installing a
different version of an already installed mod replaces it.

Examples:
  mmm install AANobbMI --profile survival
  mmm install 238222 --platform curseforge --profile survival --version-id 5001`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

var (
	installPlatform  string
	installProfile   string
	installVersionID string
)

func init() {
	installCmd.Flags().StringVarP(&installPlatform, "platform", "p", "", "platform: modrinth (default) or curseforge")
	installCmd.Flags().StringVar(&installProfile, "profile", "", "target profile (required)")
	installCmd.Flags().StringVar(&installVersionID, "version-id", "", "specific version to install")
	_ = installCmd.MarkFlagRequired("profile")

	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	platform, err := parsePlatformFlag(installPlatform)
	if err != nil {
		return err
	}

	service, _, closeLog, err := initService("")
	if err != nil {
		return err
	}
	defer closeLog()

	picked, err := service.Install(context.Background(), installProfile, platform, args[0], installVersionID)
	if err != nil {
		return fmt.Errorf("installing mod: %w", err)
	}

	fmt.Printf("✓ Installed %s (%s) into %s\n", args[0], picked.Name, installProfile)
	return nil
}
