package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change application settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting. Keys: minecraftFolder, offlineUsername,
curseforgeProxy.

Examples:
  mmm settings set offlineUsername Steve
  mmm settings set minecraftFolder ~/.minecraft`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)

	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	service, _, closeLog, err := initService("")
	if err != nil {
		return err
	}
	defer closeLog()

	s := service.Settings()
	fmt.Printf("minecraftFolder: %s\n", s.MinecraftFolder)
	fmt.Printf("offlineUsername: %s\n", s.OfflineUsername)
	fmt.Printf("curseforgeProxy: %s\n", s.CurseforgeProxy)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	service, _, closeLog, err := initService("")
	if err != nil {
		return err
	}
	defer closeLog()

	s := service.Settings()
	switch args[0] {
	case "minecraftFolder":
		s.MinecraftFolder = args[1]
	case "offlineUsername":
		s.OfflineUsername = args[1]
	case "curseforgeProxy":
		s.CurseforgeProxy = args[1]
	default:
		return fmt.Errorf("unknown setting: %q", args[0])
	}

	if err := service.SaveSettings(); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	fmt.Printf("✓ %s = %s\n", args[0], args[1])
	return nil
}
