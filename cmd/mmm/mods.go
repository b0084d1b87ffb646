package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mmm/internal/domain"
)

var modsCmd = &cobra.Command{
	Use:   "mods",
	Short: "List a profile's mods",
	Long: `List a profile's installed mods: marketplace mods sorted by name,
then raw jar files.

Examples:
  mmm mods --profile survival`,
	RunE: runMods,
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check a profile's mods for newer versions",
	Long: `Check every marketplace mod in a profile against its platform and
report the ones with a newer compatible version. With --apply the newer
versions are installed.`,
	RunE: runUpdate,
}

var (
	modsProfile   string
	updateProfile string
	updateApply   bool
)

func init() {
	modsCmd.Flags().StringVar(&modsProfile, "profile", "", "profile to list (required)")
	_ = modsCmd.MarkFlagRequired("profile")

	updateCmd.Flags().StringVar(&updateProfile, "profile", "", "profile to check (required)")
	updateCmd.Flags().BoolVar(&updateApply, "apply", false, "install the newer versions")
	_ = updateCmd.MarkFlagRequired("profile")

	rootCmd.AddCommand(modsCmd)
	rootCmd.AddCommand(updateCmd)
}

func runMods(cmd *cobra.Command, args []string) error {
	service, _, closeLog, err := initService("")
	if err != nil {
		return err
	}
	defer closeLog()

	entries, err := service.Mods().List(modsProfile)
	if err != nil {
		return fmt.Errorf("listing mods: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No mods installed.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tPLATFORM\tFILE")
	fmt.Fprintln(w, "----\t-------\t--------\t----")
	for _, e := range entries {
		if e.Record != nil {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Record.ModName, e.Record.VersionName, e.Record.Platform, e.Record.FileName)
		} else {
			fmt.Fprintf(w, "%s\t\tjar\t%s\n", e.JarName, e.JarName)
		}
	}
	w.Flush()

	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	service, _, closeLog, err := initService("")
	if err != nil {
		return err
	}
	defer closeLog()

	entries, err := service.Mods().List(updateProfile)
	if err != nil {
		return fmt.Errorf("listing mods: %w", err)
	}

	ctx := context.Background()
	updates := 0
	for _, e := range entries {
		if e.Record == nil {
			continue
		}

		newer, err := service.CheckUpdate(ctx, updateProfile, e.Record.Platform, e.Record.ModID)
		if err != nil {
			if errors.Is(err, domain.ErrUpstreamRequest) {
				fmt.Fprintf(os.Stderr, "warning: could not check %s: %v\n", e.Record.ModName, err)
				continue
			}
			return err
		}
		if newer == nil {
			continue
		}

		updates++
		if updateApply {
			if _, err := service.Install(ctx, updateProfile, e.Record.Platform, e.Record.ModID, newer.ID); err != nil {
				return fmt.Errorf("updating %s: %w", e.Record.ModName, err)
			}
			fmt.Printf("✓ Updated %s: %s -> %s\n", e.Record.ModName, e.Record.VersionName, newer.Name)
		} else {
			fmt.Printf("%s: %s -> %s available\n", e.Record.ModName, e.Record.VersionName, newer.Name)
		}
	}

	if updates == 0 {
		fmt.Println("All mods are up to date.")
	}
	return nil
}
