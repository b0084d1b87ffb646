package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var versionsCmd = &cobra.Command{
	Use:   "versions <mod-id>",
	Short: "List a mod's published versions",
	Long: `List a mod's published versions, newest first, filtered to the
profile's loader. The latest and recommended versions are marked.

Examples:
  mmm versions AANobbMI --profile survival
  mmm versions 238222 --platform curseforge --profile survival --all`,
	Args: cobra.ExactArgs(1),
	RunE: runVersions,
}

var (
	versionsPlatform string
	versionsProfile  string
	versionsAll      bool
)

func init() {
	versionsCmd.Flags().StringVarP(&versionsPlatform, "platform", "p", "", "platform: modrinth (default) or curseforge")
	versionsCmd.Flags().StringVar(&versionsProfile, "profile", "", "profile to filter for (required)")
	versionsCmd.Flags().BoolVar(&versionsAll, "all", false, "include versions for other Minecraft versions")
	_ = versionsCmd.MarkFlagRequired("profile")

	rootCmd.AddCommand(versionsCmd)
}

func runVersions(cmd *cobra.Command, args []string) error {
	platform, err := parsePlatformFlag(versionsPlatform)
	if err != nil {
		return err
	}

	service, _, closeLog, err := initService("")
	if err != nil {
		return err
	}
	defer closeLog()

	list, err := service.Versions(context.Background(), versionsProfile, platform, args[0], !versionsAll)
	if err != nil {
		return fmt.Errorf("listing versions: %w", err)
	}

	if len(list.Versions) == 0 {
		fmt.Println("No versions found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVERSION\tCHANNEL\tPUBLISHED\tMC VERSIONS\t")
	fmt.Fprintln(w, "--\t-------\t-------\t---------\t-----------\t")
	for _, v := range list.Versions {
		mark := ""
		if v.ID == list.RecommendedID {
			mark = "recommended"
		} else if v.ID == list.LatestID {
			mark = "latest"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\t%s\n",
			v.ID, v.Name, v.ReleaseType, v.PublishedAt.Format("2006-01-02"), v.McVersions, mark)
	}
	w.Flush()

	return nil
}
