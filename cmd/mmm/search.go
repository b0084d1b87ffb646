package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mmm/internal/domain"
	"mmm/internal/source"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for mods on a platform",
	Long: `Search for mods on Modrinth or CurseForge.

With --profile, results are filtered to versions compatible with the
profile's Minecraft version and loader.

Examples:
  mmm search sodium
  mmm search jei --platform curseforge --profile survival`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var (
	searchPlatform string
	searchProfile  string
	searchLimit    int
)

func init() {
	searchCmd.Flags().StringVarP(&searchPlatform, "platform", "p", "", "platform: modrinth (default) or curseforge")
	searchCmd.Flags().StringVar(&searchProfile, "profile", "", "filter results for this profile's version and loader")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum number of results")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	platform, err := parsePlatformFlag(searchPlatform)
	if err != nil {
		return err
	}

	service, _, closeLog, err := initService("")
	if err != nil {
		return err
	}
	defer closeLog()

	query := source.SearchQuery{
		Query: strings.Join(args, " "),
		Limit: searchLimit,
	}
	if searchProfile != "" {
		prof, err := service.Profiles().Get(searchProfile)
		if err != nil {
			return err
		}
		query.GameVersion = prof.GameVersion
		query.Loader = prof.Loader
		query.FilterByVer = true
	}

	mods, err := service.Search(context.Background(), platform, query)
	if err != nil {
		return fmt.Errorf("searching %s: %w", platform, err)
	}

	if len(mods) == 0 {
		fmt.Println("No mods found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAUTHORS\tDOWNLOADS")
	fmt.Fprintln(w, "--\t----\t-------\t---------")
	for _, m := range mods {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", m.ID, m.Name, strings.Join(m.Authors, ", "), m.Downloads)
	}
	w.Flush()

	return nil
}

var modInfoCmd = &cobra.Command{
	Use:   "info <mod-id>",
	Short: "Show details for a mod",
	Args:  cobra.ExactArgs(1),
	RunE:  runModInfo,
}

var infoPlatform string

func init() {
	modInfoCmd.Flags().StringVarP(&infoPlatform, "platform", "p", "", "platform: modrinth (default) or curseforge")
	rootCmd.AddCommand(modInfoCmd)
}

func runModInfo(cmd *cobra.Command, args []string) error {
	platform, err := parsePlatformFlag(infoPlatform)
	if err != nil {
		return err
	}

	service, _, closeLog, err := initService("")
	if err != nil {
		return err
	}
	defer closeLog()

	info, err := service.GetMod(context.Background(), platform, args[0])
	if err != nil {
		return err
	}

	printModInfo(info)
	return nil
}

func printModInfo(info *domain.ModInfo) {
	fmt.Printf("Name:      %s\n", info.Name)
	fmt.Printf("ID:        %s\n", info.ID)
	fmt.Printf("Platform:  %s\n", info.Platform)
	fmt.Printf("Authors:   %s\n", strings.Join(info.Authors, ", "))
	fmt.Printf("Downloads: %d\n", info.Downloads)
	if info.PageURL != "" {
		fmt.Printf("Page:      %s\n", info.PageURL)
	}
	if info.Summary != "" {
		fmt.Printf("\n%s\n", info.Summary)
	}
}
