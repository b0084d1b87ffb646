package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mmm/internal/domain"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage mod profiles",
	Long: `Manage mod profiles. A profile fixes a Minecraft version and a mod
loader and holds its own set of mods.`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE:  runProfileList,
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new profile",
	Long: `Create a new empty profile.

Examples:
  mmm profile create survival --mc-version 1.21 --loader fabric`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileCreate,
}

var profileRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a profile",
	Args:  cobra.ExactArgs(2),
	RunE:  runProfileRename,
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a profile and its mods",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileRemove,
}

var profileExportCmd = &cobra.Command{
	Use:   "export <name> <file>",
	Short: "Export a profile to a zip archive",
	Long: `Export a profile, its mod records and all mod files to a portable
zip archive.

Examples:
  mmm profile export survival survival.zip`,
	Args: cobra.ExactArgs(2),
	RunE: runProfileExport,
}

var profileImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a profile from a zip archive",
	Long: `Import a profile from a zip archive previously produced by export.

When a profile with the same name already exists, --on-conflict decides
what happens: cancel (default), overwrite, or rename.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileImport,
}

var (
	profileMcVersion  string
	profileLoader     string
	profileOnConflict string
)

func init() {
	profileCreateCmd.Flags().StringVar(&profileMcVersion, "mc-version", "", "Minecraft version (required)")
	profileCreateCmd.Flags().StringVar(&profileLoader, "loader", "", "mod loader: fabric, forge, neoforge or quilt (required)")
	_ = profileCreateCmd.MarkFlagRequired("mc-version")
	_ = profileCreateCmd.MarkFlagRequired("loader")

	profileImportCmd.Flags().StringVar(&profileOnConflict, "on-conflict", "cancel", "name collision policy: cancel, overwrite or rename")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileRenameCmd)
	profileCmd.AddCommand(profileRemoveCmd)
	profileCmd.AddCommand(profileExportCmd)
	profileCmd.AddCommand(profileImportCmd)

	rootCmd.AddCommand(profileCmd)
}

func runProfileList(cmd *cobra.Command, args []string) error {
	service, _, closeLog, err := initService("")
	if err != nil {
		return err
	}
	defer closeLog()

	profiles, err := service.Profiles().List()
	if err != nil {
		return fmt.Errorf("listing profiles: %w", err)
	}

	if len(profiles) == 0 {
		fmt.Println("No profiles found.")
		return nil
	}

	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tLOADER")
	fmt.Fprintln(w, "----\t-------\t------")
	for _, name := range names {
		p := profiles[name]
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.GameVersion, p.Loader)
	}
	w.Flush()

	return nil
}

func runProfileCreate(cmd *cobra.Command, args []string) error {
	loader, err := domain.ParseLoader(profileLoader)
	if err != nil {
		return err
	}

	service, _, closeLog, err := initService("")
	if err != nil {
		return err
	}
	defer closeLog()

	prof, err := service.Profiles().Create(args[0], profileMcVersion, loader)
	if err != nil {
		return fmt.Errorf("creating profile: %w", err)
	}

	fmt.Printf("✓ Created profile: %s (%s, %s)\n", prof.Name, prof.GameVersion, prof.Loader)
	return nil
}

func runProfileRename(cmd *cobra.Command, args []string) error {
	service, _, closeLog, err := initService("")
	if err != nil {
		return err
	}
	defer closeLog()

	if err := service.Profiles().Rename(args[0], args[1]); err != nil {
		return fmt.Errorf("renaming profile: %w", err)
	}

	fmt.Printf("✓ Renamed profile: %s -> %s\n", args[0], args[1])
	return nil
}

func runProfileRemove(cmd *cobra.Command, args []string) error {
	service, _, closeLog, err := initService("")
	if err != nil {
		return err
	}
	defer closeLog()

	if err := service.Profiles().Remove(args[0]); err != nil {
		return fmt.Errorf("removing profile: %w", err)
	}

	fmt.Printf("✓ Removed profile: %s\n", args[0])
	return nil
}

func runProfileExport(cmd *cobra.Command, args []string) error {
	service, _, closeLog, err := initService("")
	if err != nil {
		return err
	}
	defer closeLog()

	if err := service.Profiles().Export(args[0], args[1]); err != nil {
		return fmt.Errorf("exporting profile: %w", err)
	}

	fmt.Printf("✓ Exported profile %s to %s\n", args[0], args[1])
	return nil
}

func runProfileImport(cmd *cobra.Command, args []string) error {
	policy := domain.ParseCollisionPolicy(profileOnConflict)

	service, _, closeLog, err := initService("")
	if err != nil {
		return err
	}
	defer closeLog()

	prof, err := service.Profiles().Import(args[0], policy)
	if err != nil {
		return fmt.Errorf("importing profile: %w", err)
	}

	fmt.Printf("✓ Imported profile: %s\n", prof.Name)
	return nil
}
