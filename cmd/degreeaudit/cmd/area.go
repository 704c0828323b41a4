package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/solatis/degreeaudit/internal/areafile"
)

var areaCmd = &cobra.Command{
	Use:   "area",
	Short: "Manage stored area documents",
}

var areaImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import an area document into the store",
	Args:  cobra.ExactArgs(1),
	RunE:  runAreaImport,
}

var areaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored areas",
	RunE:  runAreaList,
}

var areaRemoveCmd = &cobra.Command{
	Use:   "remove <name> <catalog>",
	Short: "Remove a stored area",
	Args:  cobra.ExactArgs(2),
	RunE:  runAreaRemove,
}

func init() {
	rootCmd.AddCommand(areaCmd)
	areaCmd.AddCommand(areaImportCmd)
	areaCmd.AddCommand(areaListCmd)
	areaCmd.AddCommand(areaRemoveCmd)
}

func runAreaImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	document, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read area file: %w", err)
	}

	// Parse and validate before storing so malformed requirement trees
	// never reach audit time.
	area, err := areafile.Parse(document)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	database, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
	defer cancel()

	if err := store.PutArea(ctx, area.Name, area.Catalog, area.Type, document); err != nil {
		return err
	}

	fmt.Printf("imported area %q %s (catalog %s)\n", area.Name, area.Type, area.Catalog)
	return nil
}

func runAreaList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
	defer cancel()

	listings, err := store.ListAreas(ctx)
	if err != nil {
		return err
	}

	for _, l := range listings {
		fmt.Printf("%-30s %-10s %-10s %s\n", l.Name, l.Catalog, l.Type, l.UpdatedAt)
	}
	return nil
}

func runAreaRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
	defer cancel()

	return store.DeleteArea(ctx, args[0], args[1])
}
