package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"framekit/cmd/framekit/ui"
	"framekit/internal/catalog"

	"github.com/spf13/cobra"
)

// catalogCmd groups the catalog queries
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Query recorded scans",
	Long: `Scans are recorded with "framekit ls --record" or "framekit watch --record"
into the catalog database (catalog.path).`,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show [dir]",
	Short: "Show the latest recorded scan of a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

var catalogFindCmd = &cobra.Command{
	Use:   "find [text]",
	Short: "Find recorded sequences whose head or tail contains text",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogFind,
}

func init() {
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogFindCmd)
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	root, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := store.Latest(ctx, root)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), result, cfg.Format.Pattern, false)
	return nil
}

func runCatalogFind(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Find(ctx, args[0])
	if err != nil {
		return err
	}

	table := ui.NewTable("", "Scanned", "Root", "Sequence")
	for _, e := range entries {
		table.AddRow(e.ScannedAt.Format(time.DateTime), e.Root, e.Collection.Format(cfg.Format.Pattern))
	}
	out := cmd.OutOrStdout()
	if plain {
		fmt.Fprint(out, table.Plain())
		return nil
	}
	if len(entries) == 0 {
		fmt.Fprintf(out, "no sequences matching %q\n", args[0])
		return nil
	}
	fmt.Fprint(out, table.View(ui.DefaultStyles()))
	return nil
}
