package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"framekit/cmd/framekit/ui"
	"framekit/internal/catalog"
	"framekit/internal/collect"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	lsRecursive bool
	lsFormat    string
	lsStart     int
	lsEnd       int
	lsRecord    bool
)

// lsCmd lists the sequences found in directories
var lsCmd = &cobra.Command{
	Use:   "ls [dir...]",
	Short: "List the sequences in one or more directories",
	Long: `Scans each directory and prints the sequences it holds followed by the
files that do not belong to any sequence.

Examples:
  framekit ls renders/
  framekit ls -r --start 1001 --end 1100 shots/
  framekit ls --plain --format "{head}{padding}{tail}" renders/`,
	RunE: runLs,
}

func init() {
	lsCmd.Flags().BoolVarP(&lsRecursive, "recursive", "r", false, "Scan subdirectories")
	lsCmd.Flags().StringVar(&lsFormat, "format", "", "Descriptor pattern (default: format.pattern)")
	lsCmd.Flags().IntVar(&lsStart, "start", 0, "Drop frames before this one")
	lsCmd.Flags().IntVar(&lsEnd, "end", 0, "Drop frames after this one")
	lsCmd.Flags().BoolVar(&lsRecord, "record", false, "Record the scan in the catalog")
}

func runLs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	opts, err := collectOptions()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("recursive") {
		opts.Recursive = lsRecursive
	}
	if cmd.Flags().Changed("start") {
		opts.FrameStart = &lsStart
	}
	if cmd.Flags().Changed("end") {
		opts.FrameEnd = &lsEnd
	}

	results, err := collect.CollectAll(ctx, roots, opts, cfg.Collect.Workers)
	if err != nil {
		return err
	}

	pattern := lsFormat
	if pattern == "" {
		pattern = cfg.Format.Pattern
	}
	out := cmd.OutOrStdout()
	for _, result := range results {
		printResult(out, result, pattern, len(results) > 1)
	}

	if lsRecord {
		return recordResults(ctx, results)
	}
	return nil
}

func printResult(out io.Writer, result *collect.Result, pattern string, titled bool) {
	if plain {
		for _, c := range result.Collections {
			fmt.Fprintln(out, c.Format(pattern))
		}
		for _, item := range result.Remainder {
			fmt.Fprintln(out, item)
		}
		return
	}

	title := ""
	if titled {
		title = result.Root
	}
	table := ui.NewTable(title, "Sequence", "Frames", "Holes")
	for _, c := range result.Collections {
		table.AddRow(c.Format(pattern), strconv.Itoa(c.Indexes.Len()), c.Holes().Format("{ranges}"))
	}
	for _, item := range result.Remainder {
		table.AddRow(item, "", "")
	}
	styles := ui.DefaultStyles()
	if view := table.View(styles); view != "" {
		fmt.Fprint(out, view)
	} else {
		fmt.Fprintln(out, styles.Muted.Render("no files in "+result.Root))
	}
}

func recordResults(ctx context.Context, results []*collect.Result) error {
	store, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, result := range results {
		abs, err := filepath.Abs(result.Root)
		if err != nil {
			return err
		}
		recorded := *result
		recorded.Root = abs
		id, err := store.RecordScan(ctx, &recorded)
		if err != nil {
			return err
		}
		logger.Info("scan recorded",
			zap.String("root", abs),
			zap.String("scan", id),
			zap.String("catalog", store.Path()))
	}
	return nil
}
