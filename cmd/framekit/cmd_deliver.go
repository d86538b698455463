package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"framekit/internal/deliver"
	"framekit/pkg/clique"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	deliverOffset    int
	deliverOverwrite bool
	deliverDryRun    bool
	deliverWorkers   int
	deliverPattern   string
)

// deliverCmd copies a sequence to a destination template
var deliverCmd = &cobra.Command{
	Use:   "deliver [descriptor] [source-dir] [dest-template]",
	Short: "Copy a sequence to a destination, optionally renumbering it",
	Long: `Copies every frame of the descriptor from source-dir to dest-template.

The template carries a frame token: %04d or %d for explicit padding, or a
run of # to keep the source padding. Frames are renumbered by --offset.

Example:
  framekit deliver "plate.%04d.dpx [1-100]" scans/ "out/sh010/plate.%04d.dpx" --offset 1000`,
	Args: cobra.ExactArgs(3),
	RunE: runDeliver,
}

func init() {
	deliverCmd.Flags().IntVar(&deliverOffset, "offset", 0, "Added to every frame number")
	deliverCmd.Flags().BoolVar(&deliverOverwrite, "overwrite", false, "Replace existing destination files")
	deliverCmd.Flags().BoolVar(&deliverDryRun, "dry-run", false, "Report what would be copied")
	deliverCmd.Flags().IntVar(&deliverWorkers, "workers", 0, "Files copied in parallel (default: deliver.workers)")
	deliverCmd.Flags().StringVar(&deliverPattern, "pattern", "", "Pattern the descriptor was formatted with (default: format.pattern)")
}

func runDeliver(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pattern := deliverPattern
	if pattern == "" {
		pattern = cfg.Format.Pattern
	}
	source, err := clique.Parse(args[0], pattern)
	if err != nil {
		return err
	}

	plan, err := deliver.NewPlan(source, args[1], args[2], deliverOffset)
	if err != nil {
		return err
	}

	workers := deliverWorkers
	if workers == 0 {
		workers = cfg.Deliver.Workers
	}
	logger.Debug("delivering",
		zap.String("source", source.String()),
		zap.String("dest", plan.Dest.String()),
		zap.Int("workers", workers))

	result, err := deliver.Execute(ctx, plan, deliver.Options{
		Workers:   workers,
		Overwrite: deliverOverwrite || cfg.Deliver.Overwrite,
		DryRun:    deliverDryRun,
	})
	if err != nil {
		return err
	}

	verb := "copied"
	if deliverDryRun {
		verb = "would copy"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %d, skipped %d (run %s)\n",
		plan.Dest.Format(cfg.Format.Pattern), verb, result.Copied, result.Skipped, result.RunID)
	return nil
}
