package main

import (
	"context"
	"errors"
	"fmt"

	"framekit/cmd/framekit/ui"
	"framekit/internal/verify"

	"github.com/spf13/cobra"
)

// errVerifyFailed is returned when frames are missing or unexpected.
var errVerifyFailed = errors.New("verification failed")

var verifyPattern string

// verifyCmd checks a directory against an expected sequence
var verifyCmd = &cobra.Command{
	Use:   "verify [descriptor] [dir]",
	Short: "Check that a directory holds exactly the expected frames",
	Long: `Compares the files in dir with the frames named by the descriptor and
reports missing and unexpected files. Exits non-zero when they differ.

Example:
  framekit verify "beauty.%04d.exr [1001-1100]" renders/beauty`,
	Args: cobra.ExactArgs(2),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyPattern, "pattern", "", "Pattern the descriptor was formatted with (default: format.pattern)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pattern := verifyPattern
	if pattern == "" {
		pattern = cfg.Format.Pattern
	}

	report, err := verify.ReconcileDir(ctx, args[0], args[1], pattern)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if plain {
		fmt.Fprintln(out, report.Summary())
		for _, item := range report.Unexpected {
			fmt.Fprintln(out, item)
		}
	} else {
		styles := ui.DefaultStyles()
		if report.OK() {
			fmt.Fprintln(out, styles.Success.Render(report.Summary()))
		} else {
			fmt.Fprintln(out, styles.Warning.Render(report.Summary()))
			table := ui.NewTable("", "Unexpected")
			for _, item := range report.Unexpected {
				table.AddRow(item)
			}
			fmt.Fprint(out, table.View(styles))
		}
	}

	if !report.OK() {
		return errVerifyFailed
	}
	return nil
}
