package main

import (
	"fmt"
	"strconv"

	"framekit/cmd/framekit/ui"
	"framekit/pkg/clique"

	"github.com/spf13/cobra"
)

var (
	parsePattern string
	parseMembers bool
)

// parseCmd rebuilds a sequence from its descriptor
var parseCmd = &cobra.Command{
	Use:   "parse [descriptor]",
	Short: "Parse a sequence descriptor",
	Long: `Parses a descriptor such as "render.%04d.exr [1-3, 5]" and prints its
parts, or every member file name with --members.

Example:
  framekit parse --members "render.%04d.exr [1-3, 5]"
  framekit parse --pattern "{head}{padding}{tail} {range}" "a.%d.png 1-10"`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parsePattern, "pattern", "", "Pattern the descriptor was formatted with (default: format.pattern)")
	parseCmd.Flags().BoolVar(&parseMembers, "members", false, "Print every member file name")
}

func runParse(cmd *cobra.Command, args []string) error {
	pattern := parsePattern
	if pattern == "" {
		pattern = cfg.Format.Pattern
	}

	c, err := clique.Parse(args[0], pattern)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if parseMembers {
		for item := range c.Items() {
			fmt.Fprintln(out, item)
		}
		return nil
	}

	table := ui.NewTable("", "Field", "Value")
	table.AddRow("head", c.Head())
	table.AddRow("tail", c.Tail())
	table.AddRow("padding", strconv.Itoa(c.Padding))
	table.AddRow("ranges", c.Format("{ranges}"))
	table.AddRow("holes", c.Holes().Format("{ranges}"))
	table.AddRow("contiguous", strconv.FormatBool(c.IsContiguous()))
	if plain {
		fmt.Fprint(out, table.Plain())
		return nil
	}
	fmt.Fprint(out, table.View(ui.DefaultStyles()))
	return nil
}
