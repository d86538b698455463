package main

import (
	"fmt"
	"os"

	"framekit/internal/collect"
	"framekit/internal/config"
	"framekit/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool
	plain      bool

	// Loaded in PersistentPreRunE
	cfg    = config.DefaultConfig()
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "framekit",
	Short: "framekit - image sequence toolkit",
	Long: `framekit groups numbered files such as render.0001.exr .. render.0100.exr
into sequences and works with them as a unit.

Sequences are described as "{head}{padding}{tail} [{ranges}]", for example
"render.%04d.exr [1-98, 100]".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			loaded.Logging.DebugMode = true
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		opts := cfg.Logging.Options()
		logger, err = logging.NewLogger(opts)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.Initialize(logger, opts)
		logger.Debug("configuration loaded", zap.String("path", configPath))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "Plain output for scripts")

	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(deliverCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// collectOptions builds scan options from the loaded configuration.
func collectOptions() (collect.Options, error) {
	include, exclude, err := cfg.Collect.CompileFilters()
	if err != nil {
		return collect.Options{}, err
	}
	assemble, err := cfg.Assemble.Options()
	if err != nil {
		return collect.Options{}, err
	}
	return collect.Options{
		Include:          include,
		Exclude:          exclude,
		RequireExtension: cfg.Collect.RequireExtension,
		Recursive:        cfg.Collect.Recursive,
		Assemble:         assemble,
	}, nil
}
