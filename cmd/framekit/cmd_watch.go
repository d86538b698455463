package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"framekit/internal/catalog"
	"framekit/internal/collect"
	"framekit/internal/metrics"
	"framekit/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	watchMetricsAddr string
	watchRecord      bool
	watchRecursive   bool
)

// watchCmd rescans a drop folder whenever it changes
var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a drop folder and report its sequences as they change",
	Long: `Scans dir, then scans it again each time its contents settle. Each scan
is printed and, with --record, stored in the catalog. With --metrics-addr
the scan gauges are served for Prometheus at /metrics.

Example:
  framekit watch -r --record --metrics-addr :9090 /mnt/dropbox`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (default: watch.metrics_addr)")
	watchCmd.Flags().BoolVar(&watchRecord, "record", false, "Record every scan in the catalog")
	watchCmd.Flags().BoolVarP(&watchRecursive, "recursive", "r", false, "Watch subdirectories")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	opts, err := collectOptions()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("recursive") {
		opts.Recursive = watchRecursive
	}

	var store *catalog.Store
	if watchRecord {
		if store, err = catalog.Open(cfg.Catalog.Path); err != nil {
			return err
		}
		defer store.Close()
		logger.Info("recording scans", zap.String("catalog", store.Path()))
	}

	out := cmd.OutOrStdout()
	onScan := func(result *collect.Result) {
		fmt.Fprintf(out, "--- %s\n", time.Now().Format(time.TimeOnly))
		printResult(out, result, cfg.Format.Pattern, false)
		if store != nil {
			if _, err := store.RecordScan(ctx, result); err != nil {
				logger.Error("failed to record scan", zap.Error(err))
			}
		}
	}

	addr := watchMetricsAddr
	if addr == "" {
		addr = cfg.Watch.MetricsAddr
	}
	if addr != "" {
		srv := serveMetrics(addr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	w, err := watch.NewWatcher(root, opts, cfg.GetDebounce(), onScan)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	logger.Info("watching", zap.String("root", root), zap.Duration("debounce", cfg.GetDebounce()))
	<-ctx.Done()

	stats := w.GetStats()
	logger.Info("watch stopped",
		zap.Int("scans", stats.Scans),
		zap.Int("events", stats.Events),
		zap.Int("errors", stats.Errors))
	return nil
}

// serveMetrics starts the metrics endpoint in the background.
func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", addr))
	return srv
}
