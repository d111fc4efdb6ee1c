package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/smclevel/internal/config"
	"github.com/cory-johannsen/smclevel/internal/importer"
	"github.com/cory-johannsen/smclevel/internal/observability"
	"github.com/cory-johannsen/smclevel/internal/storage/postgres"
	"github.com/cory-johannsen/smclevel/internal/watch"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (defaults and SMCLEVEL_* env vars when empty)")
	sourceDir := flag.String("source", "", "path to level directory")
	outputDir := flag.String("output", "", "path to YAML output directory (optional)")
	watchMode := flag.Bool("watch", false, "keep running and re-import levels as they change")
	flag.Parse()

	if *sourceDir == "" {
		fmt.Fprintln(os.Stderr, "usage: import-levels -source <dir> [-output <dir>] [-config <file>] [-watch]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger, *sourceDir, *outputDir, *watchMode); err != nil {
		logger.Error("import failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.Logger, sourceDir, outputDir string, watchMode bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []importer.Option{
		importer.WithLogger(logger),
		importer.WithLoadOptions(cfg.Loader.Options()...),
	}
	if cfg.Database.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connecting to level catalog: %w", err)
		}
		defer pool.Close()
		opts = append(opts, importer.WithCatalog(pool.Levels()))
	}
	imp := importer.New(opts...)

	sum, err := imp.Run(ctx, sourceDir, outputDir)
	if err != nil {
		return err
	}
	logger.Info("import complete",
		zap.Int("levels", sum.Levels),
		zap.Int("written", sum.Written),
		zap.Int("cataloged", sum.Cataloged),
		zap.Duration("elapsed", sum.Elapsed.Round(time.Millisecond)),
	)
	if !watchMode {
		return nil
	}

	w, err := watch.New(logger, cfg.Watch.Debounce, sourceDir)
	if err != nil {
		return err
	}
	defer w.Close()

	logger.Info("watching for level changes", zap.String("dir", sourceDir))
	return w.Run(ctx, func(ctx context.Context, path string) error {
		_, err := imp.ImportFile(ctx, path, outputDir)
		return err
	})
}
