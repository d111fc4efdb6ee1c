package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/smclevel/internal/level"
	"github.com/cory-johannsen/smclevel/internal/storage/postgres"
)

// Importer loads level documents and hands them to the configured sinks:
// a YAML export directory and, optionally, the level catalog.
type Importer struct {
	logger   *zap.Logger
	loadOpts []level.Option
	catalog  Catalog
}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the importer's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(imp *Importer) { imp.logger = logger }
}

// WithLoadOptions sets the options passed to the level loader.
func WithLoadOptions(opts ...level.Option) Option {
	return func(imp *Importer) { imp.loadOpts = append(imp.loadOpts, opts...) }
}

// WithCatalog stores every imported level in c.
func WithCatalog(c Catalog) Option {
	return func(imp *Importer) { imp.catalog = c }
}

// New constructs an Importer.
//
// Postcondition: returns a non-nil Importer.
func New(opts ...Option) *Importer {
	imp := &Importer{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Summary reports the outcome of a Run.
type Summary struct {
	Levels    int
	Written   int
	Cataloged int
	Elapsed   time.Duration
}

// Run loads every level in sourceDir, writes one <id>.yaml per level to
// outputDir when outputDir is non-empty, and upserts each level into the
// catalog when one is configured.
//
// Precondition: sourceDir must contain at least one level file.
// Postcondition: returns a Summary, or the first error encountered.
func (imp *Importer) Run(ctx context.Context, sourceDir, outputDir string) (Summary, error) {
	start := time.Now()

	files, err := level.LoadDir(ctx, sourceDir, imp.levelOptions()...)
	if err != nil {
		return Summary{}, fmt.Errorf("loading levels: %w", err)
	}
	imp.logger.Info("levels loaded",
		zap.Int("count", len(files)),
		zap.Duration("elapsed", time.Since(start)),
	)

	sum := Summary{Levels: len(files)}
	for _, f := range files {
		written, cataloged, err := imp.store(ctx, f.Path, f.Level, outputDir)
		if err != nil {
			return sum, err
		}
		if written {
			sum.Written++
		}
		if cataloged {
			sum.Cataloged++
		}
	}
	sum.Elapsed = time.Since(start)
	return sum, nil
}

// ImportFile loads the single level file at path and stores it like Run.
//
// Postcondition: returns the loaded level or a non-nil error.
func (imp *Importer) ImportFile(ctx context.Context, path, outputDir string) (*level.Level, error) {
	lvl, err := level.LoadFromFile(path, imp.levelOptions(zap.String("file", filepath.Base(path)))...)
	if err != nil {
		return nil, err
	}
	if _, _, err := imp.store(ctx, path, lvl, outputDir); err != nil {
		return nil, err
	}
	return lvl, nil
}

func (imp *Importer) levelOptions(fields ...zap.Field) []level.Option {
	opts := []level.Option{level.WithLogger(imp.logger.With(fields...))}
	return append(opts, imp.loadOpts...)
}

func (imp *Importer) store(ctx context.Context, path string, lvl *level.Level, outputDir string) (written, cataloged bool, err error) {
	if outputDir != "" {
		out, err := WriteYAML(outputDir, path, lvl)
		if err != nil {
			return false, false, err
		}
		written = true
		imp.logger.Info("wrote level",
			zap.String("source", path),
			zap.String("output", out),
			zap.Int("backgrounds", len(lvl.Backgrounds)),
			zap.Int("objects", len(lvl.Objects)),
		)
	}
	if imp.catalog != nil {
		rec, err := imp.catalog.Upsert(ctx, postgres.RecordFromLevel(path, lvl))
		if err != nil {
			return written, false, fmt.Errorf("cataloging level %s: %w", path, err)
		}
		cataloged = true
		imp.logger.Debug("cataloged level",
			zap.String("source", path),
			zap.String("id", rec.ID.String()),
		)
	}
	return written, cataloged, nil
}

// WriteYAML writes the YAML export of lvl into outputDir and returns the
// output path.
//
// Postcondition: the written file decodes back into a LevelData.
func WriteYAML(outputDir, sourcePath string, lvl *level.Level) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}
	data, err := yaml.Marshal(Export(sourcePath, lvl))
	if err != nil {
		return "", fmt.Errorf("serialising level %s: %w", sourcePath, err)
	}
	outPath := filepath.Join(outputDir, OutputName(sourcePath))
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing level %s to %s: %w", sourcePath, outPath, err)
	}
	return outPath, nil
}

func hexColor(c level.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func trimExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
