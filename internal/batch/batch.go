// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch converts a directory of marker images into print-ready
// copies: load, resize to the physical print size, mark the corners, save
// with resolution metadata. Output mirrors the input file names.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/pdiddy/tagprint/internal/logging"
	"github.com/pdiddy/tagprint/internal/raster"
	"github.com/pdiddy/tagprint/pkg/types"
)

// Processor runs one batch conversion.
type Processor struct {
	cfg types.PrintConfig
	w   io.Writer
	log *zap.Logger

	mu sync.Mutex // serializes writes to w
}

// New returns a Processor that prints per-file status lines to w and logs
// diagnostics to log. A nil log discards diagnostics.
func New(cfg types.PrintConfig, w io.Writer, log *zap.Logger) *Processor {
	if log == nil {
		log = logging.Nop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.JPEGQuality == 0 {
		cfg.JPEGQuality = types.DefaultJPEGQuality
	}
	return &Processor{cfg: cfg, w: w, log: log}
}

// Validate checks the configuration before any file is touched.
func Validate(cfg types.PrintConfig) error {
	if cfg.InputDir == "" || cfg.OutputDir == "" {
		return fmt.Errorf("%w: input and output directories are required", raster.ErrInvalidParameter)
	}
	if _, _, err := raster.PixelSize(cfg.PrintSize); err != nil {
		return err
	}
	if cfg.DotSize < 0 {
		return fmt.Errorf("%w: dot size %d", raster.ErrInvalidParameter, cfg.DotSize)
	}
	if cfg.JPEGQuality < 0 || cfg.JPEGQuality > 100 {
		return fmt.Errorf("%w: jpeg quality %d", raster.ErrInvalidParameter, cfg.JPEGQuality)
	}
	in, err := filepath.Abs(cfg.InputDir)
	if err != nil {
		return err
	}
	out, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return err
	}
	if in == out {
		return fmt.Errorf("%w: input and output directory are both %s", raster.ErrInvalidParameter, in)
	}
	return nil
}

// ListImages returns the names of the regular entries of dir that have a
// recognized image extension, sorted. Subdirectories are not descended into.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !raster.IsImageName(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Run converts every image in the input directory. Files are independent:
// by default a failed file is logged and recorded and the batch moves on.
// With FailFast the first failure stops the batch and is returned.
//
// The returned error is non-nil only for directory-level problems, a
// FailFast abort, or ctx cancellation. Per-file failures are in the result.
func (p *Processor) Run(ctx context.Context) (types.BatchResult, error) {
	var result types.BatchResult
	if err := Validate(p.cfg); err != nil {
		return result, err
	}

	names, err := ListImages(p.cfg.InputDir)
	if err != nil {
		return result, err
	}
	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return result, fmt.Errorf("creating output directory %s: %w", p.cfg.OutputDir, err)
	}
	p.log.Debug("batch started",
		zap.String("input", p.cfg.InputDir),
		zap.String("output", p.cfg.OutputDir),
		zap.Int("files", len(names)),
		zap.Int("workers", p.cfg.Workers))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	files := make([]types.FileResult, len(names))
	errs := make([]error, len(names))
	wp := pool.New().WithMaxGoroutines(p.cfg.Workers)
	for i, name := range names {
		if runCtx.Err() != nil {
			break
		}
		wp.Go(func() {
			if runCtx.Err() != nil {
				return
			}
			files[i], errs[i] = p.ConvertFile(name)
			if errs[i] != nil && p.cfg.FailFast {
				cancel()
			}
		})
	}
	wp.Wait()

	var firstErr error
	for i, f := range files {
		if f.Name == "" {
			// Never started.
			continue
		}
		result.Files = append(result.Files, f)
		switch f.Status {
		case types.FileConverted:
			result.Converted++
		case types.FileFailed:
			result.Failed++
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", f.Name, errs[i])
			}
		}
	}

	fmt.Fprintf(p.w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if p.cfg.FailFast && firstErr != nil {
		return result, firstErr
	}
	return result, nil
}

// ConvertFile runs one image from the input directory through the pipeline
// and writes it under the same name to the output directory. It prints a
// status line and returns the outcome together with the underlying error.
func (p *Processor) ConvertFile(name string) (types.FileResult, error) {
	start := time.Now()
	res := types.FileResult{Name: name}
	inPath := filepath.Join(p.cfg.InputDir, name)
	outPath := filepath.Join(p.cfg.OutputDir, name)

	format, w, h, err := convert(inPath, outPath, p.cfg)
	res.Duration = time.Since(start)
	res.Format = format
	if err != nil {
		res.Status = types.FileFailed
		res.Kind = raster.Kind(err)
		res.Error = err.Error()
		p.printf("failed:  %s (%v)\n", name, err)
		p.log.Error("conversion failed",
			zap.String("file", name),
			zap.String("kind", res.Kind),
			zap.Error(err))
		return res, err
	}

	res.Status = types.FileConverted
	res.WidthPx, res.HeightPx = w, h
	p.printf("converted: %s (%dx%d px @ %d dpi)\n", name, w, h, p.cfg.DPI)
	p.log.Debug("converted",
		zap.String("file", name),
		zap.String("format", format),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Duration("took", res.Duration))
	return res, nil
}

// convert is the per-file pipeline: Load, ResizeToPrint, MarkCorners, Save.
func convert(inPath, outPath string, cfg types.PrintConfig) (format string, width, height int, err error) {
	img, format, err := raster.Load(inPath)
	if err != nil {
		return "", 0, 0, err
	}
	resized, err := raster.ResizeToPrint(img, cfg.PrintSize)
	if err != nil {
		return format, 0, 0, err
	}
	if err := raster.MarkCorners(resized, cfg.DotSize); err != nil {
		return format, 0, 0, err
	}
	if err := raster.Save(resized, outPath, cfg.DPI, &raster.SaveOptions{JPEGQuality: cfg.JPEGQuality}); err != nil {
		return format, 0, 0, err
	}
	b := resized.Bounds()
	return format, b.Dx(), b.Dy(), nil
}

func (p *Processor) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}
