// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/tagprint/internal/batch"
	"github.com/pdiddy/tagprint/internal/ledger"
	"github.com/pdiddy/tagprint/internal/logging"
	"github.com/pdiddy/tagprint/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [input-dir] [output-dir]",
	Short: "Resize marker images to a print size and mark their corners",
	Long: `Convert reads every PNG, JPEG, BMP and GIF file directly inside input-dir,
resizes it with nearest-neighbor sampling to the pixel size implied by
--width-mm, --height-mm and --dpi, draws a black square of --dot-size+1 pixels
in each corner, and writes it under the same name to output-dir with the DPI
stored in the file. Other files and subdirectories are ignored.

A failed file is reported and the batch moves on; use --fail-fast to stop at
the first failure. The command exits non-zero when every file failed.

Both directories may also come from the config file (input_dir, output_dir)
or the TAGPRINT_INPUT_DIR and TAGPRINT_OUTPUT_DIR environment variables.`,
	Args:    cobra.MaximumNArgs(2),
	PreRunE: bindLedgerFlag,
	RunE:    runConvert,
}

// convertFlags maps viper keys to the convert flags bound to them.
var convertFlags = map[string]string{
	"width_mm":     "width-mm",
	"height_mm":    "height-mm",
	"dpi":          "dpi",
	"dot_size":     "dot-size",
	"rounding":     "rounding",
	"jpeg_quality": "jpeg-quality",
	"workers":      "workers",
	"fail_fast":    "fail-fast",
}

func init() {
	convertCmd.Flags().Float64("width-mm", types.DefaultSizeMM, "printed width in millimeters")
	convertCmd.Flags().Float64("height-mm", types.DefaultSizeMM, "printed height in millimeters")
	convertCmd.Flags().Int("dpi", types.DefaultDPI, "print resolution in dots per inch")
	convertCmd.Flags().Int("dot-size", types.DefaultDotSize, "corner mark size; each mark is dot-size+1 pixels square")
	convertCmd.Flags().String("rounding", string(types.RoundFloor), "pixel rounding: floor or nearest")
	convertCmd.Flags().Int("jpeg-quality", types.DefaultJPEGQuality, "JPEG encoder quality (1-100)")
	convertCmd.Flags().Int("workers", types.DefaultWorkers, "number of files converted concurrently")
	convertCmd.Flags().Bool("fail-fast", false, "stop at the first failed file")
	convertCmd.Flags().String("ledger", "", "SQLite run history to record this batch in (empty disables)")

	for key, flag := range convertFlags {
		_ = viper.BindPFlag(key, convertCmd.Flags().Lookup(flag))
	}

	rootCmd.AddCommand(convertCmd)
}

// bindLedgerFlag binds the running command's --ledger flag to the "ledger"
// key. convert and history both define the flag; binding at run time keeps
// one from shadowing the other.
func bindLedgerFlag(cmd *cobra.Command, args []string) error {
	return viper.BindPFlag("ledger", cmd.Flags().Lookup("ledger"))
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := printConfig(viper.GetViper(), args)
	if err != nil {
		return err
	}

	log, err := logging.New(viper.GetBool("verbose"))
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	started := time.Now()
	result, runErr := batch.New(cfg, os.Stdout, log).Run(ctx)

	if cfg.Ledger != "" && result.Total() > 0 {
		if err := recordRun(ctx, cfg, started, result, log); err != nil {
			// History is informational; a ledger failure never fails the batch.
			log.Warn("recording run failed", zap.String("ledger", cfg.Ledger), zap.Error(err))
		}
	}

	if runErr != nil {
		return runErr
	}
	if result.AllFailed() {
		return fmt.Errorf("all %d image(s) failed conversion", result.Failed)
	}
	return nil
}

// printConfig resolves the batch configuration. Positional arguments win
// over input_dir and output_dir; every other value comes from v, which
// layers flags over environment over config file. Unset keys keep the
// package defaults.
func printConfig(v *viper.Viper, args []string) (types.PrintConfig, error) {
	cfg := types.DefaultPrintConfig(v.GetString("input_dir"), v.GetString("output_dir"))
	if len(args) > 0 {
		cfg.InputDir = args[0]
	}
	if len(args) > 1 {
		cfg.OutputDir = args[1]
	}
	if cfg.InputDir == "" || cfg.OutputDir == "" {
		return cfg, fmt.Errorf("provide an input and an output directory")
	}

	if v.IsSet("width_mm") {
		cfg.WidthMM = v.GetFloat64("width_mm")
	}
	if v.IsSet("height_mm") {
		cfg.HeightMM = v.GetFloat64("height_mm")
	}
	if v.IsSet("dpi") {
		cfg.DPI = v.GetInt("dpi")
	}
	if v.IsSet("dot_size") {
		cfg.DotSize = v.GetInt("dot_size")
	}
	if v.IsSet("rounding") {
		cfg.Rounding = types.Rounding(v.GetString("rounding"))
	}
	if v.IsSet("jpeg_quality") {
		cfg.JPEGQuality = v.GetInt("jpeg_quality")
	}
	if v.IsSet("workers") {
		cfg.Workers = v.GetInt("workers")
	}
	cfg.FailFast = v.GetBool("fail_fast")
	cfg.Ledger = v.GetString("ledger")

	if err := batch.Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func recordRun(ctx context.Context, cfg types.PrintConfig, started time.Time, result types.BatchResult, log *zap.Logger) error {
	store, err := ledger.Open(cfg.Ledger)
	if err != nil {
		return err
	}
	defer store.Close()

	// The batch context may already be cancelled; the record is still wanted.
	id, err := store.RecordRun(context.WithoutCancel(ctx), cfg, started, result)
	if err != nil {
		return err
	}
	log.Info("run recorded", zap.String("run", id), zap.String("ledger", cfg.Ledger))
	return nil
}
