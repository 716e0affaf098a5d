// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/tagprint/internal/ledger"
)

const defaultLedger = "tagprint.db"

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded conversion runs",
	Long: `History reads the run ledger written by convert --ledger. Without flags it
lists runs newest first. --run shows the per-file outcomes of one run, and
--export writes the whole history to YAML or JSON.

The ledger path comes from --ledger, TAGPRINT_LEDGER or the ledger config
key, in that order, and defaults to tagprint.db.`,
	Args:    cobra.NoArgs,
	PreRunE: bindLedgerFlag,
	RunE:    runHistory,
}

func init() {
	historyCmd.Flags().String("ledger", defaultLedger, "SQLite run history written by convert --ledger")
	historyCmd.Flags().String("run", "", "show the files of one run ID")
	historyCmd.Flags().Int("limit", 20, "maximum runs to list (0 = all)")
	historyCmd.Flags().String("export", "", "export format: yaml or json")
	historyCmd.Flags().String("out", "", "export path (default tagprint-history.<format>)")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := viper.GetString("ledger")
	if path == "" {
		path = defaultLedger
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no run ledger at %s: %w", path, err)
	}

	store, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	runID, _ := cmd.Flags().GetString("run")
	format, _ := cmd.Flags().GetString("export")

	switch {
	case format != "":
		out, _ := cmd.Flags().GetString("out")
		return exportHistory(ctx, store, format, out)
	case runID != "":
		run, err := store.Run(ctx, runID)
		if err != nil {
			return err
		}
		printRunFiles(os.Stdout, run)
		return nil
	default:
		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := store.Runs(ctx, limit)
		if err != nil {
			return err
		}
		printRuns(os.Stdout, runs)
		return nil
	}
}

func exportHistory(ctx context.Context, store *ledger.Store, format, out string) error {
	if out == "" {
		out = "tagprint-history." + format
	}
	switch format {
	case "yaml":
		if err := store.ExportYAML(ctx, out); err != nil {
			return err
		}
	case "json":
		if err := store.ExportJSON(ctx, out); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	fmt.Println("Exported to", out)
	return nil
}

func printRuns(w io.Writer, runs []ledger.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-20s  %-13s  %-5s  %-9s  %s\n",
		"Run", "Started", "Size (mm)", "DPI", "Converted", "Failed")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-20s  %-13s  %-5d  %-9d  %d\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%gx%g", r.WidthMM, r.HeightMM), r.DPI, r.Converted, r.Failed)
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
}

func printRunFiles(w io.Writer, run *ledger.Run) {
	fmt.Fprintf(w, "Run %s: %s -> %s\n\n", run.ID, run.InputDir, run.OutputDir)
	for _, f := range run.Files {
		if f.Error != "" {
			fmt.Fprintf(w, "failed:  %s [%s] %s\n", f.Name, f.Kind, f.Error)
			continue
		}
		fmt.Fprintf(w, "converted: %s (%dx%d px, %s)\n", f.Name, f.WidthPx, f.HeightPx, f.Duration)
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		run.Converted, run.Failed, run.Converted+run.Failed)
}
