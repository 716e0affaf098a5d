// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tagprint/internal/imgmeta"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <files...>",
	Short: "Show format, pixel size, color space and DPI of image files",
	Long: `Inspect reads image headers without decoding pixels and reports what a
printer will see: format, pixel dimensions, color space and the stored
resolution. GIF files carry no resolution and show "-" for DPI.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(inspectCmd)
}

// inspectedFile pairs a path with its metadata or the error reading it.
type inspectedFile struct {
	Path  string `json:"path"`
	Error string `json:"error,omitempty"`
	*imgmeta.Info
}

func runInspect(cmd *cobra.Command, args []string) error {
	files := make([]inspectedFile, 0, len(args))
	failed := 0
	for _, path := range args {
		f := inspectedFile{Path: path}
		info, err := imgmeta.Inspect(path)
		if err != nil {
			f.Error = err.Error()
			failed++
		} else {
			f.Info = info
		}
		files = append(files, f)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if err := formatInspectOutput(os.Stdout, files, jsonOutput); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) could not be inspected", failed)
	}
	return nil
}

func formatInspectOutput(w io.Writer, files []inspectedFile, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(files)
	}

	fmt.Fprintf(w, "%-30s  %-5s  %-11s  %-10s  %s\n", "File", "Type", "Pixels", "Color", "DPI")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, f := range files {
		name := filepath.Base(f.Path)
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		if f.Info == nil {
			fmt.Fprintf(w, "%-30s  error: %s\n", name, f.Error)
			continue
		}
		dpi := "-"
		if f.HasDPI() {
			dpi = fmt.Sprintf("%dx%d", f.DPIX, f.DPIY)
		}
		fmt.Fprintf(w, "%-30s  %-5s  %-11s  %-10s  %s\n",
			name, f.Format, fmt.Sprintf("%dx%d", f.Width, f.Height), f.ColorSpace, dpi)
	}
	return nil
}
