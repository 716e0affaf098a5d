// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Rounding selects how a physical length in millimeters is turned into a
// whole number of pixels.
type Rounding string

const (
	// RoundFloor truncates the fractional pixel (60 mm @ 300 dpi = 708 px).
	RoundFloor Rounding = "floor"
	// RoundNearest rounds half up (60 mm @ 300 dpi = 709 px).
	RoundNearest Rounding = "nearest"
)

// Defaults used by the CLI when neither a flag, an environment variable nor
// a config file supplies a value.
const (
	DefaultSizeMM      = 60.0
	DefaultDPI         = 300
	DefaultDotSize     = 3
	DefaultJPEGQuality = 95
	DefaultWorkers     = 1
)

// PrintSize is the physical size an image is printed at.
type PrintSize struct {
	// WidthMM and HeightMM are the printed dimensions in millimeters.
	WidthMM  float64 `json:"width_mm" yaml:"width_mm" mapstructure:"width_mm"`
	HeightMM float64 `json:"height_mm" yaml:"height_mm" mapstructure:"height_mm"`

	// DPI is the print resolution in dots per inch. It also ends up in the
	// output file's resolution metadata.
	DPI int `json:"dpi" yaml:"dpi" mapstructure:"dpi"`

	// Rounding selects floor (default when empty) or nearest.
	Rounding Rounding `json:"rounding,omitempty" yaml:"rounding,omitempty" mapstructure:"rounding"`
}

// PrintConfig holds every setting of a batch conversion run.
type PrintConfig struct {
	PrintSize `yaml:",inline" mapstructure:",squash"`

	// InputDir holds the source marker images. Only its direct entries are read.
	InputDir string `json:"input_dir" yaml:"input_dir" mapstructure:"input_dir"`

	// OutputDir receives the converted images under their original names.
	// It is created if missing.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// DotSize is the corner mark size; each mark is DotSize+1 pixels square.
	DotSize int `json:"dot_size" yaml:"dot_size" mapstructure:"dot_size"`

	// JPEGQuality is passed to the JPEG encoder (1-100, default 95).
	JPEGQuality int `json:"jpeg_quality" yaml:"jpeg_quality" mapstructure:"jpeg_quality"`

	// Workers is the number of files processed concurrently (default 1).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// FailFast aborts the batch on the first failed file instead of logging
	// the failure and moving on.
	FailFast bool `json:"fail_fast" yaml:"fail_fast" mapstructure:"fail_fast"`

	// Ledger is the path of the SQLite run history. Empty disables it.
	Ledger string `json:"ledger,omitempty" yaml:"ledger,omitempty" mapstructure:"ledger"`
}

// DefaultPrintConfig returns a config for 60x60 mm markers at 300 dpi with
// 3 px corner dots, reading from and writing to the given directories.
func DefaultPrintConfig(inputDir, outputDir string) PrintConfig {
	return PrintConfig{
		PrintSize: PrintSize{
			WidthMM:  DefaultSizeMM,
			HeightMM: DefaultSizeMM,
			DPI:      DefaultDPI,
			Rounding: RoundFloor,
		},
		InputDir:    inputDir,
		OutputDir:   outputDir,
		DotSize:     DefaultDotSize,
		JPEGQuality: DefaultJPEGQuality,
		Workers:     DefaultWorkers,
	}
}
