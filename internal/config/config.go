// Package config holds runtime configuration: defaults, environment and
// .env overrides, CLI flag parsing, and validation. Defaults are x264 crf
// 23, preset fast, aac.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// --- Enum types for validated string fields ---

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// EncoderAuto asks the dependency check to pick the hardware encoder when
// ffmpeg offers one and fall back to the software encoder otherwise.
const EncoderAuto = "auto"

// Fixed names of the intermediate artifacts inside WorkDir.
const (
	MergedName      = "merged.mp4"
	WatermarkedName = "watermarked.mp4"
)

// Presets accepted by x264/x265. Hardware encoders ignore the preset.
var validPresets = map[string]bool{
	"ultrafast": true,
	"superfast": true,
	"veryfast":  true,
	"faster":    true,
	"fast":      true,
	"medium":    true,
	"slow":      true,
	"slower":    true,
	"veryslow":  true,
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then [ApplyEnv], then [ParseFlags], and passed by pointer to the packages
// that need it.
type Config struct {
	// Inputs (set from flags and positional args).
	Videos    []string
	Watermark string
	Audio     string
	FromDir   string // Collect videos from this directory instead of positional args.

	// Artifact locations.
	WorkDir   string // Default: ".". Holds merged.mp4 and watermarked.mp4.
	OutputDir string // Default: ".". Holds vidmaker_<timestamp>.mp4.

	// Watermark.
	Opacity float64 // Default: 0.3 (30% opaque).

	// Encoder settings.
	CRF          int    // Default: 23.
	Preset       string // Default: "fast".
	MergeEncoder string // Default: "libx264".
	VideoEncoder string // Default: "auto". Resolved by check.ResolveVideoEncoder.
	AudioEncoder string // Default: "aac".

	// Behavior.
	KeepTrimmed      bool // Leave <audio>_trimmed<ext> on disk after a run.
	ProbeConcurrency int  // Default: 4. Parallel ffprobe calls during merge preflight.

	// Display and logging.
	Verbose     bool
	Quiet       bool      // Suppress console log output (log file still written).
	ColorMode   ColorMode // Default: "auto".
	LogFile     string    // Optional log file path.
	MetricsFile string    // Optional Prometheus textfile written after each run.
	CheckOnly   bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with the stock encoding
// parameters. Used as the base before [ApplyEnv] and [ParseFlags].
func DefaultConfig() Config {
	return Config{
		WorkDir:          ".",
		OutputDir:        ".",
		Opacity:          0.3,
		CRF:              23,
		Preset:           "fast",
		MergeEncoder:     "libx264",
		VideoEncoder:     EncoderAuto,
		AudioEncoder:     "aac",
		KeepTrimmed:      false,
		ProbeConcurrency: 4,
		ColorMode:        ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks the settings via [Config.ValidateSettings]. When not in
// CheckOnly mode it also requires the watermark, the audio track, and at
// least one video (or a directory to collect videos from).
func (c *Config) Validate() error {
	if err := c.ValidateSettings(); err != nil {
		return err
	}
	if c.CheckOnly {
		return nil
	}
	if len(c.Videos) > 0 && c.FromDir != "" {
		return errors.New("pass video files or --from-dir, not both")
	}
	if len(c.Videos) == 0 && c.FromDir == "" {
		return errors.New("need at least one video file")
	}
	if c.Watermark == "" {
		return errors.New("need a watermark image (--watermark)")
	}
	if c.Audio == "" {
		return errors.New("need an audio file (--audio)")
	}
	return nil
}

// ValidateSettings checks numeric ranges and enum fields only. The TUI
// uses it since inputs arrive later through the form.
func (c *Config) ValidateSettings() error {
	if c.Opacity <= 0 || c.Opacity > 1 {
		return fmt.Errorf("invalid opacity %g (use a value in (0, 1])", c.Opacity)
	}
	if c.CRF < 0 || c.CRF > 51 {
		return fmt.Errorf("invalid crf %d (use 0-51)", c.CRF)
	}
	if !validPresets[c.Preset] {
		return fmt.Errorf("invalid preset %q", c.Preset)
	}
	if c.MergeEncoder == "" || c.VideoEncoder == "" || c.AudioEncoder == "" {
		return errors.New("encoder names must not be empty")
	}
	if c.ProbeConcurrency < 1 {
		return fmt.Errorf("invalid probe concurrency %d (must be at least 1)", c.ProbeConcurrency)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}
	return nil
}

// SoftwareEncoder reports whether enc is a libx264/libx265 family encoder
// that understands -crf and -preset.
func SoftwareEncoder(enc string) bool {
	return strings.HasPrefix(enc, "libx26")
}
