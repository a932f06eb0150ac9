package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into inputs, watermark/encoding, behavior, display, and utility.
// Negated flags (e.g. --no-color) are applied after Parse so Config defaults hold unless set.

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Returned by parseArgs when the user asked for help or the version string.
var (
	errShowHelp    = errors.New("show help")
	errShowVersion = errors.New("show version")
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and exits.
// On error it returns non-nil (e.g. unknown flag, malformed number).
func ParseFlags(cfg *Config, version string) error {
	err := parseArgs(cfg, version, os.Args[1:], os.Stderr)
	switch {
	case errors.Is(err, errShowHelp):
		os.Exit(0)
	case errors.Is(err, errShowVersion):
		fmt.Fprintln(os.Stdout, "vidmaker v"+version)
		os.Exit(0)
	}
	return err
}

// parseArgs is ParseFlags without the process exits, so tests can drive it.
// Usage text goes to usageOut.
func parseArgs(cfg *Config, version string, args []string, usageOut io.Writer) error {
	fs := flag.NewFlagSet("vidmaker", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printUsage(usageOut, version) }

	var negated negatedFlags

	defineInputFlags(fs, cfg)
	defineEncodingFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, &negated)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(usageOut, version)
			return errShowHelp
		}
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(usageOut, version)
		return errShowHelp
	}
	if negated.showVersion {
		return errShowVersion
	}

	cfg.WorkDir = NormalizeDirArg(cfg.WorkDir)
	cfg.OutputDir = NormalizeDirArg(cfg.OutputDir)
	if cfg.FromDir != "" {
		cfg.FromDir = NormalizeDirArg(cfg.FromDir)
	}
	parsePositionalArgs(fs, cfg)
	return nil
}

// negatedFlags holds boolean flags that are applied after Parse.
type negatedFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineInputFlags registers -w/--watermark, -a/--audio and --from-dir.
func defineInputFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Watermark, "watermark", cfg.Watermark, "Watermark image (png, jpg, ...)")
	fs.StringVar(&cfg.Watermark, "w", cfg.Watermark, "Same as --watermark")
	fs.StringVar(&cfg.Audio, "audio", cfg.Audio, "Background audio file (mp3, wav, ...)")
	fs.StringVar(&cfg.Audio, "a", cfg.Audio, "Same as --audio")
	fs.StringVar(&cfg.FromDir, "from-dir", cfg.FromDir, "Merge every video in this directory (sorted by name)")
}

// defineEncodingFlags registers --opacity, --crf, --preset and the encoder selectors.
func defineEncodingFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Float64Var(&cfg.Opacity, "opacity", cfg.Opacity, "Watermark opacity in (0, 1]")
	fs.IntVar(&cfg.CRF, "crf", cfg.CRF, "Constant rate factor for software encoders")
	fs.StringVar(&cfg.Preset, "preset", cfg.Preset, "x264 preset (e.g. fast, medium)")
	fs.StringVar(&cfg.Preset, "p", cfg.Preset, "Same as --preset")
	fs.StringVar(&cfg.VideoEncoder, "encoder", cfg.VideoEncoder, "Watermark/mix encoder: auto | h264_videotoolbox | libx264 | ...")
	fs.StringVar(&cfg.MergeEncoder, "merge-encoder", cfg.MergeEncoder, "Encoder for the merge stage")
}

// defineBehaviorFlags registers the artifact locations and cleanup behavior.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.WorkDir, "work-dir", cfg.WorkDir, "Directory for intermediate files")
	fs.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "Directory for the final video")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "Same as --output-dir")
	fs.BoolVar(&cfg.KeepTrimmed, "keep-trimmed", cfg.KeepTrimmed, "Keep the trimmed audio file after the run")
	fs.IntVar(&cfg.ProbeConcurrency, "probe-jobs", cfg.ProbeConcurrency, "Parallel ffprobe calls while checking inputs")
}

// defineDisplayFlags registers --color, --no-color, verbose, quiet, --check, --log, --metrics-file.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output (ffmpeg progress, debug logs)")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "No console logs (log file still written)")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus metrics to this file after the run")
}

// defineUtilityFlags registers --version and --help.
func defineUtilityFlags(fs *flag.FlagSet, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies the color overrides into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs appends the positional args to Videos in the order given.
// Concatenation follows this order.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) {
	for _, a := range fs.Args() {
		if strings.TrimSpace(a) != "" {
			cfg.Videos = append(cfg.Videos, a)
		}
	}
}

// parseInt parses a string as an integer; returns a clear error on failure.
func parseInt(s, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number (got %q)", name, s)
	}
	return n, nil
}

// printUsage writes the help text to w. Column-aligned for readability.
func printUsage(w io.Writer, version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "vidmaker v" + version + " - merge clips, watermark, add a soundtrack"},
		{"", ""},
		{"  vidmaker [OPTIONS] -w <image> -a <audio> <video>...", ""},
		{"  vidmaker [OPTIONS] -w <image> -a <audio> --from-dir <dir>", ""},
		{"", ""},
		{"Inputs", ""},
		{"  -w, --watermark <path>", "Watermark image, stretched to the video width"},
		{"  -a, --audio <path>", "Background audio, trimmed to the video length"},
		{"  --from-dir <dir>", "Merge all videos in <dir> in name order"},
		{"", ""},
		{"Encoding", ""},
		{"  --opacity <0-1>", "Watermark opacity (default: 0.3)"},
		{"  --crf <n>", "Constant rate factor (default: 23)"},
		{"  -p, --preset <name>", "x264 preset (default: fast)"},
		{"  --encoder <name>", "Watermark/mix encoder (default: auto)"},
		{"  --merge-encoder <name>", "Merge encoder (default: libx264)"},
		{"", ""},
		{"Output & behavior", ""},
		{"  --work-dir <dir>", "Intermediate files (default: .)"},
		{"  -o, --output-dir <dir>", "Final video (default: .)"},
		{"  --keep-trimmed", "Keep <audio>_trimmed after the run"},
		{"  --probe-jobs <n>", "Parallel input probes (default: 4)"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"  --quiet", "No console logs"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  --metrics-file <path>", "Write Prometheus textfile metrics"},
		{"  -c, --check", "System diagnostics (ffmpeg, encoders, filters)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
		{"", ""},
		{"Environment", ""},
		{"  VIDMAKER_*", "Defaults for the flags above (also read from ./.env)"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(w)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(w, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(w, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(w, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
