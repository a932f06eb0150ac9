package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by [ApplyEnv]. Each one seeds the default of
// the matching flag, so an explicit flag still wins.
const (
	EnvWorkDir      = "VIDMAKER_WORK_DIR"
	EnvOutputDir    = "VIDMAKER_OUTPUT_DIR"
	EnvOpacity      = "VIDMAKER_OPACITY"
	EnvCRF          = "VIDMAKER_CRF"
	EnvPreset       = "VIDMAKER_PRESET"
	EnvVideoEncoder = "VIDMAKER_VIDEO_ENCODER"
	EnvMergeEncoder = "VIDMAKER_MERGE_ENCODER"
	EnvKeepTrimmed  = "VIDMAKER_KEEP_TRIMMED"
	EnvLogFile      = "VIDMAKER_LOG_FILE"
	EnvMetricsFile  = "VIDMAKER_METRICS_FILE"
)

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error; with an empty path ".env" is used.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnv copies VIDMAKER_* environment values into cfg. Values that fail
// to parse are reported; unset or empty variables leave cfg unchanged.
func ApplyEnv(cfg *Config) error {
	cfg.WorkDir = getEnv(EnvWorkDir, cfg.WorkDir)
	cfg.OutputDir = getEnv(EnvOutputDir, cfg.OutputDir)
	cfg.Preset = getEnv(EnvPreset, cfg.Preset)
	cfg.VideoEncoder = getEnv(EnvVideoEncoder, cfg.VideoEncoder)
	cfg.MergeEncoder = getEnv(EnvMergeEncoder, cfg.MergeEncoder)
	cfg.LogFile = getEnv(EnvLogFile, cfg.LogFile)
	cfg.MetricsFile = getEnv(EnvMetricsFile, cfg.MetricsFile)

	if s := os.Getenv(EnvOpacity); s != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return errors.New(EnvOpacity + " must be a number (got " + strconv.Quote(s) + ")")
		}
		cfg.Opacity = f
	}
	if s := os.Getenv(EnvCRF); s != "" {
		n, err := parseInt(s, EnvCRF)
		if err != nil {
			return err
		}
		cfg.CRF = n
	}
	if s := os.Getenv(EnvKeepTrimmed); s != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return errors.New(EnvKeepTrimmed + " must be true or false (got " + strconv.Quote(s) + ")")
		}
		cfg.KeepTrimmed = b
	}
	return nil
}

// getEnv returns the value of the environment variable named by key, or
// fallback if the variable is unset or empty.
func getEnv(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}
