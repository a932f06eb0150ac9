// Package check provides system diagnostics (--check mode) and pre-run
// dependency validation (CheckDeps): ffmpeg and ffprobe on PATH, the
// encoders and filters the three stages use, and the choice of the
// watermark/mix video encoder.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/backmassage/vidmaker/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool, encoder or
// filter is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
	ErrEncoderMissing  = errors.New("required encoder not available in ffmpeg")
	ErrFilterMissing   = errors.New("required filter not available in ffmpeg")
)

// HardwareEncoder is preferred for the watermark and mix stages when
// ffmpeg offers it and a test encode succeeds.
const HardwareEncoder = "h264_videotoolbox"

// SoftwareFallback is used when the hardware encoder is unusable.
const SoftwareFallback = "libx264"

// RequiredFilters lists every filter used by the merge and watermark graphs.
var RequiredFilters = []string{"concat", "overlay", "colorchannelmixer", "scale", "trim", "format", "pad", "setsar"}

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// Capabilities is what the local ffmpeg build offers.
type Capabilities struct {
	Encoders map[string]bool
	Filters  map[string]bool
}

// LoadCapabilities lists the encoders and filters of the ffmpeg on PATH.
func LoadCapabilities(ctx context.Context) (*Capabilities, error) {
	enc, err := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-encoders").Output()
	if err != nil {
		return nil, fmt.Errorf("list encoders: %w", err)
	}
	flt, err := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-filters").Output()
	if err != nil {
		return nil, fmt.Errorf("list filters: %w", err)
	}
	return &Capabilities{Encoders: parseList(string(enc)), Filters: parseList(string(flt))}, nil
}

// parseList extracts the name column from `ffmpeg -encoders` or
// `ffmpeg -filters` output. Legend lines ("V..... = Video") and the
// dashed separator are skipped.
func parseList(out string) map[string]bool {
	names := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		f := strings.Fields(line)
		if len(f) < 2 || f[1] == "=" || strings.HasSuffix(f[0], ":") {
			continue
		}
		names[f[1]] = true
	}
	return names
}

// Missing returns the encoders and filters from the given lists that c
// lacks, sorted.
func (c *Capabilities) Missing(encoders, filters []string) (missingEnc, missingFlt []string) {
	for _, e := range encoders {
		if !c.Encoders[e] {
			missingEnc = append(missingEnc, e)
		}
	}
	for _, f := range filters {
		if !c.Filters[f] {
			missingFlt = append(missingFlt, f)
		}
	}
	sort.Strings(missingEnc)
	sort.Strings(missingFlt)
	return missingEnc, missingFlt
}

// ResolveVideoEncoder returns cfg.VideoEncoder unless it is "auto"; then
// the hardware encoder when caps lists it and works reports success, or
// the software fallback.
func ResolveVideoEncoder(cfg *config.Config, caps *Capabilities, works func(encoder string) bool) string {
	if cfg.VideoEncoder != config.EncoderAuto {
		return cfg.VideoEncoder
	}
	if caps != nil && caps.Encoders[HardwareEncoder] && works(HardwareEncoder) {
		return HardwareEncoder
	}
	return SoftwareFallback
}

// CheckDeps is the pre-run validation: ffmpeg and ffprobe must be on PATH
// and offer every encoder and filter a run needs. It returns the resolved
// watermark/mix encoder.
func CheckDeps(ctx context.Context, cfg *config.Config) (string, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return "", ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return "", ErrFfprobeNotFound
	}

	caps, err := LoadCapabilities(ctx)
	if err != nil {
		return "", err
	}
	videoEnc := ResolveVideoEncoder(cfg, caps, testEncode)

	missingEnc, missingFlt := caps.Missing(
		[]string{cfg.MergeEncoder, videoEnc, cfg.AudioEncoder}, RequiredFilters)
	if len(missingEnc) > 0 {
		return "", fmt.Errorf("%w: %s", ErrEncoderMissing, strings.Join(missingEnc, ", "))
	}
	if len(missingFlt) > 0 {
		return "", fmt.Errorf("%w: %s", ErrFilterMissing, strings.Join(missingFlt, ", "))
	}
	return videoEnc, nil
}

// RunCheck runs the interactive --check flow: ffmpeg/ffprobe versions,
// required encoders and filters, and short test encodes. This is
// informational only: it does not stop on failure.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")

	if !checkBinary(log, "ffmpeg") {
		return
	}
	checkBinary(log, "ffprobe")

	caps, err := LoadCapabilities(ctx)
	if err != nil {
		log.Warn("Could not list ffmpeg capabilities: %v", err)
		return
	}

	log.Info("Encoders:")
	for _, e := range []string{cfg.MergeEncoder, SoftwareFallback, HardwareEncoder, cfg.AudioEncoder} {
		if caps.Encoders[e] {
			log.Success("  %s", e)
		} else {
			log.Warn("  %s (not available)", e)
		}
	}

	log.Info("Filters:")
	_, missing := caps.Missing(nil, RequiredFilters)
	if len(missing) == 0 {
		log.Success("  %s", strings.Join(RequiredFilters, ", "))
	} else {
		log.Error("  missing: %s", strings.Join(missing, ", "))
	}

	log.Info("Testing %s...", SoftwareFallback)
	if testEncode(SoftwareFallback) {
		log.Success("%s works", SoftwareFallback)
	} else {
		log.Error("%s test encode failed", SoftwareFallback)
	}
	if caps.Encoders[HardwareEncoder] {
		log.Info("Testing %s...", HardwareEncoder)
		if testEncode(HardwareEncoder) {
			log.Success("%s works", HardwareEncoder)
		} else {
			log.Warn("%s listed but unusable on this machine", HardwareEncoder)
		}
	}

	log.Info("Testing AAC encoder...")
	if runSilent("ffmpeg",
		"-hide_banner", "-nostdin",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "aac", "-f", "null", "-",
	) {
		log.Success("AAC encoder works")
	} else {
		log.Error("AAC encoder test failed")
	}

	log.Info("Video encoder for watermark/mix: %s", ResolveVideoEncoder(cfg, caps, testEncode))
}

// checkBinary verifies name is on PATH and logs its version line.
func checkBinary(log Logger, name string) bool {
	if _, err := exec.LookPath(name); err != nil {
		log.Error("%s not found", name)
		return false
	}
	out, err := exec.Command(name, "-version").Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", name, err)
		return true
	}
	log.Success("%s: %s", name, firstLine(string(out)))
	return true
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		s = s[:idx]
	}
	return s
}

// testEncode runs a minimal encode with encoder to verify it is usable.
func testEncode(encoder string) bool {
	return runSilent("ffmpeg",
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", encoder, "-pix_fmt", "yuv420p",
		"-f", "null", "-",
	)
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
