// Package stage runs the three ffmpeg stages of a vidmaker run: Merge,
// Watermark, and MixAudio.
//
// Each stage probes what it consumes, builds one command, executes it
// exactly once, and removes its own partial output when the command
// fails. Errors come back as [*Error].
package stage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/backmassage/vidmaker/internal/audio"
	"github.com/backmassage/vidmaker/internal/config"
	"github.com/backmassage/vidmaker/internal/ffmpeg"
	"github.com/backmassage/vidmaker/internal/probe"
	"github.com/backmassage/vidmaker/internal/watermark"
)

// Logger is the logging surface the stages need.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Render(string, ...interface{})
	Debug(string, ...interface{})
}

// ProbeFunc reads media metadata; [probe.Probe] in production.
type ProbeFunc func(ctx context.Context, path string) (*probe.ProbeResult, error)

// InspectFunc reads a watermark image header; [watermark.Inspect] in production.
type InspectFunc func(path string) (watermark.Info, error)

// Trimmer produces the time-bounded audio copy for the mix stage.
type Trimmer interface {
	Trim(ctx context.Context, source string, duration float64) audio.TrimResult
}

// Runner executes stages with the encoder settings of one configuration.
type Runner struct {
	cfg          *config.Config
	videoEncoder string
	log          Logger

	exec    ffmpeg.ExecFunc
	probe   ProbeFunc
	inspect InspectFunc
	trimmer Trimmer
}

// Option overrides a Runner collaborator.
type Option func(*Runner)

// WithExec replaces ffmpeg execution.
func WithExec(fn ffmpeg.ExecFunc) Option { return func(r *Runner) { r.exec = fn } }

// WithProbe replaces ffprobe.
func WithProbe(fn ProbeFunc) Option { return func(r *Runner) { r.probe = fn } }

// WithInspect replaces watermark header decoding.
func WithInspect(fn InspectFunc) Option { return func(r *Runner) { r.inspect = fn } }

// WithTrimmer replaces the audio trimmer.
func WithTrimmer(t Trimmer) Option { return func(r *Runner) { r.trimmer = t } }

// NewRunner returns a Runner. videoEncoder is the resolved watermark/mix
// encoder (see check.ResolveVideoEncoder), never "auto".
func NewRunner(cfg *config.Config, videoEncoder string, log Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:          cfg,
		videoEncoder: videoEncoder,
		log:          log,
		exec:         ffmpeg.Execute,
		probe:        probe.Probe,
		inspect:      watermark.Inspect,
	}
	for _, o := range opts {
		o(r)
	}
	if r.trimmer == nil {
		r.trimmer = audio.NewTrimmer(log, nil)
	}
	return r
}

// run executes args once. On failure the partial output is removed and a
// classified [*Error] is returned.
func (r *Runner) run(ctx context.Context, stage string, kind error, args []string, output string) error {
	r.log.Debug("%s", ffmpeg.CommandLine(args))

	res := r.exec(ctx, args, r.cfg.Verbose)
	if res.Err != nil {
		r.removePartial(output)
		if ctx.Err() != nil {
			return &Error{Stage: stage, Kind: kind, Reason: "canceled", Err: ctx.Err()}
		}
		if tail := ffmpeg.Tail(res.Stderr, 8); tail != "" {
			r.log.Error("ffmpeg stderr (last lines):\n%s", tail)
		}
		return &Error{
			Stage:  stage,
			Kind:   kind,
			Reason: ffmpeg.Summarize(res.Stderr),
			Stderr: res.Stderr,
			Err:    res.Err,
		}
	}

	if _, err := os.Stat(output); err != nil {
		return &Error{Stage: stage, Kind: kind, Reason: "ffmpeg wrote no output", Err: err}
	}
	return nil
}

// removePartial deletes a failed stage's output if ffmpeg left one.
func (r *Runner) removePartial(path string) {
	if err := os.Remove(path); err == nil {
		r.log.Warn("Removed partial output: %s", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		r.log.Warn("Could not remove partial output %s: %v", path, err)
	}
}

func stageErr(stage string, kind error, format string, args ...interface{}) *Error {
	return &Error{Stage: stage, Kind: kind, Reason: fmt.Sprintf(format, args...)}
}
