// Package audio trims the background track to the video length and
// describes it for the log.
package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xfrr/goffmpeg/transcoder"
)

// ErrTrim is wrapped by the Err of every failed [TrimResult].
var ErrTrim = errors.New("trim audio")

// TrimmedSuffix is inserted before the extension of the trimmed copy.
const TrimmedSuffix = "_trimmed"

// Logger is the logging surface the trimmer needs.
type Logger interface {
	Info(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// TrimResult is either a trimmed file (Path set, Err nil) or a failure
// (Err wraps ErrTrim, Path empty). Callers must check OK before use.
type TrimResult struct {
	Path string
	Err  error
}

// OK reports whether the trim produced a file.
func (r TrimResult) OK() bool { return r.Err == nil && r.Path != "" }

// TrimmedPath returns <base>_trimmed<ext> beside source.
func TrimmedPath(source string) string {
	ext := filepath.Ext(source)
	return strings.TrimSuffix(source, ext) + TrimmedSuffix + ext
}

// Job is one prepared stream-copy trim.
type Job interface {
	// SourceDuration is the input duration in seconds, 0 if unknown.
	SourceDuration() float64
	Run(ctx context.Context) error
}

// OpenFunc prepares a job copying the first duration seconds of in to out.
type OpenFunc func(in, out string, duration float64) (Job, error)

// Trimmer produces time-bounded stream copies of audio files.
type Trimmer struct {
	log  Logger
	open OpenFunc
}

// NewTrimmer returns a Trimmer backed by the goffmpeg transcoder. A nil
// open selects the default.
func NewTrimmer(log Logger, open OpenFunc) *Trimmer {
	if open == nil {
		open = openTranscoder
	}
	return &Trimmer{log: log, open: open}
}

// Trim writes the first duration seconds of source to [TrimmedPath],
// stream-copied. Failures are logged here and returned in the result,
// never as a panic or a nil path.
func (t *Trimmer) Trim(ctx context.Context, source string, duration float64) TrimResult {
	out := TrimmedPath(source)
	fail := func(err error) TrimResult {
		t.log.Error("Error trimming audio: %v", err)
		if rmErr := os.Remove(out); rmErr == nil {
			t.log.Debug("Removed partial %s", out)
		}
		return TrimResult{Err: fmt.Errorf("%w %s: %v", ErrTrim, source, err)}
	}

	if duration <= 0 {
		return TrimResult{Err: fmt.Errorf("%w %s: invalid duration %g", ErrTrim, source, duration)}
	}
	if _, err := os.Stat(source); err != nil {
		return fail(err)
	}

	job, err := t.open(source, out, duration)
	if err != nil {
		return fail(err)
	}
	if src := job.SourceDuration(); src > 0 && duration >= src {
		t.log.Warn("Audio is %.1fs, shorter than the %.1fs video; it will end early", src, duration)
	}

	t.log.Debug("Trimming %s to %.3fs", source, duration)
	if err := job.Run(ctx); err != nil {
		return fail(err)
	}
	t.log.Info("Trimmed audio saved as: %s", out)
	return TrimResult{Path: out}
}

// goffmpegJob adapts a configured transcoder to Job.
type goffmpegJob struct {
	trans  *transcoder.Transcoder
	source float64
}

func openTranscoder(in, out string, duration float64) (Job, error) {
	trans := new(transcoder.Transcoder)
	if err := trans.Initialize(in, out); err != nil {
		return nil, fmt.Errorf("initialize transcoder: %w", err)
	}

	media := trans.MediaFile()
	media.SetDuration(strconv.FormatFloat(duration, 'f', 3, 64))
	media.SetAudioCodec("copy")
	// Embedded cover art is not part of the soundtrack.
	media.SetSkipVideo(true)

	src, _ := strconv.ParseFloat(media.Metadata().Format.Duration, 64)
	return &goffmpegJob{trans: trans, source: src}, nil
}

func (j *goffmpegJob) SourceDuration() float64 { return j.source }

func (j *goffmpegJob) Run(ctx context.Context) error {
	done := j.trans.Run(false)
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		_ = j.trans.Stop()
		<-done
		return ctx.Err()
	}
}
