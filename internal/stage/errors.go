package stage

import (
	"errors"
	"strings"
)

// Stage failure kinds. Every error returned by a [Runner] method is a
// [*Error] whose Kind is one of these, so errors.Is(err, ErrMerge) works.
var (
	ErrMerge     = errors.New("merge failed")
	ErrWatermark = errors.New("watermark failed")
	ErrMix       = errors.New("audio mix failed")
)

// Stage names used for logging and metrics.
const (
	NameMerge     = "merge"
	NameWatermark = "watermark"
	NameMix       = "mix_audio"
)

// Error describes a failed stage.
type Error struct {
	Stage  string // NameMerge, NameWatermark or NameMix
	Kind   error  // ErrMerge, ErrWatermark or ErrMix
	Reason string // one-line summary, may be empty
	Stderr string // captured ffmpeg stderr, may be empty
	Err    error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		if e.Reason == "" {
			b.WriteString(": ")
			b.WriteString(e.Err.Error())
		} else if cause := e.Err.Error(); cause != e.Reason {
			b.WriteString(" (" + cause + ")")
		}
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
