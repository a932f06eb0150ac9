// Package session holds the input set of one run: the ordered clips, the
// watermark image, and the background audio. Front-ends fill a Session and
// pass it by pointer to the pipeline.
package session

import (
	"errors"
	"strings"
)

// ErrIncomplete is returned by Validate when any input is missing.
var ErrIncomplete = errors.New("please select all files before starting the process")

// Session is the input set. Videos are concatenated in slice order.
type Session struct {
	Videos    []string
	Watermark string
	Audio     string
}

// Ready reports whether all three inputs are set.
func (s *Session) Ready() bool {
	return s != nil && len(s.Videos) > 0 && s.Watermark != "" && s.Audio != ""
}

// Missing lists the unset inputs by label, in form order.
func (s *Session) Missing() []string {
	var m []string
	if s == nil || len(s.Videos) == 0 {
		m = append(m, "videos")
	}
	if s == nil || s.Watermark == "" {
		m = append(m, "watermark")
	}
	if s == nil || s.Audio == "" {
		m = append(m, "audio")
	}
	return m
}

// Validate returns ErrIncomplete unless [Session.Ready].
func (s *Session) Validate() error {
	if !s.Ready() {
		return ErrIncomplete
	}
	return nil
}

// Clone returns a copy whose Videos slice is not shared with s.
func (s *Session) Clone() *Session {
	c := *s
	c.Videos = append([]string(nil), s.Videos...)
	return &c
}

// ParseList splits a comma- or newline-separated path list, trimming
// blanks and dropping empty entries. Order is preserved.
func ParseList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
