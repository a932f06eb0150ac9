package probe

import (
	"errors"
	"fmt"
)

// Frame size assumed when ffprobe reports a video stream without
// dimensions. This is a policy fallback, not a measurement.
const (
	FallbackWidth  = 1280
	FallbackHeight = 720
)

// ErrNoVideoStream is wrapped by [ProbeError] when a file has no usable
// (non-cover-art) video stream.
var ErrNoVideoStream = errors.New("no video stream")

// ProbeError reports that a media file's metadata could not be read.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	Filename   string
	NbStreams  int
	FormatName string
	Duration   float64
	Size       int64
}

// VideoStream holds the parsed properties of a single video stream.
type VideoStream struct {
	Index         int
	Codec         string
	Width         int
	Height        int
	Duration      float64
	AvgFrameRate  string
	IsAttachedPic bool
}

// AudioStream holds the parsed properties of a single audio stream.
type AudioStream struct {
	Index      int
	Codec      string
	Channels   int
	SampleRate int
	Duration   float64
}

// ProbeResult is the fully parsed output of a single ffprobe JSON call.
// PrimaryVideo is the first non-attached-pic video stream (nil if none).
type ProbeResult struct {
	Format       FormatInfo
	PrimaryVideo *VideoStream
	AudioStreams []AudioStream
}

// Duration returns the primary video duration in seconds, falling back to
// the container duration when the stream does not carry one (Matroska).
func (p *ProbeResult) Duration() float64 {
	if p.PrimaryVideo != nil && p.PrimaryVideo.Duration > 0 {
		return p.PrimaryVideo.Duration
	}
	return p.Format.Duration
}

// FrameSize returns the primary video width and height. When either is
// missing, [FallbackWidth]x[FallbackHeight] is returned and fallback is true.
func (p *ProbeResult) FrameSize() (width, height int, fallback bool) {
	if p.PrimaryVideo == nil || p.PrimaryVideo.Width <= 0 || p.PrimaryVideo.Height <= 0 {
		return FallbackWidth, FallbackHeight, true
	}
	return p.PrimaryVideo.Width, p.PrimaryVideo.Height, false
}

// HasAudio reports whether the file carries at least one audio stream.
func (p *ProbeResult) HasAudio() bool {
	return len(p.AudioStreams) > 0
}
