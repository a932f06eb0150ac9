package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/backmassage/vidmaker/internal/config"
)

// Encoding carries the output encoder settings shared by every stage.
type Encoding struct {
	Video  string // e.g. libx264, h264_videotoolbox
	Audio  string // e.g. aac
	CRF    int
	Preset string
}

// MergeEncoding returns the merge-stage encoding from cfg.
func MergeEncoding(cfg *config.Config) Encoding {
	return Encoding{Video: cfg.MergeEncoder, Audio: cfg.AudioEncoder, CRF: cfg.CRF, Preset: cfg.Preset}
}

// OutputEncoding returns the watermark/mix encoding from cfg using the
// already resolved video encoder (never "auto").
func OutputEncoding(cfg *config.Config, videoEncoder string) Encoding {
	return Encoding{Video: videoEncoder, Audio: cfg.AudioEncoder, CRF: cfg.CRF, Preset: cfg.Preset}
}

// Size is a frame size in pixels.
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// preamble starts every command. Verbose runs keep ffmpeg's progress line.
func preamble(verbose bool) []string {
	args := []string{"ffmpeg", "-hide_banner", "-nostdin", "-y"}
	if verbose {
		return append(args, "-loglevel", "info", "-stats")
	}
	return append(args, "-loglevel", "error")
}

// appendVideoCodec adds -c:v and, for x264/x265, the rate control args.
// Hardware encoders reject -crf, so it is left out for them.
func appendVideoCodec(args []string, enc Encoding) []string {
	args = append(args, "-c:v", enc.Video)
	if config.SoftwareEncoder(enc.Video) {
		args = append(args, "-crf", strconv.Itoa(enc.CRF), "-preset", enc.Preset)
	}
	return append(args, "-pix_fmt", "yuv420p")
}

// ConcatFilter returns the filter graph joining n inputs, each with one
// video and one audio stream, into [outv] and [outa]. With a non-nil
// normalize every video is first scaled and padded to that size.
func ConcatFilter(n int, normalize *Size) string {
	var b strings.Builder
	if normalize != nil {
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b,
				"[%d:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1[v%d];",
				i, normalize.Width, normalize.Height, normalize.Width, normalize.Height, i)
		}
	}
	for i := 0; i < n; i++ {
		if normalize != nil {
			fmt.Fprintf(&b, "[v%d][%d:a]", i, i)
		} else {
			fmt.Fprintf(&b, "[%d:v][%d:a]", i, i)
		}
	}
	fmt.Fprintf(&b, "concat=n=%d:v=1:a=1[outv][outa]", n)
	return b.String()
}

// BuildMerge concatenates inputs in order into output.
func BuildMerge(inputs []string, output string, normalize *Size, enc Encoding, verbose bool) []string {
	args := preamble(verbose)
	for _, in := range inputs {
		args = append(args, "-i", in)
	}
	args = append(args,
		"-filter_complex", ConcatFilter(len(inputs), normalize),
		"-map", "[outv]", "-map", "[outa]",
	)
	args = appendVideoCodec(args, enc)
	args = append(args, "-c:a", enc.Audio, "-movflags", "+faststart", output)
	return args
}

// WatermarkFilter returns the overlay graph: the looped image (input 1)
// gets an alpha channel scaled by opacity, is stretched to width with its
// aspect kept, trimmed to duration, and centered vertically over input 0.
func WatermarkFilter(width int, duration, opacity float64) string {
	return fmt.Sprintf(
		"[1:v]format=rgba,colorchannelmixer=aa=%s,scale=%d:-1,trim=duration=%s[wm];"+
			"[0:v][wm]overlay=x=0:y=(H-h)/2[outv]",
		formatFloat(opacity), width, formatFloat(duration))
}

// BuildWatermark overlays image across the full width of video. The
// output carries only the composited video; the soundtrack is replaced
// by the mix stage.
func BuildWatermark(video, image, output string, width int, duration, opacity float64, enc Encoding, verbose bool) []string {
	args := preamble(verbose)
	args = append(args,
		"-i", video,
		"-loop", "1", "-i", image,
		"-filter_complex", WatermarkFilter(width, duration, opacity),
		"-map", "[outv]",
		"-an",
	)
	args = appendVideoCodec(args, enc)
	args = append(args, "-t", formatFloat(duration), "-movflags", "+faststart", output)
	return args
}

// BuildMux takes the first video stream of video and the first audio
// stream of audio. Any audio already in video is dropped.
func BuildMux(video, audio, output string, enc Encoding, verbose bool) []string {
	args := preamble(verbose)
	args = append(args,
		"-i", video,
		"-i", audio,
		"-map", "0:v:0", "-map", "1:a:0",
	)
	args = appendVideoCodec(args, enc)
	args = append(args, "-c:a", enc.Audio, "-shortest", "-movflags", "+faststart", output)
	return args
}

// formatFloat renders f without trailing zeros (0.3, 8, 5.005).
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
