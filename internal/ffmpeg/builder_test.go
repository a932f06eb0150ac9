package ffmpeg

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/backmassage/vidmaker/internal/config"
)

var testEnc = Encoding{Video: "libx264", Audio: "aac", CRF: 23, Preset: "fast"}

// argAfter returns the argument following the first occurrence of flag.
func argAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func countFlag(args []string, flag string) int {
	n := 0
	for _, a := range args {
		if a == flag {
			n++
		}
	}
	return n
}

func TestConcatFilter(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		normalize *Size
		want      string
	}{
		{"single input", 1, nil, "[0:v][0:a]concat=n=1:v=1:a=1[outv][outa]"},
		{"two inputs", 2, nil, "[0:v][0:a][1:v][1:a]concat=n=2:v=1:a=1[outv][outa]"},
		{
			"normalized", 2, &Size{Width: 1280, Height: 720},
			"[0:v]scale=1280:720:force_original_aspect_ratio=decrease,pad=1280:720:(ow-iw)/2:(oh-ih)/2,setsar=1[v0];" +
				"[1:v]scale=1280:720:force_original_aspect_ratio=decrease,pad=1280:720:(ow-iw)/2:(oh-ih)/2,setsar=1[v1];" +
				"[v0][0:a][v1][1:a]concat=n=2:v=1:a=1[outv][outa]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConcatFilter(tt.n, tt.normalize); got != tt.want {
				t.Errorf("ConcatFilter() =\n  %s\nwant\n  %s", got, tt.want)
			}
		})
	}
}

func TestBuildMerge(t *testing.T) {
	args := BuildMerge([]string{"b.mp4", "a.mp4"}, "merged.mp4", nil, testEnc, false)

	if args[0] != "ffmpeg" || args[len(args)-1] != "merged.mp4" {
		t.Errorf("args = %v", args)
	}
	if countFlag(args, "-i") != 2 {
		t.Errorf("want 2 inputs, got %d", countFlag(args, "-i"))
	}
	if args[4] != "-loglevel" || args[5] != "error" {
		t.Errorf("quiet loglevel missing: %v", args[:6])
	}
	// Concatenation order follows the input order.
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-i b.mp4 -i a.mp4") {
		t.Errorf("inputs out of order: %s", joined)
	}
	if got := argAfter(args, "-crf"); got != "23" {
		t.Errorf("-crf = %q", got)
	}
	if got := argAfter(args, "-preset"); got != "fast" {
		t.Errorf("-preset = %q", got)
	}
	if got := argAfter(args, "-c:a"); got != "aac" {
		t.Errorf("-c:a = %q", got)
	}
}

func TestBuildMerge_Verbose(t *testing.T) {
	args := BuildMerge([]string{"a.mp4"}, "merged.mp4", nil, testEnc, true)
	if argAfter(args, "-loglevel") != "info" || countFlag(args, "-stats") != 1 {
		t.Errorf("verbose preamble = %v", args[:8])
	}
}

func TestWatermarkFilter(t *testing.T) {
	got := WatermarkFilter(1920, 8, 0.3)
	want := "[1:v]format=rgba,colorchannelmixer=aa=0.3,scale=1920:-1,trim=duration=8[wm];" +
		"[0:v][wm]overlay=x=0:y=(H-h)/2[outv]"
	if got != want {
		t.Errorf("WatermarkFilter() =\n  %s\nwant\n  %s", got, want)
	}
}

func TestBuildWatermark(t *testing.T) {
	args := BuildWatermark("merged.mp4", "logo.png", "watermarked.mp4", 1280, 5.005, 0.3, testEnc, false)

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-i merged.mp4 -loop 1 -i logo.png") {
		t.Errorf("image must be the looped second input: %s", joined)
	}
	if !strings.Contains(argAfter(args, "-filter_complex"), "trim=duration=5.005") {
		t.Errorf("filter = %q", argAfter(args, "-filter_complex"))
	}
	if argAfter(args, "-map") != "[outv]" || countFlag(args, "-an") != 1 {
		t.Errorf("watermark output must be video only: %s", joined)
	}
	if argAfter(args, "-t") != "5.005" {
		t.Errorf("-t = %q", argAfter(args, "-t"))
	}
}

func TestBuildMux(t *testing.T) {
	args := BuildMux("watermarked.mp4", "song_trimmed.mp3", "vidmaker_20240102_030405.mp4", testEnc, false)

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-map 0:v:0 -map 1:a:0") {
		t.Errorf("mux must take video from input 0 and audio from input 1: %s", joined)
	}
	if countFlag(args, "-shortest") != 1 {
		t.Errorf("-shortest missing: %s", joined)
	}
	if args[len(args)-1] != "vidmaker_20240102_030405.mp4" {
		t.Errorf("output = %q", args[len(args)-1])
	}
}

func TestAppendVideoCodec_Hardware(t *testing.T) {
	enc := testEnc
	enc.Video = "h264_videotoolbox"
	args := appendVideoCodec(nil, enc)
	if countFlag(args, "-crf") != 0 || countFlag(args, "-preset") != 0 {
		t.Errorf("hardware encoder got software rate control: %v", args)
	}
	if argAfter(args, "-c:v") != "h264_videotoolbox" {
		t.Errorf("args = %v", args)
	}
}

func TestEncodingFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.CRF = 20
	m := MergeEncoding(&cfg)
	if m.Video != "libx264" || m.Audio != "aac" || m.CRF != 20 || m.Preset != "fast" {
		t.Errorf("MergeEncoding = %+v", m)
	}
	o := OutputEncoding(&cfg, "h264_videotoolbox")
	if o.Video != "h264_videotoolbox" || o.CRF != 20 {
		t.Errorf("OutputEncoding = %+v", o)
	}
}

func TestCommandLine(t *testing.T) {
	got := CommandLine([]string{"ffmpeg", "-i", "my clip.mp4", "out.mp4"})
	want := "ffmpeg -i 'my clip.mp4' out.mp4"
	if got != want {
		t.Errorf("CommandLine() = %q, want %q", got, want)
	}
}

func TestExecute_Failure(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not in PATH")
	}
	res := Execute(context.Background(), []string{"ffmpeg", "-hide_banner", "-i", "/nonexistent/in.mp4", "-f", "null", "-"}, false)
	if res.Err == nil {
		t.Fatal("Execute should fail on a missing input")
	}
	if Summarize(res.Stderr) != "input file not found" {
		t.Errorf("Summarize(%q) = %q", res.Stderr, Summarize(res.Stderr))
	}
}
