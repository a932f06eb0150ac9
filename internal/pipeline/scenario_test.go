package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/backmassage/vidmaker/internal/ffmpeg"
	"github.com/backmassage/vidmaker/internal/probe"
	"github.com/backmassage/vidmaker/internal/stage"
)

// A missing watermark image fails the run after merge has produced
// merged.mp4; the run must end FAILED with merged.mp4 removed and no
// final video.
func TestRun_MissingWatermark(t *testing.T) {
	fx := newFixture(t)
	fx.sess.Watermark = filepath.Join(t.TempDir(), "does-not-exist.png")

	var ffmpegCalls int
	fakeExec := func(ctx context.Context, args []string, verbose bool) ffmpeg.ExecResult {
		ffmpegCalls++
		os.WriteFile(args[len(args)-1], []byte("video"), 0o644)
		return ffmpeg.ExecResult{}
	}
	fakeProbe := func(ctx context.Context, path string) (*probe.ProbeResult, error) {
		return &probe.ProbeResult{
			Format:       probe.FormatInfo{Duration: 4},
			PrimaryVideo: &probe.VideoStream{Width: 1280, Height: 720, Duration: 4},
			AudioStreams: []probe.AudioStream{{Codec: "aac"}},
		}, nil
	}
	runner := stage.NewRunner(&fx.cfg, "libx264", fx.log, stage.WithExec(fakeExec), stage.WithProbe(fakeProbe))

	o := New(&fx.cfg, fx.log, runner, WithClock(fx.clock))
	res, err := o.Run(context.Background(), fx.sess)

	if !errors.Is(err, stage.ErrWatermark) {
		t.Fatalf("Run error = %v, want ErrWatermark", err)
	}
	if err.Error() == "" {
		t.Error("failure message is empty")
	}
	if got := res.States[len(res.States)-1]; got != StateFailed {
		t.Errorf("last state = %s, want FAILED", got)
	}
	if ffmpegCalls != 1 {
		t.Errorf("ffmpeg calls = %d, want 1 (merge only)", ffmpegCalls)
	}
	if exists(fx.merged()) {
		t.Error("merged.mp4 not deleted")
	}
	if got := finals(t, fx.cfg.OutputDir); len(got) != 0 {
		t.Errorf("final files created: %v", got)
	}
}

// End to end with real binaries: clips of 5s and 3s plus a 20s track
// give one 8s video with exactly one audio stream.
func TestRun_EndToEnd(t *testing.T) {
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not available", bin)
		}
	}
	if testing.Short() {
		t.Skip("encodes video")
	}

	fx := newFixture(t)
	src := t.TempDir()

	var clips []string
	for i, d := range []string{"5", "3"} {
		p := filepath.Join(src, []string{"first.mp4", "second.mp4"}[i])
		gen := exec.Command("ffmpeg", "-hide_banner", "-loglevel", "error",
			"-f", "lavfi", "-i", "testsrc=duration="+d+":size=320x240:rate=24",
			"-f", "lavfi", "-i", "sine=frequency=440:duration="+d+":sample_rate=48000",
			"-c:v", "libx264", "-pix_fmt", "yuv420p", "-c:a", "aac", "-shortest",
			"-y", p)
		if out, err := gen.CombinedOutput(); err != nil {
			t.Fatalf("generate clip: %v\n%s", err, out)
		}
		clips = append(clips, p)
	}

	song := filepath.Join(src, "song.wav")
	gen := exec.Command("ffmpeg", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=220:duration=20:sample_rate=44100",
		"-y", song)
	if out, err := gen.CombinedOutput(); err != nil {
		t.Fatalf("generate audio: %v\n%s", err, out)
	}

	logo := filepath.Join(src, "logo.png")
	img := image.NewNRGBA(image.Rect(0, 0, 100, 20))
	for x := 0; x < 100; x++ {
		img.Set(x, 10, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	}
	f, _ := os.Create(logo)
	png.Encode(f, img)
	f.Close()

	fx.sess.Videos = clips
	fx.sess.Watermark = logo
	fx.sess.Audio = song

	runner := stage.NewRunner(&fx.cfg, "libx264", fx.log)
	res, err := New(&fx.cfg, fx.log, runner).Run(context.Background(), fx.sess)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	pr, err := probe.Probe(context.Background(), res.FinalPath)
	if err != nil {
		t.Fatalf("probe final: %v", err)
	}
	if d := pr.Duration(); math.Abs(d-8) > 0.5 {
		t.Errorf("final duration = %.2fs, want ~8s", d)
	}
	if len(pr.AudioStreams) != 1 {
		t.Errorf("audio streams = %d, want 1", len(pr.AudioStreams))
	}
	if exists(fx.merged()) || exists(fx.watermarked()) {
		t.Error("intermediates left on disk")
	}
}
