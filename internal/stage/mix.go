package stage

import (
	"context"
	"os"

	"github.com/backmassage/vidmaker/internal/audio"
	"github.com/backmassage/vidmaker/internal/display"
	"github.com/backmassage/vidmaker/internal/ffmpeg"
)

// MixAudio trims audioPath to the duration of video and muxes it in as
// the only audio track of output. A failed trim stops the stage before
// ffmpeg runs; the error wraps both ErrMix and audio.ErrTrim.
func (r *Runner) MixAudio(ctx context.Context, video, audioPath, output string) error {
	pr, err := r.probe(ctx, video)
	if err != nil {
		return &Error{Stage: NameMix, Kind: ErrMix, Err: err}
	}
	duration := pr.Duration()
	if duration <= 0 {
		return stageErr(NameMix, ErrMix, "%s has no duration", video)
	}

	r.log.Info("Background track: %s", audio.DescribeTrack(audioPath))
	res := r.trimmer.Trim(ctx, audioPath, duration)
	if !res.OK() {
		return &Error{Stage: NameMix, Kind: ErrMix, Reason: "could not trim audio", Err: res.Err}
	}

	r.log.Render("Adding audio (%s) -> %s", display.FormatSeconds(duration), output)
	args := ffmpeg.BuildMux(video, res.Path, output, ffmpeg.OutputEncoding(r.cfg, r.videoEncoder), r.cfg.Verbose)
	if err := r.run(ctx, NameMix, ErrMix, args, output); err != nil {
		return err
	}
	if fi, err := os.Stat(output); err == nil {
		r.log.Success("Final video: %s (%s)", output, display.FormatBytes(fi.Size()))
	}
	return nil
}
