package stage

import (
	"context"

	"github.com/backmassage/vidmaker/internal/display"
	"github.com/backmassage/vidmaker/internal/ffmpeg"
)

// Watermark overlays image across the full width of video, vertically
// centered, at the configured opacity, for exactly the video's duration.
func (r *Runner) Watermark(ctx context.Context, video, image, output string) error {
	pr, err := r.probe(ctx, video)
	if err != nil {
		return &Error{Stage: NameWatermark, Kind: ErrWatermark, Err: err}
	}
	duration := pr.Duration()
	if duration <= 0 {
		return stageErr(NameWatermark, ErrWatermark, "%s has no duration", video)
	}
	width, height, fallback := pr.FrameSize()
	if fallback {
		r.log.Warn("%s reports no frame size; assuming %s", video, display.FormatResolution(width, height))
	}

	info, err := r.inspect(image)
	if err != nil {
		return &Error{Stage: NameWatermark, Kind: ErrWatermark, Reason: "watermark image unreadable", Err: err}
	}
	_, y := info.Offset(width, height)
	r.log.Debug("Watermark %s %s -> %dx%d at y=%d", info.Format,
		display.FormatResolution(info.Width, info.Height), width, info.ScaledHeight(width), y)
	if y < 0 {
		r.log.Warn("Watermark scaled to %s is taller than the %s frame; top and bottom will be cropped",
			display.FormatResolution(width, info.ScaledHeight(width)), display.FormatResolution(width, height))
	}

	r.log.Render("Watermarking %s (%s, opacity %.2f) -> %s",
		display.FormatResolution(width, height), display.FormatSeconds(duration), r.cfg.Opacity, output)
	args := ffmpeg.BuildWatermark(video, image, output, width, duration, r.cfg.Opacity,
		ffmpeg.OutputEncoding(r.cfg, r.videoEncoder), r.cfg.Verbose)
	if err := r.run(ctx, NameWatermark, ErrWatermark, args, output); err != nil {
		return err
	}
	r.log.Success("Watermarked video: %s", output)
	return nil
}
