package stage

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/backmassage/vidmaker/internal/display"
	"github.com/backmassage/vidmaker/internal/ffmpeg"
	"github.com/backmassage/vidmaker/internal/probe"
)

// Merge concatenates inputs, in order, into output. Every input is probed
// first; each must carry a video and an audio stream. Inputs whose frame
// size differs from the first input's are scaled and padded to it.
func (r *Runner) Merge(ctx context.Context, inputs []string, output string) error {
	if len(inputs) == 0 {
		return stageErr(NameMerge, ErrMerge, "no input videos")
	}

	results, err := r.probeAll(ctx, inputs)
	if err != nil {
		return &Error{Stage: NameMerge, Kind: ErrMerge, Err: err}
	}

	var total float64
	var size int64
	for i, pr := range results {
		if !pr.HasAudio() {
			return stageErr(NameMerge, ErrMerge, "%s has no audio stream", inputs[i])
		}
		total += pr.Duration()
		size += pr.Format.Size
	}

	normalize := commonSize(results)
	if normalize != nil {
		r.log.Warn("Clip sizes differ; scaling all clips to %s", normalize)
	}

	r.log.Render("Merging %d clip(s), %s total (%s) -> %s",
		len(inputs), display.FormatSeconds(total), display.FormatBytes(size), output)
	args := ffmpeg.BuildMerge(inputs, output, normalize, ffmpeg.MergeEncoding(r.cfg), r.cfg.Verbose)
	if err := r.run(ctx, NameMerge, ErrMerge, args, output); err != nil {
		return err
	}
	r.log.Success("Merged video: %s", output)
	return nil
}

// probeAll probes inputs concurrently, bounded by ProbeConcurrency.
// Results keep the input order. The first failure cancels the rest.
func (r *Runner) probeAll(ctx context.Context, inputs []string) ([]*probe.ProbeResult, error) {
	results := make([]*probe.ProbeResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.ProbeConcurrency)

	for i, path := range inputs {
		g.Go(func() error {
			pr, err := r.probe(gctx, path)
			if err != nil {
				return err
			}
			if pr.PrimaryVideo == nil {
				return &probe.ProbeError{Path: path, Err: probe.ErrNoVideoStream}
			}
			results[i] = pr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// commonSize returns the first input's frame size when any input differs
// from it, or nil when all match.
func commonSize(results []*probe.ProbeResult) *ffmpeg.Size {
	w0, h0, _ := results[0].FrameSize()
	for _, pr := range results[1:] {
		if w, h, _ := pr.FrameSize(); w != w0 || h != h0 {
			return &ffmpeg.Size{Width: w0, Height: h0}
		}
	}
	return nil
}
