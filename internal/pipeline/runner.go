package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/backmassage/vidmaker/internal/audio"
	"github.com/backmassage/vidmaker/internal/config"
	"github.com/backmassage/vidmaker/internal/display"
	"github.com/backmassage/vidmaker/internal/logging"
	"github.com/backmassage/vidmaker/internal/naming"
	"github.com/backmassage/vidmaker/internal/session"
	"github.com/backmassage/vidmaker/internal/stage"
)

// ErrBusy is returned by Run while another run holds the orchestrator.
var ErrBusy = errors.New("another run is already in progress")

// Stages performs the three media operations; *stage.Runner in production.
type Stages interface {
	Merge(ctx context.Context, inputs []string, output string) error
	Watermark(ctx context.Context, video, image, output string) error
	MixAudio(ctx context.Context, video, audioPath, output string) error
}

// Recorder receives timings; *metrics.Metrics in production.
type Recorder interface {
	ObserveStage(stage string, d time.Duration, err error)
	ObserveRun(d time.Duration, err error)
}

// Result describes a finished run, successful or not.
type Result struct {
	RunID     string
	FinalPath string // empty unless the run reached DONE
	States    []State
	Elapsed   time.Duration
}

// Orchestrator runs sessions one at a time.
type Orchestrator struct {
	cfg    *config.Config
	log    *logging.Logger
	stages Stages

	sem      *semaphore.Weighted
	resolver *naming.CollisionResolver
	observer Observer
	recorder Recorder
	now      func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver reports every state transition to fn.
func WithObserver(fn Observer) Option { return func(o *Orchestrator) { o.observer = fn } }

// WithRecorder reports stage and run timings to r.
func WithRecorder(r Recorder) Option { return func(o *Orchestrator) { o.recorder = r } }

// WithClock replaces time.Now (final-name timestamps and timings).
func WithClock(now func() time.Time) Option { return func(o *Orchestrator) { o.now = now } }

// New returns an Orchestrator using cfg.WorkDir and cfg.OutputDir.
func New(cfg *config.Config, log *logging.Logger, stages Stages, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		log:      log,
		stages:   stages,
		sem:      semaphore.NewWeighted(1),
		resolver: naming.NewCollisionResolver(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// run holds the per-run state threaded through the stages.
type run struct {
	o      *Orchestrator
	log    *logging.Logger
	res    *Result
	in     *session.Session
	merged string
	marked string
	trim   string
	final  string
}

// Run processes s: merge, watermark, mix. The intermediates are swept on
// every exit path. The returned Result is non-nil whenever the run started,
// including failed runs; check the error first. Validation, lock and
// directory errors are returned before START with a nil Result.
func (o *Orchestrator) Run(ctx context.Context, s *session.Session) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if !o.sem.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer o.sem.Release(1)

	// Directories are created before START so FAILED stays reachable
	// only from the stages.
	for _, dir := range []string{o.cfg.WorkDir, o.cfg.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory: %w", err)
		}
	}

	start := o.now()
	id := uuid.NewString()
	in := s.Clone()
	r := &run{
		o:      o,
		log:    o.log.With("run " + id[:8]),
		res:    &Result{RunID: id},
		in:     in,
		merged: naming.MergedPath(o.cfg.WorkDir),
		marked: naming.WatermarkedPath(o.cfg.WorkDir),
		trim:   audio.TrimmedPath(in.Audio),
		final:  o.resolver.Resolve(naming.FinalPath(o.cfg.OutputDir, start)),
	}

	sweep := []string{r.merged, r.marked}
	if !o.cfg.KeepTrimmed {
		sweep = append(sweep, r.trim)
	}
	swept := false
	cleanup := func() {
		if !swept {
			swept = true
			Cleanup(r.log, sweep...)
		}
	}
	defer cleanup()

	r.enter(StateStart, nil)
	r.log.Info("Starting run: %d video(s), watermark %s, audio %s", len(in.Videos), in.Watermark, in.Audio)

	err := r.execute(ctx)

	if err == nil {
		r.enter(StateCleanIntermediate, nil)
		cleanup()
		r.res.FinalPath = r.final
	} else {
		cleanup()
	}

	r.res.Elapsed = o.now().Sub(start)
	if o.recorder != nil {
		o.recorder.ObserveRun(r.res.Elapsed, err)
	}

	if err != nil {
		r.enter(StateFailed, err)
		r.log.Error("Run failed after %s: %v", display.FormatSeconds(r.res.Elapsed.Seconds()), err)
		return r.res, err
	}
	r.enter(StateDone, nil)
	r.log.Success("The final video has been saved as %s (%s)", r.final, display.FormatSeconds(r.res.Elapsed.Seconds()))
	return r.res, nil
}

// execute runs CLEAN_STALE and the three stages, stopping at the first error.
func (r *run) execute(ctx context.Context) error {
	r.enter(StateCleanStale, nil)
	Cleanup(r.log, r.merged, r.marked, r.trim, r.final)

	steps := []struct {
		state State
		name  string
		fn    func() error
	}{
		{StateMerge, stage.NameMerge, func() error {
			return r.o.stages.Merge(ctx, r.in.Videos, r.merged)
		}},
		{StateWatermark, stage.NameWatermark, func() error {
			return r.o.stages.Watermark(ctx, r.merged, r.in.Watermark, r.marked)
		}},
		{StateMixAudio, stage.NameMix, func() error {
			return r.o.stages.MixAudio(ctx, r.marked, r.in.Audio, r.final)
		}},
	}
	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.enter(st.state, nil)
		t0 := r.o.now()
		err := st.fn()
		if r.o.recorder != nil {
			r.o.recorder.ObserveStage(st.name, r.o.now().Sub(t0), err)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *run) enter(s State, err error) {
	r.res.States = append(r.res.States, s)
	r.log.Debug("State: %s", s)
	if r.o.observer != nil {
		ev := Event{RunID: r.res.RunID, State: s, Time: r.o.now(), Err: err}
		if s == StateDone {
			ev.Final = r.final
		}
		r.o.observer(ev)
	}
}
