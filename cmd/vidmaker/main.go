// Command vidmaker merges video clips, overlays a watermark and adds a
// background track trimmed to the merged length.
//
// It loads .env and VIDMAKER_* defaults, parses flags, validates inputs,
// and either runs system diagnostics (--check) or one pipeline run.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/vidmaker/internal/check"
	"github.com/backmassage/vidmaker/internal/config"
	"github.com/backmassage/vidmaker/internal/display"
	"github.com/backmassage/vidmaker/internal/logging"
	"github.com/backmassage/vidmaker/internal/metrics"
	"github.com/backmassage/vidmaker/internal/pipeline"
	"github.com/backmassage/vidmaker/internal/session"
	"github.com/backmassage/vidmaker/internal/stage"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Bootstrap: the logger doesn't exist yet, so errors go to stderr.
	if err := config.LoadEnvFile(""); err != nil {
		fmt.Fprintf(os.Stderr, "vidmaker: .env: %v\n", err)
		return 1
	}
	cfg := config.DefaultConfig()
	if err := config.ApplyEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "vidmaker: %v\n", err)
		return 1
	}
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "vidmaker: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "vidmaker: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vidmaker: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.CheckOnly {
		check.RunCheck(ctx, &cfg, log)
		return 0
	}

	log.Info("=== vidmaker v%s (%s) ===", version, commit)

	videoEncoder, err := check.CheckDeps(ctx, &cfg)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	log.Info("Video encoder: %s", videoEncoder)

	videos := cfg.Videos
	if cfg.FromDir != "" {
		videos, err = pipeline.Discover(cfg.FromDir)
		if err != nil {
			log.Error("%v", err)
			return 1
		}
		log.Info("Found %d video(s) in %s", len(videos), cfg.FromDir)
	}
	sess := &session.Session{Videos: videos, Watermark: cfg.Watermark, Audio: cfg.Audio}

	m := metrics.New()
	stages := stage.NewRunner(&cfg, videoEncoder, log)
	orch := pipeline.New(&cfg, log, stages, pipeline.WithRecorder(m))

	_, runErr := orch.Run(ctx, sess)

	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn("Could not write metrics file: %v", err)
		}
	}

	return exitCode(log, runErr)
}

// exitCode logs how a run ended and maps it to the process exit status.
// Success was already reported by the orchestrator.
func exitCode(log *logging.Logger, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		log.Warn("Interrupted; intermediate files removed")
		return 130
	default:
		log.Error("%v", err)
		return 1
	}
}
