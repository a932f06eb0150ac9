// Command vidmaker-tui is the terminal form front end for vidmaker.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/backmassage/vidmaker/internal/check"
	"github.com/backmassage/vidmaker/internal/config"
	"github.com/backmassage/vidmaker/internal/logging"
	"github.com/backmassage/vidmaker/internal/pipeline"
	"github.com/backmassage/vidmaker/internal/stage"
	"github.com/backmassage/vidmaker/internal/tui"
)

var version = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadEnvFile(""); err != nil {
		return err
	}
	cfg := config.DefaultConfig()
	if err := config.ApplyEnv(&cfg); err != nil {
		return err
	}
	if err := config.ParseFlags(&cfg, version); err != nil {
		return err
	}
	if err := cfg.ValidateSettings(); err != nil {
		return err
	}

	// The alt screen owns the terminal; logs only go to --log if set.
	cfg.Quiet = true
	cfg.Verbose = false
	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	videoEncoder, err := check.CheckDeps(context.Background(), &cfg)
	if err != nil {
		return err
	}

	events := make(chan pipeline.Event, 16)
	observe := func(ev pipeline.Event) {
		select {
		case events <- ev:
		default:
		}
	}
	orch := pipeline.New(&cfg, log, stage.NewRunner(&cfg, videoEncoder, log), pipeline.WithObserver(observe))
	return tui.Run(orch.Run, events)
}
