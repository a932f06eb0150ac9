package ffmpeg

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Stderr string
	Err    error
}

// ExecFunc runs a built argument slice. Stages take one so tests can
// capture the arguments instead of starting ffmpeg.
type ExecFunc func(ctx context.Context, args []string, verbose bool) ExecResult

// Execute runs args (args[0] is the binary). When verbose, stderr is
// tee'd to os.Stderr in real time; otherwise it is captured silently for
// the failure summary.
func Execute(ctx context.Context, args []string, verbose bool) ExecResult {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	if ctx.Err() != nil {
		err = ctx.Err()
	}
	return ExecResult{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}

// CommandLine joins args for logging, quoting those with spaces.
func CommandLine(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			parts[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		} else {
			parts[i] = a
		}
	}
	return strings.Join(parts, " ")
}
