// Package ffmpeg builds and executes the three ffmpeg commands vidmaker
// needs: concatenation, watermark overlay, and the soundtrack mux.
//
// Builders return complete argument slices (argv[0] is "ffmpeg") so they
// can be logged, asserted in tests, and handed straight to [Execute].
// Failures are never retried; [Summarize] turns the captured stderr into a
// one-line reason for the error message.
package ffmpeg
