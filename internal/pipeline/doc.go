// Package pipeline sequences one vidmaker run through a linear state
// machine:
//
//	START -> CLEAN_STALE -> MERGE -> WATERMARK -> MIX_AUDIO -> CLEAN_INTERMEDIATE -> DONE
//
// with FAILED reachable from MERGE, WATERMARK and MIX_AUDIO. The
// orchestrator owns the artifact names for the duration of a run, runs at
// most one run at a time, and always sweeps the intermediate files before
// returning. The final file is never swept.
package pipeline
