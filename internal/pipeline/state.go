package pipeline

import "time"

// State is a step of a run.
type State int

const (
	StateStart State = iota
	StateCleanStale
	StateMerge
	StateWatermark
	StateMixAudio
	StateCleanIntermediate
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateStart:             "START",
	StateCleanStale:        "CLEAN_STALE",
	StateMerge:             "MERGE",
	StateWatermark:         "WATERMARK",
	StateMixAudio:          "MIX_AUDIO",
	StateCleanIntermediate: "CLEAN_INTERMEDIATE",
	StateDone:              "DONE",
	StateFailed:            "FAILED",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }

// Event is one state transition, delivered to the [Observer].
type Event struct {
	RunID string
	State State
	Time  time.Time
	Err   error // set only for StateFailed
	Final string
}

// Observer receives transitions synchronously, in order. It must not block.
type Observer func(Event)
