package knnimpute

import "fmt"

// State is the outcome of the most recent Produce call.
type State int32

const (
	// StateUnfitted means the Imputer was not built by New.
	StateUnfitted State = iota
	// StateFinished means the last call returned a complete table.
	StateFinished
	// StateTimedOut means the last call did not finish and returned no table.
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateUnfitted:
		return "unfitted"
	case StateFinished:
		return "finished"
	case StateTimedOut:
		return "timed_out"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// CallMetadata is the polling view of the most recent Produce call.
type CallMetadata struct {
	// Fitted reports whether the last call left the Imputer fitted. A timed
	// out call clears it; the next call that finishes sets it again.
	Fitted bool
	// Finished reports whether the last call completed.
	Finished bool
	// IterationsDone mirrors Finished; k-NN imputation runs a single pass.
	IterationsDone bool
}

func (s State) metadata() CallMetadata {
	if s == StateFinished {
		return CallMetadata{Fitted: true, Finished: true, IterationsDone: true}
	}
	return CallMetadata{}
}
