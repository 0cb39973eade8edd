// Package lifecycle defines the app listing state machine.
//
// Listings move through a fixed set of states. Every transition must be
// explicitly allowed by the table below; anything else is rejected.
package lifecycle

import (
	perr "pincast/internal/platform/errors"
)

// State is an app listing lifecycle state
type State string

const (
	// StateDraft is a listing being assembled, not yet submitted
	StateDraft State = "draft"

	// StatePending is a submitted listing awaiting review
	StatePending State = "pending"

	// StatePublished is a live listing visible in the catalog
	StatePublished State = "published"

	// StateHidden is a published listing pulled from the catalog
	StateHidden State = "hidden"

	// StateRejected is a listing declined by review
	StateRejected State = "rejected"
)

// Valid reports whether s is a known lifecycle state
func (s State) Valid() bool {
	switch s {
	case StateDraft, StatePending, StatePublished, StateHidden, StateRejected:
		return true
	}
	return false
}

// transitions is the allowed edge set, keyed by source state.
// Draft has no edges; a draft only leaves that state by being submitted,
// which recreates it as pending.
var transitions = map[State][]State{
	StatePending:   {StatePublished, StateRejected},
	StatePublished: {StateHidden},
	StateHidden:    {StatePublished},
	StateRejected:  {StatePending},
}

// CanTransition reports whether from -> to is an allowed edge
func CanTransition(from, to State) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Check validates a requested transition and returns a structured error when
// the edge is not allowed. Self-transitions are rejected like any other
// missing edge.
func Check(from, to State) error {
	if !from.Valid() {
		return perr.InvalidArgf("unknown state %q", string(from))
	}
	if !to.Valid() {
		return perr.InvalidArgf("unknown state %q", string(to))
	}
	if !CanTransition(from, to) {
		return perr.InvalidTransitionf("Invalid state transition from '%s' to '%s'", string(from), string(to))
	}
	return nil
}

// Next returns the states reachable from s in one transition
func Next(s State) []State {
	out := make([]State, len(transitions[s]))
	copy(out, transitions[s])
	return out
}
