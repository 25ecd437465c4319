// Package lifecycle defines the application-status state machine for
// tracked opportunities.
//
// Valid status graph:
//
//	SAVED ──► APPLIED ──► SCREENING ──► INTERVIEWING ──► OFFER ──► ACCEPTED
//	  │           │            │              │            │
//	  │           ├────────────┴──────────────┴────────────┴──► REJECTED
//	  └───────────┴───────────────(any non-terminal)──────────► WITHDRAWN
//
// ACCEPTED, REJECTED and WITHDRAWN are terminal states.
package lifecycle

import (
	"github.com/michaelprosario/career-catalyst/internal/apperr"
	"github.com/michaelprosario/career-catalyst/internal/model"
)

// validTransitions lists every allowed (from → to) pair. Forward movement is
// one step at a time; REJECTED is reachable once an application has been
// submitted; WITHDRAWN is reachable from any non-terminal state.
var validTransitions = map[model.ApplicationStatus][]model.ApplicationStatus{
	model.StatusSaved:        {model.StatusApplied, model.StatusWithdrawn},
	model.StatusApplied:      {model.StatusScreening, model.StatusRejected, model.StatusWithdrawn},
	model.StatusScreening:    {model.StatusInterviewing, model.StatusRejected, model.StatusWithdrawn},
	model.StatusInterviewing: {model.StatusOffer, model.StatusRejected, model.StatusWithdrawn},
	model.StatusOffer:        {model.StatusAccepted, model.StatusRejected, model.StatusWithdrawn},
	// ACCEPTED, REJECTED and WITHDRAWN are terminal — no outgoing transitions
}

// IsTerminal reports whether status permits no further transitions.
func IsTerminal(s model.ApplicationStatus) bool {
	switch s {
	case model.StatusAccepted, model.StatusRejected, model.StatusWithdrawn:
		return true
	}
	return false
}

// CanTransition returns true when moving from → to is permitted by the
// state machine.
func CanTransition(from, to model.ApplicationStatus) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal or unknown state — no outgoing transitions
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Transition validates a requested status change as a pure function,
// returning the new status or a TransitionError.
func Transition(from, to model.ApplicationStatus) (model.ApplicationStatus, error) {
	if !CanTransition(from, to) {
		return "", &apperr.TransitionError{From: string(from), To: string(to)}
	}
	return to, nil
}
