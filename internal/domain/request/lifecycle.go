package request

import (
	"github.com/bloodlink/bloodlink/pkg/errs"
)

// transitions lists the statuses reachable from each state. Fulfilled and
// Cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusFulfilled, StatusCancelled},
	StatusInProgress: {StatusFulfilled, StatusCancelled},
	StatusFulfilled:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether a request may move from one status to
// another.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition validates and applies a status change on the request.
func (r *Request) Transition(to Status) error {
	if !to.Valid() {
		return errs.Errorf(errs.CodeInvalidArgument, "invalid status: %q", to)
	}
	if r.Status.Terminal() {
		return errs.Errorf(errs.CodeInvalidArgument,
			"request is %s and cannot change status", r.Status)
	}
	if !CanTransition(r.Status, to) {
		return errs.Errorf(errs.CodeInvalidArgument,
			"cannot move request from %s to %s", r.Status, to)
	}
	r.Status = to
	return nil
}
