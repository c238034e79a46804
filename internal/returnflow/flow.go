// Package returnflow models the customer journey through a return as an
// explicit state machine instead of a pile of booleans.
package returnflow

import (
	"errors"
	"fmt"

	returndomain "github.com/smallbiznis/returnly/internal/returnrequest/domain"
)

// State names one step of the return journey.
type State string

const (
	// StateSelectingOrder is the entry state: the customer browses their
	// eligible orders.
	StateSelectingOrder State = "selecting_order"
	// StateEditingRequest is active while the customer fills in the draft.
	StateEditingRequest State = "editing_request"
	// StateReviewingSummary shows the validated draft before submission.
	StateReviewingSummary State = "reviewing_summary"
	// StateSubmitted is terminal for the drafting journey.
	StateSubmitted State = "submitted"
)

var ErrInvalidTransition = errors.New("invalid_flow_transition")

// transitions lists every legal move. Anything absent is rejected.
var transitions = map[State][]State{
	StateSelectingOrder:   {StateEditingRequest},
	StateEditingRequest:   {StateSelectingOrder, StateReviewingSummary},
	StateReviewingSummary: {StateEditingRequest, StateSubmitted},
	StateSubmitted:        {},
}

// Flow tracks one customer's drafting session.
type Flow struct {
	state  State
	draft  *returndomain.Draft
	notice []returndomain.ErrorCategory
	failed bool
}

// New starts a flow at order selection.
func New() *Flow {
	return &Flow{state: StateSelectingOrder}
}

// State returns the current step.
func (f *Flow) State() State { return f.state }

// Draft returns the draft being edited, nil before an order is chosen.
func (f *Flow) Draft() *returndomain.Draft { return f.draft }

// Notice returns the validation categories shown to the customer.
func (f *Flow) Notice() []returndomain.ErrorCategory { return f.notice }

// Failed reports whether the last submission attempt failed.
func (f *Flow) Failed() bool { return f.failed }

// TransitionTo moves the flow to the requested state. Residue from the
// previous step, validation notices and failure flags, is cleared on every
// legal transition so a stale message cannot survive a step change.
func (f *Flow) TransitionTo(next State) error {
	if !f.canMove(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, f.state, next)
	}
	f.state = next
	f.notice = nil
	f.failed = false
	if next == StateSelectingOrder {
		f.draft = nil
	}
	return nil
}

// SelectOrder binds a draft to the flow and enters editing.
func (f *Flow) SelectOrder(draft returndomain.Draft) error {
	if err := f.TransitionTo(StateEditingRequest); err != nil {
		return err
	}
	f.draft = &draft
	return nil
}

// Review validates the draft and, when it passes, advances to the summary
// step carrying the validated fields. On failure the flow stays in editing
// with the categories recorded for display.
func (f *Flow) Review() (returndomain.ValidationResult, error) {
	if f.state != StateEditingRequest || f.draft == nil {
		return returndomain.ValidationResult{}, fmt.Errorf("%w: review from %s", ErrInvalidTransition, f.state)
	}
	result := returndomain.ValidateDraft(*f.draft)
	if !result.OK() {
		f.notice = result.Errors
		f.failed = result.Internal
		return result, nil
	}
	if err := f.TransitionTo(StateReviewingSummary); err != nil {
		return returndomain.ValidationResult{}, err
	}
	f.draft = result.ValidatedFields
	return result, nil
}

// RecordSubmission finalizes or records the failure of a submission attempt.
func (f *Flow) RecordSubmission(err error) error {
	if f.state != StateReviewingSummary {
		return fmt.Errorf("%w: submit from %s", ErrInvalidTransition, f.state)
	}
	if err != nil {
		f.failed = true
		return nil
	}
	return f.TransitionTo(StateSubmitted)
}

func (f *Flow) canMove(next State) bool {
	for _, allowed := range transitions[f.state] {
		if allowed == next {
			return true
		}
	}
	return false
}
