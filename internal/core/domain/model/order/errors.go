package order

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownState is the sentinel behind UnknownStateError.
	ErrUnknownState = errors.New("unknown state")

	// ErrIllegalTransition is the sentinel behind IllegalTransitionError.
	ErrIllegalTransition = errors.New("illegal transition")

	// ErrOrderIsNotAmendable is the sentinel behind NotAmendableError.
	ErrOrderIsNotAmendable = errors.New("order is not amendable")
)

// UnknownStateError reports a requested status outside the kind's vocabulary,
// e.g. READY for an app order. It points at a UI bug and is never retried.
type UnknownStateError struct {
	Kind      Kind
	Requested string
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("%s: %s is not a %s order state", ErrUnknownState, e.Requested, e.Kind)
}

func (e *UnknownStateError) Unwrap() error {
	return ErrUnknownState
}

// IllegalTransitionError reports a missing edge in the kind's graph,
// including any attempt to leave a terminal status.
type IllegalTransitionError struct {
	Kind     Kind
	From     Status
	To       Status
	Terminal bool
}

func (e *IllegalTransitionError) Error() string {
	if e.Terminal {
		return fmt.Sprintf("%s: %s order is %s, which is final (requested %s)", ErrIllegalTransition, e.Kind, e.From, e.To)
	}
	return fmt.Sprintf("%s: %s order cannot go from %s to %s", ErrIllegalTransition, e.Kind, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// NotAmendableError reports an attempt to resubmit the items of an order that
// is not a PENDING table order.
type NotAmendableError struct {
	Kind   Kind
	Status Status
}

func (e *NotAmendableError) Error() string {
	if e.Kind != Table {
		return fmt.Sprintf("%s: only table orders can be amended, this is a %s order", ErrOrderIsNotAmendable, e.Kind)
	}
	return fmt.Sprintf("%s: %s order is %s, only PENDING orders can be amended", ErrOrderIsNotAmendable, e.Kind, e.Status)
}

func (e *NotAmendableError) Unwrap() error {
	return ErrOrderIsNotAmendable
}
