package order

import (
	"fmt"
	"slices"

	"comanda/internal/pkg/errs"
)

// lifecycle is the vocabulary and transition graph of one order kind.
type lifecycle struct {
	states []Status
	edges  map[Status][]Status
}

func getLifecycles() map[Kind]lifecycle {
	return map[Kind]lifecycle{
		Table: {
			states: []Status{Pending, Preparing, Ready, Delivered, Charged, Cancelled},
			edges: map[Status][]Status{
				Pending:   {Preparing, Cancelled},
				Preparing: {Ready, Cancelled},
				Ready:     {Delivered},
				Delivered: {Charged},
			},
		},
		App: {
			states: []Status{Pending, Preparing, Prepared, Charged, Cancelled},
			edges: map[Status][]Status{
				Pending:   {Preparing, Cancelled},
				Preparing: {Prepared, Cancelled},
				Prepared:  {Charged},
			},
		},
	}
}

func lifecycleOf(kind Kind) (lifecycle, error) {
	lc, ok := getLifecycles()[kind]
	if !ok {
		return lifecycle{}, errs.NewValueIsInvalidErrorWithCause("kind is invalid", fmt.Errorf("%d is not a valid kind", kind))
	}
	return lc, nil
}

// Vocabulary lists the statuses an order of the given kind can be in, in lifecycle order.
func Vocabulary(kind Kind) []Status {
	lc, err := lifecycleOf(kind)
	if err != nil {
		return nil
	}
	return slices.Clone(lc.states)
}

// InVocabulary reports whether s belongs to the kind's lifecycle.
func InVocabulary(kind Kind, s Status) bool {
	return slices.Contains(Vocabulary(kind), s)
}

// AllowedTransitions lists the statuses reachable in one step from `from`.
// Terminal and foreign statuses yield an empty list.
func AllowedTransitions(kind Kind, from Status) []Status {
	lc, err := lifecycleOf(kind)
	if err != nil {
		return nil
	}
	return slices.Clone(lc.edges[from])
}

// IsTerminal reports whether s is part of the kind's vocabulary and has no way out.
func IsTerminal(kind Kind, s Status) bool {
	return InVocabulary(kind, s) && len(AllowedTransitions(kind, s)) == 0
}

// CanTransition checks the edge (from, to) against the kind's graph.
//
// Returns:
//   - nil if the edge exists
//   - *UnknownStateError if `to` is not in the kind's vocabulary
//   - *IllegalTransitionError if the edge does not exist
//   - *errs.ValueIsInvalidError if the kind itself is invalid
func CanTransition(kind Kind, from, to Status) error {
	lc, err := lifecycleOf(kind)
	if err != nil {
		return err
	}

	if !slices.Contains(lc.states, to) {
		return &UnknownStateError{Kind: kind, Requested: to.String()}
	}

	if !slices.Contains(lc.edges[from], to) {
		return &IllegalTransitionError{
			Kind:     kind,
			From:     from,
			To:       to,
			Terminal: slices.Contains(lc.states, from) && len(lc.edges[from]) == 0,
		}
	}

	return nil
}

// AttemptTransition decides whether o may move to requested and, if so, returns
// a new order value in that status. o itself is never modified, and no backend
// call is made: the caller applies the result only once the backend confirms it.
//
// Example:
//
//	next, err := order.AttemptTransition(current, order.Preparing)
//	if err != nil {
//	    // ErrUnknownState or ErrIllegalTransition: the screen offered an action it should not have
//	}
//	if err := gateway.UpdateStatus(ctx, next.Kind(), next.ID(), next.Status(), actor); err != nil {
//	    // keep showing current
//	}
func AttemptTransition(o *Order, requested Status) (*Order, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	if err := CanTransition(o.kind, o.status, requested); err != nil {
		return nil, err
	}

	return o.withStatus(requested), nil
}

// AttemptTransitionByName is AttemptTransition for a status name coming from a
// screen or the backend. Unrecognized names fail with ErrUnknownState.
func AttemptTransitionByName(o *Order, requested string) (*Order, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	status := ParseStatus(requested)
	if status == Unknown {
		return nil, &UnknownStateError{Kind: o.kind, Requested: requested}
	}

	return AttemptTransition(o, status)
}
