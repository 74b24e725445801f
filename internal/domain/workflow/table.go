// Package workflow holds a small generic transition table used by the quote
// lifecycle and the guided tour.
package workflow

import (
	"context"
	"fmt"
)

// Guard vetoes a transition by returning false
type Guard func(ctx context.Context) bool

type edge[S comparable] struct {
	to    S
	guard Guard
}

// Rules are the transitions leaving one state
type Rules[S comparable, T comparable] struct {
	table *Table[S, T]
	edges map[T][]edge[S]
	// order keeps Accepts deterministic
	order []T
}

// Table maps a state and a trigger to the next state. Configure it up front;
// once configured it is read-only and safe for concurrent Resolve calls.
type Table[S comparable, T comparable] struct {
	valid func(S) bool
	rules map[S]*Rules[S, T]
}

// NewTable returns an empty table. valid rejects states that must never be
// configured; nil accepts every state.
func NewTable[S comparable, T comparable](valid func(S) bool) *Table[S, T] {
	if valid == nil {
		valid = func(S) bool { return true }
	}
	return &Table[S, T]{
		valid: valid,
		rules: make(map[S]*Rules[S, T]),
	}
}

// From returns the rules for state, creating them on first use
func (t *Table[S, T]) From(state S) *Rules[S, T] {
	if !t.valid(state) {
		panic(fmt.Sprintf("workflow: invalid state %v", state))
	}
	r, ok := t.rules[state]
	if !ok {
		r = &Rules[S, T]{table: t, edges: make(map[T][]edge[S])}
		t.rules[state] = r
	}
	return r
}

// Permit lets trigger move to state to
func (r *Rules[S, T]) Permit(trigger T, to S) *Rules[S, T] {
	return r.PermitIf(trigger, to, nil)
}

// PermitIf lets trigger move to state to when guard passes. Several targets
// may share a trigger; the first one whose guard passes wins.
func (r *Rules[S, T]) PermitIf(trigger T, to S, guard Guard) *Rules[S, T] {
	if !r.table.valid(to) {
		panic(fmt.Sprintf("workflow: invalid target state %v", to))
	}
	if _, seen := r.edges[trigger]; !seen {
		r.order = append(r.order, trigger)
	}
	r.edges[trigger] = append(r.edges[trigger], edge[S]{to: to, guard: guard})
	return r
}

// Resolve returns the state reached by firing trigger in state from. On
// rejection it returns from together with a *TransitionError.
func (t *Table[S, T]) Resolve(ctx context.Context, from S, trigger T) (S, error) {
	var edges []edge[S]
	if r, ok := t.rules[from]; ok {
		edges = r.edges[trigger]
	}
	if len(edges) == 0 {
		return from, &TransitionError{From: from, Trigger: trigger, Err: ErrInvalidTransition}
	}

	for _, e := range edges {
		if e.guard == nil || e.guard(ctx) {
			return e.to, nil
		}
	}
	return from, &TransitionError{From: from, Trigger: trigger, Err: ErrGuardFailed}
}

// Can reports whether from has any transition for trigger. Guards are not run.
func (t *Table[S, T]) Can(from S, trigger T) bool {
	r, ok := t.rules[from]
	return ok && len(r.edges[trigger]) > 0
}

// Accepts lists the triggers configured for from, in configuration order
func (t *Table[S, T]) Accepts(from S) []T {
	r, ok := t.rules[from]
	if !ok {
		return []T{}
	}
	return append([]T{}, r.order...)
}
