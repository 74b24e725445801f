package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition means the state does not accept the trigger
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrGuardFailed means every transition for the trigger was vetoed by its guard
	ErrGuardFailed = errors.New("guard condition failed")
)

// TransitionError records a rejected trigger and unwraps to one of the
// sentinels above.
type TransitionError struct {
	From    any
	Trigger any
	Err     error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: %v from %v", e.Err, e.Trigger, e.From)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}
