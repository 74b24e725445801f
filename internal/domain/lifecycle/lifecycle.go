// Package lifecycle configures the quote status state machine.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/garyjia/quotebook/internal/domain/entity"
	"github.com/garyjia/quotebook/internal/domain/workflow"
)

// Trigger is a user action that selects a status
type Trigger string

const (
	TriggerSelectDraft Trigger = "SELECT_DRAFT"
	TriggerFinalize    Trigger = "FINALIZE"
	TriggerMarkWon     Trigger = "MARK_WON"
	TriggerMarkLost    Trigger = "MARK_LOST"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}

var triggerFor = map[entity.QuoteStatus]Trigger{
	entity.StatusDraft:     TriggerSelectDraft,
	entity.StatusFinalized: TriggerFinalize,
	entity.StatusWon:       TriggerMarkWon,
	entity.StatusLost:      TriggerMarkLost,
}

// TriggerFor maps a target status to the trigger that selects it
func TriggerFor(status entity.QuoteStatus) (Trigger, error) {
	t, ok := triggerFor[status]
	if !ok {
		return "", fmt.Errorf("%w: %q", entity.ErrInvalidStatus, status)
	}
	return t, nil
}

// Lifecycle builds status machines for individual quotes
type Lifecycle struct {
	table  *workflow.Table[entity.QuoteStatus, Trigger]
	strict bool
}

// New returns the lifecycle. The permissive variant lets every status reach
// every other status, including itself. The strict variant only lets a draft
// move forward to finalized; from there any status may be selected again.
func New(strict bool) *Lifecycle {
	tbl := workflow.NewTable[entity.QuoteStatus, Trigger](entity.QuoteStatus.IsValid)

	if !strict {
		for _, from := range entity.AllStatuses {
			cfg := tbl.From(from)
			for _, to := range entity.AllStatuses {
				cfg.Permit(triggerFor[to], to)
			}
		}
		return &Lifecycle{table: tbl}
	}

	tbl.From(entity.StatusDraft).
		Permit(TriggerSelectDraft, entity.StatusDraft).
		Permit(TriggerFinalize, entity.StatusFinalized)

	tbl.From(entity.StatusFinalized).
		Permit(TriggerSelectDraft, entity.StatusDraft).
		Permit(TriggerFinalize, entity.StatusFinalized).
		Permit(TriggerMarkWon, entity.StatusWon).
		Permit(TriggerMarkLost, entity.StatusLost)

	for _, closed := range []entity.QuoteStatus{entity.StatusWon, entity.StatusLost} {
		tbl.From(closed).
			Permit(TriggerFinalize, entity.StatusFinalized).
			Permit(TriggerMarkWon, entity.StatusWon).
			Permit(TriggerMarkLost, entity.StatusLost)
	}

	return &Lifecycle{table: tbl, strict: true}
}

// Strict reports whether transitions are restricted
func (l *Lifecycle) Strict() bool {
	return l.strict
}

// Transition returns the status reached from `from` when the user selects `to`
func (l *Lifecycle) Transition(ctx context.Context, from, to entity.QuoteStatus) (entity.QuoteStatus, error) {
	trigger, err := TriggerFor(to)
	if err != nil {
		return from, err
	}
	if !from.IsValid() {
		// legacy blobs may carry an unknown status; treat it as a draft
		from = entity.StatusDraft
	}

	return l.table.Resolve(ctx, from, trigger)
}

// Allowed lists the statuses selectable from the given status
func (l *Lifecycle) Allowed(from entity.QuoteStatus) []entity.QuoteStatus {
	if !from.IsValid() {
		from = entity.StatusDraft
	}
	var out []entity.QuoteStatus
	for _, s := range entity.AllStatuses {
		if l.table.Can(from, triggerFor[s]) {
			out = append(out, s)
		}
	}
	return out
}
