package tutorial

import (
	"context"

	"github.com/garyjia/quotebook/internal/domain/workflow"
)

// Transition describes an accepted event
type Transition struct {
	From    Step
	To      Step
	Event   Event
	Effects []Effect
}

// Finished reports whether the transition ends the tour
func (t Transition) Finished() bool {
	for _, e := range t.Effects {
		if e == EffectFinish {
			return true
		}
	}
	return false
}

// Guide holds the tour's transition table
type Guide struct {
	table *workflow.Table[Step, Event]
}

// NewGuide configures the tour:
//   - Next moves 1..16 forward by one; at TotalSteps it finishes the tour;
//     at the welcome gate it is not accepted (Start or Stop is required).
//   - Prev moves back by one down to step 1.
//   - UI events jump only from the step that asks for them.
//   - Started and Stopped are accepted from every step.
func NewGuide() *Guide {
	tbl := workflow.NewTable[Step, Event](Step.Valid)

	for s := Step(0); s <= TotalSteps; s++ {
		cfg := tbl.From(s)
		cfg.Permit(EventStarted, 1)
		cfg.Permit(EventStopped, 0)

		switch {
		case s >= 1 && s < TotalSteps:
			cfg.Permit(EventNextRequested, s+1)
		case s == TotalSteps:
			cfg.Permit(EventNextRequested, 0)
		}
		if s >= 2 {
			cfg.Permit(EventPrevRequested, s-1)
		}
	}

	tbl.From(3).Permit(EventClientNameConfirmed, 5)
	tbl.From(4).Permit(EventItemDescriptionFocused, 5)
	tbl.From(5).Permit(EventItemDescriptionConfirmed, 6)
	tbl.From(12).Permit(EventLogoUploaded, 13)
	tbl.From(14).Permit(EventSignatureCompleted, 15)
	tbl.From(15).Permit(EventSettingsSaved, 16)

	return &Guide{table: tbl}
}

// Apply fires event at step. Events the step does not accept return
// workflow.ErrInvalidTransition and leave the step unchanged.
func (g *Guide) Apply(ctx context.Context, step Step, event Event) (Transition, error) {
	if !step.Valid() {
		step = 0
	}

	to, err := g.table.Resolve(ctx, step, event)
	if err != nil {
		return Transition{From: step, To: step, Event: event}, err
	}

	tr := Transition{From: step, To: to, Event: event}
	switch event {
	case EventNextRequested:
		tr.Effects = nextEffects[step]
	case EventPrevRequested:
		tr.Effects = []Effect{EffectNavigate}
	case EventStarted:
		tr.Effects = []Effect{EffectShowDashboard}
	case EventStopped:
		tr.Effects = []Effect{EffectFinish}
	}
	return tr, nil
}

// Accepts lists the events the step responds to
func (g *Guide) Accepts(step Step) []Event {
	if !step.Valid() {
		return nil
	}
	return g.table.Accepts(step)
}
