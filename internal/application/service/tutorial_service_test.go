package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/quotebook/internal/domain/entity"
	"github.com/garyjia/quotebook/internal/domain/tutorial"
)

func dispatch(t *testing.T, s TutorialService, event tutorial.Event) TutorialResult {
	t.Helper()
	res, err := s.Dispatch(context.Background(), event)
	require.NoError(t, err)
	return res
}

func TestTutorialService_VisibleForNewUsers(t *testing.T) {
	f := newFixture(t, false)
	state := f.tutorial.State(context.Background())
	assert.True(t, state.Visible)
	assert.Equal(t, tutorial.Step(0), state.Step)
	assert.Equal(t, tutorial.TotalSteps, state.Total)
}

func TestTutorialService_NextAtStepOneCreatesDraft(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	f.tutorial.Start(ctx)
	res := dispatch(t, f.tutorial, tutorial.EventNextRequested)

	assert.True(t, res.Handled)
	assert.Equal(t, tutorial.Step(2), res.State.Step)
	assert.Equal(t, "tutorial-target-standard-tpl", res.State.Anchor)

	ws := f.workspace.State()
	require.NotNil(t, ws.CurrentQuote)
	assert.Equal(t, entity.StatusDraft, ws.CurrentQuote.Status)
	assert.True(t, ws.IsEditing)
	assert.Equal(t, tutorial.TabDashboard, ws.ActiveTab)
	assert.Equal(t, 2, f.settings.Get(ctx).TutorialStep)
}

func TestTutorialService_WalkThrough(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	f.tutorial.Start(ctx)
	dispatch(t, f.tutorial, tutorial.EventNextRequested) // 1 -> 2, creates draft
	dispatch(t, f.tutorial, tutorial.EventNextRequested) // 2 -> 3, standard template
	assert.Equal(t, entity.TemplateStandard, f.workspace.Current().TemplateID)

	res := dispatch(t, f.tutorial, tutorial.EventClientNameConfirmed)
	assert.Equal(t, tutorial.Step(5), res.State.Step, "confirming the client skips the AI step")

	res = dispatch(t, f.tutorial, tutorial.EventItemDescriptionConfirmed)
	assert.Equal(t, tutorial.Step(6), res.State.Step)

	dispatch(t, f.tutorial, tutorial.EventNextRequested) // 6 -> 7, preview
	assert.True(t, f.workspace.State().IsPreviewOpen)

	current := f.workspace.Current()
	dispatch(t, f.tutorial, tutorial.EventNextRequested) // 7 -> 8, finalize
	stored, err := f.quotes.GetQuote(ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFinalized, stored.Status)
	ws := f.workspace.State()
	assert.False(t, ws.IsEditing)
	assert.Equal(t, tutorial.TabQuotes, ws.ActiveTab)

	dispatch(t, f.tutorial, tutorial.EventNextRequested) // 8 -> 9
	dispatch(t, f.tutorial, tutorial.EventNextRequested) // 9 -> 10
	dispatch(t, f.tutorial, tutorial.EventNextRequested) // 10 -> 11
	assert.Equal(t, tutorial.TabTemplates, f.workspace.State().ActiveTab)

	dispatch(t, f.tutorial, tutorial.EventNextRequested) // 11 -> 12
	res = dispatch(t, f.tutorial, tutorial.EventLogoUploaded)
	assert.Equal(t, tutorial.Step(13), res.State.Step)

	dispatch(t, f.tutorial, tutorial.EventNextRequested) // 13 -> 14
	dispatch(t, f.tutorial, tutorial.EventSignatureCompleted)
	res = dispatch(t, f.tutorial, tutorial.EventSettingsSaved)
	assert.Equal(t, tutorial.Step(16), res.State.Step)

	dispatch(t, f.tutorial, tutorial.EventNextRequested) // 16 -> 17
	res = dispatch(t, f.tutorial, tutorial.EventNextRequested)
	assert.True(t, res.Handled)
	assert.False(t, res.State.Visible)
	assert.Equal(t, tutorial.Step(0), res.State.Step)
	assert.True(t, f.settings.Get(ctx).HasSeenTutorial)
}

func TestTutorialService_IgnoredEvents(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func()
		event tutorial.Event
		step  tutorial.Step
	}{
		{name: "next at welcome gate", setup: func() {}, event: tutorial.EventNextRequested, step: 0},
		{name: "prev at step one", setup: func() { f.tutorial.Start(ctx) }, event: tutorial.EventPrevRequested, step: 1},
		{name: "signature outside step 14", setup: func() { f.tutorial.Start(ctx) }, event: tutorial.EventSignatureCompleted, step: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			res := dispatch(t, f.tutorial, tt.event)
			assert.False(t, res.Handled)
			assert.Equal(t, tt.step, res.State.Step)
		})
	}
}

func TestTutorialService_HiddenTourIgnoresUIEvents(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	f.tutorial.Stop(ctx)
	res := dispatch(t, f.tutorial, tutorial.EventNextRequested)
	assert.False(t, res.Handled)
	assert.False(t, res.State.Visible)
}

func TestTutorialService_PrevNavigates(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	f.tutorial.Start(ctx)
	dispatch(t, f.tutorial, tutorial.EventNextRequested) // 2
	dispatch(t, f.tutorial, tutorial.EventNextRequested) // 3
	f.workspace.SetEditing(false)

	res := dispatch(t, f.tutorial, tutorial.EventPrevRequested)
	assert.Equal(t, tutorial.Step(2), res.State.Step)
	assert.Equal(t, []tutorial.Effect{tutorial.EffectNavigate}, res.Effects)
	ws := f.workspace.State()
	assert.Equal(t, tutorial.TabDashboard, ws.ActiveTab)
	assert.False(t, ws.IsEditing)
	assert.NotNil(t, ws.CurrentQuote, "earlier effects are not undone")
}

func TestTutorialService_StopAndToggle(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	f.tutorial.Start(ctx)
	dispatch(t, f.tutorial, tutorial.EventNextRequested)

	state := f.tutorial.Stop(ctx)
	assert.False(t, state.Visible)
	assert.Equal(t, tutorial.Step(0), state.Step)
	assert.True(t, state.Seen)
	assert.Equal(t, 0, f.settings.Get(ctx).TutorialStep)

	state = f.tutorial.Toggle(ctx)
	assert.True(t, state.Visible)
	assert.Equal(t, tutorial.Step(0), state.Step)
	assert.Nil(t, f.workspace.Current(), "toggling on resets the workspace")

	state = f.tutorial.Toggle(ctx)
	assert.False(t, state.Visible)
}

func TestTutorialService_ResumesPersistedStep(t *testing.T) {
	ctx := context.Background()
	repo := &mockSettingsRepo{}
	st := entity.DefaultSettings()
	st.TutorialStep = 9
	st.HasSeenTutorial = true
	_ = repo.Store(ctx, st)

	settings := NewSettingsService(ctx, repo, &mockLogger{})
	ws := NewWorkspace(0, &mockLogger{})
	defer ws.Close()
	quotes := NewQuoteService(ctx, &mockQuoteRepo{}, settings, ws, nil, nil, &mockLogger{})
	s := NewTutorialService(ctx, quotes, settings, ws, &mockLogger{})

	state := s.State(ctx)
	assert.Equal(t, tutorial.Step(9), state.Step)
	assert.False(t, state.Visible)
}
