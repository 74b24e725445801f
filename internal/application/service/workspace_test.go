package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/quotebook/internal/domain/entity"
	"github.com/garyjia/quotebook/internal/domain/tutorial"
)

func TestWorkspace_UpdateDraftWithoutQuote(t *testing.T) {
	w := NewWorkspace(time.Hour, &mockLogger{})
	defer w.Close()

	err := w.UpdateDraft(&entity.Quote{ID: "x"})
	assert.ErrorIs(t, err, ErrNoCurrentQuote)
}

func TestWorkspace_AutosaveDebounces(t *testing.T) {
	w := NewWorkspace(20*time.Millisecond, &mockLogger{})
	defer w.Close()

	var saves atomic.Int32
	var last atomic.Value
	w.setReconciler(func(ctx context.Context, q *entity.Quote) error {
		saves.Add(1)
		last.Store(q.ClientName)
		return nil
	})

	w.Open(context.Background(), &entity.Quote{ID: "q1"})
	for _, name := range []string{"A", "Ac", "Acm", "Acme"} {
		require.NoError(t, w.UpdateDraft(&entity.Quote{ClientName: name}))
	}

	require.Eventually(t, func() bool { return saves.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Acme", last.Load())
	assert.False(t, w.State().Dirty)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), saves.Load())
}

func TestWorkspace_FlushKeepsID(t *testing.T) {
	w := NewWorkspace(time.Hour, &mockLogger{})
	defer w.Close()

	var saved *entity.Quote
	w.setReconciler(func(ctx context.Context, q *entity.Quote) error {
		saved = q
		return nil
	})

	w.Open(context.Background(), &entity.Quote{ID: "q1"})
	require.NoError(t, w.UpdateDraft(&entity.Quote{ID: "other", ClientName: "Globex"}))
	require.NoError(t, w.Flush(context.Background()))

	require.NotNil(t, saved)
	assert.Equal(t, "q1", saved.ID)
	assert.Equal(t, "Globex", saved.ClientName)

	saved = nil
	require.NoError(t, w.Flush(context.Background()))
	assert.Nil(t, saved, "clean workspace has nothing to flush")
}

func TestWorkspace_CloseEditorDropsDraft(t *testing.T) {
	w := NewWorkspace(10*time.Millisecond, &mockLogger{})
	defer w.Close()

	var saves atomic.Int32
	w.setReconciler(func(ctx context.Context, q *entity.Quote) error {
		saves.Add(1)
		return nil
	})

	w.Open(context.Background(), &entity.Quote{ID: "q1"})
	w.SetPreview(true)
	require.NoError(t, w.UpdateDraft(&entity.Quote{ClientName: "x"}))
	w.CloseEditor()

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), saves.Load())

	state := w.State()
	assert.Nil(t, state.CurrentQuote)
	assert.False(t, state.IsEditing)
	assert.False(t, state.IsPreviewOpen)
}

func TestWorkspace_ViewState(t *testing.T) {
	w := NewWorkspace(0, &mockLogger{})
	defer w.Close()

	assert.Equal(t, tutorial.TabDashboard, w.State().ActiveTab)

	w.SetTab(tutorial.TabSettings)
	w.Open(context.Background(), &entity.Quote{ID: "q1"})
	w.SetPreview(true)
	w.SetEditing(false)

	state := w.State()
	assert.Equal(t, tutorial.TabSettings, state.ActiveTab)
	assert.False(t, state.IsEditing)
	assert.False(t, state.IsPreviewOpen, "leaving edit mode closes the preview")
	assert.NotNil(t, state.CurrentQuote)

	require.NoError(t, w.ApplyTemplate(entity.TemplateTech))
	assert.Equal(t, entity.TemplateTech, w.Current().TemplateID)

	w.Reset()
	state = w.State()
	assert.Equal(t, tutorial.TabDashboard, state.ActiveTab)
	assert.Nil(t, state.CurrentQuote)
}

func TestWorkspace_OpenSavesPendingDraft(t *testing.T) {
	f := newFixtureWithDelay(t, false, 30*time.Millisecond)
	ctx := context.Background()

	a, err := f.quotes.CreateQuote(ctx, "")
	require.NoError(t, err)
	_, err = f.quotes.SaveQuote(ctx, a, true)
	require.NoError(t, err)
	b, err := f.quotes.CreateQuote(ctx, "")
	require.NoError(t, err)
	_, err = f.quotes.SaveQuote(ctx, b, true)
	require.NoError(t, err)

	_, err = f.quotes.EditQuote(ctx, a.ID)
	require.NoError(t, err)
	edited := f.workspace.Current()
	edited.ClientName = "Globex"
	require.NoError(t, f.workspace.UpdateDraft(edited))

	_, err = f.quotes.EditQuote(ctx, b.ID)
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	stored, err := f.quotes.GetQuote(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Globex", stored.ClientName)
	assert.Equal(t, b.ID, f.workspace.Current().ID)
	assert.False(t, f.workspace.State().Dirty)
}

func TestWorkspace_EditSameQuoteKeepsPendingDraft(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	q, err := f.quotes.CreateQuote(ctx, "")
	require.NoError(t, err)
	q.ClientName = "Globex"
	require.NoError(t, f.workspace.UpdateDraft(q))

	reopened, err := f.quotes.EditQuote(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "Globex", reopened.ClientName)
	assert.Equal(t, "Globex", f.workspace.Current().ClientName)
}

func TestWorkspace_ApplyTemplateAutosaves(t *testing.T) {
	f := newFixtureWithDelay(t, false, 30*time.Millisecond)
	ctx := context.Background()

	q, err := f.quotes.CreateQuote(ctx, entity.TemplateStandard)
	require.NoError(t, err)
	_, err = f.quotes.SaveQuote(ctx, q, false)
	require.NoError(t, err)

	require.NoError(t, f.workspace.ApplyTemplate(entity.TemplateModern))

	require.Eventually(t, func() bool {
		stored, err := f.quotes.GetQuote(ctx, q.ID)
		return err == nil && stored.TemplateID == entity.TemplateModern
	}, time.Second, 5*time.Millisecond)
	assert.False(t, f.workspace.State().Dirty)
}

func TestWorkspace_StatusChangeSurvivesAutosave(t *testing.T) {
	f := newFixtureWithDelay(t, false, 30*time.Millisecond)
	ctx := context.Background()

	q, err := f.quotes.CreateQuote(ctx, "")
	require.NoError(t, err)
	_, err = f.quotes.SaveQuote(ctx, q, false)
	require.NoError(t, err)

	q.ClientName = "Initech"
	require.NoError(t, f.workspace.UpdateDraft(q))
	_, err = f.quotes.UpdateQuoteStatus(ctx, q.ID, entity.StatusWon)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusWon, f.workspace.Current().Status)

	// a later edit of the open quote must not revert the status
	edited := f.workspace.Current()
	edited.Notes = "Signed"
	require.NoError(t, f.workspace.UpdateDraft(edited))
	time.Sleep(100 * time.Millisecond)

	stored, err := f.quotes.GetQuote(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusWon, stored.Status)
	assert.Equal(t, "Initech", stored.ClientName)
	assert.Equal(t, "Signed", stored.Notes)
}

func TestWorkspace_StoredTemplateChangeReachesWorkingCopy(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	q, err := f.quotes.CreateQuote(ctx, entity.TemplateStandard)
	require.NoError(t, err)
	_, err = f.quotes.SaveQuote(ctx, q, false)
	require.NoError(t, err)

	_, err = f.quotes.ApplyTemplate(ctx, q.ID, entity.TemplateTech)
	require.NoError(t, err)
	assert.Equal(t, entity.TemplateTech, f.workspace.Current().TemplateID)
	assert.False(t, f.workspace.State().Dirty)
}
