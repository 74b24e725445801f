package service

import (
	"context"
	"sync"
	"time"

	"github.com/tiendc/go-deepcopy"

	"github.com/garyjia/quotebook/internal/domain/entity"
	"github.com/garyjia/quotebook/internal/domain/tutorial"
)

// DefaultAutosaveDelay is used when no delay is configured
const DefaultAutosaveDelay = 500 * time.Millisecond

// WorkspaceState is the editor session as seen by a client
type WorkspaceState struct {
	CurrentQuote  *entity.Quote `json:"currentQuote"`
	IsEditing     bool          `json:"isEditing"`
	IsPreviewOpen bool          `json:"isPreviewOpen"`
	ActiveTab     tutorial.Tab  `json:"activeTab"`
	Dirty         bool          `json:"dirty"`
}

// Workspace is the single editing session: the quote being edited, the
// editor flags and the active view. Draft edits are reconciled into the
// quote store after a quiet period.
type Workspace struct {
	mu      sync.Mutex
	current *entity.Quote
	editing bool
	preview bool
	tab     tutorial.Tab
	dirty   bool

	delay     time.Duration
	timer     *time.Timer
	reconcile func(ctx context.Context, q *entity.Quote) error
	logger    Logger
}

// NewWorkspace creates an idle workspace on the dashboard
func NewWorkspace(autosaveDelay time.Duration, logger Logger) *Workspace {
	if autosaveDelay <= 0 {
		autosaveDelay = DefaultAutosaveDelay
	}
	return &Workspace{
		tab:    tutorial.TabDashboard,
		delay:  autosaveDelay,
		logger: logger,
	}
}

// setReconciler wires the store write used by autosave and Flush
func (w *Workspace) setReconciler(fn func(ctx context.Context, q *entity.Quote) error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reconcile = fn
}

// State returns a copy of the session
func (w *Workspace) State() WorkspaceState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return WorkspaceState{
		CurrentQuote:  cloneQuote(w.current),
		IsEditing:     w.editing,
		IsPreviewOpen: w.preview,
		ActiveTab:     w.tab,
		Dirty:         w.dirty,
	}
}

// Current returns a copy of the quote being edited, or nil
func (w *Workspace) Current() *entity.Quote {
	w.mu.Lock()
	defer w.mu.Unlock()
	return cloneQuote(w.current)
}

// Open makes q the quote being edited and enters edit mode. A pending draft
// of the previously open quote is reconciled first; a failed write is logged.
func (w *Workspace) Open(ctx context.Context, q *entity.Quote) {
	w.mu.Lock()
	w.stopTimer()
	draft, fn := w.takeDirty()
	w.mu.Unlock()

	if draft != nil && fn != nil {
		if err := fn(ctx, draft); err != nil {
			w.logger.Error("Failed to save pending draft", "quote_id", draft.ID, "error", err)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopTimer()
	w.current = cloneQuote(q)
	w.editing = true
	w.preview = false
	w.dirty = false
}

// UpdateDraft replaces the working copy and schedules an autosave
func (w *Workspace) UpdateDraft(q *entity.Quote) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == nil {
		return ErrNoCurrentQuote
	}
	draft := cloneQuote(q)
	draft.ID = w.current.ID
	w.current = draft
	w.dirty = true
	w.schedule()
	return nil
}

// Flush reconciles a pending draft immediately
func (w *Workspace) Flush(ctx context.Context) error {
	w.mu.Lock()
	w.stopTimer()
	draft, fn := w.takeDirty()
	w.mu.Unlock()

	if draft == nil || fn == nil {
		return nil
	}
	return fn(ctx, draft)
}

func (w *Workspace) autosave() {
	w.mu.Lock()
	w.timer = nil
	draft, fn := w.takeDirty()
	w.mu.Unlock()

	if draft == nil || fn == nil {
		return
	}
	if err := fn(context.Background(), draft); err != nil {
		w.logger.Error("Autosave failed", "quote_id", draft.ID, "error", err)
		return
	}
	w.logger.Info("Draft autosaved", "quote_id", draft.ID)
}

// takeDirty must be called with mu held
func (w *Workspace) takeDirty() (*entity.Quote, func(context.Context, *entity.Quote) error) {
	if !w.dirty || w.current == nil {
		return nil, nil
	}
	w.dirty = false
	return cloneQuote(w.current), w.reconcile
}

// ApplyTemplate switches the open quote to a template preset
func (w *Workspace) ApplyTemplate(id entity.TemplateID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return ErrNoCurrentQuote
	}
	w.current.ApplyTemplate(id)
	w.dirty = true
	w.schedule()
	return nil
}

// mirror applies fn to the working copy when id is open, without marking it
// dirty. Store-side changes to the open quote go through here so a later
// autosave does not write the old values back.
func (w *Workspace) mirror(id string, fn func(q *entity.Quote)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current != nil && w.current.ID == id {
		fn(w.current)
	}
}

// SetPreview opens or closes the print preview
func (w *Workspace) SetPreview(open bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.preview = open
}

// SetEditing toggles edit mode without touching the open quote
func (w *Workspace) SetEditing(editing bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.editing = editing
	if !editing {
		w.preview = false
	}
}

// SetTab switches the active view
func (w *Workspace) SetTab(tab tutorial.Tab) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tab = tab
}

// CloseEditor leaves edit mode and forgets the open quote. Unsaved draft
// changes are dropped.
func (w *Workspace) CloseEditor() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopTimer()
	w.current = nil
	w.editing = false
	w.preview = false
	w.dirty = false
}

// Reset returns the session to the dashboard with nothing open
func (w *Workspace) Reset() {
	w.CloseEditor()
	w.SetTab(tutorial.TabDashboard)
}

// isCurrent reports whether id is the quote being edited
func (w *Workspace) isCurrent(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current != nil && w.current.ID == id
}

// Close stops a pending autosave without writing it
func (w *Workspace) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopTimer()
}

// schedule must be called with mu held
func (w *Workspace) schedule() {
	w.stopTimer()
	w.timer = time.AfterFunc(w.delay, w.autosave)
}

func (w *Workspace) stopTimer() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func cloneQuote(q *entity.Quote) *entity.Quote {
	if q == nil {
		return nil
	}
	cp := &entity.Quote{}
	if err := deepcopy.Copy(cp, q); err != nil {
		*cp = *q
		cp.Items = append([]entity.LineItem(nil), q.Items...)
		if q.Theme != nil {
			theme := *q.Theme
			cp.Theme = &theme
		}
	}
	return cp
}
