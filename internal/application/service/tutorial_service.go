package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/garyjia/quotebook/internal/domain/entity"
	"github.com/garyjia/quotebook/internal/domain/tutorial"
	"github.com/garyjia/quotebook/internal/domain/workflow"
)

// TutorialState is the tour as seen by a client
type TutorialState struct {
	Visible bool             `json:"visible"`
	Step    tutorial.Step    `json:"step"`
	Total   tutorial.Step    `json:"total"`
	Anchor  string           `json:"anchor,omitempty"`
	Accepts []tutorial.Event `json:"accepts"`
	Seen    bool             `json:"hasSeenTutorial"`
}

// TutorialResult reports what an event did
type TutorialResult struct {
	Handled bool              `json:"handled"`
	Effects []tutorial.Effect `json:"effects,omitempty"`
	State   TutorialState     `json:"state"`
}

// TutorialService drives the guided tour and applies its side effects
type TutorialService interface {
	State(ctx context.Context) TutorialState
	Dispatch(ctx context.Context, event tutorial.Event) (TutorialResult, error)
	Start(ctx context.Context) TutorialState
	Stop(ctx context.Context) TutorialState
	Toggle(ctx context.Context) TutorialState
}

type tutorialServiceImpl struct {
	mu        sync.Mutex
	guide     *tutorial.Guide
	step      tutorial.Step
	visible   bool
	quotes    QuoteService
	settings  SettingsService
	workspace *Workspace
	logger    Logger
}

// NewTutorialService creates a TutorialService resuming from the persisted step.
// The tour opens by itself for users who have not seen it.
func NewTutorialService(
	ctx context.Context,
	quotes QuoteService,
	settings SettingsService,
	workspace *Workspace,
	logger Logger,
) TutorialService {
	st := settings.Get(ctx)
	step := tutorial.Step(st.TutorialStep)
	if !step.Valid() {
		step = 0
	}
	return &tutorialServiceImpl{
		guide:     tutorial.NewGuide(),
		step:      step,
		visible:   !st.HasSeenTutorial,
		quotes:    quotes,
		settings:  settings,
		workspace: workspace,
		logger:    logger,
	}
}

func (s *tutorialServiceImpl) State(ctx context.Context) TutorialState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(ctx)
}

// Dispatch feeds an event to the tour. Events the current step does not
// expect are ignored and reported as not handled. Incidental UI events are
// only meaningful while the tour is visible.
func (s *tutorialServiceImpl) Dispatch(ctx context.Context, event tutorial.Event) (TutorialResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch event {
	case tutorial.EventStarted:
		s.startLocked(ctx)
		return TutorialResult{Handled: true, Effects: []tutorial.Effect{tutorial.EffectShowDashboard}, State: s.stateLocked(ctx)}, nil
	case tutorial.EventStopped:
		s.stopLocked(ctx)
		return TutorialResult{Handled: true, Effects: []tutorial.Effect{tutorial.EffectFinish}, State: s.stateLocked(ctx)}, nil
	}

	if !s.visible {
		return TutorialResult{State: s.stateLocked(ctx)}, nil
	}

	tr, err := s.guide.Apply(ctx, s.step, event)
	if err != nil {
		if errors.Is(err, workflow.ErrInvalidTransition) {
			return TutorialResult{State: s.stateLocked(ctx)}, nil
		}
		return TutorialResult{}, fmt.Errorf("tutorial %s at step %d: %w", event, s.step, err)
	}

	if tr.Finished() {
		s.stopLocked(ctx)
		return TutorialResult{Handled: true, Effects: tr.Effects, State: s.stateLocked(ctx)}, nil
	}

	if err := s.applyEffects(ctx, tr); err != nil {
		return TutorialResult{}, err
	}
	s.setStepLocked(ctx, tr.To)

	s.logger.Info("Tutorial advanced", "event", event, "from", tr.From, "to", tr.To)
	return TutorialResult{Handled: true, Effects: tr.Effects, State: s.stateLocked(ctx)}, nil
}

func (s *tutorialServiceImpl) applyEffects(ctx context.Context, tr tutorial.Transition) error {
	for _, effect := range tr.Effects {
		switch effect {
		case tutorial.EffectShowDashboard:
			s.workspace.SetTab(tutorial.TabDashboard)
		case tutorial.EffectCreateQuote:
			if _, err := s.quotes.CreateQuote(ctx, ""); err != nil {
				return fmt.Errorf("tutorial create quote: %w", err)
			}
		case tutorial.EffectApplyStandardTemplate:
			if err := s.workspace.ApplyTemplate(entity.TemplateStandard); err != nil && !errors.Is(err, ErrNoCurrentQuote) {
				return err
			}
		case tutorial.EffectOpenPreview:
			s.workspace.SetPreview(true)
		case tutorial.EffectFinalizeAndSave:
			if err := s.finalizeCurrent(ctx); err != nil {
				return err
			}
		case tutorial.EffectShowQuotes:
			s.workspace.SetTab(tutorial.TabQuotes)
		case tutorial.EffectShowTemplates:
			s.workspace.SetTab(tutorial.TabTemplates)
		case tutorial.EffectShowSettings:
			s.workspace.SetTab(tutorial.TabSettings)
		case tutorial.EffectNavigate:
			s.navigate(tutorial.NavigationFor(tr.To))
		}
	}
	return nil
}

// finalizeCurrent saves the open quote as finalized and closes the editor.
// Without an open quote it only switches to the library.
func (s *tutorialServiceImpl) finalizeCurrent(ctx context.Context) error {
	current := s.workspace.Current()
	if current == nil {
		s.workspace.SetTab(tutorial.TabQuotes)
		return nil
	}
	current.Status = entity.StatusFinalized
	if _, err := s.quotes.SaveQuote(ctx, current, true); err != nil {
		return fmt.Errorf("tutorial finalize: %w", err)
	}
	return nil
}

func (s *tutorialServiceImpl) navigate(nav tutorial.Navigation) {
	if nav.Tab != "" {
		s.workspace.SetTab(nav.Tab)
	}
	switch nav.Editing {
	case tutorial.On:
		s.workspace.SetEditing(true)
	case tutorial.Off:
		s.workspace.SetEditing(false)
	}
	switch nav.Preview {
	case tutorial.On:
		s.workspace.SetPreview(true)
	case tutorial.Off:
		s.workspace.SetPreview(false)
	}
}

// Start shows the tour at step 1 on the dashboard
func (s *tutorialServiceImpl) Start(ctx context.Context) TutorialState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked(ctx)
	return s.stateLocked(ctx)
}

// Stop hides the tour, remembers it was seen and rewinds to the welcome gate
func (s *tutorialServiceImpl) Stop(ctx context.Context) TutorialState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(ctx)
	return s.stateLocked(ctx)
}

// Toggle stops a visible tour, otherwise shows the welcome gate on a clean workspace
func (s *tutorialServiceImpl) Toggle(ctx context.Context) TutorialState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.visible {
		s.stopLocked(ctx)
		return s.stateLocked(ctx)
	}
	s.workspace.Reset()
	s.visible = true
	s.setStepLocked(ctx, 0)
	return s.stateLocked(ctx)
}

func (s *tutorialServiceImpl) startLocked(ctx context.Context) {
	s.workspace.SetTab(tutorial.TabDashboard)
	s.visible = true
	s.setStepLocked(ctx, 1)
	s.logger.Info("Tutorial started")
}

func (s *tutorialServiceImpl) stopLocked(ctx context.Context) {
	s.visible = false
	s.settings.MarkTutorialSeen(ctx)
	s.setStepLocked(ctx, 0)
	s.logger.Info("Tutorial stopped")
}

func (s *tutorialServiceImpl) setStepLocked(ctx context.Context, step tutorial.Step) {
	s.step = step
	s.settings.SetTutorialStep(ctx, int(step))
}

func (s *tutorialServiceImpl) stateLocked(ctx context.Context) TutorialState {
	return TutorialState{
		Visible: s.visible,
		Step:    s.step,
		Total:   tutorial.TotalSteps,
		Anchor:  s.step.Anchor(),
		Accepts: s.guide.Accepts(s.step),
		Seen:    s.settings.Get(ctx).HasSeenTutorial,
	}
}
