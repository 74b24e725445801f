// Package tutorial models the guided tour as a single state machine over a
// closed set of events. Explicit Next/Prev requests and incidental UI actions
// (confirming the client name, drawing a signature) drive the same machine.
package tutorial

// Step is a position in the guided tour. 0 is the welcome gate and
// TotalSteps is the completion gate.
type Step int

// TotalSteps is the last step of the tour
const TotalSteps Step = 17

// Valid reports whether the step is within [0, TotalSteps]
func (s Step) Valid() bool {
	return s >= 0 && s <= TotalSteps
}

// IsGate reports whether the step is the welcome or the completion gate
func (s Step) IsGate() bool {
	return s == 0 || s == TotalSteps
}

var anchors = map[Step]string{
	1:  "guide-target-new-btn",
	2:  "tutorial-target-standard-tpl",
	3:  "tutorial-target-client-input",
	4:  "tutorial-target-ai-input",
	5:  "tutorial-target-first-item-desc",
	6:  "tutorial-target-preview-btn",
	7:  "tutorial-target-final-save",
	8:  "tutorial-target-nav-quotes",
	9:  "tutorial-target-library-filters",
	10: "tutorial-target-nav-templates",
	11: "tutorial-target-theme-color",
	12: "tutorial-target-nav-settings",
	13: "tutorial-target-settings-logo",
	14: "tutorial-target-settings-seal",
	15: "tutorial-target-settings-canvas",
	16: "tutorial-target-settings-save",
}

// Anchor returns the UI element highlighted at a step; gates have none
func (s Step) Anchor() string {
	return anchors[s]
}

// Tab is a top-level view of the application
type Tab string

const (
	TabDashboard Tab = "dashboard"
	TabQuotes    Tab = "quotes"
	TabTemplates Tab = "templates"
	TabSettings  Tab = "settings"
)

// Toggle is a tri-state switch: leave the flag alone, or force it on/off
type Toggle int

const (
	Keep Toggle = iota
	On
	Off
)

// Navigation is the UI state re-derived when stepping backwards
type Navigation struct {
	Tab     Tab
	Editing Toggle
	Preview Toggle
}

// NavigationFor returns where the UI should be when the tour lands on step
// through a Prev request
func NavigationFor(step Step) Navigation {
	switch {
	case step == 1 || step == 2:
		return Navigation{Tab: TabDashboard, Editing: Off}
	case step >= 3 && step <= 6:
		return Navigation{Editing: On, Preview: Off}
	case step == 7:
		return Navigation{Editing: On, Preview: On}
	case step == 8:
		return Navigation{Editing: Off, Preview: Off}
	case step == 9 || step == 10:
		return Navigation{Tab: TabQuotes}
	case step == 11 || step == 12:
		return Navigation{Tab: TabTemplates}
	case step >= 13 && step <= 16:
		return Navigation{Tab: TabSettings}
	}
	return Navigation{}
}
