package tutorial

// Event is an input to the tour machine
type Event string

const (
	EventStarted                  Event = "Started"
	EventStopped                  Event = "Stopped"
	EventNextRequested            Event = "NextRequested"
	EventPrevRequested            Event = "PrevRequested"
	EventClientNameConfirmed      Event = "ClientNameConfirmed"
	EventItemDescriptionFocused   Event = "ItemDescriptionFocused"
	EventItemDescriptionConfirmed Event = "ItemDescriptionConfirmed"
	EventLogoUploaded             Event = "LogoUploaded"
	EventSignatureCompleted       Event = "SignatureCompleted"
	EventSettingsSaved            Event = "SettingsSaved"
)

// Events lists every event the machine understands
var Events = []Event{
	EventStarted, EventStopped, EventNextRequested, EventPrevRequested,
	EventClientNameConfirmed, EventItemDescriptionFocused, EventItemDescriptionConfirmed,
	EventLogoUploaded, EventSignatureCompleted, EventSettingsSaved,
}

// ParseEvent validates an event name received from a client
func ParseEvent(s string) (Event, bool) {
	for _, e := range Events {
		if string(e) == s {
			return e, true
		}
	}
	return "", false
}

// Effect is an application action paired with a step change
type Effect string

const (
	EffectShowDashboard         Effect = "ShowDashboard"
	EffectCreateQuote           Effect = "CreateQuote"
	EffectApplyStandardTemplate Effect = "ApplyStandardTemplate"
	EffectOpenPreview           Effect = "OpenPreview"
	EffectFinalizeAndSave       Effect = "FinalizeAndSave"
	EffectShowQuotes            Effect = "ShowQuotes"
	EffectShowTemplates         Effect = "ShowTemplates"
	EffectShowSettings          Effect = "ShowSettings"
	EffectNavigate              Effect = "Navigate"
	EffectFinish                Effect = "Finish"
)

var nextEffects = map[Step][]Effect{
	1:          {EffectShowDashboard, EffectCreateQuote},
	2:          {EffectApplyStandardTemplate},
	6:          {EffectOpenPreview},
	7:          {EffectFinalizeAndSave},
	8:          {EffectShowQuotes},
	10:         {EffectShowTemplates},
	12:         {EffectShowSettings},
	TotalSteps: {EffectFinish},
}
