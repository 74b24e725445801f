package entity

// QuoteStatus is the lifecycle status of a quote
type QuoteStatus string

const (
	StatusDraft     QuoteStatus = "Draft"
	StatusFinalized QuoteStatus = "Finalized"
	StatusWon       QuoteStatus = "Won"
	StatusLost      QuoteStatus = "Lost"
)

// AllStatuses lists statuses in display order
var AllStatuses = []QuoteStatus{StatusDraft, StatusFinalized, StatusWon, StatusLost}

// IsValid returns true if the status is one of the known statuses
func (s QuoteStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusFinalized, StatusWon, StatusLost:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s QuoteStatus) String() string {
	return string(s)
}
