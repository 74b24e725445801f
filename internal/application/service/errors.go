package service

import "errors"

var (
	// ErrNoCurrentQuote is returned when an editor action needs an open quote
	ErrNoCurrentQuote = errors.New("no quote is open in the editor")

	// ErrDeleteNotConfirmed is returned when the user declines a delete
	ErrDeleteNotConfirmed = errors.New("delete not confirmed")

	// ErrDraftingDisabled is returned when no AI drafter is configured
	ErrDraftingDisabled = errors.New("AI drafting is disabled")

	// ErrEmptyPrompt is returned for a blank drafting request
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrUnknownFormat is returned for an export format without a renderer
	ErrUnknownFormat = errors.New("unknown export format")
)
