package entity

import "errors"

var (
	// ErrQuoteNotFound is returned when no quote has the requested id
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrInvalidStatus is returned for a status outside Draft/Finalized/Won/Lost
	ErrInvalidStatus = errors.New("invalid quote status")

	// ErrDocNumberRegression is returned when the document counter would move backwards
	ErrDocNumberRegression = errors.New("document number cannot decrease")

	// ErrInvalidLanguage is returned for an unsupported language code
	ErrInvalidLanguage = errors.New("unsupported language")
)
