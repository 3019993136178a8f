package shared

import "errors"

var (
	// ErrUnbalanced indicates debit != credit.
	ErrUnbalanced = errors.New("accounting: journal lines must balance")
	// ErrTooFewLines indicates less than two lines.
	ErrTooFewLines = errors.New("accounting: journal requires at least two lines")
	// ErrJournalNotFound indicates missing entry.
	ErrJournalNotFound = errors.New("accounting: journal entry not found")
	// ErrInvalidStatus indicates action can't proceed.
	ErrInvalidStatus = errors.New("accounting: invalid status transition")
	// ErrSourceConflict indicates the source link already exists.
	ErrSourceConflict = errors.New("accounting: source link conflict")
)
