package domain

import "errors"

var (
	// ErrSourceUnavailable is returned when the catalog feed cannot be
	// reached and no local snapshot exists to fall back on.
	ErrSourceUnavailable = errors.New("catalog source unavailable")

	// ErrWrite is returned when a ledger append fails. Callers must
	// surface it; losing feedback silently would corrupt statistics.
	ErrWrite = errors.New("ledger write failed")

	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")
)
