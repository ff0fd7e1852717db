package apperrors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotRunning         = errors.New("session is not running")
	ErrNoSession          = errors.New("no session recorded")
	ErrStillRunning       = errors.New("session is still running")
	ErrEmptyNote          = errors.New("note is empty")
	ErrBackendUnavailable = errors.New("text backend unavailable")
)
