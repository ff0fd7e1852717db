package dto

import (
	"time"

	"chronos/internal/modules/observation/domain"
)

type StartInput struct {
	Subject string
}

// SessionOutput carries a detached copy of the session after an operation and
// the entries that operation appended, if any.
type SessionOutput struct {
	Session domain.Session
	Logged  []domain.LogEntry
}

type MarkdownExportInput struct {
	// Report is the optional AI narrative embedded in a managed block.
	Report string
}

type ExportOutput struct {
	Path       string
	ExportedAt time.Time
}
