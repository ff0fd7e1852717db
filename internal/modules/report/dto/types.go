package dto

import "chronos/internal/modules/report/domain"

type SummaryOutput struct {
	Summary domain.Summary
	// SnapshotJSON is the indented payload forwarded to the report generator.
	SnapshotJSON string
}
