package dto

type PolishInput struct {
	Note string
}

type PolishOutput struct {
	Text string
	// Changed is false when the note was returned as given.
	Changed bool
}

type SummarizeInput struct {
	SnapshotJSON string
}

type ReportOutput struct {
	Markdown string
	Fallback bool
}
