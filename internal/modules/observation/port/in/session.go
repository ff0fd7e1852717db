package in

import (
	"context"

	"chronos/internal/modules/observation/dto"
)

type Usecase interface {
	Subjects() []string
	Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error)
	Stop(ctx context.Context) (dto.SessionOutput, error)
	ToggleMode(ctx context.Context, mode string) (dto.SessionOutput, error)
	RecordAction(ctx context.Context, action string) (dto.SessionOutput, error)
	SetEngagement(ctx context.Context, level string) (dto.SessionOutput, error)
	AddNote(ctx context.Context, text string) (dto.SessionOutput, error)
	Tick(ctx context.Context) (dto.SessionOutput, error)
	PollEngagement(ctx context.Context) (dto.SessionOutput, error)
	Current(ctx context.Context) (dto.SessionOutput, error)
	CopyLog(ctx context.Context) (string, error)
	ExportText(ctx context.Context) (dto.ExportOutput, error)
	ExportMarkdown(ctx context.Context, input dto.MarkdownExportInput) (dto.ExportOutput, error)
}
