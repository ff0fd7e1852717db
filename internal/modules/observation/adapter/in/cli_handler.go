package in

import (
	"context"

	"chronos/internal/modules/observation/dto"
	observationin "chronos/internal/modules/observation/port/in"
)

type CLIHandler struct {
	usecase observationin.Usecase
}

func NewCLIHandler(usecase observationin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Subjects() []string {
	return h.usecase.Subjects()
}

func (h CLIHandler) Start(ctx context.Context, subject string) (dto.SessionOutput, error) {
	return h.usecase.Start(ctx, dto.StartInput{Subject: subject})
}

func (h CLIHandler) Stop(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.Stop(ctx)
}

func (h CLIHandler) ToggleMode(ctx context.Context, mode string) (dto.SessionOutput, error) {
	return h.usecase.ToggleMode(ctx, mode)
}

func (h CLIHandler) RecordAction(ctx context.Context, action string) (dto.SessionOutput, error) {
	return h.usecase.RecordAction(ctx, action)
}

func (h CLIHandler) SetEngagement(ctx context.Context, level string) (dto.SessionOutput, error) {
	return h.usecase.SetEngagement(ctx, level)
}

func (h CLIHandler) AddNote(ctx context.Context, text string) (dto.SessionOutput, error) {
	return h.usecase.AddNote(ctx, text)
}

func (h CLIHandler) Tick(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.Tick(ctx)
}

func (h CLIHandler) PollEngagement(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.PollEngagement(ctx)
}

func (h CLIHandler) Current(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) CopyLog(ctx context.Context) (string, error) {
	return h.usecase.CopyLog(ctx)
}

func (h CLIHandler) ExportText(ctx context.Context) (dto.ExportOutput, error) {
	return h.usecase.ExportText(ctx)
}

func (h CLIHandler) ExportMarkdown(ctx context.Context, report string) (dto.ExportOutput, error) {
	return h.usecase.ExportMarkdown(ctx, dto.MarkdownExportInput{Report: report})
}
