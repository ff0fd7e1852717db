package in

import (
	"context"

	"chronos/internal/modules/assistant/dto"
	assistantin "chronos/internal/modules/assistant/port/in"
)

type CLIHandler struct {
	usecase assistantin.Usecase
}

func NewCLIHandler(usecase assistantin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Polish(ctx context.Context, note string) (dto.PolishOutput, error) {
	return h.usecase.Polish(ctx, dto.PolishInput{Note: note})
}

func (h CLIHandler) GenerateReport(ctx context.Context) (dto.ReportOutput, error) {
	return h.usecase.GenerateReport(ctx)
}

func (h CLIHandler) Summarize(ctx context.Context, snapshotJSON string) (dto.ReportOutput, error) {
	return h.usecase.Summarize(ctx, dto.SummarizeInput{SnapshotJSON: snapshotJSON})
}
