package in

import (
	"context"

	"chronos/internal/modules/assistant/dto"
)

type Usecase interface {
	Polish(ctx context.Context, input dto.PolishInput) (dto.PolishOutput, error)
	Summarize(ctx context.Context, input dto.SummarizeInput) (dto.ReportOutput, error)
	// GenerateReport summarizes the current session once it is stopped.
	GenerateReport(ctx context.Context) (dto.ReportOutput, error)
}
