package usecase

import (
	"context"
	"fmt"

	"chronos/internal/modules/assistant/dto"
	assistantin "chronos/internal/modules/assistant/port/in"
	"chronos/internal/modules/assistant/service"
	reportin "chronos/internal/modules/report/port/in"
	apperrors "chronos/internal/platform/errors"
)

type Interactor struct {
	svc    *service.AssistantService
	report reportin.Usecase
}

func NewInteractor(svc *service.AssistantService, report reportin.Usecase) assistantin.Usecase {
	return &Interactor{svc: svc, report: report}
}

func (i *Interactor) Polish(ctx context.Context, input dto.PolishInput) (dto.PolishOutput, error) {
	return i.svc.Polish(ctx, input.Note)
}

func (i *Interactor) Summarize(ctx context.Context, input dto.SummarizeInput) (dto.ReportOutput, error) {
	return i.svc.Summarize(ctx, input.SnapshotJSON)
}

func (i *Interactor) GenerateReport(ctx context.Context) (dto.ReportOutput, error) {
	summary, err := i.report.Summary(ctx)
	if err != nil {
		return dto.ReportOutput{}, err
	}
	if !summary.Summary.Final {
		return dto.ReportOutput{}, fmt.Errorf("report for session %s: %w", summary.Summary.SessionID, apperrors.ErrStillRunning)
	}
	return i.Summarize(ctx, dto.SummarizeInput{SnapshotJSON: summary.SnapshotJSON})
}
