package usecase

import (
	"context"

	observationdomain "chronos/internal/modules/observation/domain"
	observationin "chronos/internal/modules/observation/port/in"
	"chronos/internal/modules/report/domain"
	"chronos/internal/modules/report/dto"
	reportin "chronos/internal/modules/report/port/in"
	apperrors "chronos/internal/platform/errors"
)

type Interactor struct {
	observation observationin.Usecase
}

func NewInteractor(observation observationin.Usecase) reportin.Usecase {
	return &Interactor{observation: observation}
}

// Summary compiles the current session. A session that never started has
// nothing to report.
func (i *Interactor) Summary(ctx context.Context) (dto.SummaryOutput, error) {
	current, err := i.observation.Current(ctx)
	if err != nil {
		return dto.SummaryOutput{}, err
	}
	if current.Session.Status == observationdomain.StatusIdle {
		return dto.SummaryOutput{}, apperrors.ErrNoSession
	}
	summary := domain.Compile(current.Session)
	raw, err := summary.Snapshot.JSON()
	if err != nil {
		return dto.SummaryOutput{}, err
	}
	return dto.SummaryOutput{Summary: summary, SnapshotJSON: raw}, nil
}
