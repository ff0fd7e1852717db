package in

import (
	"context"

	"chronos/internal/modules/report/dto"
)

type Usecase interface {
	Summary(ctx context.Context) (dto.SummaryOutput, error)
}
