package out

import (
	"context"

	"chronos/internal/modules/observation/domain"
)

// ExportStore writes export artifacts and returns their paths.
type ExportStore interface {
	SaveText(ctx context.Context, export domain.Export) (string, error)
	SaveMarkdown(ctx context.Context, export domain.Export) (string, error)
}

type Clipboard interface {
	WriteAll(text string) error
}
