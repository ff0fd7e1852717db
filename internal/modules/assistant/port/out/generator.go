package out

import "context"

type Request struct {
	Model       string
	Prompt      string
	Temperature float32
}

// TextGenerator performs one non-streaming completion. Implementations do not
// retry.
type TextGenerator interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}
