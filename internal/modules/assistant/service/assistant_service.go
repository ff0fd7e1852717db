package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"chronos/internal/modules/assistant/domain"
	"chronos/internal/modules/assistant/dto"
	assistantout "chronos/internal/modules/assistant/port/out"
	apperrors "chronos/internal/platform/errors"
	"chronos/internal/platform/logging"
	"chronos/internal/platform/retry"
)

type Models struct {
	Fast   string
	Report string
}

// AssistantService wraps a TextGenerator with the prompts and retry policy.
// It never touches session state.
type AssistantService struct {
	gen    assistantout.TextGenerator
	models Models
	policy retry.Policy
	logger hclog.Logger
}

func NewAssistantService(gen assistantout.TextGenerator, models Models, policy retry.Policy, logger hclog.Logger) *AssistantService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &AssistantService{gen: gen, models: models, policy: policy, logger: logger.Named("assistant")}
}

// Polish rewrites a note in professional register. Blank notes are returned
// as given without a request, and an empty answer keeps the original.
func (s *AssistantService) Polish(ctx context.Context, note string) (dto.PolishOutput, error) {
	kept := dto.PolishOutput{Text: note}
	if strings.TrimSpace(note) == "" {
		return kept, nil
	}
	text, err := s.generate(ctx, "polish", assistantout.Request{
		Model:       s.models.Fast,
		Prompt:      domain.PolishPrompt(note),
		Temperature: domain.PolishTemperature,
	})
	if err != nil {
		return kept, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return kept, nil
	}
	return dto.PolishOutput{Text: text, Changed: true}, nil
}

func (s *AssistantService) Summarize(ctx context.Context, snapshotJSON string) (dto.ReportOutput, error) {
	text, err := s.generate(ctx, "report", assistantout.Request{
		Model:       s.models.Report,
		Prompt:      domain.ReportPrompt(snapshotJSON),
		Temperature: domain.ReportTemperature,
	})
	if err != nil {
		return dto.ReportOutput{}, err
	}
	if text == "" {
		return dto.ReportOutput{Markdown: domain.FallbackReport, Fallback: true}, nil
	}
	return dto.ReportOutput{Markdown: text}, nil
}

func (s *AssistantService) generate(ctx context.Context, op string, req assistantout.Request) (string, error) {
	policy := s.policy
	policy.OnFailure = func(attempt int, delay time.Duration, err error) {
		s.logger.Warn("backend call failed", "op", op, "backend", s.gen.Name(), "model", req.Model, "attempt", attempt, "retry_in", delay, "error", err)
	}
	started := time.Now()
	text, err := retry.Do(ctx, policy, func(ctx context.Context) (string, error) {
		return s.gen.Generate(ctx, req)
	})
	if err != nil {
		s.logger.Error("backend unavailable", "op", op, "backend", s.gen.Name(), "error", err)
		return "", fmt.Errorf("%w: %s: %w", apperrors.ErrBackendUnavailable, op, err)
	}
	s.logger.Debug("backend call completed", "op", op, "backend", s.gen.Name(), "model", req.Model, "took", time.Since(started))
	return text, nil
}
