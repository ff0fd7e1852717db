package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"chronos/internal/modules/assistant/dto"
	assistantout "chronos/internal/modules/assistant/port/out"
	"chronos/internal/modules/assistant/service"
	"chronos/internal/modules/assistant/usecase"
	reportdomain "chronos/internal/modules/report/domain"
	reportdto "chronos/internal/modules/report/dto"
	apperrors "chronos/internal/platform/errors"
	"chronos/internal/platform/retry"
)

type echoGenerator struct {
	prompts []string
}

func (e *echoGenerator) Name() string { return "echo" }

func (e *echoGenerator) Generate(_ context.Context, req assistantout.Request) (string, error) {
	e.prompts = append(e.prompts, req.Prompt)
	return "## 報告", nil
}

type fakeReport struct {
	out reportdto.SummaryOutput
	err error
}

func (f fakeReport) Summary(context.Context) (reportdto.SummaryOutput, error) {
	return f.out, f.err
}

func TestGenerateReportForwardsSnapshot(t *testing.T) {
	t.Parallel()
	gen := &echoGenerator{}
	svc := service.NewAssistantService(gen, service.Models{Fast: "f", Report: "r"}, retry.Default(), nil)
	uc := usecase.NewInteractor(svc, fakeReport{out: reportdto.SummaryOutput{
		Summary:      reportdomain.Summary{SessionID: "s-1", Final: true},
		SnapshotJSON: "{\n  \"subject\": \"社會\"\n}",
	}})

	out, err := uc.GenerateReport(context.Background())
	if err != nil {
		t.Fatalf("generate report: %v", err)
	}
	if out.Markdown != "## 報告" || out.Fallback {
		t.Fatalf("unexpected output %+v", out)
	}
	if !strings.Contains(gen.prompts[0], "\"subject\": \"社會\"") {
		t.Fatalf("snapshot not embedded:\n%s", gen.prompts[0])
	}
}

func TestGenerateReportWithoutSessionMakesNoRequest(t *testing.T) {
	t.Parallel()
	gen := &echoGenerator{}
	svc := service.NewAssistantService(gen, service.Models{}, retry.Default(), nil)
	uc := usecase.NewInteractor(svc, fakeReport{err: apperrors.ErrNoSession})

	if _, err := uc.GenerateReport(context.Background()); !errors.Is(err, apperrors.ErrNoSession) {
		t.Fatalf("expected no session, got %v", err)
	}
	if len(gen.prompts) != 0 {
		t.Fatalf("expected no backend call")
	}
}

func TestGenerateReportRequiresStoppedSession(t *testing.T) {
	t.Parallel()
	gen := &echoGenerator{}
	svc := service.NewAssistantService(gen, service.Models{}, retry.Default(), nil)
	uc := usecase.NewInteractor(svc, fakeReport{out: reportdto.SummaryOutput{
		Summary:      reportdomain.Summary{SessionID: "s-2"},
		SnapshotJSON: "{}",
	}})

	if _, err := uc.GenerateReport(context.Background()); !errors.Is(err, apperrors.ErrStillRunning) {
		t.Fatalf("expected still running, got %v", err)
	}
	if len(gen.prompts) != 0 {
		t.Fatalf("expected no backend call for a running session")
	}
}

func TestPolishReturnsNoteOnFailure(t *testing.T) {
	t.Parallel()
	policy := retry.Policy{MaxAttempts: 1, Sleep: func(context.Context, time.Duration) error { return nil }}
	svc := service.NewAssistantService(failingGenerator{}, service.Models{}, policy, nil)
	uc := usecase.NewInteractor(svc, nil)

	out, err := uc.Polish(context.Background(), dto.PolishInput{Note: "原文"})
	if !errors.Is(err, apperrors.ErrBackendUnavailable) {
		t.Fatalf("expected backend unavailable, got %v", err)
	}
	if out.Text != "原文" || out.Changed {
		t.Fatalf("unexpected output %+v", out)
	}
}

type failingGenerator struct{}

func (failingGenerator) Name() string { return "failing" }

func (failingGenerator) Generate(context.Context, assistantout.Request) (string, error) {
	return "", errors.New("dial tcp: no route to host")
}
