package usecase

import (
	"context"
	"fmt"

	"chronos/internal/modules/observation/domain"
	"chronos/internal/modules/observation/dto"
	observationin "chronos/internal/modules/observation/port/in"
	observationout "chronos/internal/modules/observation/port/out"
	"chronos/internal/modules/observation/service"
	apperrors "chronos/internal/platform/errors"
)

type Interactor struct {
	svc       *service.SessionService
	store     observationout.ExportStore
	clipboard observationout.Clipboard
}

func NewInteractor(svc *service.SessionService, store observationout.ExportStore, clipboard observationout.Clipboard) observationin.Usecase {
	return &Interactor{svc: svc, store: store, clipboard: clipboard}
}

func (i *Interactor) Subjects() []string {
	return i.svc.Subjects()
}

func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error) {
	return output(i.svc.Start(ctx, input.Subject))
}

func (i *Interactor) Stop(ctx context.Context) (dto.SessionOutput, error) {
	return output(i.svc.Stop(ctx))
}

func (i *Interactor) ToggleMode(ctx context.Context, raw string) (dto.SessionOutput, error) {
	mode, err := domain.ParseMode(raw)
	if err != nil {
		return dto.SessionOutput{Session: i.svc.Current()}, err
	}
	return output(i.svc.ToggleMode(ctx, mode))
}

func (i *Interactor) RecordAction(ctx context.Context, raw string) (dto.SessionOutput, error) {
	action, err := domain.ParseAction(raw)
	if err != nil {
		return dto.SessionOutput{Session: i.svc.Current()}, err
	}
	return output(i.svc.RecordAction(ctx, action))
}

func (i *Interactor) SetEngagement(ctx context.Context, raw string) (dto.SessionOutput, error) {
	level, err := domain.ParseLevel(raw)
	if err != nil {
		return dto.SessionOutput{Session: i.svc.Current()}, err
	}
	return output(i.svc.SetEngagement(ctx, level))
}

func (i *Interactor) AddNote(ctx context.Context, text string) (dto.SessionOutput, error) {
	return output(i.svc.AddNote(ctx, text))
}

func (i *Interactor) Tick(ctx context.Context) (dto.SessionOutput, error) {
	s, err := i.svc.Tick(ctx)
	return dto.SessionOutput{Session: s}, err
}

func (i *Interactor) PollEngagement(ctx context.Context) (dto.SessionOutput, error) {
	s, err := i.svc.PollEngagement(ctx)
	return dto.SessionOutput{Session: s}, err
}

func (i *Interactor) Current(context.Context) (dto.SessionOutput, error) {
	return dto.SessionOutput{Session: i.svc.Current()}, nil
}

// CopyLog places the flattened log on the system clipboard and returns it.
func (i *Interactor) CopyLog(context.Context) (string, error) {
	s, err := i.observed()
	if err != nil {
		return "", err
	}
	text := domain.Flatten(s.Log)
	if i.clipboard == nil {
		return text, fmt.Errorf("clipboard is not configured")
	}
	if err := i.clipboard.WriteAll(text); err != nil {
		return text, fmt.Errorf("copy log: %w", err)
	}
	return text, nil
}

func (i *Interactor) ExportText(ctx context.Context) (dto.ExportOutput, error) {
	s, err := i.observed()
	if err != nil {
		return dto.ExportOutput{}, err
	}
	export := domain.NewExport(s, i.svc.Now())
	path, err := i.store.SaveText(ctx, export)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{Path: path, ExportedAt: export.ExportedAt}, nil
}

func (i *Interactor) ExportMarkdown(ctx context.Context, input dto.MarkdownExportInput) (dto.ExportOutput, error) {
	s, err := i.observed()
	if err != nil {
		return dto.ExportOutput{}, err
	}
	export := domain.NewExport(s, i.svc.Now())
	export.Report = input.Report
	path, err := i.store.SaveMarkdown(ctx, export)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{Path: path, ExportedAt: export.ExportedAt}, nil
}

// observed returns the current session, or ErrNoSession if nothing has been
// recorded yet.
func (i *Interactor) observed() (domain.Session, error) {
	s := i.svc.Current()
	if s.Status == domain.StatusIdle || len(s.Log) == 0 {
		return domain.Session{}, apperrors.ErrNoSession
	}
	return s, nil
}

func output(s domain.Session, logged []domain.LogEntry, err error) (dto.SessionOutput, error) {
	return dto.SessionOutput{Session: s, Logged: logged}, err
}
