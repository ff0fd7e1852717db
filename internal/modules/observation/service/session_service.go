package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"chronos/internal/modules/observation/domain"
	"chronos/internal/platform/clock"
	apperrors "chronos/internal/platform/errors"
	"chronos/internal/platform/id"
	"chronos/internal/platform/logging"
)

// SessionService owns the live session aggregate. It is driven from a single
// event loop and does no locking.
type SessionService struct {
	clock      clock.Clock
	idGen      id.Generator
	subjects   []string
	staleAfter time.Duration
	logger     hclog.Logger
	current    domain.Session
}

func NewSessionService(clock clock.Clock, idGen id.Generator, subjects []string, staleAfter time.Duration, logger hclog.Logger) *SessionService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &SessionService{
		clock:      clock,
		idGen:      idGen,
		subjects:   append([]string(nil), subjects...),
		staleAfter: staleAfter,
		logger:     logger.Named("observation"),
		current:    domain.NewSession(),
	}
}

func (s *SessionService) Subjects() []string {
	return append([]string(nil), s.subjects...)
}

func (s *SessionService) Now() time.Time {
	return s.clock.Now()
}

func (s *SessionService) Current() domain.Session {
	return s.current.Clone()
}

func (s *SessionService) Start(_ context.Context, subject string) (domain.Session, []domain.LogEntry, error) {
	if !s.knownSubject(subject) {
		return s.Current(), nil, fmt.Errorf("%w: unknown subject %q", apperrors.ErrInvalidInput, subject)
	}
	return s.apply(domain.Start{SessionID: s.idGen.New(), Subject: subject})
}

func (s *SessionService) Stop(context.Context) (domain.Session, []domain.LogEntry, error) {
	return s.apply(domain.Stop{})
}

func (s *SessionService) ToggleMode(_ context.Context, mode domain.Mode) (domain.Session, []domain.LogEntry, error) {
	return s.apply(domain.ToggleMode{Mode: mode})
}

func (s *SessionService) RecordAction(_ context.Context, action domain.Action) (domain.Session, []domain.LogEntry, error) {
	return s.apply(domain.RecordAction{Action: action})
}

func (s *SessionService) SetEngagement(_ context.Context, level domain.Level) (domain.Session, []domain.LogEntry, error) {
	return s.apply(domain.SetEngagement{Level: level})
}

func (s *SessionService) AddNote(_ context.Context, text string) (domain.Session, []domain.LogEntry, error) {
	return s.apply(domain.AddNote{Text: text})
}

func (s *SessionService) Tick(context.Context) (domain.Session, error) {
	next, _, err := s.apply(domain.Tick{})
	return next, err
}

func (s *SessionService) PollEngagement(context.Context) (domain.Session, error) {
	wasStale := s.current.Stale
	next, _, err := s.apply(domain.PollEngagement{Threshold: s.staleAfter})
	if err == nil && next.Stale && !wasStale {
		s.logger.Info("engagement reminder raised", "session", next.ID, "last_ping", next.LastEngagementAt.Format(time.RFC3339))
	}
	return next, err
}

func (s *SessionService) apply(ev domain.Event) (domain.Session, []domain.LogEntry, error) {
	next, entries, err := domain.Apply(s.current, ev, s.clock.Now())
	if err != nil {
		s.logger.Trace("event ignored", "event", fmt.Sprintf("%T", ev), "status", s.current.Status, "error", err)
		return s.Current(), nil, err
	}
	s.current = next
	for _, e := range entries {
		s.logger.Debug("logged", "session", next.ID, "kind", e.Kind, "label", e.Label, "value", e.Value)
	}
	return next.Clone(), entries, nil
}

func (s *SessionService) knownSubject(subject string) bool {
	for _, known := range s.subjects {
		if known == subject {
			return true
		}
	}
	return false
}
