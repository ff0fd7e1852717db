package in

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"chronos/internal/modules/observation/dto"
	apperrors "chronos/internal/platform/errors"
)

// Script is a recorded observation replayed against a manual clock.
//
//	subject: 數學
//	start_at: 2026-10-17T09:00:00+08:00
//	steps:
//	  - start
//	  - mode lecture
//	  - tick 65
//	  - action patrolling
//	  - engage high
//	  - note 學生主動提問
//	  - stop
type Script struct {
	Subject string    `yaml:"subject"`
	StartAt time.Time `yaml:"start_at"`
	Steps   []string  `yaml:"steps"`
}

func LoadScript(path string) (Script, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read script: %w", err)
	}
	var script Script
	if err := yaml.Unmarshal(raw, &script); err != nil {
		return Script{}, fmt.Errorf("parse script %s: %w", path, err)
	}
	if strings.TrimSpace(script.Subject) == "" {
		return Script{}, fmt.Errorf("%w: script subject is required", apperrors.ErrInvalidInput)
	}
	return script, nil
}

// Replayer drives a CLIHandler from a Script. Advance moves the clock the
// session service reads; each simulated second is one Tick, and the
// engagement reminder is polled every PollEvery simulated seconds.
type Replayer struct {
	Handler   CLIHandler
	Advance   func(time.Duration)
	PollEvery time.Duration
}

func (r Replayer) Run(ctx context.Context, script Script) (dto.SessionOutput, error) {
	var elapsed time.Duration
	for n, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			return dto.SessionOutput{}, err
		}
		verb, arg, _ := strings.Cut(strings.TrimSpace(step), " ")
		arg = strings.TrimSpace(arg)
		var err error
		switch strings.ToLower(verb) {
		case "start":
			subject := script.Subject
			if arg != "" {
				subject = arg
			}
			_, err = r.Handler.Start(ctx, subject)
		case "stop":
			_, err = r.Handler.Stop(ctx)
		case "mode":
			_, err = r.Handler.ToggleMode(ctx, arg)
		case "action":
			_, err = r.Handler.RecordAction(ctx, arg)
		case "engage":
			_, err = r.Handler.SetEngagement(ctx, arg)
		case "note":
			_, err = r.Handler.AddNote(ctx, arg)
		case "poll":
			_, err = r.Handler.PollEngagement(ctx)
		case "tick", "wait":
			var count int
			count, err = tickCount(verb, arg)
			for i := 0; err == nil && i < count; i++ {
				r.advance(time.Second)
				elapsed += time.Second
				_, err = r.Handler.Tick(ctx)
				if err == nil && r.PollEvery > 0 && elapsed%r.PollEvery == 0 {
					_, err = r.Handler.PollEngagement(ctx)
				}
				// the heartbeat keeps running while idle or stopped
				if errors.Is(err, apperrors.ErrNotRunning) {
					err = nil
				}
			}
		default:
			err = fmt.Errorf("%w: unknown step %q", apperrors.ErrInvalidInput, verb)
		}
		if err != nil {
			return dto.SessionOutput{}, fmt.Errorf("step %d (%s): %w", n+1, step, err)
		}
	}
	return r.Handler.Current(ctx)
}

func (r Replayer) advance(d time.Duration) {
	if r.Advance != nil {
		r.Advance(d)
	}
}

// tickCount reads "tick 65" as 65 seconds and "wait 5m" as a duration.
func tickCount(verb, arg string) (int, error) {
	if arg == "" {
		return 1, nil
	}
	if verb == "tick" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: tick count %q", apperrors.ErrInvalidInput, arg)
		}
		return n, nil
	}
	d, err := time.ParseDuration(arg)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: wait duration %q", apperrors.ErrInvalidInput, arg)
	}
	return int(d / time.Second), nil
}
