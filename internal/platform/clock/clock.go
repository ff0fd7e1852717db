package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
// A single Clock stamps ticks, engagement polls, and log entries.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

// Now returns local wall-clock time; log timestamps are shown to the observer as-is.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Manual is a clock that only moves when told to. The replay command drives
// sessions with it so scripted ticks and polls see consistent time.
type Manual struct {
	now time.Time
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	return m.now
}

func (m *Manual) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}
