// Package scheduler fires the booking run once per day at a configured
// local wall-clock time.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler sleeps until the next occurrence of RunAt in Loc, invokes Run,
// and repeats. Runs are strictly sequential: a slow run delays the next
// trigger, it is never overlapped.
type Scheduler struct {
	RunAt string // HH:MM
	Loc   *time.Location
	Run   func(ctx context.Context)
	Log   zerolog.Logger
}

func (s *Scheduler) Start(ctx context.Context) error {
	for {
		next := s.nextRun(time.Now().In(s.Loc))
		s.Log.Info().Time("next_run", next).Msg("scheduler waiting")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		s.Run(ctx)
	}
}

func (s *Scheduler) nextRun(now time.Time) time.Time {
	at, err := time.Parse("15:04", s.RunAt)
	if err != nil {
		// validated by config; fall back to top of the next hour
		return now.Truncate(time.Hour).Add(time.Hour)
	}
	next := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, s.Loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
