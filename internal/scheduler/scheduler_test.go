package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRun(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	s := &Scheduler{RunAt: "07:00", Loc: seoul}

	t.Run("later today", func(t *testing.T) {
		now := time.Date(2026, time.August, 5, 3, 30, 0, 0, seoul)
		next := s.nextRun(now)
		assert.Equal(t, time.Date(2026, time.August, 5, 7, 0, 0, 0, seoul), next)
	})

	t.Run("already passed rolls to tomorrow", func(t *testing.T) {
		now := time.Date(2026, time.August, 5, 9, 0, 0, 0, seoul)
		next := s.nextRun(now)
		assert.Equal(t, time.Date(2026, time.August, 6, 7, 0, 0, 0, seoul), next)
	})

	t.Run("exactly at run time rolls forward", func(t *testing.T) {
		now := time.Date(2026, time.August, 5, 7, 0, 0, 0, seoul)
		next := s.nextRun(now)
		assert.Equal(t, time.Date(2026, time.August, 6, 7, 0, 0, 0, seoul), next)
	})

	t.Run("month boundary", func(t *testing.T) {
		now := time.Date(2026, time.August, 31, 23, 59, 0, 0, seoul)
		next := s.nextRun(now)
		assert.Equal(t, time.Date(2026, time.September, 1, 7, 0, 0, 0, seoul), next)
	})

	t.Run("unparseable time falls back to next hour", func(t *testing.T) {
		bad := &Scheduler{RunAt: "seven", Loc: seoul}
		now := time.Date(2026, time.August, 5, 9, 42, 0, 0, seoul)
		next := bad.nextRun(now)
		assert.Equal(t, now.Truncate(time.Hour).Add(time.Hour), next)
	})
}

func TestStartStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	fired := false
	s := &Scheduler{
		// Half a day away, so the timer never fires during the test.
		RunAt: time.Now().UTC().Add(12 * time.Hour).Format("15:04"),
		Loc:   time.UTC,
		Run:   func(context.Context) { fired = true },
		Log:   zerolog.Nop(),
	}

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop on cancel")
	}
	assert.False(t, fired)
}
