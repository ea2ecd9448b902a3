// Package history records run outcomes in Postgres so the daemon can skip
// dates it already booked and the history subcommand can report them.
package history

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeongjhs/workon/internal/booking"
	"github.com/jeongjhs/workon/internal/db"
)

type Run struct {
	ID         uuid.UUID
	RanAt      time.Time
	TargetDate time.Time
	AuthMode   string
	Skipped    bool
	SkipReason string
	Booked     bool
	SeatID     string
	Error      string
}

type Repo struct{ db *db.DB }

func NewRepo(d *db.DB) *Repo { return &Repo{db: d} }

// Record inserts the run and its per-seat attempts. Attempt seat ids are
// stored trimmed; the fixed-width padding is a wire concern, not a storage
// one.
func (r *Repo) Record(ctx context.Context, run Run, attempts []booking.Attempt) error {
	err := r.db.Exec(ctx, `
INSERT INTO runs(id, target_date, auth_mode, skipped, skip_reason, booked, seat_id, error)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		run.ID, run.TargetDate, run.AuthMode, run.Skipped, run.SkipReason, run.Booked, run.SeatID, run.Error,
	)
	if err != nil {
		return err
	}
	for _, a := range attempts {
		if err := r.db.Exec(ctx, `
INSERT INTO run_attempts(run_id, seat_id, result, status, response)
VALUES ($1,$2,$3,$4,$5)`,
			run.ID, strings.TrimSpace(a.SeatID), a.Result.String(), a.Status, a.RawResponse,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) ListRecent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, ran_at, target_date, auth_mode, skipped, skip_reason, booked, seat_id, error
FROM runs
ORDER BY ran_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID, &run.RanAt, &run.TargetDate, &run.AuthMode,
			&run.Skipped, &run.SkipReason, &run.Booked, &run.SeatID, &run.Error,
		); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// AlreadyBooked reports whether any earlier run booked a seat for the date.
func (r *Repo) AlreadyBooked(ctx context.Context, date time.Time) (bool, error) {
	var booked bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM runs WHERE target_date=$1 AND booked)`,
		date.Format("2006-01-02"),
	).Scan(&booked)
	return booked, err
}
