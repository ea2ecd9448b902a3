// Package runner executes one complete booking run: authenticate the portal
// session, evaluate the target date, and walk the seat candidates.
package runner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jeongjhs/workon/internal/auth"
	"github.com/jeongjhs/workon/internal/booking"
	"github.com/jeongjhs/workon/internal/config"
	"github.com/jeongjhs/workon/internal/mailbox"
	"github.com/jeongjhs/workon/internal/portal"
)

// Outcome summarizes one run for reporting and the history store.
type Outcome struct {
	RunID      uuid.UUID
	TargetDate time.Time
	Skipped    bool
	SkipReason booking.Reason
	Booked     bool
	SeatID     string
	Attempts   []booking.Attempt
}

type Runner struct {
	Cfg config.Config
	Log zerolog.Logger

	// Endpoints default to production; tests override.
	Endpoints *auth.Endpoints
	Attempter *booking.Attempter
}

func New(cfg config.Config, log zerolog.Logger) *Runner {
	return &Runner{Cfg: cfg, Log: log}
}

// Execute runs the flow once. Authentication errors propagate untouched and
// nothing booking-related happens after one. An ineligible date is a skip,
// not an error. Exhaustion of all seat candidates comes back as a
// *booking.ExhaustedError alongside the outcome.
func (r *Runner) Execute(ctx context.Context) (Outcome, error) {
	out := Outcome{RunID: uuid.New()}
	log := r.Log.With().Str("run_id", out.RunID.String()).Logger()

	loc, err := r.Cfg.Location()
	if err != nil {
		return out, err
	}
	out.TargetDate = time.Now().In(loc).AddDate(0, 0, r.Cfg.DaysAhead)
	log.Info().
		Str("date", out.TargetDate.Format("2006-01-02")).
		Str("weekday", out.TargetDate.Weekday().String()).
		Int("days_ahead", r.Cfg.DaysAhead).
		Msg("starting run")

	session := portal.NewClient(r.Cfg.HTTPTimeout)
	if err := r.flow(session, log).Authenticate(ctx); err != nil {
		return out, err
	}

	cal := booking.KoreanHolidays(out.TargetDate.Year())
	for _, d := range r.Cfg.ExtraHolidays {
		cal.Add(d, "configured closure")
	}
	decision := booking.Evaluate(out.TargetDate, cal)
	if !decision.Eligible {
		out.Skipped = true
		out.SkipReason = decision.Reason
		log.Info().
			Str("reason", string(decision.Reason)).
			Str("detail", decision.Detail).
			Msg("date not bookable, skipping")
		return out, nil
	}

	req := booking.Request{
		EmailAlias: r.Cfg.Username,
		Date:       out.TargetDate,
		StartTime:  r.Cfg.StartTime,
		EndTime:    r.Cfg.EndTime,
		Cel1:       r.Cfg.Cel1,
		Cel2:       r.Cfg.Cel2,
		Cel3:       r.Cfg.Cel3,
	}
	candidates := r.policy().Candidates(out.TargetDate)

	attempter := r.Attempter
	if attempter == nil {
		attempter = booking.DefaultAttempter(session, log)
	} else {
		attempter.Session = session
	}

	result, err := attempter.Reserve(ctx, req, candidates)
	out.Booked = result.Booked
	out.SeatID = result.SeatID
	out.Attempts = result.Attempts
	return out, err
}

func (r *Runner) flow(session *portal.Client, log zerolog.Logger) auth.Flow {
	eps := auth.DefaultEndpoints()
	if r.Endpoints != nil {
		eps = *r.Endpoints
	}
	creds := auth.Credentials{Username: r.Cfg.Username, Password: r.Cfg.Password}

	if r.Cfg.AuthMode == config.ModeMail {
		verifier := &mailbox.Verifier{
			Mailbox:      mailbox.NewClient(r.Cfg.IMAPHost, r.Cfg.IMAPPort, r.Cfg.MailboxAddress, r.Cfg.MailboxPassword),
			From:         r.Cfg.CodeSender,
			Subject:      r.Cfg.CodeSubject,
			PollInterval: r.Cfg.CodePollInterval,
			Deadline:     r.Cfg.CodeTimeout,
			Log:          log,
		}
		return &auth.OutOfBandLogin{
			Session:   session,
			Creds:     creds,
			Endpoints: eps,
			Verifier:  verifier,
			MailAlias: r.Cfg.MailAlias(),
			PhoneHint: r.Cfg.PhoneHint(),
			Log:       log,
		}
	}
	return &auth.DirectLogin{Session: session, Creds: creds, Endpoints: eps, Log: log}
}

func (r *Runner) policy() booking.CandidatePolicy {
	if r.Cfg.SeatPolicy == "parity" {
		return booking.DefaultParityPolicy()
	}
	if len(r.Cfg.Seats) > 0 {
		return booking.PriorityPolicy{Seats: r.Cfg.Seats}
	}
	return booking.DefaultPriorityPolicy()
}
