package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jeongjhs/workon/internal/booking"
	"github.com/jeongjhs/workon/internal/config"
	"github.com/jeongjhs/workon/internal/db"
	"github.com/jeongjhs/workon/internal/history"
	"github.com/jeongjhs/workon/internal/logging"
	"github.com/jeongjhs/workon/internal/migrate"
	"github.com/jeongjhs/workon/internal/runner"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the login + booking flow once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			log := logging.New(cfg.LogLevel, cfg.LogPretty)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			repo, closeDB, err := openHistory(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			out, runErr := runner.New(cfg, log).Execute(ctx)
			recordOutcome(ctx, repo, cfg, out, runErr, log)
			if runErr != nil {
				return runErr
			}
			if out.Skipped {
				log.Info().Msg("nothing to book today")
			}
			return nil
		},
	}
}

// openHistory opens the optional run-history store. Without DATABASE_URL the
// flow runs exactly the same, just unrecorded.
func openHistory(ctx context.Context, cfg config.Config) (*history.Repo, func(), error) {
	if cfg.DatabaseURL == "" {
		return nil, func() {}, nil
	}
	d, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := migrate.Up(ctx, d); err != nil {
		d.Close()
		return nil, nil, err
	}
	return history.NewRepo(d), d.Close, nil
}

func recordOutcome(ctx context.Context, repo *history.Repo, cfg config.Config, out runner.Outcome, runErr error, log zerolog.Logger) {
	if repo == nil {
		return
	}
	run := history.Run{
		ID:         out.RunID,
		TargetDate: out.TargetDate,
		AuthMode:   cfg.AuthMode,
		Skipped:    out.Skipped,
		SkipReason: string(out.SkipReason),
		Booked:     out.Booked,
		SeatID:     out.SeatID,
	}
	if runErr != nil {
		var exhausted *booking.ExhaustedError
		if !errors.As(runErr, &exhausted) || exhausted == nil {
			run.Error = runErr.Error()
		} else {
			run.Error = "all candidates failed"
		}
	}
	if err := repo.Record(ctx, run, out.Attempts); err != nil {
		log.Warn().Err(err).Msg("failed to record run history")
	}
}
