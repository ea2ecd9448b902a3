package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeongjhs/workon/internal/config"
	"github.com/jeongjhs/workon/internal/logging"
	"github.com/jeongjhs/workon/internal/runner"
	"github.com/jeongjhs/workon/internal/scheduler"
)

func newDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the flow once per day at RUN_AT local time",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			log := logging.New(cfg.LogLevel, cfg.LogPretty)

			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			repo, closeDB, err := openHistory(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			s := &scheduler.Scheduler{
				RunAt: cfg.RunAt,
				Loc:   loc,
				Log:   log,
				Run: func(ctx context.Context) {
					target := time.Now().In(loc).AddDate(0, 0, cfg.DaysAhead)
					if repo != nil {
						booked, err := repo.AlreadyBooked(ctx, target)
						if err != nil {
							log.Warn().Err(err).Msg("history lookup failed")
						} else if booked {
							log.Info().Str("date", target.Format("2006-01-02")).Msg("already booked, skipping run")
							return
						}
					}
					out, runErr := runner.New(cfg, log).Execute(ctx)
					recordOutcome(ctx, repo, cfg, out, runErr, log)
					if runErr != nil {
						// No intra-day retry; the next scheduled run is the retry.
						log.Error().Err(runErr).Msg("run failed")
					}
				},
			}

			err = s.Start(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
