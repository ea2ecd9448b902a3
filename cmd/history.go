package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeongjhs/workon/internal/config"
	"github.com/jeongjhs/workon/internal/db"
	"github.com/jeongjhs/workon/internal/history"
)

func newHistoryCmd() *cobra.Command {
	var limit int
	c := &cobra.Command{
		Use:   "history",
		Short: "List recent runs (requires DATABASE_URL)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for history")
			}

			ctx := context.Background()
			d, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			runs, err := history.NewRepo(d).ListRecent(ctx, limit)
			if err != nil {
				return err
			}
			for _, r := range runs {
				var outcome string
				switch {
				case r.Booked:
					outcome = "booked seat " + strings.TrimSpace(r.SeatID)
				case r.Skipped:
					outcome = "skipped (" + r.SkipReason + ")"
				case r.Error != "":
					outcome = "failed: " + r.Error
				default:
					outcome = "failed"
				}
				fmt.Fprintf(os.Stdout, "%s  %s  %-6s  %s\n",
					r.RanAt.Format("2006-01-02 15:04"), r.TargetDate.Format("2006-01-02"), r.AuthMode, outcome)
			}
			return nil
		},
	}
	c.Flags().IntVar(&limit, "limit", 20, "number of runs to show")
	return c
}
