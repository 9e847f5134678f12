package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"helmetwatch.xyz/alert-console/pkg/common"
	"helmetwatch.xyz/alert-console/pkg/feed"
	"helmetwatch.xyz/alert-console/pkg/simulate"
)

func newSimulateCmd() *cobra.Command {
	var (
		kind                  string
		helmetInterval        time.Duration
		environmentalInterval time.Duration
		helmetChance          float64
		environmentalChance   float64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Publish simulated emergencies into the redis feed",
		Long: `Publish simulated helmet emergencies and gas alerts into the redis feed the
console reads from. With --kind a single emergency is published right away.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			if settings.FeedType != "redis" {
				return fmt.Errorf("simulate publishes into redis, got %s=%q", common.EnvKeyFeedType, settings.FeedType)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			client := feed.NewRedisClient(settings.FeedRedisAddr, settings.FeedRedisDB)
			defer client.Close()

			simulator := simulate.New(feed.NewRedisFeed(client, settings.FeedPath), nil)
			simulator.HelmetChance = helmetChance
			simulator.EnvironmentalChance = environmentalChance

			if kind != "" {
				alert, err := simulator.Emergency(ctx, simulate.Kind(kind))
				if err != nil {
					return err
				}
				common.GetLoggerWith(common.LoggerNameSimulator).Info("Emergency published", zap.String("alert_id", alert.ID))
				return nil
			}

			if err := simulator.Run(ctx, helmetInterval, environmentalInterval); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "publish one emergency of this kind (helmet or environmental) and exit")
	cmd.Flags().DurationVar(&helmetInterval, "helmet-interval", simulate.DefaultHelmetInterval, "how often to check for a helmet emergency")
	cmd.Flags().DurationVar(&environmentalInterval, "environmental-interval", simulate.DefaultEnvironmentalInterval, "how often to check for a gas alert")
	cmd.Flags().Float64Var(&helmetChance, "helmet-chance", simulate.DefaultHelmetChance, "chance of a helmet emergency per check")
	cmd.Flags().Float64Var(&environmentalChance, "environmental-chance", simulate.DefaultEnvironmentalChance, "chance of a gas alert per check")

	return cmd
}
