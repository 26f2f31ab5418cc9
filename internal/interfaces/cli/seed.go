package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/fra-monitor/internal/app"
	"github.com/turtacn/fra-monitor/internal/config"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample June/May 2025 records into an empty store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, cliCtx *CLIContext, c *app.Container) error {
				if cliCtx.Config.Storage.Backend == config.StorageMemory {
					cliCtx.Logger.Warn("memory storage is not persistent; seeded records vanish when fractl exits")
				}
				added, err := app.SeedRecords(ctx, c.Records, time.Now(), cliCtx.Logger)
				if err != nil {
					return err
				}
				if added == 0 {
					PrintSuccess(cmd, "record store already populated, nothing seeded")
					return nil
				}
				PrintSuccess(cmd, fmt.Sprintf("seeded %d sample records", added))
				return nil
			})
		},
	}
}

//Personal.AI order the ending
