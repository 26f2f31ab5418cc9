package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
)

func newServeCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard API until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if host != "" {
				cliCtx.Config.Server.Host = host
			}
			if port > 0 {
				cliCtx.Config.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := cliCtx.newContainer(ctx, cliCtx.Config, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := c.Close(context.Background()); err != nil {
					cliCtx.Logger.Warn("shutdown incomplete", logging.Err(err))
				}
			}()

			cliCtx.Logger.Info("starting FRA monitor API",
				logging.String("version", Version),
				logging.String("addr", cliCtx.Config.Server.Addr()))
			return c.Serve(ctx, Version)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	return cmd
}

//Personal.AI order the ending
