// API server entry point for the FRA monitoring dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/fra-monitor/internal/app"
	"github.com/turtacn/fra-monitor/internal/config"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: FRA_* environment)")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port int) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if configPath != "" {
		watchLogLevel(configPath, logger)
	}

	c, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(context.Background()); err != nil {
			logger.Warn("shutdown cleanup failed", logging.Err(err))
		}
	}()

	logger.Info("starting FRA API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
		logging.String("storage", cfg.Storage.Backend),
		logging.String("cache", cfg.Cache.Backend),
	)
	if err := c.Serve(ctx, version); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// watchLogLevel applies log.level edits to the running logger.
func watchLogLevel(path string, logger logging.Logger) {
	lv, ok := logger.(logging.Leveler)
	if !ok {
		return
	}
	err := config.Watch(path, func(cfg *config.Config) {
		if cfg.Log.Level != lv.Level() {
			lv.SetLevel(cfg.Log.Level)
			logger.Info("log level changed", logging.String("level", cfg.Log.Level))
		}
	}, func(err error) {
		logger.Warn("ignoring invalid config change", logging.Err(err))
	})
	if err != nil {
		logger.Warn("config watch disabled", logging.Err(err))
	}
}

//Personal.AI order the ending
