package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vigia/internal/app"
	"github.com/ternarybob/vigia/internal/common"
)

var (
	configFile   = flag.String("config", "", "Configuration file path")
	configFileC  = flag.String("c", "", "Configuration file path (shorthand)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Vigia version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	// Startup sequence: load config (defaults -> file -> env), then logger.
	configPath := *configFile
	if configPath == "" {
		configPath = *configFileC
	}
	if configPath == "" {
		if _, err := os.Stat("vigia.toml"); err == nil {
			configPath = "vigia.toml"
		}
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger := common.InitLogger(config)

	logger.Info().
		Str("version", common.GetFullVersion()).
		Str("environment", config.Environment).
		Str("config", configPath).
		Msg("Starting Vigia")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx, config, logger, app.Options{})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}

	if config.Scheduler.Enabled {
		if err := application.Scheduler.Start(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to start scheduler")
			os.Exit(1)
		}
	} else {
		logger.Warn().Msg("Scheduler disabled, no batch runs will execute")
	}

	// Block until shutdown signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	cancel()

	if err := application.Close(); err != nil {
		logger.Error().Err(err).Msg("Shutdown completed with errors")
		os.Exit(1)
	}
	logger.Info().Msg("Shutdown complete")
}
