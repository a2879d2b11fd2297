package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/scribeworks/meetscribe/internal/analysis"
	"github.com/scribeworks/meetscribe/internal/archive"
	"github.com/scribeworks/meetscribe/internal/audio"
	"github.com/scribeworks/meetscribe/internal/cli"
	"github.com/scribeworks/meetscribe/internal/config"
	"github.com/scribeworks/meetscribe/internal/logger"
	"github.com/scribeworks/meetscribe/internal/metrics"
	"github.com/scribeworks/meetscribe/internal/pipeline"
	"github.com/scribeworks/meetscribe/internal/transcribe"
	"github.com/scribeworks/meetscribe/pkg/executor"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional; environment variables win over .env values.
	_ = godotenv.Load()

	configPath := os.Getenv("MEETSCRIBE_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Logging.Level)
	exec := executor.New()

	session := archive.NewSession()
	m := metrics.New()

	p := pipeline.New(
		audio.New(exec, log, cfg.Paths.Temp),
		transcribe.New(cfg, exec, log),
		analysis.NewRouter(cfg, log),
		session,
		m,
		log,
		cfg,
	)

	deps := &cli.Dependencies{
		Pipeline: p,
		Session:  session,
		Metrics:  m,
		Config:   cfg,
		Logger:   log,
	}

	return cli.NewRootCmd(deps).ExecuteContext(context.Background())
}
