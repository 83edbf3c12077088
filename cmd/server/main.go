// Package main implements the entry point for the MedCards API server,
// which serves spaced repetition flashcards for medical students.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/medcards-api/internal/config"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/redact"
	"github.com/spf13/pflag"
)

// options are the command line switches that select what the binary does.
type options struct {
	configFile    string
	migrate       string
	seed          bool
	demoPassword  string
	adminPassword string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("server exited with error", redact.Attr(err))
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("medcards-server", pflag.ContinueOnError)
	var opts options
	flags.StringVar(&opts.configFile, "config", "", "path to a YAML/JSON/TOML config file")
	flags.Int("port", 0, "HTTP port (overrides MEDCARDS_SERVER_PORT)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&opts.migrate, "migrate", "",
		"run a migration command (up, down, reset, status, version) and exit")
	flags.BoolVar(&opts.seed, "seed", false, "create demo data after migrating, then exit")
	flags.StringVar(&opts.demoPassword, "demo-password", "demo-password", "password of the seeded demo user")
	flags.StringVar(&opts.adminPassword, "admin-password", "admin-password", "password of the seeded admin user")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(
		config.WithDotEnv(".env"),
		config.WithConfigFile(opts.configFile),
		config.WithFlags(flags, map[string]string{
			"port":      "server.port",
			"log-level": "server.log_level",
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("llm_enabled", cfg.LLM.Enabled()),
		slog.Bool("jobs_enabled", cfg.Jobs.Enabled))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	if opts.migrate != "" {
		defer closeDB(db, log)
		return runMigrations(ctx, db, opts.migrate, log)
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		closeDB(db, log)
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	if opts.seed {
		if err := runMigrations(ctx, db, "up", log); err != nil {
			return err
		}
		return app.seed(ctx, opts.demoPassword, opts.adminPassword)
	}

	return app.Run(ctx)
}
