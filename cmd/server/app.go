package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/medcards-api/internal/config"
	"github.com/phrazzld/medcards-api/internal/domain/srs"
	"github.com/phrazzld/medcards-api/internal/events"
	"github.com/phrazzld/medcards-api/internal/generation"
	"github.com/phrazzld/medcards-api/internal/jobs"
	"github.com/phrazzld/medcards-api/internal/platform/gemini"
	"github.com/phrazzld/medcards-api/internal/platform/postgres"
	"github.com/phrazzld/medcards-api/internal/platform/spreadsheet"
	"github.com/phrazzld/medcards-api/internal/redact"
	"github.com/phrazzld/medcards-api/internal/seed"
	"github.com/phrazzld/medcards-api/internal/service"
	"github.com/phrazzld/medcards-api/internal/service/auth"
	"github.com/phrazzld/medcards-api/internal/service/review"
	"github.com/phrazzld/medcards-api/internal/store"
)

// application holds the shared dependencies so they can be wired once and
// released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	goalStore store.StudyGoalStore

	jwtService          auth.JWTService
	userService         service.UserService
	categoryService     service.CategoryService
	cardService         service.CardService
	reviewService       review.Service
	goalService         service.GoalService
	questionListService service.QuestionListService
	reportService       service.ReportService

	eventEmitter *events.InMemoryEventEmitter
	jobRunner    *jobs.Runner
}

// newApplication builds stores and services on top of an open database.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))
	passwords := auth.NewBcryptVerifier(cfg.Auth.BCryptCost)

	tx := store.NewSQLTransactor(db)
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.goalStore = postgres.NewPostgresStudyGoalStore(db, logger)
	categoryStore := postgres.NewPostgresCategoryStore(db, logger)
	themeStore := postgres.NewPostgresThemeStore(db, logger)
	cardStore := postgres.NewPostgresCardStore(db, logger)
	sessionStore := postgres.NewPostgresStudySessionStore(db, logger)
	reviewStore := postgres.NewPostgresCardReviewStore(db, logger)
	listStore := postgres.NewPostgresQuestionListStore(db, logger)
	reportStore := postgres.NewPostgresReportStore(sqlx.NewDb(db, "pgx"), logger)

	generator, err := setupGenerator(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, err
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	app.userService = service.NewUserService(app.userStore, tx, passwords, passwords, service.SystemClock, logger)
	app.categoryService = service.NewCategoryService(categoryStore, themeStore, service.SystemClock, logger)
	app.cardService = service.NewCardService(cardStore, categoryStore, themeStore, tx, generator,
		cfg.Study, service.SystemClock, logger)
	app.reviewService = review.NewService(
		review.Stores{Cards: cardStore, Sessions: sessionStore, Reviews: reviewStore},
		tx,
		srs.NewDefaultService(),
		app.eventEmitter,
		cfg.Study.DefaultHistorySize,
		service.SystemClock,
		logger,
	)
	app.goalService = service.NewGoalService(app.goalStore, reviewStore, service.SystemClock, logger)
	app.questionListService = service.NewQuestionListService(listStore, tx,
		spreadsheet.NewReader(spreadsheet.DefaultMaxRows, logger), service.SystemClock, logger)
	app.reportService = service.NewReportService(reportStore, service.SystemClock, logger)

	app.eventEmitter.RegisterHandler(app.goalService)

	logger.Info("application initialized")
	return app, nil
}

// setupGenerator returns the Gemini generator, or nil when suggestions are
// not configured.
func setupGenerator(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Generator, error) {
	if !cfg.Enabled() {
		logger.Info("answer suggestions disabled: no Gemini API key configured")
		return nil, nil
	}
	generator, err := gemini.NewGeminiGenerator(ctx, logger.With(slog.String("component", "llm_generator")), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized", slog.String("model", cfg.ModelName))
	return generator, nil
}

// Run starts the background jobs and serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	if app.config.Jobs.Enabled {
		app.jobRunner = jobs.NewRunner(app.reviewService, app.goalStore,
			jobs.ConfigFrom(app.config.Jobs), service.SystemClock, app.logger)
		if err := app.jobRunner.Start(); err != nil {
			return fmt.Errorf("failed to start job runner: %w", err)
		}
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// seed creates the demo data.
func (app *application) seed(ctx context.Context, demoPassword, adminPassword string) error {
	seeder := seed.NewSeeder(app.userService, app.userStore, app.categoryService,
		app.cardService, app.questionListService, app.logger)
	if _, err := seeder.Run(ctx, seed.Options{DemoPassword: demoPassword, AdminPassword: adminPassword}); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	return nil
}

// cleanup releases resources in reverse order of acquisition.
func (app *application) cleanup() {
	if app.jobRunner != nil {
		app.jobRunner.Stop()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", redact.Attr(err))
		}
	}
	app.logger.Info("application shutdown completed")
}
