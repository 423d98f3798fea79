package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"devpulse/internal/bootstrap/config"
	"devpulse/internal/bootstrap/database"
	"devpulse/internal/bootstrap/logging"
	githubinfra "devpulse/internal/infrastructure/github"
	llminfra "devpulse/internal/infrastructure/llm"
	sqliterepo "devpulse/internal/infrastructure/persistence/sqlite/repository"
	"devpulse/internal/ports"
	"devpulse/internal/usecase/review"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(func(cfg config.Config) config.GitHubConfig { return cfg.GitHub }),
	fx.Provide(func(cfg config.Config) config.LLMConfig { return cfg.LLM }),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewAnalysisRepository,
			fx.As(new(ports.AnalysisStore)),
		),
	),
	fx.Provide(
		fx.Annotate(
			githubinfra.NewClient,
			fx.As(new(ports.PullRequestFetcher)),
		),
	),
	fx.Provide(
		fx.Annotate(
			llminfra.NewClient,
			fx.As(new(ports.ChatCompleter)),
		),
	),
	fx.Provide(review.NewAnalyzer),
	fx.Provide(review.NewService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}
