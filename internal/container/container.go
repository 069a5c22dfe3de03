package container

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/wanderio/go-smart-destinations/app/db"
	"github.com/wanderio/go-smart-destinations/config"
	"github.com/wanderio/go-smart-destinations/internal/api/destination"
	generativeAI "github.com/wanderio/go-smart-destinations/internal/api/generative_ai"
	"github.com/wanderio/go-smart-destinations/internal/api/ranking"
)

// Container holds all application dependencies
type Container struct {
	Config             *config.Config
	Logger             *slog.Logger
	Pool               *pgxpool.Pool
	AIClient           *generativeAI.AIClient
	RankingService     ranking.Service
	DestinationHandler *destination.HandlerImpl
}

// NewContainer initializes and returns a new dependency container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	aiClient, err := generativeAI.NewAIClient(ctx, cfg.Gemini.Model, cfg.Gemini.Timeout)
	if err != nil {
		logger.Error("Failed to initialize generative AI client", slog.Any("error", err))
		pool.Close()
		return nil, err
	}

	rankingService := ranking.NewServiceImpl(aiClient, logger)

	destinationRepo := destination.NewRepositoryImpl(pool, logger)
	destinationService := destination.NewServiceImpl(destinationRepo, rankingService, aiClient, logger)
	destinationHandler := destination.NewHandlerImpl(destinationService, logger)

	return &Container{
		Config:             cfg,
		Logger:             logger,
		Pool:               pool,
		AIClient:           aiClient,
		RankingService:     rankingService,
		DestinationHandler: destinationHandler,
	}, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// RunMigrations runs database migrations
func (c *Container) RunMigrations(connectionURL string) error {
	return database.RunMigrations(connectionURL, c.Logger)
}
