package app

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hauseeHQ/intake-service/internal/config"
	"github.com/hauseeHQ/intake-service/internal/repositories"
	"github.com/hauseeHQ/intake-service/internal/services"
	"github.com/hauseeHQ/intake-service/internal/utils"
)

// App owns the process-wide dependencies: config, store connections,
// and the wired service graph.
type App struct {
	Config *config.Config

	DBPool      *pgxpool.Pool
	RedisClient *redis.Client

	IntakeService services.IntakeService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := pgxpool.Connect(ctx, cfg.DBUrl)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	utils.Logger.Info("Connected to Postgres")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		pool.Close()
		return nil, err
	}
	utils.Logger.Info("Connected to Redis")

	drafts := repositories.NewDraftRepository(rdb)
	submissions := repositories.NewSubmissionRepository(pool)
	verifier := services.NewVerificationService(cfg)
	notifier := services.NewNotificationService(cfg)

	return &App{
		Config:        cfg,
		DBPool:        pool,
		RedisClient:   rdb,
		IntakeService: services.NewIntakeService(drafts, submissions, verifier, notifier),
	}, nil
}

func (a *App) Close() {
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			utils.Logger.WithError(err).Warn("Error closing Redis client")
		}
	}
	if a.DBPool != nil {
		a.DBPool.Close()
	}
}
