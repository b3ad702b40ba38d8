package di

import (
	"context"

	"github.com/GoArmGo/MovieCatalog/internal/adapter/storage/media"
	"github.com/GoArmGo/MovieCatalog/internal/app"
	"github.com/GoArmGo/MovieCatalog/internal/config"
	"github.com/GoArmGo/MovieCatalog/internal/core/ports"
	"github.com/GoArmGo/MovieCatalog/internal/database/client"
	"github.com/GoArmGo/MovieCatalog/internal/logger"
	"github.com/GoArmGo/MovieCatalog/internal/messaging"
	"github.com/GoArmGo/MovieCatalog/internal/metrics"
	"github.com/GoArmGo/MovieCatalog/internal/rabbitmq"
	"github.com/GoArmGo/MovieCatalog/internal/usecase"
)

// BuildApp loads the configuration and wires every dependency.
func BuildApp(ctx context.Context) (*app.App, error) {
	// 1. configuration and logger
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. datastore selected by DATA_SOURCE
	store, err := client.New(ctx, cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 3. media host
	fileStorage, err := media.NewClient(ctx, cfg, slogger)
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}

	// 4. image cleanup: the queue when configured, inline deletion otherwise
	var (
		broker  *rabbitmq.Client
		cleanup ports.ImageCleanupPublisher
	)
	if cfg.RabbitMQ.RabbitMQURL != "" {
		broker, err = rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		cleanup = broker
	} else {
		slogger.Warn("RABBITMQ_URL is not set, image cleanup runs inline")
		cleanup = messaging.NewInlineCleaner(fileStorage, slogger)
	}

	// 5. use cases
	userUseCase := usecase.NewUserUseCase(store, cleanup, cfg.PageSize, slogger)
	movieUseCase := usecase.NewMovieUseCase(store, fileStorage, cleanup, cfg.PageSize, slogger)
	genreUseCase := usecase.NewGenreUseCase(store, cfg.PageSize, slogger)

	application := app.NewApp(
		cfg,
		slogger,
		store,
		fileStorage,
		broker,
		metrics.New(nil),
		userUseCase,
		movieUseCase,
		genreUseCase,
	)

	slogger.Info("all dependencies initialized")
	return application, nil
}
