package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoArmGo/MovieCatalog/internal/config"
	"github.com/GoArmGo/MovieCatalog/internal/core/ports"
	"github.com/GoArmGo/MovieCatalog/internal/database/client"
	"github.com/GoArmGo/MovieCatalog/internal/metrics"
	"github.com/GoArmGo/MovieCatalog/internal/rabbitmq"
	"github.com/GoArmGo/MovieCatalog/internal/usecase"
)

// Run modes.
const (
	ModeServer = "server"
	ModeWorker = "worker"
)

// App holds the wired dependencies of one process.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *client.Client
	files   ports.FileStorage
	broker  *rabbitmq.Client // nil when RABBITMQ_URL is unset
	metrics *metrics.HTTPMetrics

	userUseCase  usecase.UserUseCase
	movieUseCase usecase.MovieUseCase
	genreUseCase usecase.GenreUseCase
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	store *client.Client,
	files ports.FileStorage,
	broker *rabbitmq.Client,
	httpMetrics *metrics.HTTPMetrics,
	userUseCase usecase.UserUseCase,
	movieUseCase usecase.MovieUseCase,
	genreUseCase usecase.GenreUseCase,
) *App {
	return &App{
		cfg:          cfg,
		logger:       logger,
		store:        store,
		files:        files,
		broker:       broker,
		metrics:      httpMetrics,
		userUseCase:  userUseCase,
		movieUseCase: movieUseCase,
		genreUseCase: genreUseCase,
	}
}

// LoggerIns returns the application logger.
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run blocks in the given mode until SIGINT/SIGTERM or ctx ends, then
// releases every resource.
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode, "data_source", a.store.Kind())

	var err error
	switch mode {
	case ModeServer:
		err = a.runServer(ctx)
	case ModeWorker:
		err = a.runWorker(ctx)
	default:
		err = fmt.Errorf("unknown mode %q (use %q or %q)", mode, ModeServer, ModeWorker)
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if closeErr := a.Shutdown(shutdownCtx); closeErr != nil {
		a.logger.Error("shutdown finished with errors", "error", closeErr)
	}
	return err
}

// Shutdown closes the queue connection and the datastore.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.broker != nil {
		errs = append(errs, a.broker.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close(ctx))
	}
	return errors.Join(errs...)
}
