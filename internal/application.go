package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/config"
	"github.com/rocketscienceinc/tictactoe-solver/internal/repository"
	"github.com/rocketscienceinc/tictactoe-solver/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-solver/internal/service"
	"github.com/rocketscienceinc/tictactoe-solver/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-solver/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	moveRepo, closeRepo, err := newMoveRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeRepo(); err != nil {
			log.Error("could not close move cache", "error", err)
		}
	}()

	botService := service.NewBotService(logger, moveRepo)
	matchManager := usecase.NewMatchManager(logger, botService)
	router := rest.NewRouter(rest.NewHandlers(logger, botService, matchManager))

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "cache", conf.Cache.Backend)
	if err = rest.Start(ctx, conf.HTTPPort, router); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Received signal, shutting down")
	return nil
}

func newMoveRepository(ctx context.Context, conf *config.Config) (repository.MoveRepository, func() error, error) {
	switch conf.Cache.Backend {
	case config.CacheMemory:
		return repository.NewMemoryMoveRepository(), func() error { return nil }, nil
	case config.CacheRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.New(ctx, redisAddrString)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewMoveRepository(redisStorage, conf.Cache.TTL), redisStorage.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", apperror.ErrUnknownCacheBackend, conf.Cache.Backend)
	}
}
