package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rcrowley/go-metrics"

	"github.com/rocketscienceinc/fairchain-backend/internal/config"
	"github.com/rocketscienceinc/fairchain-backend/internal/entity"
	"github.com/rocketscienceinc/fairchain-backend/internal/ledger"
	"github.com/rocketscienceinc/fairchain-backend/internal/repository"
	"github.com/rocketscienceinc/fairchain-backend/internal/repository/storage"
	"github.com/rocketscienceinc/fairchain-backend/internal/service"
	"github.com/rocketscienceinc/fairchain-backend/internal/tictactoe"
	"github.com/rocketscienceinc/fairchain-backend/internal/usecase"
	"github.com/rocketscienceinc/fairchain-backend/transport/rest"
	"github.com/rocketscienceinc/fairchain-backend/transport/websocket"
)

var (
	ErrAddrNotFound     = errors.New("redis address string is empty")
	ErrUnknownStoreKind = errors.New("unknown session store")
)

type stores struct {
	sessions repository.SessionRepository
	games    repository.GameRepository
	close    func()
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	journalStorage, err := storage.NewSQLiteStorage(ctx, conf.JournalPath)
	if err != nil {
		return fmt.Errorf("could not open journal: %w", err)
	}

	defer func() {
		if err = journalStorage.Close(); err != nil {
			log.Error("could not close journal", "error", err)
		}
	}()

	if err = journalStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init journal: %w", err)
	}

	journal := repository.NewJournalRepository(journalStorage.Connection)

	st, err := newStores(ctx, log, conf, usecase.EvictionRecorder(logger, journal))
	if err != nil {
		return err
	}
	defer st.close()

	ledgerClient := ledger.NewFromConfig(logger, conf)

	escrowUseCase := usecase.NewEscrowUseCase(logger, st.sessions, journal, ledgerClient)
	gameManager := usecase.NewGameManager(logger, st.games, service.NewBotService(tictactoe.DefaultRandom))

	httpServer := rest.New(logger, conf, escrowUseCase, tictactoe.DefaultRandom, metrics.DefaultRegistry)
	wsServer := websocket.New(logger, gameManager, conf.CORSOrigin)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		httpErrCh <- httpServer.Start(ctx, conf.HTTPPort)
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsErrCh <- wsServer.Start(ctx, conf.SocketPort)
	}()

	// a server returns before ctx is done only when it failed to start
	select {
	case err = <-httpErrCh:
		cancel()
		<-wsErrCh
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		cancel()
		<-httpErrCh
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Received signal, shutting down")
	}

	if err = <-httpErrCh; err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	if err = <-wsErrCh; err != nil {
		log.Error("WebSocket server shutdown error", "error", err)
	}

	return nil
}

// newStores opens the session and game stores selected by session-store. onEvict is handed to
// the memory session store; redis expires keys on its own.
func newStores(ctx context.Context, log *slog.Logger, conf *config.Config, onEvict func(*entity.Session)) (*stores, error) {
	switch conf.SessionStore {
	case config.StoreMemory, "":
		log.Info("using in-memory session store", "capacity", conf.SessionCapacity, "ttl", conf.SessionTTL)

		return &stores{
			sessions: repository.NewMemorySessionRepository(conf.SessionCapacity, conf.SessionTTL, onEvict),
			games:    repository.NewMemoryGameRepository(conf.SessionCapacity, conf.SessionTTL),
			close:    func() {},
		}, nil
	case config.StoreRedis:
		if conf.Redis.Host == "" {
			return nil, ErrAddrNotFound
		}

		redisAddrString := conf.Redis.GetRedisAddr()

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		log.Info("using redis session store", "addr", redisAddrString, "ttl", conf.SessionTTL)

		return &stores{
			sessions: repository.NewSessionRepository(redisStorage.Connection, conf.SessionTTL),
			games:    repository.NewGameRepository(redisStorage.Connection, conf.SessionTTL),
			close: func() {
				if err = redisStorage.Close(); err != nil {
					log.Error("could not close redis storage", "error", err)
				}
			},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStoreKind, conf.SessionStore)
	}
}
