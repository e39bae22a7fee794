package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kevinms/leakybucket-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rcrowley/go-metrics"

	"github.com/rocketscienceinc/fairchain-backend/internal/config"
	"github.com/rocketscienceinc/fairchain-backend/internal/tictactoe"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger *slog.Logger
	conf   *config.Config

	ping   PingHandler
	escrow EscrowHandler
	ai     AIHandler

	httpMetrics     *httpMetrics
	metricsRegistry *prometheus.Registry
	ledgerMetrics   metrics.Registry
	limiter         *leakybucket.Collector
}

// New builds the HTTP API. ledgerMetrics is the registry the ledger client reports into.
func New(logger *slog.Logger, conf *config.Config, escrow escrowUseCase, rnd tictactoe.Random, ledgerMetrics metrics.Registry) *Server {
	logger = logger.With("component", "http")

	if ledgerMetrics == nil {
		ledgerMetrics = metrics.DefaultRegistry
	}

	httpMetrics := newHTTPMetrics()

	return &Server{
		logger: logger,
		conf:   conf,

		ping:   NewPingHandler(),
		escrow: NewEscrowHandler(logger, escrow),
		ai:     NewAIHandler(logger, rnd),

		httpMetrics:     httpMetrics,
		metricsRegistry: newMetricsRegistry(httpMetrics),
		ledgerMetrics:   ledgerMetrics,
		limiter:         leakybucket.NewCollector(conf.RateLimit.Rate, conf.RateLimit.Burst, true),
	}
}

// Handler returns the routed API wrapped in the middleware chain.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", that.ping.Ping)
	mux.HandleFunc("GET /health", that.ping.Health)
	mux.Handle("GET /metrics", prometheusHandler(that.metricsRegistry))
	mux.HandleFunc("GET /metrics/ledger", ledgerMetricsHandler(that.ledgerMetrics))

	mux.HandleFunc("POST /api/game/create", that.escrow.CreateGame)
	mux.HandleFunc("POST /api/game/create-test-account", that.escrow.CreateTestAccount)
	mux.HandleFunc("POST /api/game/bet", that.escrow.PlaceBet)
	mux.HandleFunc("POST /api/game/submit-transaction", that.escrow.SubmitTransaction)
	mux.HandleFunc("POST /api/game/game-end", that.escrow.GameEnd)
	mux.HandleFunc("GET /api/game/{gameId}/steps", that.escrow.Steps)

	mux.HandleFunc("POST /api/ai/move", that.ai.Move)

	middlewares := []middleware{corsMiddleware(that.conf.CORSOrigin)}
	if !that.conf.RateLimit.Disabled {
		middlewares = append(middlewares, rateLimitMiddleware(that.limiter))
	}
	middlewares = append(middlewares,
		requestLogMiddleware(that.logger),
		recoverMiddleware(that.logger),
		metricsMiddleware(that.httpMetrics),
	)

	return chain(mux, middlewares...)
}

// Start serves the API until ctx is cancelled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	that.logger.Info("HTTP server stopped")

	return nil
}
