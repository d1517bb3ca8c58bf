package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domrepo "CoinSentry/internal/domain/repository"
	"CoinSentry/internal/service/providers"
	pkgch "CoinSentry/pkg/clickhouse"
	"CoinSentry/pkg/config"
	xhttp "CoinSentry/pkg/http"
	pkgkafka "CoinSentry/pkg/kafka"
	xlogger "CoinSentry/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *xlogger.Logger
	handler    xhttp.Handler
	stream     *providers.BinanceStream
	store      domrepo.ReliabilityStore
	chClient   *pkgch.Client
	producer   *pkgkafka.Producer
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *xlogger.Logger,
	handler xhttp.Handler,
	stream *providers.BinanceStream,
	store domrepo.ReliabilityStore,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
) *App {
	return &App{
		cfg:      cfg,
		logger:   l,
		handler:  handler,
		stream:   stream,
		store:    store,
		chClient: chClient,
		producer: producer,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.logger, a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithServerTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsEndpoint(a.cfg.Metrics.Enabled),
	)

	// Start the streaming feed so its quote cache is warm before the
	// first pipeline run asks for it.
	if a.stream != nil {
		go func() {
			if err := a.stream.Run(ctx); err != nil {
				a.logger.Error("binance stream stopped", xlogger.Error(err))
			}
		}()
		a.logger.Info("binance stream started")
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", xlogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", xlogger.Error(err))
	}

	if a.stream != nil {
		if err := a.stream.Close(); err != nil {
			a.logger.Warn("binance stream close error", xlogger.Error(err))
		}
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("reliability store close error", xlogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", xlogger.Error(err))
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("kafka producer close error", xlogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
