//go:build wireinject
// +build wireinject

package di

import (
	"CoinSentry/pkg/config"
	"CoinSentry/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient infrastructure
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideReliabilityStore,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideRunArchive,
		ProvideNotifier,

		// Source adapters
		ProvideBinanceStream,
		ProvideQuoteProviders,

		// Use cases
		ProvideReliabilityTracker,
		ProvideValidationPipeline,

		// HTTP surface
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
