//go:build wireinject
// +build wireinject

package di

import (
	"SalesPulse/pkg/config"
	"SalesPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideCache,
		ProvideRefreshQueue,

		// Repositories
		ProvideDealSource,
		ProvideSnapshotStore,
		ProvideSnapshotPublisher,

		// Use cases
		ProvideSeriesBuilder,
		ProvideSnapshotArchiver,
		ProvideSnapshotPipeline,
		ProvideForecaster,
		ProvideTrendAnalyzer,
		ProvideSnapshotHistory,
		ProvidePipelineRefresher,
		ProvideDealEventsHandler,

		// HTTP
		ProvideResponseCache,
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
