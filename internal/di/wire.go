//go:build wireinject
// +build wireinject

package di

import (
	"ListingPulse/pkg/config"
	"ListingPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Upstream clients behind the shared pacing gate
		ProvideThrottle,
		ProvideUpbitClient,
		ProvideBinanceClient,
		ProvideCatalog,
		ProvideDiscoverer,
		ProvideHourlySource,

		// Persistence and notification
		ProvideTiers,
		ProvideNotifier,

		// Pipelines and their schedules
		ProvideReportBuilder,
		ProvideCalendarBuilder,
		ProvideReportScheduler,
		ProvideCalendarScheduler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
