package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ListingPulse/internal/domain/models"
	drepo "ListingPulse/internal/domain/repository"
	internalrepo "ListingPulse/internal/repository"
	"ListingPulse/internal/scheduler"
	"ListingPulse/internal/service/binance"
	"ListingPulse/internal/service/catalog"
	"ListingPulse/internal/service/discovery"
	"ListingPulse/internal/service/throttle"
	"ListingPulse/internal/service/upbit"
	"ListingPulse/internal/usecase"
	"ListingPulse/pkg/cache"
	"ListingPulse/pkg/config"
	xhttp "ListingPulse/pkg/http"
	pkgkafka "ListingPulse/pkg/kafka"
	applogger "ListingPulse/pkg/logger"
	"ListingPulse/pkg/metrics"
	"ListingPulse/pkg/server"
	"ListingPulse/pkg/store"
)

// Scheduler names double as snapshot keys in every persistence tier, so
// changing them orphans previously written snapshots.
const (
	reportSchedule   = "strategy_report"
	calendarSchedule = "listing_calendar"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideThrottle creates the shared pacing executor. Both exchange clients
// must go through this one instance; the upstream quota is process-wide.
func ProvideThrottle(cfg *config.Config, logger *applogger.Logger, m drepo.Metrics) *throttle.Executor {
	return throttle.New(cfg.Throttle.MinInterval,
		throttle.WithMaxRetries(cfg.Throttle.MaxRetries),
		throttle.WithBackoffBase(cfg.Throttle.BackoffBase),
		throttle.WithLogger(logger),
		throttle.WithMetrics(m),
	)
}

// ProvideUpbitClient creates the Upbit REST client.
func ProvideUpbitClient(cfg *config.Config, exec *throttle.Executor) *upbit.Client {
	httpc := xhttp.NewClient(xhttp.WithTimeout(cfg.Upbit.RequestTimeout))
	return upbit.New(cfg.Upbit.BaseURL, httpc, exec)
}

// ProvideBinanceClient creates the Binance REST client.
func ProvideBinanceClient(cfg *config.Config, exec *throttle.Executor) *binance.Client {
	httpc := xhttp.NewClient(xhttp.WithTimeout(cfg.Binance.RequestTimeout))
	return binance.New(cfg.Binance.BaseURL, httpc, exec)
}

// ProvideCatalog creates the asset catalog backed by the Upbit market list.
func ProvideCatalog(cfg *config.Config, client *upbit.Client, logger *applogger.Logger) drepo.AssetCatalog {
	return catalog.New(client, cfg.Catalog.VolumeSnapshotPath, logger)
}

// ProvideDiscoverer creates the listing-date discoverer over Upbit daily bars.
func ProvideDiscoverer(client *upbit.Client, logger *applogger.Logger) *discovery.Discoverer {
	return discovery.New(client, logger)
}

// ProvideHourlySource exposes the Binance client as the hourly bar source.
func ProvideHourlySource(client *binance.Client) drepo.HourlyBarSource {
	return client
}

// ProvideNotifier creates the Kafka refresh notifier, or a no-op when Kafka
// is not configured.
func ProvideNotifier(cfg *config.Config, logger *applogger.Logger) (drepo.Notifier, error) {
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.Topic == "" {
		logger.Info("kafka not configured, refresh notifications disabled")
		return internalrepo.NoopNotifier{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	// Ship aggregated error logs over the same producer.
	logger.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		Topic:          cfg.Kafka.LogTopic,
		Publisher:      internalrepo.NewLogPublisher(producer),
	})

	return internalrepo.NewKafkaNotifier(producer, cfg.Kafka.Topic), nil
}

// ProvideTiers builds the snapshot persistence chain: Redis first when
// enabled, disk always last.
func ProvideTiers(cfg *config.Config, logger *applogger.Logger) ([]scheduler.Tier, error) {
	var tiers []scheduler.Tier

	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Redis.Host),
			cache.WithRedisPort(cfg.Redis.Port),
			cache.WithRedisPassword(cfg.Redis.Password),
			cache.WithRedisDB(cfg.Redis.DB),
		)
		if err != nil {
			// Redis down at boot is survivable; disk still warm-starts us.
			logger.Warn("redis unavailable, snapshot tier disabled", applogger.Error(err))
		} else {
			tiers = append(tiers, scheduler.NewRedisTier(rc, cfg.Scheduler.SnapshotTTL))
		}
	}

	ds, err := store.NewDiskStore(cfg.Snapshot.Dir)
	if err != nil {
		return nil, err
	}
	tiers = append(tiers, scheduler.NewDiskTier(ds))
	return tiers, nil
}

// ProvideReportBuilder creates the strategy-report pipeline.
func ProvideReportBuilder(
	cfg *config.Config,
	cat drepo.AssetCatalog,
	disc *discovery.Discoverer,
	hourly drepo.HourlyBarSource,
	m drepo.Metrics,
	logger *applogger.Logger,
) *usecase.ReportBuilder {
	return usecase.NewReportBuilder(cat, disc, hourly, m, logger,
		cfg.Analysis.LookbackMonths, cfg.Analysis.MaxAssets, cfg.Analysis.AssetCooldown)
}

// ProvideCalendarBuilder creates the listing-calendar pipeline.
func ProvideCalendarBuilder(
	cfg *config.Config,
	cat drepo.AssetCatalog,
	disc *discovery.Discoverer,
	m drepo.Metrics,
	logger *applogger.Logger,
) *usecase.CalendarBuilder {
	return usecase.NewCalendarBuilder(cat, disc, m, logger,
		cfg.Analysis.LookbackMonths, cfg.Analysis.MaxAssets, cfg.Analysis.AssetCooldown)
}

// ProvideReportScheduler wires the report pipeline into a recompute schedule.
func ProvideReportScheduler(
	cfg *config.Config,
	builder *usecase.ReportBuilder,
	tiers []scheduler.Tier,
	notifier drepo.Notifier,
	m drepo.Metrics,
	logger *applogger.Logger,
) *scheduler.Scheduler[*models.Report] {
	compute := func(ctx context.Context) (*models.Report, error) {
		report, err := builder.Build(ctx)
		if errors.Is(err, usecase.ErrEmptyCatalog) {
			return nil, scheduler.ErrSkipRun
		}
		if err != nil {
			return nil, err
		}
		m.RecordAssetsAnalyzed(reportSchedule, report.AssetsAnalyzed)
		if err := notifier.NotifyRefreshed(ctx, reportSchedule, report.GeneratedAt, report.AssetsAnalyzed); err != nil {
			logger.Warn("refresh notify failed", applogger.Error(err))
		}
		return report, nil
	}
	return scheduler.New(reportSchedule, cfg.Scheduler.ReportInterval, compute, tiers, logger, m)
}

// ProvideCalendarScheduler wires the calendar pipeline into a recompute
// schedule.
func ProvideCalendarScheduler(
	cfg *config.Config,
	builder *usecase.CalendarBuilder,
	tiers []scheduler.Tier,
	notifier drepo.Notifier,
	m drepo.Metrics,
	logger *applogger.Logger,
) *scheduler.Scheduler[[]models.CalendarEntry] {
	compute := func(ctx context.Context) ([]models.CalendarEntry, error) {
		entries, err := builder.Build(ctx)
		if errors.Is(err, usecase.ErrEmptyCatalog) {
			return nil, scheduler.ErrSkipRun
		}
		if err != nil {
			return nil, err
		}
		m.RecordAssetsAnalyzed(calendarSchedule, len(entries))
		if err := notifier.NotifyRefreshed(ctx, calendarSchedule, time.Now(), len(entries)); err != nil {
			logger.Warn("refresh notify failed", applogger.Error(err))
		}
		return entries, nil
	}
	return scheduler.New(calendarSchedule, cfg.Scheduler.CalendarInterval, compute, tiers, logger, m)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	report *scheduler.Scheduler[*models.Report],
	calendar *scheduler.Scheduler[[]models.CalendarEntry],
	notifier drepo.Notifier,
) *server.App {
	return server.New(cfg, logger, report, calendar, notifier)
}
