package repository

import (
	"context"
	"time"

	"ListingPulse/internal/domain/models"
)

// AssetCatalog lists the assets to analyze, ordered by trading volume
// descending. May legitimately return an empty list before the upstream
// catalog has warmed up; callers must tolerate and skip.
type AssetCatalog interface {
	ListAssets(ctx context.Context) ([]models.Asset, error)
}

// DailyBarSource fetches up to limit daily bars ending just before the cursor,
// newest first. A zero cursor means "now".
type DailyBarSource interface {
	FetchDailyBars(ctx context.Context, marketID string, before time.Time, limit int) ([]models.PriceBar, error)
}

// HourlyBarSource fetches hourly bars in [startMs, endMs), sorted ascending by
// start time.
type HourlyBarSource interface {
	FetchHourlyBars(ctx context.Context, symbol string, startMs, endMs int64) ([]models.PriceBar, error)
}

// Notifier publishes a best-effort event after a successful recompute run.
type Notifier interface {
	NotifyRefreshed(ctx context.Context, report string, generatedAt time.Time, items int) error
	Close() error
}

// Metrics records operational metrics.
type Metrics interface {
	RecordRun(report, status string)
	RecordRunDuration(report string, seconds float64)
	RecordUpstreamCall(source string)
	RecordRetry(source string)
	RecordError(kind string)
	RecordAssetsAnalyzed(report string, n int)
}
