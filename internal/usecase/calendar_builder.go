package usecase

import (
	"context"
	"sort"
	"time"

	"ListingPulse/internal/domain/models"
	drepo "ListingPulse/internal/domain/repository"
	"ListingPulse/internal/service/discovery"
	applogger "ListingPulse/pkg/logger"
)

// CalendarBuilder produces the recent-listings calendar: every catalog asset
// whose listing date falls inside the lookback window, newest first. It shares
// the discovery walk with the report pipeline so both surfaces agree on what
// "listing date" means.
type CalendarBuilder struct {
	catalog  drepo.AssetCatalog
	discover *discovery.Discoverer
	metrics  drepo.Metrics
	logger   *applogger.Logger

	lookbackMonths int
	maxAssets      int
	cooldown       time.Duration
}

// NewCalendarBuilder creates a CalendarBuilder.
func NewCalendarBuilder(
	catalog drepo.AssetCatalog,
	discover *discovery.Discoverer,
	metrics drepo.Metrics,
	logger *applogger.Logger,
	lookbackMonths, maxAssets int,
	cooldown time.Duration,
) *CalendarBuilder {
	return &CalendarBuilder{
		catalog:        catalog,
		discover:       discover,
		metrics:        metrics,
		logger:         logger,
		lookbackMonths: lookbackMonths,
		maxAssets:      maxAssets,
		cooldown:       cooldown,
	}
}

// Build produces the listing calendar. Per-asset discovery failures skip the
// asset; an empty catalog returns ErrEmptyCatalog so the caller can skip the
// run without publishing an empty calendar.
func (b *CalendarBuilder) Build(ctx context.Context) ([]models.CalendarEntry, error) {
	assets, err := b.catalog.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, ErrEmptyCatalog
	}
	if len(assets) > b.maxAssets {
		assets = assets[:b.maxAssets]
	}

	cutoff := time.Now().AddDate(0, -b.lookbackMonths, 0)
	entries := make([]models.CalendarEntry, 0, len(assets))

	for _, asset := range assets {
		listing, found, err := b.discover.ListingDate(ctx, asset.MarketID)
		if err != nil {
			if b.metrics != nil {
				b.metrics.RecordError("asset_skip")
			}
			if b.logger != nil {
				b.logger.Warn("listing discovery failed",
					applogger.String("symbol", asset.Symbol), applogger.Error(err))
			}
		} else if found && !listing.Before(cutoff) {
			entries = append(entries, models.CalendarEntry{
				Symbol:      asset.Symbol,
				MarketID:    asset.MarketID,
				Name:        asset.Name,
				KoreanName:  asset.KoreanName,
				ListingDate: listing.Format("2006-01-02"),
			})
		}

		select {
		case <-time.After(b.cooldown):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ListingDate > entries[j].ListingDate
	})
	return entries, nil
}
