package usecase

import (
	"context"
	"errors"
	"time"

	"ListingPulse/internal/domain/models"
	drepo "ListingPulse/internal/domain/repository"
	"ListingPulse/internal/service/backtest"
	"ListingPulse/internal/service/discovery"
	applogger "ListingPulse/pkg/logger"
)

// ErrEmptyCatalog signals that the upstream asset catalog has not warmed up
// yet. Not a failure: the run is skipped without advancing state.
var ErrEmptyCatalog = errors.New("asset catalog empty")

// fetchMarginHours pads the hourly window past the longest scenario horizon
// plus hold, covering anchor lookups at the window edge.
const fetchMarginHours = 6

// ReportBuilder runs the full strategy-report pipeline: discover each asset's
// listing date, fetch its hourly series, evaluate the scenario grid, and fold
// cross-asset summaries. Assets are processed strictly sequentially; the
// throttled executor's pacing requires a single ordered stream of upstream
// calls, so there is deliberately no worker pool here.
type ReportBuilder struct {
	catalog  drepo.AssetCatalog
	discover *discovery.Discoverer
	hourly   drepo.HourlyBarSource
	metrics  drepo.Metrics
	logger   *applogger.Logger

	lookbackMonths int
	maxAssets      int
	cooldown       time.Duration
}

// NewReportBuilder creates a ReportBuilder.
func NewReportBuilder(
	catalog drepo.AssetCatalog,
	discover *discovery.Discoverer,
	hourly drepo.HourlyBarSource,
	metrics drepo.Metrics,
	logger *applogger.Logger,
	lookbackMonths, maxAssets int,
	cooldown time.Duration,
) *ReportBuilder {
	return &ReportBuilder{
		catalog:        catalog,
		discover:       discover,
		hourly:         hourly,
		metrics:        metrics,
		logger:         logger,
		lookbackMonths: lookbackMonths,
		maxAssets:      maxAssets,
		cooldown:       cooldown,
	}
}

// Build produces a fresh Report. A catalog failure fails the whole run; any
// per-asset failure skips that asset and continues the batch.
func (b *ReportBuilder) Build(ctx context.Context) (*models.Report, error) {
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

	now := time.Now()
	cutoff := now.AddDate(0, -b.lookbackMonths, 0)
	agg := backtest.NewAggregator()
	analyses := make([]models.CoinListingAnalysis, 0, len(assets))

	for _, asset := range assets {
		analysis, ok := b.analyzeAsset(ctx, asset, cutoff, agg)
		if ok {
			analyses = append(analyses, analysis)
		}

		select {
		case <-time.After(b.cooldown):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return &models.Report{
		GeneratedAt:    now,
		LookbackMonths: b.lookbackMonths,
		AssetsAnalyzed: len(analyses),
		Scenarios:      backtest.Definitions(),
		Summaries:      agg.Summaries(),
		Analyses:       analyses,
	}, nil
}

func (b *ReportBuilder) analyzeAsset(ctx context.Context, asset models.Asset, cutoff time.Time, agg *backtest.Aggregator) (models.CoinListingAnalysis, bool) {
	listing, found, err := b.discover.ListingDate(ctx, asset.MarketID)
	if err != nil {
		b.skip(asset.Symbol, "listing discovery failed", err)
		return models.CoinListingAnalysis{}, false
	}
	if !found || listing.Before(cutoff) {
		// Not an error: no data yet, or listed before the lookback window.
		return models.CoinListingAnalysis{}, false
	}

	startMs := listing.Add(-1 * time.Hour).UnixMilli()
	horizon := time.Duration(backtest.MaxOffsetHours()+backtest.HoldHours+fetchMarginHours) * time.Hour
	endMs := listing.Add(horizon).UnixMilli()

	bars, err := b.hourly.FetchHourlyBars(ctx, asset.Symbol, startMs, endMs)
	if err != nil {
		b.skip(asset.Symbol, "hourly bars failed", err)
		return models.CoinListingAnalysis{}, false
	}

	results := backtest.Evaluate(listing, bars)
	if len(results) == 0 {
		return models.CoinListingAnalysis{}, false
	}
	for _, r := range results {
		agg.Add(r.ScenarioID, r.ReturnPct)
	}

	return models.CoinListingAnalysis{
		Symbol:      asset.Symbol,
		MarketID:    asset.MarketID,
		Name:        asset.Name,
		KoreanName:  asset.KoreanName,
		ListingDate: listing.Format("2006-01-02"),
		Results:     results,
	}, true
}

func (b *ReportBuilder) skip(symbol, msg string, err error) {
	if b.metrics != nil {
		b.metrics.RecordError("asset_skip")
	}
	if b.logger != nil {
		b.logger.Warn(msg, applogger.String("symbol", symbol), applogger.Error(err))
	}
}
