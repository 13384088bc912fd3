package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ListingPulse/internal/domain/models"
	"ListingPulse/internal/service/discovery"
	"ListingPulse/pkg/util"
)

type fakeCatalog struct {
	assets []models.Asset
	err    error
}

func (f *fakeCatalog) ListAssets(context.Context) ([]models.Asset, error) {
	return f.assets, f.err
}

// fakeDaily serves one partial daily page per market, oldest bar dated by
// listingDates. Discovery then reports the day before that date.
type fakeDaily struct {
	listingDates map[string]string
}

func (f *fakeDaily) FetchDailyBars(_ context.Context, marketID string, _ time.Time, _ int) ([]models.PriceBar, error) {
	date, ok := f.listingDates[marketID]
	if !ok {
		return nil, nil
	}
	day, _ := util.ParseDateKST(date)
	bars := make([]models.PriceBar, 10)
	for i := range bars {
		d := day.AddDate(0, 0, len(bars)-1-i)
		bars[i] = models.PriceBar{StartMs: d.UnixMilli(), Date: util.DateKST(d)}
	}
	return bars, nil
}

// fakeHourly serves a falling price series across whatever window is asked.
type fakeHourly struct {
	symbols []string
	err     error
}

func (f *fakeHourly) FetchHourlyBars(_ context.Context, symbol string, startMs, endMs int64) ([]models.PriceBar, error) {
	f.symbols = append(f.symbols, symbol)
	if f.err != nil {
		return nil, f.err
	}
	var bars []models.PriceBar
	for i, ms := 0, startMs; ms < endMs; i, ms = i+1, ms+3_600_000 {
		p := 1000 - float64(i)
		bars = append(bars, models.PriceBar{StartMs: ms, Open: p, High: p, Low: p, Close: p})
	}
	return bars, nil
}

func dateDaysAgo(days int) string {
	return util.DateKST(time.Now().AddDate(0, 0, -days))
}

func newTestReportBuilder(cat *fakeCatalog, daily *fakeDaily, hourly *fakeHourly, maxAssets int) *ReportBuilder {
	disc := discovery.New(daily, nil)
	return NewReportBuilder(cat, disc, hourly, nil, nil, 6, maxAssets, 0)
}

func TestReportBuilderAnalyzesRecentListings(t *testing.T) {
	cat := &fakeCatalog{assets: []models.Asset{
		{Symbol: "NEW", MarketID: "KRW-NEW", Name: "New Coin"},
		{Symbol: "OLD", MarketID: "KRW-OLD", Name: "Old Coin"},
	}}
	daily := &fakeDaily{listingDates: map[string]string{
		"KRW-NEW": dateDaysAgo(30),
		"KRW-OLD": dateDaysAgo(700),
	}}
	hourly := &fakeHourly{}

	report, err := newTestReportBuilder(cat, daily, hourly, 30).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, report.LookbackMonths)
	assert.Equal(t, 1, report.AssetsAnalyzed)
	assert.Len(t, report.Scenarios, 15)
	assert.Len(t, report.Summaries, 15)

	require.Len(t, report.Analyses, 1)
	analysis := report.Analyses[0]
	assert.Equal(t, "NEW", analysis.Symbol)
	assert.Len(t, analysis.Results, 15)

	// Only the in-window asset should have cost an hourly fetch.
	assert.Equal(t, []string{"NEW"}, hourly.symbols)

	for _, s := range report.Summaries {
		assert.Equal(t, 1, s.Samples, "scenario %s", s.ScenarioID)
		assert.Greater(t, s.MeanReturn, 0.0, "falling price must profit a short, scenario %s", s.ScenarioID)
	}
}

func TestReportBuilderEmptyCatalog(t *testing.T) {
	b := newTestReportBuilder(&fakeCatalog{}, &fakeDaily{}, &fakeHourly{}, 30)
	_, err := b.Build(context.Background())
	require.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestReportBuilderCatalogErrorFailsRun(t *testing.T) {
	boom := errors.New("catalog down")
	b := newTestReportBuilder(&fakeCatalog{err: boom}, &fakeDaily{}, &fakeHourly{}, 30)
	_, err := b.Build(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestReportBuilderSkipsAssetOnHourlyError(t *testing.T) {
	cat := &fakeCatalog{assets: []models.Asset{{Symbol: "NEW", MarketID: "KRW-NEW"}}}
	daily := &fakeDaily{listingDates: map[string]string{"KRW-NEW": dateDaysAgo(30)}}
	hourly := &fakeHourly{err: errors.New("klines unavailable")}

	report, err := newTestReportBuilder(cat, daily, hourly, 30).Build(context.Background())
	require.NoError(t, err, "one bad asset must not fail the batch")
	assert.Equal(t, 0, report.AssetsAnalyzed)
	assert.Empty(t, report.Analyses)
}

func TestReportBuilderHonorsMaxAssets(t *testing.T) {
	cat := &fakeCatalog{assets: []models.Asset{
		{Symbol: "A", MarketID: "KRW-A"},
		{Symbol: "B", MarketID: "KRW-B"},
		{Symbol: "C", MarketID: "KRW-C"},
	}}
	daily := &fakeDaily{listingDates: map[string]string{
		"KRW-A": dateDaysAgo(10),
		"KRW-B": dateDaysAgo(20),
		"KRW-C": dateDaysAgo(30),
	}}
	hourly := &fakeHourly{}

	report, err := newTestReportBuilder(cat, daily, hourly, 2).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.AssetsAnalyzed)
	assert.Equal(t, []string{"A", "B"}, hourly.symbols)
}
