package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ListingPulse/internal/domain/models"
)

var listing = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

// flatBars builds n hourly bars starting at listing where bar i trades at a
// single price priced by f(i).
func flatBars(n int, f func(i int) float64) []models.PriceBar {
	bars := make([]models.PriceBar, n)
	for i := range bars {
		p := f(i)
		bars[i] = models.PriceBar{
			StartMs: listing.Add(time.Duration(i) * time.Hour).UnixMilli(),
			Open:    p,
			High:    p,
			Low:     p,
			Close:   p,
		}
	}
	return bars
}

func TestEvaluateMonotonicFall(t *testing.T) {
	// Price falls one unit per hour. Every short scenario must profit.
	bars := flatBars(150, func(i int) float64 { return 1000 - float64(i) })

	results := Evaluate(listing, bars)
	require.Len(t, results, 15)

	byID := make(map[string]models.ScenarioResult, len(results))
	for _, r := range results {
		assert.Greater(t, r.ReturnPct, 0.0, "scenario %s", r.ScenarioID)
		assert.False(t, r.Liquidated, "scenario %s", r.ScenarioID)
		byID[r.ScenarioID] = r
	}

	// Exit 24h after entry at offset 0: close of bar 24 is 976.
	h0 := byID["h0_high"]
	assert.Equal(t, 1000.0, h0.EntryPrice)
	assert.Equal(t, 976.0, h0.ExitPrice)
	assert.Equal(t, 2.4, h0.ReturnPct)
	assert.Equal(t, "2024-06-01", h0.EntryDate)

	assert.Equal(t, 977.0, byID["h0_low"].EntryPrice)
	assert.Equal(t, 988.5, byID["h0_mid"].EntryPrice)

	// A higher entry means a larger short return against the same exit.
	for _, off := range BaseOffsets() {
		high := byID[scenarioID(off, "high")].ReturnPct
		mid := byID[scenarioID(off, "mid")].ReturnPct
		low := byID[scenarioID(off, "low")].ReturnPct
		assert.GreaterOrEqual(t, high, mid, "offset %d", off)
		assert.GreaterOrEqual(t, mid, low, "offset %d", off)
	}
}

func scenarioID(off int, profile string) string {
	switch off {
	case 0:
		return "h0_" + profile
	case 12:
		return "h12_" + profile
	case 24:
		return "h24_" + profile
	case 72:
		return "h72_" + profile
	default:
		return "h120_" + profile
	}
}

func TestEvaluateMidIsRangeMidpoint(t *testing.T) {
	bars := flatBars(150, func(i int) float64 { return 500 + float64(i%7)*10 })

	results := Evaluate(listing, bars)
	byID := make(map[string]models.ScenarioResult, len(results))
	for _, r := range results {
		byID[r.ScenarioID] = r
	}
	for _, off := range BaseOffsets() {
		high := byID[scenarioID(off, "high")].EntryPrice
		low := byID[scenarioID(off, "low")].EntryPrice
		mid := byID[scenarioID(off, "mid")].EntryPrice
		assert.Equal(t, (high+low)/2, mid, "offset %d", off)
	}
}

func TestEvaluateLiquidation(t *testing.T) {
	// Entry window flat at 1000, exit bar spikes to 1900: a 10x-leveraged
	// short at -90% is wiped out.
	bars := flatBars(25, func(i int) float64 {
		if i == 24 {
			return 1900
		}
		return 1000
	})

	results := Evaluate(listing, bars)
	require.Len(t, results, 3, "only offset 0 has a full window")
	for _, r := range results {
		assert.Equal(t, -90.0, r.ReturnPct)
		assert.True(t, r.Liquidated, "scenario %s", r.ScenarioID)
	}
}

func TestEvaluateSkipsMissingData(t *testing.T) {
	assert.Empty(t, Evaluate(listing, nil))

	// 30 bars: offset 0 evaluates, offset 12 lacks its exit anchor at 36h.
	bars := flatBars(30, func(i int) float64 { return 100 })
	results := Evaluate(listing, bars)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Contains(t, []string{"h0_high", "h0_mid", "h0_low"}, r.ScenarioID)
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	bars := flatBars(150, func(i int) float64 { return 300 + float64(i%11) })
	first := Evaluate(listing, bars)
	second := Evaluate(listing, bars)
	assert.Equal(t, first, second)
}

func TestAggregatorFoldIsOrderIndependent(t *testing.T) {
	returns := []float64{1.5, -2.25, 7.0, 0.0, -91.5, 3.33}

	forward := NewAggregator()
	for _, r := range returns {
		forward.Add("h0_high", r)
	}
	backward := NewAggregator()
	for i := len(returns) - 1; i >= 0; i-- {
		backward.Add("h0_high", returns[i])
	}

	assert.Equal(t, forward.Summaries(), backward.Summaries())
}

func TestAggregatorSummaries(t *testing.T) {
	agg := NewAggregator()
	agg.Add("h0_high", 1.0)
	agg.Add("h0_high", 2.0)
	agg.Add("h0_high", -3.0)

	summaries := agg.Summaries()
	require.Len(t, summaries, 15)

	var got models.ScenarioSummary
	for _, s := range summaries {
		if s.ScenarioID == "h0_high" {
			got = s
			continue
		}
		// Untouched scenarios still appear, zeroed.
		assert.Equal(t, 0, s.Samples, "scenario %s", s.ScenarioID)
		assert.Equal(t, 0.0, s.MeanReturn, "scenario %s", s.ScenarioID)
	}

	assert.Equal(t, 3, got.Samples)
	assert.Equal(t, 0.0, got.MeanReturn)
	assert.Equal(t, 0.6667, got.SuccessRate)
}
