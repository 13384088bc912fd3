package backtest

import (
	"fmt"
	"math"
	"sort"
	"time"

	"ListingPulse/internal/domain/models"
	"ListingPulse/pkg/util"
)

// Evaluate runs every grid scenario for one asset. bars must be the hourly
// series covering the listing time through the longest horizon plus hold; it
// must be sorted ascending by start time (callers fetch it that way).
//
// Missing data is policy, not error: an absent entry or exit anchor, or an
// empty evaluation window, skips that base offset silently. Return sign models
// a short position, so a falling price yields a positive return.
func Evaluate(listing time.Time, bars []models.PriceBar) []models.ScenarioResult {
	if len(bars) == 0 {
		return nil
	}

	results := make([]models.ScenarioResult, 0, len(grid))
	for _, off := range baseOffsets {
		entryTime := listing.Add(time.Duration(off) * time.Hour)
		exitTime := entryTime.Add(HoldHours * time.Hour)

		entryIdx := searchBar(bars, entryTime.UnixMilli())
		exitIdx := searchBar(bars, exitTime.UnixMilli())
		if entryIdx == len(bars) || exitIdx == len(bars) {
			continue
		}

		// Evaluation window: entryTime <= start < exitTime.
		window := bars[entryIdx:exitIdx]
		if len(window) == 0 {
			continue
		}

		high := math.Inf(-1)
		low := math.Inf(1)
		for _, b := range window {
			high = math.Max(high, b.High)
			low = math.Min(low, b.Low)
		}
		mid := (high + low) / 2
		exitPrice := bars[exitIdx].Close
		entryDate := util.DateKST(entryTime)

		for _, p := range profiles {
			var entryPrice float64
			switch p {
			case models.ProfileHigh:
				entryPrice = high
			case models.ProfileMid:
				entryPrice = mid
			default:
				entryPrice = low
			}
			if math.IsInf(entryPrice, 0) || math.IsNaN(entryPrice) || entryPrice == 0 {
				continue
			}

			ret := round2((entryPrice - exitPrice) / entryPrice * 100)
			results = append(results, models.ScenarioResult{
				ScenarioID: fmt.Sprintf("h%d_%s", off, lowerProfile(p)),
				EntryDate:  entryDate,
				EntryPrice: entryPrice,
				ExitPrice:  exitPrice,
				ReturnPct:  ret,
				Liquidated: ret <= -90,
			})
		}
	}
	return results
}

// searchBar returns the index of the first bar with start >= ms, or len(bars).
func searchBar(bars []models.PriceBar, ms int64) int {
	return sort.Search(len(bars), func(i int) bool { return bars[i].StartMs >= ms })
}

func lowerProfile(p models.PriceProfile) string {
	switch p {
	case models.ProfileHigh:
		return "high"
	case models.ProfileMid:
		return "mid"
	default:
		return "low"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Aggregator folds scenario returns into per-scenario summaries in one
// streaming pass. The fold is commutative; order of Add calls does not affect
// the summaries, but output follows canonical grid order.
type Aggregator struct {
	buckets map[string]*bucket
}

type bucket struct {
	n    int
	sum  float64
	wins int
}

// NewAggregator creates an empty aggregator covering the full grid.
func NewAggregator() *Aggregator {
	return &Aggregator{buckets: make(map[string]*bucket, len(grid))}
}

// Add folds one result's return into its scenario's running aggregate.
func (a *Aggregator) Add(scenarioID string, returnPct float64) {
	b, ok := a.buckets[scenarioID]
	if !ok {
		b = &bucket{}
		a.buckets[scenarioID] = b
	}
	b.n++
	b.sum += returnPct
	if returnPct > 0 {
		b.wins++
	}
}

// Summaries returns one summary per grid scenario in canonical order.
// Scenarios with no samples report zeroes.
func (a *Aggregator) Summaries() []models.ScenarioSummary {
	out := make([]models.ScenarioSummary, 0, len(grid))
	for _, def := range grid {
		s := models.ScenarioSummary{ScenarioID: def.ID}
		if b, ok := a.buckets[def.ID]; ok && b.n > 0 {
			s.Samples = b.n
			s.MeanReturn = round2(b.sum / float64(b.n))
			s.SuccessRate = math.Round(float64(b.wins)/float64(b.n)*10000) / 10000
		}
		out = append(out, s)
	}
	return out
}
