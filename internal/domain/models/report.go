package models

import "time"

// CoinListingAnalysis is one asset's identity, discovered listing date and the
// scenario results that were computable for it. Rebuilt wholesale each run.
type CoinListingAnalysis struct {
	Symbol      string           `json:"symbol"`
	MarketID    string           `json:"marketId"`
	Name        string           `json:"name"`
	KoreanName  string           `json:"koreanName,omitempty"`
	ListingDate string           `json:"listingDate"`
	Results     []ScenarioResult `json:"results"`
}

// Report is the unit of persistence and the unit exposed to consumers. A new
// Report fully replaces the previous one.
type Report struct {
	GeneratedAt    time.Time             `json:"generatedAt"`
	LookbackMonths int                   `json:"lookbackMonths"`
	AssetsAnalyzed int                   `json:"assetsAnalyzed"`
	Scenarios      []ScenarioDefinition  `json:"scenarioDefinitions"`
	Summaries      []ScenarioSummary     `json:"summaries"`
	Analyses       []CoinListingAnalysis `json:"analyses"`
}
