package models

// PriceProfile selects which price within an evaluation window is used as the
// simulated short entry.
type PriceProfile string

const (
	ProfileHigh PriceProfile = "HIGH"
	ProfileMid  PriceProfile = "MID"
	ProfileLow  PriceProfile = "LOW"
)

// ScenarioDefinition describes one backtest variant: enter N hours after
// listing at the given price profile, hold 24h, exit at close.
type ScenarioDefinition struct {
	ID               string       `json:"id"`
	Label            string       `json:"label"`
	Description      string       `json:"description"`
	EntryOffsetHours int          `json:"entryOffsetHours"`
	Profile          PriceProfile `json:"priceProfile"`
}

// ScenarioResult is one evaluated scenario for one asset. Return sign models a
// short position: positive means the price fell after entry.
type ScenarioResult struct {
	ScenarioID string  `json:"scenarioId"`
	EntryDate  string  `json:"entryDate"`
	EntryPrice float64 `json:"entryPrice"`
	ExitPrice  float64 `json:"exitPrice"`
	ReturnPct  float64 `json:"returnPct"`
	Liquidated bool    `json:"liquidated"`
}

// ScenarioSummary is the cross-asset aggregate for one scenario definition.
type ScenarioSummary struct {
	ScenarioID  string  `json:"scenarioId"`
	Samples     int     `json:"samples"`
	MeanReturn  float64 `json:"meanReturn"`
	SuccessRate float64 `json:"successRate"`
}
