package models

import "time"

// PriceBar is one interval's OHLC summary. StartMs is the bar's opening
// timestamp in millisecond epoch and is the ordering key. Date carries the
// exchange-local calendar date (KST) and is only populated on daily bars.
type PriceBar struct {
	StartMs int64   `json:"startMs"`
	Open    float64 `json:"open"`
	High    float64 `json:"high"`
	Low     float64 `json:"low"`
	Close   float64 `json:"close"`
	Date    string  `json:"date,omitempty"`
}

// Start returns the bar's opening time.
func (b PriceBar) Start() time.Time {
	return time.UnixMilli(b.StartMs)
}
