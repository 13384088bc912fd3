package models

// Asset identifies one listed coin in the exchange catalog.
type Asset struct {
	Symbol     string `json:"symbol"`
	MarketID   string `json:"marketId"`
	Name       string `json:"name"`
	KoreanName string `json:"koreanName,omitempty"`
}

// CalendarEntry is one row of the listing calendar: when an asset first traded.
type CalendarEntry struct {
	Symbol      string `json:"symbol"`
	MarketID    string `json:"marketId"`
	Name        string `json:"name"`
	KoreanName  string `json:"koreanName,omitempty"`
	ListingDate string `json:"listingDate"`
}
