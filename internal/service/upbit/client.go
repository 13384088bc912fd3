package upbit

import (
	"context"
	"strconv"
	"strings"
	"time"

	"ListingPulse/internal/domain/models"
	"ListingPulse/internal/service/throttle"
	xhttp "ListingPulse/pkg/http"
	"ListingPulse/pkg/util"
)

const source = "upbit"

// Client talks to the Upbit public REST API. Every request goes through the
// shared throttled executor; Upbit's quota is per-credential, not per-caller.
type Client struct {
	baseURL string
	httpc   *xhttp.Client
	exec    *throttle.Executor
}

// New creates an Upbit client.
func New(baseURL string, httpc *xhttp.Client, exec *throttle.Executor) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
		exec:    exec,
	}
}

type marketInfo struct {
	Market      string `json:"market"`
	KoreanName  string `json:"korean_name"`
	EnglishName string `json:"english_name"`
}

// ListMarkets returns the KRW-quoted markets as catalog assets.
func (c *Client) ListMarkets(ctx context.Context) ([]models.Asset, error) {
	markets, err := throttle.Execute(ctx, c.exec, source, func(ctx context.Context) ([]marketInfo, error) {
		var out []marketInfo
		err := c.httpc.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodGet,
			URL:    c.baseURL + "/v1/market/all",
			QueryParams: map[string][]string{
				"isDetails": {"false"},
			},
		}, &out)
		return out, err
	})
	if err != nil {
		return nil, err
	}

	assets := make([]models.Asset, 0, len(markets))
	for _, m := range markets {
		if !strings.HasPrefix(m.Market, "KRW-") {
			continue
		}
		assets = append(assets, models.Asset{
			Symbol:     strings.TrimPrefix(m.Market, "KRW-"),
			MarketID:   m.Market,
			Name:       m.EnglishName,
			KoreanName: m.KoreanName,
		})
	}
	return assets, nil
}

type dayCandle struct {
	CandleDateTimeUTC string  `json:"candle_date_time_utc"`
	CandleDateTimeKST string  `json:"candle_date_time_kst"`
	OpeningPrice      float64 `json:"opening_price"`
	HighPrice         float64 `json:"high_price"`
	LowPrice          float64 `json:"low_price"`
	TradePrice        float64 `json:"trade_price"`
	Timestamp         int64   `json:"timestamp"`
}

// FetchDailyBars returns up to limit daily candles ending just before the
// cursor, newest first, as Upbit serves them. A zero cursor means "now".
func (c *Client) FetchDailyBars(ctx context.Context, marketID string, before time.Time, limit int) ([]models.PriceBar, error) {
	params := map[string][]string{
		"market": {marketID},
		"count":  {strconv.Itoa(limit)},
	}
	if !before.IsZero() {
		params["to"] = []string{before.UTC().Format("2006-01-02 15:04:05")}
	}

	candles, err := throttle.Execute(ctx, c.exec, source, func(ctx context.Context) ([]dayCandle, error) {
		var out []dayCandle
		err := c.httpc.SendAndParse(ctx, &xhttp.RequestOptions{
			Method:      xhttp.MethodGet,
			URL:         c.baseURL + "/v1/candles/days",
			QueryParams: params,
		}, &out)
		return out, err
	})
	if err != nil {
		return nil, err
	}

	bars := make([]models.PriceBar, 0, len(candles))
	for _, cd := range candles {
		start, ok := util.ParseTime(cd.CandleDateTimeUTC + "Z")
		if !ok {
			continue
		}
		date := cd.CandleDateTimeKST
		if len(date) >= 10 {
			date = date[:10]
		}
		bars = append(bars, models.PriceBar{
			StartMs: start.UnixMilli(),
			Open:    cd.OpeningPrice,
			High:    cd.HighPrice,
			Low:     cd.LowPrice,
			Close:   cd.TradePrice,
			Date:    date,
		})
	}
	return bars, nil
}
