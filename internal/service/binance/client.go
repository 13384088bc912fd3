package binance

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"ListingPulse/internal/domain/models"
	"ListingPulse/internal/service/throttle"
	xhttp "ListingPulse/pkg/http"
)

const source = "binance"

// Client fetches hourly klines from a Binance-style REST API, paced by the
// shared throttled executor.
type Client struct {
	baseURL    string
	quoteAsset string
	httpc      *xhttp.Client
	exec       *throttle.Executor
}

// New creates a Binance client. Symbols are resolved as SYMBOL+quoteAsset
// (default USDT).
func New(baseURL string, httpc *xhttp.Client, exec *throttle.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		quoteAsset: "USDT",
		httpc:      httpc,
		exec:       exec,
	}
}

// FetchHourlyBars returns hourly bars in [startMs, endMs), ascending by start
// time. Binance serves klines ascending already; we sort defensively since the
// backtest engine binary-searches the series.
func (c *Client) FetchHourlyBars(ctx context.Context, symbol string, startMs, endMs int64) ([]models.PriceBar, error) {
	params := map[string][]string{
		"symbol":    {symbol + c.quoteAsset},
		"interval":  {"1h"},
		"startTime": {strconv.FormatInt(startMs, 10)},
		"endTime":   {strconv.FormatInt(endMs, 10)},
		"limit":     {"1000"},
	}

	rows, err := throttle.Execute(ctx, c.exec, source, func(ctx context.Context) ([][]interface{}, error) {
		var out [][]interface{}
		err := c.httpc.SendAndParse(ctx, &xhttp.RequestOptions{
			Method:      xhttp.MethodGet,
			URL:         c.baseURL + "/api/v3/klines",
			QueryParams: params,
		}, &out)
		return out, err
	})
	if err != nil {
		return nil, err
	}

	bars := make([]models.PriceBar, 0, len(rows))
	for _, row := range rows {
		bar, err := parseKline(row)
		if err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].StartMs < bars[j].StartMs })
	return bars, nil
}

// Kline rows are positional mixed-type arrays: open time is a number, prices
// come as strings: [1499040000000, "0.01634790", "0.80000000", ...].
func parseKline(row []interface{}) (models.PriceBar, error) {
	if len(row) < 5 {
		return models.PriceBar{}, fmt.Errorf("kline row too short: %d fields", len(row))
	}
	openTime, ok := row[0].(float64)
	if !ok {
		return models.PriceBar{}, fmt.Errorf("kline open time: unexpected type %T", row[0])
	}
	prices := make([]float64, 4)
	for i := 1; i <= 4; i++ {
		s, ok := row[i].(string)
		if !ok {
			return models.PriceBar{}, fmt.Errorf("kline field %d: unexpected type %T", i, row[i])
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return models.PriceBar{}, fmt.Errorf("kline field %d: %w", i, err)
		}
		prices[i-1] = v
	}
	return models.PriceBar{
		StartMs: int64(openTime),
		Open:    prices[0],
		High:    prices[1],
		Low:     prices[2],
		Close:   prices[3],
	}, nil
}
