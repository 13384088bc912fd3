package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ListingPulse/internal/service/throttle"
	xhttp "ListingPulse/pkg/http"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	exec := throttle.New(time.Millisecond, throttle.WithBackoffBase(time.Millisecond))
	return New(srv.URL, xhttp.NewClient(), exec)
}

func TestFetchHourlyBars(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		assert.Equal(t, "ABCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "1h", r.URL.Query().Get("interval"))
		assert.Equal(t, "1717200000000", r.URL.Query().Get("startTime"))
		assert.Equal(t, "1717207200000", r.URL.Query().Get("endTime"))
		w.Header().Set("Content-Type", "application/json")
		// Klines mix numeric timestamps with string prices.
		_, _ = w.Write([]byte(`[
			[1717203600000,"2.00","2.50","1.80","2.10",1234,"x"],
			[1717200000000,"1.00","1.50","0.90","1.20",5678,"x"]
		]`))
	})

	bars, err := c.FetchHourlyBars(context.Background(), "ABC", 1717200000000, 1717207200000)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	// Out-of-order rows come back sorted ascending.
	assert.Equal(t, int64(1717200000000), bars[0].StartMs)
	assert.Equal(t, 1.0, bars[0].Open)
	assert.Equal(t, 1.5, bars[0].High)
	assert.Equal(t, 0.9, bars[0].Low)
	assert.Equal(t, 1.2, bars[0].Close)
	assert.Equal(t, int64(1717203600000), bars[1].StartMs)
}

func TestFetchHourlyBarsRejectsMalformedRow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[[1717200000000,"1.00"]]`))
	})

	_, err := c.FetchHourlyBars(context.Background(), "ABC", 0, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kline row too short")
}

func TestFetchHourlyBarsRetriesRateLimit(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`[[1717200000000,"1.00","1.50","0.90","1.20",0,"x"]]`))
	})

	bars, err := c.FetchHourlyBars(context.Background(), "ABC", 0, 1)
	require.NoError(t, err)
	assert.Len(t, bars, 1)
	assert.Equal(t, 2, calls)
}
