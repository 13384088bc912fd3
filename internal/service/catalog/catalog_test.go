package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ListingPulse/internal/domain/models"
)

type fakeMarkets struct {
	assets []models.Asset
	err    error
}

func (f *fakeMarkets) ListMarkets(context.Context) ([]models.Asset, error) {
	return f.assets, f.err
}

func krwAssets(symbols ...string) []models.Asset {
	assets := make([]models.Asset, 0, len(symbols))
	for _, s := range symbols {
		assets = append(assets, models.Asset{Symbol: s, MarketID: "KRW-" + s})
	}
	return assets
}

func TestListAssetsOrdersByVolume(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "volumes.json")
	snapshot := `{"markets":[
		{"market":"KRW-BTC","volume24h":900},
		{"market":"KRW-ETH","volume24h":500},
		{"market":"KRW-XRP","volume24h":700}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(snapshot), 0o644))

	svc := New(&fakeMarkets{assets: krwAssets("ETH", "XRP", "BTC")}, path, nil)
	assets, err := svc.ListAssets(context.Background())
	require.NoError(t, err)

	got := make([]string, len(assets))
	for i, a := range assets {
		got[i] = a.Symbol
	}
	assert.Equal(t, []string{"BTC", "XRP", "ETH"}, got)
}

func TestListAssetsWithoutSnapshotKeepsExchangeOrder(t *testing.T) {
	svc := New(&fakeMarkets{assets: krwAssets("ETH", "XRP", "BTC")}, "", nil)
	assets, err := svc.ListAssets(context.Background())
	require.NoError(t, err)

	got := make([]string, len(assets))
	for i, a := range assets {
		got[i] = a.Symbol
	}
	assert.Equal(t, []string{"ETH", "XRP", "BTC"}, got)
}

func TestListAssetsMalformedSnapshotIsIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "volumes.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	svc := New(&fakeMarkets{assets: krwAssets("A", "B")}, path, nil)
	assets, err := svc.ListAssets(context.Background())
	require.NoError(t, err)
	assert.Len(t, assets, 2)
}
