package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ListingPulse/internal/domain/models"
	"ListingPulse/internal/service/discovery"
)

func newTestCalendarBuilder(cat *fakeCatalog, daily *fakeDaily) *CalendarBuilder {
	disc := discovery.New(daily, nil)
	return NewCalendarBuilder(cat, disc, nil, nil, 6, 30, 0)
}

func TestCalendarBuilderNewestFirst(t *testing.T) {
	cat := &fakeCatalog{assets: []models.Asset{
		{Symbol: "A", MarketID: "KRW-A"},
		{Symbol: "B", MarketID: "KRW-B"},
		{Symbol: "OLD", MarketID: "KRW-OLD"},
	}}
	daily := &fakeDaily{listingDates: map[string]string{
		"KRW-A":   dateDaysAgo(45),
		"KRW-B":   dateDaysAgo(5),
		"KRW-OLD": dateDaysAgo(700),
	}}

	entries, err := newTestCalendarBuilder(cat, daily).Build(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 2, "listings outside the lookback window are excluded")
	assert.Equal(t, "B", entries[0].Symbol)
	assert.Equal(t, "A", entries[1].Symbol)
	assert.Greater(t, entries[0].ListingDate, entries[1].ListingDate)
}

func TestCalendarBuilderEmptyCatalog(t *testing.T) {
	_, err := newTestCalendarBuilder(&fakeCatalog{}, &fakeDaily{}).Build(context.Background())
	require.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestCalendarBuilderSkipsUndiscoverableAssets(t *testing.T) {
	cat := &fakeCatalog{assets: []models.Asset{
		{Symbol: "A", MarketID: "KRW-A"},
		{Symbol: "GHOST", MarketID: "KRW-GHOST"},
	}}
	daily := &fakeDaily{listingDates: map[string]string{
		"KRW-A": dateDaysAgo(5),
	}}

	entries, err := newTestCalendarBuilder(cat, daily).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "A", entries[0].Symbol)
}
