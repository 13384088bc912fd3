package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sort"

	"ListingPulse/internal/domain/models"
	applogger "ListingPulse/pkg/logger"
)

// MarketLister is the slice of the exchange client the catalog needs.
type MarketLister interface {
	ListMarkets(ctx context.Context) ([]models.Asset, error)
}

// Service lists the assets to analyze, ordered by 24h trading volume
// descending when a pre-computed volume snapshot file is present. The snapshot
// is produced out of band; a missing or malformed file just means catalog
// order falls back to the exchange's own ordering.
type Service struct {
	markets      MarketLister
	snapshotPath string
	logger       *applogger.Logger
}

// New creates a catalog Service. snapshotPath may be empty.
func New(markets MarketLister, snapshotPath string, logger *applogger.Logger) *Service {
	return &Service{markets: markets, snapshotPath: snapshotPath, logger: logger}
}

type volumeSnapshot struct {
	Markets []struct {
		Market   string  `json:"market"`
		Volume24 float64 `json:"volume24h"`
	} `json:"markets"`
}

// ListAssets implements repository.AssetCatalog.
func (s *Service) ListAssets(ctx context.Context) ([]models.Asset, error) {
	assets, err := s.markets.ListMarkets(ctx)
	if err != nil {
		return nil, err
	}

	volumes := s.loadVolumes()
	if len(volumes) > 0 {
		sort.SliceStable(assets, func(i, j int) bool {
			return volumes[assets[i].MarketID] > volumes[assets[j].MarketID]
		})
	}
	return assets, nil
}

func (s *Service) loadVolumes() map[string]float64 {
	if s.snapshotPath == "" {
		return nil
	}
	b, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) && s.logger != nil {
			s.logger.Warn("volume snapshot unreadable", applogger.Error(err))
		}
		return nil
	}
	var snap volumeSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		if s.logger != nil {
			s.logger.Warn("volume snapshot malformed", applogger.Error(err))
		}
		return nil
	}
	volumes := make(map[string]float64, len(snap.Markets))
	for _, m := range snap.Markets {
		volumes[m.Market] = m.Volume24
	}
	return volumes
}
