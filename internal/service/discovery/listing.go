package discovery

import (
	"context"
	"fmt"
	"time"

	drepo "ListingPulse/internal/domain/repository"
	applogger "ListingPulse/pkg/logger"
	"ListingPulse/pkg/util"
)

const (
	pageSize    = 200
	maxAttempts = 5
)

// Discoverer finds an asset's earliest traded date given only a "fetch N most
// recent daily bars ending at cursor" primitive, by walking pages backwards.
type Discoverer struct {
	daily  drepo.DailyBarSource
	logger *applogger.Logger
}

// New creates a Discoverer.
func New(daily drepo.DailyBarSource, logger *applogger.Logger) *Discoverer {
	return &Discoverer{daily: daily, logger: logger}
}

// ListingDate returns the asset's listing date as midnight KST. A partial page
// (<200 bars) means the true earliest bar was reached; a full page moves the
// cursor one day before the oldest bar and tries again, up to 5 attempts.
//
// The exchange labels an asset's first daily bar with the day after trading
// actually opened, so the earliest bar's date is adjusted back one calendar
// day. ok is false when the market has no data at all.
func (d *Discoverer) ListingDate(ctx context.Context, marketID string) (t time.Time, ok bool, err error) {
	var cursor time.Time
	var earliest string

	for attempt := 0; attempt < maxAttempts; attempt++ {
		bars, err := d.daily.FetchDailyBars(ctx, marketID, cursor, pageSize)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("daily bars %s: %w", marketID, err)
		}
		if len(bars) == 0 {
			break
		}

		// Bars arrive newest first; the oldest is last.
		oldest := bars[len(bars)-1]
		earliest = oldest.Date
		if earliest == "" {
			earliest = util.DateKST(oldest.Start())
		}

		if len(bars) < pageSize {
			break
		}

		prev, okDate := util.ParseDateKST(earliest)
		if !okDate {
			return time.Time{}, false, fmt.Errorf("daily bars %s: bad bar date %q", marketID, earliest)
		}
		cursor = prev.AddDate(0, 0, -1)

		if d.logger != nil {
			d.logger.Debug("listing discovery paging back",
				applogger.String("market", marketID),
				applogger.String("oldest", earliest),
				applogger.Int("attempt", attempt+1),
			)
		}
	}

	if earliest == "" {
		return time.Time{}, false, nil
	}

	day, okDate := util.ParseDateKST(earliest)
	if !okDate {
		return time.Time{}, false, fmt.Errorf("daily bars %s: bad bar date %q", marketID, earliest)
	}
	return day.AddDate(0, 0, -1), true, nil
}
