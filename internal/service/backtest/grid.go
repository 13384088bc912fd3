package backtest

import (
	"fmt"
	"strings"

	"ListingPulse/internal/domain/models"
)

// HoldHours is the fixed hold duration between scenario entry and exit.
const HoldHours = 24

var baseOffsets = []int{0, 12, 24, 72, 120}

var profiles = []models.PriceProfile{
	models.ProfileHigh,
	models.ProfileMid,
	models.ProfileLow,
}

// grid is built once at process start and never mutated afterwards.
var grid = buildGrid()

func buildGrid() []models.ScenarioDefinition {
	defs := make([]models.ScenarioDefinition, 0, len(baseOffsets)*len(profiles))
	for _, off := range baseOffsets {
		for _, p := range profiles {
			defs = append(defs, models.ScenarioDefinition{
				ID:               fmt.Sprintf("h%d_%s", off, strings.ToLower(string(p))),
				Label:            fmt.Sprintf("Listing +%dh / %s", off, p),
				Description:      describe(off, p),
				EntryOffsetHours: off,
				Profile:          p,
			})
		}
	}
	return defs
}

func describe(off int, p models.PriceProfile) string {
	var price string
	switch p {
	case models.ProfileHigh:
		price = "the highest price seen in the entry window"
	case models.ProfileMid:
		price = "the midpoint of the entry window's range"
	default:
		price = "the lowest price seen in the entry window"
	}
	return fmt.Sprintf("Short %dh after listing at %s, exit after %dh at close.", off, price, HoldHours)
}

// Definitions returns the full scenario grid in canonical order (offset
// ascending, HIGH/MID/LOW). Callers must treat the slice as read-only.
func Definitions() []models.ScenarioDefinition {
	return grid
}

// BaseOffsets returns the entry offsets, ascending. Read-only.
func BaseOffsets() []int {
	return baseOffsets
}

// MaxOffsetHours is the largest entry offset in the grid.
func MaxOffsetHours() int {
	return baseOffsets[len(baseOffsets)-1]
}
