package parser

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// parseAmount reads an Indian-formatted amount such as "2,475.94" or "1,10,000".
func parseAmount(s string) (decimal.NullDecimal, bool) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	clean = strings.TrimSuffix(clean, ".")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.NullDecimal{}, false
	}

	return decimal.NewNullDecimal(d.Round(2)), true
}

// parseTimestamp tries each layout in turn.
// Layouts without a year take the year from now, two-digit years land in 2000-2099,
// and layouts without a clock part yield midnight. A day that does not exist in the
// resolved year, such as 29-02 in 2025, is rejected rather than rolled forward.
func parseTimestamp(value string, now time.Time, layouts ...string) (time.Time, bool) {
	value = strings.Join(strings.Fields(value), " ")

	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}

		switch {
		case strings.Contains(layout, "2006"):
			return t, true
		case strings.Contains(layout, "06"):
			return withYear(t, 2000+t.Year()%100)
		default:
			return withYear(t, now.Year())
		}
	}

	return time.Time{}, false
}

func withYear(t time.Time, year int) (time.Time, bool) {
	moved := time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, t.Location())
	if moved.Month() != t.Month() || moved.Day() != t.Day() {
		return time.Time{}, false
	}

	return moved, true
}

func cleanMerchant(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
