package parser

import (
	"regexp"
	"time"
)

// Rs. 120.00 spent from Pluxee Meal Card wallet, card no.xx5678 on 12-06-2025 13:05:44 at CAFE COFFEE DAY .
var pluxeePattern = regexp.MustCompile(
	`Rs\.\s*([\d,]+\.?\d*)\s*spent from Pluxee\s*(?:Meal\s*)?Card wallet, card no\.(?:xx|XX|\*\*)?(\d{4})\s*on\s*(\d{1,2}-\d{2}-\d{4})\s*(\d{2}:\d{2}:\d{2})\s*at\s*([^.]+?)\s*\.`)

// PluxeeWallet handles meal-card wallet spends.
type PluxeeWallet struct{}

func (PluxeeWallet) Name() string { return "pluxee_wallet" }

func (PluxeeWallet) Parse(text string) (Fields, bool) {
	m := pluxeePattern.FindStringSubmatch(text)
	if m == nil {
		return Fields{}, false
	}

	amount, ok := parseAmount(m[1])
	if !ok {
		return Fields{}, false
	}

	occurredAt, _ := parseTimestamp(m[3]+" "+m[4], time.Time{}, "2-01-2006 15:04:05")
	merchant := cleanMerchant(m[5])

	return Fields{
		BankName:     "Pluxee",
		AccountLast4: m[2],
		Amount:       amount,
		Currency:     DefaultCurrency,
		Merchant:     merchant,
		OccurredAt:   occurredAt,
		Description:  "Spent at " + merchant,
		Channel:      ChannelWallet,
	}, true
}
