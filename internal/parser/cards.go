package parser

import (
	"regexp"
	"time"
)

var (
	// Alert: You've spent INR 2,067.98 on your AMEX card ** 11004 at LULU HYPERMA on 5 June 2025 at 08:36 PM IST.
	amexPattern = regexp.MustCompile(
		`Alert:\s*You've spent (\$|INR)\s*([\d,]+\.?\d*)\s*on your AMEX card\s+\*\*\s*(\d{4,5})\s*at\s*(.+?)\s*on\s*(\d{1,2}\s+[A-Za-z]+\s+\d{4})\s*at\s*(\d{2}:\d{2}\s+(?:AM|PM))`)

	// Rs.315.00 spent on your SBI Credit Card ending 4609 at dummyBrand on 31/05/25.
	sbiPattern = regexp.MustCompile(
		`Rs\.([\d,]+\.?\d*)\s*spent on your SBI Credit Card ending (\d{4})\s*at\s*(.+?)\s*on\s*(\d{2}/\d{2}/\d{2})`)

	// INR 862.00 spent using ICICI Bank Card XX7007 on 04-Jun-25 on IND*Amazon.in. Avl Limit: ...
	// The merchant may contain dots, so it ends at a dot before whitespace, the end, or "Avl" glued on.
	iciciPattern = regexp.MustCompile(
		`(INR|Rs\.?)\s*([\d,]+\.?\d*)\s*spent (?:on|using) ICICI Bank Card (?:XX|\*\*)(\d{4})\s*on\s*(\d{1,2}-[A-Za-z]{3,9}-\d{2})\s*(?:on|at)\s*(.+?)\.(?:\s|$|Avb?l\b)`)

	// INR 1,110.00 spent on your IDFC FIRST Bank Credit Card ending XX4609 at dummyBrand on 31 May 2025 at 05:17 PM
	idfcPattern = regexp.MustCompile(
		`INR\s*([\d,]+\.?\d*)\s*spent on your IDFC FIRST Bank Credit Card ending (?:XX|\*\*)(\d{4})\s*at\s*(.+?)\s*on\s*(\d{2}\s+[A-Za-z]{3}\s+\d{4})\s*at\s*(\d{2}:\d{2}\s+(?:AM|PM))`)

	// Spent / Card no. XX1234 / INR 450.00 / 03-06-25 14:22:10 / SWIGGY
	axisPattern = regexp.MustCompile(
		`(?i)Spent\s+Card\s+no\.\s+XX(\d{4})\s+INR\s+([\d,]+(?:\.\d+)?)\s+(\d{2}-\d{2}-\d{2})\s+(\d{2}:\d{2}:\d{2})\s+([A-Z0-9 &.\-]+)`)

	// You have paid a bill for Rs. 999.00 at AIRTEL on card ending XX4321
	oneCardPattern = regexp.MustCompile(
		`(?i)(?:paid a bill|made a rental payment)\s+for\s+Rs\.?\s*([\d,]+\.\d{2})\s+(?:on|at)\s+(.+?)\s+on\s+card\s+ending\s+XX(\d{4})`)
)

type AMEXCard struct{}

func (AMEXCard) Name() string { return "amex_card" }

func (AMEXCard) Parse(text string) (Fields, bool) {
	m := amexPattern.FindStringSubmatch(text)
	if m == nil {
		return Fields{}, false
	}

	amount, ok := parseAmount(m[2])
	if !ok {
		return Fields{}, false
	}

	currency := DefaultCurrency
	if m[1] == "$" {
		currency = "USD"
	}

	card := m[3]
	occurredAt, _ := parseTimestamp(m[5]+" "+m[6], time.Time{}, "2 January 2006 03:04 PM", "2 Jan 2006 03:04 PM")
	merchant := cleanMerchant(m[4])

	return Fields{
		BankName:     "AMEX",
		AccountLast4: card[len(card)-4:],
		Amount:       amount,
		Currency:     currency,
		Merchant:     merchant,
		OccurredAt:   occurredAt,
		Description:  "Spent at " + merchant,
		Channel:      ChannelCard,
	}, true
}

type SBICard struct{}

func (SBICard) Name() string { return "sbi_card" }

func (SBICard) Parse(text string) (Fields, bool) {
	m := sbiPattern.FindStringSubmatch(text)
	if m == nil {
		return Fields{}, false
	}

	amount, ok := parseAmount(m[1])
	if !ok {
		return Fields{}, false
	}

	occurredAt, _ := parseTimestamp(m[4], time.Time{}, "02/01/06")
	merchant := cleanMerchant(m[3])

	return Fields{
		BankName:     "SBI",
		AccountLast4: m[2],
		Amount:       amount,
		Currency:     DefaultCurrency,
		Merchant:     merchant,
		OccurredAt:   occurredAt,
		Description:  "Spent at " + merchant,
		Channel:      ChannelCard,
	}, true
}

type ICICICard struct{}

func (ICICICard) Name() string { return "icici_card" }

func (ICICICard) Parse(text string) (Fields, bool) {
	m := iciciPattern.FindStringSubmatch(text)
	if m == nil {
		return Fields{}, false
	}

	amount, ok := parseAmount(m[2])
	if !ok {
		return Fields{}, false
	}

	occurredAt, _ := parseTimestamp(m[4], time.Time{}, "2-Jan-06", "2-January-06")
	merchant := cleanMerchant(m[5])

	return Fields{
		BankName:     "ICICI Bank",
		AccountLast4: m[3],
		Amount:       amount,
		Currency:     DefaultCurrency,
		Merchant:     merchant,
		OccurredAt:   occurredAt,
		Description:  "Spent at " + merchant,
		Channel:      ChannelCard,
	}, true
}

type IDFCCard struct{}

func (IDFCCard) Name() string { return "idfc_card" }

func (IDFCCard) Parse(text string) (Fields, bool) {
	m := idfcPattern.FindStringSubmatch(text)
	if m == nil {
		return Fields{}, false
	}

	amount, ok := parseAmount(m[1])
	if !ok {
		return Fields{}, false
	}

	occurredAt, _ := parseTimestamp(m[4]+" "+m[5], time.Time{}, "02 Jan 2006 03:04 PM")
	merchant := cleanMerchant(m[3])

	return Fields{
		BankName:     "IDFC FIRST Bank",
		AccountLast4: m[2],
		Amount:       amount,
		Currency:     DefaultCurrency,
		Merchant:     merchant,
		OccurredAt:   occurredAt,
		Description:  "Spent at " + merchant,
		Channel:      ChannelCard,
	}, true
}

type AxisCard struct{}

func (AxisCard) Name() string { return "axis_card" }

func (AxisCard) Parse(text string) (Fields, bool) {
	m := axisPattern.FindStringSubmatch(text)
	if m == nil {
		return Fields{}, false
	}

	amount, ok := parseAmount(m[2])
	if !ok {
		return Fields{}, false
	}

	occurredAt, _ := parseTimestamp(m[3]+" "+m[4], time.Time{}, "02-01-06 15:04:05")
	merchant := cleanMerchant(m[5])

	return Fields{
		BankName:     "Axis Bank",
		AccountLast4: m[1],
		Amount:       amount,
		Currency:     DefaultCurrency,
		Merchant:     merchant,
		OccurredAt:   occurredAt,
		Description:  "Spent at " + merchant,
		Channel:      ChannelCard,
	}, true
}

// OneCard bill payment alerts carry no timestamp. The result is returned anyway and
// rejected downstream because it cannot be hashed stably.
type OneCard struct{}

func (OneCard) Name() string { return "onecard" }

func (OneCard) Parse(text string) (Fields, bool) {
	m := oneCardPattern.FindStringSubmatch(text)
	if m == nil {
		return Fields{}, false
	}

	amount, ok := parseAmount(m[1])
	if !ok {
		return Fields{}, false
	}

	merchant := cleanMerchant(m[2])

	return Fields{
		BankName:     "OneCard",
		AccountLast4: m[3],
		Amount:       amount,
		Currency:     DefaultCurrency,
		Merchant:     merchant,
		Description:  "Spent at " + merchant,
		Channel:      ChannelCard,
	}, true
}
