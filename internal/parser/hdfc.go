package parser

import (
	"regexp"
	"time"
)

const bankHDFC = "HDFC Bank"

var (
	// Spent Rs.2,475.94 On HDFC Bank Card 2568 At PARAGON On 2025-06-07:19:56:35
	hdfcCardPattern = regexp.MustCompile(
		`Spent Rs\.([\d,]+\.?\d*)\s*On HDFC Bank Card (\d{4})\s*At\s*(.+?)\s*On\s*(\d{4}-\d{2}-\d{2}):(\d{2}:\d{2}:\d{2})`)

	// Amt Sent Rs.500.00 / From HDFC Bank A/C *1675 / To SOME PAYEE / On 01-06
	hdfcUPIPattern = regexp.MustCompile(
		`Amt Sent Rs\.([\d,]+\.?\d*)\s+From HDFC Bank A/C \*(\d{4})\s+To (.+?)\s+On\s+(\d{2}-\d{2}(?:-\d{2}(?:\d{2})?)?)`)
)

type HDFCCard struct{}

func (HDFCCard) Name() string { return "hdfc_card" }

func (HDFCCard) Parse(text string) (Fields, bool) {
	m := hdfcCardPattern.FindStringSubmatch(text)
	if m == nil {
		return Fields{}, false
	}

	amount, ok := parseAmount(m[1])
	if !ok {
		return Fields{}, false
	}

	occurredAt, _ := parseTimestamp(m[4]+" "+m[5], time.Time{}, "2006-01-02 15:04:05")
	merchant := cleanMerchant(m[3])

	return Fields{
		BankName:     bankHDFC,
		AccountLast4: m[2],
		Amount:       amount,
		Currency:     DefaultCurrency,
		Merchant:     merchant,
		OccurredAt:   occurredAt,
		Description:  "Spent at " + merchant,
		Channel:      ChannelCard,
	}, true
}

// HDFCUPI handles UPI debits. The template carries a day and month only.
type HDFCUPI struct {
	Now func() time.Time
}

func (HDFCUPI) Name() string { return "hdfc_upi" }

func (p HDFCUPI) Parse(text string) (Fields, bool) {
	m := hdfcUPIPattern.FindStringSubmatch(text)
	if m == nil {
		return Fields{}, false
	}

	amount, ok := parseAmount(m[1])
	if !ok {
		return Fields{}, false
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	occurredAt, _ := parseTimestamp(m[4], now(), "02-01-2006", "02-01-06", "02-01")
	payee := cleanMerchant(m[3])

	return Fields{
		BankName:     bankHDFC,
		AccountLast4: m[2],
		Amount:       amount,
		Currency:     DefaultCurrency,
		Merchant:     payee,
		OccurredAt:   occurredAt,
		Description:  "UPI to " + payee,
		Channel:      ChannelUPI,
	}, true
}
