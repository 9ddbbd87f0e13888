package parser

import (
	"regexp"
	"strings"
	"time"
)

const bankFederal = "Federal Bank"

var (
	// Rs.2194.00 debited from your A/c XX0214 on 08JUN2025 20:34:51
	federalNetBankingPattern = regexp.MustCompile(
		`Rs\.([\d,]+\.?\d*)\s*debited from your A/c XX(\d{4})\s*on\s*(\d{2}[A-Za-z]{3}\d{4})\s*(\d{2}:\d{2}:\d{2})`)

	// Rs 1.00 debited via UPI on 04-06-2025 12:17:05 to VPA someone@okaxis.Ref No 123
	federalUPIPattern = regexp.MustCompile(
		`Rs\s*([\d,]+\.?\d*)\s*debited via UPI on\s*(\d{2}-\d{2}-\d{4})\s*(\d{2}:\d{2}:\d{2})\s*to VPA\s*([^.]+?)\.Ref No`)
)

type FederalNetBanking struct{}

func (FederalNetBanking) Name() string { return "federal_netbanking" }

func (FederalNetBanking) Parse(text string) (Fields, bool) {
	m := federalNetBankingPattern.FindStringSubmatch(text)
	if m == nil {
		return Fields{}, false
	}

	amount, ok := parseAmount(m[1])
	if !ok {
		return Fields{}, false
	}

	occurredAt, _ := parseTimestamp(m[3]+" "+m[4], time.Time{}, "02Jan2006 15:04:05")

	return Fields{
		BankName:     bankFederal,
		AccountLast4: m[2],
		Amount:       amount,
		Currency:     DefaultCurrency,
		Merchant:     "FEDNET Transaction",
		OccurredAt:   occurredAt,
		Description:  "FEDNET Net Banking Debit",
		Channel:      ChannelNetBanking,
	}, true
}

// FederalUPI never names the debited account, so AccountLast4 stays empty.
type FederalUPI struct{}

func (FederalUPI) Name() string { return "federal_upi" }

func (FederalUPI) Parse(text string) (Fields, bool) {
	if !strings.Contains(text, bankFederal) {
		return Fields{}, false
	}

	m := federalUPIPattern.FindStringSubmatch(text)
	if m == nil {
		return Fields{}, false
	}

	amount, ok := parseAmount(m[1])
	if !ok {
		return Fields{}, false
	}

	occurredAt, _ := parseTimestamp(m[2]+" "+m[3], time.Time{}, "02-01-2006 15:04:05")
	vpa := strings.TrimSpace(m[4])

	return Fields{
		BankName:    bankFederal,
		Amount:      amount,
		Currency:    DefaultCurrency,
		Merchant:    vpa,
		OccurredAt:  occurredAt,
		Description: "UPI to " + vpa,
		Channel:     ChannelUPI,
	}, true
}
