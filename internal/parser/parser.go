// Package parser turns the text of a bank SMS into structured spend fields.
//
// Each bank template family has its own Parser. Default returns them in priority order;
// the first parser that recognizes a message wins. Adding a bank is adding a Parser to Default.
package parser

import (
	"time"

	"github.com/shopspring/decimal"
)

// Channel is the payment rail a message describes.
type Channel string

const (
	ChannelCard       Channel = "card"
	ChannelUPI        Channel = "upi"
	ChannelNetBanking Channel = "netbanking"
	ChannelWallet     Channel = "wallet"
)

const DefaultCurrency = "INR"

// Fields is what a parser extracts from one message.
type Fields struct {
	BankName string
	// AccountLast4 is empty when the template never names the account.
	AccountLast4 string
	Amount       decimal.NullDecimal
	Currency     string
	Merchant     string
	// OccurredAt is zero when the template carries no timestamp.
	OccurredAt  time.Time
	Description string
	Channel     Channel
}

// Parser recognizes one template family. Parse returns false for text it does not recognize.
type Parser interface {
	Name() string
	Parse(text string) (Fields, bool)
}

// Default returns every known parser in priority order.
// now supplies the year for templates that omit it.
func Default(now func() time.Time) []Parser {
	if now == nil {
		now = time.Now
	}

	return []Parser{
		HDFCCard{},
		HDFCUPI{Now: now},
		FederalNetBanking{},
		FederalUPI{},
		AMEXCard{},
		SBICard{},
		ICICICard{},
		IDFCCard{},
		AxisCard{},
		PluxeeWallet{},
		OneCard{},
	}
}

// Match runs parsers in order and returns the first result along with the parser's name.
func Match(parsers []Parser, text string) (Fields, string, bool) {
	for _, p := range parsers {
		if f, ok := p.Parse(text); ok {
			return f, p.Name(), true
		}
	}

	return Fields{}, "", false
}
