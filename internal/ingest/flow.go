package ingest

import "strings"

type Flow int

const (
	FlowUnknown Flow = iota
	FlowDebit
	FlowCredit
)

func (f Flow) String() string {
	switch f {
	case FlowDebit:
		return "debit"
	case FlowCredit:
		return "credit"
	default:
		return "unknown"
	}
}

var (
	creditPhrases = []string{"credited to", "received", "deposited"}
	debitPhrases  = []string{"debited", "spent", "sent from", "amt sent", "paid a bill", "rental payment"}
)

// ClassifyFlow scans for money-direction phrases. Credit wins when both kinds appear.
func ClassifyFlow(text string) Flow {
	lower := strings.ToLower(text)

	if containsAny(lower, creditPhrases) {
		return FlowCredit
	}

	if containsAny(lower, debitPhrases) {
		return FlowDebit
	}

	return FlowUnknown
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}

	return false
}
