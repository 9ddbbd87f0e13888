package smsimport

// Profile describes the column layout of one SMS backup CSV format.
// Adding a new format is just adding a new Profile to the profiles slice.
type Profile struct {
	Name      string
	BodyCol   string
	SenderCol string
	DateCol   string
	// TypeCol is optional. When set, only rows whose value is in Incoming are imported.
	TypeCol  string
	Incoming []string
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.BodyCol, p.DateCol}

	if p.SenderCol != "" {
		cols = append(cols, p.SenderCol)
	}

	if p.TypeCol != "" {
		cols = append(cols, p.TypeCol)
	}

	return cols
}

func (p Profile) incoming(value string) bool {
	if p.TypeCol == "" {
		return true
	}

	for _, v := range p.Incoming {
		if v == value {
			return true
		}
	}

	return false
}

// profiles is the ordered list of backup formats to try during auto-detection.
// More specific profiles should come first to avoid false matches.
var profiles = []Profile{
	{
		// SMS Backup & Restore. type 1 is the inbox, date is epoch milliseconds.
		Name:      "android",
		BodyCol:   "body",
		SenderCol: "address",
		DateCol:   "date",
		TypeCol:   "type",
		Incoming:  []string{"1"},
	},
	{
		Name:      "imazing",
		BodyCol:   "Text",
		SenderCol: "Sender ID",
		DateCol:   "Message Date",
		TypeCol:   "Type",
		Incoming:  []string{"Incoming"},
	},
	{
		Name:      "generic",
		BodyCol:   "message",
		SenderCol: "sender",
		DateCol:   "received_at",
	},
}
