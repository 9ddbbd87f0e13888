package smsimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/paisa/internal/encoding"
)

// ErrUnknownFormat is returned when no profile matches any header row.
var ErrUnknownFormat = errors.New("no matching SMS backup format found: expected android, imazing or generic columns")

var delimiters = []rune{',', ';', '\t'}

// receivedLayouts are tried in order for non-numeric date cells.
var receivedLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02-01-2006 15:04:05",
	"Jan 2, 2006 15:04:05",
	"2 Jan 2006 3:04:05 PM",
}

// IST is the zone backup timestamps without an offset are read in.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// Message is one incoming SMS from a backup file.
type Message struct {
	// Row is the 1-based CSV record number, counting preamble and header records.
	Row        int
	Sender     string
	Body       string
	ReceivedAt time.Time
}

// Read decodes a backup CSV, detects its format and returns the incoming messages in file order.
// Outgoing rows and rows with an empty body are skipped. An unreadable date leaves ReceivedAt zero.
func Read(r io.Reader) (*Profile, []Message, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, nil, fmt.Errorf("read backup: %w", err)
	}

	for _, comma := range delimiters {
		rows, err := readRows(data, comma)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		return profile, parseRows(profile, cols, rows[headerIdx+1:], headerIdx), nil
	}

	return nil, nil, ErrUnknownFormat
}

func readRows(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts messages using the matched profile.
// headerIdx is the 0-based record index of the header; rows are the records after it.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerIdx int) []Message {
	var msgs []Message

	for i, row := range rows {
		if p.TypeCol != "" && !p.incoming(cellValue(row, cols[p.TypeCol])) {
			continue
		}

		body := cellValue(row, cols[p.BodyCol])
		if body == "" {
			continue
		}

		var sender string
		if p.SenderCol != "" {
			sender = cellValue(row, cols[p.SenderCol])
		}

		msgs = append(msgs, Message{
			Row:        headerIdx + i + 2,
			Sender:     sender,
			Body:       body,
			ReceivedAt: parseReceived(cellValue(row, cols[p.DateCol])),
		})
	}

	return msgs
}

// parseReceived accepts epoch milliseconds or one of receivedLayouts.
func parseReceived(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).In(IST)
	}

	for _, layout := range receivedLayouts {
		if t, err := time.ParseInLocation(layout, s, IST); err == nil {
			return t
		}
	}

	return time.Time{}
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
