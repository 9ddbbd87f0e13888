// Package unparsed keeps finance-looking messages that no parser understood, so new
// templates can be added later.
package unparsed

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/observability"
)

const (
	filePrefix = "unparsed_finance_sms_"
	fileSuffix = ".log"
	dateLayout = "2006_01_02"
	separator  = "================================================================================"
	entryMark  = "TIMESTAMP: "
)

var (
	financePattern = regexp.MustCompile(`(?i)` + strings.Join([]string{
		`\brs\.?\s*\d+`, `₹\s*\d+`, `\$\s*\d+`, `\binr\b`, `\busd\b`,
		`\brupees?\b`, `\bamount\b`, `\bbalance\b`,
		`\bdebit(ed)?\b`, `\bcredit(ed)?\b`, `\bspent\b`, `\bpaid\b`,
		`\btransaction\b`, `\btransfer(red)?\b`, `\bpayment\b`,
		`\bwithdrawn?\b`, `\bdeposit(ed)?\b`, `\bpurchase\b`, `\brefund\b`,
		`\bcashback\b`, `\brecharge\b`, `\bbill\b`,
		`\bbank\b`, `\bcard\b`, `\baccount\b`, `\ba/c\b`, `\bwallet\b`,
		`\bupi\b`, `\bneft\b`, `\brtgs\b`, `\bimps\b`, `\batm\b`,
		`\bpaytm\b`, `\bphonepe\b`, `\bgooglepay\b`, `\bgpay\b`,
		`\bamazonpay\b`, `\bmobikwik\b`, `\bfreecharge\b`,
		`\bhdfc\b`, `\bicici\b`, `\bsbi\b`, `\baxis\b`, `\bkotak\b`,
		`\byes bank\b`, `\bindusind\b`, `\bpnb\b`, `\biob\b`, `\bcanara\b`,
		`\bfederal\b`, `\bidfc\b`, `\bamex\b`, `\bamerican express\b`,
		`\bsuccessful(ly)?\b`, `\bfailed\b`, `\bdeclined\b`, `\bapproved\b`,
		`\bcompleted\b`, `\bprocessed\b`,
	}, "|"))

	// Rotated files carry a _HHMMSS suffix after the date.
	fileDatePattern = regexp.MustCompile(`^` + filePrefix + `(\d{4}_\d{2}_\d{2})(?:_\d{6})?` + regexp.QuoteMeta(fileSuffix) + `$`)
)

// IsFinanceRelated reports whether text looks like it is about money.
func IsFinanceRelated(text string) bool {
	return text != "" && financePattern.MatchString(text)
}

type Logger struct {
	dir     string
	maxSize int64
	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time

	mu sync.Mutex
}

type Option func(*Logger)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) { l.now = now }
}

// NewLogger creates dir if needed. Files grow up to maxSizeMB before being rotated.
func NewLogger(dir string, maxSizeMB int, logger *zap.Logger, metrics *observability.Metrics, opts ...Option) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating unparsed log dir: %w", err)
	}

	l := &Logger{
		dir:     dir,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Log appends raw to today's file when it looks finance related. Failures are logged, never returned.
func (l *Logger) Log(raw, source string) {
	if !IsFinanceRelated(raw) {
		return
	}

	if source == "" {
		source = "Unknown"
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	path := filepath.Join(l.dir, filePrefix+now.Format(dateLayout)+fileSuffix)

	l.rotateIfFull(path, now)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		l.logger.Error("opening unparsed log", zap.String("path", path), zap.Error(err))
		return
	}
	defer f.Close()

	entry := fmt.Sprintf("\n%s\n%s%s\nSOURCE: %s\nSMS CONTENT:\n%s\n%s\n\n",
		separator, entryMark, now.Format(time.DateTime), source, raw, separator)

	if _, err := f.WriteString(entry); err != nil {
		l.logger.Error("writing unparsed log", zap.String("path", path), zap.Error(err))
		return
	}

	l.metrics.IncrUnparsed()
	l.logger.Debug("logged unparsed message", zap.String("file", filepath.Base(path)))
}

func (l *Logger) rotateIfFull(path string, now time.Time) {
	info, err := os.Stat(path)
	if err != nil || info.Size() < l.maxSize {
		return
	}

	rotated := strings.TrimSuffix(path, fileSuffix) + "_" + now.Format("150405") + fileSuffix
	if err := os.Rename(path, rotated); err != nil {
		l.logger.Warn("rotating unparsed log", zap.String("path", path), zap.Error(err))
		return
	}

	l.logger.Debug("rotated unparsed log", zap.String("file", filepath.Base(rotated)))
}

type logFile struct {
	path string
	date time.Time
}

func (l *Logger) files() ([]logFile, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("reading unparsed log dir: %w", err)
	}

	var out []logFile

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		m := fileDatePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}

		date, err := time.ParseInLocation(dateLayout, m[1], l.now().Location())
		if err != nil {
			continue
		}

		out = append(out, logFile{path: filepath.Join(l.dir, e.Name()), date: date})
	}

	return out, nil
}

func (l *Logger) cutoff(days int) time.Time {
	now := l.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	return today.AddDate(0, 0, -days)
}

// RecentCount counts entries in files dated within the last days days, today included.
func (l *Logger) RecentCount(days int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	files, err := l.files()
	if err != nil {
		return 0, err
	}

	cutoff := l.cutoff(days - 1)
	count := 0

	for _, lf := range files {
		if lf.date.Before(cutoff) {
			continue
		}

		n, err := countEntries(lf.path)
		if err != nil {
			return 0, err
		}

		count += n
	}

	return count, nil
}

func countEntries(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		if strings.HasPrefix(sc.Text(), entryMark) {
			n++
		}
	}

	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	return n, nil
}

// Cleanup removes files dated more than daysToKeep days ago and returns how many were removed.
func (l *Logger) Cleanup(daysToKeep int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	files, err := l.files()
	if err != nil {
		return 0, err
	}

	cutoff := l.cutoff(daysToKeep)
	removed := 0

	for _, lf := range files {
		if !lf.date.Before(cutoff) {
			continue
		}

		if err := os.Remove(lf.path); err != nil {
			l.logger.Warn("removing old unparsed log", zap.String("path", lf.path), zap.Error(err))
			continue
		}

		removed++
	}

	return removed, nil
}
