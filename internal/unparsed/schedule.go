package unparsed

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// recentWindowDays is the window reported by the unparsed_recent gauge.
const recentWindowDays = 7

// Schedule registers the retention job on c. Each run removes files older than retentionDays
// and refreshes the recent-entries gauge.
func (l *Logger) Schedule(c *cron.Cron, spec string, retentionDays int) error {
	if _, err := c.AddFunc(spec, func() { l.maintain(retentionDays) }); err != nil {
		return fmt.Errorf("scheduling unparsed log cleanup: %w", err)
	}

	return nil
}

func (l *Logger) maintain(retentionDays int) {
	removed, err := l.Cleanup(retentionDays)
	if err != nil {
		l.logger.Error("unparsed log cleanup failed", zap.Error(err))
	} else if removed > 0 {
		l.logger.Info("removed old unparsed logs", zap.Int("files", removed))
	}

	l.RefreshGauge()
}

// RefreshGauge recomputes the number of entries logged in the recent window.
func (l *Logger) RefreshGauge() {
	n, err := l.RecentCount(recentWindowDays)
	if err != nil {
		l.logger.Warn("counting recent unparsed messages", zap.Error(err))
		return
	}

	l.metrics.SetUnparsedRecent(n)
}
