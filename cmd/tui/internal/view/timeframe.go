package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/paisa/internal/transaction"
)

// Timeframe is a predefined or custom window of occurred_at dates.
type Timeframe int

const (
	TimeframeToday Timeframe = iota
	TimeframeThisWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeLast90Days
	TimeframeAll
	TimeframeCustom
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeToday:
		return "Today"
	case TimeframeThisWeek:
		return "This Week"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeLast90Days:
		return "Last 90 Days"
	case TimeframeAll:
		return "All Time"
	case TimeframeCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// Range returns the calendar days the timeframe covers relative to now.
// All and Custom return zero times.
func (t Timeframe) Range(now time.Time) (time.Time, time.Time) {
	switch t {
	case TimeframeToday:
		return now, now
	case TimeframeThisWeek:
		offset := int(now.Weekday())
		if offset == 0 {
			offset = 7
		}

		return now.AddDate(0, 0, -offset+1), now
	case TimeframeThisMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now
	case TimeframeLastMonth:
		start := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, -1)
	case TimeframeLast90Days:
		return now.AddDate(0, 0, -89), now
	}

	return time.Time{}, time.Time{}
}

// wholeDays widens a range to cover both end days completely. Transaction
// timestamps carry the bank's wall clock, so the bounds are built in UTC.
func wholeDays(start, end time.Time) (time.Time, time.Time) {
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC)
}

// TimeframeSelectedMsg is emitted once the user has picked a valid range.
// Start and End are zero when All is set.
type TimeframeSelectedMsg struct {
	Start time.Time
	End   time.Time
	All   bool
}

// Apply narrows filter to the selected range.
func (msg TimeframeSelectedMsg) Apply(filter *transaction.ListFilter) {
	if msg.All {
		filter.StartDate, filter.EndDate = nil, nil
		return
	}

	filter.StartDate, filter.EndDate = &msg.Start, &msg.End
}

const dateLayout = "2006-01-02"

type rangeFields struct {
	start string
	end   string
}

// TimeframePicker lets the user choose a Timeframe; Custom opens a two-date form.
type TimeframePicker struct {
	cursor   Timeframe
	minFrame Timeframe

	custom *huh.Form
	fields *rangeFields
}

// NewTimeframePicker creates a picker whose first option is minFrame.
func NewTimeframePicker(minFrame Timeframe) TimeframePicker {
	return TimeframePicker{cursor: minFrame, minFrame: minFrame}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

// Update emits TimeframeSelectedMsg once a valid range is chosen.
func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if m.custom != nil {
		return m.updateCustom(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > m.minFrame {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < TimeframeCustom {
			m.cursor++
		}
	case "enter":
		switch m.cursor {
		case TimeframeCustom:
			return m.openCustom()
		case TimeframeAll:
			return m, selected(TimeframeSelectedMsg{All: true})
		}

		start, end := wholeDays(m.cursor.Range(time.Now()))

		return m, selected(TimeframeSelectedMsg{Start: start, End: end})
	}

	return m, nil
}

func (m TimeframePicker) openCustom() (TimeframePicker, tea.Cmd) {
	m.fields = &rangeFields{}

	m.custom = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Start date").
				Placeholder(dateLayout).
				CharLimit(len(dateLayout)).
				Validate(validDate).
				Value(&m.fields.start),
			huh.NewInput().
				Title("End date").
				Placeholder(dateLayout).
				CharLimit(len(dateLayout)).
				Validate(validDate).
				Value(&m.fields.end),
		),
	).WithWidth(30).WithShowHelp(false)

	return m, m.custom.Init()
}

func (m TimeframePicker) updateCustom(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.custom = nil
		return m, nil
	}

	form, cmd := m.custom.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.custom = f
	}

	if m.custom.State != huh.StateCompleted {
		return m, cmd
	}

	// Both inputs passed validDate.
	start, _ := time.Parse(dateLayout, m.fields.start)
	end, _ := time.Parse(dateLayout, m.fields.end)

	if end.Before(start) {
		start, end = end, start
	}

	m.custom = nil
	start, end = wholeDays(start, end)

	return m, selected(TimeframeSelectedMsg{Start: start, End: end})
}

func (m TimeframePicker) View() string {
	if m.custom != nil {
		return "Custom range\n\n" + m.custom.View() + "\n(Esc to go back)"
	}

	var b strings.Builder
	b.WriteString("Select timeframe:\n\n")

	for tf := m.minFrame; tf <= TimeframeCustom; tf++ {
		if tf == m.cursor {
			fmt.Fprintf(&b, "> %s\n", activeStyle(tf.String()))
			continue
		}

		fmt.Fprintf(&b, "  %s\n", tf)
	}

	b.WriteString("\n(Enter to select, Esc to go back)")

	return b.String()
}

// IsSelecting reports whether the picker shows the option list rather than the custom form.
func (m TimeframePicker) IsSelecting() bool {
	return m.custom == nil
}

func selected(msg TimeframeSelectedMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func validDate(s string) error {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fmt.Errorf("use %s", dateLayout)
	}

	return nil
}
