package schedule

import (
	"time"

	"github.com/schoolmate/backend/core"
)

const dateKeyLayout = "2006-01-02"

// DateKey is a calendar date normalized to YYYY-MM-DD. It is the join key
// across every per-date map; lexicographic order matches chronological order.
type DateKey string

func NewDateKey(t time.Time) DateKey {
	return DateKey(t.Format(dateKeyLayout))
}

func ParseDateKey(s string) (DateKey, error) {
	t, err := time.Parse(dateKeyLayout, s)
	if err != nil {
		return "", err
	}
	return NewDateKey(t), nil
}

func (d DateKey) Time() (time.Time, error) {
	return time.Parse(dateKeyLayout, string(d))
}

// Memo is the timed note attached to a schedule entry. Start/End are
// wall-clock times in HH:MM and may be empty.
type Memo struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	Text  string `json:"text,omitempty"`
}

// Entry is one schedule item on a date: a title plus its timed memo.
type Entry struct {
	Title string `json:"title"`
	Memo  Memo   `json:"memo"`
}

// Period is a date-range schedule entry independent of the per-day lists.
type Period struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Start DateKey `json:"start"`
	End   DateKey `json:"end"`
	Color string  `json:"color,omitempty"`
}

// Contains reports whether the period's [Start, End] range covers d.
func (p Period) Contains(d DateKey) bool {
	return p.Start <= d && d <= p.End
}

// Holiday is an externally sourced public holiday; read-only, at most one
// per date.
type Holiday struct {
	Date DateKey `json:"date"`
	Name string  `json:"name"`
}

// AcademicEvent is an externally sourced school calendar entry; read-only,
// zero or more per date.
type AcademicEvent struct {
	Date  DateKey `json:"date"`
	Title string  `json:"title"`
}

// Event is the derived flattened calendar event: at most one per distinct
// title per date. This is the sole contract the dashboard consumes.
type Event struct {
	Date  DateKey `json:"date"`
	Title string  `json:"title"`
}

// DayView is the merged per-date view model rendered by the calendar.
type DayView struct {
	Date           DateKey  `json:"date"`
	Title          string   `json:"title"`
	Entries        []Entry  `json:"entries"`
	Color          string   `json:"color,omitempty"`
	Periods        []Period `json:"periods,omitempty"`
	PrimaryPeriod  *Period  `json:"primary_period,omitempty"`
	Holiday        string   `json:"holiday,omitempty"`
	AcademicEvents []string `json:"academic_events,omitempty"`
}

// UpcomingDay is one day of the dashboard's forward window.
type UpcomingDay struct {
	Date    DateKey `json:"date"`
	Weekday string  `json:"weekday"`
	Events  []Event `json:"events"`
}

// NewEntry contains information needed to add or edit a schedule entry.
type NewEntry struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	StartTime   string `json:"start_time" validate:"timeofday"`
	EndTime     string `json:"end_time" validate:"timeofday"`
	Color       string `json:"color"`
}

func (ne *NewEntry) Validate() error {
	ne.Title = core.CleanString(ne.Title)
	ne.Description = core.CleanString(ne.Description)
	ne.StartTime = core.CleanString(ne.StartTime)
	ne.EndTime = core.CleanString(ne.EndTime)
	return core.Validate.Struct(ne)
}

func (ne NewEntry) entry() Entry {
	return Entry{
		Title: ne.Title,
		Memo:  Memo{Start: ne.StartTime, End: ne.EndTime, Text: ne.Description},
	}
}

// NewPeriod contains information needed to define a period.
type NewPeriod struct {
	Label string `json:"label" validate:"required"`
	Start string `json:"start" validate:"required,datekey"`
	End   string `json:"end" validate:"required,datekey"`
	Color string `json:"color"`
}

func (np *NewPeriod) Validate() error {
	np.Label = core.CleanString(np.Label)
	if err := core.Validate.Struct(np); err != nil {
		return err
	}
	if np.End < np.Start {
		return core.NewValidationError(nil, core.FieldError{Field: "end", Error: "end must not be before start"})
	}
	return nil
}
