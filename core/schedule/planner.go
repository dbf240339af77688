package schedule

import (
	"errors"
	"sort"
	"strings"
)

var (
	// errors
	ErrEntryNotFound  = errors.New("schedule entry not found")
	ErrPeriodNotFound = errors.New("period not found")
)

// Planner holds one user's schedule state: the per-date entry lists, the
// per-date custom colors and the period list. It is pure state with no I/O;
// persistence and locking live above it.
type Planner struct {
	entries map[DateKey][]Entry
	colors  map[DateKey]string
	periods []Period
}

func NewPlanner() *Planner {
	return &Planner{
		entries: make(map[DateKey][]Entry),
		colors:  make(map[DateKey]string),
	}
}

// representativeTitle is the first-wins headline policy: a date's display
// title is its first entry's title, empty when the date has no entries.
// Deleting or reordering entry 0 therefore changes the headline even when
// other entries remain; this mirrors the source behavior and is intentional.
func representativeTitle(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}
	return entries[0].Title
}

func (p *Planner) AddEntry(date DateKey, e Entry) {
	p.entries[date] = append(p.entries[date], e)
}

func (p *Planner) UpdateEntry(date DateKey, index int, e Entry) error {
	entries := p.entries[date]
	if index < 0 || index >= len(entries) {
		return ErrEntryNotFound
	}
	entries[index] = e
	return nil
}

// DeleteEntry removes the entry at index. When the date's last entry goes,
// the date's keys are removed entirely so no empty residue is left behind.
func (p *Planner) DeleteEntry(date DateKey, index int) error {
	entries := p.entries[date]
	if index < 0 || index >= len(entries) {
		return ErrEntryNotFound
	}
	entries = append(entries[:index], entries[index+1:]...)
	if len(entries) == 0 {
		delete(p.entries, date)
		delete(p.colors, date)
		return nil
	}
	p.entries[date] = entries
	return nil
}

// WipeDate removes everything attached to the date: entries, color, and
// every period whose range contains it.
func (p *Planner) WipeDate(date DateKey) {
	delete(p.entries, date)
	delete(p.colors, date)

	kept := p.periods[:0]
	for _, per := range p.periods {
		if !per.Contains(date) {
			kept = append(kept, per)
		}
	}
	p.periods = kept
}

func (p *Planner) Title(date DateKey) string {
	return representativeTitle(p.entries[date])
}

func (p *Planner) Entries(date DateKey) []Entry {
	entries := p.entries[date]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

func (p *Planner) SetColor(date DateKey, color string) {
	if color == "" {
		delete(p.colors, date)
		return
	}
	p.colors[date] = color
}

func (p *Planner) Color(date DateKey) string {
	return p.colors[date]
}

func (p *Planner) AddPeriod(per Period) {
	p.periods = append(p.periods, per)
}

func (p *Planner) RemovePeriod(id string) error {
	for i, per := range p.periods {
		if per.ID == id {
			p.periods = append(p.periods[:i], p.periods[i+1:]...)
			return nil
		}
	}
	return ErrPeriodNotFound
}

func (p *Planner) Periods() []Period {
	out := make([]Period, len(p.periods))
	copy(out, p.periods)
	return out
}

// PeriodsOn returns all periods covering the date, in list order.
func (p *Planner) PeriodsOn(date DateKey) []Period {
	var out []Period
	for _, per := range p.periods {
		if per.Contains(date) {
			out = append(out, per)
		}
	}
	return out
}

// PrimaryPeriod returns the first period (by list order) covering the date:
// the same first-wins convention as titles.
func (p *Planner) PrimaryPeriod(date DateKey) *Period {
	for _, per := range p.periods {
		if per.Contains(date) {
			out := per
			return &out
		}
	}
	return nil
}

// Dates returns all dates with entries, sorted.
func (p *Planner) Dates() []DateKey {
	dates := make([]DateKey, 0, len(p.entries))
	for date := range p.entries {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })
	return dates
}

// Events rebuilds the flattened calendar event list from scratch:
// the representative title and every entry title per date, plus each
// period's label on its start date, trimmed, skipping blanks, deduplicated
// per (date, title). There is no incremental path; every mutation triggers a
// full rebuild.
func (p *Planner) Events() []Event {
	seen := make(map[DateKey]map[string]struct{})
	var events []Event

	add := func(date DateKey, title string) {
		title = strings.TrimSpace(title)
		if date == "" || title == "" {
			return
		}
		titles, ok := seen[date]
		if !ok {
			titles = make(map[string]struct{})
			seen[date] = titles
		}
		if _, dup := titles[title]; dup {
			return
		}
		titles[title] = struct{}{}
		events = append(events, Event{Date: date, Title: title})
	}

	for _, date := range p.Dates() {
		entries := p.entries[date]
		add(date, representativeTitle(entries))
		for _, e := range entries {
			add(date, e.Title)
		}
	}
	for _, per := range p.periods {
		add(per.Start, per.Label)
	}
	return events
}

// Day assembles the merged per-date view model from the planner's own state;
// holiday/academic overlays are merged in by the service.
func (p *Planner) Day(date DateKey) DayView {
	return DayView{
		Date:          date,
		Title:         p.Title(date),
		Entries:       p.Entries(date),
		Color:         p.Color(date),
		Periods:       p.PeriodsOn(date),
		PrimaryPeriod: p.PrimaryPeriod(date),
	}
}
