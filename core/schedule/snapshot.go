package schedule

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Storage keys. The snapshot keeps the source layout: one key per map, each
// value JSON-encoded, so the title/title-list/memo-list alignment remains
// visible at the storage boundary.
const (
	keyTitles       = "calendar.titles"     // map[DateKey]string
	keyTitleLists   = "calendar.titleLists" // map[DateKey][]string
	keyMemos        = "calendar.memos"      // map[DateKey][]Memo, index-aligned with titleLists
	keyColors       = "calendar.colors"     // map[DateKey]string
	keyPeriods      = "calendar.periods"    // []Period
	keyEvents       = "calendar.events"     // []Event, derived
	keyViewYear     = "calendar.viewYear"
	keyViewMonth    = "calendar.viewMonth"
	keySelectedDate = "calendar.selectedDate"
	keyContextDate  = "calendar.contextDate"
)

// Store is the key-value persistence boundary: the stand-in for the source's
// browser local storage. Get returns (nil, nil) when the key is absent.
type Store interface {
	Get(userID int, key string) ([]byte, error)
	Set(userID int, key string, value []byte) error
	Delete(userID int, key string) error
}

// Snapshot is one user's persisted calendar state in the storage layout.
type Snapshot struct {
	Titles     map[DateKey]string
	TitleLists map[DateKey][]string
	Memos      map[DateKey][]Memo
	Colors     map[DateKey]string
	Periods    []Period
	Events     []Event

	ViewYear     int
	ViewMonth    int
	SelectedDate DateKey
	ContextDate  DateKey
}

// LoadSnapshot reads every key for the user. A corrupt value leaves its map
// at the empty default; the error is swallowed, matching the source's
// tolerance for a damaged store.
func LoadSnapshot(store Store, userID int) (*Snapshot, error) {
	s := &Snapshot{
		Titles:     make(map[DateKey]string),
		TitleLists: make(map[DateKey][]string),
		Memos:      make(map[DateKey][]Memo),
		Colors:     make(map[DateKey]string),
	}

	load := func(key string, dst interface{}) error {
		raw, err := store.Get(userID, key)
		if err != nil {
			return errors.Wrapf(err, "reading %s", key)
		}
		if raw == nil {
			return nil
		}
		_ = json.Unmarshal(raw, dst) // corrupt value: keep the default
		return nil
	}

	for key, dst := range map[string]interface{}{
		keyTitles:       &s.Titles,
		keyTitleLists:   &s.TitleLists,
		keyMemos:        &s.Memos,
		keyColors:       &s.Colors,
		keyPeriods:      &s.Periods,
		keyEvents:       &s.Events,
		keyViewYear:     &s.ViewYear,
		keyViewMonth:    &s.ViewMonth,
		keySelectedDate: &s.SelectedDate,
		keyContextDate:  &s.ContextDate,
	} {
		if err := load(key, dst); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Save writes every key back.
func (s *Snapshot) Save(store Store, userID int) error {
	save := func(key string, v interface{}) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return errors.Wrapf(err, "encoding %s", key)
		}
		if err := store.Set(userID, key, raw); err != nil {
			return errors.Wrapf(err, "writing %s", key)
		}
		return nil
	}

	for key, v := range map[string]interface{}{
		keyTitles:       s.Titles,
		keyTitleLists:   s.TitleLists,
		keyMemos:        s.Memos,
		keyColors:       s.Colors,
		keyPeriods:      s.Periods,
		keyEvents:       s.Events,
		keyViewYear:     s.ViewYear,
		keyViewMonth:    s.ViewMonth,
		keySelectedDate: s.SelectedDate,
		keyContextDate:  s.ContextDate,
	} {
		if err := save(key, v); err != nil {
			return err
		}
	}
	return nil
}

// Planner rebuilds the in-memory planner from the snapshot. Title and memo
// lists are zipped by index; when the memo list is shorter (a damaged
// store), missing memos default to empty rather than failing.
func (s *Snapshot) Planner() *Planner {
	p := NewPlanner()
	for date, titles := range s.TitleLists {
		memos := s.Memos[date]
		for i, title := range titles {
			e := Entry{Title: title}
			if i < len(memos) {
				e.Memo = memos[i]
			}
			p.AddEntry(date, e)
		}
	}
	for date, color := range s.Colors {
		p.SetColor(date, color)
	}
	for _, per := range s.Periods {
		p.AddPeriod(per)
	}
	return p
}

// SetPlanner projects the planner back into the storage layout and
// recomputes the derived maps: the representative titles (first wins) and
// the flattened event list. TitleLists and Memos stay index-aligned and of
// equal length per date by construction.
func (s *Snapshot) SetPlanner(p *Planner) {
	s.Titles = make(map[DateKey]string)
	s.TitleLists = make(map[DateKey][]string)
	s.Memos = make(map[DateKey][]Memo)
	s.Colors = make(map[DateKey]string)

	for _, date := range p.Dates() {
		entries := p.entries[date]
		titles := make([]string, 0, len(entries))
		memos := make([]Memo, 0, len(entries))
		for _, e := range entries {
			titles = append(titles, e.Title)
			memos = append(memos, e.Memo)
		}
		s.Titles[date] = representativeTitle(entries)
		s.TitleLists[date] = titles
		s.Memos[date] = memos
	}
	for date, color := range p.colors {
		s.Colors[date] = color
	}
	s.Periods = p.Periods()
	s.Events = p.Events()
}
