package timetable

import "github.com/schoolmate/backend/core"

// Grid bounds. Weekday 1 is Monday through 5 Friday; period 1 through 8.
const (
	MinWeekday = 1
	MaxWeekday = 5
	MinPeriod  = 1
	MaxPeriod  = 8
)

// Slot is one cell of the weekly grid.
type Slot struct {
	Weekday int    `json:"weekday"`
	Period  int    `json:"period"`
	Subject string `json:"subject"`
	Teacher string `json:"teacher,omitempty"`
	Room    string `json:"room,omitempty"`
	Color   string `json:"color,omitempty"`
}

// Timetable is one user's full weekly grid, sparse: only filled cells are
// listed.
type Timetable struct {
	UserID int    `json:"-"`
	Slots  []Slot `json:"slots"`
}

// NewSlot contains information needed to fill a timetable cell.
type NewSlot struct {
	Weekday int    `json:"weekday" validate:"min=1,max=5"`
	Period  int    `json:"period" validate:"min=1,max=8"`
	Subject string `json:"subject" validate:"required,max=30"`
	Teacher string `json:"teacher" validate:"max=30"`
	Room    string `json:"room" validate:"max=30"`
	Color   string `json:"color"`
}

func (ns *NewSlot) Validate() error {
	ns.Subject = core.CleanString(ns.Subject)
	ns.Teacher = core.CleanString(ns.Teacher)
	ns.Room = core.CleanString(ns.Room)
	return core.Validate.Struct(ns)
}

func (ns NewSlot) slot() Slot {
	return Slot{
		Weekday: ns.Weekday,
		Period:  ns.Period,
		Subject: ns.Subject,
		Teacher: ns.Teacher,
		Room:    ns.Room,
		Color:   ns.Color,
	}
}
