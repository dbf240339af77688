package timetable

import (
	stderrors "errors"
	"sort"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrSlotNotFound = stderrors.New("timetable slot not found")
)

type (
	Repository interface {
		GetSlots(userID int) ([]Slot, error)
		SetSlot(userID int, slot Slot) error
		DeleteSlot(userID, weekday, period int) error
		ClearSlots(userID int) error
	}

	Service interface {
		Get(userID int) (Timetable, error)
		Set(userID int, ns NewSlot) (Slot, error)
		Clear(userID, weekday, period int) error
		ClearAll(userID int) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Get returns the user's grid, ordered by weekday then period.
func (svc *service) Get(userID int) (Timetable, error) {
	slots, err := svc.repo.GetSlots(userID)
	if err != nil {
		return Timetable{}, errors.Wrap(err, "querying timetable")
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Weekday != slots[j].Weekday {
			return slots[i].Weekday < slots[j].Weekday
		}
		return slots[i].Period < slots[j].Period
	})
	return Timetable{UserID: userID, Slots: slots}, nil
}

// Set fills the cell, overwriting whatever the cell held before.
func (svc *service) Set(userID int, ns NewSlot) (Slot, error) {
	if err := ns.Validate(); err != nil {
		return Slot{}, err
	}
	slot := ns.slot()
	if err := svc.repo.SetSlot(userID, slot); err != nil {
		return Slot{}, errors.Wrap(err, "saving timetable slot")
	}
	return slot, nil
}

func (svc *service) Clear(userID, weekday, period int) error {
	return svc.repo.DeleteSlot(userID, weekday, period)
}

func (svc *service) ClearAll(userID int) error {
	return errors.Wrap(svc.repo.ClearSlots(userID), "clearing timetable")
}
