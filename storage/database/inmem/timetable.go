package inmemdb

import (
	"github.com/schoolmate/backend/core/timetable"
)

type timetableRepository struct {
	db *timetableTable
}

var _ timetable.Repository = (*timetableRepository)(nil) // interface compliance check

func NewTimetableRepository(db *DB) timetable.Repository {
	return &timetableRepository{db: db.timetable}
}

func (repo *timetableRepository) GetSlots(userID int) ([]timetable.Slot, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	slots := make([]timetable.Slot, 0)
	for _, s := range repo.db.slots[userID] {
		slots = append(slots, s)
	}
	return slots, nil
}

func (repo *timetableRepository) SetSlot(userID int, slot timetable.Slot) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.db.slots[userID] == nil {
		repo.db.slots[userID] = make(map[slotKey]timetable.Slot)
	}
	repo.db.slots[userID][slotKey{slot.Weekday, slot.Period}] = slot
	return nil
}

func (repo *timetableRepository) DeleteSlot(userID, weekday, period int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.slots[userID][slotKey{weekday, period}]; !ok {
		return timetable.ErrSlotNotFound
	}
	delete(repo.db.slots[userID], slotKey{weekday, period})
	return nil
}

func (repo *timetableRepository) ClearSlots(userID int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.slots, userID)
	return nil
}
