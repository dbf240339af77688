package inmemdb

import (
	"github.com/schoolmate/backend/core/schedule"
)

type calendarStore struct {
	db *calendarTable
}

var _ schedule.Store = (*calendarStore)(nil) // interface compliance check

func NewCalendarStore(db *DB) schedule.Store {
	return &calendarStore{db: db.calendar}
}

func (s *calendarStore) Get(userID int, key string) ([]byte, error) {
	s.db.RLock()
	defer s.db.RUnlock()

	raw, ok := s.db.table[userID][key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (s *calendarStore) Set(userID int, key string, value []byte) error {
	s.db.Lock()
	defer s.db.Unlock()

	if s.db.table[userID] == nil {
		s.db.table[userID] = make(map[string][]byte)
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	s.db.table[userID][key] = stored
	return nil
}

func (s *calendarStore) Delete(userID int, key string) error {
	s.db.Lock()
	defer s.db.Unlock()
	delete(s.db.table[userID], key)
	return nil
}
