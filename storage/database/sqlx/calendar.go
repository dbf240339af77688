package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/schoolmate/backend/core/schedule"
)

// calendarStore persists per-user calendar state as JSONB key/value rows.
type calendarStore struct {
	db *sqlx.DB
}

var _ schedule.Store = (*calendarStore)(nil) // interface compliance check

func NewCalendarStore(db *sql.DB) schedule.Store {
	return &calendarStore{db: sqlx.NewDb(db, "postgres")}
}

func (s *calendarStore) Get(userID int, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(
		`SELECT value FROM calendar_store WHERE user_id = $1 AND key = $2`,
		userID, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying calendar value")
	}
	return value, nil
}

func (s *calendarStore) Set(userID int, key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO calendar_store (user_id, key, value) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, key) DO UPDATE SET value = $3`,
		userID, key, value,
	)
	return errors.Wrap(err, "saving calendar value")
}

func (s *calendarStore) Delete(userID int, key string) error {
	_, err := s.db.Exec(`DELETE FROM calendar_store WHERE user_id = $1 AND key = $2`, userID, key)
	return errors.Wrap(err, "deleting calendar value")
}
