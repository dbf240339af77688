package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/schoolmate/backend/core/timetable"
)

type timetableRepository struct {
	db *sqlx.DB
}

var _ timetable.Repository = (*timetableRepository)(nil) // interface compliance check

func NewTimetableRepository(db *sql.DB) timetable.Repository {
	return &timetableRepository{db: sqlx.NewDb(db, "postgres")}
}

// slotRow maps the timetable_slots table.
type slotRow struct {
	Weekday int    `db:"weekday"`
	Period  int    `db:"period"`
	Subject string `db:"subject"`
	Teacher string `db:"teacher"`
	Room    string `db:"room"`
	Color   string `db:"color"`
}

func (repo *timetableRepository) GetSlots(userID int) ([]timetable.Slot, error) {
	var rows []slotRow
	err := repo.db.Select(&rows,
		`SELECT weekday, period, subject, teacher, room, color
		 FROM timetable_slots WHERE user_id = $1`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying slots")
	}
	slots := make([]timetable.Slot, 0, len(rows))
	for _, r := range rows {
		slots = append(slots, timetable.Slot{
			Weekday: r.Weekday,
			Period:  r.Period,
			Subject: r.Subject,
			Teacher: r.Teacher,
			Room:    r.Room,
			Color:   r.Color,
		})
	}
	return slots, nil
}

func (repo *timetableRepository) SetSlot(userID int, slot timetable.Slot) error {
	_, err := repo.db.Exec(
		`INSERT INTO timetable_slots (user_id, weekday, period, subject, teacher, room, color)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, weekday, period)
		 DO UPDATE SET subject = $4, teacher = $5, room = $6, color = $7`,
		userID, slot.Weekday, slot.Period, slot.Subject, slot.Teacher, slot.Room, slot.Color,
	)
	return errors.Wrap(err, "saving slot")
}

func (repo *timetableRepository) DeleteSlot(userID, weekday, period int) error {
	res, err := repo.db.Exec(
		`DELETE FROM timetable_slots WHERE user_id = $1 AND weekday = $2 AND period = $3`,
		userID, weekday, period,
	)
	if err != nil {
		return errors.Wrap(err, "deleting slot")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return timetable.ErrSlotNotFound
	}
	return nil
}

func (repo *timetableRepository) ClearSlots(userID int) error {
	_, err := repo.db.Exec(`DELETE FROM timetable_slots WHERE user_id = $1`, userID)
	return errors.Wrap(err, "clearing slots")
}
