package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/schoolmate/backend/core/grade"
)

type examRepository struct {
	db *sqlx.DB
}

var _ grade.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(db *sql.DB) grade.Repository {
	return &examRepository{db: sqlx.NewDb(db, "postgres")}
}

// examRow maps the exams table.
type examRow struct {
	ID         int    `db:"id"`
	UserID     int    `db:"user_id"`
	Year       int    `db:"year"`
	Month      int    `db:"month"`
	GradeLevel int    `db:"grade_level"`
	Korean     string `db:"korean"`
	Math       string `db:"math"`
	English    string `db:"english"`
	History    string `db:"history"`
	Explore1   string `db:"explore1"`
	Explore2   string `db:"explore2"`
	SecondLang string    `db:"second_lang"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r examRow) exam() grade.Exam {
	return grade.Exam{
		ID:         r.ID,
		UserID:     r.UserID,
		Year:       r.Year,
		Month:      r.Month,
		GradeLevel: r.GradeLevel,
		Korean:     r.Korean,
		Math:       r.Math,
		English:    r.English,
		History:    r.History,
		Explore1:   r.Explore1,
		Explore2:   r.Explore2,
		SecondLang: r.SecondLang,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

const examColumns = `id, user_id, year, month, grade_level, korean, math, english, history,
explore1, explore2, second_lang, created_at, updated_at`

func (repo *examRepository) CreateExam(exam grade.Exam) (grade.Exam, error) {
	err := repo.db.QueryRow(
		`INSERT INTO exams (user_id, year, month, grade_level, korean, math, english, history,
		                    explore1, explore2, second_lang, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id`,
		exam.UserID, exam.Year, exam.Month, exam.GradeLevel,
		exam.Korean, exam.Math, exam.English, exam.History,
		exam.Explore1, exam.Explore2, exam.SecondLang,
		exam.CreatedAt, exam.UpdatedAt,
	).Scan(&exam.ID)
	if err != nil {
		return grade.Exam{}, errors.Wrap(err, "inserting exam")
	}
	return exam, nil
}

func (repo *examRepository) QueryExamsByUser(userID int) ([]grade.Exam, error) {
	var rows []examRow
	err := repo.db.Select(&rows,
		`SELECT `+examColumns+` FROM exams WHERE user_id = $1 ORDER BY year, month, id`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying exams")
	}
	exams := make([]grade.Exam, 0, len(rows))
	for _, r := range rows {
		exams = append(exams, r.exam())
	}
	return exams, nil
}

func (repo *examRepository) GetExam(userID, id int) (grade.Exam, error) {
	var r examRow
	err := repo.db.Get(&r, `SELECT `+examColumns+` FROM exams WHERE id = $1 AND user_id = $2`, id, userID)
	if err == sql.ErrNoRows {
		return grade.Exam{}, grade.ErrNotFound
	}
	if err != nil {
		return grade.Exam{}, errors.Wrap(err, "querying exam")
	}
	return r.exam(), nil
}

func (repo *examRepository) UpdateExam(exam grade.Exam) (grade.Exam, error) {
	res, err := repo.db.Exec(
		`UPDATE exams SET year = $1, month = $2, grade_level = $3, korean = $4, math = $5,
		                  english = $6, history = $7, explore1 = $8, explore2 = $9,
		                  second_lang = $10, updated_at = $11
		 WHERE id = $12 AND user_id = $13`,
		exam.Year, exam.Month, exam.GradeLevel, exam.Korean, exam.Math,
		exam.English, exam.History, exam.Explore1, exam.Explore2,
		exam.SecondLang, exam.UpdatedAt, exam.ID, exam.UserID,
	)
	if err != nil {
		return grade.Exam{}, errors.Wrap(err, "updating exam")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return grade.Exam{}, grade.ErrNotFound
	}
	return repo.GetExam(exam.UserID, exam.ID)
}

func (repo *examRepository) DeleteExam(userID, id int) error {
	res, err := repo.db.Exec(`DELETE FROM exams WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return errors.Wrap(err, "deleting exam")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return grade.ErrNotFound
	}
	return nil
}
