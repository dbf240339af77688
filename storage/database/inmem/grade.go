package inmemdb

import (
	"github.com/schoolmate/backend/core/grade"
)

var examPKCount int

type examRepository struct {
	db *examTable
}

var _ grade.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(db *DB) grade.Repository {
	return &examRepository{db: db.exam}
}

func (repo *examRepository) CreateExam(exam grade.Exam) (grade.Exam, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	examPKCount++
	exam.ID = examPKCount
	repo.db.table[exam.ID] = &exam
	return exam, nil
}

func (repo *examRepository) QueryExamsByUser(userID int) ([]grade.Exam, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	exams := make([]grade.Exam, 0)
	for _, e := range repo.db.table {
		if e.UserID == userID {
			exams = append(exams, *e)
		}
	}
	return exams, nil
}

func (repo *examRepository) GetExam(userID, id int) (grade.Exam, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if e, ok := repo.db.table[id]; ok && e.UserID == userID {
		return *e, nil
	}
	return grade.Exam{}, grade.ErrNotFound
}

func (repo *examRepository) UpdateExam(exam grade.Exam) (grade.Exam, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[exam.ID]
	if !ok || orig.UserID != exam.UserID {
		return grade.Exam{}, grade.ErrNotFound
	}
	repo.db.table[exam.ID] = &exam
	return exam, nil
}

func (repo *examRepository) DeleteExam(userID, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if e, ok := repo.db.table[id]; !ok || e.UserID != userID {
		return grade.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
