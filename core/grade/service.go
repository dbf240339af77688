package grade

import (
	"errors"
	"sort"
	"time"
)

var (
	// errors
	ErrNotFound = errors.New("exam not found")
)

type (
	Repository interface {
		CreateExam(exam Exam) (Exam, error)
		QueryExamsByUser(userID int) ([]Exam, error)
		GetExam(userID, id int) (Exam, error)
		UpdateExam(exam Exam) (Exam, error)
		DeleteExam(userID, id int) error
	}

	Service interface {
		Create(userID int, ne NewExam) (Exam, error)
		Query(userID int) ([]Exam, error)
		Get(userID, id int) (Exam, error)
		Update(userID, id int, ne NewExam) (Exam, error)
		Delete(userID, id int) error
		Report(userID, id int) (Report, error)
		Reports(userID int) ([]Report, error)
		SubjectSeries(userID int) ([]Series, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(userID int, ne NewExam) (Exam, error) {
	now := time.Now().UTC()
	exam := Exam{
		UserID:     userID,
		Year:       ne.Year,
		Month:      ne.Month,
		GradeLevel: ne.GradeLevel,
		Korean:     ne.Korean,
		Math:       ne.Math,
		English:    ne.English,
		History:    ne.History,
		Explore1:   ne.Explore1,
		Explore2:   ne.Explore2,
		SecondLang: ne.SecondLang,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateExam(exam)
}

func (svc *service) Query(userID int) ([]Exam, error) {
	exams, err := svc.repo.QueryExamsByUser(userID)
	if err != nil {
		return nil, err
	}
	sortExams(exams)
	return exams, nil
}

func (svc *service) Get(userID, id int) (Exam, error) {
	return svc.repo.GetExam(userID, id)
}

func (svc *service) Update(userID, id int, ne NewExam) (Exam, error) {
	exam, err := svc.repo.GetExam(userID, id)
	if err != nil {
		return Exam{}, err
	}
	exam.Year = ne.Year
	exam.Month = ne.Month
	exam.GradeLevel = ne.GradeLevel
	exam.Korean = ne.Korean
	exam.Math = ne.Math
	exam.English = ne.English
	exam.History = ne.History
	exam.Explore1 = ne.Explore1
	exam.Explore2 = ne.Explore2
	exam.SecondLang = ne.SecondLang
	exam.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateExam(exam)
}

func (svc *service) Delete(userID, id int) error {
	return svc.repo.DeleteExam(userID, id)
}

func (svc *service) Report(userID, id int) (Report, error) {
	exam, err := svc.repo.GetExam(userID, id)
	if err != nil {
		return Report{}, err
	}
	return Report{Exam: exam, Bands: exam.Bands()}, nil
}

func (svc *service) Reports(userID int) ([]Report, error) {
	exams, err := svc.Query(userID)
	if err != nil {
		return nil, err
	}
	reports := make([]Report, 0, len(exams))
	for _, exam := range exams {
		reports = append(reports, Report{Exam: exam, Bands: exam.Bands()})
	}
	return reports, nil
}

// SubjectSeries builds the per-column band history across the user's exams in
// chronological order, for the progress chart.
func (svc *service) SubjectSeries(userID int) ([]Series, error) {
	exams, err := svc.Query(userID)
	if err != nil {
		return nil, err
	}

	series := make([]Series, 0, len(columns))
	for _, col := range columns {
		s := Series{Column: col.name, Points: make([]SeriesPoint, 0, len(exams))}
		for _, exam := range exams {
			raw := col.score(exam)
			s.Points = append(s.Points, SeriesPoint{
				Label: exam.Label(),
				Score: raw,
				Band:  BandOf(raw, col.subject),
			})
		}
		series = append(series, s)
	}
	return series, nil
}

func sortExams(exams []Exam) {
	sort.Slice(exams, func(i, j int) bool {
		if exams[i].Year != exams[j].Year {
			return exams[i].Year < exams[j].Year
		}
		if exams[i].Month != exams[j].Month {
			return exams[i].Month < exams[j].Month
		}
		return exams[i].ID < exams[j].ID
	})
}
