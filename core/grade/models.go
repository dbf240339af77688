package grade

import (
	"fmt"
	"time"

	"github.com/schoolmate/backend/core"
)

// Exam is one saved mock-exam score sheet. Raw scores are kept exactly as
// entered (possibly empty or non-numeric); band conversion happens on read.
type Exam struct {
	ID         int    `json:"id"`
	UserID     int    `json:"-"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	GradeLevel int    `json:"grade_level"` // 1..3

	Korean     string `json:"korean"`
	Math       string `json:"math"`
	English    string `json:"english"`
	History    string `json:"history"`
	Explore1   string `json:"explore1"`
	Explore2   string `json:"explore2"`
	SecondLang string `json:"second_lang"`

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// columns enumerates the score sheet in display order with each column's
// subject classification.
type column struct {
	name    string
	subject Subject
	score   func(Exam) string
}

var columns = []column{
	{"korean", KoreanMath, func(e Exam) string { return e.Korean }},
	{"math", KoreanMath, func(e Exam) string { return e.Math }},
	{"english", English, func(e Exam) string { return e.English }},
	{"history", History, func(e Exam) string { return e.History }},
	{"explore1", Exploration, func(e Exam) string { return e.Explore1 }},
	{"explore2", Exploration, func(e Exam) string { return e.Explore2 }},
	{"second_lang", SecondLanguage, func(e Exam) string { return e.SecondLang }},
}

// Bands converts the exam's raw scores column by column.
func (e Exam) Bands() map[string]Band {
	bands := make(map[string]Band, len(columns))
	for _, col := range columns {
		bands[col.name] = BandOf(col.score(e), col.subject)
	}
	return bands
}

// Label is the exam's display label, e.g. "2026-06".
func (e Exam) Label() string {
	return fmt.Sprintf("%04d-%02d", e.Year, e.Month)
}

// NewExam contains information needed to save a new Exam.
type NewExam struct {
	Year       int    `json:"year" validate:"required,min=2000,max=2100"`
	Month      int    `json:"month" validate:"required,min=1,max=12"`
	GradeLevel int    `json:"grade_level" validate:"required,min=1,max=3"`
	Korean     string `json:"korean"`
	Math       string `json:"math"`
	English    string `json:"english"`
	History    string `json:"history"`
	Explore1   string `json:"explore1"`
	Explore2   string `json:"explore2"`
	SecondLang string `json:"second_lang"`
}

func (ne *NewExam) Validate() error {
	ne.Korean = core.CleanString(ne.Korean)
	ne.Math = core.CleanString(ne.Math)
	ne.English = core.CleanString(ne.English)
	ne.History = core.CleanString(ne.History)
	ne.Explore1 = core.CleanString(ne.Explore1)
	ne.Explore2 = core.CleanString(ne.Explore2)
	ne.SecondLang = core.CleanString(ne.SecondLang)
	return core.Validate.Struct(ne)
}

// Report is one exam with its computed bands, ready for rendering.
type Report struct {
	Exam  Exam            `json:"exam"`
	Bands map[string]Band `json:"bands"`
}

// SeriesPoint is one exam's band for a single subject column, used by the
// progress chart.
type SeriesPoint struct {
	Label string `json:"label"` // e.g. "2026-06"
	Score string `json:"score"`
	Band  Band   `json:"band"`
}

// Series is the band history of one subject column across saved exams.
type Series struct {
	Column string        `json:"column"`
	Points []SeriesPoint `json:"points"`
}
