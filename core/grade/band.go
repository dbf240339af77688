package grade

import (
	"fmt"
	"strconv"
	"strings"
)

// Subject classifies a mock-exam subject for grading purposes.
// It determines which band table applies and the score ceiling.
type Subject int

const (
	KoreanMath Subject = iota // 국어/수학, out of 100
	English                   // 영어, out of 100
	History                   // 한국사, out of 50
	Exploration               // 탐구, out of 50
	SecondLanguage            // 제2외국어/한문, out of 50
)

var subjectNames = map[Subject]string{
	KoreanMath:     "korean_math",
	English:        "english",
	History:        "history",
	Exploration:    "exploration",
	SecondLanguage: "second_language",
}

func (s Subject) String() string { return subjectNames[s] }

// Ceiling returns the nominal maximum raw score for the subject.
// Scores are not clamped to it; it is informational only.
func (s Subject) Ceiling() int {
	switch s {
	case KoreanMath, English:
		return 100
	default:
		return 50
	}
}

// Band is a discrete grade label (등급).
type Band string

const (
	// BandUnavailable is returned for absent or non-numeric input
	// (a partially filled form); rendered as "-".
	BandUnavailable Band = "-"

	// BandNone is the defined result for English/History scores below their
	// lowest named threshold (10). The grading convention leaves those scores
	// without a numbered band; this is intentionally distinct from
	// BandUnavailable.
	BandNone Band = ""

	// BandUnder6 is the SecondLanguage catch-all below its lowest threshold.
	BandUnder6 Band = "6등급 이하"
)

func numberedBand(n int) Band { return Band(fmt.Sprintf("%d등급", n)) }

type threshold struct {
	min  float64 // inclusive lower bound
	band Band
}

// Band tables per subject: inclusive lower bounds checked in descending
// order, first match wins. `tail` is the result when no threshold matches.
var bandTables = map[Subject]struct {
	thresholds []threshold
	tail       Band
}{
	KoreanMath: {
		thresholds: []threshold{
			{90, numberedBand(1)}, {80, numberedBand(2)}, {70, numberedBand(3)},
			{60, numberedBand(4)}, {50, numberedBand(5)}, {40, numberedBand(6)},
			{30, numberedBand(7)}, {20, numberedBand(8)},
		},
		tail: numberedBand(9),
	},
	English: {
		thresholds: []threshold{
			{90, numberedBand(1)}, {80, numberedBand(2)}, {70, numberedBand(3)},
			{60, numberedBand(4)}, {50, numberedBand(5)}, {40, numberedBand(6)},
			{30, numberedBand(7)}, {20, numberedBand(8)}, {10, numberedBand(9)},
		},
		tail: BandNone,
	},
	History: {
		thresholds: []threshold{
			{40, numberedBand(1)}, {35, numberedBand(2)}, {30, numberedBand(3)},
			{25, numberedBand(4)}, {20, numberedBand(5)}, {10, numberedBand(6)},
		},
		tail: BandNone,
	},
	Exploration: {
		thresholds: []threshold{
			{45, numberedBand(1)}, {40, numberedBand(2)}, {35, numberedBand(3)},
			{30, numberedBand(4)}, {25, numberedBand(5)}, {20, numberedBand(6)},
			{15, numberedBand(7)}, {10, numberedBand(8)},
		},
		tail: numberedBand(9),
	},
	SecondLanguage: {
		thresholds: []threshold{
			{45, numberedBand(1)}, {40, numberedBand(2)}, {35, numberedBand(3)},
			{30, numberedBand(4)}, {25, numberedBand(5)},
		},
		tail: BandUnder6,
	},
}

// BandOf converts a raw score input to a grade band. The input is whatever
// the form holds: empty or non-numeric input yields BandUnavailable, never
// an error. Scores above the subject ceiling are not clamped; they map
// through the same table.
func BandOf(raw string, subj Subject) Band {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return BandUnavailable
	}
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return BandUnavailable
	}
	return BandOfScore(score, subj)
}

// BandOfScore maps a numeric score to its grade band.
func BandOfScore(score float64, subj Subject) Band {
	table := bandTables[subj]
	for _, t := range table.thresholds {
		if score >= t.min {
			return t.band
		}
	}
	return table.tail
}
