package grade

import (
	"fmt"
	"testing"
)

func TestBandOf(t *testing.T) {
	tests := []struct {
		raw  string
		subj Subject
		want Band
	}{
		// absent / non-numeric input
		{raw: "", subj: KoreanMath, want: BandUnavailable},
		{raw: "   ", subj: English, want: BandUnavailable},
		{raw: "abc", subj: History, want: BandUnavailable},
		{raw: "12점", subj: Exploration, want: BandUnavailable},
		{raw: "", subj: SecondLanguage, want: BandUnavailable},

		// mid-band reference points
		{raw: "95", subj: KoreanMath, want: "1등급"},
		{raw: "85", subj: English, want: "2등급"},
		{raw: "22", subj: History, want: "5등급"},
		{raw: "48", subj: Exploration, want: "1등급"},
		{raw: "20", subj: SecondLanguage, want: BandUnder6},

		// exact boundaries are inclusive (higher band wins)
		{raw: "90", subj: KoreanMath, want: "1등급"},
		{raw: "80", subj: KoreanMath, want: "2등급"},
		{raw: "20", subj: KoreanMath, want: "8등급"},
		{raw: "19.9", subj: KoreanMath, want: "9등급"},
		{raw: "0", subj: KoreanMath, want: "9등급"},
		{raw: "90", subj: English, want: "1등급"},
		{raw: "10", subj: English, want: "9등급"},
		{raw: "40", subj: History, want: "1등급"},
		{raw: "10", subj: History, want: "6등급"},
		{raw: "45", subj: Exploration, want: "1등급"},
		{raw: "10", subj: Exploration, want: "8등급"},
		{raw: "9", subj: Exploration, want: "9등급"},
		{raw: "45", subj: SecondLanguage, want: "1등급"},
		{raw: "25", subj: SecondLanguage, want: "5등급"},
		{raw: "24", subj: SecondLanguage, want: BandUnder6},

		// the sub-10 gap stays a defined "no band" result for English/History
		{raw: "9", subj: English, want: BandNone},
		{raw: "0", subj: English, want: BandNone},
		{raw: "9.5", subj: History, want: BandNone},
		{raw: "0", subj: History, want: BandNone},

		// no upper clamping: over-ceiling scores land in the top band
		{raw: "120", subj: KoreanMath, want: "1등급"},
		{raw: "999", subj: SecondLanguage, want: "1등급"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%q", tt.subj, tt.raw), func(t *testing.T) {
			if got := BandOf(tt.raw, tt.subj); got != tt.want {
				t.Errorf("BandOf(%q, %v) = %q; want %q", tt.raw, tt.subj, got, tt.want)
			}
		})
	}
}

func TestBandOfBoundaries(t *testing.T) {
	// every named threshold must map to its own band, and the value just
	// below it to the next one down
	for subj, table := range bandTables {
		for i, th := range table.thresholds {
			if got := BandOfScore(th.min, subj); got != th.band {
				t.Errorf("%s: BandOfScore(%v) = %q; want %q", subj, th.min, got, th.band)
			}
			below := th.min - 0.1
			want := table.tail
			if i+1 < len(table.thresholds) {
				want = table.thresholds[i+1].band
			}
			if got := BandOfScore(below, subj); got != want {
				t.Errorf("%s: BandOfScore(%v) = %q; want %q", subj, below, got, want)
			}
		}
	}
}

func TestSubjectCeiling(t *testing.T) {
	tests := map[Subject]int{
		KoreanMath:     100,
		English:        100,
		History:        50,
		Exploration:    50,
		SecondLanguage: 50,
	}
	for subj, want := range tests {
		if got := subj.Ceiling(); got != want {
			t.Errorf("%s.Ceiling() = %d; want %d", subj, got, want)
		}
	}
}
