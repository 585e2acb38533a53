package report

import (
	"fmt"

	"remasep/internal/classify"
	"remasep/internal/visit"
)

// PyramidSection places the age/sex population pyramid on a single row.
type PyramidSection struct {
	Row     int
	BaseCol int
}

// TriageSection places age/sex counts on one row per triage category.
type TriageSection struct {
	BaseCol int
	Rows    map[int]int // triage category -> row
}

// LabelSection writes counts next to rows the template pre-labels.
type LabelSection struct {
	LabelCol int
	ValueCol int
	FirstRow int
	LastRow  int
}

// StaySection places hospitalization or rejection counts. When Collapse is set,
// every time band shares BaseRow; otherwise band n lands on BaseRow+n-1.
type StaySection struct {
	BaseRow  int
	BaseCol  int
	TotalCol int
	Collapse bool
}

// Layout is the static address map of the report template.
type Layout struct {
	AgeSex          PyramidSection
	AgeSexTriage    TriageSection
	Specialty       LabelSection
	Hospitalization StaySection
	Rejection       StaySection
}

// DefaultLayout matches the "Urgencia" REM template: the pyramid starts at E12,
// triage rows 21-26 start at column E, specialty labels sit in A31:A49 with counts
// in column D, and the stay sections start at F56 (rejections on row 60) with
// their totals in column AN.
func DefaultLayout() Layout {
	triageRows := map[int]int{1: 21, 2: 22, 3: 23, 4: 24, 5: 25, 0: 26}
	return Layout{
		AgeSex:          PyramidSection{Row: 12, BaseCol: 5},
		AgeSexTriage:    TriageSection{BaseCol: 5, Rows: triageRows},
		Specialty:       LabelSection{LabelCol: 1, ValueCol: 4, FirstRow: 31, LastRow: 49},
		Hospitalization: StaySection{BaseRow: 56, BaseCol: 6, TotalCol: 40},
		Rejection:       StaySection{BaseRow: 60, BaseCol: 6, TotalCol: 40, Collapse: true},
	}
}

// pairColumn returns the male/female column of the index-th age pair.
func pairColumn(base, index int, sex visit.Sex) int {
	return base + 2*index + sex.Offset()
}

// Row returns the row a time band is written to.
func (s StaySection) Row(tg classify.TimeGroup) int {
	if s.Collapse {
		return s.BaseRow
	}
	return s.BaseRow + int(tg) - 1
}

// Validate checks that every rule yields positive addresses and that the age
// columns never overlap the total column.
func (l Layout) Validate() error {
	lastPair := 2*(classify.NumAgeGroups-1) + 1

	if l.AgeSex.Row < 1 || l.AgeSex.BaseCol < 1 {
		return fmt.Errorf("age/sex section: invalid origin %s", Cell(l.AgeSex.Row, l.AgeSex.BaseCol))
	}
	if l.AgeSexTriage.BaseCol < 1 {
		return fmt.Errorf("triage section: invalid base column %d", l.AgeSexTriage.BaseCol)
	}
	for c := 0; c <= 5; c++ {
		if row, ok := l.AgeSexTriage.Rows[c]; !ok || row < 1 {
			return fmt.Errorf("triage section: no row for category %d", c)
		}
	}
	sp := l.Specialty
	if sp.LabelCol < 1 || sp.ValueCol < 1 || sp.FirstRow < 1 || sp.LastRow < sp.FirstRow {
		return fmt.Errorf("specialty section: invalid label range")
	}
	for name, s := range map[string]StaySection{"hospitalization": l.Hospitalization, "rejection": l.Rejection} {
		if s.BaseRow < 1 || s.BaseCol < 1 || s.TotalCol < 1 {
			return fmt.Errorf("%s section: invalid origin", name)
		}
		if s.TotalCol >= s.BaseCol && s.TotalCol <= s.BaseCol+lastPair {
			return fmt.Errorf("%s section: total column %s overlaps the age columns", name, ColumnLetters(s.TotalCol))
		}
	}
	return nil
}
