// Package classify bins visit attributes into the dimensions used by the report.
package classify

import (
	"errors"
	"fmt"
	"math"
)

// ErrClassification marks a value that falls outside every representable bin.
var ErrClassification = errors.New("classification failure")

// Error describes which field failed to classify and why.
type Error struct {
	Field string
	Value float64
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s value %v outside representable bins", ErrClassification, e.Field, e.Value)
}

func (e *Error) Unwrap() error {
	return ErrClassification
}

// AgeGroup is a five-year age band, 1 through 17 (17 is open-ended).
type AgeGroup int

// NumAgeGroups is the number of age bands in the report.
const NumAgeGroups = 17

// Label renders the band as "5-9" or "80+".
func (g AgeGroup) Label() string {
	if g < 1 || g > NumAgeGroups {
		return "?"
	}
	from := (int(g) - 1) * 5
	if g == NumAgeGroups {
		return fmt.Sprintf("%d+", from)
	}
	return fmt.Sprintf("%d-%d", from, from+4)
}

// TimeGroup is the elapsed-time band: 1 (<12h), 2 (<24h), 3 (>=24h).
type TimeGroup int

const (
	TimeUnder12 TimeGroup = 1
	TimeUnder24 TimeGroup = 2
	TimeOver24  TimeGroup = 3
)

// Label renders the band as used in report headings.
func (t TimeGroup) Label() string {
	switch t {
	case TimeUnder12:
		return "<12h"
	case TimeUnder24:
		return "12-24h"
	case TimeOver24:
		return ">=24h"
	}
	return "?"
}

// InsuranceClass is 1 for the two tracked payer categories, 0 otherwise.
type InsuranceClass int

type ageBin struct {
	group    AgeGroup
	from, to float64
}

var ageBins = func() []ageBin {
	bins := make([]ageBin, 0, NumAgeGroups)
	for g := 1; g < NumAgeGroups; g++ {
		from := float64((g - 1) * 5)
		bins = append(bins, ageBin{group: AgeGroup(g), from: from, to: from + 4})
	}
	return append(bins, ageBin{group: NumAgeGroups, from: 80, to: math.Inf(1)})
}()

// Age returns the age band for an age in years. Fractional ages are binned on
// their completed years, so the bands partition [0, inf) without gaps.
func Age(age float64) (AgeGroup, error) {
	if math.IsNaN(age) || age < 0 {
		return 0, &Error{Field: "age", Value: age}
	}

	years := math.Floor(age)
	for _, b := range ageBins {
		if years >= b.from && years <= b.to {
			return b.group, nil
		}
	}
	return 0, &Error{Field: "age", Value: age}
}

// Time returns the elapsed-time band. A negative duration means the discharge
// was recorded before the admission and is reported as a failure.
func Time(hours float64) (TimeGroup, error) {
	if math.IsNaN(hours) || hours < 0 {
		return 0, &Error{Field: "elapsedHours", Value: hours}
	}
	if hours < 12 {
		return TimeUnder12, nil
	}
	if hours < 24 {
		return TimeUnder24, nil
	}
	return TimeOver24, nil
}

// Insurance flags the public insurer and private-pay patients. Matching is exact.
func Insurance(name string) InsuranceClass {
	if name == "FONASA" || name == "PARTICULAR" {
		return 1
	}
	return 0
}
