// Package visit defines the emergency-department visit record.
package visit

import (
	"strings"
	"time"
)

// Sex is the administrative sex recorded at admission.
type Sex string

const (
	Male    Sex = "M"
	Female  Sex = "F"
	Unknown Sex = ""
)

// Offset returns the column offset used by the report sections (0 for male, 1 for female).
func (s Sex) Offset() int {
	if s == Female {
		return 1
	}
	return 0
}

// Valid reports whether the sex can be used as an aggregation dimension.
func (s Sex) Valid() bool {
	return s == Male || s == Female
}

// ParseSex maps the spellings found in hospital exports to a Sex.
func ParseSex(raw string) Sex {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "M", "H", "HOMBRE", "MASCULINO":
		return Male
	case "F", "MUJER", "FEMENINO":
		return Female
	}
	return Unknown
}

// Record is one emergency-room visit as read from the source table.
// Records are never mutated once produced by a reader.
type Record struct {
	// Row is the 1-based source row, kept for diagnostics.
	Row int `json:"row"`

	Age               float64   `json:"age"` // years; NaN when unparseable
	AdmissionTime     time.Time `json:"admissionTime"`
	DischargeTime     time.Time `json:"dischargeTime"`
	Sex               Sex       `json:"sex"`
	InsuranceName     string    `json:"insuranceName"`
	Diagnosis         string    `json:"diagnosis"`
	TriageCategory    int       `json:"triageCategory"` // 0 = untriaged
	ReferralSpecialty string    `json:"referralSpecialty,omitempty"`
	Rejected          bool      `json:"rejected,omitempty"`
}

// ElapsedHours is the time spent in the department.
func (r Record) ElapsedHours() float64 {
	return r.DischargeTime.Sub(r.AdmissionTime).Hours()
}
