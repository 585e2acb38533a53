package stats

import (
	"remasep/internal/classify"
	"remasep/internal/visit"
)

// ClassifiedRecord is a visit augmented with its derived classification fields.
// Zero-valued AgeGroup or TimeGroup means the dimension could not be classified.
type ClassifiedRecord struct {
	visit.Record
	AgeGroup       classify.AgeGroup       `json:"ageGroup,omitempty"`
	ElapsedHours   float64                 `json:"elapsedHours"`
	TimeGroup      classify.TimeGroup      `json:"timeGroup,omitempty"`
	InsuranceClass classify.InsuranceClass `json:"insuranceClass"`
	Specialty      string                  `json:"specialty,omitempty"` // canonical referral specialty
}

func (r ClassifiedRecord) hasAgeSex() bool {
	return r.AgeGroup > 0 && r.Sex.Valid()
}

// ValidTriage reports whether c is one of the report's triage categories (0 = untriaged).
func ValidTriage(c int) bool {
	return c >= 0 && c <= 5
}

// AgeSexKey buckets the population pyramid.
type AgeSexKey struct {
	AgeGroup classify.AgeGroup
	Sex      visit.Sex
}

// AgeSexTriageKey buckets visits per age band, sex and triage category.
type AgeSexTriageKey struct {
	AgeGroup classify.AgeGroup
	Sex      visit.Sex
	Triage   int
}

// StayKey buckets hospitalization and rejection visits.
type StayKey struct {
	AgeGroup  classify.AgeGroup
	Sex       visit.Sex
	TimeGroup classify.TimeGroup
	Insurance classify.InsuranceClass
}

// StayCount pairs a visit count with the number of those visits whose insurance class is 1.
type StayCount struct {
	Count       int `json:"count"`
	WeightedSum int `json:"weightedSum"`
}

// Diagnostics tallies what the normalizer dropped or could not classify.
type Diagnostics struct {
	Total               int            `json:"total"`
	ExcludedNonVisits   int            `json:"excludedNonVisits"`
	Classified          int            `json:"classified"`
	AgeFailures         int            `json:"ageFailures"`
	TimeFailures        int            `json:"timeFailures"`
	SexFailures         int            `json:"sexFailures"`
	TriageFailures      int            `json:"triageFailures"`
	UnmappedSpecialties map[string]int `json:"unmappedSpecialties,omitempty"`
}
