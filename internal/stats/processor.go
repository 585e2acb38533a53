package stats

import (
	"strings"
	"time"

	"remasep/internal/classify"
	"remasep/internal/visit"

	"github.com/rs/zerolog/log"
)

// Diagnoses recorded for administrative errors rather than real visits.
const (
	DiagnosisNoWait    = "NO ESPERA ATENCIÓN"
	DiagnosisNullFolio = "MAL INGRESADO - FOLIO NULO"
)

// IsNonVisit returns true if the diagnosis marks the record as an administrative error.
func IsNonVisit(diagnosis string) bool {
	return diagnosis == DiagnosisNoWait || diagnosis == DiagnosisNullFolio
}

// Normalize drops non-visits and classifies every remaining record.
// Dimensions that fail to classify are left at their zero value and tallied in
// the returned Diagnostics; the record itself is kept so it can still count in
// summaries that do not need the failed dimension.
func Normalize(records []visit.Record) ([]ClassifiedRecord, Diagnostics) {
	diag := Diagnostics{
		Total:               len(records),
		UnmappedSpecialties: make(map[string]int),
	}

	out := make([]ClassifiedRecord, 0, len(records))
	for _, r := range records {
		if IsNonVisit(r.Diagnosis) {
			diag.ExcludedNonVisits++
			continue
		}
		out = append(out, classifyRecord(r, &diag))
	}
	diag.Classified = len(out)

	if len(diag.UnmappedSpecialties) == 0 {
		diag.UnmappedSpecialties = nil
	}

	log.Debug().
		Int("total", diag.Total).
		Int("excluded", diag.ExcludedNonVisits).
		Int("ageFailures", diag.AgeFailures).
		Int("timeFailures", diag.TimeFailures).
		Msg("Normalized visit records")

	return out, diag
}

func classifyRecord(r visit.Record, diag *Diagnostics) ClassifiedRecord {
	c := ClassifiedRecord{
		Record:         r,
		ElapsedHours:   r.ElapsedHours(),
		InsuranceClass: classify.Insurance(r.InsuranceName),
	}

	if g, err := classify.Age(r.Age); err == nil {
		c.AgeGroup = g
	} else {
		diag.AgeFailures++
		log.Debug().Err(err).Int("row", r.Row).Msg("Excluding record from age-keyed summaries")
	}

	if r.AdmissionTime.IsZero() || r.DischargeTime.IsZero() {
		diag.TimeFailures++
		log.Debug().Int("row", r.Row).Msg("Missing admission or discharge time")
	} else if g, err := classify.Time(c.ElapsedHours); err == nil {
		c.TimeGroup = g
	} else {
		diag.TimeFailures++
		log.Debug().Err(err).Int("row", r.Row).Msg("Excluding record from time-keyed summaries")
	}

	if !r.Sex.Valid() {
		diag.SexFailures++
	}
	if !ValidTriage(r.TriageCategory) {
		diag.TriageFailures++
	}

	if name := strings.TrimSpace(r.ReferralSpecialty); name != "" {
		canonical, mapped := classify.Specialty(name)
		if !mapped {
			if diag.UnmappedSpecialties[name] == 0 {
				log.Warn().Str("specialty", name).Int("row", r.Row).Msg("Unmapped referral specialty")
			}
			diag.UnmappedSpecialties[name]++
		}
		c.Specialty = canonical
	}

	return c
}

// AdmissionRange returns the earliest and latest admission time of the records.
func AdmissionRange(records []ClassifiedRecord) (first, last time.Time, ok bool) {
	for _, r := range records {
		if r.AdmissionTime.IsZero() {
			continue
		}
		if !ok || r.AdmissionTime.Before(first) {
			first = r.AdmissionTime
		}
		if !ok || r.AdmissionTime.After(last) {
			last = r.AdmissionTime
		}
		ok = true
	}
	return first, last, ok
}
