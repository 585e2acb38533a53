package stats

import (
	"cmp"
	"encoding/json"
	"slices"

	"remasep/internal/classify"
	"remasep/internal/visit"
)

// AgeSexSummary counts visits per age band and sex.
type AgeSexSummary map[AgeSexKey]int

// AgeSexTriageSummary counts visits per age band, sex and triage category.
type AgeSexTriageSummary map[AgeSexTriageKey]int

// SpecialtySummary counts referrals per canonical specialty.
type SpecialtySummary map[string]int

// StaySummary counts hospitalization or rejection visits with their insurance-weighted sub-sum.
type StaySummary map[StayKey]StayCount

// Summaries holds the five report summaries built from one record set.
type Summaries struct {
	AgeSex          AgeSexSummary       `json:"ageSex"`
	AgeSexTriage    AgeSexTriageSummary `json:"ageSexTriage"`
	Specialty       SpecialtySummary    `json:"specialty"`
	Hospitalization StaySummary         `json:"hospitalization"`
	Rejection       StaySummary         `json:"rejection"`
}

// Summarize builds every summary in one call.
func Summarize(records []ClassifiedRecord) Summaries {
	return Summaries{
		AgeSex:          SummarizeByAgeSex(records),
		AgeSexTriage:    SummarizeByAgeSexTriage(records),
		Specialty:       SummarizeBySpecialty(records),
		Hospitalization: SummarizeHospitalization(records),
		Rejection:       SummarizeRejection(records),
	}
}

// SummarizeByAgeSex counts every record with a classified age band and a known sex.
func SummarizeByAgeSex(records []ClassifiedRecord) AgeSexSummary {
	out := make(AgeSexSummary)
	for _, r := range records {
		if !r.hasAgeSex() {
			continue
		}
		out[AgeSexKey{AgeGroup: r.AgeGroup, Sex: r.Sex}]++
	}
	return out
}

// SummarizeByAgeSexTriage counts records per triage category. Category 0 is a bucket of its own.
func SummarizeByAgeSexTriage(records []ClassifiedRecord) AgeSexTriageSummary {
	out := make(AgeSexTriageSummary)
	for _, r := range records {
		if !r.hasAgeSex() || !ValidTriage(r.TriageCategory) {
			continue
		}
		out[AgeSexTriageKey{AgeGroup: r.AgeGroup, Sex: r.Sex, Triage: r.TriageCategory}]++
	}
	return out
}

// SummarizeBySpecialty counts referrals; records without a referral are skipped.
func SummarizeBySpecialty(records []ClassifiedRecord) SpecialtySummary {
	out := make(SpecialtySummary)
	for _, r := range records {
		if r.Specialty == "" {
			continue
		}
		out[r.Specialty]++
	}
	return out
}

// SummarizeHospitalization aggregates every record not flagged as rejected.
func SummarizeHospitalization(records []ClassifiedRecord) StaySummary {
	return summarizeStays(records, false)
}

// SummarizeRejection aggregates the administratively rejected records.
func SummarizeRejection(records []ClassifiedRecord) StaySummary {
	return summarizeStays(records, true)
}

func summarizeStays(records []ClassifiedRecord, rejected bool) StaySummary {
	out := make(StaySummary)
	for _, r := range records {
		if r.Rejected != rejected || !r.hasAgeSex() || r.TimeGroup == 0 {
			continue
		}
		key := StayKey{AgeGroup: r.AgeGroup, Sex: r.Sex, TimeGroup: r.TimeGroup, Insurance: r.InsuranceClass}
		c := out[key]
		c.Count++
		c.WeightedSum += int(r.InsuranceClass)
		out[key] = c
	}
	return out
}

// Total returns the sum of every count in the summary.
func (s AgeSexSummary) Total() int {
	n := 0
	for _, c := range s {
		n += c
	}
	return n
}

// Groups returns the observed age bands in ascending order.
func (s AgeSexSummary) Groups() []classify.AgeGroup {
	var groups []classify.AgeGroup
	for k := range s {
		if !slices.Contains(groups, k.AgeGroup) {
			groups = append(groups, k.AgeGroup)
		}
	}
	slices.Sort(groups)
	return groups
}

// Keys returns the summary keys in (age, sex) order.
func (s AgeSexSummary) Keys() []AgeSexKey {
	keys := make([]AgeSexKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b AgeSexKey) int {
		return cmp.Or(cmp.Compare(a.AgeGroup, b.AgeGroup), cmp.Compare(a.Sex, b.Sex))
	})
	return keys
}

// Keys returns the summary keys in (triage, age, sex) order.
func (s AgeSexTriageSummary) Keys() []AgeSexTriageKey {
	keys := make([]AgeSexTriageKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b AgeSexTriageKey) int {
		return cmp.Or(
			cmp.Compare(a.Triage, b.Triage),
			cmp.Compare(a.AgeGroup, b.AgeGroup),
			cmp.Compare(a.Sex, b.Sex),
		)
	})
	return keys
}

// Keys returns the specialty names in lexical order.
func (s SpecialtySummary) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Keys returns the summary keys in (time, age, sex, insurance) order.
func (s StaySummary) Keys() []StayKey {
	keys := make([]StayKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b StayKey) int {
		return cmp.Or(
			cmp.Compare(a.TimeGroup, b.TimeGroup),
			cmp.Compare(a.AgeGroup, b.AgeGroup),
			cmp.Compare(a.Sex, b.Sex),
			cmp.Compare(a.Insurance, b.Insurance),
		)
	})
	return keys
}

// Maps keyed by structs cannot be encoded as JSON objects, so the summaries
// marshal as ordered entry lists.

type ageSexEntry struct {
	AgeGroup classify.AgeGroup `json:"ageGroup"`
	Sex      visit.Sex         `json:"sex"`
	Count    int               `json:"count"`
}

func (s AgeSexSummary) MarshalJSON() ([]byte, error) {
	entries := make([]ageSexEntry, 0, len(s))
	for _, k := range s.Keys() {
		entries = append(entries, ageSexEntry{AgeGroup: k.AgeGroup, Sex: k.Sex, Count: s[k]})
	}
	return json.Marshal(entries)
}

type ageSexTriageEntry struct {
	AgeGroup classify.AgeGroup `json:"ageGroup"`
	Sex      visit.Sex         `json:"sex"`
	Triage   int               `json:"triage"`
	Count    int               `json:"count"`
}

func (s AgeSexTriageSummary) MarshalJSON() ([]byte, error) {
	entries := make([]ageSexTriageEntry, 0, len(s))
	for _, k := range s.Keys() {
		entries = append(entries, ageSexTriageEntry{AgeGroup: k.AgeGroup, Sex: k.Sex, Triage: k.Triage, Count: s[k]})
	}
	return json.Marshal(entries)
}

type stayEntry struct {
	AgeGroup  classify.AgeGroup       `json:"ageGroup"`
	Sex       visit.Sex               `json:"sex"`
	TimeGroup classify.TimeGroup      `json:"timeGroup"`
	Insurance classify.InsuranceClass `json:"insuranceClass"`
	StayCount
}

func (s StaySummary) MarshalJSON() ([]byte, error) {
	entries := make([]stayEntry, 0, len(s))
	for _, k := range s.Keys() {
		entries = append(entries, stayEntry{
			AgeGroup:  k.AgeGroup,
			Sex:       k.Sex,
			TimeGroup: k.TimeGroup,
			Insurance: k.Insurance,
			StayCount: s[k],
		})
	}
	return json.Marshal(entries)
}
