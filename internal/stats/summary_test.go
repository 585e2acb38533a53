package stats

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"remasep/internal/classify"
	"remasep/internal/visit"
)

func TestSummarizeByAgeSex_TotalMatchesClassifiedAges(t *testing.T) {
	records := []visit.Record{
		visitAt(1, visit.Male, 1),
		visitAt(3, visit.Male, 1),
		visitAt(7, visit.Female, 1),
		visitAt(85, visit.Female, 1),
		visitAt(math.NaN(), visit.Male, 1),
		visitAt(-4, visit.Female, 1),
	}
	out, _ := Normalize(records)
	sum := SummarizeByAgeSex(out)

	withAge := 0
	for _, r := range out {
		if r.AgeGroup > 0 {
			withAge++
		}
	}
	if sum.Total() != withAge {
		t.Errorf("Expected total %d, got %d", withAge, sum.Total())
	}
	if sum[AgeSexKey{AgeGroup: 1, Sex: visit.Male}] != 2 {
		t.Errorf("Expected 2 males in group 1, got %d", sum[AgeSexKey{AgeGroup: 1, Sex: visit.Male}])
	}
	if sum[AgeSexKey{AgeGroup: 17, Sex: visit.Female}] != 1 {
		t.Errorf("Expected 1 female in group 17")
	}

	groups := sum.Groups()
	if !reflect.DeepEqual(groups, []classify.AgeGroup{1, 2, 17}) {
		t.Errorf("Expected sorted groups [1 2 17], got %v", groups)
	}
}

func TestSummarizeByAgeSexTriage_ZeroIsABucket(t *testing.T) {
	a := visitAt(20, visit.Male, 1)
	a.TriageCategory = 0
	b := visitAt(21, visit.Male, 1)
	b.TriageCategory = 0
	c := visitAt(22, visit.Male, 1)
	c.TriageCategory = 2
	d := visitAt(22, visit.Male, 1)
	d.TriageCategory = -1

	out, _ := Normalize([]visit.Record{a, b, c, d})
	sum := SummarizeByAgeSexTriage(out)

	if sum[AgeSexTriageKey{AgeGroup: 5, Sex: visit.Male, Triage: 0}] != 2 {
		t.Errorf("Expected 2 untriaged visits, got %v", sum)
	}
	if sum[AgeSexTriageKey{AgeGroup: 5, Sex: visit.Male, Triage: 2}] != 1 {
		t.Errorf("Expected 1 triage-2 visit, got %v", sum)
	}
	if len(sum) != 2 {
		t.Errorf("Expected invalid triage to be excluded, got %d keys", len(sum))
	}
}

func TestSummarizeBySpecialty(t *testing.T) {
	a := visitAt(20, visit.Male, 1)
	a.ReferralSpecialty = "TRAUMATOLOGIA GENERAL"
	b := visitAt(30, visit.Female, 1)
	b.ReferralSpecialty = "TRAUMATOLOGIA RODILLA"
	c := visitAt(40, visit.Female, 1)

	out, _ := Normalize([]visit.Record{a, b, c})
	sum := SummarizeBySpecialty(out)

	if len(sum) != 1 {
		t.Fatalf("Expected 1 specialty, got %v", sum)
	}
	if sum["TRAUMATOLOGÍA Y ORTOPEDIA"] != 2 {
		t.Errorf("Expected both spellings to collapse, got %v", sum)
	}
}

func TestSummarizeStays_DisjointSubsets(t *testing.T) {
	hosp1 := visitAt(30, visit.Male, 5)
	hosp2 := visitAt(31, visit.Male, 6)
	hosp2.InsuranceName = "ISAPRE"
	hosp3 := visitAt(31, visit.Male, 6)
	long := visitAt(31, visit.Female, 30)
	rejected := visitAt(31, visit.Male, 5)
	rejected.Rejected = true
	negative := visitAt(31, visit.Male, -1)

	out, _ := Normalize([]visit.Record{hosp1, hosp2, hosp3, long, rejected, negative})

	hosp := SummarizeHospitalization(out)
	rej := SummarizeRejection(out)

	fonasa := hosp[StayKey{AgeGroup: 7, Sex: visit.Male, TimeGroup: 1, Insurance: 1}]
	if fonasa.Count != 2 || fonasa.WeightedSum != 2 {
		t.Errorf("Expected {2 2} for FONASA males, got %+v", fonasa)
	}
	other := hosp[StayKey{AgeGroup: 7, Sex: visit.Male, TimeGroup: 1, Insurance: 0}]
	if other.Count != 1 || other.WeightedSum != 0 {
		t.Errorf("Expected {1 0} for ISAPRE male, got %+v", other)
	}
	if hosp[StayKey{AgeGroup: 7, Sex: visit.Female, TimeGroup: 3, Insurance: 1}].Count != 1 {
		t.Errorf("Expected the long stay in time group 3")
	}

	if len(rej) != 1 {
		t.Fatalf("Expected 1 rejection key, got %d", len(rej))
	}
	if rej[StayKey{AgeGroup: 7, Sex: visit.Male, TimeGroup: 1, Insurance: 1}].Count != 1 {
		t.Errorf("Expected the rejected visit in the rejection summary, got %v", rej)
	}

	total := 0
	for _, c := range hosp {
		total += c.Count
	}
	if total != 4 {
		t.Errorf("Expected 4 hospitalization visits (negative stay excluded), got %d", total)
	}
}

func TestSummarize_Deterministic(t *testing.T) {
	records := []visit.Record{
		visitAt(6, visit.Male, 10),
		visitAt(45, visit.Female, 13),
		visitAt(81, visit.Female, 30),
	}
	records[1].ReferralSpecialty = "UROLOGIA"

	out1, _ := Normalize(records)
	out2, _ := Normalize(records)
	s1, s2 := Summarize(out1), Summarize(out2)

	if !reflect.DeepEqual(s1, s2) {
		t.Errorf("Expected identical summaries across runs")
	}

	j1, err := json.Marshal(s1)
	if err != nil {
		t.Fatalf("Failed to marshal summaries: %v", err)
	}
	j2, _ := json.Marshal(s2)
	if string(j1) != string(j2) {
		t.Errorf("Expected identical JSON across runs")
	}
}

func TestStaySummary_MarshalJSON(t *testing.T) {
	sum := StaySummary{
		{AgeGroup: 2, Sex: visit.Female, TimeGroup: 2, Insurance: 0}: {Count: 1},
		{AgeGroup: 1, Sex: visit.Male, TimeGroup: 1, Insurance: 1}:   {Count: 3, WeightedSum: 3},
	}

	data, err := json.Marshal(sum)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0]["timeGroup"].(float64) != 1 || entries[0]["weightedSum"].(float64) != 3 {
		t.Errorf("Expected time group 1 first with weightedSum 3, got %v", entries[0])
	}
}
