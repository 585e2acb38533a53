package visuals

import (
	"fmt"
	"math"
	"strings"

	"remasep/internal/classify"
	"remasep/internal/stats"
	"remasep/internal/visit"
)

func yMax(maxVal int) int {
	return maxVal + int(math.Max(1, math.Ceil(float64(maxVal)*0.2)))
}

func quoted(labels []string) string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = fmt.Sprintf("\"%s\"", l)
	}
	return strings.Join(out, ", ")
}

func ints(values []int) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(out, ", ")
}

// GeneratePyramidChart creates a Mermaid xychart-beta with one male and one
// female bar series over every age band.
func GeneratePyramidChart(summary stats.AgeSexSummary) string {
	if summary.Total() == 0 {
		return ""
	}

	labels := make([]string, 0, classify.NumAgeGroups)
	male := make([]int, 0, classify.NumAgeGroups)
	female := make([]int, 0, classify.NumAgeGroups)
	maxVal := 0
	for g := classify.AgeGroup(1); g <= classify.NumAgeGroups; g++ {
		m := summary[stats.AgeSexKey{AgeGroup: g, Sex: visit.Male}]
		f := summary[stats.AgeSexKey{AgeGroup: g, Sex: visit.Female}]
		labels = append(labels, g.Label())
		male = append(male, m)
		female = append(female, f)
		maxVal = max(maxVal, m, f)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Visits by Age and Sex (M, F)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", quoted(labels)))
	sb.WriteString(fmt.Sprintf("    y-axis \"Visits\" 0 --> %d\n", yMax(maxVal)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", ints(male)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", ints(female)))
	sb.WriteString("```")
	return sb.String()
}

// GenerateTriageChart creates a Mermaid bar chart of visits per triage category.
func GenerateTriageChart(summary stats.AgeSexTriageSummary) string {
	if len(summary) == 0 {
		return ""
	}

	counts := make([]int, 6)
	for k, n := range summary {
		counts[k.Triage] += n
	}

	// Categories 1-5 first, uncategorized last, as on the report.
	order := []int{1, 2, 3, 4, 5, 0}
	labels := make([]string, 0, len(order))
	values := make([]int, 0, len(order))
	maxVal := 0
	for _, c := range order {
		label := fmt.Sprintf("C%d", c)
		if c == 0 {
			label = "Sin cat."
		}
		labels = append(labels, label)
		values = append(values, counts[c])
		maxVal = max(maxVal, counts[c])
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Visits by Triage Category\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", quoted(labels)))
	sb.WriteString(fmt.Sprintf("    y-axis \"Visits\" 0 --> %d\n", yMax(maxVal)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", ints(values)))
	sb.WriteString("```")
	return sb.String()
}

// GenerateStayChart creates a Mermaid bar chart of stays per elapsed-time band.
func GenerateStayChart(title string, summary stats.StaySummary) string {
	if len(summary) == 0 {
		return ""
	}

	bands := []classify.TimeGroup{classify.TimeUnder12, classify.TimeUnder24, classify.TimeOver24}
	counts := make(map[classify.TimeGroup]int, len(bands))
	for k, c := range summary {
		counts[k.TimeGroup] += c.Count
	}

	labels := make([]string, 0, len(bands))
	values := make([]int, 0, len(bands))
	maxVal := 0
	for _, b := range bands {
		labels = append(labels, b.Label())
		values = append(values, counts[b])
		maxVal = max(maxVal, counts[b])
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"%s\"\n", title))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", quoted(labels)))
	sb.WriteString(fmt.Sprintf("    y-axis \"Visits\" 0 --> %d\n", yMax(maxVal)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", ints(values)))
	sb.WriteString("```")
	return sb.String()
}

// GenerateAll renders every chart that has data, separated by blank lines.
func GenerateAll(s stats.Summaries) string {
	var charts []string
	for _, c := range []string{
		GeneratePyramidChart(s.AgeSex),
		GenerateTriageChart(s.AgeSexTriage),
		GenerateStayChart("Hospitalization by Length of Stay", s.Hospitalization),
		GenerateStayChart("Rejections by Length of Stay", s.Rejection),
	} {
		if c != "" {
			charts = append(charts, c)
		}
	}
	return strings.Join(charts, "\n\n")
}
