package mcp

import (
	"fmt"
	"sort"

	"remasep/internal/pipeline"
)

// WrapResponse attaches operator-facing warnings to a tool payload.
func WrapResponse(data any, warnings []string) map[string]any {
	resp := map[string]any{"data": data}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	return resp
}

// warnings turns classification diagnostics into readable notes.
func warnings(a pipeline.Analysis) []string {
	d := a.Diagnostics
	var out []string
	add := func(n int, what string) {
		if n > 0 {
			out = append(out, fmt.Sprintf("%d of %d visits had %s and were left out of the affected sections.", n, d.Classified, what))
		}
	}
	add(d.AgeFailures, "an unusable age")
	add(d.TimeFailures, "unusable admission/discharge times")
	add(d.SexFailures, "an unrecognized sex")
	add(d.TriageFailures, "an unrecognized triage category")

	if len(d.UnmappedSpecialties) > 0 {
		names := make([]string, 0, len(d.UnmappedSpecialties))
		for name := range d.UnmappedSpecialties {
			names = append(names, name)
		}
		sort.Strings(names)
		out = append(out, fmt.Sprintf("Specialties without a report label: %v", names))
	}
	return out
}
