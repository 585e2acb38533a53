package report

import (
	"fmt"
	"slices"
	"strings"

	"remasep/internal/classify"
	"remasep/internal/stats"
	"remasep/internal/visit"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"
)

// Writer places the summaries into the fixed sections of the report sheet.
type Writer struct {
	layout Layout
}

// NewWriter validates the layout and returns a writer for it.
func NewWriter(layout Layout) (*Writer, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report layout: %w", err)
	}
	return &Writer{layout: layout}, nil
}

// Write fills every section. It stops at the first error; callers must then
// discard the sheet.
func (w *Writer) Write(sheet Sheet, s stats.Summaries) error {
	sections := []func(Sheet, stats.Summaries) error{
		w.writeAgeSex,
		w.writeAgeSexTriage,
		w.writeSpecialty,
		w.writeHospitalization,
		w.writeRejection,
	}
	for _, fn := range sections {
		if err := fn(sheet, s); err != nil {
			return err
		}
	}
	return nil
}

func set(sheet Sheet, section, key string, addr CellAddress, v int) error {
	if err := sheet.SetNumber(addr, v); err != nil {
		return &LayoutError{Section: section, Key: key, Address: addr.String(), Err: err}
	}
	return nil
}

// Section A: one male/female column pair per observed age band, in ascending
// band order starting at the base column.
func (w *Writer) writeAgeSex(sheet Sheet, s stats.Summaries) error {
	sec := w.layout.AgeSex
	for i, g := range s.AgeSex.Groups() {
		for _, sex := range []visit.Sex{visit.Male, visit.Female} {
			addr := Cell(sec.Row, pairColumn(sec.BaseCol, i, sex))
			key := fmt.Sprintf("age=%d sex=%s", g, sex)
			if err := set(sheet, "A", key, addr, s.AgeSex[stats.AgeSexKey{AgeGroup: g, Sex: sex}]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Section B: triage selects the row, the age band selects the column pair.
func (w *Writer) writeAgeSexTriage(sheet Sheet, s stats.Summaries) error {
	sec := w.layout.AgeSexTriage
	for _, k := range s.AgeSexTriage.Keys() {
		key := fmt.Sprintf("age=%d sex=%s triage=%d", k.AgeGroup, k.Sex, k.Triage)
		row, ok := sec.Rows[k.Triage]
		if !ok {
			return &LayoutError{Section: "B", Key: key, Reason: "no row for triage category"}
		}
		addr := Cell(row, pairColumn(sec.BaseCol, int(k.AgeGroup)-1, k.Sex))
		if err := set(sheet, "B", key, addr, s.AgeSexTriage[k]); err != nil {
			return err
		}
	}
	return nil
}

func normalizeLabel(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Section C: the template pre-labels one row per specialty; counts go on the
// matching row. Specialties without a labelled row are not written.
func (w *Writer) writeSpecialty(sheet Sheet, s stats.Summaries) error {
	sec := w.layout.Specialty

	rows := make(map[string]int)
	for r := sec.FirstRow; r <= sec.LastRow; r++ {
		addr := Cell(r, sec.LabelCol)
		label, err := sheet.Text(addr)
		if err != nil {
			return &LayoutError{Section: "C", Address: addr.String(), Err: err}
		}
		label = normalizeLabel(label)
		if label == "" {
			continue
		}
		if _, dup := rows[label]; !dup {
			rows[label] = r
		}
	}
	if len(rows) == 0 {
		return &LayoutError{
			Section: "C",
			Address: fmt.Sprintf("%s:%s", Cell(sec.FirstRow, sec.LabelCol), Cell(sec.LastRow, sec.LabelCol)),
			Reason:  "no specialty labels found",
		}
	}

	for _, name := range s.Specialty.Keys() {
		row, ok := rows[normalizeLabel(name)]
		if !ok {
			log.Warn().Str("specialty", name).Int("count", s.Specialty[name]).Msg("Specialty has no row in the template, skipping")
			continue
		}
		if err := set(sheet, "C", name, Cell(row, sec.ValueCol), s.Specialty[name]); err != nil {
			return err
		}
	}
	return nil
}

// Section D: hospitalization, one row per time band.
func (w *Writer) writeHospitalization(sheet Sheet, s stats.Summaries) error {
	return writeStays(sheet, "D", w.layout.Hospitalization, s.Hospitalization)
}

// Section D': rejections, every time band on one row.
func (w *Writer) writeRejection(sheet Sheet, s stats.Summaries) error {
	return writeStays(sheet, "D'", w.layout.Rejection, s.Rejection)
}

// writeStays folds the summary by cell and by row before touching the sheet:
// keys that differ only in insurance class share a count cell, and each row's
// total cell receives the sum of weightedSum for every key on that row, added
// once to whatever the template already holds there.
func writeStays(sheet Sheet, section string, sec StaySection, sum stats.StaySummary) error {
	counts := make(map[CellAddress]int)
	keys := make(map[CellAddress]string)
	totals := make(map[int]int)

	for _, k := range sum.Keys() {
		if k.AgeGroup < 1 || k.AgeGroup > classify.NumAgeGroups {
			return &LayoutError{Section: section, Key: stayKey(k), Reason: "age group outside the report columns"}
		}
		row := sec.Row(k.TimeGroup)
		addr := Cell(row, pairColumn(sec.BaseCol, int(k.AgeGroup)-1, k.Sex))
		counts[addr] += sum[k].Count
		if _, ok := keys[addr]; !ok {
			keys[addr] = stayKey(k)
		}
		totals[row] += sum[k].WeightedSum
	}

	addrs := make([]CellAddress, 0, len(counts))
	for a := range counts {
		addrs = append(addrs, a)
	}
	slices.SortFunc(addrs, func(a, b CellAddress) int {
		if a.Row != b.Row {
			return a.Row - b.Row
		}
		return a.Col - b.Col
	})
	for _, addr := range addrs {
		if err := set(sheet, section, keys[addr], addr, counts[addr]); err != nil {
			return err
		}
	}

	rows := make([]int, 0, len(totals))
	for r := range totals {
		rows = append(rows, r)
	}
	slices.Sort(rows)
	for _, row := range rows {
		addr := Cell(row, sec.TotalCol)
		current, err := sheet.Number(addr)
		if err != nil {
			return &LayoutError{Section: section, Key: fmt.Sprintf("row=%d total", row), Address: addr.String(), Err: err}
		}
		if err := set(sheet, section, fmt.Sprintf("row=%d total", row), addr, int(current)+totals[row]); err != nil {
			return err
		}
	}
	return nil
}

func stayKey(k stats.StayKey) string {
	return fmt.Sprintf("age=%d sex=%s time=%d insurance=%d", k.AgeGroup, k.Sex, k.TimeGroup, k.Insurance)
}
