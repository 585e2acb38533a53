// Package ingest reads emergency-department visit exports into visit records.
package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"remasep/internal/visit"

	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx/v3"
)

var (
	// ErrUnsupportedFormat is returned for files that are not .xlsx workbooks.
	ErrUnsupportedFormat = errors.New("unsupported input format")
	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("missing input column")
)

// Columns names the header of each field in the export.
type Columns struct {
	Age         string
	Admission   string
	Discharge   string
	Sex         string
	Insurance   string
	Diagnosis   string
	Triage      string
	Specialty   string // optional
	Disposition string // optional
}

// DefaultColumns returns the header names used by the hospital's export.
func DefaultColumns() Columns {
	return Columns{
		Age:         "Edad_Años",
		Admission:   "Ingreso",
		Discharge:   "Egreso",
		Sex:         "Sexo",
		Insurance:   "NOMPREVI",
		Diagnosis:   "Diagnóstico",
		Triage:      "Categorización",
		Specialty:   "Especialidad",
		Disposition: "Destino",
	}
}

// Options controls how rows become records.
type Options struct {
	Columns Columns
	// RejectedDisposition marks a visit as administratively rejected when the
	// disposition column matches it (accent and case insensitive).
	RejectedDisposition string
}

// DefaultOptions returns the reader defaults.
func DefaultOptions() Options {
	return Options{Columns: DefaultColumns(), RejectedDisposition: "RECHAZO"}
}

// ValidatePath rejects anything that is not an .xlsx workbook.
func ValidatePath(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return nil
	case ".xls":
		return fmt.Errorf("%w: %s is a legacy .xls workbook, save it as .xlsx", ErrUnsupportedFormat, filepath.Base(path))
	default:
		return fmt.Errorf("%w: %s (expected an .xlsx workbook)", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// ReadFile opens the workbook at path and reads its first sheet.
func ReadFile(path string, opts Options) ([]visit.Record, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input %s: %w", path, err)
	}
	return ReadWorkbook(file, opts)
}

type columnIndex struct {
	age, admission, discharge, sex, insurance, diagnosis, triage, specialty, disposition int
}

// ReadWorkbook reads visit records from the first sheet. Row 1 is the header.
func ReadWorkbook(file *xlsx.File, opts Options) ([]visit.Record, error) {
	if len(file.Sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMissingColumn)
	}
	sh := file.Sheets[0]

	header, err := sh.Row(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	idx, err := resolveColumns(header, sh.MaxCol, opts.Columns)
	if err != nil {
		return nil, err
	}

	rejected := fold(opts.RejectedDisposition)

	var records []visit.Record
	for r := 1; r < sh.MaxRow; r++ {
		row, err := sh.Row(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", r+1, err)
		}
		if blankRow(row, sh.MaxCol) {
			continue
		}
		records = append(records, mapRow(row, r+1, idx, rejected, file.Date1904))
	}

	log.Info().Str("sheet", sh.Name).Int("records", len(records)).Msg("Read visit records")
	return records, nil
}

func resolveColumns(header *xlsx.Row, maxCol int, cols Columns) (columnIndex, error) {
	positions := make(map[string]int)
	for c := 0; c < maxCol; c++ {
		name := fold(header.GetCell(c).Value)
		if _, dup := positions[name]; name != "" && !dup {
			positions[name] = c
		}
	}

	var missing []string
	find := func(name string, required bool) int {
		if i, ok := positions[fold(name)]; ok {
			return i
		}
		if required {
			missing = append(missing, name)
		}
		return -1
	}

	idx := columnIndex{
		age:         find(cols.Age, true),
		admission:   find(cols.Admission, true),
		discharge:   find(cols.Discharge, true),
		sex:         find(cols.Sex, true),
		insurance:   find(cols.Insurance, true),
		diagnosis:   find(cols.Diagnosis, true),
		triage:      find(cols.Triage, true),
		specialty:   find(cols.Specialty, false),
		disposition: find(cols.Disposition, false),
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

func blankRow(row *xlsx.Row, maxCol int) bool {
	for c := 0; c < maxCol; c++ {
		if strings.TrimSpace(row.GetCell(c).Value) != "" {
			return false
		}
	}
	return true
}

func cellAt(row *xlsx.Row, i int) *xlsx.Cell {
	if i < 0 {
		return nil
	}
	return row.GetCell(i)
}

func textAt(row *xlsx.Row, i int) string {
	if c := cellAt(row, i); c != nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

// mapRow converts one spreadsheet row. Unparseable values are kept as their
// zero/NaN form so the normalizer can report them.
func mapRow(row *xlsx.Row, rowNum int, idx columnIndex, rejected string, date1904 bool) visit.Record {
	rec := visit.Record{
		Row:               rowNum,
		Age:               parseAge(cellAt(row, idx.age)),
		Sex:               visit.ParseSex(textAt(row, idx.sex)),
		InsuranceName:     textAt(row, idx.insurance),
		Diagnosis:         textAt(row, idx.diagnosis),
		TriageCategory:    parseTriage(cellAt(row, idx.triage)),
		ReferralSpecialty: textAt(row, idx.specialty),
	}

	if t, ok := parseTimestamp(cellAt(row, idx.admission), date1904); ok {
		rec.AdmissionTime = t
	} else {
		log.Debug().Int("row", rowNum).Str("value", textAt(row, idx.admission)).Msg("Unparseable admission time")
	}
	if t, ok := parseTimestamp(cellAt(row, idx.discharge), date1904); ok {
		rec.DischargeTime = t
	} else {
		log.Debug().Int("row", rowNum).Str("value", textAt(row, idx.discharge)).Msg("Unparseable discharge time")
	}

	if rejected != "" && idx.disposition >= 0 {
		rec.Rejected = fold(textAt(row, idx.disposition)) == rejected
	}
	return rec
}
