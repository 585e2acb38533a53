package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"remasep/internal/config"
	"remasep/internal/ingest"
	"remasep/internal/report"
	"remasep/internal/stats"
	"remasep/internal/visit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
)

var inputHeader = []string{"Edad_Años", "Ingreso", "Egreso", "Sexo", "NOMPREVI", "Diagnóstico", "Categorización", "Especialidad", "Destino"}

var scenario = [][]string{
	{"6", "2024-03-01 08:00:00", "2024-03-01 18:00:00", "M", "FONASA", "X", "2", "UROLOGIA", "ALTA"},
	{"6", "2024-03-02 09:00:00", "2024-03-02 14:00:00", "F", "PARTICULAR", "X", "2", "", "ALTA"},
	{"30", "2024-03-03 10:00:00", "2024-03-04 16:00:00", "F", "ISAPRE", "Y", "3", "MEDICINA INTERNA", "HOSPITALIZACION"},
	{"50", "2024-03-04 10:00:00", "2024-03-04 11:00:00", "M", "FONASA", "NO ESPERA ATENCIÓN", "4", "", ""},
}

func writeInput(t *testing.T, dir string, rows [][]string) string {
	t.Helper()
	file := xlsx.NewFile()
	sh, err := file.AddSheet("Datos")
	require.NoError(t, err)
	for _, values := range append([][]string{inputHeader}, rows...) {
		row := sh.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}
	path := filepath.Join(dir, "visits.xlsx")
	require.NoError(t, file.Save(path))
	return path
}

func writeTemplate(t *testing.T, dir string, labels ...string) string {
	t.Helper()
	file := xlsx.NewFile()
	sh, err := file.AddSheet("Urgencia")
	require.NoError(t, err)

	sec := report.DefaultLayout().Specialty
	for i, label := range labels {
		c, err := sh.Cell(sec.FirstRow+i-1, sec.LabelCol-1)
		require.NoError(t, err)
		c.SetString(label)
	}

	path := filepath.Join(dir, "template.xlsx")
	require.NoError(t, file.Save(path))
	return path
}

func newRun(t *testing.T, labels ...string) Run {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.AppConfig{
		TemplatePath:        writeTemplate(t, dir, labels...),
		OutputDir:           filepath.Join(dir, "out"),
		ReportPrefix:        "REMASEP",
		RejectedDisposition: "RECHAZO",
		Columns:             ingest.DefaultColumns(),
	}
	return NewRun(cfg, writeInput(t, dir, scenario))
}

func openReport(t *testing.T, path string) report.Sheet {
	t.Helper()
	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, file.Sheets)
	return report.NewSheet(file.Sheets[0])
}

func valueAt(t *testing.T, sheet report.Sheet, ref string) float64 {
	t.Helper()
	addr, err := report.ParseCellAddress(ref)
	require.NoError(t, err)
	v, err := sheet.Number(addr)
	require.NoError(t, err)
	return v
}

func TestGenerate_EndToEnd(t *testing.T) {
	run := newRun(t, "MEDICINA INTERNA", "UROLOGÍA")

	res, err := Generate(context.Background(), run)
	require.NoError(t, err)

	assert.Equal(t, "REMASEP_20240301_20240303.xlsx", filepath.Base(res.OutputPath))
	assert.Equal(t, run.ID.String(), res.RunID)
	assert.Equal(t, 4, res.Diagnostics.Total)
	assert.Equal(t, 1, res.Diagnostics.ExcludedNonVisits)
	assert.Equal(t, 3, res.Diagnostics.Classified)

	sheet := openReport(t, res.OutputPath)

	// Section A: age band 2 is the first observed pair, age band 7 the second.
	assert.Equal(t, 1.0, valueAt(t, sheet, "E12"))
	assert.Equal(t, 1.0, valueAt(t, sheet, "F12"))
	assert.Equal(t, 0.0, valueAt(t, sheet, "G12"))
	assert.Equal(t, 1.0, valueAt(t, sheet, "H12"))

	// Section B: triage 2 row, age band 2 pair; triage 3 row, age band 7 female.
	assert.Equal(t, 1.0, valueAt(t, sheet, "G22"))
	assert.Equal(t, 1.0, valueAt(t, sheet, "H22"))
	assert.Equal(t, 1.0, valueAt(t, sheet, "R23"))

	// Section C.
	assert.Equal(t, 1.0, valueAt(t, sheet, "D31"))
	assert.Equal(t, 1.0, valueAt(t, sheet, "D32"))

	// Section D: both age-6 visits stayed under 12h and carry a counted insurance.
	assert.Equal(t, 1.0, valueAt(t, sheet, "H56"))
	assert.Equal(t, 1.0, valueAt(t, sheet, "I56"))
	assert.Equal(t, 2.0, valueAt(t, sheet, "AN56"))
	assert.Equal(t, 1.0, valueAt(t, sheet, "S58"))
	assert.Equal(t, 0.0, valueAt(t, sheet, "AN58"))
}

func TestGenerate_ExcludedDiagnosisNeverCounted(t *testing.T) {
	run := newRun(t, "MEDICINA INTERNA")
	analysis, err := Analyze(context.Background(), run)
	require.NoError(t, err)

	// The excluded visit is the only male aged 50 (band 11).
	for k := range analysis.Summaries.AgeSex {
		assert.NotEqual(t, 11, int(k.AgeGroup))
	}
	for k := range analysis.Summaries.AgeSexTriage {
		assert.NotEqual(t, 4, k.Triage)
	}
	assert.Equal(t, 3, analysis.Summaries.AgeSex.Total())
}

func TestGenerate_NoPartialOutput(t *testing.T) {
	run := newRun(t) // template without specialty labels

	_, err := Generate(context.Background(), run)
	require.Error(t, err)
	assert.True(t, errors.Is(err, report.ErrLayoutMismatch))

	entries, err := os.ReadDir(run.OutputDir)
	if err == nil {
		assert.Empty(t, entries)
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	run := newRun(t, "MEDICINA INTERNA")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Generate(ctx, run)
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(run.OutputDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestProcess_NoVisits(t *testing.T) {
	_, err := Process([]visit.Record{{Diagnosis: stats.DiagnosisNoWait}, {Diagnosis: stats.DiagnosisNullFolio}})
	assert.ErrorIs(t, err, ErrNoVisits)

	_, err = Process(nil)
	assert.ErrorIs(t, err, ErrNoVisits)
}

func TestGenerate_Deterministic(t *testing.T) {
	run := newRun(t, "MEDICINA INTERNA", "UROLOGÍA")
	first, err := Generate(context.Background(), run)
	require.NoError(t, err)

	run.OutputDir = filepath.Join(t.TempDir(), "again")
	second, err := Generate(context.Background(), run)
	require.NoError(t, err)

	assert.Equal(t, first.Summaries, second.Summaries)

	a, b := openReport(t, first.OutputPath), openReport(t, second.OutputPath)
	for _, ref := range []string{"E12", "F12", "H12", "G22", "H22", "R23", "D31", "D32", "H56", "I56", "AN56", "S58"} {
		assert.Equal(t, valueAt(t, a, ref), valueAt(t, b, ref), ref)
	}
}
