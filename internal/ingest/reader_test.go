package ingest

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"remasep/internal/visit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
)

var header = []string{"Edad_Años", "Ingreso", "Egreso", "Sexo", "NOMPREVI", "Diagnóstico", "Categorización", "Especialidad", "Destino"}

func newInput(t *testing.T, rows ...[]string) *xlsx.File {
	t.Helper()
	file := xlsx.NewFile()
	sh, err := file.AddSheet("Datos")
	require.NoError(t, err)

	for _, values := range append([][]string{header}, rows...) {
		row := sh.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}
	return file
}

func TestReadWorkbook_MapsFields(t *testing.T) {
	file := newInput(t,
		[]string{"6", "2024-03-01 08:00:00", "2024-03-01 18:00:00", "M", "FONASA", "X", "C2", "", ""},
		[]string{"45,5", "01/03/2024 09:30", "02/03/2024 10:30", "MUJER", "ISAPRE", "Y", "ESI 4", "UROLOGIA", "Rechazo"},
		[]string{"", "", "", "", "", "", "", "", ""},
		[]string{"abc", "garbage", "2024-03-02", "?", "PARTICULAR", "NO ESPERA ATENCIÓN", "", "", "ALTA"},
	)

	records, err := ReadWorkbook(file, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, records, 3, "blank rows are skipped")

	first := records[0]
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, 6.0, first.Age)
	assert.Equal(t, visit.Male, first.Sex)
	assert.Equal(t, "FONASA", first.InsuranceName)
	assert.Equal(t, 2, first.TriageCategory)
	assert.InDelta(t, 10.0, first.ElapsedHours(), 1e-9)
	assert.False(t, first.Rejected)

	second := records[1]
	assert.Equal(t, 45.5, second.Age)
	assert.Equal(t, visit.Female, second.Sex)
	assert.Equal(t, 4, second.TriageCategory)
	assert.Equal(t, "UROLOGIA", second.ReferralSpecialty)
	assert.True(t, second.Rejected, "disposition match ignores case")
	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), second.AdmissionTime)
	assert.InDelta(t, 25.0, second.ElapsedHours(), 1e-9)

	third := records[2]
	assert.Equal(t, 5, third.Row)
	assert.True(t, math.IsNaN(third.Age))
	assert.True(t, third.AdmissionTime.IsZero())
	assert.Equal(t, visit.Unknown, third.Sex)
	assert.Equal(t, 0, third.TriageCategory)
	assert.False(t, third.Rejected)
	assert.Equal(t, "NO ESPERA ATENCIÓN", third.Diagnosis)
}

func TestReadWorkbook_DateCells(t *testing.T) {
	file := newInput(t)
	sh := file.Sheets[0]

	in := time.Date(2024, 5, 10, 22, 0, 0, 0, time.UTC)
	row := sh.AddRow()
	row.AddCell().SetInt(80)
	row.AddCell().SetDateTime(in)
	row.AddCell().SetDateTime(in.Add(26 * time.Hour))
	for _, v := range []string{"F", "FONASA", "X", "5", "", ""} {
		row.AddCell().SetString(v)
	}

	records, err := ReadWorkbook(file, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, 80.0, rec.Age)
	assert.Equal(t, 5, rec.TriageCategory)
	assert.WithinDuration(t, in, rec.AdmissionTime, time.Second)
	assert.InDelta(t, 26.0, rec.ElapsedHours(), 0.001)
}

func TestReadWorkbook_HeaderMatchingIgnoresAccentsAndCase(t *testing.T) {
	file := xlsx.NewFile()
	sh, err := file.AddSheet("Datos")
	require.NoError(t, err)
	row := sh.AddRow()
	for _, h := range []string{"EDAD_AÑOS", "ingreso", "EGRESO", "sexo", "NomPrevi", "DIAGNOSTICO", "CATEGORIZACION"} {
		row.AddCell().SetString(h)
	}
	row = sh.AddRow()
	for _, v := range []string{"30", "2024-01-01 00:00", "2024-01-01 01:00", "H", "FONASA", "X", "3"} {
		row.AddCell().SetString(v)
	}

	records, err := ReadWorkbook(file, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, visit.Male, records[0].Sex)
	assert.Empty(t, records[0].ReferralSpecialty, "optional columns may be absent")
}

func TestReadWorkbook_MissingColumns(t *testing.T) {
	file := xlsx.NewFile()
	sh, err := file.AddSheet("Datos")
	require.NoError(t, err)
	row := sh.AddRow()
	row.AddCell().SetString("Edad_Años")
	row.AddCell().SetString("Ingreso")

	_, err = ReadWorkbook(file, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), "Egreso")
	assert.Contains(t, err.Error(), "NOMPREVI")
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, ValidatePath("visits.xlsx"))
	assert.NoError(t, ValidatePath(filepath.Join("data", "VISITS.XLSX")))
	assert.True(t, errors.Is(ValidatePath("visits.xls"), ErrUnsupportedFormat))
	assert.True(t, errors.Is(ValidatePath("visits.csv"), ErrUnsupportedFormat))

	_, err := ReadFile("visits.xls", DefaultOptions())
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestParseTriage(t *testing.T) {
	file := xlsx.NewFile()
	sh, err := file.AddSheet("T")
	require.NoError(t, err)
	row := sh.AddRow()

	tests := map[string]int{
		"":                0,
		"SIN CATEGORIZAR": 0,
		"0":               0,
		"1":               1,
		"C3":              3,
		"c5":              5,
		"ESI 2":           2,
		"Categoría 4":     4,
		"4.0":             4,
		"ROJO":            -1,
	}
	for raw, want := range tests {
		c := row.AddCell()
		c.SetString(raw)
		assert.Equal(t, want, parseTriage(c), raw)
	}
}
