package engine

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"remasep/internal/classify"
	"remasep/internal/ingest"
	"remasep/internal/report"

	"github.com/tealeg/xlsx/v3"
	"golang.org/x/sync/errgroup"
)

type GeneratorConfig struct {
	Scenario     string // "clean" or "dirty"
	Distribution string // "uniform" or "weibull"
	Count        int
	Seed         int64
	Now          time.Time
}

// Row is one synthetic export row. Text fields are written verbatim so that
// the dirty scenario can produce values the reader must reject.
type Row struct {
	Age         string
	Admission   time.Time
	Discharge   time.Time
	Sex         string
	Insurance   string
	Diagnosis   string
	Triage      string
	Specialty   string
	Disposition string
}

var (
	insurers     = []string{"FONASA", "FONASA", "FONASA", "ISAPRE", "PARTICULAR", "CAPREDENA"}
	rawSpecialty = []string{"", "", "", "CIRUGIA GENERAL", "UROLOGIA", "MEDICINA INTERNA", "OFTALMOLOGIA", "TRAUMATOLOGIA GENERAL", "NEUROLOGIA"}
	triages      = []string{"C1", "C2", "C3", "C3", "C4", "C4", "C5", ""}
	dispositions = []string{"ALTA", "ALTA", "ALTA", "HOSPITALIZACION", "RECHAZO"}
)

func Generate(cfg GeneratorConfig) []Row {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	pick := func(xs []string) string { return xs[rng.Intn(len(xs))] }

	// Arrivals spread over the month before Now.
	start := cfg.Now.AddDate(0, -1, 0).Truncate(time.Hour)
	span := cfg.Now.Sub(start)

	rows := make([]Row, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		admission := start.Add(time.Duration(float64(span) * float64(i) / float64(max(cfg.Count, 1))))

		var stayHours float64
		if cfg.Distribution == "weibull" {
			stayHours = weibullSample(rng, 1.3, 9.0)
		} else {
			stayHours = 0.5 + rng.Float64()*36
		}

		sex := "M"
		if rng.Intn(2) == 1 {
			sex = "F"
		}

		row := Row{
			Age:         fmt.Sprintf("%d", rng.Intn(95)),
			Admission:   admission,
			Discharge:   admission.Add(time.Duration(stayHours * float64(time.Hour))),
			Sex:         sex,
			Insurance:   pick(insurers),
			Diagnosis:   fmt.Sprintf("DIAG-%03d", rng.Intn(200)),
			Triage:      pick(triages),
			Specialty:   pick(rawSpecialty),
			Disposition: pick(dispositions),
		}

		if cfg.Scenario == "dirty" {
			corrupt(rng, &row)
		}
		rows = append(rows, row)
	}
	return rows
}

// corrupt injects the data-quality problems seen in real exports.
func corrupt(rng *rand.Rand, row *Row) {
	switch rng.Intn(12) {
	case 0:
		row.Diagnosis = "NO ESPERA ATENCIÓN"
	case 1:
		row.Diagnosis = "MAL INGRESADO - FOLIO NULO"
	case 2:
		row.Age = "S/I"
	case 3:
		row.Discharge = time.Time{}
	case 4:
		row.Discharge = row.Admission.Add(-time.Hour)
	case 5:
		row.Sex = "?"
	case 6:
		row.Triage = "ROJO"
	case 7:
		row.Specialty = "PEDIATRIA"
	}
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

// Save writes visits.xlsx and a blank report template under outDir.
func Save(outDir string, rows []Row) error {
	if err := os.MkdirAll(filepath.Join(outDir, "en_blanco"), 0755); err != nil {
		return err
	}
	var g errgroup.Group
	g.Go(func() error { return saveVisits(filepath.Join(outDir, "visits.xlsx"), rows) })
	g.Go(func() error { return saveTemplate(filepath.Join(outDir, "en_blanco", "Urgencia.xlsx")) })
	return g.Wait()
}

func saveVisits(path string, rows []Row) error {
	file := xlsx.NewFile()
	sh, err := file.AddSheet("Datos")
	if err != nil {
		return err
	}

	cols := ingest.DefaultColumns()
	header := sh.AddRow()
	for _, h := range []string{cols.Age, cols.Admission, cols.Discharge, cols.Sex, cols.Insurance, cols.Diagnosis, cols.Triage, cols.Specialty, cols.Disposition} {
		header.AddCell().SetString(h)
	}

	for _, r := range rows {
		row := sh.AddRow()
		row.AddCell().SetString(r.Age)
		for _, t := range []time.Time{r.Admission, r.Discharge} {
			c := row.AddCell()
			if !t.IsZero() {
				c.SetDateTime(t)
			}
		}
		for _, v := range []string{r.Sex, r.Insurance, r.Diagnosis, r.Triage, r.Specialty, r.Disposition} {
			row.AddCell().SetString(v)
		}
	}
	return file.Save(path)
}

// saveTemplate writes a template carrying the specialty labels and zeroed
// total cells, which is all the report writer requires.
func saveTemplate(path string) error {
	file := xlsx.NewFile()
	sh, err := file.AddSheet("Urgencia")
	if err != nil {
		return err
	}

	layout := report.DefaultLayout()
	setString := func(addr report.CellAddress, v string) error {
		c, err := sh.Cell(addr.Row-1, addr.Col-1)
		if err != nil {
			return err
		}
		c.SetString(v)
		return nil
	}
	setZero := func(addr report.CellAddress) error {
		c, err := sh.Cell(addr.Row-1, addr.Col-1)
		if err != nil {
			return err
		}
		c.SetInt(0)
		return nil
	}

	labels := layout.Specialty
	for i, label := range classify.CanonicalSpecialties() {
		if err := setString(report.Cell(labels.FirstRow+i, labels.LabelCol), label); err != nil {
			return err
		}
	}

	hosp := layout.Hospitalization
	for _, tg := range []classify.TimeGroup{classify.TimeUnder12, classify.TimeUnder24, classify.TimeOver24} {
		if err := setString(report.Cell(hosp.Row(tg), hosp.BaseCol-1), tg.Label()); err != nil {
			return err
		}
		if err := setZero(report.Cell(hosp.Row(tg), hosp.TotalCol)); err != nil {
			return err
		}
	}
	rej := layout.Rejection
	if err := setZero(report.Cell(rej.BaseRow, rej.TotalCol)); err != nil {
		return err
	}

	return file.Save(path)
}
