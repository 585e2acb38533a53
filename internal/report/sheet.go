package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx/v3"
)

// Sheet is the destination of the section writers.
type Sheet interface {
	// Text returns the raw text of a cell ("" when empty).
	Text(addr CellAddress) (string, error)
	// Number returns the numeric value of a cell; an empty cell reads as 0.
	Number(addr CellAddress) (float64, error)
	// SetNumber stores an integer value.
	SetNumber(addr CellAddress, v int) error
}

type xlsxSheet struct {
	sh *xlsx.Sheet
}

// NewSheet adapts an xlsx sheet to the Sheet interface.
func NewSheet(sh *xlsx.Sheet) Sheet {
	return xlsxSheet{sh: sh}
}

func (s xlsxSheet) cell(addr CellAddress) (*xlsx.Cell, error) {
	if !addr.Valid() {
		return nil, fmt.Errorf("invalid cell address %s", addr)
	}
	c, err := s.sh.Cell(addr.Row-1, addr.Col-1)
	if err != nil {
		return nil, fmt.Errorf("cell %s: %w", addr, err)
	}
	return c, nil
}

func (s xlsxSheet) Text(addr CellAddress) (string, error) {
	c, err := s.cell(addr)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

func (s xlsxSheet) Number(addr CellAddress) (float64, error) {
	c, err := s.cell(addr)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(c.Value) == "" {
		return 0, nil
	}
	f, err := c.Float()
	if err != nil {
		return 0, fmt.Errorf("cell %s holds non-numeric value %q", addr, c.Value)
	}
	return f, nil
}

func (s xlsxSheet) SetNumber(addr CellAddress, v int) error {
	c, err := s.cell(addr)
	if err != nil {
		return err
	}
	c.SetInt(v)
	return nil
}

// Workbook is a report document owned by a single run.
type Workbook struct {
	file  *xlsx.File
	sheet *xlsx.Sheet
}

// OpenTemplate loads the template workbook and selects the report sheet. An
// empty sheetName selects the first sheet.
func OpenTemplate(path, sheetName string) (*Workbook, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template %s: %w", path, err)
	}
	return NewWorkbook(file, sheetName)
}

// NewWorkbook wraps an already loaded workbook.
func NewWorkbook(file *xlsx.File, sheetName string) (*Workbook, error) {
	if len(file.Sheets) == 0 {
		return nil, &LayoutError{Section: "template", Reason: "workbook has no sheets"}
	}

	sh := file.Sheets[0]
	if sheetName != "" {
		var ok bool
		if sh, ok = file.Sheet[sheetName]; !ok {
			return nil, &LayoutError{Section: "template", Reason: fmt.Sprintf("sheet %q not found", sheetName)}
		}
	}
	return &Workbook{file: file, sheet: sh}, nil
}

// Sheet returns the report sheet.
func (w *Workbook) Sheet() Sheet {
	return NewSheet(w.sheet)
}

// SaveAtomic writes the workbook next to dest and renames it into place, so a
// failed save never leaves a partial document at dest.
func (w *Workbook) SaveAtomic(dest string) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp report file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := w.file.Write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close report: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize report: %w", err)
	}

	log.Debug().Str("path", dest).Msg("Report saved")
	return nil
}
