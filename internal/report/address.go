package report

import (
	"fmt"
	"strconv"
	"strings"
)

// CellAddress is a 1-based (row, column) coordinate in the report sheet.
type CellAddress struct {
	Row int
	Col int
}

// Cell builds an address from 1-based row and column numbers.
func Cell(row, col int) CellAddress {
	return CellAddress{Row: row, Col: col}
}

// Valid reports whether both coordinates are 1-based positive numbers.
func (a CellAddress) Valid() bool {
	return a.Row >= 1 && a.Col >= 1
}

// String renders the address in A1 notation (column 1 = "A", 27 = "AA").
func (a CellAddress) String() string {
	if !a.Valid() {
		return fmt.Sprintf("R%dC%d", a.Row, a.Col)
	}
	return ColumnLetters(a.Col) + strconv.Itoa(a.Row)
}

// ColumnLetters converts a 1-based column number to its spreadsheet letters.
func ColumnLetters(col int) string {
	if col < 1 {
		return ""
	}
	var buf [8]byte
	i := len(buf)
	for col > 0 {
		col--
		i--
		buf[i] = byte('A' + col%26)
		col /= 26
	}
	return string(buf[i:])
}

// ColumnNumber converts spreadsheet letters to a 1-based column number.
func ColumnNumber(letters string) (int, error) {
	if letters == "" {
		return 0, fmt.Errorf("empty column reference")
	}
	n := 0
	for _, r := range strings.ToUpper(letters) {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column reference %q", letters)
		}
		n = n*26 + int(r-'A') + 1
	}
	return n, nil
}

// ParseCellAddress parses an A1-notation reference such as "AN56".
func ParseCellAddress(ref string) (CellAddress, error) {
	i := strings.IndexAny(ref, "0123456789")
	if i <= 0 {
		return CellAddress{}, fmt.Errorf("invalid cell reference %q", ref)
	}
	col, err := ColumnNumber(ref[:i])
	if err != nil {
		return CellAddress{}, err
	}
	row, err := strconv.Atoi(ref[i:])
	if err != nil || row < 1 {
		return CellAddress{}, fmt.Errorf("invalid row in cell reference %q", ref)
	}
	return CellAddress{Row: row, Col: col}, nil
}
