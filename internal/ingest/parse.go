package ingest

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/tealeg/xlsx/v3"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold upper-cases s and strips diacritics so that "Diagnóstico" and
// "DIAGNOSTICO" compare equal.
func fold(s string) string {
	out, _, err := transform.String(foldAccents, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(strings.TrimSpace(out))
}

// timestampLayouts are tried in order for text timestamps.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
}

// parseTimestamp reads a date-formatted cell, an Excel serial number or a text timestamp.
func parseTimestamp(c *xlsx.Cell, date1904 bool) (time.Time, bool) {
	if c == nil {
		return time.Time{}, false
	}
	raw := strings.TrimSpace(c.Value)
	if raw == "" {
		return time.Time{}, false
	}

	if c.IsTime() {
		if t, err := c.GetTime(date1904); err == nil {
			return t, true
		}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		return xlsx.TimeFromExcelTime(serial, date1904), true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAge accepts numeric cells and numeric strings with either decimal separator.
func parseAge(c *xlsx.Cell) float64 {
	if c == nil {
		return math.NaN()
	}
	raw := strings.ReplaceAll(strings.TrimSpace(c.Value), ",", ".")
	if raw == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

var triageDigit = regexp.MustCompile(`^(?:C|ESI|CAT(?:EGORIA)?)?\s*([0-9])$`)

// parseTriage maps "C1".."C5", "ESI 3" or plain digits to a category. Empty and
// "sin categorizar" values are category 0; anything else is -1.
func parseTriage(c *xlsx.Cell) int {
	if c == nil {
		return 0
	}
	raw := fold(c.Value)
	if raw == "" || strings.HasPrefix(raw, "SIN CATEGORIZ") {
		return 0
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == math.Trunc(f) {
		return int(f)
	}
	m := triageDigit.FindStringSubmatch(raw)
	if m == nil {
		return -1
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
