package report

import (
	"fmt"
	"time"
)

// DefaultPrefix is used when no report prefix is configured.
const DefaultPrefix = "REPORT"

// Filename builds <prefix>_<first:YYYYMMDD>_<last:YYYYMMDD>.xlsx.
func Filename(prefix string, first, last time.Time) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s_%s_%s.xlsx", prefix, first.Format("20060102"), last.Format("20060102"))
}
