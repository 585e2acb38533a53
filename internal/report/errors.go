package report

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLayoutMismatch is returned when the destination sheet lacks the structure a section needs.
var ErrLayoutMismatch = errors.New("template layout mismatch")

// LayoutError carries the section, key and cell that could not be written.
type LayoutError struct {
	Section string
	Key     string
	Address string
	Reason  string
	Err     error
}

func (e *LayoutError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s in section %s", ErrLayoutMismatch, e.Section)
	if e.Key != "" {
		fmt.Fprintf(&b, " (key %s)", e.Key)
	}
	if e.Address != "" {
		fmt.Fprintf(&b, " at %s", e.Address)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *LayoutError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrLayoutMismatch, e.Err}
	}
	return []error{ErrLayoutMismatch}
}
