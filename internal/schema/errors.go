package schema

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/paxsat-cli/internal/table"
)

// Error reports every required column missing from a table.
type Error struct {
	Contract  string
	Missing   []string
	Available []string
}

func (e *Error) Error() string {
	quoted := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		quoted[i] = fmt.Sprintf("%q", m)
	}
	msg := fmt.Sprintf("schema %q: missing required column(s) %s", e.Contract, strings.Join(quoted, ", "))
	if len(e.Available) > 0 {
		msg += fmt.Sprintf(" (found: %s)", strings.Join(e.Available, ", "))
	}
	return msg
}

// MissingColumn builds an Error for a single column a stage needed but could
// not find.
func MissingColumn(contract, column string, available []string) *Error {
	return &Error{Contract: contract, Missing: []string{column}, Available: available}
}

// DomainError reports a required column whose values cannot satisfy the
// declared kind at all.
type DomainError struct {
	Contract string
	Column   string
	Want     table.Kind
	Got      table.Kind
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("schema %q: column %q must be %s but holds %s values", e.Contract, e.Column, e.Want, e.Got)
}
