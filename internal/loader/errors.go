package loader

import "fmt"

// FormatError indicates an unsupported format or bytes that do not form a
// rectangular table.
type FormatError struct {
	Format Format
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("format error (%s): %s", e.Format, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// EmptyInputError indicates a table with a header but no data rows.
type EmptyInputError struct {
	Format Format
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("empty input (%s): the file contains no data rows", e.Format)
}
