package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"unicode"
)

type delimitedDecoder struct {
	format Format
	comma  rune
}

func (d delimitedDecoder) Format() Format { return d.format }

func (d delimitedDecoder) Decode(content []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = d.comma
	r.FieldsPerRecord = -1
	// Trimming would swallow empty fields between whitespace separators.
	r.TrimLeadingSpace = !unicode.IsSpace(d.comma)
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.format, err)
	}
	return records, nil
}
