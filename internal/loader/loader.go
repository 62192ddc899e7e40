package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/paxsat-cli/internal/table"
)

// Format discriminates the container of an uploaded table.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

// Decoder turns raw bytes into a header row followed by data rows.
type Decoder interface {
	Format() Format
	Decode(content []byte) ([][]string, error)
}

var registry = map[Format]Decoder{}

// Register adds a decoder implementation to the registry, replacing any
// decoder already registered for the same format.
func Register(d Decoder) {
	registry[d.Format()] = d
}

func init() {
	Register(delimitedDecoder{format: FormatCSV, comma: ','})
	Register(delimitedDecoder{format: FormatTSV, comma: '\t'})
	Register(xlsxDecoder{})
}

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := registry[f]; !ok {
		return "", &FormatError{Format: f, Reason: "unsupported format"}
	}
	return f, nil
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", &FormatError{Format: Format(strings.TrimPrefix(filepath.Ext(path), ".")), Reason: fmt.Sprintf("cannot infer a table format from %q (use .csv, .tsv or .xlsx, or pass --format)", filepath.Base(path))}
	}
}

// Load parses raw content into a table. It does not look at column meaning.
func Load(content []byte, f Format) (*table.Table, error) {
	d, ok := registry[f]
	if !ok {
		return nil, &FormatError{Format: f, Reason: "unsupported format"}
	}
	records, err := d.Decode(content)
	if err != nil {
		return nil, &FormatError{Format: f, Reason: "cannot parse content", Err: err}
	}
	return build(f, records)
}

// LoadWith parses delimited text using an explicit single-character delimiter.
func LoadWith(content []byte, f Format, delimiter rune) (*table.Table, error) {
	if _, ok := registry[f]; !ok || delimiter == 0 || f == FormatXLSX {
		return Load(content, f)
	}
	records, err := delimitedDecoder{format: f, comma: delimiter}.Decode(content)
	if err != nil {
		return nil, &FormatError{Format: f, Reason: "cannot parse content", Err: err}
	}
	return build(f, records)
}

// LoadFile reads a file from disk and loads it. An empty format is inferred
// from the extension.
func LoadFile(path string, f Format) (*table.Table, []byte, error) {
	if f == "" {
		var err error
		if f, err = FormatFromPath(path); err != nil {
			return nil, nil, err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}
	t, err := Load(data, f)
	if err != nil {
		return nil, nil, err
	}
	return t, data, nil
}

func build(f Format, records [][]string) (*table.Table, error) {
	if len(records) == 0 {
		return nil, &EmptyInputError{Format: f}
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = strings.TrimSpace(h)
		if header[i] == "" {
			return nil, &FormatError{Format: f, Reason: fmt.Sprintf("header cell %d is blank", i+1)}
		}
	}
	rows := records[1:]
	if len(rows) == 0 {
		return nil, &EmptyInputError{Format: f}
	}
	t, err := table.New(header, rows)
	if err != nil {
		return nil, &FormatError{Format: f, Reason: "not a rectangular table", Err: err}
	}
	return t, nil
}
