package loader

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// xlsxDecoder reads the first sheet of a spreadsheet workbook.
type xlsxDecoder struct{}

func (xlsxDecoder) Format() Format { return FormatXLSX }

func (xlsxDecoder) Decode(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	// Trailing rows that carry formatting but no values come back empty.
	for len(rows) > 0 && blankRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
