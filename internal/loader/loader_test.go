package loader_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/paxsat-cli/internal/loader"
	"github.com/KaramelBytes/paxsat-cli/internal/table"
	"github.com/xuri/excelize/v2"
)

func cell(tb *table.Table, row int, name string) string {
	col, ok := tb.Column(name)
	if !ok {
		return ""
	}
	return col.Values[row]
}

func TestLoadCSV(t *testing.T) {
	content := "\ufeffflight_id,satisfaction_score,Age\nA,4,31\nB,5\nC,\"3,5\",40\n"
	tb, err := loader.Load([]byte(content), loader.FormatCSV)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tb.Rows() != 3 {
		t.Fatalf("rows = %d, want 3", tb.Rows())
	}
	if !tb.Has("flight_id") {
		t.Fatalf("BOM not stripped from first header: %v", tb.Names())
	}
	if got := cell(tb, 1, "Age"); got != "" {
		t.Fatalf("short row not padded: %q", got)
	}
	if got := cell(tb, 2, "satisfaction_score"); got != "3,5" {
		t.Fatalf("quoted cell = %q", got)
	}
}

func TestLoadWithSemicolon(t *testing.T) {
	tb, err := loader.LoadWith([]byte("a;b\n1;2\n"), loader.FormatCSV, ';')
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cell(tb, 0, "b") != "2" {
		t.Fatalf("unexpected records: %v", tb.Records())
	}
}

func TestLoadErrors(t *testing.T) {
	var fe *loader.FormatError
	if _, err := loader.Load([]byte("a,b\n1,2\n"), loader.Format("parquet")); !errors.As(err, &fe) {
		t.Fatalf("expected FormatError for unsupported format, got %v", err)
	}
	if _, err := loader.Load([]byte("a,b\n1,2,3\n"), loader.FormatCSV); !errors.As(err, &fe) {
		t.Fatalf("expected FormatError for wide row, got %v", err)
	}
	if _, err := loader.Load([]byte("a,,c\n1,2,3\n"), loader.FormatCSV); !errors.As(err, &fe) {
		t.Fatalf("expected FormatError for blank header, got %v", err)
	}
	if _, err := loader.Load([]byte("not a workbook"), loader.FormatXLSX); !errors.As(err, &fe) {
		t.Fatalf("expected FormatError for corrupt xlsx, got %v", err)
	}

	var ee *loader.EmptyInputError
	if _, err := loader.Load([]byte("a,b\n"), loader.FormatCSV); !errors.As(err, &ee) {
		t.Fatalf("expected EmptyInputError for header-only csv, got %v", err)
	}
	if _, err := loader.Load(nil, loader.FormatCSV); !errors.As(err, &ee) {
		t.Fatalf("expected EmptyInputError for empty content, got %v", err)
	}
}

func TestLoadXLSXFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	first := f.GetSheetName(0)
	rows := [][]interface{}{
		{"flight_id", "satisfaction_score"},
		{"A", 4},
		{"B", 4.5},
	}
	for i, r := range rows {
		axis, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(first, axis, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if _, err := f.NewSheet("Other"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	if err := f.SetSheetRow("Other", "A1", &[]interface{}{"unrelated"}); err != nil {
		t.Fatalf("set other row: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	tb, err := loader.Load(buf.Bytes(), loader.FormatXLSX)
	if err != nil {
		t.Fatalf("load xlsx: %v", err)
	}
	if tb.Rows() != 2 || !tb.Has("satisfaction_score") {
		t.Fatalf("unexpected table: %v", tb.Records())
	}
	if got := cell(tb, 1, "satisfaction_score"); got != "4.5" {
		t.Fatalf("score cell = %q", got)
	}
}

func TestLoadTSVKeepsEmptyFields(t *testing.T) {
	tb, err := loader.Load([]byte("flight_id\tsatisfaction_score\tdelay\nE\t\t20\n\t3\t10\n"), loader.FormatTSV)
	if err != nil {
		t.Fatalf("load tsv: %v", err)
	}
	if got := tb.Row(0); got[1] != "" || got[2] != "20" {
		t.Fatalf("row 0 = %q", got)
	}
	if got := tb.Row(1); got[0] != "" || got[1] != "3" {
		t.Fatalf("row 1 = %q", got)
	}
}

func TestLoadFileInfersFormat(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "flights.tsv")
	if err := os.WriteFile(p, []byte("flight_id\tsatisfaction_score\nA\t4\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tb, raw, err := loader.LoadFile(p, "")
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if cell(tb, 0, "satisfaction_score") != "4" || len(raw) == 0 {
		t.Fatalf("unexpected load result: %v", tb.Records())
	}

	var fe *loader.FormatError
	if _, _, err := loader.LoadFile(filepath.Join(dir, "data.parquet"), ""); !errors.As(err, &fe) {
		t.Fatalf("expected FormatError for unknown extension, got %v", err)
	}
}
