package table

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
)

// Column is a named, ordered sequence of raw cell values.
type Column struct {
	Name   string
	Values []string
}

// Table is an immutable, rectangular set of named columns.
// Transforms never modify a Table; they build a new one.
type Table struct {
	cols  []Column
	index map[string]int
	rows  int
}

// New builds a Table from a header and row-major records.
// Records shorter than the header are padded with empty (missing) cells.
func New(header []string, records [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("table has no columns")
	}
	t := &Table{cols: make([]Column, len(header)), index: make(map[string]int, len(header)), rows: len(records)}
	for i, h := range header {
		if _, dup := t.index[h]; dup {
			return nil, fmt.Errorf("duplicate column name %q", h)
		}
		t.index[h] = i
		t.cols[i] = Column{Name: h, Values: make([]string, len(records))}
	}
	for r, rec := range records {
		if len(rec) > len(header) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", r+1, len(rec), len(header))
		}
		for c := range rec {
			t.cols[c].Values[r] = rec[c]
		}
	}
	return t, nil
}

// Rows returns the number of data rows.
func (t *Table) Rows() int { return t.rows }

// Names returns column names in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// Has reports whether a column with exactly this name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column. The returned values must not be modified.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.cols[i], true
}

// Columns returns all columns in order. The returned values must not be modified.
func (t *Table) Columns() []Column { return t.cols }

// Row returns a copy of row i in column order.
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.cols))
	for c := range t.cols {
		out[c] = t.cols[c].Values[i]
	}
	return out
}

// Records returns the header followed by every row, row-major.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, t.rows+1)
	out = append(out, t.Names())
	for r := 0; r < t.rows; r++ {
		out = append(out, t.Row(r))
	}
	return out
}

// Select returns a new table holding only the given rows, in the given order.
func (t *Table) Select(rows []int) *Table {
	nt := &Table{cols: make([]Column, len(t.cols)), index: t.index, rows: len(rows)}
	for c, col := range t.cols {
		vals := make([]string, len(rows))
		for i, r := range rows {
			vals[i] = col.Values[r]
		}
		nt.cols[c] = Column{Name: col.Name, Values: vals}
	}
	return nt
}

// Floats coerces a column to numbers. ok[i] is false for missing or
// non-numeric cells.
func (t *Table) Floats(name string) (vals []float64, ok []bool, found bool) {
	col, found := t.Column(name)
	if !found {
		return nil, nil, false
	}
	vals = make([]float64, len(col.Values))
	ok = make([]bool, len(col.Values))
	for i, v := range col.Values {
		if IsMissing(v) {
			continue
		}
		vals[i], ok[i] = ParseNumber(v)
	}
	return vals, ok, true
}

// Fingerprint is a SHA-256 digest over column names and cells. Two tables
// with the same content have the same fingerprint regardless of identity.
func Fingerprint(t *Table) string {
	h := sha256.New()
	writeField(h, fmt.Sprintf("%d:%d", len(t.cols), t.rows))
	for _, c := range t.cols {
		writeField(h, c.Name)
		for _, v := range c.Values {
			writeField(h, v)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// FingerprintBytes digests raw upload content.
func FingerprintBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func writeField(h hash.Hash, s string) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(s)))
	h.Write(n[:])
	h.Write([]byte(s))
}

// String renders a short description for logs.
func (t *Table) String() string {
	return fmt.Sprintf("table(%d rows: %s)", t.rows, strings.Join(t.Names(), ", "))
}
