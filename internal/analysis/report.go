package analysis

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/paxsat-cli/internal/schema"
	"github.com/KaramelBytes/paxsat-cli/internal/table"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/montanaflynn/stats"
)

// DefaultPrecision is the number of decimals written to exports.
const DefaultPrecision = 4

// GroupRow summarizes the measure within one key group.
type GroupRow struct {
	Key   string
	Mean  float64
	Count int
	Std   float64
}

// GroupReport is a per-group summary ordered by mean descending, then key.
type GroupReport struct {
	Key     string
	Measure string
	Rows    []GroupRow
	// Total equals the sum of Count over Rows.
	Total int
	// Skipped counts rows whose measure was missing.
	Skipped int
}

// reservedKeys are the summary columns of an exported report.
var reservedKeys = map[string]bool{"mean": true, "count": true, "std": true}

// Report groups the cleaned rows by key and summarizes measure per group.
// A group with one row reports a standard deviation of 0.
func Report(c *Cleaned, key, measure string) (*GroupReport, error) {
	keys, ok := c.Table.Column(key)
	if !ok {
		return nil, schema.MissingColumn(c.Contract.Name, key, c.Table.Names())
	}
	if !c.Table.Has(measure) {
		return nil, schema.MissingColumn(c.Contract.Name, measure, c.Table.Names())
	}
	if c.Rows() == 0 {
		return nil, &EmptyResultError{Stage: "report"}
	}
	if reservedKeys[key] {
		return nil, &ReservedKeyError{Key: key}
	}
	if err := requireNumeric(measure, c.Kind(measure)); err != nil {
		return nil, err
	}
	vals, present, _ := c.Table.Floats(measure)

	rep := &GroupReport{Key: key, Measure: measure}
	groups := map[string][]float64{}
	for r, k := range keys.Values {
		if !present[r] {
			rep.Skipped++
			continue
		}
		k = strings.TrimSpace(k)
		groups[k] = append(groups[k], vals[r])
	}
	if len(groups) == 0 {
		return nil, &EmptyResultError{Stage: "report", Reason: "no row has a value for " + measure}
	}

	rep.Rows = make([]GroupRow, 0, len(groups))
	for k, xs := range groups {
		row := GroupRow{Key: k, Count: len(xs)}
		row.Mean, _ = stats.Mean(xs)
		if len(xs) > 1 {
			row.Std, _ = stats.StandardDeviationSample(xs)
		}
		rep.Rows = append(rep.Rows, row)
		rep.Total += row.Count
	}
	sort.Slice(rep.Rows, func(i, j int) bool {
		if rep.Rows[i].Mean == rep.Rows[j].Mean {
			return rep.Rows[i].Key < rep.Rows[j].Key
		}
		return rep.Rows[i].Mean > rep.Rows[j].Mean
	})
	return rep, nil
}

// Records renders the report as a header row plus one row per group.
func (r *GroupReport) Records(precision int) [][]string {
	if precision < 0 {
		precision = DefaultPrecision
	}
	out := make([][]string, 0, len(r.Rows)+1)
	out = append(out, []string{r.Key, "mean", "count", "std"})
	for _, g := range r.Rows {
		out = append(out, []string{
			g.Key,
			strconv.FormatFloat(g.Mean, 'f', precision, 64),
			strconv.Itoa(g.Count),
			strconv.FormatFloat(g.Std, 'f', precision, 64),
		})
	}
	return out
}

// WriteCSV writes the report with fixed precision decimals.
func (r *GroupReport) WriteCSV(w io.Writer, precision int) error {
	return writeRecords(w, r.Records(precision))
}

// WriteCSV exports the cleaned table with its original header.
func (c *Cleaned) WriteCSV(w io.Writer) error {
	return writeRecords(w, c.Table.Records())
}

// WriteCSV exports one row per clustered row: its 1-based position in the
// cleaned table and its label.
func (a *ClusterAssignment) WriteCSV(w io.Writer) error {
	records := [][]string{{"row", "cluster"}}
	for i, r := range a.Rows {
		records = append(records, []string{strconv.Itoa(r + 1), strconv.Itoa(a.Labels[i])})
	}
	return writeRecords(w, records)
}

// writeRecords keeps every cell as text, missing markers included.
func writeRecords(w io.Writer, records [][]string) error {
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return fmt.Errorf("build export frame: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// numericCells returns the present numeric values of a column; ok is false
// when the column is absent.
func numericCells(t *table.Table, name string) (vals []float64, skipped int, ok bool) {
	xs, present, found := t.Floats(name)
	if !found {
		return nil, 0, false
	}
	for i, x := range xs {
		if present[i] {
			vals = append(vals, x)
		} else {
			skipped++
		}
	}
	return vals, skipped, true
}
