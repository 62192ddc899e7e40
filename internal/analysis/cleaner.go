package analysis

import (
	"fmt"

	"github.com/KaramelBytes/paxsat-cli/internal/schema"
	"github.com/KaramelBytes/paxsat-cli/internal/table"
)

// CleanOptions selects the score column and its closed valid range.
type CleanOptions struct {
	ScoreColumn string
	Min, Max    float64
}

// DefaultCleanOptions returns the flight schema score on a 1–5 scale.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{ScoreColumn: "satisfaction_score", Min: 1, Max: 5}
}

// Transform names the cleaning step with its parameters, for cache keys.
func (o CleanOptions) Transform() string {
	return fmt.Sprintf("clean:%s:[%g,%g]", o.ScoreColumn, o.Min, o.Max)
}

// Within narrows the range to the bounds the contract declares for the
// score column. Options already inside the bounds are returned unchanged.
func (o CleanOptions) Within(c schema.Contract) CleanOptions {
	d, ok := c.Domains[o.ScoreColumn]
	if !ok {
		return o
	}
	if d.Min != nil && o.Min < *d.Min {
		o.Min = *d.Min
	}
	if d.Max != nil && o.Max > *d.Max {
		o.Max = *d.Max
	}
	return o
}

// CleanStats carries before/after row counts for delta reporting.
type CleanStats struct {
	Original          int
	Cleaned           int
	Removed           int
	MissingDropped    int
	NonNumericDropped int
	OutOfRangeDropped int
}

// Cleaned is a validated table in which every required column is present in
// every row and every score lies within [Min, Max]. Kinds are the tags of the
// cleaned rows, so a column whose text cells were all dropped is numeric.
type Cleaned struct {
	Table    *table.Table
	Contract schema.Contract
	Kinds    map[string]table.Kind
	Options  CleanOptions
}

// Validated returns the cleaned table viewed as a validated one, so it can be
// fed back through Clean.
func (c *Cleaned) Validated() *schema.Validated {
	return &schema.Validated{Table: c.Table, Contract: c.Contract, Kinds: c.Kinds}
}

// Kind returns the tag of a column, or KindUnknown when absent.
func (c *Cleaned) Kind(name string) table.Kind {
	if k, ok := c.Kinds[name]; ok {
		return k
	}
	return table.KindUnknown
}

// Rows returns the cleaned row count.
func (c *Cleaned) Rows() int { return c.Table.Rows() }

// Clean drops rows with a missing required value, rows whose score does not
// coerce to a number, and rows whose score lies outside [Min, Max]. Rows with
// a value outside the declared bounds of any other required column count as
// out of range too. [Min, Max] must sit inside the score column's declared
// bounds. Clean is a pure function of its inputs, and cleaning an already
// cleaned table with the same options returns the same table.
func Clean(v *schema.Validated, opt CleanOptions) (*Cleaned, CleanStats, error) {
	t := v.Table
	stats := CleanStats{Original: t.Rows()}
	if opt.Min > opt.Max {
		return nil, stats, &RangeError{Min: opt.Min, Max: opt.Max}
	}
	if d, ok := v.Contract.Domains[opt.ScoreColumn]; ok && !(d.Contains(opt.Min) && d.Contains(opt.Max)) {
		return nil, stats, &RangeError{Min: opt.Min, Max: opt.Max, Column: opt.ScoreColumn, Domain: &d}
	}
	score, ok := t.Column(opt.ScoreColumn)
	if !ok {
		return nil, stats, schema.MissingColumn(v.Contract.Name, opt.ScoreColumn, t.Names())
	}

	required := make([]table.Column, 0, len(v.Contract.Required))
	var bounded []boundedColumn
	for _, name := range v.Contract.Required {
		col, found := t.Column(name)
		if !found {
			return nil, stats, schema.MissingColumn(v.Contract.Name, name, t.Names())
		}
		required = append(required, col)
		if d, ok := v.Contract.Domains[name]; ok && d.Bounded() && name != opt.ScoreColumn {
			bounded = append(bounded, boundedColumn{values: col.Values, domain: d})
		}
	}

	keep := make([]int, 0, t.Rows())
rows:
	for r := 0; r < t.Rows(); r++ {
		for _, col := range required {
			if table.IsMissing(col.Values[r]) {
				stats.MissingDropped++
				continue rows
			}
		}
		x, ok := table.ParseNumber(score.Values[r])
		if !ok {
			stats.NonNumericDropped++
			continue
		}
		if x < opt.Min || x > opt.Max {
			stats.OutOfRangeDropped++
			continue
		}
		for _, b := range bounded {
			if y, ok := table.ParseNumber(b.values[r]); ok && !b.domain.Contains(y) {
				stats.OutOfRangeDropped++
				continue rows
			}
		}
		keep = append(keep, r)
	}
	stats.Cleaned = len(keep)
	stats.Removed = stats.Original - stats.Cleaned
	if len(keep) == 0 {
		return nil, stats, &EmptyResultError{Stage: "clean", Reason: fmt.Sprintf("all %d rows were missing values or had %s outside [%g, %g]", stats.Original, opt.ScoreColumn, opt.Min, opt.Max)}
	}

	out := t
	if len(keep) < t.Rows() {
		out = t.Select(keep)
	}
	kinds := make(map[string]table.Kind, len(out.Columns()))
	for _, col := range out.Columns() {
		kinds[col.Name] = table.InferKind(col.Values)
	}
	return &Cleaned{Table: out, Contract: v.Contract, Kinds: kinds, Options: opt}, stats, nil
}

type boundedColumn struct {
	values []string
	domain schema.Domain
}

// Reclean runs Clean again over an already cleaned table with its own
// options. The result holds the same rows.
func Reclean(c *Cleaned) (*Cleaned, CleanStats, error) {
	return Clean(c.Validated(), c.Options)
}
