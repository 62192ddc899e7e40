package schema

import (
	"github.com/KaramelBytes/paxsat-cli/internal/table"
)

// Validated is a table proven to contain every column of a contract. It
// carries the per-column kind tags assigned during validation.
type Validated struct {
	Table    *table.Table
	Contract Contract
	Kinds    map[string]table.Kind
}

// Kind returns the tag assigned to a column, or KindUnknown when absent.
func (v *Validated) Kind(name string) table.Kind {
	if k, ok := v.Kinds[name]; ok {
		return k
	}
	return table.KindUnknown
}

// Validate checks every required column of c against t in one pass and tags
// each column's kind. No analytic stage should see a table that failed here.
func Validate(t *table.Table, c Contract) (*Validated, error) {
	var missing []string
	for _, name := range c.Required {
		if !t.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &Error{Contract: c.Name, Missing: missing, Available: t.Names()}
	}

	kinds := make(map[string]table.Kind, len(t.Columns()))
	for _, col := range t.Columns() {
		kinds[col.Name] = table.InferKind(col.Values)
	}

	for _, name := range c.Required {
		d, ok := c.Domains[name]
		if !ok || d.Kind == "" || d.Kind == kinds[name] {
			continue
		}
		col, _ := t.Column(name)
		if d.Kind == table.KindNumeric && hasNumeric(col.Values) {
			// Mixed columns pass; stray text cells are dropped by cleaning.
			continue
		}
		if d.Kind == table.KindCategorical {
			continue
		}
		return nil, &DomainError{Contract: c.Name, Column: name, Want: d.Kind, Got: kinds[name]}
	}
	return &Validated{Table: t, Contract: c, Kinds: kinds}, nil
}

func hasNumeric(values []string) bool {
	for _, v := range values {
		if table.IsMissing(v) {
			continue
		}
		if _, ok := table.ParseNumber(v); ok {
			return true
		}
	}
	return false
}
