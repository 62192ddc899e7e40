package schema

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/paxsat-cli/internal/table"
)

// Domain constrains the values of one column. Nil bounds are open.
type Domain struct {
	Kind table.Kind `yaml:"kind" toml:"kind"`
	Min  *float64   `yaml:"min,omitempty" toml:"min,omitempty"`
	Max  *float64   `yaml:"max,omitempty" toml:"max,omitempty"`
}

// Bounded reports whether either bound is set.
func (d Domain) Bounded() bool { return d.Min != nil || d.Max != nil }

// Contains reports whether x lies within the closed bounds.
func (d Domain) Contains(x float64) bool {
	return (d.Min == nil || x >= *d.Min) && (d.Max == nil || x <= *d.Max)
}

// Bounds renders the closed range, with open ends as infinities.
func (d Domain) Bounds() string {
	l, h := "-∞", "+∞"
	if d.Min != nil {
		l = fmt.Sprintf("%g", *d.Min)
	}
	if d.Max != nil {
		h = fmt.Sprintf("%g", *d.Max)
	}
	return fmt.Sprintf("[%s, %s]", l, h)
}

// Contract is the declared set of columns an analysis mode depends on.
type Contract struct {
	Name     string            `yaml:"name" toml:"name"`
	Required []string          `yaml:"required" toml:"required"`
	Domains  map[string]Domain `yaml:"domains,omitempty" toml:"domains,omitempty"`
}

// Built-in contract names.
const (
	Survey = "survey"
	Flight = "flight"
)

func bound(v float64) *float64 { return &v }

// ServiceColumns are the per-service rating columns of the passenger survey.
var ServiceColumns = []string{
	"Inflight wifi service",
	"Departure/Arrival time convenient",
	"Ease of Online booking",
	"Gate location",
	"Food and drink",
	"Online boarding",
	"Seat comfort",
	"Inflight entertainment",
	"On-board service",
	"Leg room service",
	"Baggage handling",
	"Checkin service",
	"Inflight service",
	"Cleanliness",
}

// SurveyContract covers the service-quality analysis of the raw survey export.
func SurveyContract() Contract {
	return Contract{
		Name:     Survey,
		Required: []string{"satisfaction", "Inflight wifi service", "Customer Type", "Class"},
		Domains: map[string]Domain{
			"Inflight wifi service": {Kind: table.KindNumeric},
		},
	}
}

// FlightContract covers the regression, clustering and reporting path.
func FlightContract() Contract {
	return Contract{
		Name:     Flight,
		Required: []string{"flight_id", "satisfaction_score"},
		Domains: map[string]Domain{
			"satisfaction_score": {Kind: table.KindNumeric, Min: bound(1), Max: bound(5)},
		},
	}
}

// Check reports structural problems in the contract itself.
func (c Contract) Check() error {
	if c.Name == "" {
		return fmt.Errorf("contract has no name")
	}
	if len(c.Required) == 0 {
		return fmt.Errorf("contract %q requires no columns", c.Name)
	}
	seen := map[string]bool{}
	for _, r := range c.Required {
		if r == "" {
			return fmt.Errorf("contract %q has a blank required column", c.Name)
		}
		if seen[r] {
			return fmt.Errorf("contract %q lists %q twice", c.Name, r)
		}
		seen[r] = true
	}
	for col, d := range c.Domains {
		if !c.Requires(col) {
			return fmt.Errorf("contract %q: domain declared on %q, which is not a required column", c.Name, col)
		}
		switch d.Kind {
		case table.KindNumeric, table.KindCategorical, "":
		default:
			return fmt.Errorf("contract %q: column %q has unknown kind %q", c.Name, col, d.Kind)
		}
		if d.Min != nil && d.Max != nil && *d.Min > *d.Max {
			return fmt.Errorf("contract %q: column %q has min %g > max %g", c.Name, col, *d.Min, *d.Max)
		}
		if d.Bounded() && d.Kind == table.KindCategorical {
			return fmt.Errorf("contract %q: categorical column %q cannot have bounds", c.Name, col)
		}
	}
	return nil
}

// Requires reports whether name is one of the contract's required columns.
func (c Contract) Requires(name string) bool {
	for _, r := range c.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Registry holds contracts by name.
type Registry struct {
	byName map[string]Contract
}

// NewRegistry returns a registry holding the built-in contracts.
func NewRegistry() *Registry {
	r := &Registry{byName: map[string]Contract{}}
	r.byName[Survey] = SurveyContract()
	r.byName[Flight] = FlightContract()
	return r
}

// Add registers a contract, replacing any contract with the same name.
func (r *Registry) Add(c Contract) error {
	if err := c.Check(); err != nil {
		return err
	}
	r.byName[c.Name] = c
	return nil
}

// Get looks up a contract by name.
func (r *Registry) Get(name string) (Contract, error) {
	c, ok := r.byName[name]
	if !ok {
		return Contract{}, fmt.Errorf("unknown schema %q (available: %v)", name, r.Names())
	}
	return c, nil
}

// Names lists registered contract names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for n := range r.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
