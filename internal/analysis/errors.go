package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/paxsat-cli/internal/schema"
	"github.com/KaramelBytes/paxsat-cli/internal/table"
)

// EmptyResultError indicates a stage whose output would have zero rows.
type EmptyResultError struct {
	Stage  string
	Reason string
}

func (e *EmptyResultError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: no rows left", e.Stage)
	}
	return fmt.Sprintf("%s: no rows left (%s)", e.Stage, e.Reason)
}

// RangeError indicates an inverted score range, or one reaching outside the
// bounds the contract declares for the score column.
type RangeError struct {
	Min, Max float64
	// Column and Domain are set when the range leaves the declared bounds.
	Column string
	Domain *schema.Domain
}

func (e *RangeError) Error() string {
	if e.Domain != nil {
		return fmt.Sprintf("score range [%g, %g] leaves the declared domain of %q %s", e.Min, e.Max, e.Column, e.Domain.Bounds())
	}
	return fmt.Sprintf("invalid score range [%g, %g]: min must not exceed max", e.Min, e.Max)
}

// NonNumericFeatureError indicates a column whose kind tag is not numeric.
type NonNumericFeatureError struct {
	Column string
	Kind   table.Kind
}

func (e *NonNumericFeatureError) Error() string {
	return fmt.Sprintf("column %q is %s, not numeric; pick a numeric column", e.Column, e.Kind)
}

// ConstantFeatureError indicates a regression feature with zero variance.
type ConstantFeatureError struct {
	Column string
	Value  float64
}

func (e *ConstantFeatureError) Error() string {
	return fmt.Sprintf("column %q is constant (every value is %g); regression is undefined", e.Column, e.Value)
}

// InsufficientFeaturesError indicates fewer than two chosen features, or a
// chosen feature that is not numeric.
type InsufficientFeaturesError struct {
	Requested []string
	Unusable  []string
}

func (e *InsufficientFeaturesError) Error() string {
	if len(e.Unusable) > 0 {
		return fmt.Sprintf("all chosen features must be numeric (not numeric: %s)", strings.Join(e.Unusable, ", "))
	}
	return fmt.Sprintf("clustering needs at least 2 features, got %d", len(e.Requested))
}

// ReservedKeyError indicates a group key whose name collides with a
// summary column of the report.
type ReservedKeyError struct {
	Key string
}

func (e *ReservedKeyError) Error() string {
	return fmt.Sprintf("cannot group by %q: the report already has a %q column", e.Key, e.Key)
}

// InvalidClusterCountError indicates k outside [2,10] or above the row count.
type InvalidClusterCountError struct {
	K    int
	Rows int
}

func (e *InvalidClusterCountError) Error() string {
	if e.K >= MinClusters && e.K <= MaxClusters {
		return fmt.Sprintf("k=%d exceeds the %d usable rows", e.K, e.Rows)
	}
	return fmt.Sprintf("k=%d is outside [%d, %d]", e.K, MinClusters, MaxClusters)
}
