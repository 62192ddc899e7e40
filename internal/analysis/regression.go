package analysis

import (
	"math"

	"github.com/KaramelBytes/paxsat-cli/internal/schema"
	"github.com/KaramelBytes/paxsat-cli/internal/table"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Point is one (feature, score) observation.
type Point struct {
	X, Y float64
}

// RegressionResult is the least-squares fit score = Slope*feature + Intercept.
type RegressionResult struct {
	Feature   string
	Score     string
	Slope     float64
	Intercept float64
	RSquared  float64
	Points    []Point
	// Line spans the observed feature range.
	Line [2]Point
	// Skipped counts rows whose feature value was missing.
	Skipped int
}

// Predict evaluates the fitted line at x.
func (r *RegressionResult) Predict(x float64) float64 {
	return r.Slope*x + r.Intercept
}

// Regress fits ordinary least squares of the score column on one feature.
func Regress(c *Cleaned, feature string) (*RegressionResult, error) {
	if !c.Table.Has(feature) {
		return nil, schema.MissingColumn(c.Contract.Name, feature, c.Table.Names())
	}
	if err := requireNumeric(feature, c.Kind(feature)); err != nil {
		return nil, err
	}
	scoreName := c.Options.ScoreColumn
	ys, yok, _ := c.Table.Floats(scoreName)
	xs, xok, _ := c.Table.Floats(feature)

	res := &RegressionResult{Feature: feature, Score: scoreName}
	x := make([]float64, 0, len(xs))
	y := make([]float64, 0, len(ys))
	for i := range xs {
		if !xok[i] || !yok[i] {
			res.Skipped++
			continue
		}
		x = append(x, xs[i])
		y = append(y, ys[i])
		res.Points = append(res.Points, Point{X: xs[i], Y: ys[i]})
	}
	if len(x) < 2 {
		return nil, &EmptyResultError{Stage: "regress", Reason: "fewer than 2 rows have a value for " + feature}
	}
	if v := stat.Variance(x, nil); v == 0 || math.IsNaN(v) {
		return nil, &ConstantFeatureError{Column: feature, Value: x[0]}
	}

	res.Intercept, res.Slope = stat.LinearRegression(x, y, nil, false)
	if stat.Variance(y, nil) > 0 {
		res.RSquared = stat.RSquared(x, y, nil, res.Intercept, res.Slope)
	} else {
		// A flat score is fitted exactly by a zero slope.
		res.RSquared = 1
	}
	lo, hi := floats.Min(x), floats.Max(x)
	res.Line = [2]Point{{X: lo, Y: res.Predict(lo)}, {X: hi, Y: res.Predict(hi)}}
	return res, nil
}

// requireNumeric checks a column's tag instead of its cells. A column with
// no present cells passes and yields no observations.
func requireNumeric(name string, k table.Kind) error {
	if k != table.KindNumeric && k != table.KindUnknown {
		return &NonNumericFeatureError{Column: name, Kind: k}
	}
	return nil
}
