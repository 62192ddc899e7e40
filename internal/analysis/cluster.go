package analysis

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/KaramelBytes/paxsat-cli/internal/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	MinClusters = 2
	MaxClusters = 10
)

// ClusterOptions configures k-means over a set of numeric columns.
type ClusterOptions struct {
	Features []string
	K        int
	Seed     int64
	MaxIter  int
}

// DefaultClusterOptions returns K=3, Seed=42 and a 300 iteration cap.
func DefaultClusterOptions(features ...string) ClusterOptions {
	return ClusterOptions{Features: features, K: 3, Seed: 42, MaxIter: 300}
}

// Transform names the clustering step with its parameters, for cache keys.
func (o ClusterOptions) Transform() string {
	return fmt.Sprintf("cluster:%s:k=%d:seed=%d:iter=%d", strings.Join(o.Features, ","), o.K, o.Seed, o.MaxIter)
}

// ClusterAssignment labels every usable row with a cluster in [0, K).
type ClusterAssignment struct {
	Features []string
	K        int
	Seed     int64
	// Labels[i] is the cluster of table row Rows[i].
	Labels []int
	Rows   []int
	// Skipped lists rows with a missing value in a chosen feature.
	Skipped   []int
	Counts    []int
	Centroids [][]float64
	// Iterations counts assignment passes.
	Iterations int
	Converged  bool
	// Inertia is the within-cluster sum of squares in standardized units.
	Inertia float64
}

// Cluster partitions the cleaned rows with k-means. Equal seeds and inputs
// give equal labels.
func Cluster(c *Cleaned, opt ClusterOptions) (*ClusterAssignment, error) {
	if opt.MaxIter <= 0 {
		opt.MaxIter = DefaultClusterOptions().MaxIter
	}

	if len(opt.Features) < 2 {
		return nil, &InsufficientFeaturesError{Requested: opt.Features}
	}
	var absent []string
	for _, name := range opt.Features {
		if !c.Table.Has(name) {
			absent = append(absent, name)
		}
	}
	if len(absent) > 0 {
		return nil, &schema.Error{Contract: c.Contract.Name, Missing: absent, Available: c.Table.Names()}
	}

	cols := make([][]float64, 0, len(opt.Features))
	oks := make([][]bool, 0, len(opt.Features))
	var unusable []string
	for _, name := range opt.Features {
		if requireNumeric(name, c.Kind(name)) != nil {
			unusable = append(unusable, name)
			continue
		}
		vals, ok, _ := c.Table.Floats(name)
		cols = append(cols, vals)
		oks = append(oks, ok)
	}
	if len(unusable) > 0 {
		return nil, &InsufficientFeaturesError{Requested: opt.Features, Unusable: unusable}
	}
	if opt.K < MinClusters || opt.K > MaxClusters {
		return nil, &InvalidClusterCountError{K: opt.K, Rows: c.Rows()}
	}

	out := &ClusterAssignment{Features: opt.Features, K: opt.K, Seed: opt.Seed}
	for r := 0; r < c.Rows(); r++ {
		usable := true
		for f := range cols {
			if !oks[f][r] {
				usable = false
				break
			}
		}
		if usable {
			out.Rows = append(out.Rows, r)
		} else {
			out.Skipped = append(out.Skipped, r)
		}
	}
	if opt.K > len(out.Rows) {
		return nil, &InvalidClusterCountError{K: opt.K, Rows: len(out.Rows)}
	}

	// Standardize each feature to zero mean and unit std.
	dims := len(cols)
	means := make([]float64, dims)
	stds := make([]float64, dims)
	points := make([][]float64, len(out.Rows))
	for i := range points {
		points[i] = make([]float64, dims)
	}
	for f, vals := range cols {
		xs := make([]float64, len(out.Rows))
		for i, r := range out.Rows {
			xs[i] = vals[r]
		}
		means[f], stds[f] = stat.MeanStdDev(xs, nil)
		if math.IsNaN(stds[f]) {
			stds[f] = 0
		}
		for i, x := range xs {
			z := x - means[f]
			if stds[f] > 0 {
				z /= stds[f]
			}
			points[i][f] = z
		}
	}

	rng := rand.New(rand.NewSource(opt.Seed))
	centroids := seedCentroids(points, opt.K, rng)
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	for it := 1; it <= opt.MaxIter; it++ {
		out.Iterations = it
		changed := false
		for i, p := range points {
			l := nearest(p, centroids)
			if l != labels[i] {
				labels[i] = l
				changed = true
			}
		}
		if !changed {
			out.Converged = true
			break
		}
		centroids = recompute(points, labels, centroids)
	}

	out.Labels = labels
	out.Counts = make([]int, opt.K)
	for i, l := range labels {
		out.Counts[l]++
		d := floats.Distance(points[i], centroids[l], 2)
		out.Inertia += d * d
	}
	out.Centroids = make([][]float64, opt.K)
	for k, cen := range centroids {
		orig := make([]float64, dims)
		for f, z := range cen {
			if stds[f] > 0 {
				z *= stds[f]
			}
			orig[f] = z + means[f]
		}
		out.Centroids[k] = orig
	}
	return out, nil
}

// seedCentroids picks k starting points with k-means++ weighting.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(points[rng.Intn(len(points))]))
	d2 := make([]float64, len(points))
	for len(centroids) < k {
		for i, p := range points {
			d := floats.Distance(p, centroids[nearest(p, centroids)], 2)
			d2[i] = d * d
		}
		total := floats.Sum(d2)
		next := rng.Intn(len(points))
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, w := range d2 {
				acc += w
				if acc >= target && w > 0 {
					next = i
					break
				}
			}
		}
		centroids = append(centroids, clone(points[next]))
	}
	return centroids
}

// nearest returns the index of the closest centroid; ties go to the lowest index.
func nearest(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for k, c := range centroids {
		if d := floats.Distance(p, c, 2); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

func recompute(points [][]float64, labels []int, prev [][]float64) [][]float64 {
	dims := len(prev[0])
	sums := make([][]float64, len(prev))
	counts := make([]int, len(prev))
	for k := range sums {
		sums[k] = make([]float64, dims)
	}
	for i, l := range labels {
		floats.Add(sums[l], points[i])
		counts[l]++
	}
	next := make([][]float64, len(prev))
	for k := range sums {
		if counts[k] == 0 {
			next[k] = prev[k]
			continue
		}
		floats.Scale(1/float64(counts[k]), sums[k])
		next[k] = sums[k]
	}
	return next
}

func clone(p []float64) []float64 {
	return append([]float64(nil), p...)
}
