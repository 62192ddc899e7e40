package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/KaramelBytes/paxsat-cli/internal/analysis"
	"github.com/KaramelBytes/paxsat-cli/internal/session"
	"github.com/KaramelBytes/paxsat-cli/internal/table"
)

func printUpload(w io.Writer, name string, res *session.UploadResult) {
	fmt.Fprintf(w, "✓ Loaded %s: %d rows, %d columns\n", name, res.Rows, len(res.Columns))
	if res.Unchanged {
		fmt.Fprintln(w, "  (same content as before; cached results kept)")
	} else if res.Invalidated > 0 {
		fmt.Fprintf(w, "  (dropped %d cached results)\n", res.Invalidated)
	}
}

func printKinds(w io.Writer, columns []string, kinds map[string]table.Kind) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range columns {
		fmt.Fprintf(tw, "  %s\t%s\n", c, kinds[c])
	}
	tw.Flush()
}

func printCleanStats(w io.Writer, st analysis.CleanStats, hit bool) {
	src := ""
	if hit {
		src = " (cached)"
	}
	fmt.Fprintf(w, "✓ Cleaned%s: %d → %d rows (removed %d)\n", src, st.Original, st.Cleaned, st.Removed)
	if st.Removed > 0 {
		fmt.Fprintf(w, "  missing required value: %d\n", st.MissingDropped)
		fmt.Fprintf(w, "  non-numeric score:      %d\n", st.NonNumericDropped)
		fmt.Fprintf(w, "  score out of range:     %d\n", st.OutOfRangeDropped)
	}
}

func printRegression(w io.Writer, r *analysis.RegressionResult) {
	fmt.Fprintf(w, "%s = %.4f × %s %+.4f\n", r.Score, r.Slope, r.Feature, r.Intercept)
	fmt.Fprintf(w, "  R²: %.4f  n: %d", r.RSquared, len(r.Points))
	if r.Skipped > 0 {
		fmt.Fprintf(w, "  skipped: %d", r.Skipped)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  line: (%g, %.4f) → (%g, %.4f)\n", r.Line[0].X, r.Line[0].Y, r.Line[1].X, r.Line[1].Y)
}

func printCluster(w io.Writer, a *analysis.ClusterAssignment, hit bool) {
	src := ""
	if hit {
		src = " (cached)"
	}
	state := "converged"
	if !a.Converged {
		state = "stopped at max iterations"
	}
	fmt.Fprintf(w, "✓ k-means%s: k=%d seed=%d, %s after %d iterations, inertia %.4f\n", src, a.K, a.Seed, state, a.Iterations, a.Inertia)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  cluster\tsize\t%s\n", strings.Join(a.Features, "\t"))
	for k, c := range a.Centroids {
		vals := make([]string, len(c))
		for i, v := range c {
			vals[i] = fmt.Sprintf("%.4f", v)
		}
		fmt.Fprintf(tw, "  %d\t%d\t%s\n", k, a.Counts[k], strings.Join(vals, "\t"))
	}
	tw.Flush()
	if len(a.Skipped) > 0 {
		fmt.Fprintf(w, "⚠ %d rows skipped (missing feature values)\n", len(a.Skipped))
	}
}

func printReport(w io.Writer, rep *analysis.GroupReport, precision int) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, rec := range rep.Records(precision) {
		fmt.Fprintf(tw, "%s\n", strings.Join(rec, "\t"))
	}
	tw.Flush()
	if rep.Skipped > 0 {
		fmt.Fprintf(w, "⚠ %d rows skipped (missing %s)\n", rep.Skipped, rep.Measure)
	}
}

func printOverview(w io.Writer, o *session.Overview) {
	fmt.Fprintln(w, "[SATISFACTION]")
	for _, c := range o.Satisfaction.Counts {
		fmt.Fprintf(w, "  %s: %d (%.1f%%)\n", c.Label, c.Count, 100*float64(c.Count)/float64(o.Satisfaction.Total))
	}
	if len(o.Metrics) > 0 {
		fmt.Fprintln(w, "[KEY METRICS]")
		for _, m := range o.Metrics {
			fmt.Fprintf(w, "  %s: %.1f %s\n", m.Name, m.Value, m.Unit)
		}
	}
	fmt.Fprintln(w, "[SERVICE RATINGS BY SATISFACTION]")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  service\t%s\n", strings.Join(o.Services.Labels, "\t"))
	for _, svc := range o.Services.Services {
		cells := make([]string, len(o.Services.Labels))
		for i, l := range o.Services.Labels {
			if m, ok := o.Services.Mean(l, svc); ok {
				cells[i] = fmt.Sprintf("%.2f", m)
			} else {
				cells[i] = "-"
			}
		}
		fmt.Fprintf(tw, "  %s\t%s\n", svc, strings.Join(cells, "\t"))
	}
	tw.Flush()
	if len(o.Services.Skipped) > 0 {
		skipped := append([]string(nil), o.Services.Skipped...)
		sort.Strings(skipped)
		fmt.Fprintf(w, "⚠ service columns not found: %s\n", strings.Join(skipped, ", "))
	}
}
