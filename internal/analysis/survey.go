package analysis

import (
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/paxsat-cli/internal/schema"
	"github.com/KaramelBytes/paxsat-cli/internal/table"
	"github.com/montanaflynn/stats"
)

// Survey column names used by the passenger survey analyses.
const (
	SatisfactionColumn   = "satisfaction"
	CustomerTypeColumn   = "Customer Type"
	ClassColumn          = "Class"
	AgeColumn            = "Age"
	DepartureDelayColumn = "Departure Delay in Minutes"
	ArrivalDelayColumn   = "Arrival Delay in Minutes"
	LoyalCustomer        = "Loyal Customer"
)

// LabelCount is the number of rows carrying one label.
type LabelCount struct {
	Label string
	Count int
}

// Distribution is a value count ordered by count descending, then label.
type Distribution struct {
	Column  string
	Counts  []LabelCount
	Total   int
	Skipped int
}

// SatisfactionDistribution counts respondents per satisfaction label.
func SatisfactionDistribution(v *schema.Validated) (*Distribution, error) {
	return valueCounts(v, SatisfactionColumn)
}

func valueCounts(v *schema.Validated, column string) (*Distribution, error) {
	col, ok := v.Table.Column(column)
	if !ok {
		return nil, schema.MissingColumn(v.Contract.Name, column, v.Table.Names())
	}
	d := &Distribution{Column: column}
	counts := map[string]int{}
	for _, val := range col.Values {
		if table.IsMissing(val) {
			d.Skipped++
			continue
		}
		counts[strings.TrimSpace(val)]++
		d.Total++
	}
	if d.Total == 0 {
		return nil, &EmptyResultError{Stage: "distribution", Reason: "no value in " + column}
	}
	for label, n := range counts {
		d.Counts = append(d.Counts, LabelCount{Label: label, Count: n})
	}
	sort.Slice(d.Counts, func(i, j int) bool {
		if d.Counts[i].Count == d.Counts[j].Count {
			return d.Counts[i].Label < d.Counts[j].Label
		}
		return d.Counts[i].Count > d.Counts[j].Count
	})
	return d, nil
}

// ServiceMean is the mean rating of one service among one satisfaction label.
type ServiceMean struct {
	Label   string
	Service string
	Mean    float64
	Count   int
}

// ServiceTable holds per-label service averages. Skipped names the requested
// service columns absent from the table or not tagged numeric.
type ServiceTable struct {
	Labels   []string
	Services []string
	Means    []ServiceMean
	Skipped  []string
}

// Mean looks up one cell of the label by service grid.
func (s *ServiceTable) Mean(label, service string) (float64, bool) {
	for _, m := range s.Means {
		if m.Label == label && m.Service == service {
			return m.Mean, true
		}
	}
	return 0, false
}

// ServiceMeans averages each service rating per satisfaction label. A nil
// services list means every survey service column.
func ServiceMeans(v *schema.Validated, services []string) (*ServiceTable, error) {
	if services == nil {
		services = schema.ServiceColumns
	}
	labels, ok := v.Table.Column(SatisfactionColumn)
	if !ok {
		return nil, schema.MissingColumn(v.Contract.Name, SatisfactionColumn, v.Table.Names())
	}

	out := &ServiceTable{}
	seen := map[string]bool{}
	for _, l := range labels.Values {
		if table.IsMissing(l) {
			continue
		}
		l = strings.TrimSpace(l)
		if !seen[l] {
			seen[l] = true
			out.Labels = append(out.Labels, l)
		}
	}
	sort.Strings(out.Labels)

	for _, svc := range services {
		xs, present, found := v.Table.Floats(svc)
		if !found || requireNumeric(svc, v.Kind(svc)) != nil {
			out.Skipped = append(out.Skipped, svc)
			continue
		}
		out.Services = append(out.Services, svc)
		byLabel := map[string][]float64{}
		for r, l := range labels.Values {
			if table.IsMissing(l) || !present[r] {
				continue
			}
			l = strings.TrimSpace(l)
			byLabel[l] = append(byLabel[l], xs[r])
		}
		for _, l := range out.Labels {
			vals := byLabel[l]
			if len(vals) == 0 {
				continue
			}
			mean, _ := stats.Mean(vals)
			out.Means = append(out.Means, ServiceMean{Label: l, Service: svc, Mean: mean, Count: len(vals)})
		}
	}
	if len(out.Services) == 0 {
		return nil, &EmptyResultError{Stage: "service means", Reason: "none of the service columns are present"}
	}
	return out, nil
}

// RatingBin counts rows carrying one rating value.
type RatingBin struct {
	Rating float64
	Count  int
}

// RatingHistogram is the distribution of one service rating, ordered by
// rating value.
type RatingHistogram struct {
	Service string
	Bins    []RatingBin
	Skipped int
}

// RatingDistribution counts rows per rating value of a service column.
func RatingDistribution(v *schema.Validated, service string) (*RatingHistogram, error) {
	vals, skipped, ok := numericCells(v.Table, service)
	if !ok {
		return nil, schema.MissingColumn(v.Contract.Name, service, v.Table.Names())
	}
	if err := requireNumeric(service, v.Kind(service)); err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, &EmptyResultError{Stage: "rating distribution", Reason: "no numeric value in " + service}
	}
	counts := map[float64]int{}
	for _, x := range vals {
		counts[x]++
	}
	h := &RatingHistogram{Service: service, Skipped: skipped}
	for x, n := range counts {
		h.Bins = append(h.Bins, RatingBin{Rating: x, Count: n})
	}
	sort.Slice(h.Bins, func(i, j int) bool { return h.Bins[i].Rating < h.Bins[j].Rating })
	return h, nil
}

// FiveNumber is the box plot summary of one group.
type FiveNumber struct {
	Group  string
	Count  int
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// GroupedRatings summarizes a service rating per group, ordered by group.
type GroupedRatings struct {
	Service string
	Group   string
	Groups  []FiveNumber
	Skipped int
}

// RatingByGroup summarizes a service rating within each group of a
// categorical column such as Customer Type or Class.
func RatingByGroup(v *schema.Validated, service, group string) (*GroupedRatings, error) {
	groups, ok := v.Table.Column(group)
	if !ok {
		return nil, schema.MissingColumn(v.Contract.Name, group, v.Table.Names())
	}
	xs, present, found := v.Table.Floats(service)
	if !found {
		return nil, schema.MissingColumn(v.Contract.Name, service, v.Table.Names())
	}
	if err := requireNumeric(service, v.Kind(service)); err != nil {
		return nil, err
	}

	out := &GroupedRatings{Service: service, Group: group}
	byGroup := map[string][]float64{}
	for r, g := range groups.Values {
		if table.IsMissing(g) || !present[r] {
			out.Skipped++
			continue
		}
		g = strings.TrimSpace(g)
		byGroup[g] = append(byGroup[g], xs[r])
	}
	if len(byGroup) == 0 {
		return nil, &EmptyResultError{Stage: "rating by group", Reason: "no row has both " + service + " and " + group}
	}
	for g, vals := range byGroup {
		out.Groups = append(out.Groups, fiveNumber(g, vals))
	}
	sort.Slice(out.Groups, func(i, j int) bool { return out.Groups[i].Group < out.Groups[j].Group })
	return out, nil
}

func fiveNumber(group string, vals []float64) FiveNumber {
	f := FiveNumber{Group: group, Count: len(vals)}
	f.Min, _ = stats.Min(vals)
	f.Max, _ = stats.Max(vals)
	f.Median, _ = stats.Median(vals)
	if len(vals) < 2 {
		f.Q1, f.Q3 = f.Median, f.Median
		return f
	}
	q, _ := stats.Quartile(vals)
	f.Q1, f.Q3 = q.Q1, q.Q3
	return f
}

// Metric is one headline figure of the survey.
type Metric struct {
	Name  string
	Value float64
	Unit  string
}

// KeyMetrics computes the headline figures whose columns are present:
// average delays, the loyal customer share and the average age. Each value
// is rounded to one decimal.
func KeyMetrics(v *schema.Validated) []Metric {
	var out []Metric
	mean := func(name, column, unit string) {
		vals, _, ok := numericCells(v.Table, column)
		if !ok || len(vals) == 0 || requireNumeric(column, v.Kind(column)) != nil {
			return
		}
		m, _ := stats.Mean(vals)
		out = append(out, Metric{Name: name, Value: round1(m), Unit: unit})
	}
	mean("Avg Departure Delay", DepartureDelayColumn, "min")
	mean("Avg Arrival Delay", ArrivalDelayColumn, "min")
	if col, ok := v.Table.Column(CustomerTypeColumn); ok {
		loyal, present := 0, 0
		for _, c := range col.Values {
			if table.IsMissing(c) {
				continue
			}
			present++
			if strings.TrimSpace(c) == LoyalCustomer {
				loyal++
			}
		}
		if present > 0 {
			out = append(out, Metric{Name: "Loyal Customers", Value: round1(100 * float64(loyal) / float64(present)), Unit: "%"})
		}
	}
	mean("Avg Age", AgeColumn, "years")
	return out
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
