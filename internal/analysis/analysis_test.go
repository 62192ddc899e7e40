package analysis

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/KaramelBytes/paxsat-cli/internal/schema"
	"github.com/KaramelBytes/paxsat-cli/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validated(t *testing.T, c schema.Contract, header []string, rows ...[]string) *schema.Validated {
	t.Helper()
	tb, err := table.New(header, rows)
	require.NoError(t, err)
	v, err := schema.Validate(tb, c)
	require.NoError(t, err)
	return v
}

func flights(t *testing.T) *schema.Validated {
	return validated(t, schema.FlightContract(),
		[]string{"flight_id", "satisfaction_score", "delay", "distance"},
		[]string{"A", "4", "10", "500"},
		[]string{"A", "5", "0", "800"},
		[]string{"B", "3", "30", "300"},
		[]string{"B", "2", "45", "200"},
		[]string{"C", "1", "60", "100"},
		[]string{"C", "5", "5", "900"},
		[]string{"D", "4", "15", "600"},
		[]string{"E", "", "20", "400"},
		[]string{"F", "7", "0", "500"},
		[]string{"", "3", "10", "100"},
	)
}

func mustClean(t *testing.T, v *schema.Validated, opt CleanOptions) *Cleaned {
	t.Helper()
	c, _, err := Clean(v, opt)
	require.NoError(t, err)
	return c
}

func TestCleanDropsMissingAndOutOfRange(t *testing.T) {
	c, st, err := Clean(flights(t), DefaultCleanOptions())
	require.NoError(t, err)

	assert.Equal(t, 10, st.Original)
	assert.Equal(t, 7, st.Cleaned)
	assert.Equal(t, 3, st.Removed)
	assert.Equal(t, 2, st.MissingDropped)
	assert.Equal(t, 1, st.OutOfRangeDropped)
	assert.Equal(t, st.Original-st.Cleaned, st.Removed)
	assert.Equal(t, table.KindNumeric, c.Kind("satisfaction_score"))

	scores, ok, _ := c.Table.Floats("satisfaction_score")
	for i, s := range scores {
		require.True(t, ok[i])
		assert.GreaterOrEqual(t, s, 1.0)
		assert.LessOrEqual(t, s, 5.0)
	}
	for _, name := range c.Contract.Required {
		col, _ := c.Table.Column(name)
		for _, v := range col.Values {
			assert.False(t, table.IsMissing(v), "%s has a missing cell", name)
		}
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	first := mustClean(t, flights(t), DefaultCleanOptions())
	second, st, err := Reclean(first)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Removed)
	assert.Equal(t, table.Fingerprint(first.Table), table.Fingerprint(second.Table))
	assert.Same(t, first.Table, second.Table)
}

func TestCleanDropsNonNumericScores(t *testing.T) {
	v := validated(t, schema.FlightContract(),
		[]string{"flight_id", "satisfaction_score"},
		[]string{"A", "4"},
		[]string{"B", "great"},
		[]string{"C", "3,5"},
	)
	c, st, err := Clean(v, DefaultCleanOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, st.NonNumericDropped)
	assert.Equal(t, 2, c.Rows())
	assert.Equal(t, []string{"C", "3,5"}, c.Table.Row(1))
}

func TestCleanErrors(t *testing.T) {
	v := flights(t)

	_, _, err := Clean(v, CleanOptions{ScoreColumn: "satisfaction_score", Min: 5, Max: 1})
	var re *RangeError
	assert.ErrorAs(t, err, &re)

	_, _, err = Clean(v, CleanOptions{ScoreColumn: "rating", Min: 1, Max: 5})
	var se *schema.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{"rating"}, se.Missing)

	open := schema.Contract{Name: "open", Required: []string{"flight_id", "satisfaction_score"}}
	_, _, err = Clean(validated(t, open, []string{"flight_id", "satisfaction_score"}, []string{"A", "4"}),
		CleanOptions{ScoreColumn: "satisfaction_score", Min: 8, Max: 9})
	var ee *EmptyResultError
	assert.ErrorAs(t, err, &ee)
}

func TestCleanRejectsRangeOutsideDeclaredDomain(t *testing.T) {
	_, _, err := Clean(flights(t), CleanOptions{ScoreColumn: "satisfaction_score", Min: 1, Max: 10})
	var re *RangeError
	require.ErrorAs(t, err, &re)
	require.NotNil(t, re.Domain)
	assert.Equal(t, "satisfaction_score", re.Column)
	assert.Contains(t, err.Error(), "[1, 5]")

	_, st, err := Clean(flights(t), CleanOptions{ScoreColumn: "satisfaction_score", Min: 2, Max: 4})
	require.NoError(t, err)
	assert.Equal(t, 5, st.Cleaned)
}

func TestCleanOptionsWithinNarrowsToDomain(t *testing.T) {
	c := schema.FlightContract()
	wide := CleanOptions{ScoreColumn: "satisfaction_score", Min: 0, Max: 10}
	assert.Equal(t, DefaultCleanOptions(), wide.Within(c))

	inner := CleanOptions{ScoreColumn: "satisfaction_score", Min: 2, Max: 4}
	assert.Equal(t, inner, inner.Within(c))

	other := CleanOptions{ScoreColumn: "rating", Min: 0, Max: 10}
	assert.Equal(t, other, other.Within(c))
}

func TestCleanDropsRowsOutsideOtherDeclaredBounds(t *testing.T) {
	lo, hi := 0.0, 120.0
	c := schema.Contract{
		Name:     "aged",
		Required: []string{"flight_id", "satisfaction_score", "Age"},
		Domains: map[string]schema.Domain{
			"satisfaction_score": {Kind: table.KindNumeric, Min: &lo},
			"Age":                {Kind: table.KindNumeric, Min: &lo, Max: &hi},
		},
	}
	v := validated(t, c, []string{"flight_id", "satisfaction_score", "Age"},
		[]string{"A", "4", "31"},
		[]string{"B", "5", "130"},
		[]string{"C", "3", "-1"},
		[]string{"D", "2", "120"},
	)
	cl, st, err := Clean(v, DefaultCleanOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, st.OutOfRangeDropped)
	assert.Equal(t, 2, cl.Rows())
}

func TestCleanRetagsKindsOfKeptRows(t *testing.T) {
	v := validated(t, schema.FlightContract(),
		[]string{"flight_id", "satisfaction_score", "delay"},
		[]string{"A", "4", "10"},
		[]string{"B", "", "late"},
		[]string{"C", "2", "30"},
	)
	assert.Equal(t, table.KindCategorical, v.Kind("delay"))

	c := mustClean(t, v, DefaultCleanOptions())
	assert.Equal(t, table.KindNumeric, c.Kind("delay"))
	r, err := Regress(c, "delay")
	require.NoError(t, err)
	assert.InDelta(t, -0.1, r.Slope, 1e-9)
}

func TestStagesRejectColumnsTaggedCategorical(t *testing.T) {
	c := mustClean(t, flights(t), DefaultCleanOptions())
	c.Kinds["delay"] = table.KindCategorical

	var ne *NonNumericFeatureError
	_, err := Regress(c, "delay")
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, table.KindCategorical, ne.Kind)

	_, err = Report(c, "flight_id", "delay")
	assert.ErrorAs(t, err, &ne)

	_, err = Cluster(c, DefaultClusterOptions("delay", "distance"))
	var fe *InsufficientFeaturesError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"delay"}, fe.Unusable)
}

func TestRegressRecoversExactLine(t *testing.T) {
	open := schema.Contract{Name: "open", Required: []string{"flight_id", "satisfaction_score"}}
	v := validated(t, open,
		[]string{"flight_id", "satisfaction_score", "x"},
		[]string{"a", "3", "1"},
		[]string{"b", "5", "2"},
		[]string{"c", "7", "3"},
		[]string{"d", "9", "4"},
		[]string{"e", "11", "5"},
	)
	c := mustClean(t, v, CleanOptions{ScoreColumn: "satisfaction_score", Min: 0, Max: 20})

	r, err := Regress(c, "x")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, r.Slope, 1e-9)
	assert.InDelta(t, 1.0, r.Intercept, 1e-9)
	assert.InDelta(t, 1.0, r.RSquared, 1e-9)
	assert.Len(t, r.Points, 5)
	assert.Equal(t, Point{X: 1, Y: 3}, roundPoint(r.Line[0]))
	assert.Equal(t, Point{X: 5, Y: 11}, roundPoint(r.Line[1]))
	assert.InDelta(t, 13.0, r.Predict(6), 1e-9)
}

func roundPoint(p Point) Point {
	return Point{X: round1(p.X), Y: round1(p.Y)}
}

func TestRegressErrors(t *testing.T) {
	v := validated(t, schema.FlightContract(),
		[]string{"flight_id", "satisfaction_score", "flat", "label"},
		[]string{"a", "3", "2", "x"},
		[]string{"b", "4", "2", "y"},
		[]string{"c", "5", "2", "z"},
	)
	c := mustClean(t, v, DefaultCleanOptions())

	_, err := Regress(c, "nope")
	var se *schema.Error
	assert.ErrorAs(t, err, &se)

	_, err = Regress(c, "label")
	var ne *NonNumericFeatureError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, table.KindCategorical, ne.Kind)

	_, err = Regress(c, "flat")
	var ce *ConstantFeatureError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 2.0, ce.Value)
}

func TestReportGroupsAndOrders(t *testing.T) {
	v := validated(t, schema.FlightContract(),
		[]string{"flight_id", "satisfaction_score"},
		[]string{"A", "4"},
		[]string{"A", "5"},
		[]string{"B", "3"},
		[]string{"B", "2"},
	)
	c := mustClean(t, v, DefaultCleanOptions())

	rep, err := Report(c, "flight_id", "satisfaction_score")
	require.NoError(t, err)
	require.Len(t, rep.Rows, 2)
	assert.Equal(t, "A", rep.Rows[0].Key)
	assert.InDelta(t, 4.5, rep.Rows[0].Mean, 1e-9)
	assert.InDelta(t, 0.7071, rep.Rows[0].Std, 1e-4)
	assert.Equal(t, "B", rep.Rows[1].Key)
	assert.InDelta(t, 2.5, rep.Rows[1].Mean, 1e-9)
	assert.InDelta(t, 0.7071, rep.Rows[1].Std, 1e-4)
	assert.Equal(t, 4, rep.Total)

	var buf bytes.Buffer
	require.NoError(t, rep.WriteCSV(&buf, DefaultPrecision))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"flight_id", "mean", "count", "std"},
		{"A", "4.5000", "2", "0.7071"},
		{"B", "2.5000", "2", "0.7071"},
	}, records)
}

func TestReportCountsSumToRows(t *testing.T) {
	c := mustClean(t, flights(t), DefaultCleanOptions())
	rep, err := Report(c, "flight_id", "delay")
	require.NoError(t, err)

	sum := 0
	for i, r := range rep.Rows {
		sum += r.Count
		if i > 0 {
			prev := rep.Rows[i-1]
			assert.True(t, prev.Mean > r.Mean || (prev.Mean == r.Mean && prev.Key < r.Key))
		}
	}
	assert.Equal(t, c.Rows(), sum)
	assert.Equal(t, c.Rows(), rep.Total)

	// D has a single row.
	for _, r := range rep.Rows {
		if r.Key == "D" {
			assert.Equal(t, 0.0, r.Std)
		}
	}
}

func TestReportErrors(t *testing.T) {
	v := validated(t, schema.FlightContract(),
		[]string{"flight_id", "satisfaction_score", "cabin"},
		[]string{"A", "4", "eco"},
		[]string{"B", "3", "biz"},
	)
	c := mustClean(t, v, DefaultCleanOptions())

	_, err := Report(c, "route", "satisfaction_score")
	var se *schema.Error
	assert.ErrorAs(t, err, &se)

	_, err = Report(c, "flight_id", "cabin")
	var ne *NonNumericFeatureError
	assert.ErrorAs(t, err, &ne)
}

func TestCleanedWriteCSV(t *testing.T) {
	c := mustClean(t, flights(t), DefaultCleanOptions())
	var buf bytes.Buffer
	require.NoError(t, c.WriteCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, c.Rows()+1)
	assert.Equal(t, []string{"flight_id", "satisfaction_score", "delay", "distance"}, records[0])
	assert.Equal(t, []string{"A", "4", "10", "500"}, records[1])
}

func TestReportRejectsKeysNamedLikeSummaryColumns(t *testing.T) {
	v := validated(t, schema.FlightContract(),
		[]string{"flight_id", "satisfaction_score", "mean"},
		[]string{"A", "4", "x"},
		[]string{"B", "3", "y"},
	)
	_, err := Report(mustClean(t, v, DefaultCleanOptions()), "mean", "satisfaction_score")
	var ke *ReservedKeyError
	require.ErrorAs(t, err, &ke)
	assert.Equal(t, "mean", ke.Key)
}

func TestCleanedWriteCSVKeepsMissingMarkers(t *testing.T) {
	v := validated(t, schema.FlightContract(),
		[]string{"flight_id", "satisfaction_score", "delay", "note"},
		[]string{"A", "4", "NA", ""},
		[]string{"B", "3", "NaN", "<nil>"},
	)
	var buf bytes.Buffer
	require.NoError(t, mustClean(t, v, DefaultCleanOptions()).WriteCSV(&buf))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"flight_id", "satisfaction_score", "delay", "note"},
		{"A", "4", "NA", ""},
		{"B", "3", "NaN", "<nil>"},
	}, records)
}

func TestReportSingletonGroupHasZeroStd(t *testing.T) {
	v := validated(t, schema.FlightContract(),
		[]string{"flight_id", "satisfaction_score"},
		[]string{"A", "4"},
		[]string{"A", "5"},
		[]string{"B", "3"},
	)
	rep, err := Report(mustClean(t, v, DefaultCleanOptions()), "flight_id", "satisfaction_score")
	require.NoError(t, err)
	require.Len(t, rep.Rows, 2)
	assert.Equal(t, GroupRow{Key: "B", Mean: 3, Count: 1, Std: 0}, rep.Rows[1])
	assert.InDelta(t, 0.7071, rep.Rows[0].Std, 1e-4)
}
