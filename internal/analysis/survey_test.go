package analysis

import (
	"testing"

	"github.com/KaramelBytes/paxsat-cli/internal/schema"
	"github.com/KaramelBytes/paxsat-cli/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func survey(t *testing.T) *schema.Validated {
	return validated(t, schema.SurveyContract(),
		[]string{"satisfaction", "Inflight wifi service", "Seat comfort", "Customer Type", "Class", "Age", "Departure Delay in Minutes"},
		[]string{"satisfied", "5", "4", "Loyal Customer", "Business", "40", "0"},
		[]string{"satisfied", "4", "5", "Loyal Customer", "Business", "52", "10"},
		[]string{"neutral or dissatisfied", "1", "2", "disloyal Customer", "Eco", "23", "35"},
		[]string{"neutral or dissatisfied", "2", "", "Loyal Customer", "Eco", "31", "15"},
		[]string{"neutral or dissatisfied", "3", "3", "disloyal Customer", "Eco Plus", "", "NA"},
	)
}

func TestSatisfactionDistribution(t *testing.T) {
	d, err := SatisfactionDistribution(survey(t))
	require.NoError(t, err)
	assert.Equal(t, []LabelCount{
		{Label: "neutral or dissatisfied", Count: 3},
		{Label: "satisfied", Count: 2},
	}, d.Counts)
	assert.Equal(t, 5, d.Total)
}

func TestServiceMeans(t *testing.T) {
	m, err := ServiceMeans(survey(t), []string{"Inflight wifi service", "Seat comfort", "Cleanliness"})
	require.NoError(t, err)
	assert.Equal(t, []string{"neutral or dissatisfied", "satisfied"}, m.Labels)
	assert.Equal(t, []string{"Inflight wifi service", "Seat comfort"}, m.Services)
	assert.Equal(t, []string{"Cleanliness"}, m.Skipped)

	got, ok := m.Mean("satisfied", "Inflight wifi service")
	require.True(t, ok)
	assert.InDelta(t, 4.5, got, 1e-9)
	got, ok = m.Mean("neutral or dissatisfied", "Seat comfort")
	require.True(t, ok)
	assert.InDelta(t, 2.5, got, 1e-9)

	all, err := ServiceMeans(survey(t), nil)
	require.NoError(t, err)
	assert.Len(t, all.Skipped, len(schema.ServiceColumns)-2)
}

func TestRatingDistribution(t *testing.T) {
	h, err := RatingDistribution(survey(t), "Seat comfort")
	require.NoError(t, err)
	assert.Equal(t, []RatingBin{{2, 1}, {3, 1}, {4, 1}, {5, 1}}, h.Bins)
	assert.Equal(t, 1, h.Skipped)

	_, err = RatingDistribution(survey(t), "Cleanliness")
	var se *schema.Error
	assert.ErrorAs(t, err, &se)
}

func TestSurveyRatingsFollowKindTags(t *testing.T) {
	v := validated(t, schema.SurveyContract(),
		[]string{"satisfaction", "Inflight wifi service", "Seat comfort", "Customer Type", "Class", "Age"},
		[]string{"satisfied", "5", "good", "Loyal Customer", "Business", "40"},
		[]string{"neutral or dissatisfied", "2", "3", "disloyal Customer", "Eco", "n/k"},
	)
	assert.Equal(t, table.KindCategorical, v.Kind("Seat comfort"))

	var ne *NonNumericFeatureError
	_, err := RatingDistribution(v, "Seat comfort")
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, "Seat comfort", ne.Column)
	_, err = RatingByGroup(v, "Seat comfort", "Class")
	assert.ErrorAs(t, err, &ne)

	m, err := ServiceMeans(v, []string{"Inflight wifi service", "Seat comfort"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Inflight wifi service"}, m.Services)
	assert.Equal(t, []string{"Seat comfort"}, m.Skipped)

	for _, metric := range KeyMetrics(v) {
		assert.NotEqual(t, "Avg Age", metric.Name)
	}
}

func TestRatingByGroup(t *testing.T) {
	g, err := RatingByGroup(survey(t), "Inflight wifi service", "Class")
	require.NoError(t, err)
	require.Len(t, g.Groups, 3)

	biz := g.Groups[0]
	assert.Equal(t, "Business", biz.Group)
	assert.Equal(t, 2, biz.Count)
	assert.Equal(t, 4.0, biz.Min)
	assert.Equal(t, 5.0, biz.Max)
	assert.Equal(t, 4.5, biz.Median)
	assert.Equal(t, 4.0, biz.Q1)
	assert.Equal(t, 5.0, biz.Q3)

	plus := g.Groups[2]
	assert.Equal(t, "Eco Plus", plus.Group)
	assert.Equal(t, 3.0, plus.Q1)
	assert.Equal(t, 3.0, plus.Q3)
}

func TestKeyMetrics(t *testing.T) {
	got := KeyMetrics(survey(t))
	assert.Equal(t, []Metric{
		{Name: "Avg Departure Delay", Value: 15, Unit: "min"},
		{Name: "Loyal Customers", Value: 60, Unit: "%"},
		{Name: "Avg Age", Value: 36.5, Unit: "years"},
	}, got)
}
