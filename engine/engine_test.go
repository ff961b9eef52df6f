package engine

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// FIXTURES
// ============================================================================

func rec(site string, payload float64, class int, category, booster string) Record {
	classLabel := "0"
	if class == 1 {
		classLabel = "1"
	}
	return Record{
		Dimensions: map[string]string{
			"launch_site":              site,
			"booster_version_category": category,
			"booster_version":          booster,
			"class":                    classLabel,
		},
		Measures: map[string]float64{
			"payload_mass_kg": payload,
			"class":           float64(class),
			"record_count":    1,
		},
	}
}

func launches() RecordView {
	return NewSliceView([]Record{
		rec("CCAFS LC-40", 0, 0, "v1.0", "F9 v1.0  B0003"),
		rec("CCAFS LC-40", 525, 0, "v1.0", "F9 v1.0  B0005"),
		rec("VAFB SLC-4E", 500, 0, "v1.1", "F9 v1.1  B1003"),
		rec("KSC LC-39A", 2490, 1, "FT", "F9 FT B1031.1"),
		rec("KSC LC-39A", 5300, 1, "FT", "F9 FT B1032.1"),
		rec("CCAFS LC-40", 3136, 1, "FT", "F9 FT B1029.2"),
		rec("CCAFS SLC-40", 9600, 1, "B5", "F9 B5 B1048.4"),
		rec("KSC LC-39A", 6070, 0, "B4", "F9 B4 B1045.1"),
	})
}

// ============================================================================
// FILTERS
// ============================================================================

func TestApplyFiltersExactMatch(t *testing.T) {
	view := launches()

	got := ApplyFilters(view, Filters{Dimensions: map[string][]string{"launch_site": {"KSC LC-39A"}}})
	assert.Equal(t, 3, got.Len())

	lower := ApplyFilters(view, Filters{Dimensions: map[string][]string{"launch_site": {"ksc lc-39a"}}})
	assert.Equal(t, 0, lower.Len(), "site values must match exactly")
}

func TestApplyFiltersEmptyReturnsOriginal(t *testing.T) {
	view := launches()
	assert.Same(t, view, ApplyFilters(view, Filters{}))
	assert.Same(t, view, ApplyFilters(view, Filters{Dimensions: map[string][]string{"launch_site": {}}}))
}

func TestApplyFiltersOrWithinAndAcross(t *testing.T) {
	got := ApplyFilters(launches(), Filters{Dimensions: map[string][]string{
		"launch_site":              {"CCAFS LC-40", "KSC LC-39A"},
		"booster_version_category": {"FT"},
	}})
	assert.Equal(t, 3, got.Len())
}

func TestApplyRangeInclusive(t *testing.T) {
	view := launches()

	got := ApplyRange(view, Range{Measure: "payload_mass_kg", Min: 525, Max: 5300})
	var payloads []float64
	for i := 0; i < got.Len(); i++ {
		payloads = append(payloads, got.Measure(i, "payload_mass_kg"))
	}
	assert.Equal(t, []float64{525, 2490, 5300, 3136}, payloads)
}

func TestNarrowedViewReadsFromRoot(t *testing.T) {
	view := launches()
	ksc := ApplyFilters(view, Filters{Dimensions: map[string][]string{"launch_site": {"KSC LC-39A"}}})
	got := ApplyRange(ksc, Range{Measure: "payload_mass_kg", Min: 5000, Max: 7000})

	sub, ok := got.(*SubView)
	require.True(t, ok)
	assert.Same(t, view, sub.root)
	assert.Equal(t, []int{4, 7}, sub.rows)
	assert.Equal(t, "F9 B4 B1045.1", got.Dimension(1, "booster_version"))
	assert.Equal(t, "", got.Dimension(2, "booster_version"))
}

func TestApplyRangeInvertedIsEmpty(t *testing.T) {
	got := ApplyRange(launches(), Range{Measure: "payload_mass_kg", Min: 5000, Max: 1000})
	assert.Equal(t, 0, got.Len())
}

// ============================================================================
// AGGREGATION
// ============================================================================

func TestGroupAndAggregateKeepsFirstAppearanceOrder(t *testing.T) {
	groups := GroupAndAggregate(launches(), []string{"launch_site"}, "class", "sum", "", 0)

	var labels []string
	var values []float64
	for _, g := range groups {
		labels = append(labels, g.Label)
		values = append(values, g.Value)
	}
	assert.Equal(t, []string{"CCAFS LC-40", "VAFB SLC-4E", "KSC LC-39A", "CCAFS SLC-40"}, labels)
	assert.Equal(t, []float64{1, 0, 2, 1}, values)
}

func TestGroupAndAggregateCountSortedByLabel(t *testing.T) {
	site := ApplyFilters(launches(), Filters{Dimensions: map[string][]string{"launch_site": {"KSC LC-39A"}}})
	groups := GroupAndAggregate(site, []string{"class"}, "record_count", "count", "label_asc", 0)

	require.Len(t, groups, 2)
	assert.Equal(t, "0", groups[0].Key)
	assert.Equal(t, 1.0, groups[0].Value)
	assert.Equal(t, "1", groups[1].Key)
	assert.Equal(t, 2.0, groups[1].Value)
}

func TestGroupAndAggregateEmptyView(t *testing.T) {
	assert.Nil(t, GroupAndAggregate(NewSliceView(nil), []string{"launch_site"}, "class", "sum", "", 0))
}

func TestGroupAndAggregateLimit(t *testing.T) {
	groups := GroupAndAggregate(launches(), []string{"launch_site"}, "payload_mass_kg", "sum", "value_desc", 2)
	require.Len(t, groups, 2)
	assert.Equal(t, "KSC LC-39A", groups[0].Key)
}

func TestMeasureBounds(t *testing.T) {
	lo, hi, ok := MeasureBounds(launches(), "payload_mass_kg")
	require.True(t, ok)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 9600.0, hi)

	_, _, ok = MeasureBounds(NewSliceView(nil), "payload_mass_kg")
	assert.False(t, ok)
	assert.Equal(t, 0.0, MaxMeasure(NewSliceView(nil), "payload_mass_kg"))
}

func TestSortGroupsLabelNumeric(t *testing.T) {
	groups := []Group{{Key: "10"}, {Key: "9"}, {Key: "1"}}
	SortGroups(groups, "label_asc")
	assert.Equal(t, "1", groups[0].Key)
	assert.Equal(t, "9", groups[1].Key)
	assert.Equal(t, "10", groups[2].Key)
}

func TestUniqueValues(t *testing.T) {
	assert.Equal(t,
		[]string{"CCAFS LC-40", "VAFB SLC-4E", "KSC LC-39A", "CCAFS SLC-40"},
		UniqueValues(launches(), "launch_site"))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatInt(1234567))
	assert.Equal(t, "-1,000", FormatInt(-1000))
	assert.Equal(t, "9,600", FormatNumber(9600))
	assert.Equal(t, "12.35", FormatNumber(12.345))
	assert.Equal(t, "66.7%", FormatPercent(2.0/3.0))
	assert.Equal(t, "Launch site", LabelForDimension("launch_site"))
}

// ============================================================================
// CHART BUILDERS
// ============================================================================

func TestBuildChartPie(t *testing.T) {
	spec := QuerySpec{Visualize: "pie", GroupBy: []string{"launch_site"}, Aggregation: "sum", Title: "Sites"}
	groups := GroupAndAggregate(launches(), spec.GroupBy, "class", "sum", "", 0)

	chart := BuildChart(spec, groups)
	require.NotNil(t, chart)
	assert.Equal(t, "pie", chart.ChartType)
	assert.False(t, chart.ShowGrid)
	require.Len(t, chart.Series, 1)
	assert.Len(t, chart.Series[0].Data, 4)
	assert.Len(t, chart.Colors, 4)
	assert.Equal(t, 4, chart.PointCount())
}

func TestBuildChartNoGroupsIsEmptyNotNil(t *testing.T) {
	chart := BuildChart(QuerySpec{Visualize: "pie", Title: "none"}, nil)
	require.NotNil(t, chart)
	assert.Equal(t, 0, chart.PointCount())
	assert.Empty(t, chart.Colors)
}

func TestBuildScatterSeriesPerColor(t *testing.T) {
	spec := QuerySpec{
		Visualize:  "scatter",
		X:          "payload_mass_kg",
		Y:          "class",
		ColorBy:    "booster_version_category",
		PointLabel: "booster_version",
		Range:      &Range{Measure: "payload_mass_kg", Min: 0, Max: 10000},
	}
	chart := BuildScatter(spec, launches(), WithPalette([]string{"#111111", "#222222"}))

	var names []string
	for _, s := range chart.Series {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"v1.0", "v1.1", "FT", "B5", "B4"}, names)
	assert.Equal(t, "#111111", chart.Series[0].Color)
	assert.Equal(t, "#222222", chart.Series[1].Color)
	assert.Equal(t, "#111111", chart.Series[2].Color)
	assert.Equal(t, 8, chart.PointCount())
	assert.Equal(t, &AxisRange{Min: 0, Max: 10000}, chart.XRange)

	ft := chart.Series[2]
	assert.Equal(t, []ScatterPoint{
		{X: 2490, Y: 1, Label: "F9 FT B1031.1"},
		{X: 5300, Y: 1, Label: "F9 FT B1032.1"},
		{X: 3136, Y: 1, Label: "F9 FT B1029.2"},
	}, ft.Points)
}

func TestBuildScatterEmptyView(t *testing.T) {
	chart := BuildScatter(QuerySpec{X: "payload_mass_kg", Y: "class"}, NewSliceView(nil))
	assert.Equal(t, 0, chart.PointCount())

	// Series must encode as [] so clients can iterate without null checks.
	b, err := json.Marshal(chart)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"series":[]`)
}

func TestAxisLabels(t *testing.T) {
	names := map[string]string{
		"launch_site":     "Launch Site",
		"payload_mass_kg": "Payload Mass (kg)",
	}
	labels := WithLabels(func(key string) string { return names[key] })

	pie := QuerySpec{Visualize: "pie", GroupBy: []string{"launch_site"}, Aggregation: "sum"}
	assert.Equal(t, "Launch site", BuildChart(pie, nil).XAxis)
	assert.Equal(t, "Launch Site", BuildChart(pie, nil, labels).XAxis)

	pie.XAxisLabel = "Site"
	assert.Equal(t, "Site", BuildChart(pie, nil, labels).XAxis, "spec label wins")

	scatter := QuerySpec{X: "payload_mass_kg", Y: "class"}
	chart := BuildScatter(scatter, launches(), labels)
	assert.Equal(t, "Payload Mass (kg)", chart.XAxis)
	assert.Equal(t, "Class", chart.YAxis, "empty label falls back")
}

// ============================================================================
// TABLE BUILDER
// ============================================================================

func TestBuildTableMetrics(t *testing.T) {
	spec := QuerySpec{
		Visualize:   "table",
		GroupBy:     []string{"launch_site"},
		GroupLabel:  "Launch Site",
		SummaryName: "All Sites",
		Metrics: []Metric{
			{Key: "launches", Label: "Launches", Measure: "record_count", Aggregation: "count", Format: "int"},
			{Key: "successes", Label: "Successes", Measure: "class", Aggregation: "sum", Format: "int"},
			{Key: "rate", Label: "Success Rate", Measure: "class", Aggregation: "avg", Format: "percent"},
			{Key: "max", Label: "Max Payload", Measure: "payload_mass_kg", Aggregation: "max", Format: "number"},
		},
	}
	view := launches()
	groups := GroupAndAggregate(view, spec.GroupBy, "record_count", "count", "", 0)
	table := BuildTable(spec, groups, view)

	require.Len(t, table.Columns, 5)
	assert.Equal(t, "Launch Site", table.Columns[0].Label)
	assert.Equal(t, "percent", table.Columns[3].Type)

	want := [][]string{
		{"CCAFS LC-40", "3", "1", "33.3%", "3,136"},
		{"VAFB SLC-4E", "1", "0", "0.0%", "500"},
		{"KSC LC-39A", "3", "2", "66.7%", "6,070"},
		{"CCAFS SLC-40", "1", "1", "100.0%", "9,600"},
	}
	if diff := cmp.Diff(want, table.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	require.NotNil(t, table.Summary)
	assert.Equal(t, "All Sites", table.Summary.Label)
	assert.Equal(t, "8", table.Summary.Values["launches"])
	assert.Equal(t, "50.0%", table.Summary.Values["rate"])
}

// ============================================================================
// EXECUTOR
// ============================================================================

func TestExecuteScatterWithFilterAndRange(t *testing.T) {
	spec := QuerySpec{
		Visualize: "scatter",
		Filters:   Filters{Dimensions: map[string][]string{"launch_site": {"KSC LC-39A"}}},
		Range:     &Range{Measure: "payload_mass_kg", Min: 2490, Max: 5300},
		X:         "payload_mass_kg",
		Y:         "class",
		ColorBy:   "booster_version_category",
	}
	result, err := Execute(spec, launches())
	require.NoError(t, err)
	assert.Equal(t, "chart", result.Type)
	assert.Equal(t, 2, result.Matched)
	assert.Equal(t, 2, result.ChartConfig.PointCount())
}

func TestExecuteIsIdempotent(t *testing.T) {
	spec := QuerySpec{Visualize: "pie", GroupBy: []string{"launch_site"}, Aggregation: "sum", Measure: "class"}
	view := launches()

	first, err := Execute(spec, view)
	require.NoError(t, err)
	second, err := Execute(spec, view)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("results differ (-first +second):\n%s", diff)
	}
}

func TestExecuteTable(t *testing.T) {
	spec := QuerySpec{Visualize: "table", GroupBy: []string{"launch_site"}, Aggregation: "sum", Measure: "class"}
	result, err := Execute(spec, launches())
	require.NoError(t, err)
	assert.Equal(t, "table", result.Type)
	require.NotNil(t, result.TableData)
	assert.Len(t, result.TableData.Rows, 4)
}

func TestExecuteDefaultMeasure(t *testing.T) {
	spec := QuerySpec{Visualize: "pie", GroupBy: []string{"launch_site"}, Aggregation: "sum"}

	sum := func(opts ...Option) map[string]float64 {
		t.Helper()
		result, err := Execute(spec, launches(), opts...)
		require.NoError(t, err)
		out := make(map[string]float64)
		for _, p := range result.ChartConfig.Series[0].Data {
			out[p.Label] = p.Value
		}
		return out
	}

	assert.Equal(t, 3.0, sum()["KSC LC-39A"], "record_count by default")
	assert.Equal(t, 2.0, sum(WithDefaultMeasure("class"))["KSC LC-39A"])

	spec.Measure = "payload_mass_kg"
	assert.Equal(t, 13860.0, sum(WithDefaultMeasure("class"))["KSC LC-39A"], "explicit measure wins")
}

func TestExecuteRejectsBadSpecs(t *testing.T) {
	_, err := Execute(QuerySpec{Visualize: "radar"}, launches())
	assert.True(t, errors.Is(err, ErrUnsupportedChart))

	_, err = Execute(QuerySpec{Visualize: "pie"}, launches())
	assert.True(t, errors.Is(err, ErrInvalidSpec))

	_, err = Execute(QuerySpec{Visualize: "scatter", X: "payload_mass_kg"}, launches())
	assert.True(t, errors.Is(err, ErrInvalidSpec))
}
