package engine

// ============================================================================
// CHART BUILDER — Produces ChartConfig from QuerySpec + Groups / Views
// ============================================================================
// Category charts (pie) come from aggregated groups.
// Scatter charts come straight from the filtered view, one series per
// ColorBy value.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// DefaultPalette returns a copy of the default color palette.
func DefaultPalette() []string {
	return append([]string(nil), defaultColors...)
}

// BuildChart produces a category ChartConfig from a QuerySpec and aggregated groups.
// No groups yields a chart with one empty series, never nil.
func BuildChart(spec QuerySpec, groups []Group, opts ...Option) *ChartConfig {
	cfg := applyOptions(opts)

	chartType := spec.Visualize
	if chartType == "" {
		chartType = "pie"
	}

	chart := &ChartConfig{
		ChartType:  chartType,
		Title:      spec.Title,
		ShowLegend: true,
		ShowGrid:   chartType != "pie",
	}

	if len(spec.GroupBy) > 0 {
		chart.XAxis = cfg.label(spec.GroupBy[0])
	}
	chart.YAxis = LabelForAggregation(spec.Aggregation)
	if spec.XAxisLabel != "" {
		chart.XAxis = spec.XAxisLabel
	}
	if spec.YAxisLabel != "" {
		chart.YAxis = spec.YAxisLabel
	}

	chart.Series = buildSingleSeries(groups, spec.Title)
	chart.Colors = assignColors(cfg.Palette, len(groups))
	return chart
}

// BuildScatter produces a scatter ChartConfig from an already filtered view.
// Series appear in order of first appearance of their ColorBy value; points
// keep record order. An empty view yields a chart with no series.
func BuildScatter(spec QuerySpec, view RecordView, opts ...Option) *ChartConfig {
	cfg := applyOptions(opts)

	chart := &ChartConfig{
		ChartType:  "scatter",
		Title:      spec.Title,
		XAxis:      cfg.label(spec.X),
		YAxis:      cfg.label(spec.Y),
		Series:     []ChartSeries{},
		ShowLegend: spec.ColorBy != "",
		ShowGrid:   true,
	}
	if spec.XAxisLabel != "" {
		chart.XAxis = spec.XAxisLabel
	}
	if spec.YAxisLabel != "" {
		chart.YAxis = spec.YAxisLabel
	}
	if spec.Range != nil && spec.Range.Measure == spec.X {
		chart.XRange = &AxisRange{Min: spec.Range.Min, Max: spec.Range.Max}
	}

	index := make(map[string]int)
	for i := 0; i < view.Len(); i++ {
		name := ""
		if spec.ColorBy != "" {
			name = view.Dimension(i, spec.ColorBy)
		}
		pos, ok := index[name]
		if !ok {
			pos = len(chart.Series)
			index[name] = pos
			chart.Series = append(chart.Series, ChartSeries{
				Name:  seriesName(name, spec.Title),
				Color: cfg.Palette[pos%len(cfg.Palette)],
			})
		}

		point := ScatterPoint{
			X: view.Measure(i, spec.X),
			Y: view.Measure(i, spec.Y),
		}
		if spec.PointLabel != "" {
			point.Label = view.Dimension(i, spec.PointLabel)
		}
		chart.Series[pos].Points = append(chart.Series[pos].Points, point)
	}

	chart.Colors = assignColors(cfg.Palette, len(chart.Series))
	return chart
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func buildSingleSeries(groups []Group, seriesName string) []ChartSeries {
	if seriesName == "" {
		seriesName = "Value"
	}

	points := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, ChartPoint{
			Label: g.Label,
			Value: RoundTo2(g.Value),
		})
	}

	return []ChartSeries{{
		Name: seriesName,
		Data: points,
	}}
}

func seriesName(name, fallback string) string {
	if name != "" {
		return name
	}
	if fallback != "" {
		return fallback
	}
	return "Value"
}

func assignColors(palette []string, count int) []string {
	if len(palette) == 0 {
		palette = defaultColors
	}
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = palette[i%len(palette)]
	}
	return colors
}
