package engine

// ============================================================================
// TABLE BUILDER — Produces TableData from QuerySpec + Groups
// ============================================================================
// One row per group, one column per Metric. Each metric is recomputed over
// the group's SubView, so a table can mix counts, sums, rates and bounds.
// ============================================================================

// BuildTable produces a TableData from a QuerySpec, groups and the filtered view.
// The summary row applies every metric to the whole view.
func BuildTable(spec QuerySpec, groups []Group, view RecordView) *TableData {
	groupLabel := spec.GroupLabel
	if groupLabel == "" && len(spec.GroupBy) > 0 {
		groupLabel = LabelForDimension(spec.GroupBy[0])
	}
	if groupLabel == "" {
		groupLabel = "Group"
	}

	metrics := spec.Metrics
	if len(metrics) == 0 {
		metrics = []Metric{{
			Key:         "value",
			Label:       LabelForAggregation(spec.Aggregation),
			Measure:     spec.Measure,
			Aggregation: spec.Aggregation,
			Format:      "number",
		}}
	}

	columns := make([]Column, 0, len(metrics)+1)
	columns = append(columns, Column{Key: "group", Label: groupLabel, Type: "text", Align: "left"})
	for _, m := range metrics {
		columns = append(columns, Column{
			Key:   m.Key,
			Label: m.Label,
			Type:  columnType(m.Format),
			Align: "right",
		})
	}

	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		row := make([]string, 0, len(columns))
		row = append(row, g.Label)
		for _, m := range metrics {
			row = append(row, formatMetric(g.View, m))
		}
		rows = append(rows, row)
	}

	table := &TableData{
		Title:   spec.Title,
		Columns: columns,
		Rows:    rows,
	}

	if view != nil && view.Len() > 0 {
		label := spec.SummaryName
		if label == "" {
			label = "Total"
		}
		values := make(map[string]string, len(metrics))
		for _, m := range metrics {
			values[m.Key] = formatMetric(view, m)
		}
		table.Summary = &Summary{Label: label, Values: values}
	}

	return table
}

func formatMetric(view RecordView, m Metric) string {
	if view == nil || view.Len() == 0 {
		return ""
	}
	v := Aggregate(view, m.Measure, m.Aggregation)
	switch m.Format {
	case "int":
		return FormatInt(int(v))
	case "percent":
		return FormatPercent(v)
	default:
		return FormatNumber(RoundTo2(v))
	}
}

func columnType(format string) string {
	if format == "percent" {
		return "percent"
	}
	return "number"
}
