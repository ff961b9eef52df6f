package engine

// ============================================================================
// ENGINE TYPES — Records, query specs and render-ready chart output
// ============================================================================
// Record holds one data row as dimension/measure maps.
// QuerySpec says what to compute; ChartConfig/TableData is what comes out.
//
// Dependency: engine depends only on zerolog (optional debug logging).
// ============================================================================

// ============================================================================
// RECORD — Generic data row
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
//
// Example: Record{Dimensions["launch_site"]="CCAFS LC-40", Measures["payload_mass_kg"]=525}
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// QUERYSPEC — What the engine should compute
// ============================================================================

// QuerySpec defines what the engine should compute.
type QuerySpec struct {
	Visualize   string   `json:"visualize"`             // "pie", "scatter", "table"
	Filters     Filters  `json:"filters"`               // Which records to include
	Range       *Range   `json:"range,omitempty"`       // Inclusive numeric filter on one measure
	Aggregation string   `json:"aggregation"`           // "sum", "count", "avg", "max", "min", "none"
	Measure     string   `json:"measure"`               // Which measure to aggregate (empty → default)
	GroupBy     []string `json:"groupBy"`               // Dimension keys: ["launch_site"]
	SortBy      string   `json:"sortBy"`                // "value_desc", "value_asc", "label_asc", "label_desc"
	Limit       int      `json:"limit"`                 // 0 = all
	Metrics     []Metric `json:"metrics,omitempty"`     // Table columns (table only)
	X           string   `json:"x,omitempty"`           // Scatter x measure
	Y           string   `json:"y,omitempty"`           // Scatter y measure
	ColorBy     string   `json:"colorBy,omitempty"`     // Scatter: one series per value of this dimension
	PointLabel  string   `json:"pointLabel,omitempty"`  // Scatter: dimension shown as point label
	Title       string   `json:"title"`                 // Chart/table title
	XAxisLabel  string   `json:"xAxisLabel,omitempty"`  // Overrides the derived axis label
	YAxisLabel  string   `json:"yAxisLabel,omitempty"`  // Overrides the derived axis label
	GroupLabel  string   `json:"groupLabel,omitempty"`  // Table: header of the group column
	SummaryName string   `json:"summaryName,omitempty"` // Table: label of the totals row
}

// Filters define which records to include.
// Keys are dimension names. Values are allowed values.
// OR within a dimension, AND across dimensions. Empty = all.
//
// Example: Filters{Dimensions: {"launch_site": ["KSC LC-39A"]}}
type Filters struct {
	Dimensions map[string][]string `json:"dimensions"`
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	if f.Dimensions == nil {
		return true
	}
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// Range is an inclusive [Min, Max] constraint on a measure.
// Min > Max matches nothing.
type Range struct {
	Measure string  `json:"measure"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

// Metric is one computed table column.
type Metric struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Measure     string `json:"measure"`
	Aggregation string `json:"aggregation"`
	Format      string `json:"format"` // "int", "number", "percent"
}

// ============================================================================
// RESULT — Render-ready output
// ============================================================================

// Result is the engine's render-ready output.
type Result struct {
	Success bool   `json:"success"`
	Type    string `json:"type"` // "chart", "table"
	Title   string `json:"title"`
	Matched int    `json:"matched"` // records left after filtering

	// Exactly one of these is populated based on Type:
	ChartConfig *ChartConfig `json:"chartConfig,omitempty"`
	TableData   *TableData   `json:"tableData,omitempty"`
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group represents a grouped/aggregated result.
// Builders convert these into ChartConfig or TableData.
type Group struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Value float64    `json:"value"`
	Count int        `json:"count"`
	View  RecordView `json:"-"` // Sub-view for records in this group (zero-copy)
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	XRange     *AxisRange    `json:"xRange,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// AxisRange pins an axis to [Min, Max].
type AxisRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ChartSeries represents a data series in a chart.
// Category charts (pie) fill Data; scatter charts fill Points.
type ChartSeries struct {
	Name   string         `json:"name"`
	Data   []ChartPoint   `json:"data,omitempty"`
	Points []ScatterPoint `json:"points,omitempty"`
	Color  string         `json:"color,omitempty"`
}

// ChartPoint represents a single labelled value (a pie slice).
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ScatterPoint is one (x, y) observation.
type ScatterPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

// PointCount returns the number of slices or points across all series.
func (c *ChartConfig) PointCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, s := range c.Series {
		n += len(s.Data) + len(s.Points)
	}
	return n
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "percent"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals or aggregations for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}
