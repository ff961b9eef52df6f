package schema

import "strings"

// ============================================================================
// SCHEMA — Describes the shape of a dataset for the loader + engine
// ============================================================================
// The loader uses Column/Required to map CSV headers onto record keys.
// The engine uses the keys for filtering, grouping and aggregation.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key          string   `json:"key"`
	Column       string   `json:"column,omitempty"` // CSV header; empty = derived from Key
	DisplayName  string   `json:"displayName"`
	Description  string   `json:"description,omitempty"`
	SampleValues []string `json:"sampleValues,omitempty"`
	Required     bool     `json:"required,omitempty"`
	Groupable    bool     `json:"groupable"`
	Filterable   bool     `json:"filterable"`
}

// MeasureMeta describes a numeric field used for aggregation.
type MeasureMeta struct {
	Key                string    `json:"key"`
	Column             string    `json:"column,omitempty"`
	DisplayName        string    `json:"displayName"`
	Description        string    `json:"description,omitempty"`
	Unit               string    `json:"unit,omitempty"` // "kg", "flag", "units"
	Required           bool      `json:"required,omitempty"`
	IsSynthetic        bool      `json:"isSynthetic,omitempty"`   // Auto-generated (e.g., record_count)
	Groupable          bool      `json:"groupable,omitempty"`     // Also exposed as a dimension (e.g., class "0"/"1")
	AllowedValues      []float64 `json:"allowedValues,omitempty"` // Empty = any number
	Aggregations       []string  `json:"aggregations,omitempty"`
	DefaultAggregation string    `json:"defaultAggregation,omitempty"`
}

// DefaultDimension creates a DimensionMeta with sensible defaults.
func DefaultDimension(key, displayName string, samples []string) DimensionMeta {
	return DimensionMeta{
		Key:          key,
		DisplayName:  displayName,
		SampleValues: samples,
		Groupable:    true,
		Filterable:   true,
	}
}

// DefaultMeasure creates a MeasureMeta with sensible defaults.
func DefaultMeasure(key, displayName string) MeasureMeta {
	return MeasureMeta{
		Key:                key,
		DisplayName:        displayName,
		Aggregations:       []string{"sum", "avg", "min", "max", "count"},
		DefaultAggregation: "sum",
	}
}

// RecordCount is the synthetic measure every record carries with value 1.
func RecordCount() MeasureMeta {
	return MeasureMeta{
		Key:                "record_count",
		DisplayName:        "Record Count",
		Description:        "Number of records (auto-generated)",
		IsSynthetic:        true,
		Aggregations:       []string{"count"},
		DefaultAggregation: "count",
	}
}

// GetDefaultMeasure returns the first measure's key, or "record_count" as fallback.
func (c Config) GetDefaultMeasure() string {
	if len(c.Measures) > 0 {
		return c.Measures[0].Key
	}
	return "record_count"
}

// Dimension looks up a dimension by key.
func (c Config) Dimension(key string) (DimensionMeta, bool) {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d, true
		}
	}
	return DimensionMeta{}, false
}

// Measure looks up a measure by key.
func (c Config) Measure(key string) (MeasureMeta, bool) {
	for _, m := range c.Measures {
		if m.Key == key {
			return m, true
		}
	}
	return MeasureMeta{}, false
}

// DisplayName returns the human label for a dimension or measure key.
// Unknown keys fall back to the key itself.
func (c Config) DisplayName(key string) string {
	if d, ok := c.Dimension(key); ok && d.DisplayName != "" {
		return d.DisplayName
	}
	if m, ok := c.Measure(key); ok && m.DisplayName != "" {
		return m.DisplayName
	}
	return key
}

// MatchesColumn reports whether a CSV header maps onto a schema key.
// An explicit column name must match exactly (ignoring surrounding space);
// otherwise the snake-cased header is compared with the key.
func MatchesColumn(header, key, column string) bool {
	header = strings.TrimSpace(header)
	if column != "" {
		return header == column
	}
	return ToSnakeCase(header) == key
}

// ToSnakeCase converts "Column Name" → "column_name".
func ToSnakeCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
