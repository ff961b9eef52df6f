package helpers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spektr-org/launchdash/engine"
	"github.com/spektr-org/launchdash/schema"
)

// ============================================================================
// CSV HELPER — Parses CSV data into []engine.Record
// ============================================================================
// The schema decides which columns are read and how. Any format problem is
// returned as an error: a dataset that does not parse must not be served.
// ============================================================================

var (
	// ErrMissingColumn is returned when a required schema column is absent.
	ErrMissingColumn = errors.New("missing required column")
	// ErrNoRows is returned for a CSV with a header but no data.
	ErrNoRows = errors.New("no data rows")
)

type colMapping struct {
	schemaKey   string
	isDimension bool
	isMeasure   bool
	required    bool
	groupable   bool
	allowed     []float64
}

// ParseCSV parses CSV bytes into Records using schema for classification.
// Each row becomes a Record with dimensions (string) and measures (numeric).
// Groupable measures are also stored as a dimension holding their text form.
func ParseCSV(data []byte, sch schema.Config) ([]engine.Record, error) {
	return ReadCSV(bytes.NewReader(data), sch)
}

// ReadCSV is ParseCSV over a reader.
func ReadCSV(r io.Reader, sch schema.Config) ([]engine.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	// Read header
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	headers[0] = strings.TrimPrefix(headers[0], "\ufeff")

	mappings, err := mapColumns(headers, sch)
	if err != nil {
		return nil, err
	}

	var records []engine.Record
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		rec := engine.Record{
			Dimensions: make(map[string]string),
			Measures:   make(map[string]float64),
		}

		for i, val := range row {
			m := mappings[i]
			val = strings.TrimSpace(val)

			switch {
			case m.isDimension:
				if m.required && val == "" {
					return nil, fmt.Errorf("row %d: empty %q", line, headers[i])
				}
				rec.Dimensions[m.schemaKey] = val
			case m.isMeasure:
				f, err := parseMeasure(val, m)
				if err != nil {
					return nil, fmt.Errorf("row %d: column %q: %w", line, headers[i], err)
				}
				rec.Measures[m.schemaKey] = f
				if m.groupable {
					rec.Dimensions[m.schemaKey] = strconv.FormatFloat(f, 'f', -1, 64)
				}
			}
		}

		// Add synthetic measures (e.g., record_count)
		for _, m := range sch.Measures {
			if m.IsSynthetic && m.DefaultAggregation == "count" {
				rec.Measures[m.Key] = 1
			}
		}

		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrNoRows
	}
	return records, nil
}

// LoadCSVFile reads and parses a CSV file from disk.
func LoadCSVFile(path string, sch schema.Config) ([]engine.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	records, err := ReadCSV(f, sch)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// mapColumns builds the column index → schema mapping and checks that every
// required column is present. Unmapped columns are skipped.
func mapColumns(headers []string, sch schema.Config) ([]colMapping, error) {
	mappings := make([]colMapping, len(headers))
	found := make(map[string]bool)

	for i, h := range headers {
		for _, d := range sch.Dimensions {
			if !found[d.Key] && schema.MatchesColumn(h, d.Key, d.Column) {
				mappings[i] = colMapping{schemaKey: d.Key, isDimension: true, required: d.Required}
				found[d.Key] = true
				break
			}
		}
		if mappings[i].schemaKey != "" {
			continue
		}
		for _, m := range sch.Measures {
			if m.IsSynthetic {
				continue
			}
			if !found[m.Key] && schema.MatchesColumn(h, m.Key, m.Column) {
				mappings[i] = colMapping{
					schemaKey: m.Key,
					isMeasure: true,
					required:  m.Required,
					groupable: m.Groupable,
					allowed:   m.AllowedValues,
				}
				found[m.Key] = true
				break
			}
		}
	}

	var missing []string
	for _, d := range sch.Dimensions {
		if d.Required && !found[d.Key] {
			missing = append(missing, columnName(d.Key, d.Column))
		}
	}
	for _, m := range sch.Measures {
		if m.Required && !found[m.Key] {
			missing = append(missing, columnName(m.Key, m.Column))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	return mappings, nil
}

// parseMeasure parses a numeric cell. Optional measures may be blank (→ 0).
func parseMeasure(val string, m colMapping) (float64, error) {
	if val == "" {
		if m.required {
			return 0, errors.New("empty value")
		}
		return 0, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", val)
	}
	if len(m.allowed) > 0 && !containsFloat(m.allowed, f) {
		return 0, fmt.Errorf("value %v not in %v", f, m.allowed)
	}
	return f, nil
}

func containsFloat(set []float64, v float64) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func columnName(key, column string) string {
	if column != "" {
		return strconv.Quote(column)
	}
	return strconv.Quote(key)
}
