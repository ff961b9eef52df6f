package engine

import (
	"errors"
	"fmt"
)

// ============================================================================
// EXECUTOR — Dispatcher
// ============================================================================
// Entry point: Execute(spec, view, opts...)
//
// Pipeline:
//   1. Apply dimension filters from QuerySpec → SubView
//   2. Apply the optional inclusive Range → SubView
//   3. Dispatch to builder (pie / scatter / table)
//   4. Return Result
//
// Zero data copy: the engine reads the dataset through RecordView.
// Empty filter results are a valid outcome and produce empty charts.
// ============================================================================

// ErrUnsupportedChart is returned for a Visualize value the engine cannot build.
var ErrUnsupportedChart = errors.New("unsupported visualization")

// ErrInvalidSpec is returned when a QuerySpec lacks fields its visualization needs.
var ErrInvalidSpec = errors.New("invalid query spec")

// Execute runs a QuerySpec against a RecordView and returns a render-ready Result.
func Execute(spec QuerySpec, view RecordView, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)

	if err := ValidateQuerySpec(spec); err != nil {
		return nil, err
	}

	measure := spec.Measure
	if measure == "" {
		measure = cfg.DefaultMeasure
	}

	// 1–2. Filters → SubView (zero-copy)
	filtered := ApplyFilters(view, spec.Filters)
	if spec.Range != nil {
		filtered = ApplyRange(filtered, *spec.Range)
	}

	cfg.Logger.Debug().
		Str("visualize", spec.Visualize).
		Str("aggregation", spec.Aggregation).
		Str("measure", measure).
		Int("records", view.Len()).
		Int("matched", filtered.Len()).
		Msg("executing query")

	result := &Result{
		Success: true,
		Title:   spec.Title,
		Matched: filtered.Len(),
	}

	// 3. Dispatch to builder
	switch spec.Visualize {
	case "pie":
		groups := GroupAndAggregate(filtered, spec.GroupBy, measure, spec.Aggregation, spec.SortBy, spec.Limit)
		result.Type = "chart"
		result.ChartConfig = BuildChart(spec, groups, opts...)

	case "scatter":
		result.Type = "chart"
		result.ChartConfig = BuildScatter(spec, filtered, opts...)

	case "table":
		groups := GroupAndAggregate(filtered, spec.GroupBy, measure, spec.Aggregation, spec.SortBy, spec.Limit)
		result.Type = "table"
		result.TableData = BuildTable(spec, groups, filtered)
	}

	return result, nil
}

// ValidateQuerySpec checks that a spec carries what its visualization needs.
func ValidateQuerySpec(spec QuerySpec) error {
	switch spec.Visualize {
	case "pie", "table":
		if len(spec.GroupBy) == 0 {
			return fmt.Errorf("%w: %s needs a groupBy dimension", ErrInvalidSpec, spec.Visualize)
		}
	case "scatter":
		if spec.X == "" || spec.Y == "" {
			return fmt.Errorf("%w: scatter needs x and y measures", ErrInvalidSpec)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedChart, spec.Visualize)
	}
	return nil
}
