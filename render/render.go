// Package render draws engine chart configs as PNG or SVG images.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/launchdash/engine"
)

// Format is an output image format.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ErrEmptyChart is returned when a chart has nothing to draw.
var ErrEmptyChart = errors.New("chart has no data to draw")

// ErrUnknownFormat is returned by ParseFormat for anything but png or svg.
var ErrUnknownFormat = errors.New("unknown image format")

// ParseFormat maps "png"/"svg" (any case) to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case PNG:
		return PNG, nil
	case SVG:
		return SVG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Option adjusts rendering.
type Option func(*options)

type options struct {
	width, height int
}

// WithSize sets the image size in pixels. Non-positive values keep the default.
func WithSize(width, height int) Option {
	return func(o *options) {
		if width > 0 {
			o.width = width
		}
		if height > 0 {
			o.height = height
		}
	}
}

// Write draws cfg to w. Pie and scatter charts are supported.
func Write(w io.Writer, cfg *engine.ChartConfig, format Format, opts ...Option) error {
	o := options{width: 800, height: 500}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg == nil {
		return ErrEmptyChart
	}

	switch cfg.ChartType {
	case "pie":
		return writePie(w, cfg, format, o)
	case "scatter":
		return writeScatter(w, cfg, format, o)
	default:
		return fmt.Errorf("render: %w: %q", engine.ErrUnsupportedChart, cfg.ChartType)
	}
}

// ============================================================================
// PIE
// ============================================================================

func writePie(w io.Writer, cfg *engine.ChartConfig, format Format, o options) error {
	var values []chart.Value
	var total float64
	for _, s := range cfg.Series {
		for i, p := range s.Data {
			// Zero slices have no area and only clutter the labels.
			if p.Value <= 0 {
				continue
			}
			total += p.Value
			values = append(values, chart.Value{
				Label: fmt.Sprintf("%s (%s)", p.Label, engine.FormatNumber(p.Value)),
				Value: p.Value,
				Style: chart.Style{FillColor: colorAt(cfg.Colors, i)},
			})
		}
	}
	if len(values) == 0 || total == 0 {
		return ErrEmptyChart
	}

	pie := chart.PieChart{
		Title:  cfg.Title,
		Width:  o.width,
		Height: o.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		Values: values,
	}
	if err := pie.Render(format.provider(), w); err != nil {
		return fmt.Errorf("render pie: %w", err)
	}
	return nil
}

// ============================================================================
// SCATTER
// ============================================================================

// pointStyle renders points only (no connecting line).
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    5,
		DotColor:    col,
	}
}

func writeScatter(w io.Writer, cfg *engine.ChartConfig, format Format, o options) error {
	var series []chart.Series
	minX, maxX := math.Inf(1), math.Inf(-1)
	for i, s := range cfg.Series {
		if len(s.Points) == 0 {
			continue
		}
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for j, p := range s.Points {
			xs[j], ys[j] = p.X, p.Y
			minX = math.Min(minX, p.X)
			maxX = math.Max(maxX, p.X)
		}
		col := parseColor(s.Color)
		if s.Color == "" {
			col = colorAt(cfg.Colors, i)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(col),
		})
	}
	if len(series) == 0 {
		return ErrEmptyChart
	}

	if cfg.XRange != nil {
		minX, maxX = cfg.XRange.Min, cfg.XRange.Max
	}
	minX, maxX = padRange(minX, maxX)

	ch := chart.Chart{
		Title:  cfg.Title,
		Width:  o.width,
		Height: o.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  cfg.XAxis,
			Range: &chart.ContinuousRange{Min: minX, Max: maxX},
		},
		YAxis: chart.YAxis{
			Name:  cfg.YAxis,
			Range: &chart.ContinuousRange{Min: -0.25, Max: 1.25},
			Ticks: []chart.Tick{
				{Value: 0, Label: "0"},
				{Value: 1, Label: "1"},
			},
		},
		Series: series,
	}
	if cfg.ShowLegend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	if err := ch.Render(format.provider(), w); err != nil {
		return fmt.Errorf("render scatter: %w", err)
	}
	return nil
}

// padRange widens [lo, hi] so go-chart never sees a zero-width axis.
func padRange(lo, hi float64) (float64, float64) {
	if hi-lo < 1 {
		return lo - 0.5, hi + 0.5
	}
	pad := (hi - lo) * 0.02
	return lo - pad, hi + pad
}

// ============================================================================
// COLORS
// ============================================================================

func colorAt(palette []string, i int) drawing.Color {
	if len(palette) == 0 {
		return chart.GetDefaultColor(i)
	}
	return parseColor(palette[i%len(palette)])
}

func parseColor(hex string) drawing.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 && len(hex) != 3 {
		return chart.GetDefaultColor(0)
	}
	return drawing.ColorFromHex(hex)
}
