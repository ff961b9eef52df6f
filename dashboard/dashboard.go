// Package dashboard holds the launch-records dashboard: the selector options
// and the two chart handlers recomputed on every control change.
//
// Both handlers are pure functions of their inputs and the dataset loaded at
// start-up. A site that is not in the dataset or a payload range that matches
// nothing yields an empty chart, not an error.
package dashboard

import (
	"errors"
	"fmt"
	"math"

	"github.com/spektr-org/launchdash/engine"
	"github.com/spektr-org/launchdash/helpers"
	"github.com/spektr-org/launchdash/schema"
)

// AllSites is the sentinel site selection meaning "apply no site filter".
const AllSites = "All Sites"

// ErrEmptyDataset is returned when the dashboard is built over zero records.
var ErrEmptyDataset = errors.New("dataset has no records")

// Dashboard serves charts over an immutable launch dataset.
// It is safe for concurrent use.
type Dashboard struct {
	view     engine.RecordView
	sch      schema.Config
	sites    []string
	payload  engine.Range
	settings settings
}

// SiteOption is one entry of the site selector.
type SiteOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Mark is a labelled slider tick.
type Mark struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Slider describes the payload range selector.
type Slider struct {
	Min   float64    `json:"min"`
	Max   float64    `json:"max"`
	Step  float64    `json:"step"`
	Marks []Mark     `json:"marks"`
	Value [2]float64 `json:"value"` // initial selection
}

// Controls is everything a client needs to draw the two inputs.
type Controls struct {
	Sites       []SiteOption `json:"sites"`
	DefaultSite string       `json:"defaultSite"`
	Payload     Slider       `json:"payload"`
}

// Load reads the dataset at path and builds a Dashboard over it.
// Any format problem in the file is returned as an error.
func Load(path string, opts ...Option) (*Dashboard, error) {
	records, err := helpers.LoadCSVFile(path, schema.Launches())
	if err != nil {
		return nil, err
	}
	return New(engine.NewSliceView(records), opts...)
}

// New builds a Dashboard over an already loaded view.
func New(view engine.RecordView, opts ...Option) (*Dashboard, error) {
	if view == nil || view.Len() == 0 {
		return nil, ErrEmptyDataset
	}

	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if s.sliderMax < s.sliderMin {
		return nil, fmt.Errorf("slider max %v below min %v", s.sliderMax, s.sliderMin)
	}

	lo, hi, _ := engine.MeasureBounds(view, schema.PayloadMassKg)
	d := &Dashboard{
		view:     view,
		sch:      schema.Launches(),
		sites:    engine.UniqueValues(view, schema.LaunchSite),
		payload:  engine.Range{Measure: schema.PayloadMassKg, Min: lo, Max: hi},
		settings: s,
	}

	s.logger.Info().
		Int("records", view.Len()).
		Int("sites", len(d.sites)).
		Float64("payload_min", lo).
		Float64("payload_max", hi).
		Msg("dashboard ready")

	return d, nil
}

// Len returns the number of loaded records.
func (d *Dashboard) Len() int { return d.view.Len() }

// Sites returns the distinct launch sites in order of first appearance.
func (d *Dashboard) Sites() []string {
	return append([]string(nil), d.sites...)
}

// PayloadBounds returns the observed payload range of the dataset.
func (d *Dashboard) PayloadBounds() engine.Range { return d.payload }

// Controls returns the selector options: the sentinel followed by each site,
// and the payload slider preset to the dataset's payload bounds.
func (d *Dashboard) Controls() Controls {
	sites := make([]SiteOption, 0, len(d.sites)+1)
	sites = append(sites, SiteOption{Label: AllSites, Value: AllSites})
	for _, site := range d.sites {
		sites = append(sites, SiteOption{Label: site, Value: site})
	}

	s := d.settings
	var marks []Mark
	for v := s.sliderMin; v <= s.sliderMax; v += s.sliderStep {
		marks = append(marks, Mark{Value: v, Label: engine.FormatNumber(v)})
	}

	return Controls{
		Sites:       sites,
		DefaultSite: AllSites,
		Payload: Slider{
			Min:   s.sliderMin,
			Max:   s.sliderMax,
			Step:  s.sliderStep,
			Marks: marks,
			Value: [2]float64{d.payload.Min, d.payload.Max},
		},
	}
}

// PieChart returns the success pie for a site selection.
//
// For AllSites there is one slice per site sized by its success count. For a
// specific site there is one slice per outcome class present at that site,
// sized by the number of launches with that outcome.
func (d *Dashboard) PieChart(site string) *engine.ChartConfig {
	spec := engine.QuerySpec{Visualize: "pie"}

	if site == AllSites {
		spec.GroupBy = []string{schema.LaunchSite}
		spec.Aggregation = "sum" // of the default measure, class
		spec.Title = "Total Successful Launches by Site"
		spec.YAxisLabel = "class"
	} else {
		spec.Filters = siteFilter(site)
		spec.GroupBy = []string{schema.Class}
		spec.Aggregation = "count"
		spec.Measure = "record_count"
		spec.SortBy = "label_asc"
		spec.Title = fmt.Sprintf("Total Successful Launches for %s", site)
		spec.YAxisLabel = "class count"
	}

	return d.chart(spec)
}

// ScatterChart returns payload mass against outcome class, one series per
// booster version category, for records with payload in [Min, Max] (inclusive)
// and, unless site is AllSites, launched from site.
func (d *Dashboard) ScatterChart(site string, payload engine.Range) *engine.ChartConfig {
	payload.Measure = schema.PayloadMassKg

	spec := engine.QuerySpec{
		Visualize:  "scatter",
		Range:      &payload,
		X:          schema.PayloadMassKg,
		Y:          schema.Class,
		ColorBy:    schema.BoosterVersionCategory,
		PointLabel: schema.BoosterVersion,
		Title:      "Success count on Payload mass for all sites",
	}
	if site != AllSites {
		spec.Filters = siteFilter(site)
		spec.Title = fmt.Sprintf("Success count on Payload mass for %s", site)
	}

	return d.chart(spec)
}

// SiteSummary tabulates launches, successes, success rate and payload bounds
// per site, with an AllSites totals row.
func (d *Dashboard) SiteSummary() *engine.TableData {
	spec := engine.QuerySpec{
		Visualize:   "table",
		GroupBy:     []string{schema.LaunchSite},
		Aggregation: "count",
		Measure:     "record_count",
		Title:       "Launch Records by Site",
		GroupLabel:  "Launch Site",
		SummaryName: AllSites,
		Metrics: []engine.Metric{
			{Key: "launches", Label: "Launches", Measure: "record_count", Aggregation: "count", Format: "int"},
			{Key: "successes", Label: "Successes", Measure: schema.Class, Aggregation: "sum", Format: "int"},
			{Key: "success_rate", Label: "Success Rate", Measure: schema.Class, Aggregation: "avg", Format: "percent"},
			{Key: "min_payload", Label: "Min Payload (kg)", Measure: schema.PayloadMassKg, Aggregation: "min", Format: "number"},
			{Key: "max_payload", Label: "Max Payload (kg)", Measure: schema.PayloadMassKg, Aggregation: "max", Format: "number"},
		},
	}

	result, err := engine.Execute(spec, d.view, d.engineOptions()...)
	if err != nil {
		d.settings.logger.Error().Err(err).Msg("site summary failed")
		return &engine.TableData{Title: spec.Title}
	}
	return result.TableData
}

// ClampPayload fills NaN bounds from the dataset's payload range.
func (d *Dashboard) ClampPayload(r engine.Range) engine.Range {
	if math.IsNaN(r.Min) {
		r.Min = d.payload.Min
	}
	if math.IsNaN(r.Max) {
		r.Max = d.payload.Max
	}
	return r
}

func (d *Dashboard) chart(spec engine.QuerySpec) *engine.ChartConfig {
	result, err := engine.Execute(spec, d.view, d.engineOptions()...)
	if err != nil {
		// Specs are built above; an error here is a programming mistake.
		d.settings.logger.Error().Err(err).Str("visualize", spec.Visualize).Msg("chart build failed")
		return &engine.ChartConfig{ChartType: spec.Visualize, Title: spec.Title, Series: []engine.ChartSeries{}}
	}
	return result.ChartConfig
}

func (d *Dashboard) engineOptions() []engine.Option {
	return []engine.Option{
		engine.WithPalette(d.settings.palette),
		engine.WithLabels(d.sch.DisplayName),
		engine.WithDefaultMeasure(d.sch.GetDefaultMeasure()),
		engine.WithLogger(d.settings.logger),
	}
}

func siteFilter(site string) engine.Filters {
	return engine.Filters{Dimensions: map[string][]string{schema.LaunchSite: {site}}}
}
