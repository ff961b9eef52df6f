package engine

import "github.com/rs/zerolog"

// ============================================================================
// ENGINE OPTIONS — Functional options for Execute() and the builders
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Palette        []string
	DefaultMeasure string // measure key if QuerySpec.Measure is empty
	Labels         func(key string) string
	Logger         zerolog.Logger
}

// WithPalette overrides the series/slice color palette.
// An empty palette keeps the default.
func WithPalette(colors []string) Option {
	return func(c *config) {
		if len(colors) > 0 {
			c.Palette = colors
		}
	}
}

// WithDefaultMeasure sets the measure to aggregate when QuerySpec.Measure is empty.
func WithDefaultMeasure(measure string) Option {
	return func(c *config) {
		c.DefaultMeasure = measure
	}
}

// WithLabels sets the function that names axes derived from record keys,
// typically schema.Config.DisplayName. An empty label falls back to
// LabelForDimension.
func WithLabels(labels func(key string) string) Option {
	return func(c *config) {
		c.Labels = labels
	}
}

// WithLogger sets the logger used for debug tracing. Defaults to a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.Logger = logger
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Palette:        DefaultPalette(),
		DefaultMeasure: "record_count",
		Logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *config) label(key string) string {
	if c.Labels != nil {
		if l := c.Labels(key); l != "" {
			return l
		}
	}
	return LabelForDimension(key)
}
