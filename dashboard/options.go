package dashboard

import "github.com/rs/zerolog"

// Option configures a Dashboard.
type Option func(*settings)

type settings struct {
	sliderMin  float64
	sliderMax  float64
	sliderStep float64
	palette    []string
	logger     zerolog.Logger
}

func defaultSettings() settings {
	return settings{
		sliderMin:  0,
		sliderMax:  10000,
		sliderStep: 1000,
		logger:     zerolog.Nop(),
	}
}

// WithSlider sets the payload slider domain. Non-positive steps are ignored.
func WithSlider(min, max, step float64) Option {
	return func(s *settings) {
		s.sliderMin = min
		s.sliderMax = max
		if step > 0 {
			s.sliderStep = step
		}
	}
}

// WithPalette sets the colors used for slices and booster series.
func WithPalette(colors []string) Option {
	return func(s *settings) {
		s.palette = colors
	}
}

// WithLogger sets the dashboard logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}
