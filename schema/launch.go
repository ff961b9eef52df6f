package schema

// Keys of the launch-record dataset.
const (
	LaunchSite             = "launch_site"
	PayloadMassKg          = "payload_mass_kg"
	Class                  = "class"
	BoosterVersionCategory = "booster_version_category"
	BoosterVersion         = "booster_version"
	FlightNumber           = "flight_number"
)

// Launches describes the space-launch records dashboard dataset.
// The outcome class is the default measure.
//
// Required columns: "Launch Site", "Payload Mass (kg)", "class" (0/1) and
// "Booster Version Category". "Booster Version" and "Flight Number" are read
// when present. Every other column is ignored.
func Launches() Config {
	site := DefaultDimension(LaunchSite, "Launch Site", nil)
	site.Column = "Launch Site"
	site.Required = true

	category := DefaultDimension(BoosterVersionCategory, "Booster Version Category", nil)
	category.Column = "Booster Version Category"
	category.Required = true

	booster := DefaultDimension(BoosterVersion, "Booster Version", nil)
	booster.Column = "Booster Version"

	flight := DefaultDimension(FlightNumber, "Flight Number", nil)
	flight.Column = "Flight Number"
	flight.Groupable = false

	payload := DefaultMeasure(PayloadMassKg, "Payload Mass (kg)")
	payload.Column = "Payload Mass (kg)"
	payload.Unit = "kg"
	payload.Required = true

	class := DefaultMeasure(Class, "class")
	class.Description = "Launch outcome: 1 = success, 0 = failure"
	class.Column = "class"
	class.Unit = "flag"
	class.Required = true
	class.Groupable = true
	class.AllowedValues = []float64{0, 1}

	return Config{
		Name:        "SpaceX Launch Records",
		Version:     "1.0",
		Description: "One row per launch: site, payload mass, outcome class and booster category.",
		Dimensions:  []DimensionMeta{site, category, booster, flight},
		Measures:    []MeasureMeta{class, payload, RecordCount()},
	}
}
