// Package carbon estimates the annual CO2e footprint of a generative-AI
// application over five lifecycle phases: model training, inference,
// end-user devices, network transfer and web hosting.
//
// Every estimator is a pure function of its config and the coefficients in
// refdata.Calibration. Absent or unknown inputs degrade to a zero
// contribution; no estimator returns an error.
package carbon

// Unit conversions used by the phase models.
const (
	// GramsPerKg converts grams CO2e to kilograms.
	GramsPerKg = 1000.0

	// WattsPerKilowatt converts watts to kilowatts.
	WattsPerKilowatt = 1000.0

	// MinutesPerHour converts session minutes to hours.
	MinutesPerHour = 60.0

	// KBPerGB is the decimal kilobyte count of one gigabyte.
	KBPerGB = 1_000_000.0

	// MBPerGB is the decimal megabyte count of one gigabyte.
	MBPerGB = 1_000.0
)

// DefaultPUE is the multiplicative identity used when a datacenter's PUE is unknown.
const DefaultPUE = 1.0
