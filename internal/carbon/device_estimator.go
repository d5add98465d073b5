package carbon

import (
	"fmt"

	"github.com/hcaim/ai-footprint/internal/refdata"
)

// DeviceEstimator estimates end-user device emissions for one category.
// It is category-agnostic; the caller looks up the DeviceSpec.
type DeviceEstimator struct {
	cal refdata.Calibration
}

// NewDeviceEstimator creates a device estimator for the given calibration.
func NewDeviceEstimator(cal refdata.Calibration) *DeviceEstimator {
	return &DeviceEstimator{cal: cal}
}

// Estimate calculates the yearly footprint of one device category.
//
//  1. Usage fraction = session minutes / workday minutes (480)
//  2. Embedded (kg) = embedded CO2 / lifetime years × usage fraction × users
//  3. Energy per session (kWh) = watts × minutes / 1000 / 60
//  4. CO2 per session (g) = energy per session × grid intensity
//  5. Operational (kg) = CO2 per session × sessions × users / 1000
//
// gridIntensity <= 0 uses Calibration.DefaultGridIntensity (268 g/kWh).
func (e *DeviceEstimator) Estimate(input DeviceUsageInput, spec refdata.DeviceSpec, gridIntensity float64) DeviceResult {
	if gridIntensity <= 0 {
		gridIntensity = e.cal.DefaultGridIntensity
	}

	var usageFraction float64
	if e.cal.DeviceWorkdayMinutes > 0 {
		usageFraction = input.SessionMinutes / e.cal.DeviceWorkdayMinutes
	}

	var embeddedPerUser float64
	if spec.LifetimeYears > 0 {
		embeddedPerUser = (spec.EmbeddedCO2Kg / spec.LifetimeYears) * usageFraction
	}
	embeddedKg := embeddedPerUser * input.UserCount

	energyPerSessionKWh := (spec.PowerWatts * input.SessionMinutes) / WattsPerKilowatt / MinutesPerHour
	co2PerSessionGrams := energyPerSessionKWh * gridIntensity
	operationalKg := (co2PerSessionGrams * input.SessionsPerUser * input.UserCount) / GramsPerKg

	return DeviceResult{
		EmbeddedKg:       embeddedKg,
		OperationalKg:    operationalKg,
		CO2PerSessionKg:  co2PerSessionGrams / GramsPerKg,
		TotalPerDeviceKg: embeddedKg + operationalKg,
	}
}

// GetBillingDetail returns a human-readable description of the device estimate.
func (e *DeviceEstimator) GetBillingDetail(category refdata.DeviceCategory, input DeviceUsageInput, spec refdata.DeviceSpec) string {
	return fmt.Sprintf("%s: %s users × %s sessions of %s min, %sW, %s kg embedded over %s years",
		category.Label(), formatFloat(input.UserCount), formatFloat(input.SessionsPerUser),
		formatFloat(input.SessionMinutes), formatFloat(spec.PowerWatts),
		formatFloat(spec.EmbeddedCO2Kg), formatFloat(spec.LifetimeYears))
}
