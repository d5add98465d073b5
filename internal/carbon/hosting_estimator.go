package carbon

import (
	"fmt"

	"github.com/hcaim/ai-footprint/internal/refdata"
)

// HostingEstimator estimates web hosting emissions.
type HostingEstimator struct {
	cal      refdata.Calibration
	embodied *EmbodiedCarbonEstimator
}

// NewHostingEstimator creates a hosting estimator for the given calibration.
func NewHostingEstimator(cal refdata.Calibration) *HostingEstimator {
	return &HostingEstimator{cal: cal, embodied: NewEmbodiedCarbonEstimator(cal)}
}

// Estimate calculates the yearly hosting footprint.
//
//  1. Offline or no visits: everything is 0
//  2. g/visit = 0.00166 kWh × PUE × intensity when both are known, else 0.8
//  3. Operational (kg) = visits × g/visit / 1000
//  4. Production (kg), cloud only: flat server allocation, see ServerProductionKg
func (e *HostingEstimator) Estimate(config HostingConfig) HostingResult {
	if !config.Online || config.VisitsPerYear <= 0 {
		return HostingResult{}
	}

	operationalKg := config.VisitsPerYear * e.GramsPerVisit(config) / GramsPerKg

	var productionKg float64
	if config.Type == HostingCloud {
		productionKg = e.embodied.ServerProductionKg()
	}

	return HostingResult{
		OperationalKg: operationalKg,
		ProductionKg:  productionKg,
		TotalKg:       operationalKg + productionKg,
	}
}

// GramsPerVisit returns the per-visit emission used by Estimate.
func (e *HostingEstimator) GramsPerVisit(config HostingConfig) float64 {
	if config.PUE > 0 && config.CarbonIntensity > 0 {
		return e.cal.HostingKWhPerVisit * config.PUE * config.CarbonIntensity
	}
	return e.cal.DefaultGramsPerVisit
}

// GetBillingDetail returns a human-readable description of the hosting estimate.
func (e *HostingEstimator) GetBillingDetail(config HostingConfig) string {
	if !config.Online || config.VisitsPerYear <= 0 {
		return "Application not hosted online, no hosting emissions"
	}
	detail := fmt.Sprintf("%s visits × %s g CO2e per visit", formatFloat(config.VisitsPerYear), formatFloat(e.GramsPerVisit(config)))
	if config.Type == HostingCloud {
		detail += fmt.Sprintf(", plus %s kg cloud server production", formatFloat(e.embodied.ServerProductionKg()))
	}
	return detail
}
