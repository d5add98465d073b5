package carbon

import (
	"fmt"

	"github.com/hcaim/ai-footprint/internal/refdata"
)

// NetworkEstimator estimates data transfer emissions.
type NetworkEstimator struct {
	cal refdata.Calibration
}

// NewNetworkEstimator creates a network estimator for the given calibration.
func NewNetworkEstimator(cal refdata.Calibration) *NetworkEstimator {
	return &NetworkEstimator{cal: cal}
}

// EstimatePerInference calculates the cost of one inference's transfer.
//
//  1. GB = amount / 1e6 (KB), / 1e3 (MB) or as-is (GB); decimal scaling
//  2. Energy (kWh) = GB × kWh/GB (0.27)
//  3. Emission (g) = energy × grid intensity (268)
//
// Non-positive gridIntensity or kwhPerGB use the calibration defaults.
func (e *NetworkEstimator) EstimatePerInference(amount float64, unit DataUnit, gridIntensity, kwhPerGB float64) NetworkResult {
	if gridIntensity <= 0 {
		gridIntensity = e.cal.DefaultGridIntensity
	}
	if kwhPerGB <= 0 {
		kwhPerGB = e.cal.NetworkKWhPerGB
	}

	energyKWh := unit.ToGB(amount) * kwhPerGB
	return NetworkResult{
		EnergyKWh:        energyKWh,
		EmissionGramsCO2: energyKWh * gridIntensity,
	}
}

// Estimate is EstimatePerInference for a NetworkConfig.
func (e *NetworkEstimator) Estimate(config NetworkConfig) NetworkResult {
	return e.EstimatePerInference(config.Amount, config.Unit, config.GridIntensityGPerKWh, config.KWhPerGB)
}

// AnnualKg scales a per-inference result to a yearly total in kg.
func (e *NetworkEstimator) AnnualKg(perInference NetworkResult, inferencesPerYear float64) float64 {
	return (perInference.EmissionGramsCO2 * inferencesPerYear) / GramsPerKg
}

// GetBillingDetail returns a human-readable description of the network estimate.
func (e *NetworkEstimator) GetBillingDetail(config NetworkConfig) string {
	kwhPerGB := config.KWhPerGB
	if kwhPerGB <= 0 {
		kwhPerGB = e.cal.NetworkKWhPerGB
	}
	intensity := config.GridIntensityGPerKWh
	if intensity <= 0 {
		intensity = e.cal.DefaultGridIntensity
	}
	return fmt.Sprintf("%s %s per inference at %s kWh/GB and %s g/kWh",
		formatFloat(config.Amount), config.Unit, formatFloat(kwhPerGB), formatFloat(intensity))
}
