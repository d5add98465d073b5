package carbon

import (
	"fmt"

	"github.com/hcaim/ai-footprint/internal/refdata"
)

// InferenceEstimator estimates operational and embedded emissions of model invocations.
type InferenceEstimator struct {
	embodied *EmbodiedCarbonEstimator
}

// NewInferenceEstimator creates an inference estimator for the given calibration.
func NewInferenceEstimator(cal refdata.Calibration) *InferenceEstimator {
	return &InferenceEstimator{embodied: NewEmbodiedCarbonEstimator(cal)}
}

// Estimate calculates the yearly inference footprint.
//
//  1. Operational (kg) = energy/inference × PUE × inferences × intensity / 1000
//  2. Embedded GPU (kg) = GPU grams/second × duration × inferences / 1000
//  3. Embedded server (kg) = server grams/second × duration × inferences × share / 1000
//  4. Total = 1 + 2 + 3
//
// The estimator does not validate; the caller supplies numeric inputs with
// missing values already defaulted (0, or 1 for PUE).
func (e *InferenceEstimator) Estimate(config InferenceConfig) InferenceResult {
	embeddedGPUGrams := e.embodied.GPUGrams(config.DurationSeconds, config.InferencesPerYear)
	embeddedServerGrams := e.embodied.ServerGrams(config.DurationSeconds, config.InferencesPerYear)

	operationalKg := (config.EnergyPerInferenceKWh * config.PUE * config.InferencesPerYear * config.CarbonIntensityGPerKWh) / GramsPerKg
	embeddedGPUKg := embeddedGPUGrams / GramsPerKg
	embeddedServerKg := embeddedServerGrams / GramsPerKg

	return InferenceResult{
		OperationalKg:    operationalKg,
		EmbeddedGPUKg:    embeddedGPUKg,
		EmbeddedServerKg: embeddedServerKg,
		TotalKg:          operationalKg + embeddedGPUKg + embeddedServerKg,
	}
}

// GetBillingDetail returns a human-readable description of the inference estimate.
func (e *InferenceEstimator) GetBillingDetail(config InferenceConfig) string {
	return fmt.Sprintf("%s inferences × %s kWh at PUE %s and %s g/kWh, %ss GPU time each",
		formatFloat(config.InferencesPerYear), formatSmall(config.EnergyPerInferenceKWh),
		formatFloat(config.PUE), formatFloat(config.CarbonIntensityGPerKWh),
		formatFloat(config.DurationSeconds))
}
