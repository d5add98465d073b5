package carbon

import (
	"fmt"

	"github.com/hcaim/ai-footprint/internal/refdata"
)

// EmbodiedCarbonEstimator amortizes hardware manufacturing emissions over the
// calibrated hardware lifetime. It backs the embedded terms of the inference
// and hosting phases.
type EmbodiedCarbonEstimator struct {
	cal refdata.Calibration
}

// NewEmbodiedCarbonEstimator creates an estimator for the given calibration.
func NewEmbodiedCarbonEstimator(cal refdata.Calibration) *EmbodiedCarbonEstimator {
	return &EmbodiedCarbonEstimator{cal: cal}
}

// GramsPerSecond returns totalGrams spread evenly over the lifetime,
// assuming continuous operation. A non-positive lifetime yields 0.
func (e *EmbodiedCarbonEstimator) GramsPerSecond(totalGrams float64) float64 {
	lifetime := e.cal.HardwareLifetimeSeconds()
	if lifetime <= 0 {
		return 0
	}
	return totalGrams / lifetime
}

// GPUGrams returns the GPU manufacturing share consumed by count runs of
// durationSeconds GPU time each.
func (e *EmbodiedCarbonEstimator) GPUGrams(durationSeconds, count float64) float64 {
	return e.GramsPerSecond(e.cal.GPUEmbodiedGrams) * durationSeconds * count
}

// ServerGrams is GPUGrams for the server, reduced to this workload's share.
func (e *EmbodiedCarbonEstimator) ServerGrams(durationSeconds, count float64) float64 {
	return e.GramsPerSecond(e.cal.ServerEmbodiedGrams) * durationSeconds * count * e.cal.ServerWorkloadShare
}

// ServerProductionKg returns the flat yearly production allocation of one
// cloud server: ServerEmbodiedGrams / (LifetimeYears × WorkloadShare × 1000).
// It does not scale with usage.
func (e *EmbodiedCarbonEstimator) ServerProductionKg() float64 {
	denominator := e.cal.HardwareLifetimeYears * e.cal.ServerWorkloadShare * GramsPerKg
	if denominator <= 0 {
		return 0
	}
	return e.cal.ServerEmbodiedGrams / denominator
}

// GetBillingDetail returns a human-readable explanation of the amortization basis.
func (e *EmbodiedCarbonEstimator) GetBillingDetail() string {
	return fmt.Sprintf("Embodied carbon: GPU %s g and server %s g amortized over %s years, %s%% of each server attributed",
		formatFloat(e.cal.GPUEmbodiedGrams), formatFloat(e.cal.ServerEmbodiedGrams),
		formatFloat(e.cal.HardwareLifetimeYears), formatFloat(e.cal.ServerWorkloadShare*100))
}
