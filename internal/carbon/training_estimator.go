package carbon

import (
	"fmt"
	"strings"

	"github.com/hcaim/ai-footprint/internal/refdata"
)

// TrainingEstimator estimates the training share attributed to one deployment.
type TrainingEstimator struct {
	catalog *refdata.Catalog
	cal     refdata.Calibration
}

// NewTrainingEstimator creates a training estimator backed by catalog.
func NewTrainingEstimator(catalog *refdata.Catalog) *TrainingEstimator {
	return &TrainingEstimator{catalog: catalog, cal: catalog.Calibration()}
}

// Estimate returns the training footprint in kg CO2e.
//
//   - preloaded: published model total × LocalInferences / GlobalInferences.
//     Unless both counts are positive the whole total is returned. Unknown
//     models are 0.
//   - finetuned / custom: GPUHours × KgCO2PerGPUHour
//     (0.4 kWh × PUE 1.56 × 481 g/kWh ≈ 0.30 kg per GPU hour).
//
// Any other combination returns 0.
func (e *TrainingEstimator) Estimate(config TrainingConfig) float64 {
	return e.EstimateDetail(config).TotalKg
}

// EstimateDetail is Estimate with the applied allocation share.
func (e *TrainingEstimator) EstimateDetail(config TrainingConfig) TrainingResult {
	switch config.Choice {
	case ChoicePreloaded:
		if strings.TrimSpace(config.ModelName) == "" {
			return TrainingResult{}
		}
		model, err := e.catalog.ModelTraining(config.ModelName)
		if err != nil {
			return TrainingResult{}
		}
		share := e.allocationShare(config)
		return TrainingResult{TotalKg: model.TotalCO2Kg * share, AllocationShare: share}

	case ChoiceFinetuned, ChoiceCustom:
		if config.GPUHours <= 0 {
			return TrainingResult{}
		}
		return TrainingResult{TotalKg: config.GPUHours * e.cal.KgCO2PerGPUHour, AllocationShare: 1}

	default:
		return TrainingResult{}
	}
}

// allocationShare returns local/global when both are positive, otherwise 1.
func (e *TrainingEstimator) allocationShare(config TrainingConfig) float64 {
	if config.LocalInferences > 0 && config.GlobalInferences > 0 {
		return config.LocalInferences / config.GlobalInferences
	}
	return 1
}

// GetBillingDetail returns a human-readable description of the training estimate.
func (e *TrainingEstimator) GetBillingDetail(config TrainingConfig) string {
	switch config.Choice {
	case ChoicePreloaded:
		model, err := e.catalog.ModelTraining(config.ModelName)
		if err != nil {
			return fmt.Sprintf("Unknown foundation model %q, no training emissions counted", config.ModelName)
		}
		share := e.allocationShare(config)
		if share == 1 {
			return fmt.Sprintf("%s trained for %s kg CO2e, full total counted", model.Name, formatFloat(model.TotalCO2Kg))
		}
		return fmt.Sprintf("%s trained for %s kg CO2e, allocated by %s of %s yearly inferences (share %s)",
			model.Name, formatFloat(model.TotalCO2Kg), formatFloat(config.LocalInferences),
			formatFloat(config.GlobalInferences), formatSmall(share))

	case ChoiceFinetuned, ChoiceCustom:
		return fmt.Sprintf("%s training: %s GPU hours × %s kg CO2e per GPU hour",
			config.Choice, formatFloat(config.GPUHours), formatFloat(e.cal.KgCO2PerGPUHour))

	default:
		return "No training method selected"
	}
}
