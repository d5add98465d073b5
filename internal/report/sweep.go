package report

import "github.com/hcaim/ai-footprint/internal/carbon"

// DefaultSweepFactors scales the yearly inference count from a quarter to four times.
var DefaultSweepFactors = []float64{0.25, 0.5, 0.75, 1, 1.5, 2, 3, 4}

// SweepPoint is the total footprint at one scaled inference count.
type SweepPoint struct {
	Factor            float64            `json:"factor"`
	InferencesPerYear float64            `json:"inferences_per_year"`
	TotalKg           float64            `json:"total_kg"`
	Label             carbon.EnergyLabel `json:"label"`
}

// Sweep recalculates in with InferencesPerYear multiplied by each factor.
// Training allocation and network traffic follow the scaled count; devices
// and hosting do not.
func Sweep(calc carbon.FootprintCalculator, in carbon.Input, factors []float64) []SweepPoint {
	if len(factors) == 0 {
		factors = DefaultSweepFactors
	}

	points := make([]SweepPoint, 0, len(factors))
	base := in.Inference.InferencesPerYear
	for _, f := range factors {
		scaled := in
		scaled.Inference.InferencesPerYear = base * f
		res := calc.Calculate(scaled)
		points = append(points, SweepPoint{
			Factor:            f,
			InferencesPerYear: scaled.Inference.InferencesPerYear,
			TotalKg:           res.TotalKg,
			Label:             res.Label,
		})
	}
	return points
}
