package carbon

import (
	"fmt"

	"github.com/hcaim/ai-footprint/internal/refdata"
)

// EnergyLabel is a letter grade A (best) through G for a yearly footprint.
type EnergyLabel string

const (
	LabelA EnergyLabel = "A"
	LabelB EnergyLabel = "B"
	LabelC EnergyLabel = "C"
	LabelD EnergyLabel = "D"
	LabelE EnergyLabel = "E"
	LabelF EnergyLabel = "F"
	LabelG EnergyLabel = "G"
)

// EnergyLabels returns every label from best to worst.
func EnergyLabels() []EnergyLabel {
	return []EnergyLabel{LabelA, LabelB, LabelC, LabelD, LabelE, LabelF, LabelG}
}

// ClassifyEnergyLabel maps a yearly total in kg CO2e to a label using the
// default doubling scale: A <= 10 000, B <= 20 000, ... F <= 320 000, else G.
func ClassifyEnergyLabel(totalKg float64) EnergyLabel {
	return ClassifyEnergyLabelWith(totalKg, refdata.DefaultLabelThresholds())
}

// ClassifyEnergyLabelWith classifies against custom inclusive upper bounds for
// A through F. Thresholds of the wrong length fall back to the defaults.
func ClassifyEnergyLabelWith(totalKg float64, thresholds []float64) EnergyLabel {
	if len(thresholds) != refdata.LabelThresholdCount {
		thresholds = refdata.DefaultLabelThresholds()
	}
	labels := EnergyLabels()
	for i, bound := range thresholds {
		if totalKg <= bound {
			return labels[i]
		}
	}
	return LabelG
}

// LabelRange returns the inclusive kg interval of label l for display.
// The lower bound is exclusive for every label except A; G has no upper bound (upper < 0).
func LabelRange(l EnergyLabel, thresholds []float64) (lower, upper float64, err error) {
	if len(thresholds) != refdata.LabelThresholdCount {
		thresholds = refdata.DefaultLabelThresholds()
	}
	for i, label := range EnergyLabels() {
		if label != l {
			continue
		}
		if i > 0 {
			lower = thresholds[i-1]
		}
		if i < len(thresholds) {
			return lower, thresholds[i], nil
		}
		return lower, -1, nil
	}
	return 0, 0, fmt.Errorf("unknown energy label %q", string(l))
}
