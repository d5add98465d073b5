package refdata

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Calibration holds every fixed coefficient the phase models use.
// Values come from data/calibration.yaml; an override file may replace any
// positive field without touching model logic.
type Calibration struct {
	// GPUEmbodiedGrams is the manufacturing footprint of one inference GPU in gCO2e.
	// Source: Luccioni et al. 2022.
	GPUEmbodiedGrams float64 `yaml:"gpu_embodied_grams" json:"gpu_embodied_grams"`

	// ServerEmbodiedGrams is the manufacturing footprint of one server in gCO2e.
	// Source: Luccioni et al. 2022.
	ServerEmbodiedGrams float64 `yaml:"server_embodied_grams" json:"server_embodied_grams"`

	// HardwareLifetimeYears is the amortization period for GPUs and servers.
	HardwareLifetimeYears float64 `yaml:"hardware_lifetime_years" json:"hardware_lifetime_years"`

	// ServerWorkloadShare is the fraction of a shared server attributed to this workload.
	ServerWorkloadShare float64 `yaml:"server_workload_share" json:"server_workload_share"`

	// KgCO2PerGPUHour is the training heuristic: 0.4 kWh × PUE 1.56 × 481 g/kWh ≈ 0.30 kg.
	KgCO2PerGPUHour float64 `yaml:"kg_co2_per_gpu_hour" json:"kg_co2_per_gpu_hour"`

	// GlobalInferencesPerYear is the assumed worldwide yearly usage of a foundation model.
	GlobalInferencesPerYear float64 `yaml:"global_inferences_per_year" json:"global_inferences_per_year"`

	// DeviceWorkdayMinutes is the daily usage basis for device embedded emissions (8 hours).
	DeviceWorkdayMinutes float64 `yaml:"device_workday_minutes" json:"device_workday_minutes"`

	// DefaultGridIntensity is the grid carbon intensity in gCO2e/kWh (Netherlands, 2023).
	DefaultGridIntensity float64 `yaml:"default_grid_intensity_g_per_kwh" json:"default_grid_intensity_g_per_kwh"`

	// NetworkKWhPerGB is the transfer energy per decimal gigabyte.
	NetworkKWhPerGB float64 `yaml:"network_kwh_per_gb" json:"network_kwh_per_gb"`

	// HostingKWhPerVisit is the datacenter energy per page visit (1.66 Wh).
	HostingKWhPerVisit float64 `yaml:"hosting_kwh_per_visit" json:"hosting_kwh_per_visit"`

	// DefaultGramsPerVisit is used when PUE or carbon intensity of the host is unknown.
	DefaultGramsPerVisit float64 `yaml:"default_grams_per_visit" json:"default_grams_per_visit"`

	// LabelThresholdsKg are the upper bounds (inclusive) of labels A through F.
	LabelThresholdsKg []float64 `yaml:"label_thresholds_kg" json:"label_thresholds_kg"`
}

// LabelThresholdCount is the number of bounds needed to separate labels A-G.
const LabelThresholdCount = 6

// DefaultLabelThresholds returns the doubling scale used for energy labels.
func DefaultLabelThresholds() []float64 {
	return []float64{10000, 20000, 40000, 80000, 160000, 320000}
}

// DefaultCalibration returns the built-in coefficients. It matches the embedded
// calibration.yaml and is used as the merge base for overrides.
func DefaultCalibration() Calibration {
	return Calibration{
		GPUEmbodiedGrams:        150000,
		ServerEmbodiedGrams:     2500000,
		HardwareLifetimeYears:   6,
		ServerWorkloadShare:     0.4,
		KgCO2PerGPUHour:         0.3,
		GlobalInferencesPerYear: 365_000_000_000,
		DeviceWorkdayMinutes:    480,
		DefaultGridIntensity:    268,
		NetworkKWhPerGB:         0.27,
		HostingKWhPerVisit:      0.00166,
		DefaultGramsPerVisit:    0.8,
		LabelThresholdsKg:       DefaultLabelThresholds(),
	}
}

// HardwareLifetimeSeconds returns the amortization period assuming continuous operation.
func (c Calibration) HardwareLifetimeSeconds() float64 {
	return c.HardwareLifetimeYears * 365 * 24 * 3600
}

// ParseCalibration decodes YAML and merges it over DefaultCalibration.
func ParseCalibration(data []byte) (Calibration, error) {
	var override Calibration
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Calibration{}, fmt.Errorf("failed to parse calibration: %w", err)
	}
	return DefaultCalibration().Merge(override)
}

// Merge returns c with every positive field of o applied on top.
// Zero or negative fields in o are treated as unset. ServerWorkloadShare must
// stay within (0, 1]; label thresholds must be strictly ascending.
func (c Calibration) Merge(o Calibration) (Calibration, error) {
	merged := c
	merged.LabelThresholdsKg = append([]float64(nil), c.LabelThresholdsKg...)

	if o.GPUEmbodiedGrams > 0 {
		merged.GPUEmbodiedGrams = o.GPUEmbodiedGrams
	}
	if o.ServerEmbodiedGrams > 0 {
		merged.ServerEmbodiedGrams = o.ServerEmbodiedGrams
	}
	if o.HardwareLifetimeYears > 0 {
		merged.HardwareLifetimeYears = o.HardwareLifetimeYears
	}
	if o.ServerWorkloadShare > 0 {
		if o.ServerWorkloadShare > 1 {
			return Calibration{}, fmt.Errorf("server_workload_share must be <= 1, got %g", o.ServerWorkloadShare)
		}
		merged.ServerWorkloadShare = o.ServerWorkloadShare
	}
	if o.KgCO2PerGPUHour > 0 {
		merged.KgCO2PerGPUHour = o.KgCO2PerGPUHour
	}
	if o.GlobalInferencesPerYear > 0 {
		merged.GlobalInferencesPerYear = o.GlobalInferencesPerYear
	}
	if o.DeviceWorkdayMinutes > 0 {
		merged.DeviceWorkdayMinutes = o.DeviceWorkdayMinutes
	}
	if o.DefaultGridIntensity > 0 {
		merged.DefaultGridIntensity = o.DefaultGridIntensity
	}
	if o.NetworkKWhPerGB > 0 {
		merged.NetworkKWhPerGB = o.NetworkKWhPerGB
	}
	if o.HostingKWhPerVisit > 0 {
		merged.HostingKWhPerVisit = o.HostingKWhPerVisit
	}
	if o.DefaultGramsPerVisit > 0 {
		merged.DefaultGramsPerVisit = o.DefaultGramsPerVisit
	}

	if len(o.LabelThresholdsKg) > 0 {
		if len(o.LabelThresholdsKg) != LabelThresholdCount {
			return Calibration{}, fmt.Errorf("label_thresholds_kg needs %d values, got %d",
				LabelThresholdCount, len(o.LabelThresholdsKg))
		}
		for i := 1; i < len(o.LabelThresholdsKg); i++ {
			if o.LabelThresholdsKg[i] <= o.LabelThresholdsKg[i-1] {
				return Calibration{}, fmt.Errorf("label_thresholds_kg must be strictly ascending")
			}
		}
		merged.LabelThresholdsKg = append([]float64(nil), o.LabelThresholdsKg...)
	}

	return merged, nil
}
