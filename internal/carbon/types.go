package carbon

import (
	"strings"

	"github.com/hcaim/ai-footprint/internal/refdata"
)

// TrainingChoice selects how the training phase is estimated.
type TrainingChoice string

const (
	// ChoicePreloaded allocates a published foundation-model total.
	ChoicePreloaded TrainingChoice = "preloaded"

	// ChoiceFinetuned estimates from GPU hours spent fine-tuning.
	ChoiceFinetuned TrainingChoice = "finetuned"

	// ChoiceCustom estimates from GPU hours spent training a custom model.
	ChoiceCustom TrainingChoice = "custom"
)

// ParseTrainingChoice converts a form value (case-insensitive) into a TrainingChoice.
func ParseTrainingChoice(s string) (TrainingChoice, error) {
	switch c := TrainingChoice(strings.ToLower(strings.TrimSpace(s))); c {
	case ChoicePreloaded, ChoiceFinetuned, ChoiceCustom:
		return c, nil
	default:
		return "", refdata.NewLookupError("training choice", s)
	}
}

// HostingType is where the application front end is served from.
// The zero value means the hosting type was not given.
type HostingType string

const (
	HostingUnknown HostingType = ""
	HostingCloud   HostingType = "cloud"
	HostingLocal   HostingType = "local"
)

// ParseHostingType converts a form value into a HostingType. An empty string
// is HostingUnknown and not an error.
func ParseHostingType(s string) (HostingType, error) {
	switch h := HostingType(strings.ToLower(strings.TrimSpace(s))); h {
	case HostingUnknown, HostingCloud, HostingLocal:
		return h, nil
	default:
		return HostingUnknown, refdata.NewLookupError("hosting type", s)
	}
}

// DataUnit is the unit of a per-inference transfer volume. Scaling is decimal.
type DataUnit string

const (
	UnitKB DataUnit = "KB"
	UnitMB DataUnit = "MB"
	UnitGB DataUnit = "GB"
)

// ParseDataUnit converts a unit string (case-insensitive) into a DataUnit.
func ParseDataUnit(s string) (DataUnit, error) {
	switch u := DataUnit(strings.ToUpper(strings.TrimSpace(s))); u {
	case UnitKB, UnitMB, UnitGB:
		return u, nil
	default:
		return "", refdata.NewLookupError("data unit", s)
	}
}

// ToGB converts amount in unit u to decimal gigabytes.
func (u DataUnit) ToGB(amount float64) float64 {
	switch u {
	case UnitKB:
		return amount / KBPerGB
	case UnitMB:
		return amount / MBPerGB
	case UnitGB:
		return amount
	default:
		return 0
	}
}

// TrainingConfig contains configuration for training phase estimation.
type TrainingConfig struct {
	// Choice selects the estimation method.
	Choice TrainingChoice

	// ModelName is the foundation model for ChoicePreloaded (case-insensitive).
	ModelName string

	// GPUHours is the GPU time for ChoiceFinetuned and ChoiceCustom.
	GPUHours float64

	// LocalInferences is this deployment's yearly inference count.
	// Zero returns the unscaled model total.
	LocalInferences float64

	// GlobalInferences is the worldwide yearly inference count of the model.
	// Zero or negative returns the unscaled model total. Calculator passes
	// Calibration.GlobalInferencesPerYear.
	GlobalInferences float64
}

// InferenceConfig contains configuration for inference phase estimation.
type InferenceConfig struct {
	// EnergyPerInferenceKWh is the average energy of one model invocation.
	EnergyPerInferenceKWh float64 `json:"energy_per_inference_kwh"`

	// InferencesPerYear is the yearly invocation count.
	InferencesPerYear float64 `json:"inferences_per_year"`

	// PUE is the datacenter power usage effectiveness (1 when unknown).
	PUE float64 `json:"pue"`

	// CarbonIntensityGPerKWh is the grid intensity of the inference datacenter.
	CarbonIntensityGPerKWh float64 `json:"carbon_intensity_g_per_kwh"`

	// DurationSeconds is the GPU time of one inference.
	DurationSeconds float64 `json:"duration_seconds"`
}

// DeviceUsageInput describes how one device category is used.
// A zero in any field yields a zero contribution.
type DeviceUsageInput struct {
	UserCount       float64 `json:"user_count"`
	SessionMinutes  float64 `json:"session_minutes"`
	SessionsPerUser float64 `json:"sessions_per_user"`
}

// complete reports whether every field is positive.
func (d DeviceUsageInput) complete() bool {
	return d.UserCount > 0 && d.SessionMinutes > 0 && d.SessionsPerUser > 0
}

// NetworkConfig contains the per-inference transfer of the network phase.
type NetworkConfig struct {
	// Amount is the data transferred per inference, in Unit.
	Amount float64 `json:"amount"`

	// Unit is KB, MB or GB.
	Unit DataUnit `json:"unit"`

	// GridIntensityGPerKWh falls back to Calibration.DefaultGridIntensity when <= 0.
	GridIntensityGPerKWh float64 `json:"grid_intensity_g_per_kwh,omitempty"`

	// KWhPerGB falls back to Calibration.NetworkKWhPerGB when <= 0.
	KWhPerGB float64 `json:"kwh_per_gb,omitempty"`
}

// HostingConfig contains configuration for hosting phase estimation.
type HostingConfig struct {
	// VisitsPerYear is the yearly page visit count.
	VisitsPerYear float64 `json:"visits_per_year"`

	// Type is cloud, local or unknown. Only cloud adds server production.
	Type HostingType `json:"type"`

	// Online is false when the application is not served on the web.
	Online bool `json:"online"`

	// PUE of the hosting datacenter; 0 when unknown.
	PUE float64 `json:"pue,omitempty"`

	// CarbonIntensity of the hosting grid in gCO2e/kWh; 0 when unknown.
	CarbonIntensity float64 `json:"carbon_intensity,omitempty"`
}

// TrainingInput is the training record of a snapshot. Inference counts for
// the allocation come from the inference record.
type TrainingInput struct {
	Choice    TrainingChoice `json:"choice"`
	ModelName string         `json:"model_name,omitempty"`
	GPUHours  float64        `json:"gpu_hours,omitempty"`
}

// Input is a fully numeric snapshot of the five phase records.
type Input struct {
	Training  TrainingInput   `json:"training"`
	Inference InferenceConfig `json:"inference"`

	// Devices is keyed by raw device category; unknown keys are skipped.
	Devices map[string]DeviceUsageInput `json:"devices"`

	// DeviceGridIntensity falls back to Calibration.DefaultGridIntensity when <= 0.
	DeviceGridIntensity float64 `json:"device_grid_intensity,omitempty"`

	Network NetworkConfig `json:"network"`
	Hosting HostingConfig `json:"hosting"`
}

// TrainingResult is the training phase outcome.
type TrainingResult struct {
	TotalKg float64 `json:"total_kg"`

	// AllocationShare is local/global inferences, or 1 when unscaled.
	AllocationShare float64 `json:"allocation_share"`
}

// InferenceResult is the inference phase breakdown.
// TotalKg is exactly OperationalKg + EmbeddedGPUKg + EmbeddedServerKg.
type InferenceResult struct {
	OperationalKg    float64 `json:"operational_kg"`
	EmbeddedGPUKg    float64 `json:"embedded_gpu_kg"`
	EmbeddedServerKg float64 `json:"embedded_server_kg"`
	TotalKg          float64 `json:"total_kg"`
}

// DeviceResult is the yearly footprint of one device category.
type DeviceResult struct {
	EmbeddedKg       float64 `json:"embedded_kg"`
	OperationalKg    float64 `json:"operational_kg"`
	CO2PerSessionKg  float64 `json:"co2_per_session_kg"`
	TotalPerDeviceKg float64 `json:"total_per_device_kg"`
}

// NetworkResult is the cost of one inference's data transfer.
type NetworkResult struct {
	EnergyKWh        float64 `json:"energy_kwh"`
	EmissionGramsCO2 float64 `json:"emission_grams_co2"`
}

// HostingResult is the hosting phase breakdown.
type HostingResult struct {
	OperationalKg float64 `json:"operational_kg"`
	ProductionKg  float64 `json:"production_kg"`
	TotalKg       float64 `json:"total_kg"`
}

// PhaseTotals holds the yearly kg CO2e of each phase.
type PhaseTotals struct {
	Training  float64 `json:"training"`
	Inference float64 `json:"inference"`
	Devices   float64 `json:"devices"`
	Network   float64 `json:"network"`
	Hosting   float64 `json:"hosting"`
}

// Sum returns the five phases added in a fixed order.
func (p PhaseTotals) Sum() float64 {
	return p.Training + p.Inference + p.Devices + p.Network + p.Hosting
}

// PhaseDetails exposes the breakdowns used by the explanation layer.
type PhaseDetails struct {
	InferenceOperational    float64 `json:"inference_operational"`
	InferenceEmbeddedGPU    float64 `json:"inference_embedded_gpu"`
	InferenceEmbeddedServer float64 `json:"inference_embedded_server"`

	TrainingAllocationShare float64 `json:"training_allocation_share"`

	NetworkPerInference NetworkResult `json:"network_per_inference"`

	HostingOperational float64 `json:"hosting_operational"`
	HostingProduction  float64 `json:"hosting_production"`
}

// DeviceBreakdown is the result for one device category that was counted.
type DeviceBreakdown struct {
	Category refdata.DeviceCategory `json:"category"`
	DeviceResult
}

// Skip reasons reported in Result.Skipped.
const (
	ReasonUnknownDeviceCategory = "unknown_device_category"
	ReasonIncompleteDeviceUsage = "incomplete_device_usage"
	ReasonUnknownModel          = "unknown_model"
	ReasonDuplicateDevice       = "duplicate_device_category"
)

// SkippedItem records an input that contributed nothing because it could not be used.
type SkippedItem struct {
	Phase  string `json:"phase"`
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// Result is the aggregate footprint of one snapshot.
type Result struct {
	TotalKg           float64           `json:"total_kg"`
	PerPhase          PhaseTotals       `json:"per_phase"`
	PerPhaseDetails   PhaseDetails      `json:"per_phase_details"`
	InferencesPerYear float64           `json:"inferences_per_year"`
	Label             EnergyLabel       `json:"label"`
	Devices           []DeviceBreakdown `json:"devices"`
	Skipped           []SkippedItem     `json:"skipped,omitempty"`
}
