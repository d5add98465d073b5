// Package snapshot converts the raw text form state of the calculator into a
// fully numeric carbon.Input.
//
// Form fields arrive as text exactly as a user typed them. Parse is the single
// stage where text becomes numbers, defaults are applied and reference keys
// are resolved against the catalog; the carbon package never sees raw text.
package snapshot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Text is a form value that decodes from a JSON/YAML string, number or null.
type Text string

// UnmarshalJSON accepts "12", 12 and null.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')):
		*t = Text(data)
		return nil
	default:
		return fmt.Errorf("form value must be a string or number, got %s", data)
	}
}

// UnmarshalYAML accepts any scalar node.
func (t *Text) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return &yaml.TypeError{Errors: []string{"form value must be a scalar"}}
	}
	if node.Tag == "!!null" {
		*t = ""
		return nil
	}
	*t = Text(node.Value)
	return nil
}

// IsEmpty reports whether the field was left blank.
func (t Text) IsEmpty() bool {
	return strings.TrimSpace(string(t)) == ""
}

// FormData is the complete state of the five calculator steps.
type FormData struct {
	Training  TrainingForm  `json:"training" yaml:"training"`
	Inference InferenceForm `json:"inference" yaml:"inference"`
	Devices   DevicesForm   `json:"devices" yaml:"devices"`
	Network   NetworkForm   `json:"network" yaml:"network"`
	Hosting   HostingForm   `json:"hosting" yaml:"hosting"`
}

// TrainingForm is the training step.
type TrainingForm struct {
	// Choice is preloaded, finetuned or custom; empty means preloaded.
	Choice    string `json:"choice,omitempty" yaml:"choice,omitempty"`
	ModelName string `json:"model_name,omitempty" yaml:"model_name,omitempty"`
	GPUType   string `json:"gpu_type,omitempty" yaml:"gpu_type,omitempty"`
	GPUHours  Text   `json:"gpu_hours,omitempty" yaml:"gpu_hours,omitempty"`
}

// InferenceForm is the inference step.
type InferenceForm struct {
	// Location is cloud or local; informational only.
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// Provider and Region select a datacenter for PUE and carbon intensity.
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`

	PUE             Text `json:"pue,omitempty" yaml:"pue,omitempty"`
	CarbonIntensity Text `json:"carbon_intensity,omitempty" yaml:"carbon_intensity,omitempty"`

	// Task selects a default energy per inference.
	Task               string `json:"task,omitempty" yaml:"task,omitempty"`
	EnergyPerInference Text   `json:"energy_per_inference,omitempty" yaml:"energy_per_inference,omitempty"`
	InferencesPerYear  Text   `json:"inferences_per_year,omitempty" yaml:"inferences_per_year,omitempty"`
	InferenceDuration  Text   `json:"inference_duration,omitempty" yaml:"inference_duration,omitempty"`
}

// DeviceEntry is the usage of one device category.
type DeviceEntry struct {
	Users           Text `json:"users,omitempty" yaml:"users,omitempty"`
	SessionMinutes  Text `json:"session_minutes,omitempty" yaml:"session_minutes,omitempty"`
	SessionsPerYear Text `json:"sessions_per_year,omitempty" yaml:"sessions_per_year,omitempty"`
}

// DevicesForm is the end-user devices step. Either Devices is filled per
// category, or TotalUsers is split over categories by Percentages.
type DevicesForm struct {
	Devices         map[string]DeviceEntry `json:"devices,omitempty" yaml:"devices,omitempty"`
	Percentages     map[string]Text        `json:"percentages,omitempty" yaml:"percentages,omitempty"`
	TotalUsers      Text                   `json:"total_users,omitempty" yaml:"total_users,omitempty"`
	SessionMinutes  Text                   `json:"session_minutes,omitempty" yaml:"session_minutes,omitempty"`
	SessionsPerYear Text                   `json:"sessions_per_year,omitempty" yaml:"sessions_per_year,omitempty"`
	GridIntensity   Text                   `json:"grid_intensity,omitempty" yaml:"grid_intensity,omitempty"`
}

// NetworkForm is the network step.
type NetworkForm struct {
	DataAmount Text `json:"data_amount,omitempty" yaml:"data_amount,omitempty"`

	// DataUnit is KB, MB or GB; empty or unknown means MB.
	DataUnit      string `json:"data_unit,omitempty" yaml:"data_unit,omitempty"`
	GridIntensity Text   `json:"grid_intensity,omitempty" yaml:"grid_intensity,omitempty"`
}

// HostingForm is the web hosting step.
type HostingForm struct {
	Online      bool   `json:"online" yaml:"online"`
	HostingType string `json:"hosting_type,omitempty" yaml:"hosting_type,omitempty"`

	CloudProvider string `json:"cloud_provider,omitempty" yaml:"cloud_provider,omitempty"`
	Region        string `json:"region,omitempty" yaml:"region,omitempty"`

	PUE             Text `json:"pue,omitempty" yaml:"pue,omitempty"`
	CarbonIntensity Text `json:"carbon_intensity,omitempty" yaml:"carbon_intensity,omitempty"`

	// AnnualVisits empty means total users × sessions per year.
	AnnualVisits Text `json:"annual_visits,omitempty" yaml:"annual_visits,omitempty"`

	// Host is the public hostname used for the green hosting check.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
}
