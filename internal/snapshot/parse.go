package snapshot

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/hcaim/ai-footprint/internal/carbon"
	"github.com/hcaim/ai-footprint/internal/refdata"
)

var (
	// ErrNotANumber is wrapped by a FieldError whose text is not a decimal number.
	ErrNotANumber = errors.New("not a number")

	// ErrNegative is wrapped by a FieldError whose value is below zero.
	ErrNegative = errors.New("must not be negative")
)

// Parsed is the numeric snapshot produced by Parse.
type Parsed struct {
	Input    carbon.Input `json:"input"`
	Warnings []Warning    `json:"warnings,omitempty"`
}

// Parse converts form text into a carbon.Input.
//
// Empty fields become 0 (PUE becomes 1 for inference). Reference keys (task,
// provider and region, data unit) fill in blank numeric fields from catalog;
// unknown keys are recorded as warnings. Text that is not a non-negative
// number is collected into a *ValidationError, which is returned together
// with a best-effort Parsed in which the offending fields are 0.
func Parse(form FormData, catalog *refdata.Catalog) (Parsed, error) {
	p := &parser{catalog: catalog}

	var in carbon.Input
	in.Training = p.training(form.Training)
	in.Inference = p.inference(form.Inference)
	in.Devices, in.DeviceGridIntensity = p.devices(form.Devices)
	in.Network = p.network(form.Network)
	in.Hosting = p.hosting(form.Hosting)

	parsed := Parsed{Input: in, Warnings: p.warnings}
	if len(p.fields) > 0 {
		return parsed, &ValidationError{Fields: p.fields}
	}
	return parsed, nil
}

type parser struct {
	catalog  *refdata.Catalog
	fields   []FieldError
	warnings []Warning

	// From the devices step, reused to derive annual visits.
	totalUsers      float64
	sessionsPerYear float64
}

func (p *parser) fail(field string, value Text, err error) {
	p.fields = append(p.fields, FieldError{Field: field, Value: string(value), Err: err})
}

func (p *parser) warn(field, format string, args ...any) {
	p.warnings = append(p.warnings, Warning{Field: field, Message: fmt.Sprintf(format, args...)})
}

// number parses t as a non-negative decimal. A comma is accepted as the
// decimal separator. Blank text returns def without error.
func (p *parser) number(field string, t Text, def float64) float64 {
	s := strings.TrimSpace(string(t))
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.fail(field, t, ErrNotANumber)
		return def
	}
	if v < 0 {
		p.fail(field, t, ErrNegative)
		return def
	}
	return v
}

// datacenter resolves provider and region when both are given.
func (p *parser) datacenter(field, provider, region string) (refdata.Datacenter, bool) {
	if strings.TrimSpace(provider) == "" || strings.TrimSpace(region) == "" {
		return refdata.Datacenter{}, false
	}
	cp, err := refdata.ParseCloudProvider(provider)
	if err != nil {
		p.warn(field+".provider", "%v", err)
		return refdata.Datacenter{}, false
	}
	dc, err := p.catalog.Datacenter(cp, region)
	if err != nil {
		p.warn(field+".region", "%v", err)
		return refdata.Datacenter{}, false
	}
	return dc, true
}

func (p *parser) training(f TrainingForm) carbon.TrainingInput {
	choice := carbon.ChoicePreloaded
	if strings.TrimSpace(f.Choice) != "" {
		c, err := carbon.ParseTrainingChoice(f.Choice)
		if err != nil {
			p.fail("training.choice", Text(f.Choice), err)
		}
		choice = c
	}

	name := strings.TrimSpace(f.ModelName)
	if choice == carbon.ChoicePreloaded && name != "" {
		if _, err := p.catalog.ModelTraining(name); err != nil {
			p.warn("training.model_name", "%v", err)
		}
	}

	return carbon.TrainingInput{
		Choice:    choice,
		ModelName: name,
		GPUHours:  p.number("training.gpu_hours", f.GPUHours, 0),
	}
}

func (p *parser) inference(f InferenceForm) carbon.InferenceConfig {
	dc, haveDC := p.datacenter("inference", f.Provider, f.Region)

	pue := p.number("inference.pue", f.PUE, 0)
	if pue == 0 {
		pue = carbon.DefaultPUE
		if haveDC {
			pue = dc.PUE
		}
	}

	intensity := p.number("inference.carbon_intensity", f.CarbonIntensity, 0)
	if f.CarbonIntensity.IsEmpty() && haveDC {
		intensity = dc.CarbonIntensityGPerKWh
	}

	energy := p.number("inference.energy_per_inference", f.EnergyPerInference, 0)
	if f.EnergyPerInference.IsEmpty() && strings.TrimSpace(f.Task) != "" {
		task, err := p.catalog.Task(f.Task)
		if err != nil {
			p.warn("inference.task", "%v", err)
		} else {
			energy = task.EnergyPerInferenceKWh
		}
	}

	return carbon.InferenceConfig{
		EnergyPerInferenceKWh:  energy,
		InferencesPerYear:      p.number("inference.inferences_per_year", f.InferencesPerYear, 0),
		PUE:                    pue,
		CarbonIntensityGPerKWh: intensity,
		DurationSeconds:        p.number("inference.inference_duration", f.InferenceDuration, 0),
	}
}

func (p *parser) devices(f DevicesForm) (map[string]carbon.DeviceUsageInput, float64) {
	p.totalUsers = p.number("devices.total_users", f.TotalUsers, 0)
	p.sessionsPerYear = p.number("devices.sessions_per_year", f.SessionsPerYear, 0)
	sessionMinutes := p.number("devices.session_minutes", f.SessionMinutes, 0)
	gridIntensity := p.number("devices.grid_intensity", f.GridIntensity, 0)

	out := make(map[string]carbon.DeviceUsageInput)

	if len(f.Devices) > 0 {
		for _, key := range sortedKeys(f.Devices) {
			e := f.Devices[key]
			prefix := "devices.devices." + key
			out[key] = carbon.DeviceUsageInput{
				UserCount:       p.number(prefix+".users", e.Users, 0),
				SessionMinutes:  p.number(prefix+".session_minutes", e.SessionMinutes, 0),
				SessionsPerUser: p.number(prefix+".sessions_per_year", e.SessionsPerYear, 0),
			}
		}
		return out, gridIntensity
	}

	if p.totalUsers == 0 || len(f.Percentages) == 0 {
		return out, gridIntensity
	}

	var sum float64
	for _, key := range sortedKeys(f.Percentages) {
		pct := p.number("devices.percentages."+key, f.Percentages[key], 0)
		sum += pct
		if pct == 0 {
			continue
		}
		out[key] = carbon.DeviceUsageInput{
			UserCount:       p.totalUsers * (pct / 100),
			SessionMinutes:  sessionMinutes,
			SessionsPerUser: p.sessionsPerYear,
		}
	}
	if math.Abs(sum-100) > 1e-6 {
		p.warn("devices.percentages", "device percentages add up to %s%%, not 100%%",
			strconv.FormatFloat(sum, 'f', -1, 64))
	}

	return out, gridIntensity
}

func (p *parser) network(f NetworkForm) carbon.NetworkConfig {
	unit := carbon.UnitMB
	if strings.TrimSpace(f.DataUnit) != "" {
		u, err := carbon.ParseDataUnit(f.DataUnit)
		if err != nil {
			p.warn("network.data_unit", "%v, using MB", err)
		} else {
			unit = u
		}
	}

	return carbon.NetworkConfig{
		Amount:               p.number("network.data_amount", f.DataAmount, 0),
		Unit:                 unit,
		GridIntensityGPerKWh: p.number("network.grid_intensity", f.GridIntensity, 0),
	}
}

func (p *parser) hosting(f HostingForm) carbon.HostingConfig {
	hostingType, err := carbon.ParseHostingType(f.HostingType)
	if err != nil {
		p.fail("hosting.hosting_type", Text(f.HostingType), err)
	}

	visits := p.number("hosting.annual_visits", f.AnnualVisits, 0)
	if f.AnnualVisits.IsEmpty() {
		visits = math.Round(p.totalUsers * p.sessionsPerYear)
	}

	pue := p.number("hosting.pue", f.PUE, 0)
	intensity := p.number("hosting.carbon_intensity", f.CarbonIntensity, 0)
	if f.PUE.IsEmpty() || f.CarbonIntensity.IsEmpty() {
		if dc, ok := p.datacenter("hosting", f.CloudProvider, f.Region); ok {
			if f.PUE.IsEmpty() {
				pue = dc.PUE
			}
			if f.CarbonIntensity.IsEmpty() {
				intensity = dc.CarbonIntensityGPerKWh
			}
		}
	}

	return carbon.HostingConfig{
		VisitsPerYear:   visits,
		Type:            hostingType,
		Online:          f.Online,
		PUE:             pue,
		CarbonIntensity: intensity,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
