package refdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// CSV column indices for foundation_models.csv.
const (
	colModelName    = 0 // model_name
	colModelTotalKg = 1 // total_co2_kg
)

// CSV column indices for datacenters.csv.
const (
	colDCProvider  = 0 // provider (short key)
	colDCRegion    = 1 // region
	colDCCountry   = 2 // country
	colDCPUE       = 3 // pue
	colDCIntensity = 4 // carbon_intensity_g_per_kwh
)

// CSV column indices for ai_tasks.csv.
const (
	colTaskID          = 0 // task_id
	colTaskDisplayName = 1 // display_name
	colTaskEnergy      = 2 // energy_per_inference_kwh
)

// CSV column indices for devices.csv.
const (
	colDeviceCategory = 0 // category
	colDevicePower    = 1 // power_watts
	colDeviceEmbedded = 2 // embedded_co2_kg
	colDeviceLifetime = 3 // lifetime_years
)

// ModelTraining is the precomputed total training footprint of a foundation model.
type ModelTraining struct {
	Name       string  `json:"model_name"`
	TotalCO2Kg float64 `json:"total_co2_kg"`
}

// Datacenter is one provider region with its efficiency and grid intensity.
type Datacenter struct {
	Provider               CloudProvider `json:"provider"`
	Region                 string        `json:"region"`
	Country                string        `json:"country"`
	PUE                    float64       `json:"pue"`
	CarbonIntensityGPerKWh float64       `json:"carbon_intensity_g_per_kwh"`
}

// AITask is the average energy of one inference for a kind of AI task.
type AITask struct {
	ID                    string  `json:"task_id"`
	DisplayName           string  `json:"display_name"`
	EnergyPerInferenceKWh float64 `json:"energy_per_inference_kwh"`
}

// DeviceSpec describes the power draw and manufacturing footprint of a device category.
// All fields are > 0 for rows accepted into the catalog.
type DeviceSpec struct {
	PowerWatts    float64 `json:"power_watts"`
	EmbeddedCO2Kg float64 `json:"embedded_co2_kg"`
	LifetimeYears float64 `json:"lifetime_years"`
}

// rowReader walks a CSV body, skipping the header and logging malformed rows.
// fn returns false to reject a row; rejected rows are logged at debug level.
func rowReader(name string, r io.Reader, minCols int, logger zerolog.Logger, fn func(record []string) bool) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// Skip header row
	if _, err := reader.Read(); err != nil {
		return fmt.Errorf("failed to read %s header: %w", name, err)
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			logger.Warn().Err(err).Str("table", name).Int("line", line).Msg("skipping malformed CSV row")
			continue
		}

		// Ensure we have enough columns
		if len(record) < minCols {
			logger.Warn().Str("table", name).Int("line", line).Msg("skipping short CSV row")
			continue
		}

		if !fn(record) {
			logger.Warn().Str("table", name).Int("line", line).Strs("record", record).Msg("skipping invalid CSV row")
		}
	}
}

// parseDecimal parses s as a float64 treating an optional comma as the decimal separator.
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}

func parseModels(r io.Reader, logger zerolog.Logger) (map[string]ModelTraining, error) {
	models := make(map[string]ModelTraining)
	err := rowReader(fileModels, r, colModelTotalKg+1, logger, func(record []string) bool {
		name := strings.TrimSpace(record[colModelName])
		if name == "" {
			return false
		}
		total, err := parseDecimal(record[colModelTotalKg])
		if err != nil || total < 0 {
			return false
		}
		models[modelKey(name)] = ModelTraining{Name: name, TotalCO2Kg: total}
		return true
	})
	return models, err
}

func parseDatacenters(r io.Reader, logger zerolog.Logger) ([]Datacenter, error) {
	var dcs []Datacenter
	err := rowReader(fileDatacenters, r, colDCIntensity+1, logger, func(record []string) bool {
		provider, err := ParseCloudProvider(record[colDCProvider])
		if err != nil {
			return false
		}
		region := strings.TrimSpace(record[colDCRegion])
		if region == "" {
			return false
		}
		pue, err := parseDecimal(record[colDCPUE])
		if err != nil || pue < 1 {
			return false
		}
		intensity, err := parseDecimal(record[colDCIntensity])
		if err != nil || intensity < 0 {
			return false
		}
		dcs = append(dcs, Datacenter{
			Provider:               provider,
			Region:                 region,
			Country:                strings.TrimSpace(record[colDCCountry]),
			PUE:                    pue,
			CarbonIntensityGPerKWh: intensity,
		})
		return true
	})
	return dcs, err
}

func parseTasks(r io.Reader, logger zerolog.Logger) ([]AITask, error) {
	var tasks []AITask
	err := rowReader(fileTasks, r, colTaskEnergy+1, logger, func(record []string) bool {
		id := strings.TrimSpace(record[colTaskID])
		if id == "" {
			return false
		}
		energy, err := parseDecimal(record[colTaskEnergy])
		if err != nil || energy <= 0 {
			return false
		}
		tasks = append(tasks, AITask{
			ID:                    id,
			DisplayName:           strings.TrimSpace(record[colTaskDisplayName]),
			EnergyPerInferenceKWh: energy,
		})
		return true
	})
	return tasks, err
}

func parseDevices(r io.Reader, logger zerolog.Logger) (map[DeviceCategory]DeviceSpec, error) {
	devices := make(map[DeviceCategory]DeviceSpec)
	err := rowReader(fileDevices, r, colDeviceLifetime+1, logger, func(record []string) bool {
		category, err := ParseDeviceCategory(record[colDeviceCategory])
		if err != nil {
			return false
		}
		power, err1 := parseDecimal(record[colDevicePower])
		embedded, err2 := parseDecimal(record[colDeviceEmbedded])
		lifetime, err3 := parseDecimal(record[colDeviceLifetime])
		if err1 != nil || err2 != nil || err3 != nil {
			return false
		}
		// DeviceSpec invariant: every field strictly positive
		if power <= 0 || embedded <= 0 || lifetime <= 0 {
			return false
		}
		devices[category] = DeviceSpec{PowerWatts: power, EmbeddedCO2Kg: embedded, LifetimeYears: lifetime}
		return true
	})
	return devices, err
}

func modelKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
