package carbon

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcaim/ai-footprint/internal/refdata"
)

func scenarioInput() Input {
	return Input{
		Training: TrainingInput{Choice: ChoicePreloaded, ModelName: "Scenario-50k"},
		Inference: InferenceConfig{
			EnergyPerInferenceKWh:  0.00005,
			InferencesPerYear:      100_000,
			PUE:                    1.2,
			CarbonIntensityGPerKWh: 300,
			DurationSeconds:        18,
		},
		Devices: map[string]DeviceUsageInput{
			"laptop": {UserCount: 500, SessionMinutes: 5, SessionsPerUser: 300},
		},
		Network: NetworkConfig{Amount: 8, Unit: UnitKB},
		Hosting: HostingConfig{VisitsPerYear: 150_000, Type: HostingCloud, Online: true},
	}
}

func TestCalculator_Scenario(t *testing.T) {
	c := NewCalculator(fixtureCatalog(), zerolog.Nop())

	res := c.Calculate(scenarioInput())

	assert.InDelta(t, 0.0137, res.PerPhase.Training, 0.0001)
	assert.InDelta(t, 1.8, res.PerPhaseDetails.InferenceOperational, 1e-9)
	assert.InDelta(t, 1.8+1.42694+9.51294, res.PerPhase.Inference, 1e-4)
	assert.InDelta(t, 931.71875, res.PerPhase.Devices, 1e-9)
	assert.InDelta(t, 0.057888, res.PerPhase.Network, 1e-9)
	assert.InDelta(t, 120+1041.6667, res.PerPhase.Hosting, 1e-3)

	assert.Equal(t, res.PerPhase.Sum(), res.TotalKg)
	assert.Equal(t, 100_000.0, res.InferencesPerYear)
	assert.Equal(t, LabelA, res.Label)
	assert.Empty(t, res.Skipped)

	require.Len(t, res.Devices, 1)
	assert.Equal(t, refdata.DeviceLaptop, res.Devices[0].Category)
}

func TestCalculator_EmptyInput(t *testing.T) {
	c := NewCalculator(fixtureCatalog(), zerolog.Nop())

	res := c.Calculate(Input{})

	assert.Zero(t, res.TotalKg)
	assert.Equal(t, PhaseTotals{}, res.PerPhase)
	assert.Equal(t, LabelA, res.Label)
	assert.Empty(t, res.Devices)
}

func TestCalculator_SkipsUnusableDevices(t *testing.T) {
	c := NewCalculator(fixtureCatalog(), zerolog.Nop())

	in := Input{Devices: map[string]DeviceUsageInput{
		"laptop":     {UserCount: 10, SessionMinutes: 10, SessionsPerUser: 10},
		"smartwatch": {UserCount: 10, SessionMinutes: 10, SessionsPerUser: 10},
		"tablet":     {UserCount: 10, SessionMinutes: 0, SessionsPerUser: 10},
	}}
	res := c.Calculate(in)

	require.Len(t, res.Devices, 1)
	assert.Equal(t, refdata.DeviceLaptop, res.Devices[0].Category)
	assert.Equal(t, []SkippedItem{
		{Phase: "devices", Key: "smartwatch", Reason: ReasonUnknownDeviceCategory},
		{Phase: "devices", Key: "tablet", Reason: ReasonIncompleteDeviceUsage},
	}, res.Skipped)
	assert.Equal(t, res.Devices[0].TotalPerDeviceKg, res.PerPhase.Devices)
}

func TestCalculator_UnknownModelReported(t *testing.T) {
	c := NewCalculator(fixtureCatalog(), zerolog.Nop())

	in := scenarioInput()
	in.Training.ModelName = "GPT-9"
	res := c.Calculate(in)

	assert.Zero(t, res.PerPhase.Training)
	assert.Contains(t, res.Skipped, SkippedItem{Phase: "training", Key: "GPT-9", Reason: ReasonUnknownModel})
	assert.Greater(t, res.TotalKg, 0.0, "other phases still count")
}

func TestCalculator_Deterministic(t *testing.T) {
	c := NewCalculator(fixtureCatalog(), zerolog.Nop())

	in := scenarioInput()
	in.Devices = map[string]DeviceUsageInput{
		"smartphone": {UserCount: 1234, SessionMinutes: 3.3, SessionsPerUser: 250},
		"laptop":     {UserCount: 567, SessionMinutes: 7.1, SessionsPerUser: 300},
		"desktop":    {UserCount: 89, SessionMinutes: 12.5, SessionsPerUser: 220},
		"tablet":     {UserCount: 42, SessionMinutes: 4.4, SessionsPerUser: 180},
	}

	first := c.Calculate(in)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, c.Calculate(in))
	}
	assert.Len(t, first.Devices, 4)
	assert.Equal(t, refdata.DeviceDesktop, first.Devices[0].Category, "devices are sorted by key")
}

func TestCalculator_TrainingUsesInferenceCount(t *testing.T) {
	c := NewCalculator(fixtureCatalog(), zerolog.Nop())

	in := Input{
		Training:  TrainingInput{Choice: ChoicePreloaded, ModelName: "ModelX"},
		Inference: InferenceConfig{InferencesPerYear: 1000, PUE: 1},
	}
	res := c.Calculate(in)

	assert.InDelta(t, 1000*1_000_000/365_000_000_000.0, res.PerPhase.Training, 1e-15)
	assert.InDelta(t, 1000/365_000_000_000.0, res.PerPhaseDetails.TrainingAllocationShare, 1e-20)
}

func TestCalculator_LabelUsesCalibration(t *testing.T) {
	cal := refdata.DefaultCalibration()
	cal.LabelThresholdsKg = []float64{1, 2, 3, 4, 5, 6}
	catalog := refdata.New(refdata.Tables{Calibration: &cal})

	c := NewCalculator(catalog, zerolog.Nop())
	res := c.Calculate(Input{Training: TrainingInput{Choice: ChoiceCustom, GPUHours: 100}})

	assert.InDelta(t, 30, res.TotalKg, 1e-9)
	assert.Equal(t, LabelG, res.Label)
}

func TestCalculator_GetBillingDetail(t *testing.T) {
	c := NewCalculator(fixtureCatalog(), zerolog.Nop())

	details := c.GetBillingDetail(scenarioInput())

	assert.Len(t, details, 5)
	assert.Contains(t, details["devices"], "Laptop")
	assert.Contains(t, details["hosting"], "150000 visits")
	assert.Contains(t, details["network"], "8 KB")

	assert.Equal(t, "No end-user devices counted", c.GetBillingDetail(Input{})["devices"])
}

func TestCalculator_DeviceCategoryCountedOnce(t *testing.T) {
	c := NewCalculator(fixtureCatalog(), zerolog.Nop())
	usage := DeviceUsageInput{UserCount: 1, SessionMinutes: 1, SessionsPerUser: 1}

	single := c.Calculate(Input{Devices: map[string]DeviceUsageInput{"laptop": usage}})
	res := c.Calculate(Input{Devices: map[string]DeviceUsageInput{"LAPTOP": usage, "laptop": usage}})

	require.Len(t, res.Devices, 1)
	assert.Equal(t, refdata.DeviceLaptop, res.Devices[0].Category)
	assert.Equal(t, single.PerPhase.Devices, res.PerPhase.Devices)
	assert.Equal(t, []SkippedItem{{Phase: "devices", Key: "laptop", Reason: ReasonDuplicateDevice}}, res.Skipped)

	detail := c.GetBillingDetail(Input{Devices: map[string]DeviceUsageInput{"LAPTOP": usage, "laptop": usage}})["devices"]
	assert.Equal(t, 1, strings.Count(detail, "Laptop"))
}

func TestCalculator_TrainingUsesCalibratedGlobalCount(t *testing.T) {
	cal := refdata.DefaultCalibration()
	cal.GlobalInferencesPerYear = 1e6
	catalog := refdata.New(refdata.Tables{
		Models:      []refdata.ModelTraining{{Name: "ModelX", TotalCO2Kg: 1_000_000}},
		Calibration: &cal,
	})
	c := NewCalculator(catalog, zerolog.Nop())

	in := Input{
		Training:  TrainingInput{Choice: ChoicePreloaded, ModelName: "ModelX"},
		Inference: InferenceConfig{InferencesPerYear: 1000, PUE: 1},
	}
	res := c.Calculate(in)

	assert.InDelta(t, 1000, res.PerPhase.Training, 1e-9)
	assert.Contains(t, c.GetBillingDetail(in)["training"], "of 1000000 yearly inferences")
}

func TestCalculator_Calibration(t *testing.T) {
	cal := refdata.DefaultCalibration()
	cal.GlobalInferencesPerYear = 42
	c := NewCalculator(refdata.New(refdata.Tables{Calibration: &cal}), zerolog.Nop())

	got := c.Calibration()
	assert.Equal(t, cal, got)

	got.LabelThresholdsKg[0] = -1
	assert.Equal(t, cal.LabelThresholdsKg, c.Calibration().LabelThresholdsKg, "returned thresholds are a copy")
}

func TestCalculator_HostingUsesDatacenterWhenKnown(t *testing.T) {
	c := NewCalculator(fixtureCatalog(), zerolog.Nop())

	flat := c.Calculate(Input{Hosting: HostingConfig{VisitsPerYear: 1000, Type: HostingLocal, Online: true}})
	assert.InDelta(t, 0.8, flat.PerPhase.Hosting, 1e-12)

	known := c.Calculate(Input{Hosting: HostingConfig{VisitsPerYear: 1000, Type: HostingLocal, Online: true, PUE: 1.2, CarbonIntensity: 300}})
	assert.InDelta(t, 1000*0.00166*1.2*300/1000, known.PerPhase.Hosting, 1e-12)
}
