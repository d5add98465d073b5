package carbon

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/hcaim/ai-footprint/internal/refdata"
)

// FootprintCalculator computes the aggregate footprint of an input snapshot.
type FootprintCalculator interface {
	// Calculate runs every phase model and classifies the total.
	// It never fails; unusable inputs contribute zero and are listed in Result.Skipped.
	Calculate(in Input) Result
}

// Calculator implements FootprintCalculator over a reference catalog.
type Calculator struct {
	catalog *refdata.Catalog
	cal     refdata.Calibration
	logger  zerolog.Logger

	training  *TrainingEstimator
	inference *InferenceEstimator
	device    *DeviceEstimator
	network   *NetworkEstimator
	hosting   *HostingEstimator
}

// NewCalculator creates a calculator. The catalog must not be modified afterwards.
func NewCalculator(catalog *refdata.Catalog, logger zerolog.Logger) *Calculator {
	cal := catalog.Calibration()
	return &Calculator{
		catalog:   catalog,
		cal:       cal,
		logger:    logger.With().Str("component", "calculator").Logger(),
		training:  NewTrainingEstimator(catalog),
		inference: NewInferenceEstimator(cal),
		device:    NewDeviceEstimator(cal),
		network:   NewNetworkEstimator(cal),
		hosting:   NewHostingEstimator(cal),
	}
}

// Calibration returns the coefficients the calculator was built with.
func (c *Calculator) Calibration() refdata.Calibration {
	cal := c.cal
	cal.LabelThresholdsKg = append([]float64(nil), c.cal.LabelThresholdsKg...)
	return cal
}

// trainingConfig allocates the training phase against the calibrated worldwide inference count.
func (c *Calculator) trainingConfig(in Input) TrainingConfig {
	return TrainingConfig{
		Choice:           in.Training.Choice,
		ModelName:        in.Training.ModelName,
		GPUHours:         in.Training.GPUHours,
		LocalInferences:  in.Inference.InferencesPerYear,
		GlobalInferences: c.cal.GlobalInferencesPerYear,
	}
}

// Calculate computes every phase and sums them.
//
// Phases are independent except that the training allocation and the annual
// network total both use the inference phase's InferencesPerYear. Device
// categories are visited in sorted key order so the result is bit-identical
// for identical inputs.
func (c *Calculator) Calculate(in Input) Result {
	var res Result
	inferences := in.Inference.InferencesPerYear
	res.InferencesPerYear = inferences

	// Inference
	inf := c.inference.Estimate(in.Inference)
	res.PerPhase.Inference = inf.TotalKg
	res.PerPhaseDetails.InferenceOperational = inf.OperationalKg
	res.PerPhaseDetails.InferenceEmbeddedGPU = inf.EmbeddedGPUKg
	res.PerPhaseDetails.InferenceEmbeddedServer = inf.EmbeddedServerKg

	// Devices
	res.PerPhase.Devices = c.calculateDevices(in, &res)

	// Network
	perInference := c.network.Estimate(in.Network)
	res.PerPhase.Network = c.network.AnnualKg(perInference, inferences)
	res.PerPhaseDetails.NetworkPerInference = perInference

	// Training
	training := c.training.EstimateDetail(c.trainingConfig(in))
	if in.Training.Choice == ChoicePreloaded && in.Training.ModelName != "" {
		if _, err := c.catalog.ModelTraining(in.Training.ModelName); err != nil {
			c.logger.Warn().Str("model", in.Training.ModelName).Msg("unknown foundation model, training counted as zero")
			res.Skipped = append(res.Skipped, SkippedItem{Phase: "training", Key: in.Training.ModelName, Reason: ReasonUnknownModel})
		}
	}
	res.PerPhase.Training = training.TotalKg
	res.PerPhaseDetails.TrainingAllocationShare = training.AllocationShare

	// Hosting
	hosting := c.hosting.Estimate(in.Hosting)
	res.PerPhase.Hosting = hosting.TotalKg
	res.PerPhaseDetails.HostingOperational = hosting.OperationalKg
	res.PerPhaseDetails.HostingProduction = hosting.ProductionKg

	res.TotalKg = res.PerPhase.Sum()
	res.Label = ClassifyEnergyLabelWith(res.TotalKg, c.cal.LabelThresholdsKg)

	c.logger.Debug().
		Float64("total_kg", res.TotalKg).
		Float64("training_kg", res.PerPhase.Training).
		Float64("inference_kg", res.PerPhase.Inference).
		Float64("devices_kg", res.PerPhase.Devices).
		Float64("network_kg", res.PerPhase.Network).
		Float64("hosting_kg", res.PerPhase.Hosting).
		Str("label", string(res.Label)).
		Msg("footprint calculated")

	return res
}

// calculateDevices sums every usable device category and records the rest in res.Skipped.
// Keys naming the same category in another case count once, for the first key in sorted order.
func (c *Calculator) calculateDevices(in Input, res *Result) float64 {
	keys := make([]string, 0, len(in.Devices))
	for k := range in.Devices {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := make(map[refdata.DeviceCategory]bool, len(keys))
	var total float64
	for _, key := range keys {
		usage := in.Devices[key]

		category, err := refdata.ParseDeviceCategory(key)
		if err != nil {
			c.logger.Warn().Str("device", key).Msg("unknown device category, skipping")
			res.Skipped = append(res.Skipped, SkippedItem{Phase: "devices", Key: key, Reason: ReasonUnknownDeviceCategory})
			continue
		}
		spec, err := c.catalog.Device(category)
		if err != nil {
			c.logger.Warn().Str("device", key).Msg("no device spec in reference data, skipping")
			res.Skipped = append(res.Skipped, SkippedItem{Phase: "devices", Key: key, Reason: ReasonUnknownDeviceCategory})
			continue
		}
		if seen[category] {
			c.logger.Warn().Str("device", key).Msg("device category given twice, skipping")
			res.Skipped = append(res.Skipped, SkippedItem{Phase: "devices", Key: key, Reason: ReasonDuplicateDevice})
			continue
		}
		seen[category] = true
		if !usage.complete() {
			res.Skipped = append(res.Skipped, SkippedItem{Phase: "devices", Key: key, Reason: ReasonIncompleteDeviceUsage})
			continue
		}

		r := c.device.Estimate(usage, spec, in.DeviceGridIntensity)
		res.Devices = append(res.Devices, DeviceBreakdown{Category: category, DeviceResult: r})
		total += r.TotalPerDeviceKg
	}
	return total
}

// GetBillingDetail returns one explanation line per phase, keyed by phase name.
func (c *Calculator) GetBillingDetail(in Input) map[string]string {
	details := map[string]string{
		"training":  c.training.GetBillingDetail(c.trainingConfig(in)),
		"inference": c.inference.GetBillingDetail(in.Inference),
		"network":   c.network.GetBillingDetail(in.Network),
		"hosting":   c.hosting.GetBillingDetail(in.Hosting),
	}

	keys := make([]string, 0, len(in.Devices))
	for k := range in.Devices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	seen := make(map[refdata.DeviceCategory]bool, len(keys))
	var devices string
	for _, key := range keys {
		category, err := refdata.ParseDeviceCategory(key)
		if err != nil || seen[category] {
			continue
		}
		seen[category] = true
		spec, err := c.catalog.Device(category)
		if err != nil {
			continue
		}
		if devices != "" {
			devices += "; "
		}
		devices += c.device.GetBillingDetail(category, in.Devices[key], spec)
	}
	if devices == "" {
		devices = "No end-user devices counted"
	}
	details["devices"] = devices

	return details
}
