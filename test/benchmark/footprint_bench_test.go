// Package benchmark provides performance benchmarks for the footprint engine.
//
// A full calculation must stay well under the latency an interactive form
// can tolerate on every keystroke.
//
// Run with: go test ./test/benchmark/... -bench=. -benchmem
package benchmark

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hcaim/ai-footprint/internal/carbon"
	"github.com/hcaim/ai-footprint/internal/refdata"
	"github.com/hcaim/ai-footprint/internal/report"
	"github.com/hcaim/ai-footprint/internal/snapshot"
)

const (
	// maxLatencyMs is the maximum acceptable latency in milliseconds.
	maxLatencyMs = 100
)

func benchCatalog(tb testing.TB) *refdata.Catalog {
	tb.Helper()
	catalog, err := refdata.Load(zerolog.Nop())
	if err != nil {
		tb.Fatalf("failed to load reference data: %v", err)
	}
	return catalog
}

func benchInput() carbon.Input {
	return carbon.Input{
		Training: carbon.TrainingInput{Choice: carbon.ChoicePreloaded, ModelName: "Llama-2-13B"},
		Inference: carbon.InferenceConfig{
			EnergyPerInferenceKWh:  0.000047,
			InferencesPerYear:      100_000,
			PUE:                    1.18,
			CarbonIntensityGPerKWh: 268,
			DurationSeconds:        18,
		},
		Devices: map[string]carbon.DeviceUsageInput{
			"laptop":     {UserCount: 600, SessionMinutes: 5, SessionsPerUser: 150},
			"smartphone": {UserCount: 400, SessionMinutes: 5, SessionsPerUser: 150},
		},
		Network: carbon.NetworkConfig{Amount: 8, Unit: carbon.UnitKB},
		Hosting: carbon.HostingConfig{VisitsPerYear: 150_000, Type: carbon.HostingCloud, Online: true},
	}
}

func benchForm() snapshot.FormData {
	return snapshot.FormData{
		Training: snapshot.TrainingForm{Choice: "preloaded", ModelName: "bloom"},
		Inference: snapshot.InferenceForm{
			Provider: "gcp", Region: "europe-west4 (Eemshaven)", Task: "text-generation",
			InferencesPerYear: "100000", InferenceDuration: "18",
		},
		Devices: snapshot.DevicesForm{
			TotalUsers: "1000", SessionMinutes: "5", SessionsPerYear: "150",
			Percentages: map[string]snapshot.Text{"laptop": "60", "smartphone": "40"},
		},
		Network: snapshot.NetworkForm{DataAmount: "8", DataUnit: "KB"},
		Hosting: snapshot.HostingForm{Online: true, HostingType: "cloud"},
	}
}

// BenchmarkCalculate measures one full five-phase calculation.
func BenchmarkCalculate(b *testing.B) {
	calc := carbon.NewCalculator(benchCatalog(b), zerolog.Nop())
	in := benchInput()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		calc.Calculate(in)
	}
}

// BenchmarkInferenceEstimator measures the inference phase alone.
func BenchmarkInferenceEstimator(b *testing.B) {
	e := carbon.NewInferenceEstimator(refdata.DefaultCalibration())
	cfg := benchInput().Inference

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Estimate(cfg)
	}
}

// BenchmarkDeviceEstimator measures one device category.
func BenchmarkDeviceEstimator(b *testing.B) {
	e := carbon.NewDeviceEstimator(refdata.DefaultCalibration())
	spec := refdata.DeviceSpec{PowerWatts: 75, EmbeddedCO2Kg: 522.6, LifetimeYears: 4}
	usage := carbon.DeviceUsageInput{UserCount: 500, SessionMinutes: 5, SessionsPerUser: 300}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Estimate(usage, spec, 268)
	}
}

// BenchmarkParse measures converting form text into engine input.
func BenchmarkParse(b *testing.B) {
	catalog := benchCatalog(b)
	form := benchForm()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := snapshot.Parse(form, catalog); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSweep measures the eight-point scenario sweep.
func BenchmarkSweep(b *testing.B) {
	calc := carbon.NewCalculator(benchCatalog(b), zerolog.Nop())
	in := benchInput()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		report.Sweep(calc, in, nil)
	}
}

// BenchmarkLoadCatalog measures parsing the embedded reference tables.
func BenchmarkLoadCatalog(b *testing.B) {
	for i := 0; i < b.N; i++ {
		benchCatalog(b)
	}
}

// TestLatencyRequirement_Calculate verifies parse plus calculation meets <100ms latency.
func TestLatencyRequirement_Calculate(t *testing.T) {
	catalog := benchCatalog(t)
	calc := carbon.NewCalculator(catalog, zerolog.Nop())
	form := benchForm()

	start := time.Now()
	parsed, err := snapshot.Parse(form, catalog)
	if err != nil {
		t.Fatal(err)
	}
	calc.Calculate(parsed.Input)
	elapsed := time.Since(start)

	if elapsed.Milliseconds() > maxLatencyMs {
		t.Errorf("parse and calculate took %v, exceeds %dms", elapsed, maxLatencyMs)
	}
}

// TestLatencyRequirement_Sweep verifies a full sweep meets <100ms latency.
func TestLatencyRequirement_Sweep(t *testing.T) {
	calc := carbon.NewCalculator(benchCatalog(t), zerolog.Nop())

	start := time.Now()
	report.Sweep(calc, benchInput(), nil)
	elapsed := time.Since(start)

	if elapsed.Milliseconds() > maxLatencyMs {
		t.Errorf("sweep took %v, exceeds %dms", elapsed, maxLatencyMs)
	}
}
