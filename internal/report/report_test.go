package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcaim/ai-footprint/internal/carbon"
	"github.com/hcaim/ai-footprint/internal/greencheck"
	"github.com/hcaim/ai-footprint/internal/refdata"
	"github.com/hcaim/ai-footprint/internal/snapshot"
)

func sampleResult() carbon.Result {
	per := carbon.PhaseTotals{
		Training:  0.0137,
		Inference: 12.74,
		Devices:   931.72,
		Network:   0.058,
		Hosting:   1161.67,
	}
	return carbon.Result{
		TotalKg:           per.Sum(),
		PerPhase:          per,
		InferencesPerYear: 100_000,
		Label:             carbon.LabelA,
	}
}

func TestNewEquivalents(t *testing.T) {
	eq := NewEquivalents(1200, 100_000)

	assert.InDelta(t, 10000, eq.CarKm, 1e-9)
	assert.InDelta(t, 48, eq.Trees, 1e-9)
	assert.InDelta(t, 1200.0/18500, eq.DutchHouseholds, 1e-12)
	assert.InDelta(t, 12, eq.GramsPerInference, 1e-9)

	noUse := NewEquivalents(1200, 0)
	assert.Zero(t, noUse.GramsPerInference)
}

func TestBuild(t *testing.T) {
	id := uuid.MustParse("6f1c2c1e-8d4b-4c47-9a57-2a4f1e0b9d10")
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	green := &greencheck.Result{Host: "www.example.nl", Status: greencheck.StatusGreen, HostedBy: "Acme"}

	r := Build(snapshot.FormData{}, sampleResult(), Options{
		ID:       id,
		Now:      now,
		Details:  map[string]string{"hosting": "x"},
		Warnings: []snapshot.Warning{{Field: "devices.percentages", Message: "off"}},
		Green:    green,
	})

	assert.Equal(t, id, r.ID)
	assert.Equal(t, time.UTC, r.GeneratedAt.Location())
	assert.True(t, now.Equal(r.GeneratedAt))
	assert.Len(t, r.Explanations, 5)
	assert.Contains(t, r.Explanations["training"], "100,000")
	assert.Equal(t, green, r.GreenHosting)
	assert.Len(t, r.Warnings, 1)
}

func TestExplanations_Training(t *testing.T) {
	res := sampleResult()

	tests := []struct {
		name   string
		choice carbon.TrainingChoice
		global float64
		result carbon.Result
		want   string
	}{
		{
			name:   "preloaded uses the calibrated worldwide count",
			choice: carbon.ChoicePreloaded,
			global: 1e9,
			result: res,
			want:   "against an estimated worldwide use of 1,000,000,000 inferences",
		},
		{
			name:   "preloaded without inferences counts the full total",
			choice: carbon.ChoicePreloaded,
			global: 365e9,
			result: carbon.Result{PerPhase: carbon.PhaseTotals{Training: 50_000}},
			want:   "full training emissions",
		},
		{
			name:   "preloaded without a model",
			choice: carbon.ChoicePreloaded,
			global: 365e9,
			result: carbon.Result{InferencesPerYear: 100},
			want:   "No foundation model",
		},
		{name: "finetuned", choice: carbon.ChoiceFinetuned, result: res, want: "GPU hours spent fine-tuning"},
		{name: "custom", choice: carbon.ChoiceCustom, result: res, want: "GPU hours spent training the custom model"},
		{name: "none", result: res, want: "No training method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Explanations(tt.result, tt.choice, tt.global)["training"]
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestBuild_TrainingExplanationFollowsForm(t *testing.T) {
	form := snapshot.FormData{Training: snapshot.TrainingForm{Choice: "Custom", GPUHours: "10"}}
	r := Build(form, sampleResult(), Options{GlobalInferences: 1e6})
	assert.Contains(t, r.Explanations["training"], "custom model")

	r = Build(snapshot.FormData{}, sampleResult(), Options{GlobalInferences: 1e6})
	assert.Contains(t, r.Explanations["training"], "1,000,000 inferences")
	assert.NotContains(t, r.Explanations["training"], "365")
}

func TestBuild_Defaults(t *testing.T) {
	r := Build(snapshot.FormData{}, carbon.Result{}, Options{})

	assert.NotEqual(t, uuid.Nil, r.ID)
	assert.False(t, r.GeneratedAt.IsZero())
	assert.Nil(t, r.GreenHosting)
}

func TestWriteJSON(t *testing.T) {
	form := snapshot.FormData{}
	form.Hosting.Host = "www.example.nl"
	r := Build(form, sampleResult(), Options{Now: time.Unix(0, 0)})

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, r))
	assert.True(t, strings.HasSuffix(buf.String(), "}\n"))

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	for _, key := range []string{"id", "generated_at", "formData", "results", "equivalents", "explanations"} {
		assert.Contains(t, doc, key)
	}
	assert.NotContains(t, doc, "green_hosting")

	// The export is accepted as snapshot input again.
	back, err := snapshot.DecodeJSON(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "www.example.nl", back.Hosting.Host)

	var results struct {
		TotalKg float64 `json:"total_kg"`
		Label   string  `json:"label"`
	}
	require.NoError(t, json.Unmarshal(doc["results"], &results))
	assert.InDelta(t, r.Results.TotalKg, results.TotalKg, 1e-9)
	assert.Equal(t, "A", results.Label)
}

func TestRenderText(t *testing.T) {
	res := sampleResult()
	res.Skipped = []carbon.SkippedItem{{Phase: "devices", Key: "tablet", Reason: carbon.ReasonIncompleteDeviceUsage}}
	r := Build(snapshot.FormData{}, res, Options{
		Green:    &greencheck.Result{Host: "www.example.nl", Status: greencheck.StatusNotGreen, HostedBy: "unknown"},
		Warnings: []snapshot.Warning{{Field: "network.data_unit", Message: "unknown data unit"}},
	})

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, r, RenderOptions{}))
	out := buf.String()

	assert.Contains(t, out, "AI footprint report")
	assert.Contains(t, out, "[A]")
	for _, phase := range phaseOrder {
		assert.Contains(t, out, phase)
	}
	assert.Contains(t, out, "car kilometres")
	assert.Contains(t, out, "www.example.nl: no green energy")
	assert.Contains(t, out, `"tablet" skipped`)
	assert.Contains(t, out, "network.data_unit")
	assert.NotContains(t, out, "inferences scale")
}

func TestRenderLabelStrip(t *testing.T) {
	strip := RenderLabelStrip(carbon.LabelD)
	assert.Contains(t, strip, "[D]")
	assert.NotContains(t, strip, "[A]")
	for _, l := range carbon.EnergyLabels() {
		assert.Contains(t, strip, string(l))
	}
}

func TestRenderSweepChart(t *testing.T) {
	assert.Contains(t, RenderSweepChart(nil, 0, 0), "No data available")

	single := RenderSweepChart([]SweepPoint{{Factor: 1, InferencesPerYear: 1000, TotalKg: 5}}, 0, 0)
	assert.Contains(t, single, "1,000 to 1,000 inferences/year")

	chart := RenderSweepChart([]SweepPoint{
		{Factor: 0.5, InferencesPerYear: 500, TotalKg: 1},
		{Factor: 2, InferencesPerYear: 2000, TotalKg: 4},
	}, 30, 5)
	assert.Contains(t, chart, "(0.5x to 2x)")
}

func TestSweep(t *testing.T) {
	catalog, err := refdata.Load(zerolog.Nop())
	require.NoError(t, err)
	calc := carbon.NewCalculator(catalog, zerolog.Nop())

	in := carbon.Input{
		Training: carbon.TrainingInput{Choice: carbon.ChoicePreloaded, ModelName: "BLOOM"},
		Inference: carbon.InferenceConfig{
			EnergyPerInferenceKWh:  0.000047,
			InferencesPerYear:      100_000,
			PUE:                    1.09,
			CarbonIntensityGPerKWh: 268,
			DurationSeconds:        18,
		},
		Network: carbon.NetworkConfig{Amount: 8, Unit: carbon.UnitKB},
	}

	points := Sweep(calc, in, nil)
	require.Len(t, points, len(DefaultSweepFactors))

	for i, p := range points {
		assert.Equal(t, DefaultSweepFactors[i], p.Factor)
		assert.InDelta(t, 100_000*p.Factor, p.InferencesPerYear, 1e-9)
		if i > 0 {
			assert.Greater(t, p.TotalKg, points[i-1].TotalKg)
		}
	}

	base := calc.Calculate(in)
	assert.InDelta(t, base.TotalKg, points[3].TotalKg, 1e-9)
	assert.Equal(t, 100_000.0, in.Inference.InferencesPerYear)
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		v    float64
		prec int
		want string
	}{
		{v: 0, prec: 0, want: "0"},
		{v: 999, prec: 0, want: "999"},
		{v: 1000, prec: 0, want: "1,000"},
		{v: 1234567.891, prec: 2, want: "1,234,567.89"},
		{v: -12345.6, prec: 1, want: "-12,345.6"},
		{v: -0.001, prec: 2, want: "0.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, humanizeFixed(tt.v, tt.prec))
	}
}

func TestRenderText_WithSweep(t *testing.T) {
	r := Build(snapshot.FormData{}, sampleResult(), Options{Sweep: []SweepPoint{
		{Factor: 0.5, InferencesPerYear: 50_000, TotalKg: 2000},
		{Factor: 1, InferencesPerYear: 100_000, TotalKg: 2100},
	}})

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, r, RenderOptions{ChartWidth: 30, ChartHeight: 4}))
	assert.Contains(t, buf.String(), "inferences scale")
	assert.Contains(t, buf.String(), "50,000 to 100,000 inferences/year")
}
