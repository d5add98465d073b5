// Package report turns a calculation into the exported artifacts: a JSON
// document of the form data with its results, and a terminal rendering with
// the energy label strip and a scenario chart.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/hcaim/ai-footprint/internal/carbon"
	"github.com/hcaim/ai-footprint/internal/greencheck"
	"github.com/hcaim/ai-footprint/internal/refdata"
	"github.com/hcaim/ai-footprint/internal/snapshot"
)

const (
	// CarKgPerKm is the emission of an average passenger car (120 g/km).
	CarKgPerKm = 0.12

	// TreeKgPerYear is the CO2 absorbed by one tree in a year.
	TreeKgPerYear = 25.0

	// DutchHouseholdKgPerYear is the yearly footprint of an average Dutch household.
	DutchHouseholdKgPerYear = 18500.0
)

// Equivalents expresses a yearly total in everyday terms.
type Equivalents struct {
	CarKm             float64 `json:"car_km"`
	Trees             float64 `json:"trees"`
	DutchHouseholds   float64 `json:"dutch_households"`
	GramsPerInference float64 `json:"grams_per_inference,omitempty"`
}

// NewEquivalents converts totalKg. GramsPerInference is 0 without inferences.
func NewEquivalents(totalKg, inferencesPerYear float64) Equivalents {
	eq := Equivalents{
		CarKm:           totalKg / CarKgPerKm,
		Trees:           totalKg / TreeKgPerYear,
		DutchHouseholds: totalKg / DutchHouseholdKgPerYear,
	}
	if inferencesPerYear > 0 {
		eq.GramsPerInference = totalKg * 1000 / inferencesPerYear
	}
	return eq
}

// Report is the exported document. FormData and Results keep the key names
// of the browser export so either can be re-imported.
type Report struct {
	ID          uuid.UUID `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`

	FormData snapshot.FormData `json:"formData"`
	Results  carbon.Result     `json:"results"`

	Equivalents  Equivalents       `json:"equivalents"`
	Explanations map[string]string `json:"explanations"`
	Details      map[string]string `json:"details,omitempty"`

	Warnings     []snapshot.Warning `json:"warnings,omitempty"`
	GreenHosting *greencheck.Result `json:"green_hosting,omitempty"`
	Sweep        []SweepPoint       `json:"sweep,omitempty"`
}

// Options controls Build. Zero values use a fresh UUID and the current time.
type Options struct {
	ID  uuid.UUID
	Now time.Time

	// Details are the per-phase calculation notes from carbon.Calculator.GetBillingDetail.
	Details  map[string]string
	Warnings []snapshot.Warning
	Green    *greencheck.Result
	Sweep    []SweepPoint

	// GlobalInferences is the worldwide yearly inference count training was
	// allocated against. Zero means the default calibration.
	GlobalInferences float64
}

// Build assembles a report for one calculation.
func Build(form snapshot.FormData, result carbon.Result, opts Options) Report {
	id := opts.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	global := opts.GlobalInferences
	if global <= 0 {
		global = refdata.DefaultCalibration().GlobalInferencesPerYear
	}

	return Report{
		ID:           id,
		GeneratedAt:  now.UTC(),
		FormData:     form,
		Results:      result,
		Equivalents:  NewEquivalents(result.TotalKg, result.InferencesPerYear),
		Explanations: Explanations(result, trainingChoice(form), global),
		Details:      opts.Details,
		Warnings:     opts.Warnings,
		GreenHosting: opts.Green,
		Sweep:        opts.Sweep,
	}
}

// Explanations returns one sentence per phase describing what was counted.
func Explanations(result carbon.Result, training carbon.TrainingChoice, globalInferences float64) map[string]string {
	return map[string]string{
		"training":  trainingExplanation(result, training, globalInferences),
		"inference": "Inference emissions cover operational energy and the manufacturing of the GPU and server used.",
		"devices":   "Device emissions follow from session length, device type and manufacturing impact.",
		"network":   "Network traffic emits through the energy used per GB and the carbon intensity of the grid.",
		"hosting":   "Hosting includes the manufacturing emissions of servers over their lifetime.",
	}
}

func trainingExplanation(result carbon.Result, training carbon.TrainingChoice, globalInferences float64) string {
	switch training {
	case carbon.ChoicePreloaded:
		if result.PerPhase.Training == 0 {
			return "No foundation model training emissions were counted."
		}
		if result.InferencesPerYear <= 0 || globalInferences <= 0 {
			return "The full training emissions of the foundation model are counted."
		}
		return fmt.Sprintf("Training emissions are allocated by this deployment's %s inferences per year "+
			"against an estimated worldwide use of %s inferences.",
			humanize(result.InferencesPerYear), humanize(globalInferences))
	case carbon.ChoiceFinetuned:
		return "Training emissions follow from the GPU hours spent fine-tuning the model."
	case carbon.ChoiceCustom:
		return "Training emissions follow from the GPU hours spent training the custom model."
	default:
		return "No training method was selected, so training counts as zero."
	}
}

// trainingChoice reads the form's training choice the way snapshot.Parse does.
// Empty is preloaded; unknown values count as none.
func trainingChoice(form snapshot.FormData) carbon.TrainingChoice {
	if strings.TrimSpace(form.Training.Choice) == "" {
		return carbon.ChoicePreloaded
	}
	choice, err := carbon.ParseTrainingChoice(form.Training.Choice)
	if err != nil {
		return ""
	}
	return choice
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
