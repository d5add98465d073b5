package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/hcaim/ai-footprint/internal/carbon"
	"github.com/hcaim/ai-footprint/internal/greencheck"
)

// Label colors, best to worst.
var labelColors = map[carbon.EnergyLabel]lipgloss.Color{
	carbon.LabelA: lipgloss.Color("#22c55e"),
	carbon.LabelB: lipgloss.Color("#a3e635"),
	carbon.LabelC: lipgloss.Color("#facc15"),
	carbon.LabelD: lipgloss.Color("#fb923c"),
	carbon.LabelE: lipgloss.Color("#f97316"),
	carbon.LabelF: lipgloss.Color("#ef4444"),
	carbon.LabelG: lipgloss.Color("#b91c1c"),
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// phaseOrder is the display order of the phases.
var phaseOrder = []string{"training", "inference", "devices", "network", "hosting"}

// RenderOptions controls RenderText. A report with Sweep points is drawn
// with a chart of total kg per scenario.
type RenderOptions struct {
	// ChartWidth and ChartHeight default to 60 × 10.
	ChartWidth  int
	ChartHeight int
}

// RenderText writes a human-readable summary of r.
func RenderText(w io.Writer, r Report, opts RenderOptions) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("AI footprint report"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total: %s kg CO2e per year\n\n", humanizeFixed(r.Results.TotalKg, 2))

	b.WriteString(headingStyle.Render("Energy label (indicative)"))
	b.WriteString("\n")
	b.WriteString(RenderLabelStrip(r.Results.Label))
	b.WriteString("\n\n")

	b.WriteString(headingStyle.Render("Per phase"))
	b.WriteString("\n")
	b.WriteString(renderPhaseTable(r.Results))
	b.WriteString("\n")

	b.WriteString(headingStyle.Render("Equivalent to"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s car kilometres (120 g/km)\n", humanize(math.Round(r.Equivalents.CarKm)))
	fmt.Fprintf(&b, "  the yearly uptake of %s trees\n", humanize(math.Round(r.Equivalents.Trees)))
	fmt.Fprintf(&b, "  %.2f Dutch households (yearly)\n", r.Equivalents.DutchHouseholds)
	if r.Equivalents.GramsPerInference > 0 {
		fmt.Fprintf(&b, "  %.2f g CO2e per inference\n", r.Equivalents.GramsPerInference)
	}

	if r.GreenHosting != nil {
		b.WriteString("\n")
		b.WriteString(headingStyle.Render("Green hosting"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s: %s (hosted by %s)\n", r.GreenHosting.Host, greenStatusText(r.GreenHosting.Status), r.GreenHosting.HostedBy)
	}

	if len(r.Results.Skipped) > 0 || len(r.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(headingStyle.Render("Notes"))
		b.WriteString("\n")
		for _, s := range r.Results.Skipped {
			b.WriteString(warnStyle.Render(fmt.Sprintf("  %s %q skipped: %s", s.Phase, s.Key, s.Reason)))
			b.WriteString("\n")
		}
		for _, wn := range r.Warnings {
			b.WriteString(warnStyle.Render(fmt.Sprintf("  %s: %s", wn.Field, wn.Message)))
			b.WriteString("\n")
		}
	}

	if len(r.Sweep) > 0 {
		b.WriteString("\n")
		b.WriteString(headingStyle.Render("Total kg CO2e as yearly inferences scale"))
		b.WriteString("\n")
		b.WriteString(RenderSweepChart(r.Sweep, opts.ChartWidth, opts.ChartHeight))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderLabelStrip draws the A-G strip with the active label highlighted.
func RenderLabelStrip(active carbon.EnergyLabel) string {
	cells := make([]string, 0, len(carbon.EnergyLabels()))
	for _, l := range carbon.EnergyLabels() {
		style := lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#ffffff")).
			Background(labelColors[l])
		text := string(l)
		if l == active {
			style = style.Bold(true).Underline(true)
			text = "[" + text + "]"
		}
		cells = append(cells, style.Render(text))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// RenderSweepChart plots the total of each sweep point.
func RenderSweepChart(points []SweepPoint, width, height int) string {
	if len(points) == 0 {
		return mutedStyle.Render("No data available")
	}
	if width < 20 {
		width = 60
	}
	if height < 3 {
		height = 10
	}

	data := make([]float64, len(points))
	for i, p := range points {
		data[i] = p.TotalKg
	}
	if len(data) == 1 {
		data = append(data, data[0])
	}

	first, last := points[0], points[len(points)-1]
	caption := fmt.Sprintf("%s to %s inferences/year (%sx to %sx)",
		humanize(first.InferencesPerYear), humanize(last.InferencesPerYear),
		strconv.FormatFloat(first.Factor, 'f', -1, 64), strconv.FormatFloat(last.Factor, 'f', -1, 64))

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

func renderPhaseTable(res carbon.Result) string {
	values := map[string]float64{
		"training":  res.PerPhase.Training,
		"inference": res.PerPhase.Inference,
		"devices":   res.PerPhase.Devices,
		"network":   res.PerPhase.Network,
		"hosting":   res.PerPhase.Hosting,
	}

	var b strings.Builder
	for _, phase := range phaseOrder {
		v := values[phase]
		var share float64
		if res.TotalKg > 0 {
			share = v / res.TotalKg * 100
		}
		fmt.Fprintf(&b, "  %-10s %14s kg  %6.2f%%\n", phase, humanizeFixed(v, 2), share)
	}
	if res.PerPhase.Inference > 0 {
		d := res.PerPhaseDetails
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  inference: %s operational, %s GPU, %s server",
			humanizeFixed(d.InferenceOperational, 2), humanizeFixed(d.InferenceEmbeddedGPU, 2), humanizeFixed(d.InferenceEmbeddedServer, 2))))
		b.WriteString("\n")
	}
	return b.String()
}

func greenStatusText(s greencheck.Status) string {
	switch s {
	case greencheck.StatusGreen:
		return "green energy"
	case greencheck.StatusNotGreen:
		return "no green energy"
	default:
		return "unknown"
	}
}

// humanize formats v rounded to an integer with thousands separators.
func humanize(v float64) string {
	return humanizeFixed(v, 0)
}

// humanizeFixed formats v with prec decimals and thousands separators.
func humanizeFixed(v float64, prec int) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', prec, 64)
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	if v < 0 && s != strconv.FormatFloat(0, 'f', prec, 64) {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
