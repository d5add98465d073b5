package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/hcaim/ai-footprint/internal/apperr"
	"github.com/hcaim/ai-footprint/internal/refdata"
)

const (
	tableModels      = "models"
	tableDatacenters = "datacenters"
	tableTasks       = "tasks"
	tableDevices     = "devices"
	tableCalibration = "calibration"
)

var refdataTables = []string{tableModels, tableDatacenters, tableTasks, tableDevices, tableCalibration}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newRefdataCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refdata",
		Short: "Inspect the reference data used by the calculations",
	}
	cmd.AddCommand(newRefdataListCmd(a), newRefdataValidateCmd(a))
	return cmd
}

func newRefdataListCmd(a *app) *cobra.Command {
	var (
		format   string
		provider string
	)

	cmd := &cobra.Command{
		Use:       "list <models|datacenters|tasks|devices|calibration>",
		Short:     "Print one reference table",
		Args:      cobra.ExactArgs(1),
		ValidArgs: refdataTables,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatText && format != formatJSON {
				return apperr.Userf("invalid --format %q (expected text|json)", format)
			}
			catalog, err := a.loadCatalog()
			if err != nil {
				return err
			}

			var p refdata.CloudProvider
			if provider != "" {
				if p, err = refdata.ParseCloudProvider(provider); err != nil {
					return apperr.Wrap(err, "invalid --provider")
				}
			}

			headers, rows, data, err := refdataTable(catalog, args[0], p)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == formatJSON {
				return writeIndentedJSON(out, data)
			}
			_, err = fmt.Fprintln(out, renderTable(headers, rows))
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text|json")
	cmd.Flags().StringVar(&provider, "provider", "", "only list datacenters of this provider (e.g. gcp)")

	return cmd
}

func newRefdataValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the reference data for missing or out-of-range values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.loadCatalog()
			if err != nil {
				return err
			}
			if err := catalog.Validate(); err != nil {
				return apperr.Wrap(err, "reference data is invalid")
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "reference data OK: %d models, %d datacenters, %d tasks, %d device categories\n",
				len(catalog.Models()), len(catalog.Datacenters("")), len(catalog.Tasks()), len(refdata.DeviceCategories()))
			return err
		},
	}
}

// refdataTable returns the rows of one table for text output and the typed
// records for JSON output.
func refdataTable(c *refdata.Catalog, name string, provider refdata.CloudProvider) ([]string, [][]string, any, error) {
	switch name {
	case tableModels:
		models := c.Models()
		rows := make([][]string, 0, len(models))
		for _, m := range models {
			rows = append(rows, []string{m.Name, num(m.TotalCO2Kg)})
		}
		return []string{"Model", "Training kg CO2e"}, rows, models, nil

	case tableDatacenters:
		dcs := c.Datacenters(provider)
		rows := make([][]string, 0, len(dcs))
		for _, dc := range dcs {
			rows = append(rows, []string{dc.Provider.DisplayName(), dc.Region, dc.Country, num(dc.PUE), num(dc.CarbonIntensityGPerKWh)})
		}
		return []string{"Provider", "Region", "Country", "PUE", "g CO2e/kWh"}, rows, dcs, nil

	case tableTasks:
		tasks := c.Tasks()
		rows := make([][]string, 0, len(tasks))
		for _, t := range tasks {
			rows = append(rows, []string{t.ID, t.DisplayName, num(t.EnergyPerInferenceKWh)})
		}
		return []string{"Task", "Name", "kWh/inference"}, rows, tasks, nil

	case tableDevices:
		type deviceRow struct {
			Category refdata.DeviceCategory `json:"category"`
			refdata.DeviceSpec
		}
		var (
			rows [][]string
			data []deviceRow
		)
		for _, cat := range refdata.DeviceCategories() {
			spec, err := c.Device(cat)
			if err != nil {
				continue
			}
			rows = append(rows, []string{cat.Label(), num(spec.PowerWatts), num(spec.EmbeddedCO2Kg), num(spec.LifetimeYears)})
			data = append(data, deviceRow{Category: cat, DeviceSpec: spec})
		}
		return []string{"Device", "Watts", "Embedded kg CO2e", "Lifetime (years)"}, rows, data, nil

	case tableCalibration:
		cal := c.Calibration()
		rows := [][]string{
			{"gpu_embodied_grams", num(cal.GPUEmbodiedGrams)},
			{"server_embodied_grams", num(cal.ServerEmbodiedGrams)},
			{"hardware_lifetime_years", num(cal.HardwareLifetimeYears)},
			{"server_workload_share", num(cal.ServerWorkloadShare)},
			{"kg_co2_per_gpu_hour", num(cal.KgCO2PerGPUHour)},
			{"global_inferences_per_year", num(cal.GlobalInferencesPerYear)},
			{"device_workday_minutes", num(cal.DeviceWorkdayMinutes)},
			{"default_grid_intensity_g_per_kwh", num(cal.DefaultGridIntensity)},
			{"network_kwh_per_gb", num(cal.NetworkKWhPerGB)},
			{"hosting_kwh_per_visit", num(cal.HostingKWhPerVisit)},
			{"default_grams_per_visit", num(cal.DefaultGramsPerVisit)},
		}
		for i, t := range cal.LabelThresholdsKg {
			rows = append(rows, []string{fmt.Sprintf("label_threshold_%d_kg", i+1), num(t)})
		}
		return []string{"Coefficient", "Value"}, rows, cal, nil
	}

	return nil, nil, nil, apperr.Userf("unknown table %q (expected one of %v)", name, refdataTables)
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

func writeIndentedJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
