package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hcaim/ai-footprint/internal/apperr"
	"github.com/hcaim/ai-footprint/internal/report"
	"github.com/hcaim/ai-footprint/internal/snapshot"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type calculateOptions struct {
	input      string
	format     string
	output     string
	sweep      bool
	greenCheck bool
}

func newCalculateCmd(a *app) *cobra.Command {
	var opts calculateOptions

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate the yearly footprint of a form snapshot",
		Long: `Reads a form snapshot (JSON or YAML, or a previous JSON export) and prints the
footprint per phase, the energy label and everyday equivalents.`,
		Example: `  ai-footprint calculate -i snapshot.json
  ai-footprint calculate -i snapshot.yaml --format json -o report.json --sweep`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("green-check") {
				opts.greenCheck = a.cfg.GreenCheck.Enabled
			}
			return a.runCalculate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "snapshot file (.json, .yaml or .yml)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format: text|json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the report to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.sweep, "sweep", false, "add totals for 0.25x to 4x the yearly inferences")
	cmd.Flags().BoolVar(&opts.greenCheck, "green-check", false, "look up whether the hosting host runs on green energy")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (a *app) runCalculate(cmd *cobra.Command, opts calculateOptions) error {
	if opts.format != formatText && opts.format != formatJSON {
		return apperr.Userf("invalid --format %q (expected text|json)", opts.format)
	}

	form, err := snapshot.Read(opts.input)
	if err != nil {
		return apperr.Wrap(err, "failed to read snapshot")
	}

	catalog, calc, err := a.engine()
	if err != nil {
		return err
	}

	parsed, err := snapshot.Parse(form, catalog)
	if err != nil {
		return apperr.Wrap(err, opts.input)
	}
	for _, w := range parsed.Warnings {
		a.logger.Warn().Str("field", w.Field).Msg(w.Message)
	}

	result := calc.Calculate(parsed.Input)

	buildOpts := report.Options{
		Details:          calc.GetBillingDetail(parsed.Input),
		Warnings:         parsed.Warnings,
		GlobalInferences: calc.Calibration().GlobalInferencesPerYear,
	}
	if opts.sweep {
		buildOpts.Sweep = report.Sweep(calc, parsed.Input, nil)
	}
	if opts.greenCheck && form.Hosting.Online && form.Hosting.Host != "" {
		green := a.greenChecker().Check(cmd.Context(), form.Hosting.Host)
		buildOpts.Green = &green
	}

	rep := report.Build(form, result, buildOpts)

	a.logger.Info().
		Str("report_id", rep.ID.String()).
		Float64("total_kg", result.TotalKg).
		Str("label", string(result.Label)).
		Msg("footprint calculated")

	return writeOutput(cmd.OutOrStdout(), opts.output, func(w io.Writer) error {
		if opts.format == formatJSON {
			return report.WriteJSON(w, rep)
		}
		return report.RenderText(w, rep, report.RenderOptions{})
	})
}

// writeOutput calls write with stdout, or with the file at path when set.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) (err error) {
	if path == "" {
		return write(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return write(f)
}
