package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hcaim/ai-footprint/internal/apperr"
	"github.com/hcaim/ai-footprint/internal/carbon"
	"github.com/hcaim/ai-footprint/internal/report"
)

func newLabelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "label <kg>",
		Short: "Show the energy label for a yearly total in kg CO2e",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kg, err := parseKg(args[0])
			if err != nil {
				return err
			}

			catalog, err := a.loadCatalog()
			if err != nil {
				return err
			}
			thresholds := catalog.Calibration().LabelThresholdsKg

			label := carbon.ClassifyEnergyLabelWith(kg, thresholds)
			lower, upper, err := carbon.LabelRange(label, thresholds)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.RenderLabelStrip(label))
			if upper < 0 {
				_, err = fmt.Fprintf(out, "%g kg CO2e/year is label %s (more than %g kg)\n", kg, label, lower)
			} else {
				_, err = fmt.Fprintf(out, "%g kg CO2e/year is label %s (%g to %g kg)\n", kg, label, lower, upper)
			}
			return err
		},
	}
}

// parseKg accepts a non-negative decimal with a point or a comma.
func parseKg(s string) (float64, error) {
	kg, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil || math.IsNaN(kg) || math.IsInf(kg, 0) {
		return 0, apperr.Userf("invalid weight %q: not a number", s)
	}
	if kg < 0 {
		return 0, apperr.Userf("invalid weight %q: must not be negative", s)
	}
	return kg, nil
}
