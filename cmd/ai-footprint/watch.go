package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hcaim/ai-footprint/internal/report"
	"github.com/hcaim/ai-footprint/internal/snapshot"
	"github.com/hcaim/ai-footprint/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		input    string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recalculate a snapshot every time it is saved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, calc, err := a.engine()
			if err != nil {
				return err
			}

			w := watch.New(input, catalog, calc, debounce, a.logger)
			out := cmd.OutOrStdout()

			a.logger.Info().Str("path", input).Msg("watching snapshot, press Ctrl+C to stop")
			return w.Run(cmd.Context(), func(u watch.Update) {
				var vErr *snapshot.ValidationError
				if u.Err != nil && !errors.As(u.Err, &vErr) {
					a.logger.Error().Err(u.Err).Msg("cannot calculate snapshot")
					return
				}
				if vErr != nil {
					a.logger.Warn().Err(vErr).Msg("invalid fields count as zero")
				}

				rep := report.Build(u.Form, u.Result, report.Options{
					Warnings:         u.Parsed.Warnings,
					GlobalInferences: calc.Calibration().GlobalInferencesPerYear,
				})
				fmt.Fprintf(out, "--- %s ---\n", rep.GeneratedAt.Local().Format(time.TimeOnly))
				if err := report.RenderText(out, rep, report.RenderOptions{}); err != nil {
					a.logger.Error().Err(err).Msg("failed to write report")
				}
			})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "snapshot file to watch")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "wait this long after the last change before recalculating")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
