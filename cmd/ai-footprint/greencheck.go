package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hcaim/ai-footprint/internal/apperr"
	"github.com/hcaim/ai-footprint/internal/greencheck"
)

func newGreenCheckCmd(a *app) *cobra.Command {
	var (
		timeout time.Duration
		format  string
	)

	cmd := &cobra.Command{
		Use:   "greencheck <host>",
		Short: "Check whether a website is hosted on green energy",
		Example: `  ai-footprint greencheck www.example.nl
  ai-footprint greencheck https://www.example.nl/contact --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatText && format != formatJSON {
				return apperr.Userf("invalid --format %q (expected text|json)", format)
			}
			if _, err := greencheck.NormalizeHost(args[0]); err != nil {
				return apperr.Wrap(err, "invalid host")
			}
			if cmd.Flags().Changed("timeout") {
				a.cfg.GreenCheck.Timeout = timeout
			}

			res := a.greenChecker().Check(cmd.Context(), args[0])

			out := cmd.OutOrStdout()
			if format == formatJSON {
				return writeIndentedJSON(out, res)
			}
			_, err := fmt.Fprintln(out, greenStatusLine(res))
			return err
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", greencheck.DefaultTimeout, "request timeout")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text|json")

	return cmd
}

// greenStatusLine describes one green check result on a single line.
func greenStatusLine(r greencheck.Result) string {
	switch r.Status {
	case greencheck.StatusGreen:
		return fmt.Sprintf("%s is hosted on green energy by %s", r.Host, r.HostedBy)
	case greencheck.StatusNotGreen:
		return fmt.Sprintf("%s is not hosted on green energy (hosted by %s)", r.Host, r.HostedBy)
	default:
		if r.Err != "" {
			return fmt.Sprintf("%s: green hosting status unknown (%s)", r.Host, r.Err)
		}
		return fmt.Sprintf("%s: green hosting status unknown", r.Host)
	}
}
