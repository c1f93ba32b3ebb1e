package cli

import (
	"fmt"
	"io"

	"github.com/iwvelando/refi-calculator/internal/forecast"
	"github.com/iwvelando/refi-calculator/pkg/constants"
	"github.com/iwvelando/refi-calculator/pkg/loans"
	"github.com/iwvelando/refi-calculator/pkg/optimization"
	"github.com/iwvelando/refi-calculator/pkg/output"
	"github.com/iwvelando/refi-calculator/pkg/refinance"
	"github.com/spf13/cobra"
)

// runForecast loads the session and computes the forecast for a command.
func (o *rootOptions) runForecast(cmd *cobra.Command, opts forecast.Options) (*session, forecast.Forecast, error) {
	sess, err := o.newSession(cmd)
	if err != nil {
		return nil, forecast.Forecast{}, err
	}
	result, err := forecast.GetForecast(sess.logger, *sess.conf, opts)
	if err != nil {
		sess.close()
		return nil, forecast.Forecast{}, err
	}
	return sess, result, nil
}

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var rateSearch bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the configured refinance scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, result, err := opts.runForecast(cmd, forecast.Options{RateSearch: rateSearch})
			if err != nil {
				return err
			}
			defer sess.close()
			return writeAnalysis(cmd.OutOrStdout(), sess.format, result)
		},
	}
	cmd.Flags().BoolVar(&rateSearch, "rate-search", false, "also search for the break-even refinance rate")
	return cmd
}

func writeAnalysis(w io.Writer, format string, result forecast.Forecast) error {
	switch format {
	case constants.OutputFormatCSV:
		return output.WriteSummaryCSV(w, result.Analysis)
	case constants.OutputFormatJSON:
		return output.JSON(w, struct {
			Scenario   refinance.Scenario    `json:"scenario"`
			Analysis   refinance.Analysis    `json:"analysis"`
			RateSearch *optimization.Summary `json:"rateSearch,omitempty"`
			Warnings   []string              `json:"warnings,omitempty"`
		}{result.Scenario, result.Analysis, result.RateSearch, result.Warnings})
	}

	output.PrettyAnalysis(w, result.Scenario, result.Analysis)
	if result.RateSearch != nil {
		_, _ = fmt.Fprintln(w)
		output.PrettyRateSearch(w, *result.RateSearch)
	}
	for _, warning := range result.Warnings {
		_, _ = fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	return nil
}

func newSensitivityCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sensitivity",
		Short: "Sweep the new rate below the current rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, result, err := opts.runForecast(cmd, forecast.Options{})
			if err != nil {
				return err
			}
			defer sess.close()

			w := cmd.OutOrStdout()
			switch sess.format {
			case constants.OutputFormatCSV:
				return output.WriteSensitivityCSV(w, result.Sensitivity)
			case constants.OutputFormatJSON:
				return output.JSON(w, result.Sensitivity)
			}
			output.PrettySensitivity(w, result.Sensitivity, result.Scenario.NPVWindowYears)
			return nil
		},
	}
}

func newHoldingCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "holding",
		Short: "Evaluate the refinance over several holding periods",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, result, err := opts.runForecast(cmd, forecast.Options{})
			if err != nil {
				return err
			}
			defer sess.close()

			w := cmd.OutOrStdout()
			switch sess.format {
			case constants.OutputFormatCSV:
				return output.WriteHoldingCSV(w, result.Holding)
			case constants.OutputFormatJSON:
				return output.JSON(w, result.Holding)
			}
			output.PrettyHolding(w, result.Holding)
			return nil
		},
	}
}

func newScheduleCmd(opts *rootOptions) *cobra.Command {
	var monthly bool
	var loan string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show the amortization schedules",
		Long: `Without --monthly, prints the year-by-year comparison of the current and
new loans. With --monthly, prints the monthly schedule of one loan.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if loan != "new" && loan != "current" {
				return fmt.Errorf("invalid loan %q: must be new or current", loan)
			}

			sess, result, err := opts.runForecast(cmd, forecast.Options{})
			if err != nil {
				return err
			}
			defer sess.close()

			w := cmd.OutOrStdout()
			if !monthly {
				switch sess.format {
				case constants.OutputFormatCSV:
					return output.WriteAmortizationCSV(w, result.Comparison)
				case constants.OutputFormatJSON:
					return output.JSON(w, result.Comparison)
				}
				output.PrettyComparison(w, result.Comparison)
				return nil
			}

			rows := result.NewSchedule
			if loan == "current" {
				rows = result.CurrentSchedule
			}
			return writeMonthly(w, sess.format, rows)
		},
	}
	cmd.Flags().BoolVar(&monthly, "monthly", false, "print a monthly schedule instead of the yearly comparison")
	cmd.Flags().StringVar(&loan, "loan", "new", "loan for the monthly schedule: new or current")
	return cmd
}

func writeMonthly(w io.Writer, format string, rows []loans.AmortizationRow) error {
	switch format {
	case constants.OutputFormatCSV:
		return output.WriteScheduleCSV(w, rows)
	case constants.OutputFormatJSON:
		return output.JSON(w, rows)
	}
	output.PrettySchedule(w, rows)
	return nil
}
