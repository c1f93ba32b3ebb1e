package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/iwvelando/refi-calculator/internal/forecast"
	"github.com/iwvelando/refi-calculator/pkg/output"
	"github.com/iwvelando/refi-calculator/pkg/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF report of the scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, result, err := opts.runForecast(cmd, forecast.Options{})
			if err != nil {
				return err
			}
			defer sess.close()

			now := time.Now()
			pdfBytes, err := report.GeneratePDF(result.ReportInput(now))
			if err != nil {
				return err
			}

			path := outPath
			if path == "" {
				path = output.ExportFilename("report", "pdf", now)
			}
			if err := os.WriteFile(path, pdfBytes, 0644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}

			sess.logger.Info("report written",
				zap.String("op", "cli.report"),
				zap.String("path", path),
				zap.Int("bytes", len(pdfBytes)),
			)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default refi_report_<timestamp>.pdf)")
	return cmd
}
