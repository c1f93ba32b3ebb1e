package cli

import (
	"fmt"

	"github.com/iwvelando/refi-calculator/pkg/constants"
	"github.com/iwvelando/refi-calculator/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRateSearchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ratesearch",
		Short: "Find the highest new rate that still pays off within the NPV window",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.close()

			if sess.format == constants.OutputFormatCSV {
				return fmt.Errorf("%s output is not supported by ratesearch", sess.format)
			}

			warnings, err := sess.conf.ValidateConfiguration()
			if err != nil {
				return err
			}
			for _, warning := range warnings {
				sess.logger.Warn("Configuration warning: "+warning,
					zap.String("op", "cli.ratesearch"),
				)
			}

			summary, err := sess.conf.RateSearch.NewSearcher(sess.logger).Search(sess.conf.RefinanceScenario())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if sess.format == constants.OutputFormatJSON {
				return output.JSON(w, summary)
			}
			output.PrettyRateSearch(w, summary)
			return nil
		},
	}
}
