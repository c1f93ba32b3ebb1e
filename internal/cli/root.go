// Package cli implements the refi-calculator command tree.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/iwvelando/refi-calculator/internal/config"
	"github.com/iwvelando/refi-calculator/pkg/constants"
	"github.com/iwvelando/refi-calculator/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath   string
	envFile      string
	logLevel     string
	outputFormat string
}

// session is what every subcommand starts from.
type session struct {
	conf   *config.Configuration
	logger *zap.Logger
	format string
}

func newRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "refi-calculator",
		Short: "Mortgage refinance breakeven and NPV calculator",
		Long: `refi-calculator compares keeping a current mortgage against refinancing it.

It reports payments, simple and NPV breakevens, total interest, after-tax
figures, rate sensitivity, holding-period recommendations and amortization
schedules for the scenario in the configuration file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", constants.DefaultConfigFile, "path to scenario configuration file")
	flags.StringVar(&opts.envFile, "env-file", constants.DefaultDotenvFile, "dotenv file loaded before the configuration")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVarP(&opts.outputFormat, "output-format", "o", "", "type of output override: pretty, csv, json")

	rootCmd.AddCommand(newAnalyzeCmd(opts))
	rootCmd.AddCommand(newSensitivityCmd(opts))
	rootCmd.AddCommand(newHoldingCmd(opts))
	rootCmd.AddCommand(newScheduleCmd(opts))
	rootCmd.AddCommand(newRateSearchCmd(opts))
	rootCmd.AddCommand(newReportCmd(opts))
	rootCmd.AddCommand(newMarketCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts, version))
	rootCmd.AddCommand(newVersionCmd(version))

	return rootCmd
}

// Execute runs the root command
func Execute(version string) error {
	if err := newRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// loadConfiguration reads the scenario file. A missing file at the default
// location means the built-in defaults; an explicitly named file must exist.
func (o *rootOptions) loadConfiguration(cmd *cobra.Command) (*config.Configuration, error) {
	if err := config.LoadDotenv(o.envFile); err != nil {
		return nil, err
	}

	if _, err := os.Stat(o.configPath); err != nil {
		explicit := cmd.Flags().Changed("config")
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("failed to load configuration at %s: %w", o.configPath, err)
	}

	conf, err := config.LoadConfiguration(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", o.configPath, err)
	}
	return conf, nil
}

func (o *rootOptions) newSession(cmd *cobra.Command) (*session, error) {
	conf, err := o.loadConfiguration(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := initializeLogger(conf.Logging, o.logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// CLI override takes precedence over config
	format := conf.Output.Format
	if o.outputFormat != "" {
		format = o.outputFormat
	}
	if format == "" {
		format = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(format); err != nil {
		_ = logger.Sync()
		return nil, err
	}
	conf.Output.Format = format

	return &session{conf: conf, logger: logger, format: format}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}
