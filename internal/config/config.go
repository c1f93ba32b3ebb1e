// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the scenario file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/iwvelando/refi-calculator/pkg/constants"
	"github.com/iwvelando/refi-calculator/pkg/mathutil"
	"github.com/iwvelando/refi-calculator/pkg/refinance"
	"github.com/iwvelando/refi-calculator/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FREDAPIKeyEnv is the conventional variable holding a FRED API key. It is
// consulted when the market section does not set one.
const FREDAPIKeyEnv = "FRED_API_KEY"

// Configuration holds all configuration for refi-calculator.
type Configuration struct {
	Scenario    ScenarioConfig    `yaml:"scenario" mapstructure:"scenario"`
	Sensitivity SensitivityConfig `yaml:"sensitivity,omitempty" mapstructure:"sensitivity"`
	Holding     HoldingConfig     `yaml:"holding,omitempty" mapstructure:"holding"`
	RateSearch  RateSearchConfig  `yaml:"rateSearch,omitempty" mapstructure:"rateSearch"`
	Market      MarketConfig      `yaml:"market,omitempty" mapstructure:"market"`
	Logging     LoggingConfig     `yaml:"logging,omitempty" mapstructure:"logging"`
	Output      OutputConfig      `yaml:"output,omitempty" mapstructure:"output"`
}

// ScenarioConfig is the scenario as a user writes it: rates in percent.
type ScenarioConfig struct {
	CurrentBalance        float64 `yaml:"currentBalance" mapstructure:"currentBalance"`
	CurrentRate           float64 `yaml:"currentRate" mapstructure:"currentRate"`
	CurrentRemainingYears float64 `yaml:"currentRemainingYears" mapstructure:"currentRemainingYears"`
	NewRate               float64 `yaml:"newRate" mapstructure:"newRate"`
	NewTermYears          float64 `yaml:"newTermYears" mapstructure:"newTermYears"`
	ClosingCosts          float64 `yaml:"closingCosts" mapstructure:"closingCosts"`
	CashOut               float64 `yaml:"cashOut" mapstructure:"cashOut"`
	OpportunityRate       float64 `yaml:"opportunityRate" mapstructure:"opportunityRate"`
	MarginalTaxRate       float64 `yaml:"marginalTaxRate" mapstructure:"marginalTaxRate"`
	NPVWindowYears        int     `yaml:"npvWindowYears" mapstructure:"npvWindowYears"`
	ChartHorizonYears     int     `yaml:"chartHorizonYears" mapstructure:"chartHorizonYears"`
	MaintainPayment       bool    `yaml:"maintainPayment" mapstructure:"maintainPayment"`
}

// SensitivityConfig controls the rate sweep, in percentage points.
type SensitivityConfig struct {
	MaxReduction float64 `yaml:"maxReduction" mapstructure:"maxReduction"`
	Step         float64 `yaml:"step" mapstructure:"step"`
}

// HoldingConfig controls the holding-period sweep and its recommendation policy.
type HoldingConfig struct {
	Periods                 []int   `yaml:"periods" mapstructure:"periods"`
	MarginalBand            float64 `yaml:"marginalBand" mapstructure:"marginalBand"`
	StrongBreakevenMultiple float64 `yaml:"strongBreakevenMultiple" mapstructure:"strongBreakevenMultiple"`
}

// MarketConfig holds the historical mortgage-rate source settings.
type MarketConfig struct {
	APIKey          string `yaml:"apiKey,omitempty" mapstructure:"apiKey"`
	BaseURL         string `yaml:"baseURL,omitempty" mapstructure:"baseURL"`
	CacheTTLSeconds int    `yaml:"cacheTTLSeconds,omitempty" mapstructure:"cacheTTLSeconds"`
	TimeoutSeconds  int    `yaml:"timeoutSeconds,omitempty" mapstructure:"timeoutSeconds"`
	RefreshSchedule string `yaml:"refreshSchedule,omitempty" mapstructure:"refreshSchedule"`
	RedisAddr       string `yaml:"redisAddr,omitempty" mapstructure:"redisAddr"`
	RedisPassword   string `yaml:"redisPassword,omitempty" mapstructure:"redisPassword"`
	RedisDB         int    `yaml:"redisDB,omitempty" mapstructure:"redisDB"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// LoadDotenv loads environment variables from path when the file exists.
// Variables already present in the environment win.
func LoadDotenv(path string) error {
	if path == "" {
		path = constants.DefaultDotenvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Settings missing from the file take their defaults
// and any setting can be overridden by a REFI_ environment variable, e.g.
// REFI_SCENARIO_NEWRATE=5.5.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader parses a YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}
	return decode(v)
}

// Default returns the configuration used when no file is given.
func Default() *Configuration {
	conf, err := decode(newViper())
	if err != nil {
		// Defaults always decode.
		panic(err)
	}
	return conf
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scenario.currentBalance", constants.DefaultCurrentBalance)
	v.SetDefault("scenario.currentRate", constants.DefaultCurrentRatePct)
	v.SetDefault("scenario.currentRemainingYears", constants.DefaultCurrentRemainingYears)
	v.SetDefault("scenario.newRate", constants.DefaultNewRatePct)
	v.SetDefault("scenario.newTermYears", constants.DefaultNewTermYears)
	v.SetDefault("scenario.closingCosts", constants.DefaultClosingCosts)
	v.SetDefault("scenario.cashOut", constants.DefaultCashOut)
	v.SetDefault("scenario.opportunityRate", constants.DefaultOpportunityRatePct)
	v.SetDefault("scenario.marginalTaxRate", constants.DefaultMarginalTaxRatePct)
	v.SetDefault("scenario.npvWindowYears", constants.DefaultNPVWindowYears)
	v.SetDefault("scenario.chartHorizonYears", constants.DefaultChartHorizonYears)
	v.SetDefault("scenario.maintainPayment", false)

	v.SetDefault("sensitivity.maxReduction", constants.DefaultSensitivityMaxReductionPct)
	v.SetDefault("sensitivity.step", constants.DefaultSensitivityStepPct)

	v.SetDefault("holding.periods", constants.DefaultHoldingPeriods)
	v.SetDefault("holding.marginalBand", constants.DefaultMarginalBand)
	v.SetDefault("holding.strongBreakevenMultiple", constants.DefaultStrongBreakevenMultiple)

	v.SetDefault("rateSearch.tolerance", constants.DefaultRateSearchTolerance)
	v.SetDefault("rateSearch.maxIterations", constants.DefaultRateSearchMaxIterations)
	v.SetDefault("rateSearch.ceilingSpread", mathutil.DecimalToPercent(constants.DefaultRateSearchCeilingSpread))

	v.SetDefault("market.apiKey", "")
	v.SetDefault("market.baseURL", constants.DefaultFREDBaseURL)
	v.SetDefault("market.cacheTTLSeconds", constants.DefaultMarketCacheTTLSeconds)
	v.SetDefault("market.timeoutSeconds", constants.DefaultMarketTimeoutSeconds)
	v.SetDefault("market.refreshSchedule", constants.DefaultMarketRefreshSchedule)
	v.SetDefault("market.redisAddr", "")
	v.SetDefault("market.redisPassword", "")
	v.SetDefault("market.redisDB", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")

	v.SetDefault("output.format", constants.OutputFormatPretty)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	if configuration.Market.APIKey == "" {
		configuration.Market.APIKey = os.Getenv(FREDAPIKeyEnv)
	}
	configuration.RateSearch.Normalize()
	return &configuration, nil
}

// ToScenario converts the percent-based file representation into the
// fractional scenario the calculations use.
func (s ScenarioConfig) ToScenario() refinance.Scenario {
	return refinance.Scenario{
		CurrentBalance:        s.CurrentBalance,
		CurrentRate:           mathutil.PercentToDecimal(s.CurrentRate),
		CurrentRemainingYears: s.CurrentRemainingYears,
		NewRate:               mathutil.PercentToDecimal(s.NewRate),
		NewTermYears:          s.NewTermYears,
		ClosingCosts:          s.ClosingCosts,
		CashOut:               s.CashOut,
		OpportunityRate:       mathutil.PercentToDecimal(s.OpportunityRate),
		MarginalTaxRate:       mathutil.PercentToDecimal(s.MarginalTaxRate),
		NPVWindowYears:        s.NPVWindowYears,
		ChartHorizonYears:     s.ChartHorizonYears,
		MaintainPayment:       s.MaintainPayment,
	}
}

// FromScenario is the inverse of ToScenario.
func FromScenario(s refinance.Scenario) ScenarioConfig {
	return ScenarioConfig{
		CurrentBalance:        s.CurrentBalance,
		CurrentRate:           mathutil.DecimalToPercent(s.CurrentRate),
		CurrentRemainingYears: s.CurrentRemainingYears,
		NewRate:               mathutil.DecimalToPercent(s.NewRate),
		NewTermYears:          s.NewTermYears,
		ClosingCosts:          s.ClosingCosts,
		CashOut:               s.CashOut,
		OpportunityRate:       mathutil.DecimalToPercent(s.OpportunityRate),
		MarginalTaxRate:       mathutil.DecimalToPercent(s.MarginalTaxRate),
		NPVWindowYears:        s.NPVWindowYears,
		ChartHorizonYears:     s.ChartHorizonYears,
		MaintainPayment:       s.MaintainPayment,
	}
}

// RefinanceScenario returns the configured scenario in fractional units.
func (c *Configuration) RefinanceScenario() refinance.Scenario {
	return c.Scenario.ToScenario()
}

// Thresholds returns the configured recommendation policy.
func (c *Configuration) Thresholds() refinance.Thresholds {
	return refinance.Thresholds{
		MarginalBand:            c.Holding.MarginalBand,
		StrongBreakevenMultiple: c.Holding.StrongBreakevenMultiple,
	}
}

// RateSteps returns the candidate rates of the sensitivity sweep.
func (c *Configuration) RateSteps() []float64 {
	return refinance.BuildRateSteps(c.Scenario.CurrentRate, c.Sensitivity.MaxReduction, c.Sensitivity.Step)
}

// ValidateConfiguration checks the whole configuration. Hard failures are
// returned as an error; questionable but usable settings come back as
// warnings.
func (c *Configuration) ValidateConfiguration() ([]string, error) {
	warnings, err := validation.ValidateScenario(c.RefinanceScenario())
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if err := validation.ValidateSensitivity(c.Sensitivity.MaxReduction, c.Sensitivity.Step); err != nil {
		return nil, err
	}
	if err := validation.ValidateHoldingPeriods(c.Holding.Periods); err != nil {
		return nil, err
	}
	if err := validation.ValidateThresholds(c.Thresholds()); err != nil {
		return nil, err
	}
	if err := c.RateSearch.Validate(); err != nil {
		return nil, err
	}
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return nil, err
	}

	if c.Sensitivity.MaxReduction >= c.Scenario.CurrentRate {
		warnings = append(warnings, fmt.Sprintf(
			"sensitivity max reduction %.3f%% reaches the current rate; steps at or below 0%% are skipped",
			c.Sensitivity.MaxReduction))
	}
	if steps := int(c.Sensitivity.MaxReduction/c.Sensitivity.Step + constants.RateStepSlack); steps > constants.MaxSensitivitySteps {
		warnings = append(warnings, fmt.Sprintf(
			"sensitivity sweep limited to %d steps (%d requested)", constants.MaxSensitivitySteps, steps))
	}
	if c.Market.RedisAddr != "" && c.Market.CacheTTLSeconds <= 0 {
		warnings = append(warnings, "market cache TTL is not positive; cached rates expire immediately")
	}
	return warnings, nil
}
