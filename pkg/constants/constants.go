// Package constants provides shared constants for the refi-calculator application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// MaxPayoffMonths bounds the accelerated payoff simulation (100 years).
	MaxPayoffMonths = 1200
)

// Scenario defaults mirror the values a user sees before editing any input.
// Rates are expressed in percent, as they appear in configuration files.
const (
	DefaultCurrentBalance        = 400000.0
	DefaultCurrentRatePct        = 6.5
	DefaultCurrentRemainingYears = 25.0
	DefaultNewRatePct            = 5.75
	DefaultNewTermYears          = 30.0
	DefaultClosingCosts          = 8000.0
	DefaultCashOut               = 0.0
	DefaultOpportunityRatePct    = 5.0
	DefaultMarginalTaxRatePct    = 0.0
	DefaultNPVWindowYears        = 5
	DefaultChartHorizonYears     = 10
)

// Sensitivity sweep defaults (percent).
const (
	DefaultSensitivityMaxReductionPct = 2.5
	DefaultSensitivityStepPct         = 0.125

	// MaxSensitivitySteps caps the number of generated trial rates.
	MaxSensitivitySteps = 20

	// RateStepSlack absorbs float drift when accumulating step reductions.
	RateStepSlack = 0.001
)

// DefaultHoldingPeriods are the holding durations (years) evaluated by default.
var DefaultHoldingPeriods = []int{1, 2, 3, 4, 5, 6, 7, 8, 10, 12, 15, 20}

// Recommendation policy defaults.
const (
	// DefaultMarginalBand is the absolute NPV band around zero labelled "Marginal".
	DefaultMarginalBand = 500.0

	// DefaultStrongBreakevenMultiple is how many breakeven periods a holding
	// period must span to earn "Strong Yes".
	DefaultStrongBreakevenMultiple = 2.0
)

// Recommendation labels.
const (
	RecommendationStrongYes = "Strong Yes"
	RecommendationYes       = "Yes"
	RecommendationMarginal  = "Marginal"
	RecommendationNo        = "No"
)

// Break-even rate search defaults.
const (
	DefaultRateSearchTolerance     = 0.00001
	DefaultRateSearchMaxIterations = 60
	// DefaultRateSearchCeilingSpread is added to the current rate to form the
	// upper search bound.
	DefaultRateSearchCeilingSpread = 0.05
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default scenario configuration file name
	DefaultConfigFile = "refi.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultDotenvFile is loaded, when present, before configuration is read
	DefaultDotenvFile = ".env"

	// EnvPrefix namespaces environment overrides (REFI_SCENARIO_NEWRATE etc.)
	EnvPrefix = "REFI"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)

// Market data defaults
const (
	// DefaultFREDBaseURL is the FRED observations endpoint.
	DefaultFREDBaseURL = "https://api.stlouisfed.org/fred/series/observations"

	// DefaultMarketCacheTTLSeconds is how long fetched series stay cached (15 minutes).
	DefaultMarketCacheTTLSeconds = 15 * 60

	// DefaultMarketRefreshSchedule warms the cache in server mode.
	DefaultMarketRefreshSchedule = "@every 15m"

	// DefaultMarketTimeoutSeconds bounds a single FRED request.
	DefaultMarketTimeoutSeconds = 10

	// MarketDateLayout is the observation date format used by FRED.
	MarketDateLayout = "2006-01-02"
)
