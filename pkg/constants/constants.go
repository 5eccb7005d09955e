// Package constants provides shared constants for the debt-roadmap application.
package constants

// DateTimeLayout is the year-month format used for anchors in config files and
// on the command line.
const DateTimeLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// DefaultMaxMonths is the simulation horizon used when none is supplied (30 years)
	DefaultMaxMonths = 360

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// DefaultCurrencySymbol prefixes amounts in human-readable output
	DefaultCurrencySymbol = "£"
)

// Target-date solver defaults
const (
	// SolverBoundFloor is the smallest starting upper bound for the monthly overpayment search
	SolverBoundFloor = 1000.0

	// SolverBoundAttempts is how many times the upper bound may be doubled before giving up
	SolverBoundAttempts = 5

	// SolverMaxIterations is the default number of bisection steps
	SolverMaxIterations = 22

	// SolverTolerance is the default width at which bisection stops early
	SolverTolerance = 0.01
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatTable is the bordered terminal table format
	OutputFormatTable = "table"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix namespaces environment overrides, e.g. DEBT_ROADMAP_LOGGING_LEVEL
	EnvPrefix = "DEBT_ROADMAP"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultSolveRequestsPerWindow is how many solver calls one client may make per window
	DefaultSolveRequestsPerWindow = 10

	// DefaultStorePath is the default SQLite database location
	DefaultStorePath = "debt-roadmap.db"
)
