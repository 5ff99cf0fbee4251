// Package constants provides shared constants for the anvil-calc application.
package constants

// Forging constants
const (
	// FinishingActionCount is the number of finishing actions closing every
	// forge sequence.
	FinishingActionCount = 3

	// ForgeSlack is how far past the needed sum the search may overshoot
	// while building intermediate sums.
	ForgeSlack = 5

	// ForgeMaxLevels bounds the number of forging actions the search adds.
	ForgeMaxLevels = 10
)

// Alloy constants
const (
	// UnitVolume is the volume of a single ingot.
	UnitVolume = 144

	// CrucibleCapacity is the volume a single batch may not exceed.
	CrucibleCapacity = 3000

	// MaxBatchSize is the largest number of ingots melted in one batch.
	MaxBatchSize = CrucibleCapacity / UnitVolume

	// SuggestionRadius is the farthest distance from the requested total
	// searched for alternative totals.
	SuggestionRadius = 10

	// MaxSuggestions caps the number of alternative totals returned.
	MaxSuggestions = 6

	// PercentTolerance is the tolerance for percentage comparisons.
	PercentTolerance = 1e-9

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// MinPercent and MaxPercent bound every component range.
	MinPercent = 0.0
	MaxPercent = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. ANVIL_LOGGING_LEVEL.
	EnvPrefix = "ANVIL"
)

// Database defaults
const (
	// DatabaseSQLite selects the sqlite driver.
	DatabaseSQLite = "sqlite"

	// DatabasePostgres selects the postgres driver.
	DatabasePostgres = "postgres"

	// DefaultDatabasePath is the sqlite file used when none is configured.
	DefaultDatabasePath = "anvil-calc.db"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultRequestsPerSecond is the sustained rate of compute requests.
	DefaultRequestsPerSecond = 20.0

	// DefaultRequestBurst is the burst size of compute requests.
	DefaultRequestBurst = 40

	// RequestIDHeader carries the per-request id.
	RequestIDHeader = "X-Request-ID"
)
