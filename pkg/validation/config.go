package validation

import (
	"fmt"

	"github.com/iwvelando/anvil-calc/pkg/constants"
)

// DatabaseInfo is the part of the database configuration that warnings are
// derived from.
type DatabaseInfo struct {
	Type string
	URL  string
	Host string
	Name string
	Path string
}

// LoggingInfo is the part of the logging configuration that warnings are
// derived from.
type LoggingInfo struct {
	Level      string
	Format     string
	OutputFile string
}

// ConfigValidator collects non-fatal configuration warnings.
type ConfigValidator struct {
	Database DatabaseInfo
	Logging  LoggingInfo
}

// ValidateDatabase returns warnings for a database configuration that will
// probably not connect as intended.
func ValidateDatabase(db DatabaseInfo) []string {
	var warnings []string

	switch db.Type {
	case constants.DatabasePostgres:
		if db.URL == "" && db.Host == "" {
			warnings = append(warnings, "postgres database has neither url nor host; the driver default will be used")
		}
		if db.URL == "" && db.Name == "" {
			warnings = append(warnings, "postgres database has no name")
		}
		if db.Path != "" {
			warnings = append(warnings, fmt.Sprintf("database path '%s' is ignored for postgres", db.Path))
		}
	case constants.DatabaseSQLite:
		if db.Path == ":memory:" {
			warnings = append(warnings, "sqlite database is in memory; saved results are lost on exit")
		}
		if db.URL != "" || db.Host != "" {
			warnings = append(warnings, "database url and host are ignored for sqlite")
		}
	}

	return warnings
}

// ValidateLogging returns warnings for logging settings that are valid but
// likely unintended.
func ValidateLogging(logging LoggingInfo) []string {
	var warnings []string
	if logging.Level == "debug" && logging.OutputFile == "" {
		warnings = append(warnings, "debug logging without an output file writes every solve and plan to stderr")
	}
	return warnings
}

// ValidateAll validates the entire configuration and returns warnings.
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string
	warnings = append(warnings, ValidateDatabase(cv.Database)...)
	warnings = append(warnings, ValidateLogging(cv.Logging)...)
	return warnings
}
