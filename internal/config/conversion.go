package config

import "github.com/iwvelando/anvil-calc/pkg/validation"

// ToDatabaseInfo converts the database configuration to the form the
// warning checks take.
func (db DatabaseConfig) ToDatabaseInfo() validation.DatabaseInfo {
	return validation.DatabaseInfo{
		Type: db.Type,
		URL:  db.URL,
		Host: db.Host,
		Name: db.Name,
		Path: db.Path,
	}
}

// ToLoggingInfo converts the logging configuration to the form the warning
// checks take.
func (l LoggingConfig) ToLoggingInfo() validation.LoggingInfo {
	return validation.LoggingInfo{
		Level:      l.Level,
		Format:     l.Format,
		OutputFile: l.OutputFile,
	}
}
