package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Test config",
			configPath: "../../test/test_config.yaml",
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationStructure(t *testing.T) {
	config, err := LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	expected := &Configuration{
		Logging: LoggingConfig{Level: "debug", Format: "console"},
		Output:  OutputConfig{Format: "yaml"},
		Database: DatabaseConfig{
			Type: "sqlite",
			Path: ":memory:",
			Pool: PoolConfig{MaxOpen: 4, MaxIdle: 1, MaxLifetime: time.Minute},
		},
	}
	if diff := cmp.Diff(expected, config); diff != "" {
		t.Errorf("LoadConfiguration() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigurationWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	config, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration(\"\") error = %v", err)
	}
	if diff := cmp.Diff(Default(), config); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		check     func(t *testing.T, c *Configuration)
		wantError string
	}{
		{
			name: "Empty document uses defaults",
			yaml: "",
			check: func(t *testing.T, c *Configuration) {
				if diff := cmp.Diff(Default(), c); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "Postgres settings",
			yaml: "database:\n  type: postgres\n  host: db\n  port: 5432\n  name: anvil\n  sslmode: disable\n",
			check: func(t *testing.T, c *Configuration) {
				if c.Database.Type != "postgres" || c.Database.Host != "db" || c.Database.Port != 5432 {
					t.Errorf("unexpected database config %+v", c.Database)
				}
				if c.Logging.Level != "info" {
					t.Errorf("logging level = %s, expected default info", c.Logging.Level)
				}
			},
		},
		{
			name:      "Invalid log level",
			yaml:      "logging:\n  level: loud\n",
			wantError: "Logging.Level",
		},
		{
			name:      "Invalid output format",
			yaml:      "output:\n  format: xml\n",
			wantError: "Output.Format",
		},
		{
			name:      "Invalid database type",
			yaml:      "database:\n  type: mysql\n",
			wantError: "Database.Type",
		},
		{
			name:      "Malformed YAML",
			yaml:      "logging: [unterminated",
			wantError: "error reading config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LoadConfigurationFromReader(strings.NewReader(tt.yaml))
			if tt.wantError != "" {
				if err == nil {
					t.Fatalf("expected error containing %q", tt.wantError)
				}
				if !strings.Contains(err.Error(), tt.wantError) {
					t.Errorf("error %q does not contain %q", err, tt.wantError)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, c)
		})
	}
}

func TestLoadConfigurationEnvironmentOverride(t *testing.T) {
	t.Setenv("ANVIL_DATABASE_PATH", "/tmp/override.db")
	t.Setenv("ANVIL_OUTPUT_FORMAT", "json")

	c, err := LoadConfigurationFromReader(strings.NewReader("output:\n  format: csv\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Database.Path != "/tmp/override.db" {
		t.Errorf("database path = %s, expected environment override", c.Database.Path)
	}
	if c.Output.Format != "json" {
		t.Errorf("output format = %s, expected environment override json", c.Output.Format)
	}
}

func TestValidateConfiguration(t *testing.T) {
	conf := Default()
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("default configuration has warnings: %v", warnings)
	}

	conf.Database.Type = "postgres"
	conf.Database.Path = ""
	warnings := conf.ValidateConfiguration()
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings for bare postgres config, got %v", warnings)
	}
}
