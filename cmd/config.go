package cmd

import (
	"errors"
	"fmt"
	"strings"

	"db-respawn/internal/engine"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

var (
	ErrNoActiveDatabase        = errors.New("no active database found in config (set active: true)")
	ErrMultipleActiveDatabases = errors.New("multiple active databases found (only one can be active)")
)

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Active bool   `mapstructure:"active"`
}

// GetActiveDBConfig returns the currently active database configuration.
func GetActiveDBConfig() (*DBConfig, error) {
	var configs []DBConfig

	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var activeConfig *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, ErrNoActiveDatabase
	}
	if count > 1 {
		return nil, ErrMultipleActiveDatabases
	}

	return activeConfig, nil
}

// resolveDBConfig picks the connection to reset. An explicit --dsn wins, then
// the active entry of "databases", then the single "database" section.
func resolveDBConfig() (*DBConfig, error) {
	var config DBConfig

	if dsn != "" {
		config = DBConfig{Name: "cli", Driver: driverName, DSN: dsn, Active: true}
	} else {
		active, err := GetActiveDBConfig()
		switch {
		case err == nil:
			config = *active
		case errors.Is(err, ErrNoActiveDatabase):
			config = DBConfig{Name: "default", Active: true}
		default:
			return nil, err
		}
	}

	if config.DSN == "" {
		config.DSN = viper.GetString("database.dsn")
	}
	if config.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required (via flag or config)")
	}

	if config.Driver == "" {
		config.Driver = viper.GetString("database.driver")
	}
	if config.Driver == "" {
		config.Driver = detectDriver(config.DSN)
	}
	if config.Driver == "" {
		return nil, fmt.Errorf("could not detect driver from dsn: use --driver or database.driver")
	}

	return &config, nil
}

// detectDriver guesses the database/sql driver name from the shape of a DSN.
func detectDriver(connStr string) string {
	lower := strings.ToLower(connStr)

	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"),
		strings.Contains(lower, "sslmode="):
		return "postgres"
	case strings.HasPrefix(lower, "sqlserver://"),
		strings.Contains(lower, "server=") && strings.Contains(lower, ";"):
		return "sqlserver"
	case strings.HasPrefix(lower, "oracle://"):
		return "oracle"
	}

	if _, err := mysql.ParseDSN(connStr); err == nil {
		return "mysql"
	}
	return ""
}

// checkpointOptions reads the "checkpoint" section and applies flag overrides.
func checkpointOptions() (engine.Options, error) {
	var opts engine.Options

	if err := viper.UnmarshalKey("checkpoint", &opts); err != nil {
		return opts, fmt.Errorf("failed to parse checkpoint config: %w", err)
	}

	if len(ignoreTables) > 0 {
		opts.TablesToIgnore = ignoreTables
	}
	if len(includeTables) > 0 {
		opts.TablesToInclude = includeTables
	}
	if len(ignoreSchemas) > 0 {
		opts.SchemasToIgnore = ignoreSchemas
	}
	if len(includeSchemas) > 0 {
		opts.SchemasToInclude = includeSchemas
	}
	if temporal {
		opts.CheckTemporalTables = true
	}
	if reseed {
		opts.ReseedIdentity = true
	}
	if timeout > 0 {
		opts.CommandTimeout = timeout
	}

	return opts, nil
}
