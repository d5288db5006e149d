package config

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/insightfinder/influxdb-agent/pkg/models"
)

// Built-in defaults, used whenever no config file is present. They reproduce
// the classic one-off invocation against a local InfluxDB instance.
const (
	DefaultHost     = "localhost"
	DefaultPort     = 8086
	DefaultDatabase = "mydb"
	DefaultQuery    = "SELECT * FROM cpu WHERE host='server03' AND time < now() - 1d"
)

// LoadConfig loads configuration from YAML file. A missing file is not an
// error: the built-in defaults describe a complete one-shot invocation.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logrus.Infof("No configuration file at %s, using built-in defaults", configPath)
		setDefaults(config)
		return config, nil
	}

	logrus.Infof("Loading configuration from: %s", configPath)

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file: %v", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file: %v", err)
	}

	setDefaults(config)
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %v", err)
	}

	logrus.Info("Configuration loaded successfully")
	return config, nil
}

// setDefaults sets default values for configuration fields if they are not provided
func setDefaults(config *Config) {
	// Agent defaults
	if config.Agent.LogLevel == "" {
		config.Agent.LogLevel = "INFO"
	}
	if config.Agent.DataFormat == "" {
		config.Agent.DataFormat = "raw"
	}
	if config.Agent.Timezone == "" {
		config.Agent.Timezone = "UTC"
	}

	// InfluxDB defaults
	if config.InfluxDB.Host == "" {
		config.InfluxDB.Host = DefaultHost
	}
	if config.InfluxDB.Port == 0 {
		config.InfluxDB.Port = DefaultPort
	}
	if config.InfluxDB.Database == "" {
		config.InfluxDB.Database = DefaultDatabase
	}
	if config.InfluxDB.StatsDatabase == "" {
		config.InfluxDB.StatsDatabase = config.InfluxDB.Database
	}
	if config.InfluxDB.QueryTimeout == 0 {
		config.InfluxDB.QueryTimeout = 60 // 60 seconds
	}
	if config.InfluxDB.MaxRetries == 0 {
		config.InfluxDB.MaxRetries = 3
	}
	if config.InfluxDB.RetryInterval == 0 {
		config.InfluxDB.RetryInterval = 5
	}
	if config.InfluxDB.MaxConcurrentRequests == 0 {
		config.InfluxDB.MaxConcurrentRequests = 10
	}
	if config.InfluxDB.SamplingInterval == 0 {
		config.InfluxDB.SamplingInterval = 60
	}

	// With no queries configured, run the single default query once
	if len(config.InfluxDB.Queries) == 0 {
		config.InfluxDB.Queries = []QueryConfig{
			{
				Name:    "cpu",
				Query:   DefaultQuery,
				Pretty:  true,
				Enabled: true,
			},
		}
	}

	// Set defaults for individual queries
	for i := range config.InfluxDB.Queries {
		query := &config.InfluxDB.Queries[i]
		if query.Database == "" {
			query.Database = config.InfluxDB.Database
		}
		if query.Chunked && query.ChunkSize == 0 {
			query.ChunkSize = 10000
		}
	}
}

// validateConfig validates the configuration and returns an error if invalid
func validateConfig(config *Config) error {
	if config.InfluxDB.Host == "" {
		return fmt.Errorf("influxdb.host is required")
	}
	if config.InfluxDB.Port < 1 || config.InfluxDB.Port > 65535 {
		return fmt.Errorf("influxdb.port must be between 1 and 65535, got %d", config.InfluxDB.Port)
	}
	if config.InfluxDB.Database == "" {
		return fmt.Errorf("influxdb.database is required")
	}

	validEpochs := map[string]bool{
		"":   true, // Allow empty value
		"ns": true,
		"u":  true,
		"ms": true,
		"s":  true,
		"m":  true,
		"h":  true,
	}
	if !validEpochs[config.InfluxDB.Epoch] {
		return fmt.Errorf("invalid epoch: %s. Valid options are: (empty), ns, u, ms, s, m, h", config.InfluxDB.Epoch)
	}

	validFormats := map[string]bool{
		"raw":  true,
		"json": true,
	}
	if !validFormats[config.Agent.DataFormat] {
		return fmt.Errorf("invalid data_format: %s. Valid options are: raw, json", config.Agent.DataFormat)
	}

	// Validate individual queries
	for i, query := range config.InfluxDB.Queries {
		if query.Name == "" {
			return fmt.Errorf("query %d: name is required", i)
		}
		if query.Query == "" {
			return fmt.Errorf("query %d (%s): query string is required", i, query.Name)
		}
		if query.Timeout != "" {
			if _, err := models.ParseDuration(query.Timeout); err != nil {
				return fmt.Errorf("query %d (%s): invalid timeout: %v", i, query.Name, err)
			}
		}
	}

	// Validate timezone
	if config.Agent.Timezone != "" {
		if _, err := time.LoadLocation(config.Agent.Timezone); err != nil {
			return fmt.Errorf("invalid timezone: %s", config.Agent.Timezone)
		}
	}

	return nil
}
