package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigBuiltInDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err, "a missing config file falls back to built-in defaults")

	assert.False(t, cfg.Agent.Daemon)
	assert.Equal(t, "raw", cfg.Agent.DataFormat)
	assert.Equal(t, "INFO", cfg.Agent.LogLevel)

	assert.Equal(t, "localhost", cfg.InfluxDB.Host)
	assert.Equal(t, 8086, cfg.InfluxDB.Port)
	assert.Equal(t, "mydb", cfg.InfluxDB.Database)
	assert.Empty(t, cfg.InfluxDB.Username)

	require.Len(t, cfg.InfluxDB.Queries, 1)
	query := cfg.InfluxDB.Queries[0]
	assert.Equal(t, "cpu", query.Name)
	assert.Equal(t, "SELECT * FROM cpu WHERE host='server03' AND time < now() - 1d", query.Query)
	assert.Equal(t, "mydb", query.Database)
	assert.True(t, query.Pretty)
	assert.True(t, query.Enabled)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
agent:
  daemon: true
  log_level: DEBUG
influxdb:
  host: influx.internal
  port: 8087
  database: telemetry
  epoch: ms
  queries:
    - name: load
      query: SELECT mean(value) FROM cpu GROUP BY time(1m)
      pretty: false
      enabled: true
    - name: disk
      query: SELECT * FROM disk
      database: storage
      chunked: true
      timeout: 30s
      enabled: false
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Agent.Daemon)
	assert.Equal(t, "DEBUG", cfg.Agent.LogLevel)
	assert.Equal(t, "influx.internal", cfg.InfluxDB.Host)
	assert.Equal(t, 8087, cfg.InfluxDB.Port)
	assert.Equal(t, "ms", cfg.InfluxDB.Epoch)

	// Defaults fill in what the file leaves out
	assert.Equal(t, 60, cfg.InfluxDB.QueryTimeout)
	assert.Equal(t, 3, cfg.InfluxDB.MaxRetries)
	assert.Equal(t, 10, cfg.InfluxDB.MaxConcurrentRequests)
	assert.Equal(t, 60, cfg.InfluxDB.SamplingInterval)
	assert.Equal(t, "telemetry", cfg.InfluxDB.StatsDatabase)

	require.Len(t, cfg.InfluxDB.Queries, 2)
	assert.Equal(t, "telemetry", cfg.InfluxDB.Queries[0].Database, "query database defaults to the global one")
	assert.Equal(t, "storage", cfg.InfluxDB.Queries[1].Database)
	assert.Equal(t, 10000, cfg.InfluxDB.Queries[1].ChunkSize, "chunked queries get a default chunk size")
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name: "invalid epoch",
			content: `
influxdb:
  epoch: micros
`,
			errMsg: "invalid epoch",
		},
		{
			name: "invalid data format",
			content: `
agent:
  data_format: csv
`,
			errMsg: "invalid data_format",
		},
		{
			name: "query missing name",
			content: `
influxdb:
  queries:
    - query: SELECT * FROM cpu
      enabled: true
`,
			errMsg: "name is required",
		},
		{
			name: "query missing query string",
			content: `
influxdb:
  queries:
    - name: broken
      enabled: true
`,
			errMsg: "query string is required",
		},
		{
			name: "invalid query timeout",
			content: `
influxdb:
  queries:
    - name: slow
      query: SELECT * FROM cpu
      timeout: soon
      enabled: true
`,
			errMsg: "invalid timeout",
		},
		{
			name: "invalid port",
			content: `
influxdb:
  port: 70000
`,
			errMsg: "port must be between",
		},
		{
			name: "invalid timezone",
			content: `
agent:
  timezone: Mars/Olympus
`,
			errMsg: "invalid timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := writeConfig(t, "influxdb: [not a map")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}
