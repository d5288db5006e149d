package config

type Config struct {
	Agent    AgentConfig    `yaml:"agent"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
}

type AgentConfig struct {
	Daemon      bool   `yaml:"daemon"`
	DataFormat  string `yaml:"data_format"`
	Timezone    string `yaml:"timezone"`
	LogLevel    string `yaml:"log_level"`
	ReportStats bool   `yaml:"report_stats"`
}

type InfluxDBConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	UseTLS    bool   `yaml:"use_tls"`
	VerifySSL bool   `yaml:"verify_ssl"`
	Database  string `yaml:"database"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`

	Epoch                 string `yaml:"epoch"`         // ns, u, ms, s, m, h; empty means RFC3339 timestamps
	QueryTimeout          int    `yaml:"query_timeout"` // in seconds
	MaxRetries            int    `yaml:"max_retries"`
	RetryInterval         int    `yaml:"retry_interval"` // in seconds
	MaxConcurrentRequests int    `yaml:"max_concurrent_requests"`
	SamplingInterval      int    `yaml:"sampling_interval"` // in seconds, daemon mode only

	// Query Configuration
	Queries []QueryConfig `yaml:"queries"`

	// Stats reporting target (defaults to Database when empty)
	StatsDatabase string `yaml:"stats_database"`
}

type QueryConfig struct {
	Name      string `yaml:"name"`
	Query     string `yaml:"query"`
	Database  string `yaml:"database"` // override InfluxDB.Database
	Pretty    bool   `yaml:"pretty"`
	Chunked   bool   `yaml:"chunked"`
	ChunkSize int    `yaml:"chunk_size"`
	Timeout   string `yaml:"timeout"` // per-query override, e.g. "30s", "5m", "1d"
	Enabled   bool   `yaml:"enabled"`
}
