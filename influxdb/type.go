package influxdb

import (
	"net/http"
	"time"
)

// Service represents the InfluxDB HTTP API client
type Service struct {
	BaseURL      string
	Username     string
	Password     string
	VerifySSL    bool
	MaxRetries   int
	QueryTimeout time.Duration

	// Internal client state
	httpClient      *http.Client
	retryInterval   time.Duration
	isHealthy       bool
	lastHealthCheck time.Time
}

// QueryRequest represents one query against the /query endpoint
type QueryRequest struct {
	Database  string `json:"db"`
	Query     string `json:"q"`
	Pretty    bool   `json:"pretty,omitempty"`
	Epoch     string `json:"epoch,omitempty"`
	Chunked   bool   `json:"chunked,omitempty"`
	ChunkSize int    `json:"chunk_size,omitempty"`
}

// queryParams is the URL parameter form of a QueryRequest
type queryParams struct {
	Database  string `url:"db"`
	Query     string `url:"q"`
	Pretty    bool   `url:"pretty,omitempty"`
	Epoch     string `url:"epoch,omitempty"`
	Chunked   bool   `url:"chunked,omitempty"`
	ChunkSize int    `url:"chunk_size,omitempty"`
}

// writeParams is the URL parameter form of a /write request
type writeParams struct {
	Database        string `url:"db"`
	Precision       string `url:"precision,omitempty"`
	RetentionPolicy string `url:"rp,omitempty"`
	Consistency     string `url:"consistency,omitempty"`
}
