package models

import (
	"time"
)

// QueryResponse represents the complete response from the InfluxDB /query API
type QueryResponse struct {
	Results []Result `json:"results"`
	Err     string   `json:"error,omitempty"`
}

// Result represents the result of a single statement within a query
type Result struct {
	StatementID int       `json:"statement_id"`
	Series      []Series  `json:"series,omitempty"`
	Messages    []Message `json:"messages,omitempty"`
	Partial     bool      `json:"partial,omitempty"`
	Err         string    `json:"error,omitempty"`
}

// Series represents one series of rows returned for a measurement
type Series struct {
	Name    string            `json:"name"`
	Tags    map[string]string `json:"tags,omitempty"`
	Columns []string          `json:"columns"`
	Values  [][]interface{}   `json:"values"`
	Partial bool              `json:"partial,omitempty"`
}

// Message represents a user-facing message attached to a query result
type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Point is a single measurement sample in the write path
type Point struct {
	Measurement string                 `json:"measurement"`
	Tags        map[string]string      `json:"tags,omitempty"`
	Fields      map[string]interface{} `json:"fields"`
	Timestamp   time.Time              `json:"timestamp,omitempty"`
}

// CollectionStats tracks agent performance metrics
type CollectionStats struct {
	TotalQueries        int           `json:"total_queries"`
	TotalSeries         int           `json:"total_series"`
	TotalRows           int           `json:"total_rows"`
	BytesReceived       int           `json:"bytes_received"`
	ErrorCount          int           `json:"error_count"`
	StartTime           time.Time     `json:"start_time"`
	LastUpdateTime      time.Time     `json:"last_update_time"`
	AverageQueryTime    time.Duration `json:"average_query_time"`
	LastSuccessfulQuery time.Time     `json:"last_successful_query"`
	QueriesPerMinute    float64       `json:"queries_per_minute"`
}
