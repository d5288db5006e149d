package influxdb

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/sirupsen/logrus"

	config "github.com/insightfinder/influxdb-agent/configs"
	"github.com/insightfinder/influxdb-agent/pkg/models"
)

const (
	PING_ENDPOINT  = "/ping"
	QUERY_ENDPOINT = "/query"
	WRITE_ENDPOINT = "/write"
)

// NewService creates a new InfluxDB service instance
func NewService(cfg config.InfluxDBConfig) *Service {
	// Create HTTP client with proper timeout and SSL settings
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !cfg.VerifySSL},
	}

	client := &http.Client{
		Transport: tr,
		Timeout:   time.Duration(cfg.QueryTimeout) * time.Second,
	}

	scheme := "http"
	if cfg.UseTLS {
		scheme = "https"
	}

	service := &Service{
		BaseURL:         fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, cfg.Port),
		Username:        cfg.Username,
		Password:        cfg.Password,
		VerifySSL:       cfg.VerifySSL,
		MaxRetries:      cfg.MaxRetries,
		QueryTimeout:    time.Duration(cfg.QueryTimeout) * time.Second,
		httpClient:      client,
		retryInterval:   time.Duration(cfg.RetryInterval) * time.Second,
		isHealthy:       false,
		lastHealthCheck: time.Time{},
	}

	return service
}

// Ping performs a health check against the InfluxDB instance
func (s *Service) Ping(ctx context.Context) error {
	endpoint := s.BaseURL + PING_ENDPOINT

	rb := requests.URL(endpoint).
		Client(s.httpClient).
		CheckStatus(http.StatusNoContent, http.StatusOK)
	if s.Username != "" {
		rb = rb.BasicAuth(s.Username, s.Password)
	}

	if err := rb.Fetch(ctx); err != nil {
		s.isHealthy = false
		return fmt.Errorf("ping failed: %v", err)
	}

	s.isHealthy = true
	s.lastHealthCheck = time.Now()
	return nil
}

// QueryRaw executes a query and returns the response body untouched. The body
// is passed through even for remote query errors: only transport failures
// return an error. Transport failures are retried up to MaxRetries times.
func (s *Service) QueryRaw(ctx context.Context, req QueryRequest) ([]byte, error) {
	endpoint := s.BaseURL + QUERY_ENDPOINT

	params, err := buildQueryParams(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build query parameters: %v", err)
	}

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			logrus.Warnf("Retrying query (attempt %d/%d) after error: %v", attempt, s.MaxRetries, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.retryInterval):
			}
		}

		var buf bytes.Buffer
		rb := requests.URL(endpoint).
			Client(s.httpClient).
			Params(params).
			AddValidator(nil). // remote query errors flow through as response bodies
			ToBytesBuffer(&buf)
		if s.Username != "" {
			rb = rb.BasicAuth(s.Username, s.Password)
		}

		if err := rb.Fetch(ctx); err != nil {
			lastErr = err
			continue
		}
		return buf.Bytes(), nil
	}

	return nil, fmt.Errorf("query failed after %d attempts: %v", s.MaxRetries+1, lastErr)
}

// Query executes a query and decodes the response into typed results
func (s *Service) Query(ctx context.Context, req QueryRequest) (*models.QueryResponse, error) {
	endpoint := s.BaseURL + QUERY_ENDPOINT

	params, err := buildQueryParams(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build query parameters: %v", err)
	}

	var response models.QueryResponse
	rb := requests.URL(endpoint).
		Client(s.httpClient).
		Params(params).
		ToJSON(&response)
	if s.Username != "" {
		rb = rb.BasicAuth(s.Username, s.Password)
	}

	if err := rb.Fetch(ctx); err != nil {
		return nil, fmt.Errorf("query failed: %v", err)
	}

	if response.Err != "" {
		return nil, fmt.Errorf("query failed with error: %s", response.Err)
	}
	for _, result := range response.Results {
		if result.Err != "" {
			return nil, fmt.Errorf("statement %d failed with error: %s", result.StatementID, result.Err)
		}
	}

	return &response, nil
}

// Write sends points to the /write endpoint in line protocol
func (s *Service) Write(ctx context.Context, database string, points []models.Point) error {
	endpoint := s.BaseURL + WRITE_ENDPOINT

	body, err := models.EncodePoints(points)
	if err != nil {
		return fmt.Errorf("failed to encode points: %v", err)
	}

	params, err := buildWriteParams(database)
	if err != nil {
		return fmt.Errorf("failed to build write parameters: %v", err)
	}

	rb := requests.URL(endpoint).
		Client(s.httpClient).
		Params(params).
		BodyBytes([]byte(body)).
		ContentType("text/plain; charset=utf-8").
		CheckStatus(http.StatusNoContent).
		Post()
	if s.Username != "" {
		rb = rb.BasicAuth(s.Username, s.Password)
	}

	if err := rb.Fetch(ctx); err != nil {
		return fmt.Errorf("write of %d points failed: %v", len(points), err)
	}

	logrus.Debugf("Wrote %d points to database %s", len(points), database)
	return nil
}

// IsHealthy returns the current health status
func (s *Service) IsHealthy() bool {
	return s.isHealthy
}

// GetLastHealthCheck returns the timestamp of the last health check
func (s *Service) GetLastHealthCheck() time.Time {
	return s.lastHealthCheck
}
