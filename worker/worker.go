package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	config "github.com/insightfinder/influxdb-agent/configs"
	"github.com/insightfinder/influxdb-agent/influxdb"
	"github.com/insightfinder/influxdb-agent/pkg/models"
)

type Worker struct {
	config        *config.Config
	influxService *influxdb.Service
	testMode      bool

	// Output sink, stdout by default
	out     io.Writer
	outLock sync.Mutex

	// Stats tracking
	statsLock    sync.RWMutex
	currentStats *models.CollectionStats
}

// NewWorker creates a new worker instance
func NewWorker(cfg *config.Config, influxService *influxdb.Service) *Worker {
	return &Worker{
		config:        cfg,
		influxService: influxService,
		testMode:      false,
		out:           os.Stdout,
		currentStats: &models.CollectionStats{
			StartTime: time.Now(),
		},
	}
}

// SetOutput redirects query output away from stdout
func (w *Worker) SetOutput(out io.Writer) {
	w.outLock.Lock()
	defer w.outLock.Unlock()
	w.out = out
}

// RunOnce executes all enabled queries a single time, in order, emitting each
// response body to the output sink. The first transport failure stops the run
// and is returned to the caller.
func (w *Worker) RunOnce() error {
	enabled := w.enabledQueries()
	if len(enabled) == 0 {
		return fmt.Errorf("no enabled queries configured")
	}

	for _, queryConfig := range enabled {
		if err := w.processQuery(queryConfig); err != nil {
			w.incrementErrorCount()
			return fmt.Errorf("query '%s' failed: %v", queryConfig.Name, err)
		}
	}

	if w.config.Agent.ReportStats && !w.testMode {
		w.reportStats()
	}

	return nil
}

// Start begins the worker's main processing loop (daemon mode)
func (w *Worker) Start(quit <-chan os.Signal) {
	samplingInterval := time.Duration(w.config.InfluxDB.SamplingInterval) * time.Second
	ticker := time.NewTicker(samplingInterval)
	defer ticker.Stop()

	logrus.Infof("Worker started. Sampling interval: %d seconds", w.config.InfluxDB.SamplingInterval)

	// Process immediately on start
	w.processAllQueries()

	for {
		select {
		case <-quit:
			logrus.Info("Worker received shutdown signal")
			return

		case <-ticker.C:
			w.processAllQueries()
		}
	}
}

// processAllQueries processes all enabled queries with bounded concurrency
func (w *Worker) processAllQueries() {
	w.updateStats(func(stats *models.CollectionStats) {
		stats.LastUpdateTime = time.Now()
	})

	enabled := w.enabledQueries()
	if len(enabled) == 0 {
		logrus.Warn("No enabled queries configured")
		return
	}

	semaphore := make(chan struct{}, w.config.InfluxDB.MaxConcurrentRequests)
	var wg sync.WaitGroup

	for _, queryConfig := range enabled {
		wg.Add(1)
		go func(qc config.QueryConfig) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := w.processQuery(qc); err != nil {
				logrus.Errorf("Error processing query '%s': %v", qc.Name, err)
				w.incrementErrorCount()
			}
		}(queryConfig)
	}

	wg.Wait()

	if w.config.Agent.ReportStats && !w.testMode {
		w.reportStats()
	}
}

// processQuery executes a single query and emits its response body
func (w *Worker) processQuery(queryConfig config.QueryConfig) error {
	queryStartTime := time.Now()

	ctx := context.Background()
	if queryConfig.Timeout != "" {
		timeout, err := models.ParseDuration(queryConfig.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout: %v", err)
		}
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
	}

	request := influxdb.QueryRequest{
		Database:  queryConfig.Database,
		Query:     queryConfig.Query,
		Pretty:    queryConfig.Pretty,
		Epoch:     w.config.InfluxDB.Epoch,
		Chunked:   queryConfig.Chunked,
		ChunkSize: queryConfig.ChunkSize,
	}

	raw, err := w.influxService.QueryRaw(ctx, request)
	if err != nil {
		return err
	}

	// Remote query errors ride along in the body. Log them, emit the body
	// anyway: the caller asked for whatever the server said.
	if errMsg := influxdb.ExtractError(raw); errMsg != "" {
		logrus.Warnf("Query '%s' returned error: %s", queryConfig.Name, errMsg)
	}

	seriesCount := influxdb.CountSeries(raw)
	rowCount := influxdb.CountRows(raw)
	logrus.Debugf("Query '%s' returned %d series, %d rows (%d bytes)",
		queryConfig.Name, seriesCount, rowCount, len(raw))

	if err := w.emit(raw); err != nil {
		return fmt.Errorf("failed to write output: %v", err)
	}

	// Update stats
	queryDuration := time.Since(queryStartTime)
	w.updateStats(func(stats *models.CollectionStats) {
		stats.TotalQueries++
		stats.TotalSeries += seriesCount
		stats.TotalRows += rowCount
		stats.BytesReceived += len(raw)
		stats.LastSuccessfulQuery = time.Now()

		// Calculate average query time
		if stats.TotalQueries == 1 {
			stats.AverageQueryTime = queryDuration
		} else {
			stats.AverageQueryTime = (stats.AverageQueryTime + queryDuration) / 2
		}

		// Calculate queries per minute
		elapsed := time.Since(stats.StartTime).Minutes()
		if elapsed > 0 {
			stats.QueriesPerMinute = float64(stats.TotalQueries) / elapsed
		}
	})

	return nil
}

// emit writes a response body to the output sink. The raw format is a
// byte-for-byte passthrough; the json format re-encodes compactly.
func (w *Worker) emit(raw []byte) error {
	w.outLock.Lock()
	defer w.outLock.Unlock()

	if w.config.Agent.DataFormat == "json" {
		var response models.QueryResponse
		if err := json.Unmarshal(raw, &response); err != nil {
			return fmt.Errorf("response is not valid JSON: %v", err)
		}
		compact, err := json.Marshal(&response)
		if err != nil {
			return err
		}
		compact = append(compact, '\n')
		_, err = w.out.Write(compact)
		return err
	}

	_, err := w.out.Write(raw)
	return err
}

// reportStats writes a snapshot of the agent's own stats back to InfluxDB
func (w *Worker) reportStats() {
	stats := w.GetStats()

	point := models.Point{
		Measurement: "influxdb_agent_stats",
		Tags: map[string]string{
			"agent": "influxdb-agent",
		},
		Fields: map[string]interface{}{
			"total_queries":      stats.TotalQueries,
			"total_series":       stats.TotalSeries,
			"total_rows":         stats.TotalRows,
			"bytes_received":     stats.BytesReceived,
			"error_count":        stats.ErrorCount,
			"average_query_time": stats.AverageQueryTime,
			"queries_per_minute": stats.QueriesPerMinute,
		},
		Timestamp: time.Now(),
	}

	err := w.influxService.Write(context.Background(), w.config.InfluxDB.StatsDatabase, []models.Point{point})
	if err != nil {
		logrus.Errorf("Failed to report agent stats: %v", err)
	}
}

// EnableTestMode enables test mode (stats are not written back to InfluxDB)
func (w *Worker) EnableTestMode() {
	w.testMode = true
	logrus.Info("Test mode enabled - stats will not be written to InfluxDB")
}

// GetStats returns the current collection statistics
func (w *Worker) GetStats() models.CollectionStats {
	w.statsLock.RLock()
	defer w.statsLock.RUnlock()
	return *w.currentStats
}

func (w *Worker) enabledQueries() []config.QueryConfig {
	return lo.Filter(w.config.InfluxDB.Queries, func(qc config.QueryConfig, _ int) bool {
		return qc.Enabled
	})
}

func (w *Worker) incrementErrorCount() {
	w.updateStats(func(stats *models.CollectionStats) {
		stats.ErrorCount++
	})
}

func (w *Worker) updateStats(updateFunc func(*models.CollectionStats)) {
	w.statsLock.Lock()
	defer w.statsLock.Unlock()

	updateFunc(w.currentStats)
}
