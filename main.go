package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"

	config "github.com/insightfinder/influxdb-agent/configs"
	"github.com/insightfinder/influxdb-agent/influxdb"
	"github.com/insightfinder/influxdb-agent/worker"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup logging
	setupLogging(cfg.Agent.LogLevel)

	logrus.Infof("InfluxDB target: %s:%d database %s", cfg.InfluxDB.Host, cfg.InfluxDB.Port, cfg.InfluxDB.Database)
	logrus.Infof("Number of queries: %d", len(cfg.InfluxDB.Queries))

	// Initialize services
	influxService := influxdb.NewService(cfg.InfluxDB)

	// Create worker
	w := worker.NewWorker(cfg, influxService)

	if !cfg.Agent.Daemon {
		// One-shot invocation: run every enabled query, emit to stdout, exit
		if err := w.RunOnce(); err != nil {
			log.Fatalf("Query run failed: %v", err)
		}
		return
	}

	// Daemon mode
	logrus.Info("InfluxDB Agent starting...")
	logrus.Infof("Sampling interval: %d seconds", cfg.InfluxDB.SamplingInterval)

	// Test InfluxDB connection
	if err := influxService.Ping(context.Background()); err != nil {
		log.Fatalf("Failed to connect to InfluxDB: %v", err)
	}
	logrus.Info("Successfully connected to InfluxDB")

	// List enabled queries
	logrus.Info("Enabled queries:")
	for _, query := range cfg.InfluxDB.Queries {
		if query.Enabled {
			logrus.Infof("  - %s: %s", query.Name, query.Query)
		}
	}

	// Graceful shutdown setup
	var wg sync.WaitGroup
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	wg.Add(1)
	go func() {
		defer wg.Done()
		w.Start(quit)
	}()

	logrus.Info("InfluxDB Agent started successfully")
	logrus.Info("Press Ctrl+C to stop...")

	// Wait for shutdown signal
	<-quit
	logrus.Info("Shutting down InfluxDB Agent...")
	wg.Wait()
	logrus.Info("InfluxDB Agent stopped")
}

func setupLogging(level string) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	switch level {
	case "DEBUG":
		logrus.SetLevel(logrus.DebugLevel)
	case "INFO":
		logrus.SetLevel(logrus.InfoLevel)
	case "WARN":
		logrus.SetLevel(logrus.WarnLevel)
	case "ERROR":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}
