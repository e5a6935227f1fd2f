// Package telemetry provides the CLI's structured logger and process
// metrics. Nothing in this package is imported by the core engine
// (covariance, observation, spatialindex, compatgraph, bronkerbosch,
// cliqueindex): those packages have no logging inside them, by design.
package telemetry

import (
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Level is a logging verbosity level, as configured in internal/config.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format is a logging output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// LoggerConfig configures NewLogger.
type LoggerConfig struct {
	Level  Level
	Format Format
	Output io.Writer
}

// NewLogger builds a zerolog.Logger per cfg. A zero-value Output defaults
// to stdout.
func NewLogger(cfg LoggerConfig) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	if cfg.Format == FormatText {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).With().Timestamp().Logger()

	switch cfg.Level {
	case LevelDebug:
		logger = logger.Level(zerolog.DebugLevel)
	case LevelWarn:
		logger = logger.Level(zerolog.WarnLevel)
	case LevelError:
		logger = logger.Level(zerolog.ErrorLevel)
	default:
		logger = logger.Level(zerolog.InfoLevel)
	}

	return logger
}

// Metrics holds the process-lifetime Prometheus collectors the CLI
// exposes around a single clique-fusion run.
type Metrics struct {
	ObservationsIngested prometheus.Counter
	CliquesEmitted       prometheus.Gauge
	InsertDuration       prometheus.Histogram
}

// NewMetrics registers and returns a fresh Metrics set against registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		ObservationsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cliquefusion",
			Name:      "observations_ingested_total",
			Help:      "Number of observations inserted into the clique index.",
		}),
		CliquesEmitted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cliquefusion",
			Name:      "cliques_emitted",
			Help:      "Number of maximal cliques currently held by the index.",
		}),
		InsertDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cliquefusion",
			Name:      "insert_duration_seconds",
			Help:      "Wall-clock duration of a single CliqueIndex build or insert call.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(m.ObservationsIngested, m.CliquesEmitted, m.InsertDuration)

	return m
}
