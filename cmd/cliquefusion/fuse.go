package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/clique-fusion/cliquefusion/cliqueindex"
	"github.com/clique-fusion/cliquefusion/covariance"
	"github.com/clique-fusion/cliquefusion/internal/config"
	"github.com/clique-fusion/cliquefusion/internal/telemetry"
	"github.com/clique-fusion/cliquefusion/observation"
	"github.com/clique-fusion/cliquefusion/spatialindex"
)

var fuseCmd = &cobra.Command{
	Use:   "fuse",
	Args:  cobra.NoArgs,
	Short: "Fuse a batch of observations loaded from a JSON file",
	RunE:  runFuse,
}

func init() {
	fuseCmd.Flags().String("input", "", "path to a JSON file containing an observation batch")
	fuseCmd.Flags().String("confidence", "", "chi-squared confidence level to use: 90, 95, or 99 (overrides config)")
}

// observationRecord is the on-disk JSON shape of a single observation.
type observationRecord struct {
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	CovXX     float64    `json:"cov_xx"`
	CovYY     float64    `json:"cov_yy"`
	CovXY     float64    `json:"cov_xy"`
	ContextID *uuid.UUID `json:"context_id,omitempty"`
}

func runFuse(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	if inputPath == "" {
		return fmt.Errorf("--input flag is required")
	}
	confidenceFlag, _ := cmd.Flags().GetString("confidence")

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if confidenceFlag != "" {
		cfg.Engine.Chi2Confidence = confidenceFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := telemetry.Level(cfg.Logging.Level)
	if verbose {
		level = telemetry.LevelDebug
	}
	logger := telemetry.NewLogger(telemetry.LoggerConfig{Level: level, Format: telemetry.Format(cfg.Logging.Format)})
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())

	records, err := loadObservationRecords(inputPath)
	if err != nil {
		return fmt.Errorf("failed to load observations: %w", err)
	}
	metrics.ObservationsIngested.Add(float64(len(records)))

	chi2, err := chi2ForConfidence(cfg.Engine.Chi2Confidence)
	if err != nil {
		return err
	}

	batch := make([]spatialindex.Unique, len(records))
	for i, rec := range records {
		batch[i] = recordToObservation(rec)
	}

	logger.Info().Int("observations", len(batch)).Float64("chi2", chi2).Msg("building clique index")

	start := time.Now()
	idx := cliqueindex.FromObservations(batch, chi2)
	metrics.InsertDuration.Observe(time.Since(start).Seconds())
	metrics.CliquesEmitted.Set(float64(len(idx.Cliques())))

	renderCliques(idx)

	return nil
}

func loadObservationRecords(path string) ([]observationRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []observationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid observation batch: %w", err)
	}

	return records, nil
}

func recordToObservation(rec observationRecord) spatialindex.Unique {
	cov := covariance.NewUnchecked(rec.CovXX, rec.CovYY, rec.CovXY)
	builder := observation.NewBuilder(rec.X, rec.Y).Error(cov)
	if rec.ContextID != nil {
		builder = builder.Context(*rec.ContextID)
	}

	return spatialindex.Unique{Data: builder.Build(), ID: uuid.New()}
}

func chi2ForConfidence(level string) (float64, error) {
	switch level {
	case "90":
		return observation.Chi2Confidence90, nil
	case "95":
		return observation.Chi2Confidence95, nil
	case "99":
		return observation.Chi2Confidence99, nil
	default:
		return 0, fmt.Errorf("unknown confidence level %q", level)
	}
}

func renderCliques(idx *cliqueindex.CliqueIndex) {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Size", "Members"})

	for i, clique := range idx.Cliques() {
		members := make([]string, 0, len(clique))
		for id := range clique {
			members = append(members, id.String())
		}
		t.AppendRow(table.Row{i, len(clique), members})
	}

	fmt.Println(t.Render())
	fmt.Printf("observations with compatible neighbours: %d, cliques: %d\n", idx.Len(), len(idx.Cliques()))
}
