package pipeline

import (
	"log/slog"
	"time"

	"excel-aggregator/internal/model"
)

// RunReport summarises one run for logs and metrics
type RunReport struct {
	StartTime time.Time            `json:"start_time"`
	Duration  time.Duration        `json:"duration"`
	Rows      int                  `json:"rows"`
	Groups    int                  `json:"groups"`
	Coercion  CoerceReport         `json:"coercion"`
	Stages    []model.StageMetrics `json:"stages"`
}

// tracker times the stages of a run
type tracker struct {
	report *RunReport
	logger *slog.Logger
}

func newTracker(logger *slog.Logger, rows int) *tracker {
	return &tracker{
		report: &RunReport{StartTime: time.Now(), Rows: rows},
		logger: logger,
	}
}

// stage runs fn and records its duration together with the row count fn returns
func (t *tracker) stage(name string, fn func() (int, error)) error {
	start := time.Now()
	rows, err := fn()
	elapsed := time.Since(start)
	t.report.Stages = append(t.report.Stages, model.StageMetrics{Stage: name, Duration: elapsed, Rows: rows})
	if err != nil {
		t.logger.Debug("stage failed", slog.String("stage", name), slog.String("error", err.Error()))
		return err
	}
	t.logger.Debug("stage completed",
		slog.String("stage", name),
		slog.Int("rows", rows),
		slog.Duration("duration", elapsed),
	)
	return nil
}

func (t *tracker) finish() *RunReport {
	t.report.Duration = time.Since(t.report.StartTime)
	return t.report
}
