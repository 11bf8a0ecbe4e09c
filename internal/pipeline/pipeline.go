package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"excel-aggregator/internal/model"
)

// PlanBuilder produces a validated aggregation plan for a table with the
// given columns. The interactive session and the HTTP request path are the
// two implementations.
type PlanBuilder interface {
	BuildPlan(ctx context.Context, columns []string) (model.AggregationPlan, error)
}

// RequestPlanBuilder builds a plan from an already named request payload
type RequestPlanBuilder struct {
	Request model.AggregationRequest
}

// BuildPlan implements PlanBuilder
func (b RequestPlanBuilder) BuildPlan(_ context.Context, columns []string) (model.AggregationPlan, error) {
	agg := dedupe(b.Request.AggColumns)
	group := dedupe(b.Request.GroupColumns)
	if len(agg) == 0 || len(group) == 0 {
		return model.AggregationPlan{}, &SelectionError{Max: len(columns), Empty: true}
	}
	if err := ValidatePlan(agg, group, NameSet(columns)); err != nil {
		return model.AggregationPlan{}, err
	}
	ops, err := BuildOperations(agg, b.Request.Operations)
	if err != nil {
		return model.AggregationPlan{}, err
	}
	return model.AggregationPlan{AggColumns: agg, GroupColumns: group, Operations: ops}, nil
}

// Options tunes Run
type Options struct {
	Logger *slog.Logger
}

// Run validates plan against table, coerces the aggregation columns and
// executes the aggregation. table is not modified.
func Run(ctx context.Context, table *model.Table, plan model.AggregationPlan, opts Options) (*model.ResultTable, *RunReport, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With(slog.String("component", "pipeline"))
	t := newTracker(logger, table.RowCount())

	var (
		coerced *model.Table
		result  *model.ResultTable
	)

	err := t.stage("validation", func() (int, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := ValidatePlan(plan.AggColumns, plan.GroupColumns, table.NameSet()); err != nil {
			return 0, err
		}
		tokens := make(map[string]string, len(plan.Operations))
		for col, op := range plan.Operations {
			tokens[col] = string(op)
		}
		_, err := BuildOperations(plan.AggColumns, tokens)
		return table.RowCount(), err
	})
	if err != nil {
		return nil, t.finish(), fmt.Errorf("validate plan: %w", err)
	}

	err = t.stage("coercion", func() (int, error) {
		var report CoerceReport
		coerced, report = coerce(table, plan.AggColumns)
		t.report.Coercion = report
		return coerced.RowCount(), nil
	})
	if err != nil {
		return nil, t.finish(), err
	}

	err = t.stage("aggregation", func() (int, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		var err error
		result, err = Execute(coerced, plan)
		if err != nil {
			return 0, err
		}
		return len(result.Rows), nil
	})
	if err != nil {
		return nil, t.finish(), fmt.Errorf("aggregate: %w", err)
	}

	report := t.finish()
	report.Groups = len(result.Rows)
	logger.Info("aggregation completed",
		slog.Int("rows", report.Rows),
		slog.Int("groups", report.Groups),
		slog.Any("coerced_columns", report.Coercion.Columns),
		slog.Int("degraded_cells", report.Coercion.Degraded),
		slog.Duration("duration", report.Duration),
	)
	return result, report, nil
}
