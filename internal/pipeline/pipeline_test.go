package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"excel-aggregator/internal/model"
)

func TestRun(t *testing.T) {
	table := model.MustTable(
		col("Region", texts("A", "A", "B")),
		col("Revenue", texts("$10.00", "$20.00", "bad")),
	)
	p := plan([]string{"Revenue"}, []string{"Region"}, map[string]model.Operation{"Revenue": model.OpSum})

	result, report, err := Run(context.Background(), table, p, Options{})
	require.NoError(t, err)

	a, ok := result.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, model.Number(30), a.Values[0])
	b, ok := result.Lookup("B")
	require.True(t, ok)
	assert.Equal(t, model.Number(0), b.Values[0])

	assert.Equal(t, 3, report.Rows)
	assert.Equal(t, 2, report.Groups)
	assert.Equal(t, []string{"Revenue"}, report.Coercion.Columns)
	assert.Equal(t, 1, report.Coercion.Degraded)
	require.Len(t, report.Stages, 3)
	assert.Equal(t, "validation", report.Stages[0].Stage)
	assert.Equal(t, "coercion", report.Stages[1].Stage)
	assert.Equal(t, "aggregation", report.Stages[2].Stage)
}

func TestRunCountAfterCoercion(t *testing.T) {
	table := model.MustTable(
		col("Region", texts("A", "A", "A")),
		col("Revenue", texts("$10.00", "$20.00", "bad")),
	)
	p := plan([]string{"Revenue"}, []string{"Region"}, map[string]model.Operation{"Revenue": model.OpCount})

	result, _, err := Run(context.Background(), table, p, Options{})
	require.NoError(t, err)
	assert.Equal(t, model.Number(2), result.Rows[0].Values[0])
}

func TestRunRejectsInvalidPlan(t *testing.T) {
	tests := []struct {
		name string
		plan model.AggregationPlan
		want error
	}{
		{
			name: "role conflict",
			plan: plan([]string{"Revenue"}, []string{"Revenue"}, map[string]model.Operation{"Revenue": model.OpSum}),
			want: ErrColumnRoleConflict,
		},
		{
			name: "unknown column",
			plan: plan([]string{"Cost"}, []string{"Region"}, map[string]model.Operation{"Cost": model.OpSum}),
			want: ErrUnknownColumns,
		},
		{
			name: "missing operation",
			plan: plan([]string{"Revenue"}, []string{"Region"}, nil),
			want: ErrMissingOperation,
		},
		{
			name: "invalid operation",
			plan: plan([]string{"Revenue"}, []string{"Region"}, map[string]model.Operation{"Revenue": "mode"}),
			want: ErrInvalidOperation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, report, err := Run(context.Background(), salesTable(), tt.plan, Options{})
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, result)
			assert.NotNil(t, report)
		})
	}
}

func TestRunHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := plan([]string{"Revenue"}, []string{"Region"}, map[string]model.Operation{"Revenue": model.OpSum})
	_, _, err := Run(ctx, salesTable(), p, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRequestPlanBuilder(t *testing.T) {
	columns := []string{"Region", "Revenue", "Units"}

	b := RequestPlanBuilder{Request: model.AggregationRequest{
		AggColumns:   []string{"Revenue", "Units", "Revenue"},
		GroupColumns: []string{"Region"},
		Operations:   map[string]string{"Revenue": "Sum", "Units": "mean"},
	}}
	got, err := b.BuildPlan(context.Background(), columns)
	require.NoError(t, err)
	assert.Equal(t, model.Selection{"Revenue", "Units"}, got.AggColumns)
	assert.Equal(t, model.Selection{"Region"}, got.GroupColumns)
	assert.Equal(t, model.OperationAssignment{"Revenue": model.OpSum, "Units": model.OpMean}, got.Operations)
}

func TestRequestPlanBuilderErrors(t *testing.T) {
	columns := []string{"Region", "Revenue"}

	tests := []struct {
		name string
		req  model.AggregationRequest
		want error
	}{
		{"empty aggregation", model.AggregationRequest{GroupColumns: []string{"Region"}}, ErrInvalidSelection},
		{"empty grouping", model.AggregationRequest{AggColumns: []string{"Revenue"}}, ErrInvalidSelection},
		{
			"unknown before operations",
			model.AggregationRequest{AggColumns: []string{"Cost"}, GroupColumns: []string{"Region"}},
			ErrUnknownColumns,
		},
		{
			"overlap",
			model.AggregationRequest{
				AggColumns: []string{"Revenue"}, GroupColumns: []string{"Revenue"},
				Operations: map[string]string{"Revenue": "sum"},
			},
			ErrColumnRoleConflict,
		},
		{
			"bad operation",
			model.AggregationRequest{
				AggColumns: []string{"Revenue"}, GroupColumns: []string{"Region"},
				Operations: map[string]string{"Revenue": "total"},
			},
			ErrInvalidOperation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RequestPlanBuilder{Request: tt.req}.BuildPlan(context.Background(), columns)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
