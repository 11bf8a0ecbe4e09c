package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"excel-aggregator/internal/model"
)

func sampleResult(t *testing.T) *model.ResultTable {
	t.Helper()
	table := model.MustTable(
		col("Region", texts("A", "A", "B")),
		col("Revenue", nums(10, 30, 20)),
		col("Units", []model.Value{model.Number(1), model.Number(3), model.Missing()}),
	)
	result, _, err := Run(context.Background(), table, plan(
		[]string{"Revenue", "Units"}, []string{"Region"},
		map[string]model.Operation{"Revenue": model.OpSum, "Units": model.OpMean},
	), Options{})
	require.NoError(t, err)
	return result
}

func TestWriteWorkbookRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sampleResult(t)))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, ResultSheet, f.GetSheetName(0))

	table, err := ReadWorkbook(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{"Region", "Revenue", "Units"}, table.Names())

	region, _ := table.Column("Region")
	assert.Equal(t, texts("A", "B"), region.Values)
	revenue, _ := table.Column("Revenue")
	assert.Equal(t, nums(40, 20), revenue.Values)
	units, _ := table.Column("Units")
	assert.Equal(t, []model.Value{model.Number(2), model.Missing()}, units.Values)
}

func TestWriteWorkbookEmptyResult(t *testing.T) {
	result := &model.ResultTable{GroupColumns: []string{"Region"}, AggColumns: []string{"Revenue"}}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, result))

	table, err := ReadWorkbook(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{"Region", "Revenue"}, table.Names())
	assert.Zero(t, table.RowCount())
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResult(t)))
	assert.Equal(t, "Region,Revenue,Units\nA,40,2\nB,20,\n", buf.String())
}

func TestWritePreview(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePreview(&buf, sampleResult(t), 1))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"Region", "Revenue", "Units"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"A", "40", "2"}, strings.Fields(lines[1]))
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "aggregated_sales.xlsx", OutputName("/tmp/in/sales.xlsx", ".xlsx"))
	assert.Equal(t, "aggregated_report.v2.csv", OutputName("report.v2.csv", ".csv"))
}
