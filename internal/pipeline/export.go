package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/xuri/excelize/v2"

	"excel-aggregator/internal/model"
	"excel-aggregator/pkg/utils"
)

// ResultSheet is the sheet name used for exported results
const ResultSheet = "Aggregated"

// OutputName derives the result file name from the source file name
func OutputName(sourceName, ext string) string {
	return fmt.Sprintf("aggregated_%s%s", utils.FileStem(sourceName), ext)
}

// WriteWorkbook writes result as an xlsx workbook: a bold header row, the
// group key columns first, missing values as empty cells.
func WriteWorkbook(w io.Writer, result *model.ResultTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ResultSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := result.Headers()
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(ResultSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range result.Rows {
		values := result.Row(i)
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = v.Interface()
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ResultSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if len(headers) > 0 {
		if err := styleHeader(f, len(headers)); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func styleHeader(f *excelize.File, width int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(width, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(ResultSheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(width)
	if err != nil {
		return err
	}
	return f.SetColWidth(ResultSheet, "A", lastCol, 16)
}

// WriteCSV writes result as CSV with the same column layout as WriteWorkbook
func WriteCSV(w io.Writer, result *model.ResultTable) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(result.Headers()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range result.Rows {
		values := result.Row(i)
		record := make([]string, len(values))
		for j, v := range values {
			record[j] = v.String()
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WritePreview prints up to limit rows as an aligned text table
func WritePreview(w io.Writer, result *model.ResultTable, limit int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, h := range result.Headers() {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw)
	for i := range result.Rows {
		if limit > 0 && i >= limit {
			break
		}
		for j, v := range result.Row(i) {
			if j > 0 {
				fmt.Fprint(tw, "\t")
			}
			if v.IsMissing() {
				fmt.Fprint(tw, "NaN")
				continue
			}
			fmt.Fprint(tw, v.String())
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
