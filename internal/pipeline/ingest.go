package pipeline

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"excel-aggregator/internal/model"
	"excel-aggregator/pkg/utils"
)

// ------------------- Ingestion -------------------

// ErrNoHeader is returned when a source has no header row
var ErrNoHeader = errors.New("source has no header row")

// ErrUnsupportedFormat is returned for files that are neither workbooks nor CSV
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrDuplicateHeader is returned when a pasted table repeats a header
var ErrDuplicateHeader = errors.New("duplicate header")

// SupportedExtension reports whether name has an extension ReadSource can parse
func SupportedExtension(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".csv":
		return true
	}
	return false
}

// ReadFile loads a table from a workbook or CSV file on disk
func ReadFile(path string) (*model.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer file.Close()
	return ReadSource(filepath.Base(path), file)
}

// ReadSource picks the reader from the extension of name
func ReadSource(name string, r io.Reader) (*model.Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadWorkbook(r)
	case ".csv":
		return ReadCSV(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// ReadBytes is ReadSource over an in-memory file
func ReadBytes(name string, data []byte) (*model.Table, error) {
	return ReadSource(name, bytes.NewReader(data))
}

// ------------------- Workbook Ingestion -------------------

// ReadWorkbook reads the first sheet of a workbook. The first row is the
// header; cells keep their stored type so that numbers typed as text in the
// sheet stay text until coercion.
func ReadWorkbook(r io.Reader) (*model.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	names := headerNames(rows[0], width)
	values := make([][]model.Value, width)

	for r := 1; r < len(rows); r++ {
		row := rows[r]
		if isBlankRow(row) {
			continue
		}
		for c := 0; c < width; c++ {
			raw := ""
			if c < len(row) {
				raw = row[c]
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			v, err := workbookValue(f, sheet, cell, raw)
			if err != nil {
				return nil, err
			}
			values[c] = append(values[c], v)
		}
	}
	return buildTable(names, values)
}

// workbookValue maps a stored cell onto a Value by its cell type
func workbookValue(f *excelize.File, sheet, cell, raw string) (model.Value, error) {
	if raw == "" {
		return model.Missing(), nil
	}
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return model.Value{}, fmt.Errorf("failed to read cell %s: %w", cell, err)
	}
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return model.Number(n), nil
		}
		return model.Text(raw), nil
	case excelize.CellTypeBool:
		if raw == "1" || strings.EqualFold(raw, "true") {
			return model.Number(1), nil
		}
		return model.Number(0), nil
	case excelize.CellTypeError:
		return model.Missing(), nil
	default:
		return model.Text(raw), nil
	}
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// headerNames names blank headers "Unnamed: <i>" and suffixes repeats with
// ".1", ".2" so column names stay unique
func headerNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = utils.CleanHeader(header[i])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for seen[name] > 0 {
			name = fmt.Sprintf("%s.%d", base, seen[base])
			seen[base]++
		}
		seen[name]++
		names[i] = name
	}
	return names
}

func buildTable(names []string, values [][]model.Value) (*model.Table, error) {
	rows := 0
	for _, col := range values {
		if len(col) > rows {
			rows = len(col)
		}
	}
	columns := make([]model.Column, len(names))
	for i, name := range names {
		col := values[i]
		for len(col) < rows {
			col = append(col, model.Missing())
		}
		if col == nil {
			col = []model.Value{}
		}
		columns[i] = model.Column{Name: name, Values: col}
	}
	return model.NewTable(columns...)
}

// ------------------- CSV Ingestion -------------------

// ReadCSV reads a header row followed by records
func ReadCSV(r io.Reader) (*model.Table, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var records [][]string
	width := len(headers)
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}
		if isBlankRow(record) {
			continue
		}
		if len(record) > width {
			width = len(record)
		}
		records = append(records, record)
	}

	names := headerNames(headers, width)
	values := make([][]model.Value, width)
	for c := 0; c < width; c++ {
		cells := make([]interface{}, len(records))
		for r, record := range records {
			if c < len(record) {
				cells[r] = record[c]
			}
		}
		values[c] = typeColumn(cells)
	}
	return buildTable(names, values)
}

// typeColumn types the cells of one text-sourced column as a whole. The
// column is numeric only when every non-blank string cell parses as a
// number; otherwise every non-missing cell is kept as text so the coercion
// stage sees the column as dirty numeric.
func typeColumn(cells []interface{}) []model.Value {
	values := make([]model.Value, len(cells))
	textual := false
	for i, raw := range cells {
		if s, ok := raw.(string); ok {
			raw = utils.ParseValue(s)
		}
		values[i] = model.FromInterface(raw)
		if values[i].IsText() {
			textual = true
		}
	}
	if !textual {
		return values
	}

	for i, v := range values {
		if !v.IsNumber() {
			continue
		}
		if s, ok := cells[i].(string); ok {
			values[i] = model.Text(strings.TrimSpace(s))
		} else {
			values[i] = model.Text(v.String())
		}
	}
	return values
}

// ------------------- Pasted Table Ingestion -------------------

// TableFromPasted converts the front end's pasted table payload. Columns
// are typed the same way CSV columns are. Rows are keyed by header, so
// headers must be unique.
func TableFromPasted(p model.PastedTable) (*model.Table, error) {
	if len(p.Headers) == 0 {
		return nil, ErrNoHeader
	}
	if dup := duplicateHeader(p.Headers); dup != "" {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateHeader, dup)
	}
	names := headerNames(p.Headers, len(p.Headers))
	values := make([][]model.Value, len(names))
	for i, h := range p.Headers {
		cells := make([]interface{}, len(p.Data))
		for r, row := range p.Data {
			cells[r] = row[h]
		}
		values[i] = typeColumn(cells)
	}
	return buildTable(names, values)
}

func duplicateHeader(headers []string) string {
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if seen[h] {
			return h
		}
		seen[h] = true
	}
	return ""
}
