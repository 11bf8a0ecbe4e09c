package pipeline

import (
	"strconv"
	"strings"

	"excel-aggregator/internal/model"
)

// CoerceReport describes what the coercion stage changed
type CoerceReport struct {
	Columns  []string `json:"columns"`
	Degraded int      `json:"degraded_cells"`
}

// Coerce returns a copy of table in which every aggregation column whose
// first non-missing value is text has been converted to numbers. The input
// table is not modified. Cells that do not survive the conversion become
// missing; coercion never fails.
func Coerce(table *model.Table, aggColumns model.Selection) *model.Table {
	out, _ := coerce(table, aggColumns)
	return out
}

func coerce(table *model.Table, aggColumns model.Selection) (*model.Table, CoerceReport) {
	var report CoerceReport
	out := table
	for _, name := range aggColumns {
		col, ok := table.Column(name)
		if !ok || !isDirtyNumeric(col.Values) {
			continue
		}
		values := make([]model.Value, len(col.Values))
		for i, v := range col.Values {
			values[i] = coerceValue(v)
			if !v.IsMissing() && values[i].IsMissing() {
				report.Degraded++
			}
		}
		out = out.WithColumn(model.Column{Name: name, Values: values})
		report.Columns = append(report.Columns, name)
	}
	return out, report
}

// isDirtyNumeric decides from the first non-missing value
func isDirtyNumeric(values []model.Value) bool {
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		return v.IsText()
	}
	return false
}

// coerceValue keeps digits and decimal points of a text cell and parses the
// rest. Numbers already present in the column are kept as they are.
func coerceValue(v model.Value) model.Value {
	if !v.IsText() {
		return v
	}
	cleaned := stripNonNumeric(v.Text)
	if cleaned == "" {
		return model.Missing()
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return model.Missing()
	}
	return model.Number(f)
}

func stripNonNumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
