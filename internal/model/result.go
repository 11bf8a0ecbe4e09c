package model

// ResultTable is the output of an aggregation: one row per distinct group key,
// group columns first, then one column per aggregation column.
type ResultTable struct {
	GroupColumns []string    `json:"group_columns"`
	AggColumns   []string    `json:"agg_columns"`
	Operations   []Operation `json:"operations"`
	Rows         []ResultRow `json:"rows"`
}

// ResultRow holds one group's key and its aggregated values, aligned with
// ResultTable.GroupColumns and ResultTable.AggColumns.
type ResultRow struct {
	Key    []Value `json:"key"`
	Values []Value `json:"values"`
}

// Headers returns the output column names
func (r *ResultTable) Headers() []string {
	h := make([]string, 0, len(r.GroupColumns)+len(r.AggColumns))
	h = append(h, r.GroupColumns...)
	return append(h, r.AggColumns...)
}

// Row returns row i flattened in header order
func (r *ResultTable) Row(i int) []Value {
	row := r.Rows[i]
	out := make([]Value, 0, len(row.Key)+len(row.Values))
	out = append(out, row.Key...)
	return append(out, row.Values...)
}

// Lookup finds the row whose key renders to the given strings; used by
// callers and tests that address a group by its printed key.
func (r *ResultTable) Lookup(key ...string) (ResultRow, bool) {
	for _, row := range r.Rows {
		if len(row.Key) != len(key) {
			continue
		}
		match := true
		for i, v := range row.Key {
			if v.String() != key[i] {
				match = false
				break
			}
		}
		if match {
			return row, true
		}
	}
	return ResultRow{}, false
}

// Value returns the aggregated value of column col in row
func (r *ResultTable) Value(row ResultRow, col string) (Value, bool) {
	for i, c := range r.AggColumns {
		if c == col {
			return row.Values[i], true
		}
	}
	return Value{}, false
}
