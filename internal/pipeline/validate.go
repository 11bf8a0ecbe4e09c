package pipeline

import "excel-aggregator/internal/model"

// ValidatePlan checks that every aggregation and grouping column exists and
// that no column is used in both roles. Unknown columns are reported first;
// the role check only runs once all columns are known.
func ValidatePlan(aggColumns, groupColumns model.Selection, available map[string]bool) error {
	var missing []string
	seen := make(map[string]bool)
	for _, name := range append(append([]string{}, aggColumns...), groupColumns...) {
		if seen[name] {
			continue
		}
		seen[name] = true
		if !available[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &ColumnsError{Kind: ErrUnknownColumns, Columns: missing}
	}

	var overlap []string
	for _, name := range dedupe(aggColumns) {
		if groupColumns.Contains(name) {
			overlap = append(overlap, name)
		}
	}
	if len(overlap) > 0 {
		return &ColumnsError{Kind: ErrColumnRoleConflict, Columns: overlap}
	}
	return nil
}

// NameSet turns a column list into the set form ValidatePlan expects
func NameSet(columns []string) map[string]bool {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	return set
}
