package pipeline

import (
	"strings"

	"excel-aggregator/internal/model"
)

// BuildOperations assigns one operation to every aggregation column. Tokens
// are matched case-insensitively after trimming; a blank token counts as
// missing. Tokens for columns outside aggColumns are ignored.
func BuildOperations(aggColumns model.Selection, tokens map[string]string) (model.OperationAssignment, error) {
	assignment := make(model.OperationAssignment, len(aggColumns))
	opErr := &OperationError{}

	for _, col := range aggColumns {
		tok, ok := tokens[col]
		if !ok || strings.TrimSpace(tok) == "" {
			opErr.Missing = append(opErr.Missing, col)
			continue
		}
		op, valid := model.ParseOperation(tok)
		if !valid {
			opErr.Invalid = append(opErr.Invalid, InvalidOperation{Column: col, Token: tok})
			continue
		}
		assignment[col] = op
	}

	if len(opErr.Missing) > 0 || len(opErr.Invalid) > 0 {
		return nil, opErr
	}
	return assignment, nil
}
