package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds reported by the planning and validation stages. Concrete errors
// carry every offending item and match these with errors.Is.
var (
	ErrInvalidSelection   = errors.New("invalid column selection")
	ErrMissingOperation   = errors.New("missing operation")
	ErrInvalidOperation   = errors.New("invalid operation")
	ErrUnknownColumns     = errors.New("unknown columns")
	ErrColumnRoleConflict = errors.New("column role conflict")
)

// SelectionError lists every token that could not be resolved to a column.
// Empty is set when nothing valid was selected at all.
type SelectionError struct {
	Tokens []string
	Max    int
	Empty  bool
}

func (e *SelectionError) Error() string {
	if len(e.Tokens) == 0 {
		return "no valid columns selected"
	}
	parts := make([]string, len(e.Tokens))
	for i, tok := range e.Tokens {
		if isIndexToken(tok) {
			parts[i] = fmt.Sprintf("Index %s", tok)
		} else {
			parts[i] = fmt.Sprintf("Column '%s'", tok)
		}
	}
	return "invalid selections: " + strings.Join(parts, ", ")
}

func (e *SelectionError) Unwrap() error { return ErrInvalidSelection }

// InvalidOperation pairs a column with the token that was rejected for it
type InvalidOperation struct {
	Column string `json:"column"`
	Token  string `json:"token"`
}

// OperationError lists aggregation columns without an operation and columns
// whose operation token is not supported.
type OperationError struct {
	Missing []string
	Invalid []InvalidOperation
}

func (e *OperationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "no operation for "+quoteJoin(e.Missing))
	}
	for _, inv := range e.Invalid {
		parts = append(parts, fmt.Sprintf("invalid operation %q for '%s'", inv.Token, inv.Column))
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes whichever kinds are present so errors.Is matches both.
func (e *OperationError) Unwrap() []error {
	var errs []error
	if len(e.Missing) > 0 {
		errs = append(errs, ErrMissingOperation)
	}
	if len(e.Invalid) > 0 {
		errs = append(errs, ErrInvalidOperation)
	}
	return errs
}

// ColumnsError reports a set of columns that failed plan validation
type ColumnsError struct {
	Kind    error
	Columns []string
}

func (e *ColumnsError) Error() string {
	switch e.Kind {
	case ErrColumnRoleConflict:
		return fmt.Sprintf("columns %s cannot be used for both aggregation and grouping", quoteJoin(e.Columns))
	default:
		return fmt.Sprintf("invalid column names provided: %s", quoteJoin(e.Columns))
	}
}

func (e *ColumnsError) Unwrap() error { return e.Kind }

func quoteJoin(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = "'" + n + "'"
	}
	return strings.Join(q, ", ")
}
