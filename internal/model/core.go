package model

import "strings"

// Operation is one of the fixed reductions applied to an aggregation column
type Operation string

const (
	OpSum    Operation = "sum"
	OpMean   Operation = "mean"
	OpCount  Operation = "count"
	OpMin    Operation = "min"
	OpMax    Operation = "max"
	OpMedian Operation = "median"
	OpStd    Operation = "std"
)

var operations = []Operation{OpSum, OpMean, OpCount, OpMin, OpMax, OpMedian, OpStd}

// Operations lists the supported operations in canonical order
func Operations() []Operation {
	out := make([]Operation, len(operations))
	copy(out, operations)
	return out
}

// OperationNames is Operations as plain strings, for prompts and error details
func OperationNames() []string {
	names := make([]string, len(operations))
	for i, op := range operations {
		names[i] = string(op)
	}
	return names
}

// ParseOperation trims and lower-cases token and reports whether it names a
// supported operation.
func ParseOperation(token string) (Operation, bool) {
	op := Operation(strings.ToLower(strings.TrimSpace(token)))
	for _, known := range operations {
		if op == known {
			return op, true
		}
	}
	return op, false
}

// Selection is an ordered list of distinct column names chosen for one role
type Selection []string

// Contains reports whether name is selected
func (s Selection) Contains(name string) bool {
	for _, n := range s {
		if n == name {
			return true
		}
	}
	return false
}

// OperationAssignment maps each aggregation column to its operation
type OperationAssignment map[string]Operation

// AggregationPlan is a validated description of one grouped aggregation
type AggregationPlan struct {
	AggColumns   Selection           `json:"agg_columns"`
	GroupColumns Selection           `json:"group_columns"`
	Operations   OperationAssignment `json:"operations"`
}
