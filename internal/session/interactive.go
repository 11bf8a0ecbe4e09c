// Package session builds aggregation plans by prompting a user on a terminal.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"excel-aggregator/internal/model"
	"excel-aggregator/internal/pipeline"
)

var (
	// ErrCancelled is returned when the user declines the summary
	ErrCancelled = errors.New("operation cancelled")
	// ErrInputClosed is returned when input ends before the plan is complete
	ErrInputClosed = errors.New("input closed before the plan was complete")
)

// Interactive is a pipeline.PlanBuilder that asks for aggregation columns,
// one operation per column and grouping columns, re-prompting until every
// answer is valid.
type Interactive struct {
	in  *bufio.Scanner
	out io.Writer
}

var _ pipeline.PlanBuilder = (*Interactive)(nil)

func NewInteractive(in io.Reader, out io.Writer) *Interactive {
	return &Interactive{in: bufio.NewScanner(in), out: out}
}

// PrintColumns writes the numbered column menu
func PrintColumns(w io.Writer, columns []string) {
	fmt.Fprintln(w, "\nAvailable columns:")
	for i, c := range columns {
		fmt.Fprintf(w, "%d. %s\n", i+1, c)
	}
}

// BuildPlan implements pipeline.PlanBuilder
func (s *Interactive) BuildPlan(ctx context.Context, columns []string) (model.AggregationPlan, error) {
	fmt.Fprintln(s.out, "\n=== Aggregation Setup ===")

	fmt.Fprintln(s.out, "\nStep 1: Select columns for aggregation")
	agg, err := s.selectColumns(ctx, columns, "Enter columns to aggregate (comma-separated list of numbers or names)", nil)
	if err != nil {
		return model.AggregationPlan{}, err
	}

	fmt.Fprintln(s.out, "\nStep 2: Select operations for each aggregation column")
	ops, err := s.selectOperations(ctx, agg)
	if err != nil {
		return model.AggregationPlan{}, err
	}

	fmt.Fprintln(s.out, "\nStep 3: Select columns for grouping")
	fmt.Fprintln(s.out, "These will be the columns that define how the data is grouped")
	PrintColumns(s.out, columns)
	group, err := s.selectColumns(ctx, columns, "Enter columns to group by (comma-separated list of numbers or names)", agg)
	if err != nil {
		return model.AggregationPlan{}, err
	}

	plan := model.AggregationPlan{AggColumns: agg, GroupColumns: group, Operations: ops}
	s.printSummary(plan)

	answer, err := s.prompt(ctx, "\nProceed with these settings? (y/n)")
	if err != nil {
		return model.AggregationPlan{}, err
	}
	if strings.ToLower(answer) != "y" {
		fmt.Fprintln(s.out, "Operation cancelled.")
		return model.AggregationPlan{}, ErrCancelled
	}
	return plan, nil
}

// selectColumns loops until the answer resolves to a non-empty selection
// that shares no column with exclude
func (s *Interactive) selectColumns(ctx context.Context, columns []string, label string, exclude model.Selection) (model.Selection, error) {
	for {
		fmt.Fprintln(s.out, "\nYou can select columns by:")
		fmt.Fprintln(s.out, "1. Column numbers (e.g., 1,3,5)")
		fmt.Fprintln(s.out, "2. Column names (e.g., Revenue,Date,Product)")
		fmt.Fprintln(s.out, "3. Mix of both (e.g., 1,Revenue,3,Product)")

		answer, err := s.prompt(ctx, "\n"+label)
		if err != nil {
			return nil, err
		}
		if answer == "" {
			fmt.Fprintln(s.out, "No selection made. Please try again.")
			continue
		}

		selection, err := pipeline.ResolveColumns(pipeline.SplitTokens(answer), columns)
		if err != nil {
			fmt.Fprintf(s.out, "\n%s\nPlease try again.\n", capitalize(err.Error()))
			continue
		}

		if exclude != nil {
			if err := pipeline.ValidatePlan(exclude, selection, pipeline.NameSet(columns)); err != nil {
				fmt.Fprintf(s.out, "\nError: %s\nPlease try again.\n", capitalize(err.Error()))
				continue
			}
		}
		return selection, nil
	}
}

func (s *Interactive) selectOperations(ctx context.Context, agg model.Selection) (model.OperationAssignment, error) {
	names := model.OperationNames()
	fmt.Fprintf(s.out, "\nAvailable operations: %s\n", strings.Join(names, ", "))

	ops := make(model.OperationAssignment, len(agg))
	for _, col := range agg {
		for {
			answer, err := s.prompt(ctx, fmt.Sprintf("Enter operation for '%s' [%s]", col, strings.Join(names, "/")))
			if err != nil {
				return nil, err
			}
			assigned, err := pipeline.BuildOperations(model.Selection{col}, map[string]string{col: answer})
			if err != nil {
				fmt.Fprintf(s.out, "Invalid operation. Please choose from: %s\n", strings.Join(names, ", "))
				continue
			}
			ops[col] = assigned[col]
			break
		}
	}
	return ops, nil
}

func (s *Interactive) printSummary(plan model.AggregationPlan) {
	fmt.Fprintln(s.out, "\n=== Operation Summary ===")
	fmt.Fprintln(s.out, "Aggregating columns:")
	for _, col := range plan.AggColumns {
		fmt.Fprintf(s.out, "- %s (%s)\n", col, plan.Operations[col])
	}
	fmt.Fprintln(s.out, "\nGrouping by columns:")
	for _, col := range plan.GroupColumns {
		fmt.Fprintf(s.out, "- %s\n", col)
	}
}

// prompt prints label and reads one trimmed line
func (s *Interactive) prompt(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(s.out, "%s: ", label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
