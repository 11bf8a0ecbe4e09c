package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"excel-aggregator/internal/config"
	"excel-aggregator/internal/logging"
	"excel-aggregator/internal/model"
	"excel-aggregator/internal/pipeline"
	"excel-aggregator/internal/session"
)

const previewRows = 5

type options struct {
	file        string
	path        string
	showColumns bool
	aggregate   bool
	format      string
	logLevel    string
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "aggregator",
		Short: "Excel pivot table generator",
		Long: `Group the rows of a spreadsheet by one or more columns and reduce other
columns with sum, mean, count, min, max, median or std.

The columns of the input are always listed first. With --aggregate the
command asks for the aggregation columns, one operation per column and the
grouping columns, then writes aggregated_<name>.xlsx next to the input.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "input workbook or CSV (default <path>/input.xlsx)")
	cmd.Flags().StringVar(&opts.path, "path", "", "working directory (default: directory of the executable)")
	cmd.Flags().BoolVar(&opts.showColumns, "show-columns", false, "display column headers")
	cmd.Flags().BoolVar(&opts.aggregate, "aggregate", false, "perform aggregation")
	cmd.Flags().StringVar(&opts.format, "format", "xlsx", "output format: xlsx or csv")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	return cmd
}

func run(ctx context.Context, opts *options, in io.Reader, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.format != "xlsx" && opts.format != "csv" {
		return fmt.Errorf("unsupported output format %q", opts.format)
	}
	logger := logging.New(config.LoggingConfig{Level: opts.logLevel, Format: "text"}, errOut)

	workDir, err := workingDir(opts.path)
	if err != nil {
		return err
	}
	file := opts.file
	if file == "" {
		file = filepath.Join(workDir, "input.xlsx")
	}

	table, err := pipeline.ReadFile(file)
	if err != nil {
		return err
	}

	// columns are always shown first
	session.PrintColumns(out, table.Names())
	if !opts.aggregate {
		return nil
	}

	plan, err := session.NewInteractive(in, out).BuildPlan(ctx, table.Names())
	if errors.Is(err, session.ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}

	result, _, err := pipeline.Run(ctx, table, plan, pipeline.Options{Logger: logger})
	if err != nil {
		fmt.Fprintf(out, "\nError during aggregation: %v\n", err)
		return err
	}

	outPath := filepath.Join(workDir, pipeline.OutputName(file, "."+opts.format))
	if err := writeResult(outPath, opts.format, result); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nSuccess! Output saved to: %s\n", outPath)

	fmt.Fprintln(out, "\nPreview of the result:")
	return pipeline.WritePreview(out, result, previewRows)
}

func writeResult(path, format string, result *model.ResultTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if format == "csv" {
		err = pipeline.WriteCSV(f, result)
	} else {
		err = pipeline.WriteWorkbook(f, result)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func workingDir(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	return filepath.Dir(exe), nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
