package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/auditlab-io/tableaudit/pkg/config"
	"github.com/auditlab-io/tableaudit/pkg/dataset"
	"github.com/auditlab-io/tableaudit/pkg/engine"
	"github.com/auditlab-io/tableaudit/pkg/loader"
	"github.com/auditlab-io/tableaudit/pkg/report"
	"github.com/auditlab-io/tableaudit/pkg/reporter"
)

type analyzeOptions struct {
	mysqlDSN  string
	query     string
	format    string
	output    string
	outputDir string
	exportCSV string
	delimiter string

	missingRatio float64
	zscore       float64
	trendPct     float64
	trendSevere  float64
	criticalFlr  float64
	warningFlr   float64
	severeCount  int
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [file.csv]",
		Short: "Audit a CSV file or a MySQL query result",
		Long: `Audit a table loaded from a CSV file or, with --mysql-dsn, from the result
of a SQL query. The report is written to stdout, to --output, or into
--output-dir with a timestamped filename; --export-csv writes the input back
out with per-column anomaly flag columns appended.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.mysqlDSN, "mysql-dsn", "", `MySQL DSN to audit a query result (e.g. "user:pass@tcp(127.0.0.1:3306)/db")`)
	cmd.Flags().StringVar(&opts.query, "query", "", "SQL query to audit (required with --mysql-dsn)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "report format (text, json, markdown)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "write the report into a directory with a timestamped filename")
	cmd.Flags().StringVar(&opts.exportCSV, "export-csv", "", "write the table with anomaly flag columns to a file")
	cmd.Flags().StringVar(&opts.delimiter, "delimiter", "", "CSV field delimiter (default: comma)")

	cmd.Flags().Float64Var(&opts.missingRatio, "missing-ratio-threshold", 0, "override the missing-value ratio threshold")
	cmd.Flags().Float64Var(&opts.zscore, "zscore-threshold", 0, "override the anomaly Z-score threshold")
	cmd.Flags().Float64Var(&opts.trendPct, "trend-pct-threshold", 0, "override the trend change threshold")
	cmd.Flags().Float64Var(&opts.trendSevere, "trend-severe-pct", 0, "override the severe trend cutoff")
	cmd.Flags().Float64Var(&opts.criticalFlr, "quality-critical-floor", 0, "override the critical quality floor")
	cmd.Flags().Float64Var(&opts.warningFlr, "quality-warning-floor", 0, "override the warning quality floor")
	cmd.Flags().IntVar(&opts.severeCount, "anomaly-severe-count", 0, "override the severe anomaly count")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *analyzeOptions) error {
	cfg, err := loadThresholds()
	if err != nil {
		return err
	}
	applyOverrides(cmd, opts, &cfg)

	var format reporter.Format
	switch strings.ToLower(opts.format) {
	case "json":
		format = reporter.JSONFormat
	case "markdown", "md":
		format = reporter.MarkdownFormat
	case "text", "":
		format = reporter.TextFormat
	default:
		return fmt.Errorf("unsupported report format: %s", opts.format)
	}

	ds, err := loadDataset(cmd, args, opts)
	if err != nil {
		return err
	}

	rep, err := engine.Analyze(ds, cfg)
	if err != nil {
		return err
	}

	rpt := reporter.NewReporter(format)
	switch {
	case opts.outputDir != "":
		path, err := rpt.Save(rep, opts.outputDir, "")
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
	case opts.output != "":
		out, err := rpt.Render(rep)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.output, []byte(out), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	default:
		out, err := rpt.Render(rep)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
	}

	if opts.exportCSV != "" {
		f, err := os.Create(opts.exportCSV)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		if err := reporter.ExportCSV(ds, rep, f); err != nil {
			f.Close()
			return fmt.Errorf("failed to export csv: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	switch rep.Verdict {
	case report.VerdictCritical:
		os.Exit(exitCritical)
	case report.VerdictWarning:
		os.Exit(exitWarning)
	}
	return nil
}

// loadDataset builds the dataset from the positional CSV file, stdin ("-"),
// or a MySQL query when --mysql-dsn is set.
func loadDataset(cmd *cobra.Command, args []string, opts *analyzeOptions) (*dataset.Dataset, error) {
	ctx := cmd.Context()

	if opts.mysqlDSN != "" {
		if opts.query == "" {
			return nil, fmt.Errorf("--query is required with --mysql-dsn")
		}
		return loader.NewSQLLoader(opts.mysqlDSN, opts.query).Load(ctx)
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("provide a csv file to audit, or use --mysql-dsn with --query")
	}

	var in io.ReadCloser
	if args[0] == "-" {
		in = io.NopCloser(cmd.InOrStdin())
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		in = f
	}
	defer in.Close()

	csvLoader := loader.NewCSVLoader(in)
	if opts.delimiter != "" {
		csvLoader.Comma = []rune(opts.delimiter)[0]
	}
	return csvLoader.Load(ctx)
}

// applyOverrides copies each threshold flag the user actually set into cfg.
func applyOverrides(cmd *cobra.Command, opts *analyzeOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("missing-ratio-threshold") {
		cfg.MissingRatioThreshold = opts.missingRatio
	}
	if flags.Changed("zscore-threshold") {
		cfg.ZScoreThreshold = opts.zscore
	}
	if flags.Changed("trend-pct-threshold") {
		cfg.TrendPctThreshold = opts.trendPct
	}
	if flags.Changed("trend-severe-pct") {
		cfg.TrendSeverePct = opts.trendSevere
	}
	if flags.Changed("quality-critical-floor") {
		cfg.QualityCriticalFloor = opts.criticalFlr
	}
	if flags.Changed("quality-warning-floor") {
		cfg.QualityWarningFloor = opts.warningFlr
	}
	if flags.Changed("anomaly-severe-count") {
		cfg.AnomalySevereCount = opts.severeCount
	}
}
