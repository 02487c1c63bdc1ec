// Package engine orchestrates one analysis run: quality scan, statistical
// profiling, anomaly and trend detection, severity decision, and report
// assembly.
package engine

import (
	"fmt"
	"strings"

	"github.com/auditlab-io/tableaudit/pkg/anomaly"
	"github.com/auditlab-io/tableaudit/pkg/config"
	"github.com/auditlab-io/tableaudit/pkg/dataset"
	"github.com/auditlab-io/tableaudit/pkg/engine/rules"
	"github.com/auditlab-io/tableaudit/pkg/profile"
	"github.com/auditlab-io/tableaudit/pkg/quality"
	"github.com/auditlab-io/tableaudit/pkg/report"
	"github.com/auditlab-io/tableaudit/pkg/trend"
)

// Analyze runs the audit pipeline over a dataset. It is a pure function of
// the dataset and the configuration: identical inputs produce identical
// reports.
//
// The configuration is validated first, then the dataset; either failure is
// fatal and no partial report is produced.
func Analyze(ds *dataset.Dataset, cfg config.Config) (*report.Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := dataset.Validate(ds); err != nil {
		return nil, err
	}

	// Step 1: quality scan.
	scan := quality.Scan(ds, cfg)
	issues := scan.Issues

	// Step 2: statistical profiling. Columns that cannot be profiled are
	// recorded as findings and excluded from detection.
	profiles := profile.Columns(ds)
	for _, p := range profiles {
		if !p.Insufficient {
			continue
		}
		issues = append(issues, quality.Issue{
			Kind:   quality.IssueInsufficientData,
			Column: p.Column,
			Row:    -1,
			Weight: 1,
			Detail: fmt.Sprintf("%d numeric values, at least 2 required", p.Count),
		})
	}

	// Step 3: anomaly detection against the profiles.
	anomalies := anomaly.Detect(ds, profiles, cfg.ZScoreThreshold)

	// Step 4: trend detection, column by column in dataset order.
	trends := []trend.Finding{}
	for _, p := range profiles {
		if p.Insufficient {
			continue
		}
		series := trend.SeriesFromColumn(ds, ds.ColumnIndex(p.Column))
		trends = append(trends, trend.Detect(series, cfg.TrendPctThreshold)...)
	}

	// Step 5: severity decision.
	outcome := rules.Default().Run(rules.Evidence{
		Config:       cfg,
		QualityScore: scan.Score,
		Issues:       issues,
		Anomalies:    anomalies,
		Trends:       trends,
	})

	// Step 6: assembly.
	return assemble(ds, scan, profiles, issues, anomalies, trends, outcome), nil
}

// assemble packages the pipeline outputs into the final report. Pure
// aggregation; every list is present even when empty.
func assemble(
	ds *dataset.Dataset,
	scan quality.Result,
	profiles []profile.ColumnProfile,
	issues []quality.Issue,
	anomalies []anomaly.Finding,
	trends []trend.Finding,
	outcome rules.Outcome,
) *report.Report {
	analyzed := 0
	for _, p := range profiles {
		if !p.Insufficient {
			analyzed++
		}
	}

	totalCells := ds.NumRows() * ds.NumColumns()
	stats := report.DatasetStats{
		Rows:            ds.NumRows(),
		Columns:         ds.NumColumns(),
		MissingCells:    scan.MissingCells,
		MissingPercent:  100 * float64(scan.MissingCells) / float64(totalCells),
		DuplicateRows:   scan.DuplicateRows,
		NumericColumns:  len(profiles),
		AnalyzedColumns: analyzed,
	}

	recommendations := outcome.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}

	rep := &report.Report{
		Verdict:         outcome.Verdict,
		Urgent:          outcome.Verdict == report.VerdictCritical,
		QualityScore:    scan.Score,
		Stats:           stats,
		Profiles:        profiles,
		QualityIssues:   issues,
		Anomalies:       anomalies,
		Trends:          trends,
		Recommendations: recommendations,
	}
	rep.Summary = buildSummary(rep)
	return rep
}

// buildSummary renders the one-line digest shown in banners and logs.
func buildSummary(rep *report.Report) string {
	var parts []string
	if n := len(rep.Anomalies); n > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", n, pluralize(n, "anomaly", "anomalies")))
	}
	if n := len(rep.Trends); n > 0 {
		parts = append(parts, fmt.Sprintf("%d trend %s", n, pluralize(n, "break", "breaks")))
	}
	if n := len(rep.QualityIssues); n > 0 {
		parts = append(parts, fmt.Sprintf("%d quality %s", n, pluralize(n, "issue", "issues")))
	}
	if len(parts) == 0 {
		parts = append(parts, "no findings")
	}
	return fmt.Sprintf("%s: %s, quality score %.0f/100",
		strings.ToUpper(string(rep.Verdict)), strings.Join(parts, ", "), rep.QualityScore)
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
