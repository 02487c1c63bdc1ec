// Copyright 2025 AuditLab, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

// Package reporter renders an audit report for human or machine consumers.
package reporter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/auditlab-io/tableaudit/pkg/report"
)

// Format represents the output format of a rendered report.
type Format string

const (
	// JSONFormat renders the report as indented JSON.
	JSONFormat Format = "json"
	// TextFormat renders a sectioned plain-text report.
	TextFormat = "text"
	// MarkdownFormat renders a markdown document with tables.
	MarkdownFormat = "markdown"
)

// Reporter renders reports in one fixed format.
type Reporter struct {
	format Format
}

// NewReporter creates a reporter for the given format.
func NewReporter(format Format) *Reporter {
	return &Reporter{
		format: format,
	}
}

// Render produces the serialized report.
func (r *Reporter) Render(rep *report.Report) (string, error) {
	switch r.format {
	case JSONFormat:
		return r.renderJSON(rep)
	case TextFormat:
		return r.renderText(rep)
	case MarkdownFormat:
		return r.renderMarkdown(rep)
	default:
		return "", fmt.Errorf("unsupported report format: %s", r.format)
	}
}

func (r *Reporter) renderJSON(rep *report.Report) (string, error) {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *Reporter) renderText(rep *report.Report) (string, error) {
	var sb strings.Builder

	sb.WriteString("=== DATA AUDIT REPORT ===\n")
	verdictLine := strings.ToUpper(string(rep.Verdict))
	if rep.Urgent {
		verdictLine += " (urgent)"
	}
	sb.WriteString(fmt.Sprintf("Verdict: %s\n", verdictLine))
	sb.WriteString(fmt.Sprintf("Summary: %s\n", rep.Summary))
	sb.WriteString("\n")

	sb.WriteString("DATASET:\n")
	sb.WriteString(fmt.Sprintf("  Rows: %d\n", rep.Stats.Rows))
	sb.WriteString(fmt.Sprintf("  Columns: %d\n", rep.Stats.Columns))
	sb.WriteString(fmt.Sprintf("  Missing Cells: %d (%.1f%%)\n", rep.Stats.MissingCells, rep.Stats.MissingPercent))
	sb.WriteString(fmt.Sprintf("  Duplicate Rows: %d\n", rep.Stats.DuplicateRows))
	sb.WriteString(fmt.Sprintf("  Numeric Columns: %d (%d analyzed)\n", rep.Stats.NumericColumns, rep.Stats.AnalyzedColumns))
	sb.WriteString(fmt.Sprintf("  Quality Score: %.1f/100\n", rep.QualityScore))
	sb.WriteString("\n")

	sb.WriteString("COLUMN PROFILES:\n")
	if len(rep.Profiles) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, p := range rep.Profiles {
		if p.Insufficient {
			sb.WriteString(fmt.Sprintf("  %s: insufficient data (%d numeric values)\n", p.Column, p.Count))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s: count=%d mean=%.2f stddev=%.2f min=%.2f q1=%.2f median=%.2f q3=%.2f max=%.2f\n",
			p.Column, p.Count, p.Mean, p.StdDev, p.Min, p.Q1, p.Median, p.Q3, p.Max))
	}
	sb.WriteString("\n")

	sb.WriteString("QUALITY ISSUES:\n")
	if len(rep.QualityIssues) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, issue := range rep.QualityIssues {
		location := fmt.Sprintf("column %q", issue.Column)
		if issue.Column == "" {
			location = fmt.Sprintf("row %d", issue.Row)
		}
		sb.WriteString(fmt.Sprintf("  [%s] %s: %s\n", issue.Kind, location, issue.Detail))
	}
	sb.WriteString("\n")

	sb.WriteString("ANOMALIES:\n")
	if len(rep.Anomalies) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, f := range rep.Anomalies {
		sb.WriteString(fmt.Sprintf("  row %d, column %q: value=%.2f z=%+.2f (threshold %.2f)\n",
			f.Row, f.Column, f.Value, f.ZScore, f.Threshold))
	}
	sb.WriteString("\n")

	sb.WriteString("TREND BREAKS:\n")
	if len(rep.Trends) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, f := range rep.Trends {
		sb.WriteString(fmt.Sprintf("  column %q: %s of %.1f%% between rows %d and %d (%.2f -> %.2f)\n",
			f.Column, f.Direction, f.Magnitude()*100, f.FromRow, f.ToRow, f.Previous, f.Current))
	}
	sb.WriteString("\n")

	sb.WriteString("RECOMMENDATIONS:\n")
	for i, rec := range rep.Recommendations {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, rec))
	}

	return sb.String(), nil
}

func (r *Reporter) renderMarkdown(rep *report.Report) (string, error) {
	var sb strings.Builder

	sb.WriteString("# Data Audit Report\n\n")
	sb.WriteString(fmt.Sprintf("**Verdict:** %s\n\n", strings.ToUpper(string(rep.Verdict))))
	sb.WriteString(fmt.Sprintf("%s\n\n", rep.Summary))

	sb.WriteString("## Dataset\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("| --- | --- |\n")
	sb.WriteString(fmt.Sprintf("| Rows | %d |\n", rep.Stats.Rows))
	sb.WriteString(fmt.Sprintf("| Columns | %d |\n", rep.Stats.Columns))
	sb.WriteString(fmt.Sprintf("| Missing cells | %d (%.1f%%) |\n", rep.Stats.MissingCells, rep.Stats.MissingPercent))
	sb.WriteString(fmt.Sprintf("| Duplicate rows | %d |\n", rep.Stats.DuplicateRows))
	sb.WriteString(fmt.Sprintf("| Numeric columns | %d |\n", rep.Stats.NumericColumns))
	sb.WriteString(fmt.Sprintf("| Analyzed columns | %d |\n", rep.Stats.AnalyzedColumns))
	sb.WriteString(fmt.Sprintf("| Quality score | %.1f/100 |\n\n", rep.QualityScore))

	if len(rep.Profiles) > 0 {
		sb.WriteString("## Column Profiles\n\n")
		sb.WriteString("| Column | Count | Mean | Std Dev | Min | Q1 | Median | Q3 | Max |\n")
		sb.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- | --- |\n")
		for _, p := range rep.Profiles {
			if p.Insufficient {
				sb.WriteString(fmt.Sprintf("| %s | %d | insufficient | | | | | | |\n", p.Column, p.Count))
				continue
			}
			sb.WriteString(fmt.Sprintf("| %s | %d | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
				p.Column, p.Count, p.Mean, p.StdDev, p.Min, p.Q1, p.Median, p.Q3, p.Max))
		}
		sb.WriteString("\n")
	}

	if len(rep.QualityIssues) > 0 {
		sb.WriteString("## Quality Issues\n\n")
		for _, issue := range rep.QualityIssues {
			if issue.Column != "" {
				sb.WriteString(fmt.Sprintf("- **%s** (column `%s`): %s\n", issue.Kind, issue.Column, issue.Detail))
			} else {
				sb.WriteString(fmt.Sprintf("- **%s** (row %d): %s\n", issue.Kind, issue.Row, issue.Detail))
			}
		}
		sb.WriteString("\n")
	}

	if len(rep.Anomalies) > 0 {
		sb.WriteString("## Anomalies\n\n")
		sb.WriteString("| Row | Column | Value | Z-Score |\n")
		sb.WriteString("| --- | --- | --- | --- |\n")
		for _, f := range rep.Anomalies {
			sb.WriteString(fmt.Sprintf("| %d | %s | %.2f | %+.2f |\n", f.Row, f.Column, f.Value, f.ZScore))
		}
		sb.WriteString("\n")
	}

	if len(rep.Trends) > 0 {
		sb.WriteString("## Trend Breaks\n\n")
		sb.WriteString("| Column | Rows | Direction | Change |\n")
		sb.WriteString("| --- | --- | --- | --- |\n")
		for _, f := range rep.Trends {
			sb.WriteString(fmt.Sprintf("| %s | %d → %d | %s | %+.1f%% |\n",
				f.Column, f.FromRow, f.ToRow, f.Direction, f.PctChange*100))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Recommendations\n\n")
	for i, rec := range rep.Recommendations {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
	}

	return sb.String(), nil
}
