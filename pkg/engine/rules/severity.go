package rules

import (
	"fmt"
	"math"

	"github.com/auditlab-io/tableaudit/pkg/quality"
	"github.com/auditlab-io/tableaudit/pkg/report"
	"github.com/auditlab-io/tableaudit/pkg/trend"
)

// criticalRule matches when any condition alone justifies a critical
// verdict: quality score under the hard floor, a trend break at or beyond
// the severe magnitude, or an anomaly count at or beyond the severe count.
type criticalRule struct{}

func (criticalRule) Name() string { return "critical-conditions" }

func (criticalRule) Evaluate(ev Evidence) (Outcome, bool) {
	var reasons []string

	if ev.QualityScore < ev.Config.QualityCriticalFloor {
		reasons = append(reasons, fmt.Sprintf(
			"Data quality is critically low (%.0f/100, floor %.0f): repair missing or malformed values before trusting this data.",
			ev.QualityScore, ev.Config.QualityCriticalFloor))
	}

	for _, f := range ev.Trends {
		if f.Magnitude() < ev.Config.TrendSeverePct {
			continue
		}
		verb := "dropped"
		if f.Direction == trend.DirectionSpike {
			verb = "spiked"
		}
		reasons = append(reasons, fmt.Sprintf(
			"Column %q %s %.1f%% between rows %d and %d: investigate the underlying event immediately.",
			f.Column, verb, f.Magnitude()*100, f.FromRow, f.ToRow))
	}

	if len(ev.Anomalies) >= ev.Config.AnomalySevereCount {
		reasons = append(reasons, fmt.Sprintf(
			"%d outliers exceed the alert limit of %d: audit the flagged columns before acting on this data.",
			len(ev.Anomalies), ev.Config.AnomalySevereCount))
	}

	if len(reasons) == 0 {
		return Outcome{}, false
	}
	return Outcome{
		Verdict:         report.VerdictCritical,
		Recommendations: append(reasons, adviceForFindings(ev)...),
	}, true
}

// warningRule matches when any finding is present, or when the quality
// score sits in the degraded band below the warning floor.
type warningRule struct{}

func (warningRule) Name() string { return "warning-conditions" }

func (warningRule) Evaluate(ev Evidence) (Outcome, bool) {
	degraded := ev.QualityScore < ev.Config.QualityWarningFloor
	if len(ev.Anomalies) == 0 && len(ev.Trends) == 0 && len(ev.Issues) == 0 && !degraded {
		return Outcome{}, false
	}

	var recs []string
	if degraded {
		recs = append(recs, fmt.Sprintf(
			"Data quality is degraded (%.0f/100): review the highlighted issues.", ev.QualityScore))
	}
	recs = append(recs, adviceForFindings(ev)...)

	return Outcome{Verdict: report.VerdictWarning, Recommendations: recs}, true
}

// normalRule is the terminal rule; it always matches.
type normalRule struct{}

func (normalRule) Name() string { return "all-clear" }

func (normalRule) Evaluate(Evidence) (Outcome, bool) {
	return Outcome{
		Verdict:         report.VerdictNormal,
		Recommendations: []string{"No significant issues detected. Data appears healthy."},
	}, true
}

// adviceForFindings builds the per-finding recommendations shared by the
// critical and warning rules: per-column anomaly summaries in first-seen
// column order, advice for each non-severe trend, then quality issue
// advice in issue order. Severe trends are omitted here because the
// critical rule already states them as reasons.
func adviceForFindings(ev Evidence) []string {
	var recs []string

	counts := make(map[string]int)
	maxAbsZ := make(map[string]float64)
	var columns []string
	for _, f := range ev.Anomalies {
		if _, seen := counts[f.Column]; !seen {
			columns = append(columns, f.Column)
		}
		counts[f.Column]++
		if az := math.Abs(f.ZScore); az > maxAbsZ[f.Column] {
			maxAbsZ[f.Column] = az
		}
	}
	for _, col := range columns {
		plural := "anomalies"
		if counts[col] == 1 {
			plural = "anomaly"
		}
		recs = append(recs, fmt.Sprintf(
			"Investigate column %q: %d %s detected (max |z| = %.2f).",
			col, counts[col], plural, maxAbsZ[col]))
	}

	for _, f := range ev.Trends {
		if f.Magnitude() >= ev.Config.TrendSeverePct {
			continue
		}
		recs = append(recs, fmt.Sprintf(
			"Column %q shows a sharp %s of %.1f%% at row %d: check for an upstream change.",
			f.Column, f.Direction, f.Magnitude()*100, f.ToRow))
	}

	var duplicates, ragged int
	for _, issue := range ev.Issues {
		switch issue.Kind {
		case quality.IssueMissingValues:
			recs = append(recs, fmt.Sprintf(
				"Column %q is missing %.1f%% of its values: backfill the gaps or fix the upstream export.",
				issue.Column, issue.Weight*100))
		case quality.IssueTypeMismatch:
			recs = append(recs, fmt.Sprintf(
				"Column %q mixes numeric and text values: normalize the offending entries.", issue.Column))
		case quality.IssueInsufficientData:
			recs = append(recs, fmt.Sprintf(
				"Column %q was excluded from statistical checks: fewer than 2 numeric values.", issue.Column))
		case quality.IssueDuplicateRow:
			duplicates++
		case quality.IssueRaggedRow:
			ragged++
		}
	}
	if duplicates > 0 {
		plural := "rows"
		if duplicates == 1 {
			plural = "row"
		}
		recs = append(recs, fmt.Sprintf("Remove %d duplicate %s before downstream use.", duplicates, plural))
	}
	if ragged > 0 {
		plural := "rows do"
		if ragged == 1 {
			plural = "row does"
		}
		recs = append(recs, fmt.Sprintf(
			"%d %s not match the header width: check the export that produced this table.", ragged, plural))
	}

	return recs
}
