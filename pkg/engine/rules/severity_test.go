package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditlab-io/tableaudit/pkg/anomaly"
	"github.com/auditlab-io/tableaudit/pkg/config"
	"github.com/auditlab-io/tableaudit/pkg/quality"
	"github.com/auditlab-io/tableaudit/pkg/report"
	"github.com/auditlab-io/tableaudit/pkg/trend"
)

func cleanEvidence() Evidence {
	return Evidence{
		Config:       config.Default(),
		QualityScore: 100,
		Issues:       []quality.Issue{},
		Anomalies:    []anomaly.Finding{},
		Trends:       []trend.Finding{},
	}
}

func severeDrop() trend.Finding {
	return trend.Finding{
		Column: "sales", FromRow: 3, ToRow: 4,
		Previous: 100, Current: 60,
		PctChange: -0.40, Direction: trend.DirectionDrop,
	}
}

func mildSpike() trend.Finding {
	return trend.Finding{
		Column: "sales", FromRow: 1, ToRow: 2,
		Previous: 100, Current: 125,
		PctChange: 0.25, Direction: trend.DirectionSpike,
	}
}

func TestVerdictAssignment(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Evidence)
		verdict report.Verdict
	}{
		{
			name:    "clean data is normal",
			mutate:  func(ev *Evidence) {},
			verdict: report.VerdictNormal,
		},
		{
			name: "quality score under critical floor",
			mutate: func(ev *Evidence) {
				ev.QualityScore = 42
			},
			verdict: report.VerdictCritical,
		},
		{
			name: "severe trend drop",
			mutate: func(ev *Evidence) {
				ev.Trends = append(ev.Trends, severeDrop())
			},
			verdict: report.VerdictCritical,
		},
		{
			name: "severe trend at exact threshold",
			mutate: func(ev *Evidence) {
				f := severeDrop()
				f.PctChange = -0.30
				ev.Trends = append(ev.Trends, f)
			},
			verdict: report.VerdictCritical,
		},
		{
			name: "anomaly count at severe limit",
			mutate: func(ev *Evidence) {
				for i := 0; i < ev.Config.AnomalySevereCount; i++ {
					ev.Anomalies = append(ev.Anomalies,
						anomaly.Finding{Column: "v", Row: i, ZScore: 3.5, Threshold: 3})
				}
			},
			verdict: report.VerdictCritical,
		},
		{
			name: "anomaly below severe limit is warning",
			mutate: func(ev *Evidence) {
				ev.Anomalies = append(ev.Anomalies,
					anomaly.Finding{Column: "v", Row: 7, ZScore: -3.4, Threshold: 3})
			},
			verdict: report.VerdictWarning,
		},
		{
			name: "mild trend is warning",
			mutate: func(ev *Evidence) {
				ev.Trends = append(ev.Trends, mildSpike())
			},
			verdict: report.VerdictWarning,
		},
		{
			name: "quality issue alone is warning",
			mutate: func(ev *Evidence) {
				ev.Issues = append(ev.Issues, quality.Issue{
					Kind: quality.IssueMissingValues, Column: "output", Row: -1, Weight: 0.10,
				})
			},
			verdict: report.VerdictWarning,
		},
		{
			name: "degraded score band is warning",
			mutate: func(ev *Evidence) {
				ev.QualityScore = 70
			},
			verdict: report.VerdictWarning,
		},
		{
			name: "score at warning floor stays normal",
			mutate: func(ev *Evidence) {
				ev.QualityScore = 85
			},
			verdict: report.VerdictNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := cleanEvidence()
			tt.mutate(&ev)

			outcome := Default().Run(ev)
			assert.Equal(t, tt.verdict, outcome.Verdict)
			assert.NotEmpty(t, outcome.Recommendations)
		})
	}
}

func TestFirstMatchWins(t *testing.T) {
	// Evidence satisfying both the critical and warning rules must land on
	// critical, with exactly one verdict.
	ev := cleanEvidence()
	ev.QualityScore = 30
	ev.Trends = append(ev.Trends, severeDrop())
	ev.Issues = append(ev.Issues, quality.Issue{Kind: quality.IssueMissingValues, Column: "a", Row: -1, Weight: 0.5})

	outcome := Default().Run(ev)
	assert.Equal(t, report.VerdictCritical, outcome.Verdict)
}

func TestCriticalRecommendationsNameEveryReason(t *testing.T) {
	ev := cleanEvidence()
	ev.QualityScore = 40
	ev.Trends = append(ev.Trends, severeDrop())
	for i := 0; i < 6; i++ {
		ev.Anomalies = append(ev.Anomalies,
			anomaly.Finding{Column: "sales", Row: i, ZScore: 4, Threshold: 3})
	}

	outcome := Default().Run(ev)
	require.Equal(t, report.VerdictCritical, outcome.Verdict)

	joined := strings.Join(outcome.Recommendations, "\n")
	assert.Contains(t, joined, "critically low (40/100")
	assert.Contains(t, joined, `Column "sales" dropped 40.0% between rows 3 and 4`)
	assert.Contains(t, joined, "6 outliers exceed the alert limit of 5")
	assert.Contains(t, joined, `Investigate column "sales": 6 anomalies detected`)
}

func TestSevereTrendNotRepeatedAsAdvice(t *testing.T) {
	ev := cleanEvidence()
	ev.Trends = append(ev.Trends, severeDrop())

	outcome := Default().Run(ev)
	require.Equal(t, report.VerdictCritical, outcome.Verdict)

	dropMentions := 0
	for _, rec := range outcome.Recommendations {
		if strings.Contains(rec, "40.0%") {
			dropMentions++
		}
	}
	assert.Equal(t, 1, dropMentions, "severe trend should appear once, as the critical reason")
}

func TestDuplicateAndRaggedIssuesAggregate(t *testing.T) {
	ev := cleanEvidence()
	ev.Issues = append(ev.Issues,
		quality.Issue{Kind: quality.IssueDuplicateRow, Row: 3, Weight: 1},
		quality.Issue{Kind: quality.IssueDuplicateRow, Row: 7, Weight: 1},
		quality.Issue{Kind: quality.IssueRaggedRow, Row: 9, Weight: 1},
	)

	outcome := Default().Run(ev)
	require.Equal(t, report.VerdictWarning, outcome.Verdict)
	require.Len(t, outcome.Recommendations, 2)
	assert.Contains(t, outcome.Recommendations[0], "Remove 2 duplicate rows")
	assert.Contains(t, outcome.Recommendations[1], "1 row does not match the header width")
}

func TestOutcomeIsDeterministic(t *testing.T) {
	ev := cleanEvidence()
	ev.QualityScore = 60
	ev.Anomalies = append(ev.Anomalies,
		anomaly.Finding{Column: "a", Row: 1, ZScore: 3.2, Threshold: 3},
		anomaly.Finding{Column: "b", Row: 2, ZScore: -3.6, Threshold: 3},
		anomaly.Finding{Column: "a", Row: 8, ZScore: 3.9, Threshold: 3},
	)
	ev.Trends = append(ev.Trends, mildSpike())

	first := Default().Run(ev)
	second := Default().Run(ev)
	assert.Equal(t, first, second)
}

func TestNewRuleFuncValidation(t *testing.T) {
	assert.Panics(t, func() {
		NewRuleFunc("  ", func(Evidence) (Outcome, bool) { return Outcome{}, false })
	})
	assert.Panics(t, func() {
		NewRuleFunc("custom", nil)
	})
}

func TestCustomRunnerOrder(t *testing.T) {
	alwaysWarn := NewRuleFunc("always-warn", func(Evidence) (Outcome, bool) {
		return Outcome{Verdict: report.VerdictWarning, Recommendations: []string{"custom"}}, true
	})
	never := NewRuleFunc("never", func(Evidence) (Outcome, bool) {
		return Outcome{}, false
	})

	runner := NewRunner(never, alwaysWarn)
	outcome := runner.Run(cleanEvidence())
	assert.Equal(t, report.VerdictWarning, outcome.Verdict)
	assert.Equal(t, []string{"custom"}, outcome.Recommendations)

	// An exhausted chain falls back to normal.
	empty := NewRunner(never)
	assert.Equal(t, report.VerdictNormal, empty.Run(cleanEvidence()).Verdict)
}
