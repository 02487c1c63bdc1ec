// Package report defines the structured result of one analysis run: the
// verdict, every finding, and the recommendation list. A Report is immutable
// once assembled and fully deterministic; run identifiers and timestamps
// belong to the RunEnvelope wrapper instead.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/auditlab-io/tableaudit/pkg/anomaly"
	"github.com/auditlab-io/tableaudit/pkg/profile"
	"github.com/auditlab-io/tableaudit/pkg/quality"
	"github.com/auditlab-io/tableaudit/pkg/trend"
)

// Verdict is the engine's final severity classification for one run. Only
// the rule engine assigns it.
type Verdict string

const (
	VerdictNormal   Verdict = "normal"
	VerdictWarning  Verdict = "warning"
	VerdictCritical Verdict = "critical"
)

// Rank orders verdicts by severity: critical > warning > normal.
func (v Verdict) Rank() int {
	switch v {
	case VerdictCritical:
		return 2
	case VerdictWarning:
		return 1
	default:
		return 0
	}
}

// DatasetStats summarizes the analyzed table.
type DatasetStats struct {
	Rows            int     `json:"rows"`
	Columns         int     `json:"columns"`
	MissingCells    int     `json:"missing_cells"`
	MissingPercent  float64 `json:"missing_percent"`
	DuplicateRows   int     `json:"duplicate_rows"`
	NumericColumns  int     `json:"numeric_columns"`
	AnalyzedColumns int     `json:"analyzed_columns"`
}

// Report is the complete audit result. Every slice is present even when
// empty so consumers and serialized output never see a null list.
type Report struct {
	Verdict         Verdict                 `json:"verdict"`
	Urgent          bool                    `json:"urgent"`
	QualityScore    float64                 `json:"quality_score"`
	Summary         string                  `json:"summary"`
	Stats           DatasetStats            `json:"stats"`
	Profiles        []profile.ColumnProfile `json:"profiles"`
	QualityIssues   []quality.Issue         `json:"quality_issues"`
	Anomalies       []anomaly.Finding       `json:"anomalies"`
	Trends          []trend.Finding         `json:"trends"`
	Recommendations []string                `json:"recommendations"`
}

// HasFindings reports whether any quality, anomaly, or trend finding is
// present.
func (r *Report) HasFindings() bool {
	return len(r.QualityIssues) > 0 || len(r.Anomalies) > 0 || len(r.Trends) > 0
}

// RunEnvelope wraps a Report with run metadata for the presentation layer.
type RunEnvelope struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Report     *Report   `json:"report"`
}

// NewEnvelope stamps a report with a fresh run ID and its timing.
func NewEnvelope(rep *Report, startedAt time.Time) RunEnvelope {
	return RunEnvelope{
		RunID:      uuid.NewString(),
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
		Report:     rep,
	}
}
