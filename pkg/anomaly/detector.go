// Package anomaly flags individual values that deviate from their column
// distribution beyond a Z-score threshold.
package anomaly

import (
	"math"

	"github.com/auditlab-io/tableaudit/pkg/dataset"
	"github.com/auditlab-io/tableaudit/pkg/profile"
)

// Finding is one value whose |Z| exceeded the threshold. A row appears once
// per anomalous column; findings for the same row are never merged.
type Finding struct {
	Column    string  `json:"column"`
	Row       int     `json:"row"`
	Value     float64 `json:"value"`
	ZScore    float64 `json:"z_score"`
	Threshold float64 `json:"threshold"`
}

// Detect scans the dataset against the column profiles and returns findings
// in row-major order: rows ascending, columns in dataset order within a row.
//
// Columns whose profile is insufficient or has zero standard deviation are
// skipped entirely, as are missing and non-numeric cells.
func Detect(ds *dataset.Dataset, profiles []profile.ColumnProfile, threshold float64) []Finding {
	byName := make(map[string]profile.ColumnProfile, len(profiles))
	for _, p := range profiles {
		byName[p.Column] = p
	}

	findings := []Finding{}
	for rowIdx, row := range ds.Rows {
		for colIdx, col := range ds.Columns {
			p, ok := byName[col.Name]
			if !ok || p.Insufficient || p.StdDev == 0 {
				continue
			}

			cell := row[colIdx]
			if cell.Kind != dataset.CellNumber {
				continue
			}

			z := (cell.Number - p.Mean) / p.StdDev
			if math.Abs(z) > threshold {
				findings = append(findings, Finding{
					Column:    col.Name,
					Row:       rowIdx,
					Value:     cell.Number,
					ZScore:    z,
					Threshold: threshold,
				})
			}
		}
	}
	return findings
}
