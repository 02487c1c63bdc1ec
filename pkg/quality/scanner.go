// Package quality inspects a dataset for completeness and consistency
// problems: missing values, type mismatches, duplicate rows, and ragged
// rows. It produces a 0-100 quality score plus one Issue per problem found.
package quality

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/auditlab-io/tableaudit/pkg/config"
	"github.com/auditlab-io/tableaudit/pkg/dataset"
)

// Kind classifies a quality issue.
type Kind string

const (
	IssueMissingValues    Kind = "missing-values"
	IssueTypeMismatch     Kind = "type-mismatch"
	IssueDuplicateRow     Kind = "duplicate-row"
	IssueRaggedRow        Kind = "ragged-row"
	IssueInsufficientData Kind = "insufficient-data"
)

// Issue is a single quality finding. Row is -1 for column-scoped issues.
type Issue struct {
	Kind   Kind    `json:"kind"`
	Column string  `json:"column,omitempty"`
	Row    int     `json:"row"`
	Weight float64 `json:"weight"`
	Detail string  `json:"detail"`
}

// Result carries the score, the issues, and the raw counts the report
// assembler folds into the dataset statistics block.
type Result struct {
	Score         float64
	Issues        []Issue
	MissingCells  int
	DuplicateRows int
	RaggedRows    int
}

// Score penalty weights. The gating thresholds live in config; the penalty
// curve itself is fixed. With the default critical floor of 50, the missing
// weight puts a dataset over 40% missing below the floor.
const (
	missingPenalty   = 125
	duplicatePenalty = 30
	raggedPenalty    = 10
)

// Scan computes the quality score and issue list for a dataset. It is a
// pure function of the dataset and the configuration.
func Scan(ds *dataset.Dataset, cfg config.Config) Result {
	issues := []Issue{}
	rows := ds.NumRows()

	missingTotal := 0
	for colIdx, col := range ds.Columns {
		var missing, numbers, texts int
		for _, row := range ds.Rows {
			switch row[colIdx].Kind {
			case dataset.CellMissing:
				missing++
			case dataset.CellNumber:
				numbers++
			case dataset.CellText:
				texts++
			}
		}
		missingTotal += missing

		ratio := float64(missing) / float64(rows)
		if ratio > cfg.MissingRatioThreshold {
			issues = append(issues, Issue{
				Kind:   IssueMissingValues,
				Column: col.Name,
				Row:    -1,
				Weight: ratio,
				Detail: fmt.Sprintf("%.1f%% of values are missing (threshold %.1f%%)",
					ratio*100, cfg.MissingRatioThreshold*100),
			})
		}

		var mismatched int
		switch col.Kind {
		case dataset.ColumnNumeric:
			mismatched = texts
		case dataset.ColumnText:
			mismatched = numbers
		case dataset.ColumnMixed:
			mismatched = min(numbers, texts)
		}
		if mismatched > 0 {
			nonMissing := numbers + texts
			issues = append(issues, Issue{
				Kind:   IssueTypeMismatch,
				Column: col.Name,
				Row:    -1,
				Weight: float64(mismatched) / float64(nonMissing),
				Detail: fmt.Sprintf("%d of %d values do not match the %s column type",
					mismatched, nonMissing, col.Kind),
			})
		}
	}

	duplicates := 0
	seen := make(map[string]int, rows)
	for i, row := range ds.Rows {
		key := rowKey(row)
		if first, ok := seen[key]; ok {
			duplicates++
			issues = append(issues, Issue{
				Kind:   IssueDuplicateRow,
				Row:    i,
				Weight: 1,
				Detail: fmt.Sprintf("exact duplicate of row %d", first),
			})
			continue
		}
		seen[key] = i
	}

	for _, rowIdx := range ds.Ragged {
		issues = append(issues, Issue{
			Kind:   IssueRaggedRow,
			Row:    rowIdx,
			Weight: 1,
			Detail: "row length does not match the header",
		})
	}

	totalCells := rows * ds.NumColumns()
	missingRatio := float64(missingTotal) / float64(totalCells)
	duplicateRatio := float64(duplicates) / float64(rows)
	raggedRatio := float64(len(ds.Ragged)) / float64(rows)

	score := 100 - missingPenalty*missingRatio - duplicatePenalty*duplicateRatio - raggedPenalty*raggedRatio
	score = math.Max(0, math.Min(100, score))

	return Result{
		Score:         score,
		Issues:        issues,
		MissingCells:  missingTotal,
		DuplicateRows: duplicates,
		RaggedRows:    len(ds.Ragged),
	}
}

// rowKey builds a collision-safe identity for duplicate detection: cell
// kind plus rendered value, unit-separated.
func rowKey(row []dataset.Cell) string {
	var sb strings.Builder
	for i, c := range row {
		if i > 0 {
			sb.WriteByte(0x1f)
		}
		switch c.Kind {
		case dataset.CellNumber:
			sb.WriteByte('n')
			sb.WriteString(strconv.FormatFloat(c.Number, 'g', -1, 64))
		case dataset.CellText:
			sb.WriteByte('t')
			sb.WriteString(c.Text)
		default:
			sb.WriteByte('m')
		}
	}
	return sb.String()
}
