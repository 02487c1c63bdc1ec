// Package loader turns external tabular sources (CSV streams, SQL query
// results) into datasets ready for auditing. Column kinds are inferred from
// the data by majority vote, and common missing-value markers are normalized
// into missing cells.
package loader

import (
	"context"
	"strings"

	"github.com/spf13/cast"

	"github.com/auditlab-io/tableaudit/pkg/dataset"
)

// Loader loads a table from an external source.
type Loader interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
}

// Vote ratios for column kind inference. A column whose non-missing values
// are at least 80% numeric is treated as numeric; at most 20% numeric is
// treated as text; anything in between is mixed.
const (
	numericVoteRatio = 0.8
	textVoteRatio    = 0.2
)

// missingMarkers are the string forms treated as an absent value.
var missingMarkers = map[string]bool{
	"":     true,
	"null": true,
	"NULL": true,
	"Null": true,
	"N/A":  true,
	"n/a":  true,
	"NA":   true,
	"NaN":  true,
	"nan":  true,
	"-":    true,
}

func isMissingMarker(s string) bool {
	return missingMarkers[strings.TrimSpace(s)]
}

// parseNumber parses a numeric string, tolerating surrounding whitespace and
// thousands separators ("1,234.5").
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	cleaned := strings.ReplaceAll(s, ",", "")
	f, err := cast.ToFloat64E(cleaned)
	if err != nil {
		return 0, false
	}
	return f, true
}

// cellFromString converts a raw string value into a typed cell.
func cellFromString(raw string) dataset.Cell {
	if isMissingMarker(raw) {
		return dataset.Missing()
	}
	if f, ok := parseNumber(raw); ok {
		return dataset.Number(f)
	}
	return dataset.Text(strings.TrimSpace(raw))
}

// inferKind votes on a column kind from the cells loaded for that column.
// Missing cells do not vote. A column with no non-missing cells is text.
func inferKind(cells []dataset.Cell) dataset.ColumnKind {
	numbers, nonMissing := 0, 0
	for _, c := range cells {
		if c.IsMissing() {
			continue
		}
		nonMissing++
		if c.Kind == dataset.CellNumber {
			numbers++
		}
	}
	if nonMissing == 0 {
		return dataset.ColumnText
	}
	ratio := float64(numbers) / float64(nonMissing)
	switch {
	case ratio >= numericVoteRatio:
		return dataset.ColumnNumeric
	case ratio <= textVoteRatio:
		return dataset.ColumnText
	default:
		return dataset.ColumnMixed
	}
}

// buildDataset assembles a dataset from column names and pre-typed cell rows,
// inferring each column's kind from its cells.
func buildDataset(names []string, cellRows [][]dataset.Cell) *dataset.Dataset {
	columns := make([]dataset.Column, len(names))
	for i, name := range names {
		colCells := make([]dataset.Cell, 0, len(cellRows))
		for _, row := range cellRows {
			if i < len(row) {
				colCells = append(colCells, row[i])
			}
		}
		columns[i] = dataset.Column{Name: name, Kind: inferKind(colCells)}
	}

	ds := dataset.New(columns)
	for _, row := range cellRows {
		ds.AppendRow(row)
	}
	return ds
}
