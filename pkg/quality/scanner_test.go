package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditlab-io/tableaudit/pkg/config"
	"github.com/auditlab-io/tableaudit/pkg/dataset"
)

func newDataset(columns []dataset.Column, rows ...[]dataset.Cell) *dataset.Dataset {
	ds := dataset.New(columns)
	for _, row := range rows {
		ds.AppendRow(row)
	}
	return ds
}

func TestScanCleanDataset(t *testing.T) {
	ds := newDataset(
		[]dataset.Column{
			{Name: "date", Kind: dataset.ColumnText},
			{Name: "sales", Kind: dataset.ColumnNumeric},
		},
		[]dataset.Cell{dataset.Text("2024-01-01"), dataset.Number(100)},
		[]dataset.Cell{dataset.Text("2024-01-02"), dataset.Number(105)},
		[]dataset.Cell{dataset.Text("2024-01-03"), dataset.Number(98)},
	)

	res := Scan(ds, config.Default())

	assert.Equal(t, 100.0, res.Score)
	assert.Empty(t, res.Issues)
	assert.Zero(t, res.MissingCells)
	assert.Zero(t, res.DuplicateRows)
	assert.Zero(t, res.RaggedRows)
}

func TestScanFlagsMissingValues(t *testing.T) {
	// 10% missing in one column, above the default 5% threshold.
	cols := []dataset.Column{
		{Name: "unit", Kind: dataset.ColumnText},
		{Name: "output", Kind: dataset.ColumnNumeric},
	}
	ds := dataset.New(cols)
	for i := 0; i < 20; i++ {
		cell := dataset.Number(float64(200 + i))
		if i == 4 || i == 11 {
			cell = dataset.Missing()
		}
		ds.AppendRow([]dataset.Cell{dataset.Text(string(rune('a' + i))), cell})
	}

	res := Scan(ds, config.Default())

	require.Len(t, res.Issues, 1)
	issue := res.Issues[0]
	assert.Equal(t, IssueMissingValues, issue.Kind)
	assert.Equal(t, "output", issue.Column)
	assert.Equal(t, -1, issue.Row)
	assert.InDelta(t, 0.10, issue.Weight, 1e-9)
	assert.Contains(t, issue.Detail, "10.0%")

	assert.Equal(t, 2, res.MissingCells)
	// 2 missing out of 40 cells: 100 - 125*0.05 = 93.75.
	assert.InDelta(t, 93.75, res.Score, 1e-9)
}

func TestScanMissingRatioAtThresholdIsNotFlagged(t *testing.T) {
	cfg := config.Default()
	cfg.MissingRatioThreshold = 0.25

	ds := newDataset(
		[]dataset.Column{{Name: "v", Kind: dataset.ColumnNumeric}},
		[]dataset.Cell{dataset.Number(1)},
		[]dataset.Cell{dataset.Number(2)},
		[]dataset.Cell{dataset.Number(3)},
		[]dataset.Cell{dataset.Missing()},
	)

	res := Scan(ds, cfg)
	assert.Empty(t, res.Issues, "ratio equal to the threshold should not be flagged")
}

func TestScanFlagsDuplicateRows(t *testing.T) {
	row := []dataset.Cell{dataset.Text("north"), dataset.Number(100)}
	ds := newDataset(
		[]dataset.Column{
			{Name: "region", Kind: dataset.ColumnText},
			{Name: "sales", Kind: dataset.ColumnNumeric},
		},
		row,
		[]dataset.Cell{dataset.Text("south"), dataset.Number(90)},
		row,
		row,
	)

	res := Scan(ds, config.Default())

	assert.Equal(t, 2, res.DuplicateRows, "first occurrence is not a duplicate")
	var dupes []Issue
	for _, issue := range res.Issues {
		if issue.Kind == IssueDuplicateRow {
			dupes = append(dupes, issue)
		}
	}
	require.Len(t, dupes, 2)
	assert.Equal(t, 2, dupes[0].Row)
	assert.Equal(t, 3, dupes[1].Row)
	assert.Contains(t, dupes[0].Detail, "row 0")
}

func TestScanDistinguishesTextFromMissingInKeys(t *testing.T) {
	// A row with an empty text cell must not collide with a row holding a
	// missing cell in the same position.
	ds := newDataset(
		[]dataset.Column{{Name: "note", Kind: dataset.ColumnText}},
		[]dataset.Cell{dataset.Text("")},
		[]dataset.Cell{dataset.Missing()},
	)

	res := Scan(ds, config.Default())
	assert.Zero(t, res.DuplicateRows)
}

func TestScanFlagsRaggedRows(t *testing.T) {
	ds := dataset.New([]dataset.Column{
		{Name: "a", Kind: dataset.ColumnNumeric},
		{Name: "b", Kind: dataset.ColumnNumeric},
	})
	ds.AppendRow([]dataset.Cell{dataset.Number(1), dataset.Number(2)})
	ds.AppendRow([]dataset.Cell{dataset.Number(3)})

	res := Scan(ds, config.Default())

	assert.Equal(t, 1, res.RaggedRows)
	found := false
	for _, issue := range res.Issues {
		if issue.Kind == IssueRaggedRow {
			found = true
			assert.Equal(t, 1, issue.Row)
		}
	}
	assert.True(t, found, "expected a ragged-row issue")
}

func TestScanFlagsTypeMismatch(t *testing.T) {
	tests := []struct {
		name       string
		kind       dataset.ColumnKind
		cells      []dataset.Cell
		mismatched int
	}{
		{
			name:       "text in numeric column",
			kind:       dataset.ColumnNumeric,
			cells:      []dataset.Cell{dataset.Number(1), dataset.Number(2), dataset.Text("n/a?"), dataset.Number(4)},
			mismatched: 1,
		},
		{
			name:       "number in text column",
			kind:       dataset.ColumnText,
			cells:      []dataset.Cell{dataset.Text("a"), dataset.Number(7), dataset.Text("b")},
			mismatched: 1,
		},
		{
			name:       "mixed column",
			kind:       dataset.ColumnMixed,
			cells:      []dataset.Cell{dataset.Number(1), dataset.Text("x"), dataset.Number(2), dataset.Text("y")},
			mismatched: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := dataset.New([]dataset.Column{{Name: "col", Kind: tt.kind}})
			for _, c := range tt.cells {
				ds.AppendRow([]dataset.Cell{c})
			}

			res := Scan(ds, config.Default())

			var issue *Issue
			for i := range res.Issues {
				if res.Issues[i].Kind == IssueTypeMismatch {
					issue = &res.Issues[i]
				}
			}
			require.NotNil(t, issue)
			assert.Equal(t, "col", issue.Column)
			assert.InDelta(t, float64(tt.mismatched)/float64(len(tt.cells)), issue.Weight, 1e-9)
		})
	}
}

func TestScanScoreIsFlooredAtZero(t *testing.T) {
	// All cells missing: raw penalty 125, plus the all-missing rows
	// duplicate each other. The score must clamp to 0.
	ds := dataset.New([]dataset.Column{
		{Name: "a", Kind: dataset.ColumnNumeric},
		{Name: "b", Kind: dataset.ColumnNumeric},
	})
	for i := 0; i < 10; i++ {
		ds.AppendRow([]dataset.Cell{dataset.Missing(), dataset.Missing()})
	}

	res := Scan(ds, config.Default())
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, 20, res.MissingCells)
	assert.Equal(t, 9, res.DuplicateRows)
}
