package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellConstructors(t *testing.T) {
	tests := []struct {
		name     string
		cell     Cell
		kind     CellKind
		rendered string
	}{
		{"number", Number(42.5), CellNumber, "42.5"},
		{"integer-valued number", Number(1200), CellNumber, "1200"},
		{"text", Text("north"), CellText, "north"},
		{"missing", Missing(), CellMissing, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.cell.Kind)
			assert.Equal(t, tt.rendered, tt.cell.String())
			assert.Equal(t, tt.kind == CellMissing, tt.cell.IsMissing())
		})
	}
}

func TestAppendRowNormalizesRaggedRows(t *testing.T) {
	ds := New([]Column{
		{Name: "date", Kind: ColumnText},
		{Name: "sales", Kind: ColumnNumeric},
		{Name: "region", Kind: ColumnText},
	})

	ds.AppendRow([]Cell{Text("2024-01-01"), Number(100), Text("north")})
	ds.AppendRow([]Cell{Text("2024-01-02"), Number(105)})                                  // short
	ds.AppendRow([]Cell{Text("2024-01-03"), Number(98), Text("south"), Text("overflow")}) // long

	require.Equal(t, 3, ds.NumRows())
	assert.Equal(t, []int{1, 2}, ds.Ragged)

	for i, row := range ds.Rows {
		assert.Len(t, row, ds.NumColumns(), "row %d not normalized", i)
	}
	assert.True(t, ds.Rows[1][2].IsMissing(), "short row should be padded with missing cells")
	assert.Equal(t, "south", ds.Rows[2][2].Text, "long row should keep its leading cells")
}

func TestColumnIndex(t *testing.T) {
	ds := New([]Column{{Name: "a", Kind: ColumnNumeric}, {Name: "b", Kind: ColumnText}})
	assert.Equal(t, 0, ds.ColumnIndex("a"))
	assert.Equal(t, 1, ds.ColumnIndex("b"))
	assert.Equal(t, -1, ds.ColumnIndex("missing"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		ds      *Dataset
		wantErr string
	}{
		{
			name:    "nil dataset",
			ds:      nil,
			wantErr: "no columns",
		},
		{
			name:    "zero columns",
			ds:      New(nil),
			wantErr: "no columns",
		},
		{
			name:    "zero rows",
			ds:      New([]Column{{Name: "sales", Kind: ColumnNumeric}}),
			wantErr: "no rows",
		},
		{
			name: "valid",
			ds: func() *Dataset {
				d := New([]Column{{Name: "sales", Kind: ColumnNumeric}})
				d.AppendRow([]Cell{Number(1)})
				return d
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.ds)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var invalid *InvalidDatasetError
			require.True(t, errors.As(err, &invalid))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
