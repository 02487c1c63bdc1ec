// Package dataset defines the in-memory table model consumed by the audit
// engine. A Dataset is built once by a loader and treated as immutable for
// the duration of an analysis pass.
package dataset

import (
	"fmt"
	"strconv"
)

// CellKind discriminates the value stored in a Cell.
type CellKind int

const (
	CellMissing CellKind = iota
	CellNumber
	CellText
)

// Cell is a single typed value. Exactly one of Number/Text is meaningful,
// selected by Kind.
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
}

// Number creates a numeric cell.
func Number(v float64) Cell {
	return Cell{Kind: CellNumber, Number: v}
}

// Text creates a text cell.
func Text(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// Missing creates a missing-value cell.
func Missing() Cell {
	return Cell{Kind: CellMissing}
}

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool {
	return c.Kind == CellMissing
}

// String renders the cell the way an exporter would write it back out.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'g', -1, 64)
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// ColumnKind is the inferred type of a column.
type ColumnKind string

const (
	// ColumnNumeric marks a column whose non-missing cells are
	// (almost) all numeric.
	ColumnNumeric ColumnKind = "numeric"
	// ColumnText marks a column whose non-missing cells are
	// (almost) all text.
	ColumnText ColumnKind = "text"
	// ColumnMixed marks a column with no clear majority type.
	ColumnMixed ColumnKind = "mixed"
)

// Column describes one column of the table.
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// Dataset is an ordered table: a fixed column list plus rows of cells.
// Every stored row has exactly len(Columns) cells; AppendRow normalizes
// ragged input and records the affected row indices in Ragged so the
// quality scanner can flag them.
type Dataset struct {
	Columns []Column
	Rows    [][]Cell
	Ragged  []int
}

// New creates an empty dataset with the given columns.
func New(columns []Column) *Dataset {
	return &Dataset{Columns: append([]Column(nil), columns...)}
}

// AppendRow adds a row, padding short rows with missing cells and
// truncating long ones. Rows that needed either adjustment are recorded
// as ragged.
func (d *Dataset) AppendRow(cells []Cell) {
	if len(cells) != len(d.Columns) {
		d.Ragged = append(d.Ragged, len(d.Rows))
	}
	row := make([]Cell, len(d.Columns))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = Missing()
		}
	}
	d.Rows = append(d.Rows, row)
}

// ColumnIndex returns the position of the named column, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i, col := range d.Columns {
		if col.Name == name {
			return i
		}
	}
	return -1
}

// NumRows returns the row count.
func (d *Dataset) NumRows() int {
	return len(d.Rows)
}

// NumColumns returns the column count.
func (d *Dataset) NumColumns() int {
	return len(d.Columns)
}

// InvalidDatasetError reports a dataset the engine cannot analyze at all:
// no columns or no rows. It is fatal; no partial report is produced.
type InvalidDatasetError struct {
	Reason string
}

// Error implements the error interface.
func (e *InvalidDatasetError) Error() string {
	return fmt.Sprintf("invalid dataset: %s", e.Reason)
}

// Validate checks that the dataset is analyzable. It returns an
// *InvalidDatasetError for an empty table and nil otherwise.
func Validate(d *Dataset) error {
	if d == nil || len(d.Columns) == 0 {
		return &InvalidDatasetError{Reason: "dataset has no columns"}
	}
	if len(d.Rows) == 0 {
		return &InvalidDatasetError{Reason: "dataset has no rows"}
	}
	return nil
}
