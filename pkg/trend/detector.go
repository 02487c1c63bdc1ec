// Package trend flags sharp directional shifts across an ordered numeric
// series using consecutive-point percentage change.
package trend

import (
	"math"

	"github.com/auditlab-io/tableaudit/pkg/dataset"
)

// Direction of a detected shift.
type Direction string

const (
	DirectionDrop  Direction = "drop"
	DirectionSpike Direction = "spike"
)

// Point is one observation of a series: its source row and value.
type Point struct {
	Row   int     `json:"row"`
	Value float64 `json:"value"`
}

// Series holds the ordered non-missing numeric content of one column.
// Row order is sequence order.
type Series struct {
	Column string
	Points []Point
}

// SeriesFromColumn extracts the series for one column. Missing and
// non-numeric cells are skipped; the surviving points keep their original
// row references.
func SeriesFromColumn(ds *dataset.Dataset, colIdx int) Series {
	s := Series{Column: ds.Columns[colIdx].Name}
	for rowIdx, row := range ds.Rows {
		cell := row[colIdx]
		if cell.Kind != dataset.CellNumber {
			continue
		}
		s.Points = append(s.Points, Point{Row: rowIdx, Value: cell.Number})
	}
	return s
}

// Finding is one consecutive-point change whose magnitude exceeded the
// threshold.
type Finding struct {
	Column    string    `json:"column"`
	FromRow   int       `json:"from_row"`
	ToRow     int       `json:"to_row"`
	Previous  float64   `json:"previous"`
	Current   float64   `json:"current"`
	PctChange float64   `json:"pct_change"`
	Direction Direction `json:"direction"`
}

// Magnitude returns the absolute percentage change.
func (f Finding) Magnitude() float64 {
	return math.Abs(f.PctChange)
}

// Detect compares consecutive points and flags changes whose magnitude
// exceeds the threshold. A comparison whose previous value is zero is
// skipped: the ratio would be unbounded. The detector holds no state
// between calls.
func Detect(s Series, threshold float64) []Finding {
	findings := []Finding{}
	for i := 1; i < len(s.Points); i++ {
		prev, cur := s.Points[i-1], s.Points[i]
		if prev.Value == 0 {
			continue
		}

		pct := (cur.Value - prev.Value) / math.Abs(prev.Value)
		if math.Abs(pct) <= threshold {
			continue
		}

		direction := DirectionSpike
		if pct < 0 {
			direction = DirectionDrop
		}
		findings = append(findings, Finding{
			Column:    s.Column,
			FromRow:   prev.Row,
			ToRow:     cur.Row,
			Previous:  prev.Value,
			Current:   cur.Value,
			PctChange: pct,
			Direction: direction,
		})
	}
	return findings
}
