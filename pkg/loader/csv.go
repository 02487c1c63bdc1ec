package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/auditlab-io/tableaudit/pkg/dataset"
)

// CSVLoader reads a CSV stream with a header row. Rows whose field count
// differs from the header are kept and normalized; the dataset records their
// indices so the audit can flag them.
type CSVLoader struct {
	// Reader is the CSV source.
	Reader io.Reader
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// NewCSVLoader creates a loader reading comma-separated values from r.
func NewCSVLoader(r io.Reader) *CSVLoader {
	return &CSVLoader{Reader: r}
}

// Load reads the whole stream and builds a dataset. The first record is the
// header. An empty stream yields a dataset with no columns, which the audit
// rejects as invalid.
func (l *CSVLoader) Load(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader := csv.NewReader(l.Reader)
	if l.Comma != 0 {
		reader.Comma = l.Comma
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv input: %w", err)
	}
	if len(records) == 0 {
		return dataset.New(nil), nil
	}

	header := records[0]
	cellRows := make([][]dataset.Cell, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]dataset.Cell, len(record))
		for i, field := range record {
			row[i] = cellFromString(field)
		}
		cellRows = append(cellRows, row)
	}

	return buildDataset(header, cellRows), nil
}
