package loader

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/auditlab-io/tableaudit/pkg/dataset"
)

// SQLLoader runs a query against a MySQL-protocol database and loads the
// result set as a dataset. NULLs become missing cells; driver numeric types
// map to number cells; everything else goes through the same string typing as
// the CSV loader.
type SQLLoader struct {
	// DSN is the connection string, e.g. "user:pass@tcp(127.0.0.1:3306)/db".
	DSN string
	// Query is the SELECT statement to audit.
	Query string
}

// NewSQLLoader creates a loader for the given connection string and query.
func NewSQLLoader(dsn, query string) *SQLLoader {
	return &SQLLoader{DSN: dsn, Query: query}
}

// Load executes the query and converts the result set into a dataset.
func (l *SQLLoader) Load(ctx context.Context) (*dataset.Dataset, error) {
	db, err := sql.Open("mysql", l.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	defer db.Close()

	db.SetConnMaxLifetime(10 * time.Second)

	rows, err := db.QueryContext(ctx, l.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var cellRows [][]dataset.Cell
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}

		row := make([]dataset.Cell, len(values))
		for i, v := range values {
			row[i] = cellFromValue(v)
		}
		cellRows = append(cellRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating result rows: %w", err)
	}

	return buildDataset(columns, cellRows), nil
}

// cellFromValue converts a driver value into a typed cell. The MySQL driver
// returns most textual and decimal values as []byte, so those go through the
// same string typing as CSV fields.
func cellFromValue(v interface{}) dataset.Cell {
	switch val := v.(type) {
	case nil:
		return dataset.Missing()
	case int64:
		return dataset.Number(float64(val))
	case float64:
		return dataset.Number(val)
	case bool:
		if val {
			return dataset.Number(1)
		}
		return dataset.Number(0)
	case time.Time:
		return dataset.Text(val.Format(time.RFC3339))
	case []byte:
		return cellFromString(string(val))
	case string:
		return cellFromString(val)
	default:
		return dataset.Text(fmt.Sprintf("%v", val))
	}
}
