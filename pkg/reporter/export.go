// Copyright 2025 AuditLab, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package reporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/auditlab-io/tableaudit/pkg/dataset"
	"github.com/auditlab-io/tableaudit/pkg/report"
)

// ExportCSV writes the original table back out with one additional
// "<column>_anomaly" flag column per column that has at least one anomaly
// finding. Flag columns appear after the original columns, in dataset
// column order.
func ExportCSV(ds *dataset.Dataset, rep *report.Report, w io.Writer) error {
	anomalous := make(map[string]map[int]bool)
	for _, f := range rep.Anomalies {
		rows, ok := anomalous[f.Column]
		if !ok {
			rows = make(map[int]bool)
			anomalous[f.Column] = rows
		}
		rows[f.Row] = true
	}

	var flagged []string
	for _, col := range ds.Columns {
		if _, ok := anomalous[col.Name]; ok {
			flagged = append(flagged, col.Name)
		}
	}

	writer := csv.NewWriter(w)

	header := make([]string, 0, ds.NumColumns()+len(flagged))
	for _, col := range ds.Columns {
		header = append(header, col.Name)
	}
	for _, name := range flagged {
		header = append(header, name+"_anomaly")
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	record := make([]string, len(header))
	for rowIdx, row := range ds.Rows {
		record = record[:0]
		for _, cell := range row {
			record = append(record, cell.String())
		}
		for _, name := range flagged {
			record = append(record, strconv.FormatBool(anomalous[name][rowIdx]))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write export row %d: %w", rowIdx, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
