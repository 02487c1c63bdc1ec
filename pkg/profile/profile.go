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

// Package profile computes per-column descriptive statistics used by the
// downstream detectors.
package profile

import (
	"math"
	"sort"

	"github.com/auditlab-io/tableaudit/pkg/dataset"
)

// ColumnProfile summarizes the numeric content of one column.
//
// A column with fewer than 2 numeric values is marked Insufficient and
// carries no statistics; downstream detectors must skip it.
type ColumnProfile struct {
	Column       string  `json:"column"`
	Count        int     `json:"count"`
	MissingCount int     `json:"missing_count"`
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Q1           float64 `json:"q1"`
	Median       float64 `json:"median"`
	Q3           float64 `json:"q3"`
	Insufficient bool    `json:"insufficient,omitempty"`
}

// Columns profiles every numeric and mixed column of the dataset, in
// dataset column order. Text columns are excluded entirely.
func Columns(ds *dataset.Dataset) []ColumnProfile {
	profiles := make([]ColumnProfile, 0, ds.NumColumns())
	for colIdx, col := range ds.Columns {
		if col.Kind == dataset.ColumnText {
			continue
		}
		profiles = append(profiles, profileColumn(ds, colIdx))
	}
	return profiles
}

// profileColumn accumulates mean and variance in one pass (Welford), then
// derives the order statistics from the sorted values.
func profileColumn(ds *dataset.Dataset, colIdx int) ColumnProfile {
	p := ColumnProfile{Column: ds.Columns[colIdx].Name}

	var (
		n      int
		mean   float64
		m2     float64
		values []float64
	)
	for _, row := range ds.Rows {
		cell := row[colIdx]
		if cell.IsMissing() {
			p.MissingCount++
			continue
		}
		if cell.Kind != dataset.CellNumber {
			continue
		}

		v := cell.Number
		n++
		delta := v - mean
		mean += delta / float64(n)
		m2 += delta * (v - mean)
		values = append(values, v)
	}

	p.Count = n
	if n < 2 {
		p.Insufficient = true
		return p
	}

	sort.Float64s(values)
	p.Mean = mean
	p.StdDev = math.Sqrt(m2 / float64(n-1))
	p.Min = values[0]
	p.Max = values[n-1]
	p.Q1 = quantile(values, 0.25)
	p.Median = quantile(values, 0.50)
	p.Q3 = quantile(values, 0.75)
	return p
}

// quantile returns the q-th quantile of a sorted slice using linear
// interpolation between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
