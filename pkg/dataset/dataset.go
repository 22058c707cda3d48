// Package dataset provides the immutable tabular snapshot type shared by the
// quality gate, the drift engine, and the training pipeline.
package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ColumnType classifies a column for downstream stages.
type ColumnType string

const (
	// ColumnNumeric means every non-missing cell parses as a float.
	ColumnNumeric ColumnType = "numeric"
	// ColumnCategorical means at least one non-missing cell is not numeric.
	ColumnCategorical ColumnType = "categorical"
	// ColumnTarget marks the configured prediction target.
	ColumnTarget ColumnType = "target"
)

// Column is one named column of a snapshot. Cells are kept as the raw text
// read from disk; numeric access parses on demand and skips missing cells.
type Column struct {
	name string
	typ  ColumnType
	raw  []string
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Type returns the column classification.
func (c *Column) Type() ColumnType { return c.typ }

// Len returns the number of cells, missing included.
func (c *Column) Len() int { return len(c.raw) }

// Cell returns the raw text of row i and whether the cell is non-missing.
func (c *Column) Cell(i int) (string, bool) {
	v := c.raw[i]
	if isMissing(v) {
		return "", false
	}
	return v, true
}

// Floats returns the non-missing cells parsed as float64, in row order.
// Cells that fail to parse are skipped; for numeric and target columns there
// are none by construction.
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, len(c.raw))
	for _, v := range c.raw {
		if isMissing(v) {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	return out
}

// NonMissing returns the count of non-missing cells.
func (c *Column) NonMissing() int {
	n := 0
	for _, v := range c.raw {
		if !isMissing(v) {
			n++
		}
	}
	return n
}

// DistinctNonMissing returns the count of distinct non-missing cell values.
func (c *Column) DistinctNonMissing() int {
	seen := make(map[string]struct{}, len(c.raw))
	for _, v := range c.raw {
		if isMissing(v) {
			continue
		}
		seen[strings.TrimSpace(v)] = struct{}{}
	}
	return len(seen)
}

// Snapshot is an immutable point-in-time dataset: ordered named columns of
// equal length. Construct one with Load or New; there are no mutators.
type Snapshot struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a snapshot from ordered column names and row-major cells.
// The target column, if present by name, is typed ColumnTarget; other columns
// are typed numeric or categorical from their contents.
func New(names []string, rows [][]string, target string) (*Snapshot, error) {
	for i, row := range rows {
		if len(row) != len(names) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(names))
		}
	}

	s := &Snapshot{
		columns: make([]*Column, 0, len(names)),
		index:   make(map[string]int, len(names)),
		rows:    len(rows),
	}
	for j, name := range names {
		if _, dup := s.index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		raw := make([]string, len(rows))
		for i := range rows {
			raw[i] = rows[i][j]
		}
		col := &Column{name: name, raw: raw}
		col.typ = classify(raw)
		if name == target {
			col.typ = ColumnTarget
		}
		s.index[name] = len(s.columns)
		s.columns = append(s.columns, col)
	}
	return s, nil
}

// Rows returns the number of rows.
func (s *Snapshot) Rows() int { return s.rows }

// Columns returns the columns in declaration order.
func (s *Snapshot) Columns() []*Column { return s.columns }

// ColumnNames returns the column names in declaration order.
func (s *Snapshot) ColumnNames() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.name
	}
	return names
}

// Column returns the named column, or false when absent.
func (s *Snapshot) Column(name string) (*Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.columns[i], true
}

// HasColumn reports whether the named column exists.
func (s *Snapshot) HasColumn(name string) bool {
	_, ok := s.index[name]
	return ok
}

// NumericColumnNames returns the names of numeric columns, sorted.
func (s *Snapshot) NumericColumnNames() []string {
	var names []string
	for _, c := range s.columns {
		if c.typ == ColumnNumeric {
			names = append(names, c.name)
		}
	}
	sort.Strings(names)
	return names
}

// classify types a column from its raw cells: numeric when every non-missing
// cell parses as a float, categorical otherwise. All-missing columns are
// categorical; the gate flags them separately.
func classify(raw []string) ColumnType {
	any := false
	for _, v := range raw {
		if isMissing(v) {
			continue
		}
		any = true
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return ColumnCategorical
		}
	}
	if !any {
		return ColumnCategorical
	}
	return ColumnNumeric
}

// isMissing reports whether a cell is a missing value. Matches the markers
// the upstream preprocessing emits.
func isMissing(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "na", "nan", "null":
		return true
	}
	return false
}
