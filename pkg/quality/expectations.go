package quality

// expectations.go - the default expectation set

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/driftlabs/driftguard/pkg/dataset"
)

// DefaultMinDistinct is the default distinct-value requirement for numeric
// columns.
const DefaultMinDistinct = 2

// DefaultRequiredColumns is the fallback column set used when no reference
// snapshot is supplied.
var DefaultRequiredColumns = []string{"feature1", "feature2", "target"}

// RequiredColumns checks that every expected column exists in the snapshot.
// All missing columns are listed, not just the first.
type RequiredColumns struct {
	Columns []string
}

// RequiredColumnsFrom derives the expected set from a reference snapshot, or
// falls back to DefaultRequiredColumns when reference is nil.
func RequiredColumnsFrom(reference *dataset.Snapshot) RequiredColumns {
	if reference == nil {
		cols := make([]string, len(DefaultRequiredColumns))
		copy(cols, DefaultRequiredColumns)
		return RequiredColumns{Columns: cols}
	}
	return RequiredColumns{Columns: reference.ColumnNames()}
}

func (e RequiredColumns) Name() string { return "required_columns" }

func (e RequiredColumns) Description() string {
	return "every expected column must exist"
}

func (e RequiredColumns) Evaluate(s *dataset.Snapshot) Result {
	var missing []string
	for _, name := range e.Columns {
		if !s.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fail(e.Name(), fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")))
	}
	return pass(e.Name())
}

// BinaryTarget checks that every non-missing target value is 0 or 1. The
// check fails when the column is absent or entirely missing.
type BinaryTarget struct {
	Column string
}

func (e BinaryTarget) Name() string { return "binary_target" }

func (e BinaryTarget) Description() string {
	return "target values must be 0 or 1"
}

func (e BinaryTarget) Evaluate(s *dataset.Snapshot) Result {
	col, ok := s.Column(e.Column)
	if !ok {
		return fail(e.Name(), fmt.Sprintf("target column %q not in data", e.Column))
	}
	if col.NonMissing() == 0 {
		return fail(e.Name(), fmt.Sprintf("target column %q is all null", e.Column))
	}

	bad := make(map[string]struct{})
	for i := 0; i < col.Len(); i++ {
		cell, present := col.Cell(i)
		if !present {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil || (f != 0 && f != 1) {
			bad[strings.TrimSpace(cell)] = struct{}{}
		}
	}
	if len(bad) > 0 {
		vals := make([]string, 0, len(bad))
		for v := range bad {
			vals = append(vals, v)
		}
		sort.Strings(vals)
		return fail(e.Name(), fmt.Sprintf("target must be binary (0/1); found values: %s", strings.Join(vals, ", ")))
	}
	return pass(e.Name())
}

// NoAllNullColumn checks that every column has at least one non-missing
// value. All offending columns are listed.
type NoAllNullColumn struct{}

func (e NoAllNullColumn) Name() string { return "no_all_null_column" }

func (e NoAllNullColumn) Description() string {
	return "no column may be entirely null"
}

func (e NoAllNullColumn) Evaluate(s *dataset.Snapshot) Result {
	var offenders []string
	for _, col := range s.Columns() {
		if col.NonMissing() == 0 {
			offenders = append(offenders, col.Name())
		}
	}
	if len(offenders) > 0 {
		return fail(e.Name(), fmt.Sprintf("completely null columns: %s", strings.Join(offenders, ", ")))
	}
	return pass(e.Name())
}

// NumericDiversity checks that every numeric column has at least MinDistinct
// distinct non-missing values. All offending columns are listed.
type NumericDiversity struct {
	MinDistinct int
}

func (e NumericDiversity) Name() string { return "numeric_diversity" }

func (e NumericDiversity) Description() string {
	return "numeric columns need a minimum number of distinct values"
}

func (e NumericDiversity) Evaluate(s *dataset.Snapshot) Result {
	min := e.MinDistinct
	if min <= 0 {
		min = DefaultMinDistinct
	}

	var offenders []string
	for _, col := range s.Columns() {
		if col.Type() != dataset.ColumnNumeric {
			continue
		}
		if col.NonMissing() > 0 && col.DistinctNonMissing() < min {
			offenders = append(offenders, col.Name())
		}
	}
	if len(offenders) > 0 {
		return fail(e.Name(), fmt.Sprintf("numeric columns with < %d distinct values: %s", min, strings.Join(offenders, ", ")))
	}
	return pass(e.Name())
}
