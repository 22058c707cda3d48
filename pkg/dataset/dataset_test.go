package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want ColumnType
	}{
		{
			name: "all numeric",
			raw:  []string{"1", "2.5", "-3"},
			want: ColumnNumeric,
		},
		{
			name: "numeric with missing",
			raw:  []string{"1", "", "NaN", "4"},
			want: ColumnNumeric,
		},
		{
			name: "one text cell",
			raw:  []string{"1", "2", "abc"},
			want: ColumnCategorical,
		},
		{
			name: "all missing",
			raw:  []string{"", "na", "NULL"},
			want: ColumnCategorical,
		},
		{
			name: "scientific notation",
			raw:  []string{"1e3", "2.5e-2"},
			want: ColumnNumeric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.raw))
		})
	}
}

func TestIsMissing(t *testing.T) {
	for _, v := range []string{"", " ", "na", "NA", "NaN", "nan", "null", "NULL", " null "} {
		assert.True(t, isMissing(v), "expected %q to be missing", v)
	}
	for _, v := range []string{"0", "false", "none?", "n/a "} {
		assert.False(t, isMissing(v), "expected %q to be present", v)
	}
}

func TestNewSnapshot(t *testing.T) {
	s, err := New(
		[]string{"a", "b", "target"},
		[][]string{
			{"1", "x", "0"},
			{"2", "y", "1"},
		},
		"target",
	)
	require.NoError(t, err)

	assert.Equal(t, 2, s.Rows())
	assert.Equal(t, []string{"a", "b", "target"}, s.ColumnNames())

	a, ok := s.Column("a")
	require.True(t, ok)
	assert.Equal(t, ColumnNumeric, a.Type())

	b, ok := s.Column("b")
	require.True(t, ok)
	assert.Equal(t, ColumnCategorical, b.Type())

	// The target column is typed target even though its cells are numeric.
	tgt, ok := s.Column("target")
	require.True(t, ok)
	assert.Equal(t, ColumnTarget, tgt.Type())

	assert.False(t, s.HasColumn("missing"))
}

func TestNewSnapshotErrors(t *testing.T) {
	_, err := New([]string{"a", "b"}, [][]string{{"1"}}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0")

	_, err = New([]string{"a", "a"}, nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate column")
}

func TestColumnFloats(t *testing.T) {
	s, err := New([]string{"f"}, [][]string{{"1.5"}, {""}, {"nan"}, {"3"}}, "")
	require.NoError(t, err)

	col, _ := s.Column("f")
	assert.Equal(t, []float64{1.5, 3}, col.Floats())
	assert.Equal(t, 2, col.NonMissing())
	assert.Equal(t, 4, col.Len())

	_, ok := col.Cell(1)
	assert.False(t, ok)
	v, ok := col.Cell(3)
	assert.True(t, ok)
	assert.Equal(t, "3", v)
}

func TestDistinctNonMissing(t *testing.T) {
	s, err := New([]string{"f"}, [][]string{{"1"}, {"1"}, {" 1 "}, {"2"}, {"na"}}, "")
	require.NoError(t, err)

	col, _ := s.Column("f")
	assert.Equal(t, 2, col.DistinctNonMissing())
}

func TestNumericColumnNamesSorted(t *testing.T) {
	s, err := New(
		[]string{"zeta", "alpha", "name", "target"},
		[][]string{{"1", "2", "x", "0"}},
		"target",
	)
	require.NoError(t, err)

	// Sorted, and neither the categorical nor the target column appears.
	assert.Equal(t, []string{"alpha", "zeta"}, s.NumericColumnNames())
}

func TestRead(t *testing.T) {
	csv := "feature1,feature2,target\n1,10,0\n2,20,1\n"
	s, err := Read(strings.NewReader(csv), "target")
	require.NoError(t, err)

	assert.Equal(t, 2, s.Rows())
	f1, _ := s.Column("feature1")
	assert.Equal(t, []float64{1, 2}, f1.Floats())
}

func TestReadEmpty(t *testing.T) {
	_, err := Read(strings.NewReader(""), "target")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing header")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.csv", "target")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open dataset")
}
