package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredColumnsFrom(t *testing.T) {
	t.Run("nil reference falls back to defaults", func(t *testing.T) {
		e := RequiredColumnsFrom(nil)
		assert.Equal(t, DefaultRequiredColumns, e.Columns)
	})

	t.Run("reference supplies its column names", func(t *testing.T) {
		ref := snapshot(t, "a,b,target\n1,2,0\n")
		e := RequiredColumnsFrom(ref)
		assert.Equal(t, []string{"a", "b", "target"}, e.Columns)
	})
}

func TestRequiredColumnsListsAllMissing(t *testing.T) {
	s := snapshot(t, "a,target\n1,0\n")

	e := RequiredColumns{Columns: []string{"a", "b", "c", "target"}}
	r := e.Evaluate(s)

	require.False(t, r.Passed)
	assert.Contains(t, r.Detail, "b, c")
}

func TestBinaryTarget(t *testing.T) {
	tests := []struct {
		name       string
		csv        string
		passed     bool
		wantDetail string
	}{
		{
			name:   "valid binary",
			csv:    "target\n0\n1\n0\n",
			passed: true,
		},
		{
			name:   "binary with missing cells",
			csv:    "target\n0\nna\n1\n",
			passed: true,
		},
		{
			name:   "float encodings of 0 and 1",
			csv:    "target\n0.0\n1.0\n",
			passed: true,
		},
		{
			name:       "out of range value",
			csv:        "target\n0\n2\n1\n",
			passed:     false,
			wantDetail: "found values: 2",
		},
		{
			name:       "non-numeric value",
			csv:        "target\n0\nyes\n",
			passed:     false,
			wantDetail: "yes",
		},
		{
			name:       "all null",
			csv:        "target\n\nna\n",
			passed:     false,
			wantDetail: "all null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snapshot(t, tt.csv)
			r := BinaryTarget{Column: "target"}.Evaluate(s)

			assert.Equal(t, tt.passed, r.Passed)
			if tt.wantDetail != "" {
				assert.Contains(t, r.Detail, tt.wantDetail)
			}
		})
	}
}

func TestBinaryTargetAbsentColumn(t *testing.T) {
	s := snapshot(t, "feature1\n1\n")
	r := BinaryTarget{Column: "target"}.Evaluate(s)

	require.False(t, r.Passed)
	assert.Contains(t, r.Detail, "not in data")
}

func TestNoAllNullColumnListsOffenders(t *testing.T) {
	s := snapshot(t, "a,b,c\n1,,\n2,na,null\n")

	r := NoAllNullColumn{}.Evaluate(s)

	require.False(t, r.Passed)
	assert.Contains(t, r.Detail, "b, c")
}

func TestNumericDiversity(t *testing.T) {
	t.Run("constant numeric column fails", func(t *testing.T) {
		s := snapshot(t, "a,b\n5,1\n5,2\n5,3\n")
		r := NumericDiversity{}.Evaluate(s)

		require.False(t, r.Passed)
		assert.Contains(t, r.Detail, "a")
		assert.NotContains(t, r.Detail, "b")
	})

	t.Run("categorical columns exempt", func(t *testing.T) {
		s := snapshot(t, "a\nx\nx\n")
		r := NumericDiversity{}.Evaluate(s)
		assert.True(t, r.Passed)
	})

	t.Run("all-null numeric column exempt", func(t *testing.T) {
		// The all-null check owns fully missing columns.
		s := snapshot(t, "a,b\n,1\n,2\n")
		r := NumericDiversity{}.Evaluate(s)
		assert.True(t, r.Passed)
	})

	t.Run("custom threshold", func(t *testing.T) {
		s := snapshot(t, "a\n1\n2\n")
		r := NumericDiversity{MinDistinct: 3}.Evaluate(s)
		require.False(t, r.Passed)
		assert.Contains(t, r.Detail, "< 3 distinct")
	})
}

func TestExpectationNamesUnique(t *testing.T) {
	gate := DefaultGate(nil, Options{})
	seen := make(map[string]struct{})
	for _, e := range gate.Expectations() {
		_, dup := seen[e.Name()]
		require.False(t, dup, "duplicate expectation name %q", e.Name())
		seen[e.Name()] = struct{}{}
		assert.NotEmpty(t, e.Description())
	}
}

func TestVerdictFailuresOrder(t *testing.T) {
	v := newVerdict([]Result{
		fail("first", "x"),
		pass("second"),
		fail("third", "y"),
	})

	assert.False(t, v.Overall)
	failures := v.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, "first", failures[0].Name)
	assert.Equal(t, "third", failures[1].Name)
}
