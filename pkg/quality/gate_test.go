package quality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlabs/driftguard/pkg/dataset"
)

func snapshot(t *testing.T, csv string) *dataset.Snapshot {
	t.Helper()
	s, err := dataset.Read(strings.NewReader(csv), "target")
	require.NoError(t, err)
	return s
}

func TestGateEvaluateSelf(t *testing.T) {
	// A snapshot validated against its own derived expectations passes.
	s := snapshot(t, "feature1,feature2,target\n1,10,0\n2,20,1\n3,30,0\n")

	gate := DefaultGate(s, Options{})
	verdict := gate.Evaluate(s)

	assert.True(t, verdict.Overall)
	assert.Len(t, verdict.Results, 4)
	assert.Empty(t, verdict.Failures())
}

func TestGateAllNullTarget(t *testing.T) {
	ref := snapshot(t, "feature1,feature2,target\n1,10,0\n2,20,1\n")
	cur := snapshot(t, "feature1,feature2,target\n1,10,\n2,20,null\n")

	gate := DefaultGate(ref, Options{})
	verdict := gate.Evaluate(cur)

	require.False(t, verdict.Overall)
	names := failureNames(verdict)
	assert.Contains(t, names, "binary_target")
	assert.Contains(t, names, "no_all_null_column")
}

func TestGateMissingColumnNamed(t *testing.T) {
	ref := snapshot(t, "feature1,feature2,target\n1,10,0\n2,20,1\n")
	cur := snapshot(t, "feature1,target\n1,0\n2,1\n")

	gate := DefaultGate(ref, Options{})
	verdict := gate.Evaluate(cur)

	require.False(t, verdict.Overall)
	failures := verdict.Failures()
	require.NotEmpty(t, failures)
	assert.Equal(t, "required_columns", failures[0].Name)
	assert.Contains(t, failures[0].Detail, "feature2")
}

func TestGateNoShortCircuit(t *testing.T) {
	ref := snapshot(t, "feature1,feature2,target\n1,10,0\n2,20,1\n")
	// Missing feature2, non-binary target, constant feature1.
	cur := snapshot(t, "feature1,target\n5,2\n5,2\n")

	gate := DefaultGate(ref, Options{})
	verdict := gate.Evaluate(cur)

	// Every expectation reports, even after the first failure.
	assert.Len(t, verdict.Results, 4)
	names := failureNames(verdict)
	assert.Contains(t, names, "required_columns")
	assert.Contains(t, names, "binary_target")
	assert.Contains(t, names, "numeric_diversity")
}

func TestGateDisabledExpectation(t *testing.T) {
	ref := snapshot(t, "feature1,feature2,target\n1,10,0\n2,20,1\n")
	cur := snapshot(t, "feature1,target\n1,0\n2,1\n")

	gate := DefaultGate(ref, Options{Disabled: []string{"required_columns"}})
	verdict := gate.Evaluate(cur)

	assert.True(t, verdict.Overall)
	assert.Len(t, verdict.Results, 3)
}

func TestGateExplicitRequiredColumns(t *testing.T) {
	cur := snapshot(t, "feature1,target\n1,0\n2,1\n")

	gate := DefaultGate(nil, Options{RequiredColumns: []string{"feature1", "target"}})
	verdict := gate.Evaluate(cur)

	assert.True(t, verdict.Overall)
}

func failureNames(v Verdict) []string {
	var names []string
	for _, r := range v.Failures() {
		names = append(names, r.Name)
	}
	return names
}
