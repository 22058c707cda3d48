package train

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlabs/driftguard/pkg/dataset"
)

func trainSnapshot(t *testing.T, csv string) *dataset.Snapshot {
	t.Helper()
	s, err := dataset.Read(strings.NewReader(csv), "target")
	require.NoError(t, err)
	return s
}

func TestNewEncoderNumeric(t *testing.T) {
	s := trainSnapshot(t, "f,target\n1,0\n2,0\n3,1\n4,1\n5,1\n")

	enc, err := NewEncoder(s, "target", nil)
	require.NoError(t, err)

	specs := enc.Specs()
	require.Len(t, specs, 1)
	assert.Equal(t, "f", specs[0].Column)
	assert.Equal(t, FeatureNumeric, specs[0].Kind)
	assert.Equal(t, 3.0, specs[0].Median)
	assert.Equal(t, 3.0, specs[0].Mean)
	assert.InDelta(t, 1.4142, specs[0].Std, 1e-3)
}

func TestNewEncoderCategorical(t *testing.T) {
	s := trainSnapshot(t, "color,target\nred,0\nblue,1\nred,0\nna,1\n")

	enc, err := NewEncoder(s, "target", nil)
	require.NoError(t, err)

	// One spec per category, sorted, with the missing bucket appended.
	var categories []string
	for _, spec := range enc.Specs() {
		assert.Equal(t, "color", spec.Column)
		assert.Equal(t, FeatureCategorical, spec.Kind)
		categories = append(categories, spec.Category)
	}
	assert.Equal(t, []string{"blue", "red", MissingCategory}, categories)
}

func TestNewEncoderExcludesColumns(t *testing.T) {
	s := trainSnapshot(t, "f,flight_date,year,target\n1,2024-01-01,2024,0\n2,2024-01-02,2024,1\n")

	enc, err := NewEncoder(s, "target", []string{"flight_date", "year"})
	require.NoError(t, err)

	assert.Equal(t, []string{"f"}, enc.FeatureColumns())
}

func TestNewEncoderNoFeatures(t *testing.T) {
	s := trainSnapshot(t, "f,target\n1,0\n2,1\n")

	_, err := NewEncoder(s, "target", []string{"f"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no feature columns")
}

func TestEncodeImputesAndStandardizes(t *testing.T) {
	// Median of {1,2,3} is 2; the missing cell imputes to it.
	s := trainSnapshot(t, "f,target\n1,0\n2,0\n3,1\nna,1\n")

	enc, err := NewEncoder(s, "target", nil)
	require.NoError(t, err)
	rows, err := enc.Encode(s)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	spec := enc.Specs()[0]
	assert.Equal(t, 2.0, spec.Median)
	// The imputed row encodes identically to a literal median cell.
	assert.Equal(t, rows[1][0], rows[3][0])
	assert.Equal(t, 0.0, rows[1][0])
}

func TestEncodeZeroVarianceColumn(t *testing.T) {
	s := trainSnapshot(t, "f,target\n7,0\n7,1\n7,0\n")

	enc, err := NewEncoder(s, "target", nil)
	require.NoError(t, err)
	rows, err := enc.Encode(s)
	require.NoError(t, err)

	// Std zero degrades to centering, never a division by zero.
	for _, row := range rows {
		assert.Equal(t, 0.0, row[0])
	}
}

func TestEncodeMissingColumn(t *testing.T) {
	fitted := trainSnapshot(t, "f,g,target\n1,2,0\n3,4,1\n")
	enc, err := NewEncoder(fitted, "target", nil)
	require.NoError(t, err)

	other := trainSnapshot(t, "f,target\n1,0\n")
	_, err = enc.Encode(other)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing feature column "g"`)
}

func TestEncodeRecord(t *testing.T) {
	s := trainSnapshot(t, "f,color,target\n1,red,0\n2,blue,0\n3,red,1\n")
	enc, err := NewEncoder(s, "target", nil)
	require.NoError(t, err)

	full := enc.EncodeRecord(map[string]any{"f": 2.0, "color": "red"})
	require.Len(t, full, len(enc.Specs()))

	// Absent keys impute like missing cells; unknown keys are ignored.
	sparse := enc.EncodeRecord(map[string]any{"extra": 99})
	require.Len(t, sparse, len(enc.Specs()))

	// f=2 is the median, so the imputed value matches the explicit one.
	assert.Equal(t, full[0], sparse[0])
}

func TestEncoderRoundTripFromSpecs(t *testing.T) {
	s := trainSnapshot(t, "f,color,target\n1,red,0\n2,blue,1\n3,red,0\n")
	enc, err := NewEncoder(s, "target", nil)
	require.NoError(t, err)

	rebuilt := NewEncoderFromSpecs(enc.Specs())

	a, err := enc.Encode(s)
	require.NoError(t, err)
	b, err := rebuilt.Encode(s)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
