package train

// encoder.go - feature encoding: median imputation + standardization for
// numeric columns, missing-category + one-hot for categorical columns

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/driftlabs/driftguard/pkg/dataset"
)

// Encoder maps snapshot rows onto the model's feature vector. Its
// parameters are fitted from the training snapshot and persisted in the
// model artifact, so serving encodes rows identically.
type Encoder struct {
	specs []FeatureSpec
}

// NewEncoder fits encoding parameters from the snapshot. The target column
// and excluded columns contribute no features.
func NewEncoder(s *dataset.Snapshot, target string, exclude []string) (*Encoder, error) {
	skip := map[string]struct{}{target: {}}
	for _, name := range exclude {
		skip[name] = struct{}{}
	}

	var specs []FeatureSpec
	for _, col := range s.Columns() {
		if _, skipped := skip[col.Name()]; skipped {
			continue
		}
		switch col.Type() {
		case dataset.ColumnNumeric:
			specs = append(specs, numericSpec(col))
		case dataset.ColumnCategorical:
			specs = append(specs, categoricalSpecs(col)...)
		}
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("no feature columns left after excluding target and non-features")
	}
	return &Encoder{specs: specs}, nil
}

// NewEncoderFromSpecs rebuilds an encoder from a persisted artifact.
func NewEncoderFromSpecs(specs []FeatureSpec) *Encoder {
	return &Encoder{specs: specs}
}

// Specs returns the fitted feature specs in encoding order.
func (e *Encoder) Specs() []FeatureSpec { return e.specs }

// FeatureColumns returns the distinct source column names in encoding
// order.
func (e *Encoder) FeatureColumns() []string {
	var cols []string
	seen := make(map[string]struct{})
	for _, spec := range e.specs {
		if _, ok := seen[spec.Column]; ok {
			continue
		}
		seen[spec.Column] = struct{}{}
		cols = append(cols, spec.Column)
	}
	return cols
}

// Encode turns every snapshot row into a feature vector. Columns the
// encoder was fitted on must exist in the snapshot.
func (e *Encoder) Encode(s *dataset.Snapshot) ([][]float64, error) {
	for _, name := range e.FeatureColumns() {
		if !s.HasColumn(name) {
			return nil, fmt.Errorf("snapshot missing feature column %q", name)
		}
	}

	rows := make([][]float64, s.Rows())
	for i := range rows {
		vec := make([]float64, len(e.specs))
		for j, spec := range e.specs {
			col, _ := s.Column(spec.Column)
			cell, present := col.Cell(i)
			vec[j] = spec.encode(cell, present)
		}
		rows[i] = vec
	}
	return rows, nil
}

// EncodeRecord encodes one feature-name to scalar mapping, as received by
// the scoring endpoint. Unknown extra keys are ignored; absent columns count
// as missing.
func (e *Encoder) EncodeRecord(record map[string]any) []float64 {
	vec := make([]float64, len(e.specs))
	for j, spec := range e.specs {
		raw, ok := record[spec.Column]
		if !ok || raw == nil {
			vec[j] = spec.encode("", false)
			continue
		}
		switch v := raw.(type) {
		case float64:
			vec[j] = spec.encode(strconv.FormatFloat(v, 'g', -1, 64), true)
		case string:
			vec[j] = spec.encode(v, v != "")
		default:
			vec[j] = spec.encode(fmt.Sprintf("%v", v), true)
		}
	}
	return vec
}

// encode maps one raw cell onto this spec's scalar.
func (s FeatureSpec) encode(cell string, present bool) float64 {
	switch s.Kind {
	case FeatureNumeric:
		v := s.Median
		if present {
			if f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
				v = f
			}
		}
		if s.Std == 0 {
			return v - s.Mean
		}
		return (v - s.Mean) / s.Std
	case FeatureCategorical:
		value := MissingCategory
		if present {
			value = strings.TrimSpace(cell)
		}
		if value == s.Category {
			return 1
		}
		return 0
	}
	return 0
}

func numericSpec(col *dataset.Column) FeatureSpec {
	values := col.Floats()
	med := median(values)

	// Mean and std are computed over the imputed sample so scaling matches
	// what the model sees.
	imputed := make([]float64, 0, col.Len())
	for i := 0; i < col.Len(); i++ {
		if cell, present := col.Cell(i); present {
			if f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
				imputed = append(imputed, f)
				continue
			}
		}
		imputed = append(imputed, med)
	}

	return FeatureSpec{
		Column: col.Name(),
		Kind:   FeatureNumeric,
		Median: med,
		Mean:   mean(imputed),
		Std:    std(imputed),
	}
}

func categoricalSpecs(col *dataset.Column) []FeatureSpec {
	seen := make(map[string]struct{})
	hasMissing := false
	for i := 0; i < col.Len(); i++ {
		cell, present := col.Cell(i)
		if !present {
			hasMissing = true
			continue
		}
		seen[strings.TrimSpace(cell)] = struct{}{}
	}

	categories := make([]string, 0, len(seen)+1)
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	if hasMissing {
		categories = append(categories, MissingCategory)
	}

	specs := make([]FeatureSpec, len(categories))
	for i, c := range categories {
		specs[i] = FeatureSpec{Column: col.Name(), Kind: FeatureCategorical, Category: c}
	}
	return specs
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

func std(x []float64) float64 {
	n := float64(len(x))
	if n == 0 {
		return 0
	}
	m := mean(x)
	sum := 0.0
	for _, v := range x {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / n)
}

func median(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
