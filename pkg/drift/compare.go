// Package drift quantifies distributional change between a reference and a
// current sample: per-feature Population Stability Index over reference
// quantile bins, plus the two-sample Kolmogorov-Smirnov test on the raw
// samples.
package drift

import (
	"math"
	"sort"
)

// Default policy constants. Both are configurable; the defaults live here so
// call sites never hard-code them.
const (
	// DefaultBins is the default quantile bin count for PSI.
	DefaultBins = 10

	// DefaultFloor replaces zero bin proportions before the log ratio, so
	// PSI stays finite on empty bins.
	DefaultFloor = 1e-4

	// DefaultThreshold is the default PSI retrain threshold.
	DefaultThreshold = 0.25
)

// constantTol is the absolute tolerance for counting a current value as
// equal to a zero-variance reference's constant.
const constantTol = 1e-10

// Options configures the comparator. Zero values select the defaults.
type Options struct {
	// Bins is the quantile bin count computed from the reference sample.
	Bins int

	// Floor is the minimum bin proportion used in the PSI log ratio.
	Floor float64
}

func (o Options) bins() int {
	if o.Bins <= 0 {
		return DefaultBins
	}
	return o.Bins
}

func (o Options) floor() float64 {
	if o.Floor <= 0 {
		return DefaultFloor
	}
	return o.Floor
}

// FeatureComparison is the result of comparing one numeric feature's
// reference and current samples.
type FeatureComparison struct {
	Feature      string    `json:"feature"`
	ReferencePct []float64 `json:"reference_pct,omitempty"`
	CurrentPct   []float64 `json:"current_pct,omitempty"`
	PSI          float64   `json:"psi"`
	KSStatistic  float64   `json:"ks_stat"`
	KSPValue     float64   `json:"ks_pvalue"`
}

// Compare computes PSI and the KS test for one feature. NaNs are dropped
// from each sample independently. When either cleaned sample has fewer than
// two observations the result is the defined degenerate value
// {psi: 0, ks: 0, p: 1} rather than an error.
func Compare(reference, current []float64, opts Options) FeatureComparison {
	ref := dropNaN(reference)
	cur := dropNaN(current)

	if len(ref) < 2 || len(cur) < 2 {
		return FeatureComparison{PSI: 0, KSStatistic: 0, KSPValue: 1}
	}

	edges := quantileEdges(ref, opts.bins())
	var refPct, curPct []float64
	if edges[0] == edges[len(edges)-1] {
		// Zero-variance reference: the single bin is the point at the
		// constant, and only current values at that point fall inside it.
		// Shifted values stay outside; there is no clamping here.
		refPct = []float64{1}
		curPct = []float64{constantBinShare(cur, edges[0])}
	} else {
		refPct = binProportions(ref, edges)
		curPct = binProportions(cur, edges)
	}

	return FeatureComparison{
		ReferencePct: refPct,
		CurrentPct:   curPct,
		PSI:          psi(refPct, curPct, opts.floor()),
		KSStatistic:  ksStatistic(ref, cur),
		KSPValue:     ksPValue(ref, cur),
	}
}

// psi sums (current - reference) * ln(current/reference) over bins, with
// zero proportions floored first. Identical proportions yield exactly 0.
func psi(refPct, curPct []float64, floor float64) float64 {
	sum := 0.0
	for i := range refPct {
		r := refPct[i]
		c := curPct[i]
		if r == c {
			continue
		}
		if r < floor {
			r = floor
		}
		if c < floor {
			c = floor
		}
		sum += (c - r) * math.Log(c/r)
	}
	return sum
}

// quantileEdges partitions the reference range into quantile-based bins
// computed from the reference sample only. Duplicate edges collapse, so a
// reference with fewer distinct values than bins yields fewer bins. A
// zero-variance reference yields the degenerate pair [v, v], which Compare
// treats as a point bin rather than an interval. The result always has at
// least two edges.
func quantileEdges(ref []float64, bins int) []float64 {
	sorted := make([]float64, len(ref))
	copy(sorted, ref)
	sort.Float64s(sorted)

	distinct := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1] {
			distinct++
		}
	}
	if bins > distinct {
		bins = distinct
	}
	if bins < 1 {
		bins = 1
	}

	edges := make([]float64, 0, bins+1)
	for i := 0; i <= bins; i++ {
		e := quantile(sorted, float64(i)/float64(bins))
		if len(edges) > 0 && e == edges[len(edges)-1] {
			continue
		}
		edges = append(edges, e)
	}
	if len(edges) < 2 {
		// Zero-variance reference: one bin at that value.
		edges = append(edges, edges[0])
	}
	return edges
}

// quantile computes the q-quantile of a sorted sample by linear
// interpolation.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// binProportions assigns a sample to bins by the shared edges and returns
// each bin's count / sample size. Out-of-range values clamp to the nearest
// edge bin.
func binProportions(sample []float64, edges []float64) []float64 {
	bins := len(edges) - 1
	counts := make([]int, bins)
	for _, v := range sample {
		counts[binIndex(edges, v)]++
	}
	pct := make([]float64, bins)
	for i, c := range counts {
		pct[i] = float64(c) / float64(len(sample))
	}
	return pct
}

// binIndex returns the bin for v: left-inclusive intervals, last bin closed,
// out-of-range values clamped to the edge bins.
func binIndex(edges []float64, v float64) int {
	last := len(edges) - 2
	if v <= edges[0] {
		return 0
	}
	if v >= edges[len(edges)-1] {
		return last
	}
	// Smallest i with edges[i] >= v; v lands in the bin starting at
	// edges[i] when equal, else the one before.
	i := sort.SearchFloat64s(edges, v)
	if edges[i] != v {
		i--
	}
	if i > last {
		i = last
	}
	return i
}

// constantBinShare is the share of the sample falling in a zero-variance
// reference's point bin, i.e. values equal to the constant within
// constantTol. No clamping: shifted values count as outside.
func constantBinShare(sample []float64, c float64) float64 {
	n := 0
	for _, v := range sample {
		if math.Abs(v-c) <= constantTol {
			n++
		}
	}
	return float64(n) / float64(len(sample))
}

func dropNaN(sample []float64) []float64 {
	out := make([]float64, 0, len(sample))
	for _, v := range sample {
		if math.IsNaN(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
