package drift

// ks.go - two-sample Kolmogorov-Smirnov statistic and asymptotic p-value

import (
	"math"
	"sort"
)

// ksStatistic returns the maximum gap between the two samples' empirical
// cumulative distribution functions. Inputs must be NaN-free and non-empty.
func ksStatistic(reference, current []float64) float64 {
	a := make([]float64, len(reference))
	copy(a, reference)
	sort.Float64s(a)
	b := make([]float64, len(current))
	copy(b, current)
	sort.Float64s(b)

	na, nb := float64(len(a)), float64(len(b))
	var i, j int
	var d float64
	for i < len(a) && j < len(b) {
		v := math.Min(a[i], b[j])
		for i < len(a) && a[i] <= v {
			i++
		}
		for j < len(b) && b[j] <= v {
			j++
		}
		gap := math.Abs(float64(i)/na - float64(j)/nb)
		if gap > d {
			d = gap
		}
	}
	return d
}

// ksPValue returns the asymptotic two-sided p-value for the two-sample KS
// statistic.
func ksPValue(reference, current []float64) float64 {
	d := ksStatistic(reference, current)
	na, nb := float64(len(reference)), float64(len(current))
	en := math.Sqrt(na * nb / (na + nb))
	return kolmogorovSurvival((en + 0.12 + 0.11/en) * d)
}

// kolmogorovSurvival evaluates Q_KS(lambda) = 2 * sum_{j>=1} (-1)^{j-1}
// exp(-2 j^2 lambda^2). The series converges fast for lambda away from zero;
// when it fails to converge the value is 1 (no evidence against the null).
func kolmogorovSurvival(lambda float64) float64 {
	const (
		maxTerms = 100
		relEps   = 0.001
		absEps   = 1e-8
	)

	a2 := -2 * lambda * lambda
	sum := 0.0
	sign := 1.0
	prev := 0.0
	for j := 1; j <= maxTerms; j++ {
		term := 2 * sign * math.Exp(a2*float64(j)*float64(j))
		sum += term
		if math.Abs(term) <= relEps*prev || math.Abs(term) <= absEps*sum {
			if sum < 0 {
				return 0
			}
			if sum > 1 {
				return 1
			}
			return sum
		}
		prev = math.Abs(term)
		sign = -sign
	}
	return 1
}
