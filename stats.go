package datasage

import (
	"math"
	"sort"
)

// Stats holds descriptive statistics of a numeric column.
type Stats struct {
	Count  int
	Mean   float64
	Std    float64 // sample standard deviation; 0 when Count < 2
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Describe computes Stats over values. The zero Stats is returned for an
// empty slice.
func Describe(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	m := mean(sorted)
	return Stats{
		Count:  len(sorted),
		Mean:   m,
		Std:    stddev(sorted, m),
		Min:    sorted[0],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

// IQRBounds returns the Tukey fences Q1-1.5*IQR and Q3+1.5*IQR.
func (s Stats) IQRBounds() (lower, upper float64) {
	iqr := s.Q3 - s.Q1
	return s.Q1 - 1.5*iqr, s.Q3 + 1.5*iqr
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64, m float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// quantile uses linear interpolation between closest ranks. sorted must be
// ascending and non-empty.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Correlation returns the Pearson correlation of paired samples. ok is false
// when fewer than two pairs exist or either side has zero variance.
func Correlation(xs, ys []float64) (r float64, ok bool) {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return 0, false
	}
	mx, my := mean(xs), mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, false
	}
	return sxy / math.Sqrt(sxx*syy), true
}

// round rounds v to the given number of decimal places.
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
