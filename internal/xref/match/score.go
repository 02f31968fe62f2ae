// Package match scores catalog candidates against a competitor part.
package match

import "xref-service/internal/xref/model"

const (
	ElectricalTolerance = 0.1
	PhysicalTolerance   = 0.2
	PhysicalWeight      = 0.2
)

// Weights of model.Attributes.Primary, in order. They sum to 1.
var ElectricalWeights = [3]float64{0.4, 0.3, 0.3}

// CompareValues returns 1 when a and b are within tolerance of each other
// and 1/ratio beyond it. Zero means "absent" on either side and scores 0.
func CompareValues(a, b, tolerance float64) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	hi, lo := a, b
	if lo > hi {
		hi, lo = lo, hi
	}
	ratio := hi / lo
	if ratio <= 1+tolerance {
		return 1
	}
	return 1 / ratio
}

// ComparePhysicalDimensions averages the three axis similarities. An axis
// absent on either side counts as 0, it is not dropped from the average.
func ComparePhysicalDimensions(a, b model.Attributes) float64 {
	da, db := a.Dimensions(), b.Dimensions()
	var sum float64
	for i := range da {
		sum += CompareValues(da[i], db[i], PhysicalTolerance)
	}
	return sum / float64(len(da))
}

// CalculateMatchScore returns a ranking signal in [0, 1.2]. ok is false
// when the kinds differ: cross-kind scores are not defined.
func CalculateMatchScore(a, b model.Component) (score float64, ok bool) {
	if a.Attrs == nil || b.Attrs == nil || a.Kind() != b.Kind() {
		return 0, false
	}
	pa, pb := a.Attrs.Primary(), b.Attrs.Primary()
	for i, w := range ElectricalWeights {
		score += w * CompareValues(pa[i], pb[i], ElectricalTolerance)
	}
	score += PhysicalWeight * ComparePhysicalDimensions(a.Attrs, b.Attrs)
	return score, true
}
