// Package sampling draws actions from strategy distributions.
package sampling

const eps = 1e-6

// SampleOne returns the index selected from the discrete distribution pv
// by a uniform draw x in [0, 1).
func SampleOne(pv []float64, x float64) int {
	var cumProb float64
	for i, p := range pv {
		cumProb += p
		if cumProb > x {
			return i
		}
	}

	if cumProb < 1.0-eps { // Leave room for floating point error.
		panic("probability distribution does not sum to 1!")
	}

	return len(pv) - 1
}
