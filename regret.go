package cfr

import (
	"gonum.org/v1/gonum/floats"
)

// RegretMatching writes the current strategy implied by the given cumulative
// regrets into dst: each action is played in proportion to its positive regret,
// or uniformly if no action has positive regret.
func RegretMatching(dst, regret []float64) {
	copy(dst, regret)
	makePositive(dst)
	normalizeOrUniform(dst)
}

// AverageStrategy writes the normalized cumulative strategy into dst, falling
// back to the uniform distribution if nothing has been accumulated yet.
func AverageStrategy(dst, cumulative []float64) {
	copy(dst, cumulative)
	normalizeOrUniform(dst)
}

// normalizeOrUniform scales v (assumed non-negative) to sum to 1.
func normalizeOrUniform(v []float64) {
	total := floats.Sum(v)
	if total > 0 {
		floats.Scale(1.0/total, v)
		return
	}

	fillUniform(v)
}

func uniformDist(n int) []float64 {
	result := make([]float64, n)
	fillUniform(result)
	return result
}

func fillUniform(v []float64) {
	p := 1.0 / float64(len(v))
	for i := range v {
		v[i] = p
	}
}

func makePositive(v []float64) {
	for i := range v {
		if v[i] < 0 {
			v[i] = 0.0
		}
	}
}
