package cfr

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// InfoSet accumulates regrets and strategy weights for one information set.
// All per-action slices are indexed like Actions.
type InfoSet struct {
	Key     string
	Actions []Action

	Regret             []float64
	CumulativeStrategy []float64
	// Strategy is the current regret-matching strategy. It is recomputed
	// by CalculateStrategy whenever Regret changes.
	Strategy []float64
}

// NewInfoSet returns an InfoSet with zero regret and a uniform strategy.
func NewInfoSet(key string, actions []Action) (*InfoSet, error) {
	if len(actions) == 0 {
		return nil, errors.Wrapf(ErrNoLegalActions, "infoset %q", key)
	}

	nActions := len(actions)
	return &InfoSet{
		Key:                key,
		Actions:            append([]Action(nil), actions...),
		Regret:             make([]float64, nActions),
		CumulativeStrategy: make([]float64, nActions),
		Strategy:           uniformDist(nActions),
	}, nil
}

// NumActions returns the number of legal actions at this information set.
func (is *InfoSet) NumActions() int {
	return len(is.Actions)
}

// CalculateStrategy recomputes the current strategy from the cumulative regret.
func (is *InfoSet) CalculateStrategy() {
	if len(is.Strategy) != len(is.Regret) {
		is.Strategy = make([]float64, len(is.Regret))
	}

	RegretMatching(is.Strategy, is.Regret)
}

// AverageStrategy returns the time-averaged strategy, which is the policy
// that converges to an equilibrium.
func (is *InfoSet) AverageStrategy() []float64 {
	result := make([]float64, len(is.CumulativeStrategy))
	AverageStrategy(result, is.CumulativeStrategy)
	return result
}

// update accumulates instantaneous regrets weighted by the opponent's reach
// probability and the strategy that produced value weighted by the actor's
// own reach probability, then recomputes the current strategy.
func (is *InfoSet) update(strategy, actionValues []float64, value, reachP, counterFactualP float64) {
	for i, v := range actionValues {
		is.Regret[i] += counterFactualP * (v - value)
	}

	floats.AddScaled(is.CumulativeStrategy, reachP, strategy)
	is.CalculateStrategy()
}

// hasActions reports whether the InfoSet was created with exactly the given actions.
func (is *InfoSet) hasActions(actions []Action) bool {
	if len(actions) != len(is.Actions) {
		return false
	}

	for i, a := range actions {
		if is.Actions[i] != a {
			return false
		}
	}

	return true
}

// String implements fmt.Stringer.
func (is *InfoSet) String() string {
	return fmt.Sprintf("%q actions=%v strategy=%.3f average=%.3f",
		is.Key, is.Actions, is.Strategy, is.AverageStrategy())
}
