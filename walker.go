package cfr

import (
	"github.com/pkg/errors"
)

// WalkStats counts the nodes touched by a Walker.
type WalkStats struct {
	NodesVisited  int64
	TerminalNodes int64
}

// Walker performs chance-sampled CFR traversals of a game tree,
// accumulating regrets and strategy weights into an InfoSetTable.
//
// Chance outcomes are sampled once per root by the game, so the sampling
// probabilities cancel out of the counterfactual values.
type Walker struct {
	table   *InfoSetTable
	key     KeyFunc
	scratch scratch
	stats   WalkStats
}

// NewWalker returns a Walker that stores information sets in the given table.
// If key is nil, DefaultKey is used.
func NewWalker(table *InfoSetTable, key KeyFunc) *Walker {
	if key == nil {
		key = DefaultKey
	}

	return &Walker{
		table: table,
		key:   key,
	}
}

// Stats returns the cumulative node counts of all walks so far.
func (w *Walker) Stats() WalkStats {
	return w.stats
}

// Walk returns the expected utility of state for the target player, given
// the probabilities with which each player reaches it. Only information sets
// belonging to the target player are updated.
func (w *Walker) Walk(state GameState, target int, reachP0, reachP1 float64) (float64, error) {
	return w.walk(state, target, reachP0, reachP1, 0)
}

func (w *Walker) walk(state GameState, target int, reachP0, reachP1 float64, depth int) (float64, error) {
	w.stats.NodesVisited++
	if state.IsTerminal() {
		w.stats.TerminalNodes++
		return state.Utility(target), nil
	}

	player := state.Player()
	if player != 0 && player != 1 {
		return 0, errors.Wrapf(ErrUnknownPlayer, "player %d", player)
	}

	key := w.key(state)
	actions := state.LegalActions()
	if len(actions) == 0 {
		return 0, errors.Wrapf(ErrNoLegalActions, "infoset %q", key)
	}

	is, err := w.table.GetOrCreate(key, actions)
	if err != nil {
		return 0, err
	}

	// The strategy is fixed for the whole node: a coarse KeyFunc may map a
	// descendant onto the same InfoSet and update it during recursion.
	n := len(actions)
	buf := w.scratch.get(depth, 2*n)
	strategy, actionValues := buf[:n], buf[n:]
	copy(strategy, is.Strategy)

	var value float64
	for i, a := range actions {
		child, err := state.Child(a)
		if err != nil {
			return 0, errors.Wrapf(err, "infoset %q: apply action %v", key, a)
		}

		p := strategy[i]
		var v float64
		if player == 0 {
			v, err = w.walk(child, target, p*reachP0, reachP1, depth+1)
		} else {
			v, err = w.walk(child, target, reachP0, p*reachP1, depth+1)
		}

		child.Close()
		if err != nil {
			return 0, err
		}

		actionValues[i] = v
		value += p * v
	}

	if player == target {
		reachP := reachProb(player, reachP0, reachP1)
		counterFactualP := counterFactualProb(player, reachP0, reachP1)
		is.update(strategy, actionValues, value, reachP, counterFactualP)
	}

	return value, nil
}

func reachProb(player int, reachP0, reachP1 float64) float64 {
	if player == 0 {
		return reachP0
	}

	return reachP1
}

// The probability of reaching this node, assuming that the current player
// tried to reach it.
func counterFactualProb(player int, reachP0, reachP1 float64) float64 {
	if player == 0 {
		return reachP1
	}

	return reachP0
}
