// Package arena plays agents against each other to evaluate trained strategies.
package arena

import (
	"context"
	"math/rand"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/cfrlab/go-cscfr"
	"github.com/cfrlab/go-cscfr/internal/sampling"
)

// Agent chooses an action at a decision node.
type Agent interface {
	Act(state cfr.GameState, rng *rand.Rand) (cfr.Action, error)
}

// RandomAgent plays uniformly at random over the legal actions.
type RandomAgent struct{}

// Act implements Agent.
func (RandomAgent) Act(state cfr.GameState, rng *rand.Rand) (cfr.Action, error) {
	actions := state.LegalActions()
	if len(actions) == 0 {
		return 0, errors.Wrap(cfr.ErrNoLegalActions, state.InfoSetKey())
	}

	return actions[rng.Intn(len(actions))], nil
}

// Policy maps a state to a distribution over its legal actions.
// It is implemented by *cfr.Trainer.
type Policy interface {
	Policy(state cfr.GameState) ([]cfr.Action, []float64)
}

// PolicyAgent samples actions from a Policy. The Policy must not be
// trained while the agent is playing.
type PolicyAgent struct {
	Policy Policy
}

// Act implements Agent.
func (a PolicyAgent) Act(state cfr.GameState, rng *rand.Rand) (cfr.Action, error) {
	actions, probs := a.Policy.Policy(state)
	if len(actions) == 0 {
		return 0, errors.Wrap(cfr.ErrNoLegalActions, state.InfoSetKey())
	}

	return actions[sampling.SampleOne(probs, rng.Float64())], nil
}

// Result summarizes a Tournament.
type Result struct {
	Episodes int
	// MeanPayoff[i] is the mean payoff of agents[i] across both seats.
	MeanPayoff [2]float64
}

// Tournament plays episodes between two agents, alternating which seat each
// agent occupies. Episodes are divided among up to parallel workers, each with
// its own random source derived from seed, so results are reproducible for a
// given seed and parallel.
func Tournament(ctx context.Context, game cfr.Game, agents [2]Agent, episodes int, seed int64, parallel int) (Result, error) {
	if game.NumPlayers() != 2 {
		return Result{}, errors.Errorf("tournament requires 2 players, game has %d", game.NumPlayers())
	}

	if episodes <= 0 {
		return Result{}, nil
	}

	if parallel < 1 {
		parallel = 1
	}

	if parallel > episodes {
		parallel = episodes
	}

	rng := rand.New(rand.NewSource(seed))
	totals := make([][2]float64, parallel)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	start := 0
	for w := 0; w < parallel; w++ {
		n := episodes / parallel
		if w < episodes%parallel {
			n++
		}

		w := w // per-iteration copy (go 1.22 loopvar semantics; module builds with go 1.21)
		first, workerSeed := start, rng.Int63()
		start += n
		g.Go(func() error {
			workerRng := rand.New(rand.NewSource(workerSeed))
			for i := first; i < first+n; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}

				// Agent k sits in seat (k + i) % 2.
				seated := agents
				if i%2 == 1 {
					seated = [2]Agent{agents[1], agents[0]}
				}

				payoffs, err := PlayEpisode(game.NewInitialState(workerRng.Int63()), seated, workerRng)
				if err != nil {
					return errors.Wrapf(err, "episode %d", i)
				}

				totals[w][0] += payoffs[i%2]
				totals[w][1] += payoffs[1-i%2]
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	result := Result{Episodes: episodes}
	for _, t := range totals {
		result.MeanPayoff[0] += t[0]
		result.MeanPayoff[1] += t[1]
	}

	result.MeanPayoff[0] /= float64(episodes)
	result.MeanPayoff[1] /= float64(episodes)

	glog.V(1).Infof("Played %d episodes: mean payoffs %.4f / %.4f",
		episodes, result.MeanPayoff[0], result.MeanPayoff[1])
	return result, nil
}

// PlayEpisode plays one game from root to a terminal state, with seats[p]
// acting for player p, and returns the payoff of each player. All states,
// including root, are closed before returning.
func PlayEpisode(root cfr.GameState, seats [2]Agent, rng *rand.Rand) ([2]float64, error) {
	path := []cfr.GameState{root}
	defer func() {
		for i := len(path) - 1; i >= 0; i-- {
			path[i].Close()
		}
	}()

	state := root
	for !state.IsTerminal() {
		p := state.Player()
		if p != 0 && p != 1 {
			return [2]float64{}, errors.Wrapf(cfr.ErrUnknownPlayer, "player %d", p)
		}

		a, err := seats[p].Act(state, rng)
		if err != nil {
			return [2]float64{}, err
		}

		child, err := state.Child(a)
		if err != nil {
			return [2]float64{}, errors.Wrapf(err, "player %d action %v", p, a)
		}

		path = append(path, child)
		state = child
	}

	return [2]float64{state.Utility(0), state.Utility(1)}, nil
}
