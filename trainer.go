package cfr

import (
	"math/rand"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Params configure a Trainer. An empty Params struct is valid.
type Params struct {
	// Seed for the chance outcomes of every walk. Runs with the same seed
	// and game are reproducible.
	Seed int64
	// InfoSetKey maps states to information set keys. Defaults to DefaultKey.
	InfoSetKey KeyFunc
}

// Trainer runs chance-sampled CFR on a two-player zero-sum game and owns
// the InfoSetTable that holds the learned strategy.
type Trainer struct {
	game Game
	key  KeyFunc

	runID  uuid.UUID
	iter   int
	rng    *rand.Rand
	table  *InfoSetTable
	walker *Walker

	valueSum  float64
	numValues int
}

// NewTrainer creates a Trainer with an empty InfoSetTable.
func NewTrainer(game Game, params Params) (*Trainer, error) {
	if n := game.NumPlayers(); n != 2 {
		return nil, errors.Errorf("chance-sampled CFR requires 2 players, game has %d", n)
	}

	key := params.InfoSetKey
	if key == nil {
		key = DefaultKey
	}

	t := &Trainer{
		game:  game,
		key:   key,
		runID: uuid.New(),
		rng:   rand.New(rand.NewSource(params.Seed)),
	}
	t.reset(NewInfoSetTable(), 0)
	return t, nil
}

func (t *Trainer) reset(table *InfoSetTable, iter int) {
	t.table = table
	t.iter = iter
	t.walker = NewWalker(table, t.key)
	t.valueSum = 0
	t.numValues = 0
}

// Train runs the given number of iterations. Each iteration walks the tree
// once for each player from a freshly dealt root, updating only the
// walked player's information sets.
func (t *Trainer) Train(iterations int) error {
	nPlayers := t.game.NumPlayers()
	for i := 0; i < iterations; i++ {
		for player := 0; player < nPlayers; player++ {
			root := t.game.NewInitialState(t.rng.Int63())
			v, err := t.walker.Walk(root, player, 1.0, 1.0)
			root.Close()
			if err != nil {
				return errors.Wrapf(err, "iteration %d, player %d", t.iter+1, player)
			}

			if player == 0 {
				t.valueSum += v
				t.numValues++
			}
		}

		t.iter++
		if t.iter%10000 == 0 {
			glog.V(1).Infof("[iter=%d] %d infosets, expected game value: %.4f",
				t.iter, t.table.Len(), t.ExpectedValue())
		}
	}

	return nil
}

// Iter returns the number of completed iterations, including those
// restored from a snapshot.
func (t *Trainer) Iter() int {
	return t.iter
}

// RunID identifies the training run. It is preserved across Save and Load.
func (t *Trainer) RunID() uuid.UUID {
	return t.runID
}

// Table returns the InfoSetTable being trained.
func (t *Trainer) Table() *InfoSetTable {
	return t.table
}

// Stats returns node counts for the walks performed by this Trainer.
func (t *Trainer) Stats() WalkStats {
	return t.walker.Stats()
}

// ExpectedValue returns the mean value for player 0 of the walks performed
// since the Trainer was created or last loaded.
func (t *Trainer) ExpectedValue() float64 {
	if t.numValues == 0 {
		return 0
	}

	return t.valueSum / float64(t.numValues)
}

// AverageStrategy returns the average strategy for the given information
// set key, indexed like that InfoSet's actions.
func (t *Trainer) AverageStrategy(key string) ([]float64, bool) {
	is, ok := t.table.Get(key)
	if !ok {
		return nil, false
	}

	return is.AverageStrategy(), true
}

// Policy returns the distribution over the legal actions of state that
// should be used for play. Information sets never seen in training fall back
// to the uniform distribution over the state's legal actions.
func (t *Trainer) Policy(state GameState) ([]Action, []float64) {
	actions := state.LegalActions()
	probs := make([]float64, len(actions))
	if len(actions) == 0 {
		return actions, probs
	}

	key := t.key(state)
	is, ok := t.table.Get(key)
	if !ok {
		glog.V(2).Infof("Unseen infoset %q, playing uniformly", key)
		fillUniform(probs)
		return actions, probs
	}

	avg := is.AverageStrategy()
	for i, a := range actions {
		for j, b := range is.Actions {
			if a == b {
				probs[i] = avg[j]
				break
			}
		}
	}

	// Renormalize to absorb floating point drift.
	normalizeOrUniform(probs)
	return actions, probs
}
