package arena

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfrlab/go-cscfr"
	"github.com/cfrlab/go-cscfr/cursor"
	"github.com/cfrlab/go-cscfr/kuhn"
	"github.com/cfrlab/go-cscfr/leduc"
	"github.com/cfrlab/go-cscfr/pennies"
)

func TestRandomAgentsAreZeroSum(t *testing.T) {
	game := pennies.NewGame(pennies.MatchingPennies)
	result, err := Tournament(context.Background(), game, [2]Agent{RandomAgent{}, RandomAgent{}}, 1000, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 1000, result.Episodes)
	assert.InDelta(t, 0.0, result.MeanPayoff[0]+result.MeanPayoff[1], 1e-9)
}

func TestTournamentIsReproducible(t *testing.T) {
	game := kuhn.NewGame()
	agents := [2]Agent{RandomAgent{}, RandomAgent{}}
	a, err := Tournament(context.Background(), game, agents, 500, 7, 3)
	require.NoError(t, err)
	b, err := Tournament(context.Background(), game, agents, 500, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTrainedKuhnBeatsRandom(t *testing.T) {
	trainer, err := cfr.NewTrainer(kuhn.NewGame(), cfr.Params{Seed: 1})
	require.NoError(t, err)
	require.NoError(t, trainer.Train(10000))

	agents := [2]Agent{PolicyAgent{Policy: trainer}, RandomAgent{}}
	result, err := Tournament(context.Background(), kuhn.NewGame(), agents, 20000, 2, 4)
	require.NoError(t, err)
	t.Logf("trained agent: %.4f, random agent: %.4f", result.MeanPayoff[0], result.MeanPayoff[1])
	assert.Greater(t, result.MeanPayoff[0], 0.05)
}

func TestPlayEpisodeClosesCursor(t *testing.T) {
	root := leduc.NewGame().NewInitialState(3)
	env := root.(*cursor.State).Environment().(*leduc.Env)

	rng := rand.New(rand.NewSource(3))
	payoffs, err := PlayEpisode(root, [2]Agent{RandomAgent{}, RandomAgent{}}, rng)
	require.NoError(t, err)
	assert.Equal(t, -payoffs[0], payoffs[1])
	assert.Empty(t, env.Moves())
}

func TestTournamentCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Tournament(ctx, kuhn.NewGame(), [2]Agent{RandomAgent{}, RandomAgent{}}, 100, 1, 2)
	assert.ErrorIs(t, err, context.Canceled)
}
