package kuhn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfrlab/go-cscfr"
	"github.com/cfrlab/go-cscfr/tree"
)

func TestPoker_GameTree(t *testing.T) {
	root := NewDeal(Queen, King)

	nNodes := tree.CountNodes(root)
	if nNodes != 9 {
		t.Errorf("expected %d nodes, got %d", 9, nNodes)
	}

	nTerminal := tree.CountTerminalNodes(root)
	if nTerminal != 5 {
		t.Errorf("expected %d terminal nodes, got %d", 5, nTerminal)
	}
}

func TestPoker_InfoSets(t *testing.T) {
	seen := make(map[string]struct{})
	for _, root := range Deals() {
		tree.VisitInfoSets(root, func(player int, infoSet string) {
			seen[infoSet] = struct{}{}
		})
	}

	if len(seen) != 12 {
		t.Errorf("expected %d infosets, got %d", 12, len(seen))
	}
}

func TestPoker_SeedReproducesDeal(t *testing.T) {
	game := NewGame()
	a := game.NewInitialState(42).(*PokerNode)
	b := game.NewInitialState(42).(*PokerNode)
	assert.Equal(t, a.p0Card, b.p0Card)
	assert.Equal(t, a.p1Card, b.p1Card)
	assert.NotEqual(t, a.p0Card, a.p1Card)
}

func TestPoker_ZeroSumTerminals(t *testing.T) {
	for _, root := range Deals() {
		tree.Visit(root, func(node cfr.GameState) {
			if !node.IsTerminal() {
				return
			}

			native := node.Utility(node.Player())
			other := node.Utility(1 - node.Player())
			assert.Equal(t, -native, other, "%v", node)
		})
	}
}

func TestPoker_Utility(t *testing.T) {
	root := NewDeal(King, Jack)
	bet, err := root.Child(Bet)
	require.NoError(t, err)
	fold, err := bet.Child(Check)
	require.NoError(t, err)
	call, err := bet.Child(Bet)
	require.NoError(t, err)

	assert.Equal(t, 1.0, fold.Utility(0))
	assert.Equal(t, -1.0, fold.Utility(1))
	assert.Equal(t, 2.0, call.Utility(0))
	assert.Equal(t, -2.0, call.Utility(1))

	_, err = call.Child(Check)
	assert.Error(t, err)
}

func TestPoker_ChanceSamplingCFR(t *testing.T) {
	trainer, err := cfr.NewTrainer(NewGame(), cfr.Params{Seed: 1234})
	require.NoError(t, err)

	nIter := 100000
	for i := 0; i < 10; i++ {
		require.NoError(t, trainer.Train(nIter/10))
		t.Logf("[iter=%d] Expected game value: %.4f", trainer.Iter(), trainer.ExpectedValue())
	}

	for _, root := range Deals() {
		tree.VisitInfoSets(root, func(player int, infoSet string) {
			strat, ok := trainer.AverageStrategy(infoSet)
			if ok {
				t.Logf("[player %d] %6s: check=%.2f bet=%.2f", player, infoSet, strat[0], strat[1])
			}
		})
	}

	// The game value for player 0 is -1/18.
	assert.InDelta(t, -1.0/18, trainer.ExpectedValue(), 0.03)

	// Dominated actions: always call with a King, always fold a Jack.
	for _, key := range []string{"K-b", "K-cb"} {
		strat, ok := trainer.AverageStrategy(key)
		require.True(t, ok, key)
		assert.Greater(t, strat[Bet], 0.9, key)
	}

	for _, key := range []string{"J-b", "J-cb"} {
		strat, ok := trainer.AverageStrategy(key)
		require.True(t, ok, key)
		assert.Greater(t, strat[Check], 0.9, key)
	}
}
