package cfr_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfrlab/go-cscfr"
	"github.com/cfrlab/go-cscfr/kuhn"
	"github.com/cfrlab/go-cscfr/pennies"
)

type threePlayerGame struct{}

func (threePlayerGame) NumPlayers() int                          { return 3 }
func (threePlayerGame) NewInitialState(seed int64) cfr.GameState { return nil }

func TestNewTrainerRequiresTwoPlayers(t *testing.T) {
	_, err := cfr.NewTrainer(threePlayerGame{}, cfr.Params{})
	assert.Error(t, err)
}

func TestMatchingPenniesConverges(t *testing.T) {
	trainer, err := cfr.NewTrainer(pennies.NewGame(pennies.MatchingPennies), cfr.Params{})
	require.NoError(t, err)
	require.NoError(t, trainer.Train(10000))
	assert.Equal(t, 10000, trainer.Iter())

	for _, key := range []string{"P0", "P1"} {
		avg, ok := trainer.AverageStrategy(key)
		require.True(t, ok)
		assert.InDelta(t, 0.5, avg[pennies.Heads], 0.05, key)
		assertDistribution(t, avg)
	}

	assert.InDelta(t, 0.0, trainer.ExpectedValue(), 0.1)
}

func TestBiasedPenniesConverges(t *testing.T) {
	// Each player mixes Heads with probability 2/5 at equilibrium.
	trainer, err := cfr.NewTrainer(pennies.NewGame(biasedPennies), cfr.Params{Seed: 3})
	require.NoError(t, err)
	require.NoError(t, trainer.Train(20000))

	for _, key := range []string{"P0", "P1"} {
		avg, ok := trainer.AverageStrategy(key)
		require.True(t, ok)
		assert.InDelta(t, 0.4, avg[pennies.Heads], 0.05, key)
	}
}

func TestPolicy(t *testing.T) {
	game := pennies.NewGame(pennies.MatchingPennies)
	trainer, err := cfr.NewTrainer(game, cfr.Params{})
	require.NoError(t, err)

	root := game.NewInitialState(0)
	defer root.Close()
	actions, probs := trainer.Policy(root)
	assert.Equal(t, []cfr.Action{pennies.Heads, pennies.Tails}, actions)
	assert.Equal(t, []float64{0.5, 0.5}, probs, "unseen infosets are played uniformly")

	require.NoError(t, trainer.Train(100))
	_, probs = trainer.Policy(root)
	avg, ok := trainer.AverageStrategy("P0")
	require.True(t, ok)
	assert.InDeltaSlice(t, avg, probs, 1e-12)
	assertDistribution(t, probs)
}

func TestSnapshotRoundTrip(t *testing.T) {
	trainer, err := cfr.NewTrainer(kuhn.NewGame(), cfr.Params{Seed: 9})
	require.NoError(t, err)
	require.NoError(t, trainer.Train(500))

	var buf bytes.Buffer
	s := &cfr.Snapshot{RunID: trainer.RunID(), Iter: trainer.Iter(), Table: trainer.Table()}
	require.NoError(t, s.MarshalTo(&buf))

	loaded, err := cfr.ReadSnapshot(&buf)
	require.NoError(t, err)
	assert.Equal(t, trainer.RunID(), loaded.RunID)
	assert.Equal(t, 500, loaded.Iter)
	assertSameTable(t, trainer.Table(), loaded.Table)
}

func TestFileStoreSaveLoad(t *testing.T) {
	store := cfr.FileStore{Path: filepath.Join(t.TempDir(), "run", "kuhn.gob.gz")}
	trainer, err := cfr.NewTrainer(kuhn.NewGame(), cfr.Params{Seed: 9})
	require.NoError(t, err)
	require.NoError(t, trainer.Train(1000))
	require.NoError(t, trainer.Save(store))

	restored, err := cfr.NewTrainer(kuhn.NewGame(), cfr.Params{Seed: 10})
	require.NoError(t, err)
	assert.NotEqual(t, trainer.RunID(), restored.RunID())
	require.NoError(t, restored.Load(store))
	assert.Equal(t, trainer.RunID(), restored.RunID())
	assert.Equal(t, trainer.Iter(), restored.Iter())
	assertSameTable(t, trainer.Table(), restored.Table())

	// Training resumes from the restored counts.
	require.NoError(t, restored.Train(10))
	assert.Equal(t, 1010, restored.Iter())
	is, _ := restored.Table().Get("K-b")
	orig, _ := trainer.Table().Get("K-b")
	assert.GreaterOrEqual(t, is.CumulativeStrategy[kuhn.Bet], orig.CumulativeStrategy[kuhn.Bet])
}

func TestLoadMissingSnapshot(t *testing.T) {
	store := cfr.FileStore{Path: filepath.Join(t.TempDir(), "missing.gob.gz")}
	_, err := store.LoadTable()
	assert.Equal(t, cfr.ErrNoSnapshot, errors.Cause(err))

	fresh, err := cfr.NewTrainer(kuhn.NewGame(), cfr.Params{})
	require.NoError(t, err)
	require.NoError(t, fresh.Load(store))
	assert.Equal(t, 0, fresh.Table().Len())
	assert.Equal(t, 0, fresh.Iter())

	// Training done before the failed load is kept.
	trained, err := cfr.NewTrainer(kuhn.NewGame(), cfr.Params{})
	require.NoError(t, err)
	require.NoError(t, trained.Train(100))
	runID, n := trained.RunID(), trained.Table().Len()
	avg, ok := trained.AverageStrategy("K-b")
	require.True(t, ok)

	require.NoError(t, trained.Load(store))
	assert.Equal(t, n, trained.Table().Len())
	assert.Equal(t, 100, trained.Iter())
	assert.Equal(t, runID, trained.RunID())
	after, ok := trained.AverageStrategy("K-b")
	require.True(t, ok)
	assert.Equal(t, avg, after)

	require.NoError(t, trained.Train(1))
	assert.Equal(t, 101, trained.Iter())
}

func TestLoadCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.gob.gz")
	require.NoError(t, os.WriteFile(path, []byte("not a snapshot"), 0o644))

	trainer, err := cfr.NewTrainer(kuhn.NewGame(), cfr.Params{})
	require.NoError(t, err)
	assert.Error(t, trainer.Load(cfr.FileStore{Path: path}))
}

func assertSameTable(t *testing.T, expected, actual *cfr.InfoSetTable) {
	t.Helper()
	require.Equal(t, expected.Keys(), actual.Keys())
	expected.Range(func(is *cfr.InfoSet) bool {
		other, ok := actual.Get(is.Key)
		require.True(t, ok)
		assert.Equal(t, is.Actions, other.Actions)
		assert.Equal(t, is.Regret, other.Regret)
		assert.Equal(t, is.CumulativeStrategy, other.CumulativeStrategy)
		assert.Equal(t, is.Strategy, other.Strategy)
		assert.Equal(t, is.AverageStrategy(), other.AverageStrategy())
		return true
	})
}
