// Command cscfr trains and evaluates chance-sampled CFR strategies.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"

	"github.com/cfrlab/go-cscfr"
	"github.com/cfrlab/go-cscfr/internal/appconfig"
	"github.com/cfrlab/go-cscfr/internal/arena"
	"github.com/cfrlab/go-cscfr/kuhn"
	"github.com/cfrlab/go-cscfr/ldbstore"
	"github.com/cfrlab/go-cscfr/leduc"
	"github.com/cfrlab/go-cscfr/pennies"
)

var cli struct {
	Config  string `help:"YAML config file; CSCFR_* environment variables override it" type:"path"`
	Verbose int    `short:"v" help:"glog verbosity level" default:"0"`

	// Flags shared by both commands. Zero values keep the configured setting.
	Game  string `help:"game to play (kuhn, leduc, leduc-obs, pennies)"`
	Store string `help:"snapshot backend (file, leveldb)"`
	Path  string `help:"snapshot location"`
	Seed  int64  `help:"random seed"`

	Train TrainCmd `cmd:"" help:"run chance-sampled CFR, checkpointing to the store"`
	Eval  EvalCmd  `cmd:"" help:"play a saved strategy against a random agent"`
}

type TrainCmd struct {
	Iterations int  `help:"number of CFR iterations"`
	SaveEvery  int  `help:"iterations between checkpoints"`
	Fresh      bool `help:"ignore any existing snapshot"`
	Print      bool `help:"print the average strategy of every infoset when done"`
}

type EvalCmd struct {
	Episodes int `help:"number of episodes to play"`
	Parallel int `help:"number of concurrent workers"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("cscfr"),
		kong.Description("Chance-sampled counterfactual regret minimization"),
		kong.UsageOnError(),
	)

	flag.Set("logtostderr", "true")
	flag.Set("v", strconv.Itoa(cli.Verbose))
	flag.CommandLine.Parse(nil)
	defer glog.Flush()

	cfg, err := loadConfig()
	if err != nil {
		glog.Fatal(err)
	}

	if err := ctx.Run(cfg); err != nil {
		glog.Fatalf("%s failed: %+v", ctx.Command(), err)
	}
}

func loadConfig() (*appconfig.Config, error) {
	cfg, err := appconfig.Load(cli.Config)
	if err != nil {
		return nil, err
	}

	if cli.Game != "" {
		cfg.Game = cli.Game
	}
	if cli.Store != "" {
		cfg.Store = cli.Store
	}
	if cli.Path != "" {
		cfg.Path = cli.Path
	}
	if cli.Seed != 0 {
		cfg.Seed = cli.Seed
	}

	return cfg, cfg.Validate()
}

// Run trains the configured game, resuming from the store unless Fresh is set.
func (cmd *TrainCmd) Run(cfg *appconfig.Config) error {
	if cmd.Iterations > 0 {
		cfg.Iterations = cmd.Iterations
	}
	if cmd.SaveEvery > 0 {
		cfg.SaveEvery = cmd.SaveEvery
	}

	trainer, _, store, err := newTrainer(cfg)
	if err != nil {
		return err
	}

	if !cmd.Fresh {
		if err := trainer.Load(store); err != nil {
			return err
		}
	}

	glog.Infof("Training %s for %d iterations (run %v, starting at iteration %d)",
		cfg.Game, cfg.Iterations, trainer.RunID(), trainer.Iter())
	bar := progressbar.Default(int64(cfg.Iterations), "training")
	chunk := cfg.SaveEvery
	if chunk == 0 {
		chunk = cfg.Iterations
	}

	for done := 0; done < cfg.Iterations; {
		n := chunk
		if remaining := cfg.Iterations - done; n > remaining {
			n = remaining
		}

		if err := trainer.Train(n); err != nil {
			return err
		}

		done += n
		bar.Add(n)
		if err := trainer.Save(store); err != nil {
			return err
		}
	}

	bar.Finish()
	stats := trainer.Stats()
	glog.Infof("Finished at iteration %d: %d infosets, %d nodes visited, expected game value %.4f",
		trainer.Iter(), trainer.Table().Len(), stats.NodesVisited, trainer.ExpectedValue())

	if cmd.Print {
		trainer.Table().Range(func(is *cfr.InfoSet) bool {
			fmt.Printf("%s\t%v\t%.3f\n", is.Key, is.Actions, is.AverageStrategy())
			return true
		})
	}

	return nil
}

// Run evaluates the saved strategy against a uniformly random agent.
func (cmd *EvalCmd) Run(cfg *appconfig.Config) error {
	if cmd.Episodes > 0 {
		cfg.Episodes = cmd.Episodes
	}
	if cmd.Parallel > 0 {
		cfg.Parallel = cmd.Parallel
	}

	trainer, game, store, err := newTrainer(cfg)
	if err != nil {
		return err
	}

	if err := trainer.Load(store); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	agents := [2]arena.Agent{arena.PolicyAgent{Policy: trainer}, arena.RandomAgent{}}
	result, err := arena.Tournament(ctx, game, agents, cfg.Episodes, cfg.Seed, cfg.Parallel)
	if err != nil {
		return errors.Wrap(err, "tournament")
	}

	glog.Infof("Strategy at iteration %d vs random over %d episodes: %+.4f",
		trainer.Iter(), result.Episodes, result.MeanPayoff[0])
	fmt.Printf("%s\t%d\t%.4f\t%.4f\n", cfg.Game, result.Episodes, result.MeanPayoff[0], result.MeanPayoff[1])
	return nil
}

func newTrainer(cfg *appconfig.Config) (*cfr.Trainer, cfr.Game, cfr.TableStore, error) {
	game, key, err := newGame(cfg.Game)
	if err != nil {
		return nil, nil, nil, err
	}

	trainer, err := cfr.NewTrainer(game, cfr.Params{
		Seed:       cfg.Seed,
		InfoSetKey: key,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	return trainer, game, newStore(cfg), nil
}

func newGame(name string) (cfr.Game, cfr.KeyFunc, error) {
	switch name {
	case "kuhn":
		return kuhn.NewGame(), nil, nil
	case "leduc":
		return leduc.NewGame(), nil, nil
	case "leduc-obs":
		return leduc.NewGame(), leduc.ObservationKey, nil
	case "pennies":
		return pennies.NewGame(pennies.MatchingPennies), nil, nil
	}

	return nil, nil, errors.Errorf("unknown game: %q", name)
}

func newStore(cfg *appconfig.Config) cfr.TableStore {
	if cfg.Store == appconfig.StoreLevelDB {
		return ldbstore.New(cfg.Path, nil)
	}

	return cfr.FileStore{Path: cfg.Path}
}
