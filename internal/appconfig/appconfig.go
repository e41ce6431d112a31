// Package appconfig loads cscfr settings from an optional YAML file and
// CSCFR_* environment variables.
package appconfig

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
)

// Games lists the game names accepted in Config.Game.
var Games = []string{"kuhn", "leduc", "leduc-obs", "pennies"}

// Store backends accepted in Config.Store.
const (
	StoreFile    = "file"
	StoreLevelDB = "leveldb"
)

type Config struct {
	Game       string `yaml:"game" env:"CSCFR_GAME" env-default:"kuhn" env-description:"game to train"`
	Iterations int    `yaml:"iterations" env:"CSCFR_ITERATIONS" env-default:"100000" env-description:"training iterations"`
	Seed       int64  `yaml:"seed" env:"CSCFR_SEED" env-default:"0" env-description:"seed for chance outcomes"`

	Store     string `yaml:"store" env:"CSCFR_STORE" env-default:"file" env-description:"snapshot backend (file or leveldb)"`
	Path      string `yaml:"path" env:"CSCFR_PATH" env-default:"strategy.gob.gz" env-description:"snapshot location"`
	SaveEvery int    `yaml:"save_every" env:"CSCFR_SAVE_EVERY" env-default:"10000" env-description:"iterations between checkpoints (0 saves only at the end)"`

	Episodes int `yaml:"episodes" env:"CSCFR_EPISODES" env-default:"100000" env-description:"evaluation episodes"`
	Parallel int `yaml:"parallel" env:"CSCFR_PARALLEL" env-default:"4" env-description:"evaluation workers"`
}

// Load reads the config file at path, if not empty, then applies
// environment overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	var err error
	if path == "" {
		err = cleanenv.ReadEnv(cfg)
	} else {
		err = cleanenv.ReadConfig(path, cfg)
	}

	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	return cfg, cfg.Validate()
}

// Validate checks that the config names a known game and store.
func (c *Config) Validate() error {
	if !isGame(c.Game) {
		return errors.Errorf("unknown game %q, expected one of %v", c.Game, Games)
	}

	if c.Store != StoreFile && c.Store != StoreLevelDB {
		return errors.Errorf("unknown store %q", c.Store)
	}

	if c.Iterations < 0 || c.SaveEvery < 0 || c.Episodes < 0 {
		return errors.New("iterations, save_every and episodes must not be negative")
	}

	return nil
}

func isGame(name string) bool {
	for _, g := range Games {
		if g == name {
			return true
		}
	}

	return false
}
