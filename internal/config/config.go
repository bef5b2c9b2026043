package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"asteroids-server/internal/game"
)

// Config holds the server settings.
type Config struct {
	Addr   string `env:"ARENA_ADDR" envDefault:":8080"`
	DBPath string `env:"ARENA_DB" envDefault:"arena.db"`

	TickInterval      time.Duration `env:"ARENA_TICK_INTERVAL" envDefault:"16666666ns"`
	WorldWidth        float64       `env:"ARENA_WORLD_WIDTH" envDefault:"3000"`
	WorldHeight       float64       `env:"ARENA_WORLD_HEIGHT" envDefault:"2000"`
	MinLargeAsteroids int           `env:"ARENA_MIN_LARGE_ASTEROIDS" envDefault:"7"`
	AsteroidsPerShip  int           `env:"ARENA_ASTEROIDS_PER_SHIP" envDefault:"3"`
	Seed              uint64        `env:"ARENA_SEED"`

	// TokenSecret signs pilot tokens. Empty means a secret is generated
	// once and kept in the database.
	TokenSecret string `env:"ARENA_TOKEN_SECRET"`

	MaxConnsPerIP int `env:"ARENA_MAX_CONNS_PER_IP" envDefault:"5"`
	MaxTotalConns int `env:"ARENA_MAX_TOTAL_CONNS" envDefault:"1000"`
}

// Load reads an optional .env file, then the environment, then command line
// flags. Flags win.
func Load(fset *flag.FlagSet, args []string, envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fset.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fset.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	fset.DurationVar(&cfg.TickInterval, "tick", cfg.TickInterval, "simulation tick interval")
	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.TickInterval <= 0:
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	case c.WorldWidth <= 0 || c.WorldHeight <= 0:
		return fmt.Errorf("world size must be positive, got %gx%g", c.WorldWidth, c.WorldHeight)
	case c.MinLargeAsteroids < 0 || c.AsteroidsPerShip < 0:
		return errors.New("asteroid population settings must not be negative")
	}
	return nil
}

// World converts the settings into the simulation config.
func (c Config) World() game.Config {
	return game.Config{
		Width:             c.WorldWidth,
		Height:            c.WorldHeight,
		TickPeriod:        c.TickInterval,
		MinLargeAsteroids: c.MinLargeAsteroids,
		AsteroidsPerShip:  c.AsteroidsPerShip,
		Seed:              c.Seed,
	}
}
