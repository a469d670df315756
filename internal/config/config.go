package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr           string `env:"ADDR" envDefault:":8080"`
	CardsDir       string `env:"CARDS_DIR" envDefault:"."`
	PackSize       int    `env:"PACK_SIZE" envDefault:"14"`
	DefaultRounds  int    `env:"DEFAULT_ROUNDS" envDefault:"3"`
	DefaultPlayers int    `env:"DEFAULT_PLAYERS" envDefault:"5"`
}

// Load reads configuration from the environment, after loading a .env file
// if one is present.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
