package config

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Load parses environment variables into a configuration struct based on `env`
// field tags. The default .env file is loaded once per process before the first
// parse; a missing .env file is not an error.
//
// Example:
//
//	type APIConfig struct {
//		BaseURL string        `env:"PANEL_API_URL,required"`
//		Timeout time.Duration `env:"PANEL_API_TIMEOUT" envDefault:"15s"`
//	}
//
//	cfg, err := config.Load[APIConfig]()
func Load[T any]() (T, error) {
	defaultEnvLoaded.Do(func() {
		// The .env file might not exist and that's ok.
		_ = godotenv.Load()
	})

	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.Join(ErrParseFailed, err)
	}
	return cfg, nil
}

// MustLoad is like Load but panics on error. Intended for process startup where
// a misconfigured environment should fail fast.
func MustLoad[T any]() T {
	cfg, err := Load[T]()
	if err != nil {
		panic(err)
	}
	return cfg
}
