// Package config loads the web server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/evcraddock/house-market/internal/view"
)

// Config is the server configuration. Every field can be set with an HM_
// environment variable; command-line flags override it.
type Config struct {
	Port    int    `env:"HM_PORT"     envDefault:"8080"`
	DBPath  string `env:"HM_DB"`
	DevMode bool   `env:"HM_DEV_MODE"`

	// BackendURL selects the hosted REST backend as the listing source.
	// When empty the local SQLite store is used.
	BackendURL string `env:"HM_BACKEND_URL"`
	BackendKey string `env:"HM_BACKEND_KEY"`

	GridPageSize int     `env:"HM_GRID_PAGE_SIZE"   envDefault:"6"`
	ListPageSize int     `env:"HM_LIST_PAGE_SIZE"   envDefault:"6"`
	MapPageSize  int     `env:"HM_MAP_PAGE_SIZE"    envDefault:"12"`
	DeadZone     float64 `env:"HM_SCROLL_DEAD_ZONE" envDefault:"5"`
	ScrollToggle bool    `env:"HM_SCROLL_TOGGLE"    envDefault:"true"`
}

// Load reads the optional dotenv files, then parses the environment.
// Variables already set in the environment win over the files.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.GridPageSize < 1 || c.ListPageSize < 1 || c.MapPageSize < 1 {
		return fmt.Errorf("page sizes must be positive")
	}
	if c.DeadZone < 0 {
		return fmt.Errorf("scroll dead zone must not be negative")
	}
	return nil
}

// PageSizes returns the per-mode page sizes.
func (c Config) PageSizes() view.PageSizes {
	return view.PageSizes{
		Grid: c.GridPageSize,
		List: c.ListPageSize,
		Map:  c.MapPageSize,
	}
}

// UseBackend reports whether listings come from the REST backend.
func (c Config) UseBackend() bool {
	return c.BackendURL != ""
}
