package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/roomforge/pkg/pipeline"
)

// Config is the optional on-disk CLI configuration, read from
// ~/.config/roomforge/config.toml. Every field has a working zero value so
// the file is never required.
type Config struct {
	// Solve defaults, overridable per invocation by flags.
	Count         int      `toml:"count"`
	TimeBudgetSec int      `toml:"time_budget_sec"`
	Strategies    []string `toml:"strategies"`
	BudgetCents   int64    `toml:"budget_cents"`

	// Serve settings.
	Addr     string `toml:"addr"`
	RedisURL string `toml:"redis_url"`
	MongoURI string `toml:"mongo_uri"`
	MongoDB  string `toml:"mongo_db"`
}

// LoadConfig reads the TOML config at path. A missing file yields the zero
// config with no error; a malformed file is an error.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// applyTo copies configured solve defaults onto opts where the caller has
// not already set a value. Flags win over config, config wins over the
// pipeline defaults.
func (c Config) applyTo(opts *pipeline.Options) {
	if opts.Count == 0 && c.Count > 0 {
		opts.Count = c.Count
	}
	if opts.TimeBudget == 0 && c.TimeBudgetSec > 0 {
		opts.TimeBudget = time.Duration(c.TimeBudgetSec) * time.Second
	}
	if len(opts.Strategies) == 0 && len(c.Strategies) > 0 {
		opts.Strategies = c.Strategies
	}
	if opts.BudgetCents == 0 && c.BudgetCents > 0 {
		opts.BudgetCents = c.BudgetCents
	}
}
