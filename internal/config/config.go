package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"shipcaptaincrew-server/internal/util"
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew"
)

// Config provides configuration for the Ship, Captain & Crew server
type Config struct {
	loaded         bool
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	Log            struct {
		Level             string `yaml:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
	Tables []Table `yaml:"tables" ignored:"true"`
}

// Table is a table that the server opens on start
type Table struct {
	UUID    string                  `yaml:"uuid"`
	Name    string                  `yaml:"name"`
	Options shipcaptaincrew.Options `yaml:"options"`
	Bots    []Bot                   `yaml:"bots"`
}

// Bot is a computer player seated when the table opens
type Bot struct {
	// Personality is empty for a random one
	Personality string `yaml:"personality"`
	BuyIn       int    `yaml:"buyIn"`
}

// UnmarshalYAML decodes a table on top of the default game options
func (t *Table) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type rawTable Table
	raw := rawTable{Options: shipcaptaincrew.DefaultOptions()}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	*t = Table(raw)
	return nil
}

// Validate checks the table definitions
func (c Config) Validate() error {
	seen := make(map[string]bool)
	for i, t := range c.Tables {
		if t.UUID == "" {
			return fmt.Errorf("table %d: uuid is required", i)
		}

		if _, err := uuid.Parse(t.UUID); err != nil {
			return fmt.Errorf("table %d: %w", i, err)
		}

		if seen[t.UUID] {
			return fmt.Errorf("table %s: duplicate uuid", t.UUID)
		}
		seen[t.UUID] = true

		if err := t.Options.Validate(); err != nil {
			return fmt.Errorf("table %s: %w", t.UUID, err)
		}

		if len(t.Bots) >= t.Options.Seats {
			return fmt.Errorf("table %s: %d bots leave no open seat", t.UUID, len(t.Bots))
		}
	}

	return nil
}

var config Config

func defaults() Config {
	cfg := Config{MigrationsPath: "./sql"}
	cfg.Log.Level = "info"
	return cfg
}

// Starter returns a configuration with a single table and one computer player
func Starter() Config {
	cfg := defaults()
	cfg.PGDSN = "postgres://postgres@localhost:5432/postgres?sslmode=disable"

	opts := shipcaptaincrew.DefaultOptions()
	cfg.Tables = []Table{{
		UUID:    uuid.New().String(),
		Name:    "The Salty Dog",
		Options: opts,
		Bots:    []Bot{{Personality: "balanced", BuyIn: opts.MinBuyIn}},
	}}

	return cfg
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// A missing config file is not an error; the defaults and environment are used.
func Load() error {
	cfg := defaults()

	configFile := util.Getenv("SCC_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return fmt.Errorf("could not decode %s: %w", configFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := envconfig.Process("scc", &cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}
