package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v2"

	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew"
)

func TestInstance(t *testing.T) {
	t.Setenv("SCC_CONFIG_FILE", "testdata/config.yaml")
	t.Setenv("SCC_PG_DSN", "postgres://override")
	config = Config{}

	a := assert.New(t)
	cfg := Instance()
	a.Equal("postgres://override", cfg.PGDSN)
	a.Equal("debug", cfg.Log.Level)
	a.Equal("./sql", cfg.MigrationsPath)

	if a.Len(cfg.Tables, 2) {
		salty := cfg.Tables[0]
		a.Equal("The Salty Dog", salty.Name)
		a.Equal(50, salty.Options.Ante)
		a.Equal(2000, salty.Options.MinBuyIn)
		a.Equal(10*time.Second, salty.Options.LockWindow)
		// unset options keep their defaults
		a.Equal(shipcaptaincrew.DefaultOptions().TurnTimeout, salty.Options.TurnTimeout)
		a.Equal([]Bot{{Personality: "cautious", BuyIn: 2000}, {BuyIn: 2000}}, salty.Bots)

		a.Equal(shipcaptaincrew.DefaultOptions(), cfg.Tables[1].Options)
	}

	// ensure that it's only loaded once
	t.Setenv("SCC_PG_DSN", "postgres://ignored")
	// ensure we aren't using a pointer
	cfg.PGDSN = "bad"
	cfg = Instance()
	a.Equal("postgres://override", cfg.PGDSN)
}

func TestLoad_missingFile(t *testing.T) {
	t.Setenv("SCC_CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	t.Setenv("SCC_LOG_LEVEL", "warn")

	a := assert.New(t)
	a.NoError(Load())
	cfg := Instance()
	a.Equal("warn", cfg.Log.Level)
	a.Equal("./sql", cfg.MigrationsPath)
	a.Empty(cfg.Tables)
}

func TestLoad_invalidTable(t *testing.T) {
	a := assert.New(t)

	write := func(body string) {
		file := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(file, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
		t.Setenv("SCC_CONFIG_FILE", file)
	}

	write("tables:\n  - name: no uuid\n")
	a.EqualError(Load(), "table 0: uuid is required")

	write("tables:\n  - uuid: not-a-uuid\n")
	a.Error(Load())

	const id = "8c3f6bd6-3a6b-4f0e-9a55-2f4bd1d7a001"
	write("tables:\n  - uuid: " + id + "\n  - uuid: " + id + "\n")
	a.EqualError(Load(), "table "+id+": duplicate uuid")

	write("tables:\n  - uuid: " + id + "\n    options:\n      seats: 1\n")
	a.ErrorIs(Load(), shipcaptaincrew.ErrOptionsInvalid)

	write("tables:\n  - uuid: " + id + "\n    options:\n      seats: 2\n    bots:\n      - buyIn: 1000\n      - buyIn: 1000\n")
	a.EqualError(Load(), "table "+id+": 2 bots leave no open seat")
}

func TestStarter(t *testing.T) {
	a := assert.New(t)
	cfg := Starter()
	a.NoError(cfg.Validate())

	b, err := yaml.Marshal(cfg)
	if !a.NoError(err) {
		return
	}

	file := filepath.Join(t.TempDir(), "config.yaml")
	a.NoError(os.WriteFile(file, b, 0o600))
	t.Setenv("SCC_CONFIG_FILE", file)
	a.NoError(Load())

	loaded := Instance()
	a.Equal(cfg.PGDSN, loaded.PGDSN)
	a.Equal(cfg.Tables, loaded.Tables)
	a.Contains(string(b), "lockWindow: 20s")
}
