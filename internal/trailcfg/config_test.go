package trailcfg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseJSONConfigSuccess(t *testing.T) {
	path := writeTempConfig(t, `{"rounds":10,"threshold":-4.5,"poolsize":48,"convention":"split"}`)

	var cfg Config
	if err := ParseJSONConfig(&cfg, path); err != nil {
		t.Fatalf("ParseJSONConfig returned error: %v", err)
	}
	if cfg.Rounds != 10 || cfg.Threshold != -4.5 || cfg.PoolSize != 48 || cfg.Convention != "split" {
		t.Fatalf("unexpected field values: %+v", cfg)
	}
}

func TestParseJSONConfigMissingFile(t *testing.T) {
	var cfg Config
	missing := filepath.Join(t.TempDir(), "missing.json")
	if err := ParseJSONConfig(&cfg, missing); err == nil {
		t.Fatalf("ParseJSONConfig expected error for missing file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := Config{Threads: 4, Threshold: -3, Rounds: 8, PoolSize: 32, ImmigrationRate: 0.05, Convention: "legacy"}

	cases := []func(Config) Config{
		func(c Config) Config { c.Threads = 0; return c },
		func(c Config) Config { c.Threshold = 0; return c },
		func(c Config) Config { c.Rounds = 17; return c },
		func(c Config) Config { c.Rounds = 0; return c },
		func(c Config) Config { c.PoolSize = 15; return c },
		func(c Config) Config { c.ImmigrationRate = 0.6; return c },
		func(c Config) Config { c.Convention = "bogus"; return c },
	}
	for i, mutate := range cases {
		if err := Validate(mutate(base)); err == nil {
			t.Fatalf("case %d: expected Validate to reject %+v", i, mutate(base))
		}
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := Config{Threads: 4, Threshold: -3, Rounds: 8, PoolSize: 32, ImmigrationRate: 0.05, Convention: "legacy"}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate rejected a well-formed config: %v", err)
	}
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}
