package envconf

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type nested struct {
	DSN string `env:"ENVCONF_TEST_DSN"`
}

type testConfig struct {
	Port     uint16        `env:"ENVCONF_TEST_PORT" envDefault:"8080"`
	Timeout  time.Duration `env:"ENVCONF_TEST_TIMEOUT" envDefault:"5s"`
	Level    slog.Level    `env:"ENVCONF_TEST_LEVEL" envDefault:"INFO"`
	Enabled  bool          `env:"ENVCONF_TEST_ENABLED"`
	Postgres nested
}

//nolint:paralleltest
func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig

	err := Load(&cfg)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 8080 || cfg.Timeout != 5*time.Second || cfg.Level != slog.LevelInfo || cfg.Enabled {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

//nolint:paralleltest
func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ENVCONF_TEST_PORT", "9000")
	t.Setenv("ENVCONF_TEST_TIMEOUT", "250ms")
	t.Setenv("ENVCONF_TEST_LEVEL", "debug")
	t.Setenv("ENVCONF_TEST_ENABLED", "true")
	t.Setenv("ENVCONF_TEST_DSN", "postgres://localhost/db")

	var cfg testConfig

	err := Load(&cfg)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := testConfig{
		Port:     9000,
		Timeout:  250 * time.Millisecond,
		Level:    slog.LevelDebug,
		Enabled:  true,
		Postgres: nested{DSN: "postgres://localhost/db"},
	}
	if cfg != want {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}
}

//nolint:paralleltest
func TestLoad_Errors(t *testing.T) {
	err := Load(nil)
	if err == nil {
		t.Fatalf("expected error for nil destination")
	}

	var notPointer testConfig

	err = Load(notPointer)
	if err == nil {
		t.Fatalf("expected error for non-pointer destination")
	}

	t.Setenv("ENVCONF_TEST_PORT", "not-a-port")

	var cfg testConfig

	err = Load(&cfg)
	if err == nil {
		t.Fatalf("expected parse error")
	}
}

//nolint:paralleltest
func TestLoadWithDotenv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")

	err := os.WriteFile(file, []byte("ENVCONF_TEST_DOTENV_DSN=from-file\nENVCONF_TEST_DOTENV_PORT=7000\n"), 0o600)
	if err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	t.Setenv("ENVCONF_TEST_DOTENV_PORT", "7100")
	t.Cleanup(func() { _ = os.Unsetenv("ENVCONF_TEST_DOTENV_DSN") })

	var cfg struct {
		DSN  string `env:"ENVCONF_TEST_DOTENV_DSN"`
		Port int    `env:"ENVCONF_TEST_DOTENV_PORT"`
	}

	err = LoadWithDotenv(&cfg, file, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("LoadWithDotenv: %v", err)
	}

	if cfg.DSN != "from-file" {
		t.Fatalf("DSN: got %q", cfg.DSN)
	}

	if cfg.Port != 7100 {
		t.Fatalf("Port: got %d, want the process value", cfg.Port)
	}
}
