package config

import (
	"testing"

	"github.com/fastprodman/moneyd/internal/ledger"
	"github.com/fastprodman/moneyd/internal/money"
)

func TestStorageConfig_Backend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want StorageType
	}{
		{raw: "flatfile", want: StorageFlatFile},
		{raw: " SQLite ", want: StorageSQLite},
		{raw: "postgres", want: StoragePostgres},
		{raw: "mysql", want: StorageFlatFile},
		{raw: "", want: StorageFlatFile},
	}

	for _, tt := range tests {
		got := StorageConfig{Type: tt.raw}.Backend()
		if got != tt.want {
			t.Fatalf("Backend(%q): got %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestLedgerConfig_Settings(t *testing.T) {
	t.Parallel()

	cfg := LedgerConfig{DecimalPlaces: 3, StartBalance: money.FromInt(10), MultiScope: true}

	s := cfg.Settings("world")
	if s.Mode != ledger.ModeMulti || s.DecimalPlaces != 3 || s.DefaultScope != "world" || !s.StartBalance.Equal(money.FromInt(10)) {
		t.Fatalf("unexpected settings: %+v", s)
	}

	err := s.Validate()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	cfg.MultiScope = false
	cfg.DecimalPlaces = 9

	s = cfg.Settings("world")
	if s.Mode != ledger.ModeSingle {
		t.Fatalf("mode: got %q", s.Mode)
	}

	if s.Validate() == nil {
		t.Fatalf("expected decimal places 9 to be rejected")
	}
}

func TestFormatConfig_Formatter(t *testing.T) {
	t.Parallel()

	f := FormatConfig{Template: "{value} {sign}", Sign: "€", Separator: "."}.Formatter(2)

	got := f.Format(money.MustParse("1234567.891"))
	if got != "1.234.567.89 €" {
		t.Fatalf("got %q", got)
	}
}
