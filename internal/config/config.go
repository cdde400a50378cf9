package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/fastprodman/moneyd/internal/ledger"
	"github.com/fastprodman/moneyd/internal/money"
)

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// LedgerConfig are the money rules of the ledger.
type LedgerConfig struct {
	DecimalPlaces int32       `env:"MONEY_DECIMAL_PLACES" envDefault:"2"`
	StartBalance  money.Money `env:"MONEY_START_BALANCE" envDefault:"0"`
	MultiScope    bool        `env:"MONEY_MULTI_SCOPE" envDefault:"false"`
}

func (c LedgerConfig) Settings(defaultScope string) ledger.Settings {
	mode := ledger.ModeSingle
	if c.MultiScope {
		mode = ledger.ModeMulti
	}

	return ledger.Settings{
		DecimalPlaces: c.DecimalPlaces,
		StartBalance:  c.StartBalance,
		Mode:          mode,
		DefaultScope:  defaultScope,
	}
}

// FormatConfig controls how amounts are shown to players.
type FormatConfig struct {
	Template  string `env:"MONEY_FORMAT" envDefault:"{sign}{value}"`
	Sign      string `env:"MONEY_SIGN" envDefault:"$"`
	Separator string `env:"MONEY_SEPARATOR" envDefault:","`
}

func (c FormatConfig) Formatter(places int32) money.Formatter {
	return money.Formatter{
		Places:    places,
		Separator: c.Separator,
		Sign:      c.Sign,
		Template:  c.Template,
	}
}

type StorageType string

const (
	StorageFlatFile StorageType = "flatfile"
	StorageSQLite   StorageType = "sqlite"
	StoragePostgres StorageType = "postgres"
)

type StorageConfig struct {
	Type       string `env:"STORAGE_TYPE" envDefault:"flatfile"`
	DataDir    string `env:"DATA_DIR" envDefault:"data"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"data.db"`
	Postgres   PostgresConfig
}

// Backend returns the configured storage type. Unknown values fall back to
// flat files.
func (c StorageConfig) Backend() StorageType {
	t := StorageType(strings.ToLower(strings.TrimSpace(c.Type)))

	switch t {
	case StorageFlatFile, StorageSQLite, StoragePostgres:
		return t
	default:
		slog.Warn("unknown storage type, using flat files", "storage_type", c.Type)

		return StorageFlatFile
	}
}
