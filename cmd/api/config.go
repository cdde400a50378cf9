package main

import (
	"log/slog"
	"time"

	"github.com/fastprodman/moneyd/internal/config"
)

type apiConfig struct {
	Port            uint16        `env:"PORT" envDefault:"8080"`
	LogLevel        slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// DirectoryFile lists players and scopes; without it the directory starts
	// empty with DefaultScope as the only scope.
	DirectoryFile string `env:"DIRECTORY_FILE"`
	DefaultScope  string `env:"DEFAULT_SCOPE" envDefault:"world"`
	MessagesFile  string `env:"MESSAGES_FILE"`

	Ledger  config.LedgerConfig
	Format  config.FormatConfig
	Storage config.StorageConfig
}
