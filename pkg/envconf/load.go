// Package envconf fills tagged config structs from the environment.
//
//	type config struct {
//		Port     uint16        `env:"PORT" envDefault:"8080"`
//		Timeout  time.Duration `env:"TIMEOUT" envDefault:"5s"`
//		Postgres PostgresConfig
//	}
//
// Nested structs are parsed recursively and fields implementing
// encoding.TextUnmarshaler parse themselves.
package envconf

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrNilDestination = errors.New("destination is nil")

// Load parses the process environment into dst, a pointer to a struct.
func Load(dst any) error {
	if dst == nil {
		return ErrNilDestination
	}

	err := env.Parse(dst)
	if err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return nil
}

// LoadWithDotenv reads the given dotenv files into the environment before
// calling Load. Variables already set win over the files, and missing files
// are skipped.
func LoadWithDotenv(dst any, files ...string) error {
	for _, file := range files {
		err := godotenv.Load(file)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}

	return Load(dst)
}
