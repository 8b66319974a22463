package repository

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DriverConfig selects and configures the backing SQL driver for
// NewGormRepository, mirroring the teacher's config-driven DSN
// selection (repository/config.go) but scoped to the two drivers the
// import engine ships with.
type DriverConfig struct {
	Driver string // "postgres" or "sqlite"
	DSN    string
}

// Open opens a *gorm.DB for cfg's driver.
func Open(cfg DriverConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	case "sqlite", "":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported repository driver %q", cfg.Driver)
	}
}
