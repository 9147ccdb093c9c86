package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // needed
	_ "github.com/lib/pq"                                // needed
	"github.com/sirupsen/logrus"

	"shipcaptaincrew-server/internal/config"
)

const defaultDSN = "postgres://postgres@localhost:5432/postgres?sslmode=disable"

var instance *sql.DB

// Instance returns a database instance
func Instance() *sql.DB {
	if instance == nil {
		if err := LoadInstance(); err != nil {
			panic(err)
		}
	}

	return instance
}

// LoadInstance will open and ping the database
func LoadInstance() error {
	dsn := config.Instance().PGDSN
	if dsn == "" {
		dsn = defaultDSN
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return err
	}

	instance = db
	return nil
}

// Migrate runs the migrations
func Migrate() error {
	migrationsPath := config.Instance().MigrationsPath
	db := Instance()

	logrus.WithField("migrationsPath", migrationsPath).Info("running migrations")
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsPath), "postgres", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

// Scanner is an interface that sql should've provided
// No snark here...
type Scanner interface {
	Scan(...interface{}) error
}
