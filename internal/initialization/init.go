// The init package contains functions that setup required dependencies such as the storage backend.
package initialization

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate"
	"github.com/golang-migrate/migrate/database/sqlite3"
	_ "github.com/golang-migrate/migrate/source/file"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/jackut/internal/config"
	"github.com/sidereusnuntius/jackut/internal/storage"
	"github.com/sidereusnuntius/jackut/internal/storage/filestore"
	"github.com/sidereusnuntius/jackut/internal/storage/sqlstore"
)

// SetupDB applies all remaining migrations found in folder.
func SetupDB(db *sql.DB, folder, dbname string) error {
	log.Info().Msg("starting migrations")
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		log.Error().Err(err).Msg("failed to create sqlite3 migration driver")
		return err
	}

	mig, err := migrate.NewWithDatabaseInstance(
		"file://"+folder,
		dbname,
		driver,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create Migrate object")
		return err
	}

	err = mig.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to run migrations")
	}
	return err
}

func OpenDB(connString string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", connString)
	if err != nil {
		log.Error().Err(err).Str("connection string", connString).Msg("failed to open database")
		return nil, err
	}
	// A single writer keeps SQLite from reporting "database is locked" under concurrent flushes.
	db.SetMaxOpenConns(1)
	return db, nil
}

// OpenStorage builds the backend selected by the configuration. The returned close function
// releases the database connection, if any.
func OpenStorage(cfg *config.Configuration) (store storage.Storage, closeFn func() error, err error) {
	closeFn = func() error { return nil }

	switch cfg.Backend {
	case config.FileBackend:
		store, err = filestore.New(cfg.DataDir)
	case config.SQLiteBackend:
		var db *sql.DB
		if db, err = OpenDB(cfg.DbUrl); err != nil {
			return
		}
		if err = SetupDB(db, cfg.MigrationsFolder, "jackut"); err != nil {
			db.Close()
			return
		}
		store, closeFn = sqlstore.New(db), db.Close
	default:
		err = fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	if err == nil {
		log.Debug().Str("backend", cfg.Backend).Msg("storage ready")
	}
	return
}
