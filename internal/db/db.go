package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Open connects to the audit database and applies pending migrations.
func Open(driver, connection string) (*sqlx.DB, error) {
	database, err := Init(driver, connection)
	if err != nil {
		return nil, err
	}

	err = RunMigrations(database.DB, driver)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	return database, nil
}

func Init(driver, connection string) (*sqlx.DB, error) {
	// SQLite: create data directory if needed
	if driver == "sqlite" {
		dir := filepath.Dir(sqlitePath(connection))
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	// A single SQLite file takes one writer at a time.
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	slog.Info("database connected", "driver", driver)
	return db, nil
}

func sqlitePath(connection string) string {
	connection = strings.TrimPrefix(connection, "file:")
	if i := strings.IndexByte(connection, '?'); i >= 0 {
		connection = connection[:i]
	}
	return connection
}
