package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
)

func InitDB(dbURL string, logger zerolog.Logger) (*sql.DB, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("DB_URL is required for the mysql storage driver")
	}

	db, err := sql.Open("mysql", dbURL)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetMaxOpenConns(4)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database did not respond: %w", err)
	}

	logger.Info().Msg("Connected to database")
	return db, nil
}

func RunMigrations(db *sql.DB, logger zerolog.Logger) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS client_storage (
			item_key VARCHAR(100) PRIMARY KEY,
			item_value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		);`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	logger.Info().Msg("Migrations completed")
	return nil
}
