package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"

	"verdantly.com/plant-care-backend/config"
)

func Connect(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Name, cfg.User, cfg.Password, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("[DB] Connected to %s:%s/%s", cfg.Host, cfg.Port, cfg.Name)
	return db, nil
}
