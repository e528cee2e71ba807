package database

import (
	"database/sql"
	"fmt"
	"time"

	"report-service/config"

	"github.com/apex/log"
	_ "github.com/go-sql-driver/mysql"
)

// Connect opens the MySQL connection pool used by the report store.
func Connect(cfg *config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Infof("Database connected to %s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)

	return db, nil
}
