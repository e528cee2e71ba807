package database

import (
	"database/sql"
	"fmt"

	"github.com/apex/log"
)

// InitSchema creates the necessary database tables if they don't exist
func InitSchema(db *sql.DB) error {
	log.Info("Initializing report-service database schema...")

	reportsTableSQL := `
	CREATE TABLE IF NOT EXISTS reports(
		id INT NOT NULL AUTO_INCREMENT,
		lat DOUBLE NOT NULL,
		lng DOUBLE NOT NULL,
		type VARCHAR(64) NOT NULL,
		description TEXT NOT NULL,
		status ENUM('Pending', 'Resolved') NOT NULL DEFAULT 'Pending',
		user_id VARCHAR(255) NOT NULL,
		image VARCHAR(255),
		notify BOOL NOT NULL DEFAULT false,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		INDEX status_index (status),
		INDEX user_id_index (user_id),
		INDEX type_index (type)
	)`

	if _, err := db.Exec(reportsTableSQL); err != nil {
		return fmt.Errorf("failed to create reports table: %w", err)
	}
	log.Info("Reports table created/verified")

	return nil
}
