package database

import (
	"context"
	"database/sql"
)

// schemaStatements bootstraps the two tables the service needs.  Statements
// are idempotent so EnsureSchema can run on every startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS reservations (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		mobile_number VARCHAR(30) NOT NULL,
		reservation_date DATE NOT NULL,
		reservation_time TIME NOT NULL,
		people INT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'booked',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_reservations_date (reservation_date)
	)`,
	`CREATE TABLE IF NOT EXISTS tables (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		table_name VARCHAR(100) NOT NULL,
		capacity INT NOT NULL,
		occupied TINYINT(1) NOT NULL DEFAULT 0,
		reservation_id BIGINT UNSIGNED NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_tables_reservation FOREIGN KEY (reservation_id) REFERENCES reservations (id)
	)`,
}

// EnsureSchema creates the reservations and tables tables when they do not
// exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
