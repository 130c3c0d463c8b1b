package migrations

import (
	"database/sql"
	"fmt"
)

var db *sql.DB

// Init sets the DB connection for migrations and queries
func Init(database *sql.DB) {
	db = database
}

// Migrate creates required tables if they do not exist
func Migrate() error {
	if db == nil {
		return fmt.Errorf("db is not initialized")
	}
	createLeads := `
	CREATE TABLE IF NOT EXISTS leads (
		id INT AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(191) NOT NULL,
		name VARCHAR(100) NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createLeads); err != nil {
		return err
	}

	createPayments := `
	CREATE TABLE IF NOT EXISTS payments (
		id INT AUTO_INCREMENT PRIMARY KEY,
		external_id VARCHAR(191) NOT NULL UNIQUE,
		session_id VARCHAR(64) NOT NULL DEFAULT '',
		mode VARCHAR(20) NOT NULL DEFAULT 'pix',
		amount DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		payer_email VARCHAR(191) NOT NULL DEFAULT '',
		payer_name VARCHAR(100) NOT NULL DEFAULT '',
		status VARCHAR(32) NOT NULL DEFAULT 'pending',
		search_params TEXT NULL,
		email_sent TINYINT(1) NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createPayments); err != nil {
		return err
	}
	_, _ = db.Exec("ALTER TABLE payments ADD COLUMN IF NOT EXISTS search_params TEXT NULL")
	_, _ = db.Exec("ALTER TABLE payments ADD COLUMN IF NOT EXISTS email_sent TINYINT(1) NOT NULL DEFAULT 0")
	return nil
}

// RecordLead stores a captured lead. The relay to the form service is a
// separate concern; this keeps a local copy regardless. No-op when the
// deployment runs without a database.
func RecordLead(email, name string) error {
	if db == nil {
		return nil
	}
	_, err := db.Exec("INSERT INTO leads (email, name) VALUES (?, ?)", email, name)
	return err
}
