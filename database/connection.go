// backend/database/connection.go
package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/ktnaka/anpi/backend/config"
	_ "github.com/go-sql-driver/mysql" // MariaDB/MySQL driver
)

var DB *sql.DB

// InitDB initializes the database connection pool.
func InitDB(cfg config.DatabaseConfig) error {
	var err error
	// DSN: username:password@protocol(address)/dbname?param=value
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
	)

	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database!")
	return nil
}

// InitSchema creates the checkins ledger and the deletions audit table if
// they do not exist yet. AUTO_INCREMENT guarantees ids are never reused
// after a delete; the counter only moves forward.
func InitSchema() error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS checkins (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			ts VARCHAR(35) NOT NULL,
			nick VARCHAR(255) NOT NULL DEFAULT '',
			addr VARCHAR(255) NOT NULL DEFAULT '',
			school VARCHAR(255) NOT NULL DEFAULT '',
			tel VARCHAR(64) NOT NULL DEFAULT '',
			status VARCHAR(32) NOT NULL DEFAULT 'safe',
			raw_params TEXT,
			sms_sent TINYINT(1) NOT NULL DEFAULT 0,
			user_agent TEXT,
			INDEX idx_checkins_ts (ts),
			INDEX idx_checkins_nick (nick)
		) CHARACTER SET utf8mb4
	`)
	if err != nil {
		return fmt.Errorf("failed to create checkins table: %w", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS deletions (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			deleted_at VARCHAR(35) NOT NULL,
			deleted_by VARCHAR(255) NOT NULL DEFAULT '',
			reason TEXT,
			deleted_row_json TEXT NOT NULL
		) CHARACTER SET utf8mb4
	`)
	if err != nil {
		return fmt.Errorf("failed to create deletions table: %w", err)
	}

	log.Println("Database schema is ready.")
	return nil
}

// CloseDB closes the database connection pool.
// Typically called on application shutdown.
func CloseDB() {
	if DB != nil {
		DB.Close()
		log.Println("Database connection closed.")
	}
}
