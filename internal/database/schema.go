package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the DDL for every table, in FK dependency order. Statements
// use IF NOT EXISTS so applying it on every start is harmless. Note that
// user_channel_access deliberately has no uniqueness on (user_id,
// channel_id): the source system allows duplicate memberships and the
// import must not start rejecting rows it historically accepted.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS roles (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(64) NOT NULL UNIQUE,
		description VARCHAR(255) NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		login VARCHAR(64) NOT NULL UNIQUE,
		nickname VARCHAR(64) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL,
		email VARCHAR(255) NULL UNIQUE,
		created_at DATETIME NOT NULL,
		last_login DATETIME NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_roles (
		user_id BIGINT UNSIGNED NOT NULL,
		role_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (user_id, role_id),
		FOREIGN KEY (user_id) REFERENCES users(id),
		FOREIGN KEY (role_id) REFERENCES roles(id)
	)`,
	`CREATE TABLE IF NOT EXISTS channels (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(128) NOT NULL,
		password_hash VARCHAR(255) NULL,
		description VARCHAR(255) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS channel_settings (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		channel_id BIGINT UNSIGNED NOT NULL,
		setting_key VARCHAR(128) NOT NULL,
		setting_value VARCHAR(255) NOT NULL,
		FOREIGN KEY (channel_id) REFERENCES channels(id)
	)`,
	`CREATE TABLE IF NOT EXISTS user_channel_access (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		channel_id BIGINT UNSIGNED NOT NULL,
		joined_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id),
		FOREIGN KEY (channel_id) REFERENCES channels(id)
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		sender_id BIGINT UNSIGNED NOT NULL,
		channel_id BIGINT UNSIGNED NOT NULL,
		content TEXT NOT NULL,
		type ENUM('TEXT','IMAGE','VIDEO') NOT NULL DEFAULT 'TEXT',
		timestamp DATETIME NOT NULL,
		FOREIGN KEY (sender_id) REFERENCES users(id),
		FOREIGN KEY (channel_id) REFERENCES channels(id)
	)`,
}

// EnsureSchema applies the DDL above. It runs before the CSV bootstrap so a
// fresh database is usable without any migration tooling.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
