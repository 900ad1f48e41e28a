package migrations

import (
	"database/sql"
	"fmt"
	"time"
)

var tables = []struct {
	name  string
	query string
}{
	{"user_roles", `
		CREATE TABLE IF NOT EXISTS user_roles (
			id BIGINT PRIMARY KEY,
			name VARCHAR(50) NOT NULL UNIQUE
		);
	`},
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(50) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL,
			user_role_id BIGINT NOT NULL,
			is_active TINYINT(1) NOT NULL DEFAULT 1,
			FOREIGN KEY (user_role_id) REFERENCES user_roles(id)
		);
	`},
	{"wallets", `
		CREATE TABLE IF NOT EXISTS wallets (
			user_id BIGINT PRIMARY KEY,
			balance DECIMAL(12,2) NOT NULL DEFAULT 0,
			CHECK (balance >= 0),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);
	`},
	{"product_categories", `
		CREATE TABLE IF NOT EXISTS product_categories (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL
		);
	`},
	{"products", `
		CREATE TABLE IF NOT EXISTS products (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(50) NOT NULL,
			description VARCHAR(200) NOT NULL,
			unit_price DECIMAL(12,2) NOT NULL,
			available VARCHAR(50) NOT NULL,
			quantity INT NULL,
			category_id BIGINT NOT NULL,
			image VARCHAR(500) NOT NULL DEFAULT '',
			is_active TINYINT(1) NOT NULL DEFAULT 1,
			CHECK (quantity IS NULL OR quantity >= 0),
			FOREIGN KEY (category_id) REFERENCES product_categories(id)
		);
	`},
	{"carts", `
		CREATE TABLE IF NOT EXISTS carts (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			date_created DATETIME NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'open',
			transaction_id BIGINT NULL,
			open_user_id BIGINT AS (IF(status = 'open', user_id, NULL)) STORED,
			UNIQUE KEY uq_carts_open_user (open_user_id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);
	`},
	{"cart_products", `
		CREATE TABLE IF NOT EXISTS cart_products (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			cart_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL,
			quantity INT NOT NULL,
			UNIQUE KEY uq_cart_products (cart_id, product_id),
			CHECK (quantity > 0),
			FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE CASCADE,
			FOREIGN KEY (product_id) REFERENCES products(id)
		);
	`},
	{"transactions", `
		CREATE TABLE IF NOT EXISTS transactions (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			cart_id BIGINT NOT NULL UNIQUE,
			transaction_date DATETIME NOT NULL,
			order_type VARCHAR(20) NOT NULL,
			total_amount DECIMAL(12,2) NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (cart_id) REFERENCES carts(id)
		);
	`},
}

// AutoMigrate creates every table if it does not exist and seeds the fixed roles.
func AutoMigrate(retries int, db *sql.DB) error {
	for _, table := range tables {
		if err := execWithRetry(retries, db, table.query); err != nil {
			return fmt.Errorf("migrate %s: %w", table.name, err)
		}
	}
	return SeedRoles(retries, db)
}

// SeedRoles inserts the User (1) and SuperUser (2) roles.
func SeedRoles(retries int, db *sql.DB) error {
	query := `INSERT IGNORE INTO user_roles (id, name) VALUES (1, 'User'), (2, 'SuperUser')`
	if err := execWithRetry(retries, db, query); err != nil {
		return fmt.Errorf("seed user_roles: %w", err)
	}
	return nil
}

func execWithRetry(retries int, db *sql.DB, query string) error {
	_, err := db.Exec(query)
	if err != nil {
		// Retry the statement
		for i := 0; i < retries; i++ {
			time.Sleep(1 * time.Second)
			_, err = db.Exec(query)
			if err == nil {
				break
			}
		}
	}
	return err
}
