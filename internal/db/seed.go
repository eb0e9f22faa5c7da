package db

import (
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// SeedUserCount is the number of demo users inserted into an empty database.
const SeedUserCount = 10

// SeedPassword is the shared password for the seeded demo users.
// Seeding only happens when the users table is empty, so a fresh install
// always has known credentials to log in with.
const SeedPassword = "changeme"

// Seed inserts user1..user10 when the users table is empty. Each gets a
// bcrypt hash of SeedPassword. Idempotent: a non-empty table is left alone.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("seed count: %w", err)
	}
	if count > 0 {
		return nil
	}

	// One hash shared by every seed user; bcrypt is deliberately slow.
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed hash: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	for i := 1; i <= SeedUserCount; i++ {
		username := fmt.Sprintf("user%d", i)
		if _, err := tx.Exec(
			`INSERT INTO users (username, password_hash) VALUES ($1, $2) ON CONFLICT (username) DO NOTHING`,
			username, string(hash),
		); err != nil {
			return fmt.Errorf("seed insert %s: %w", username, err)
		}
	}

	return tx.Commit()
}
