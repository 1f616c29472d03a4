// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"babymorph/internal/database"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "babymorph")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "babymorph")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanThemes removes test themes by name. Call in t.Cleanup().
func cleanThemes(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		db.Exec("DELETE FROM themes WHERE name = $1", name)
	}
}

// cleanUsers removes test users by username. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, usernames ...string) {
	t.Helper()
	for _, username := range usernames {
		db.Exec("DELETE FROM users WHERE username = $1", username)
	}
}

// cleanImages removes generated images by prompt. Call in t.Cleanup().
func cleanImages(t *testing.T, db *sql.DB, prompts ...string) {
	t.Helper()
	for _, prompt := range prompts {
		db.Exec("DELETE FROM generated_images WHERE original_prompt = $1", prompt)
	}
}

// cleanTransforms removes baby transforms by original URL. Call in t.Cleanup().
func cleanTransforms(t *testing.T, db *sql.DB, urls ...string) {
	t.Helper()
	for _, url := range urls {
		db.Exec("DELETE FROM baby_transforms WHERE original_image_url = $1", url)
	}
}
