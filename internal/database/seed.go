package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// seedTheme is one starter prompt inserted on first boot.
type seedTheme struct {
	name, description, category, prompt string
}

var seedThemes = []seedTheme{
	{
		name:        "Pixel Hero",
		description: "Retro 8-bit game hero portrait",
		category:    "games",
		prompt:      "A heroic character portrait in retro 8-bit pixel art style, vibrant colors, side-scroller game aesthetic",
	},
	{
		name:        "Space Marine",
		description: "Sci-fi shooter armor suit",
		category:    "games",
		prompt:      "A person wearing futuristic powered armor, dramatic sci-fi lighting, AAA video game concept art style",
	},
	{
		name:        "Film Noir",
		description: "Classic black-and-white detective movie look",
		category:    "movies",
		prompt:      "A moody film noir portrait, dramatic shadows, 1940s detective movie style, black and white photography",
	},
	{
		name:        "Space Opera",
		description: "Epic galactic saga poster",
		category:    "movies",
		prompt:      "An epic space opera movie poster portrait, dramatic starfield backdrop, cinematic lighting",
	},
	{
		name:        "Sitcom Star",
		description: "Bright 90s television sitcom style",
		category:    "tv",
		prompt:      "A cheerful 1990s sitcom promotional photo, bright studio lighting, pastel wardrobe, vintage television look",
	},
	{
		name:        "Classic Baby",
		description: "Adorable baby portrait keeping your features",
		category:    "baby",
		prompt:      "Transform this person into a cute baby version while maintaining their key facial features and characteristics",
	},
}

// Seed populates the database with initial development data: a default
// admin user and a starter theme per category. No-op when users already
// exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (username, password_hash, is_admin)
		VALUES ($1, $2, TRUE)
	`, "admin", string(hash))
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	for _, t := range seedThemes {
		_, err := db.Exec(`
			INSERT INTO themes (name, description, category, prompt)
			VALUES ($1, $2, $3, $4)
		`, t.name, t.description, t.category, t.prompt)
		if err != nil {
			return fmt.Errorf("seed insert theme %q: %w", t.name, err)
		}
	}

	slog.Info("database seeded with default admin user and starter themes",
		"username", "admin",
		"password", "admin",
		"themes", len(seedThemes),
	)

	return nil
}
