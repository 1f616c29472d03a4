// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements PostgreSQL persistence for themes, generated
// images, baby transforms, and users, plus the read-side analytics queries.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"babymorph/internal/models"
)

// ThemeStore handles all theme-related database operations.
type ThemeStore struct {
	db *sql.DB
}

// NewThemeStore creates a new ThemeStore with the given database connection.
func NewThemeStore(db *sql.DB) *ThemeStore {
	return &ThemeStore{db: db}
}

// themeColumns lists the columns selected in theme queries.
const themeColumns = `id, name, description, category, prompt, preview_image,
	is_active, usage_count, created_at, updated_at`

// scanTheme scans a theme row from the result set.
func scanTheme(scanner interface{ Scan(...any) error }) (*models.Theme, error) {
	var t models.Theme
	err := scanner.Scan(
		&t.ID, &t.Name, &t.Description, &t.Category, &t.Prompt, &t.PreviewImage,
		&t.IsActive, &t.UsageCount, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns active themes. Without a category filter the result is
// ordered by usage count descending (most popular first); with a filter
// the order is stable by id.
func (s *ThemeStore) List(category string) ([]models.Theme, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if category != "" {
		rows, err = s.db.Query(`
			SELECT `+themeColumns+`
			FROM themes
			WHERE is_active = TRUE AND category = $1
			ORDER BY id
		`, category)
	} else {
		rows, err = s.db.Query(`
			SELECT ` + themeColumns + `
			FROM themes
			WHERE is_active = TRUE
			ORDER BY usage_count DESC, id
		`)
	}
	if err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}
	defer rows.Close()

	var items []models.Theme
	for rows.Next() {
		t, err := scanTheme(rows)
		if err != nil {
			return nil, fmt.Errorf("scan theme: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// FindByID retrieves a single theme regardless of its active flag.
// Returns ErrNotFound if the id is absent.
func (s *ThemeStore) FindByID(id int64) (*models.Theme, error) {
	row := s.db.QueryRow(`SELECT `+themeColumns+` FROM themes WHERE id = $1`, id)
	t, err := scanTheme(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find theme by id: %w", err)
	}
	return t, nil
}

// Create inserts a new theme with a zero usage count and returns it with
// the generated id and timestamps.
func (s *ThemeStore) Create(t *models.Theme) (*models.Theme, error) {
	err := s.db.QueryRow(`
		INSERT INTO themes (name, description, category, prompt, preview_image, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+themeColumns,
		t.Name, t.Description, t.Category, t.Prompt, t.PreviewImage, t.IsActive,
	).Scan(
		&t.ID, &t.Name, &t.Description, &t.Category, &t.Prompt, &t.PreviewImage,
		&t.IsActive, &t.UsageCount, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create theme: %w", err)
	}
	return t, nil
}

// Update applies a partial update; nil patch fields keep the stored value.
// updated_at is always bumped. Returns ErrNotFound if the id is absent.
func (s *ThemeStore) Update(id int64, p *models.ThemePatch) (*models.Theme, error) {
	row := s.db.QueryRow(`
		UPDATE themes SET
			name          = COALESCE($2, name),
			description   = COALESCE($3, description),
			category      = COALESCE($4, category),
			prompt        = COALESCE($5, prompt),
			preview_image = COALESCE($6, preview_image),
			is_active     = COALESCE($7, is_active),
			updated_at    = NOW()
		WHERE id = $1
		RETURNING `+themeColumns,
		id, p.Name, p.Description, p.Category, p.Prompt, p.PreviewImage, p.IsActive,
	)
	t, err := scanTheme(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update theme: %w", err)
	}
	return t, nil
}

// Delete hard-deletes a theme. Historical generated images keep their rows;
// their theme_id is nullified by the FK. Returns ErrNotFound if absent.
func (s *ThemeStore) Delete(id int64) error {
	res, err := s.db.Exec(`DELETE FROM themes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete theme: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete theme rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementUsage atomically bumps a theme's usage count by one. It runs
// after a successful generation, so a missing id is a silent no-op rather
// than an error.
func (s *ThemeStore) IncrementUsage(id int64) error {
	_, err := s.db.Exec(`
		UPDATE themes SET usage_count = usage_count + 1, updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("increment theme usage: %w", err)
	}
	return nil
}
