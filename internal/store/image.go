// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"babymorph/internal/models"
)

// ImageStore is the append-only writer and reader for generated images.
// Rows are never updated or deleted through this store.
type ImageStore struct {
	db *sql.DB
}

// NewImageStore creates a new ImageStore with the given database connection.
func NewImageStore(db *sql.DB) *ImageStore {
	return &ImageStore{db: db}
}

const imageColumns = `id, theme_id, user_id, image_url, original_prompt,
	generation_time, created_at`

func scanImage(scanner interface{ Scan(...any) error }) (*models.GeneratedImage, error) {
	var img models.GeneratedImage
	err := scanner.Scan(
		&img.ID, &img.ThemeID, &img.UserID, &img.ImageURL, &img.OriginalPrompt,
		&img.GenerationTime, &img.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// Create inserts a generated image record and returns it with the
// generated id and timestamp.
func (s *ImageStore) Create(img *models.GeneratedImage) (*models.GeneratedImage, error) {
	err := s.db.QueryRow(`
		INSERT INTO generated_images (theme_id, user_id, image_url, original_prompt, generation_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+imageColumns,
		img.ThemeID, img.UserID, img.ImageURL, img.OriginalPrompt, img.GenerationTime,
	).Scan(
		&img.ID, &img.ThemeID, &img.UserID, &img.ImageURL, &img.OriginalPrompt,
		&img.GenerationTime, &img.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create generated image: %w", err)
	}
	return img, nil
}

// ListRecent returns the newest generated images, truncated to limit.
func (s *ImageStore) ListRecent(limit int) ([]models.GeneratedImage, error) {
	rows, err := s.db.Query(`
		SELECT `+imageColumns+`
		FROM generated_images
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent images: %w", err)
	}
	defer rows.Close()
	return collectImages(rows)
}

// ListByUser returns a user's generated images, newest first.
func (s *ImageStore) ListByUser(userID int64) ([]models.GeneratedImage, error) {
	rows, err := s.db.Query(`
		SELECT `+imageColumns+`
		FROM generated_images
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user images: %w", err)
	}
	defer rows.Close()
	return collectImages(rows)
}

func collectImages(rows *sql.Rows) ([]models.GeneratedImage, error) {
	var items []models.GeneratedImage
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan generated image: %w", err)
		}
		items = append(items, *img)
	}
	return items, rows.Err()
}
