// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"babymorph/internal/models"
)

// TransformStore is the append-only writer and reader for baby transforms.
type TransformStore struct {
	db *sql.DB
}

// NewTransformStore creates a new TransformStore with the given database
// connection.
func NewTransformStore(db *sql.DB) *TransformStore {
	return &TransformStore{db: db}
}

const transformColumns = `id, user_id, original_image_url, transformed_image_url, created_at`

func scanTransform(scanner interface{ Scan(...any) error }) (*models.BabyTransform, error) {
	var bt models.BabyTransform
	err := scanner.Scan(
		&bt.ID, &bt.UserID, &bt.OriginalImageURL, &bt.TransformedImageURL, &bt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &bt, nil
}

// Create inserts a baby transform record and returns it with the generated
// id and timestamp.
func (s *TransformStore) Create(bt *models.BabyTransform) (*models.BabyTransform, error) {
	err := s.db.QueryRow(`
		INSERT INTO baby_transforms (user_id, original_image_url, transformed_image_url)
		VALUES ($1, $2, $3)
		RETURNING `+transformColumns,
		bt.UserID, bt.OriginalImageURL, bt.TransformedImageURL,
	).Scan(
		&bt.ID, &bt.UserID, &bt.OriginalImageURL, &bt.TransformedImageURL, &bt.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create baby transform: %w", err)
	}
	return bt, nil
}

// ListByUser returns a user's baby transforms, newest first.
func (s *TransformStore) ListByUser(userID int64) ([]models.BabyTransform, error) {
	rows, err := s.db.Query(`
		SELECT `+transformColumns+`
		FROM baby_transforms
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user transforms: %w", err)
	}
	defer rows.Close()

	var items []models.BabyTransform
	for rows.Next() {
		bt, err := scanTransform(rows)
		if err != nil {
			return nil, fmt.Errorf("scan baby transform: %w", err)
		}
		items = append(items, *bt)
	}
	return items, rows.Err()
}
