// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// GeneratedImage records one successful image generation. Rows are
// immutable once created. ThemeID and UserID are nullable references:
// deleting the theme or user nullifies them, the image row survives.
type GeneratedImage struct {
	ID             int64     `json:"id"`
	ThemeID        *int64    `json:"themeId"`
	UserID         *int64    `json:"userId"`
	ImageURL       string    `json:"imageUrl"`
	OriginalPrompt string    `json:"originalPrompt"`
	GenerationTime int       `json:"generationTime"` // wall-clock seconds
	CreatedAt      time.Time `json:"createdAt"`
}

// BabyTransform records one photo-to-baby transformation: the stored
// original upload and the generated result. Immutable once created.
type BabyTransform struct {
	ID                  int64     `json:"id"`
	UserID              *int64    `json:"userId"`
	OriginalImageURL    string    `json:"originalImageUrl"`
	TransformedImageURL string    `json:"transformedImageUrl"`
	CreatedAt           time.Time `json:"createdAt"`
}
