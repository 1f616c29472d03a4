// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures shared between the stores,
// the generation service, and the HTTP handlers. JSON tags follow the
// public API contract (camelCase).
package models

import "time"

// Category is the closed set of theme categories.
type Category string

const (
	CategoryGames  Category = "games"
	CategoryMovies Category = "movies"
	CategoryTV     Category = "tv"
	CategoryBaby   Category = "baby"
)

// Categories lists every valid theme category.
var Categories = []Category{CategoryGames, CategoryMovies, CategoryTV, CategoryBaby}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryGames, CategoryMovies, CategoryTV, CategoryBaby:
		return true
	}
	return false
}

// Theme is a named, reusable image-generation prompt with a category tag.
// UsageCount is incremented exactly once per successful generation and
// never decreases.
type Theme struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     Category  `json:"category"`
	Prompt       string    `json:"prompt"`
	PreviewImage *string   `json:"previewImage,omitempty"`
	IsActive     bool      `json:"isActive"`
	UsageCount   int       `json:"usageCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ThemePatch carries a partial theme update. Nil fields are left unchanged.
type ThemePatch struct {
	Name         *string   `json:"name"`
	Description  *string   `json:"description"`
	Category     *Category `json:"category"`
	Prompt       *string   `json:"prompt"`
	PreviewImage *string   `json:"previewImage"`
	IsActive     *bool     `json:"isActive"`
}
