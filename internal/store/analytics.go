// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"babymorph/internal/models"
)

// recentWindow is the time window counted as "recent" generations.
const recentWindow = 7 * 24 * time.Hour

// AnalyticsStore runs the read-side aggregation queries. Every method hits
// the database directly; there is no materialized view to refresh or
// invalidate.
type AnalyticsStore struct {
	db *sql.DB
}

// NewAnalyticsStore creates a new AnalyticsStore with the given database
// connection.
func NewAnalyticsStore(db *sql.DB) *AnalyticsStore {
	return &AnalyticsStore{db: db}
}

// CountImages returns the total number of generated images.
func (s *AnalyticsStore) CountImages() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM generated_images`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count images: %w", err)
	}
	return n, nil
}

// CountThemes returns the total number of themes, active or not.
func (s *AnalyticsStore) CountThemes() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM themes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count themes: %w", err)
	}
	return n, nil
}

// CountRecentImages returns the number of images generated within the last
// seven days. A true time window, not "the newest seven rows".
func (s *AnalyticsStore) CountRecentImages() (int, error) {
	cutoff := time.Now().Add(-recentWindow)
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM generated_images WHERE created_at >= $1
	`, cutoff).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count recent images: %w", err)
	}
	return n, nil
}

// CategoryUsage returns the summed usage count per theme category.
func (s *AnalyticsStore) CategoryUsage() (map[string]int, error) {
	rows, err := s.db.Query(`
		SELECT category, COALESCE(SUM(usage_count), 0)
		FROM themes
		GROUP BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("category usage: %w", err)
	}
	defer rows.Close()

	usage := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("scan category usage: %w", err)
		}
		usage[category] = count
	}
	return usage, rows.Err()
}

// PopularThemes returns the top themes by usage count, ties broken by id.
func (s *AnalyticsStore) PopularThemes(limit int) ([]models.Theme, error) {
	rows, err := s.db.Query(`
		SELECT `+themeColumns+`
		FROM themes
		ORDER BY usage_count DESC, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("popular themes: %w", err)
	}
	defer rows.Close()

	var items []models.Theme
	for rows.Next() {
		t, err := scanTheme(rows)
		if err != nil {
			return nil, fmt.Errorf("scan popular theme: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// TotalGenerations returns the sum of usage counts across all themes.
func (s *AnalyticsStore) TotalGenerations() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COALESCE(SUM(usage_count), 0) FROM themes`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("total generations: %w", err)
	}
	return n, nil
}
