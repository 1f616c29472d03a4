// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"babymorph/internal/models"
)

// popularThemeLimit caps the popularThemes list.
const popularThemeLimit = 5

// AnalyticsSource runs the aggregate queries.
type AnalyticsSource interface {
	CountImages() (int, error)
	CountThemes() (int, error)
	CountRecentImages() (int, error)
	CategoryUsage() (map[string]int, error)
	PopularThemes(limit int) ([]models.Theme, error)
	TotalGenerations() (int, error)
}

// Analytics serves GET /api/analytics. Every request recomputes from the
// stores; nothing is cached or materialized.
type Analytics struct {
	store AnalyticsSource
}

// NewAnalytics creates the analytics handler.
func NewAnalytics(store AnalyticsSource) *Analytics {
	return &Analytics{store: store}
}

// Get runs the six aggregate queries concurrently and returns the summary.
func (h *Analytics) Get(w http.ResponseWriter, r *http.Request) {
	var a models.Analytics

	var g errgroup.Group
	g.Go(func() (err error) { a.TotalImages, err = h.store.CountImages(); return })
	g.Go(func() (err error) { a.TotalThemes, err = h.store.CountThemes(); return })
	g.Go(func() (err error) { a.RecentGenerations, err = h.store.CountRecentImages(); return })
	g.Go(func() (err error) { a.CategoryUsage, err = h.store.CategoryUsage(); return })
	g.Go(func() (err error) { a.PopularThemes, err = h.store.PopularThemes(popularThemeLimit); return })
	g.Go(func() (err error) { a.TotalGenerations, err = h.store.TotalGenerations(); return })

	if err := g.Wait(); err != nil {
		writeMappedError(w, err, "")
		return
	}

	if a.CategoryUsage == nil {
		a.CategoryUsage = map[string]int{}
	}
	if a.PopularThemes == nil {
		a.PopularThemes = []models.Theme{}
	}
	writeJSON(w, http.StatusOK, a)
}
