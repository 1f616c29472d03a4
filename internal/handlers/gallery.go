// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"babymorph/internal/models"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

// ImageReader reads generated image records.
type ImageReader interface {
	ListRecent(limit int) ([]models.GeneratedImage, error)
	ListByUser(userID int64) ([]models.GeneratedImage, error)
}

// TransformReader reads baby transform records.
type TransformReader interface {
	ListByUser(userID int64) ([]models.BabyTransform, error)
}

// Gallery serves the read-only record listings.
type Gallery struct {
	images     ImageReader
	transforms TransformReader
}

// NewGallery creates the gallery handlers.
func NewGallery(images ImageReader, transforms TransformReader) *Gallery {
	return &Gallery{images: images, transforms: transforms}
}

// RecentImages handles GET /api/recent-images?limit=.
func (h *Gallery) RecentImages(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(n, maxRecentLimit)
	}

	images, err := h.images.ListRecent(limit)
	if err != nil {
		writeMappedError(w, err, "")
		return
	}
	if images == nil {
		images = []models.GeneratedImage{}
	}
	writeJSON(w, http.StatusOK, images)
}

// UserImages handles GET /api/user-images/{userId}.
func (h *Gallery) UserImages(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	images, err := h.images.ListByUser(userID)
	if err != nil {
		writeMappedError(w, err, "")
		return
	}
	if images == nil {
		images = []models.GeneratedImage{}
	}
	writeJSON(w, http.StatusOK, images)
}

// UserTransforms handles GET /api/baby-transforms/{userId}.
func (h *Gallery) UserTransforms(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	transforms, err := h.transforms.ListByUser(userID)
	if err != nil {
		writeMappedError(w, err, "")
		return
	}
	if transforms == nil {
		transforms = []models.BabyTransform{}
	}
	writeJSON(w, http.StatusOK, transforms)
}
