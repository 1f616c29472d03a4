// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"babymorph/internal/models"
)

// ThemeCatalog is the theme store surface the handlers need.
type ThemeCatalog interface {
	List(category string) ([]models.Theme, error)
	FindByID(id int64) (*models.Theme, error)
	Create(t *models.Theme) (*models.Theme, error)
	Update(id int64, p *models.ThemePatch) (*models.Theme, error)
	Delete(id int64) error
}

// Themes serves the theme catalog endpoints. Mutations are admin-gated at
// the router.
type Themes struct {
	store ThemeCatalog
}

// NewThemes creates the theme handlers.
func NewThemes(store ThemeCatalog) *Themes {
	return &Themes{store: store}
}

// List returns active themes, optionally filtered by ?category=.
func (h *Themes) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" && !models.Category(category).IsValid() {
		writeError(w, http.StatusBadRequest, "Unknown category "+strconv.Quote(category))
		return
	}

	themes, err := h.store.List(category)
	if err != nil {
		writeMappedError(w, err, "")
		return
	}
	if themes == nil {
		themes = []models.Theme{}
	}
	writeJSON(w, http.StatusOK, themes)
}

// Get returns a single theme by id.
func (h *Themes) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	theme, err := h.store.FindByID(id)
	if err != nil {
		writeMappedError(w, err, "Theme not found")
		return
	}
	writeJSON(w, http.StatusOK, theme)
}

// createThemeRequest is the POST /themes body.
type createThemeRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Category     models.Category `json:"category"`
	Prompt       string          `json:"prompt"`
	PreviewImage *string         `json:"previewImage"`
	IsActive     *bool           `json:"isActive"`
}

// Create inserts a new theme. 400 when required fields are missing or the
// category is unknown.
func (h *Themes) Create(w http.ResponseWriter, r *http.Request) {
	var req createThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid theme data")
		return
	}

	if msg := validateThemeFields(req.Name, req.Description, string(req.Category), req.Prompt); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	theme := &models.Theme{
		Name:         strings.TrimSpace(req.Name),
		Description:  strings.TrimSpace(req.Description),
		Category:     req.Category,
		Prompt:       req.Prompt,
		PreviewImage: req.PreviewImage,
		IsActive:     active,
	}

	theme, err := h.store.Create(theme)
	if err != nil {
		writeMappedError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, theme)
}

// Update applies a partial theme update.
func (h *Themes) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var patch models.ThemePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid theme data")
		return
	}

	if msg := validateThemePatch(&patch); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	theme, err := h.store.Update(id, &patch)
	if err != nil {
		writeMappedError(w, err, "Theme not found")
		return
	}
	writeJSON(w, http.StatusOK, theme)
}

// Delete hard-deletes a theme. Historical generated images survive with a
// nullified theme reference.
func (h *Themes) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.store.Delete(id); err != nil {
		writeMappedError(w, err, "Theme not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validateThemeFields checks the required create fields and returns the
// first problem found.
func validateThemeFields(name, description, category, prompt string) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required."
	}
	if strings.TrimSpace(description) == "" {
		return "Description is required."
	}
	if strings.TrimSpace(category) == "" {
		return "Category is required."
	}
	if !models.Category(category).IsValid() {
		return "Unknown category " + strconv.Quote(category)
	}
	if strings.TrimSpace(prompt) == "" {
		return "Prompt is required."
	}
	return ""
}

// validateThemePatch rejects patches that would blank a required field or
// set an unknown category.
func validateThemePatch(p *models.ThemePatch) string {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return "Name cannot be empty."
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return "Description cannot be empty."
	}
	if p.Category != nil && !p.Category.IsValid() {
		return "Unknown category " + strconv.Quote(string(*p.Category))
	}
	if p.Prompt != nil && strings.TrimSpace(*p.Prompt) == "" {
		return "Prompt cannot be empty."
	}
	return ""
}

// pathID parses a numeric id URL parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}
