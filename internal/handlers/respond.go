// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP endpoints: theme catalog CRUD,
// the generation and baby transform operations, galleries, analytics,
// auth, health, and local upload serving.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"babymorph/internal/ai"
	"babymorph/internal/generation"
	"babymorph/internal/store"
)

// writeJSON encodes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// writeError writes the API error shape {"error": "..."}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeMappedError translates the error taxonomy into a status code:
// validation 400, missing referent 404, provider and storage failures 500.
// notFoundMsg names the missing resource for 404 responses.
func writeMappedError(w http.ResponseWriter, err error, notFoundMsg string) {
	var (
		valErr *generation.ValidationError
		genErr *ai.GenerationError
		stoErr *generation.StorageError
	)

	switch {
	case errors.As(err, &valErr):
		writeError(w, http.StatusBadRequest, valErr.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMsg)
	case errors.As(err, &genErr):
		slog.Error("generation failed", "category", genErr.Category, "status", genErr.Status, "error", genErr)
		writeError(w, http.StatusInternalServerError, "Image generation failed ("+string(genErr.Category)+")")
	case errors.As(err, &stoErr):
		slog.Error("storage write failed", "op", stoErr.Op, "error", stoErr)
		writeError(w, http.StatusInternalServerError, "Failed to save result")
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
