// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"babymorph/internal/generation"
	"babymorph/internal/middleware"
	"babymorph/internal/models"
)

// GenerationService is the generation service surface the handlers need;
// implemented by *generation.Service and by test fakes.
type GenerationService interface {
	GenerateFromTheme(ctx context.Context, themeID int64, userID *int64) (*models.GeneratedImage, error)
	TransformPhoto(ctx context.Context, photo *generation.Upload, userID *int64) (*models.BabyTransform, int, error)
}

// Generate serves the image generation and baby transform operations.
type Generate struct {
	svc GenerationService
}

// NewGenerate creates the generation handlers.
func NewGenerate(svc GenerationService) *Generate {
	return &Generate{svc: svc}
}

// generateRequest is the optional POST /generate/{themeId} body.
type generateRequest struct {
	UserID *int64 `json:"userId"`
}

// FromTheme handles POST /api/generate/{themeId}.
func (h *Generate) FromTheme(w http.ResponseWriter, r *http.Request) {
	themeID, ok := pathID(w, r, "themeId")
	if !ok {
		return
	}

	// The body is optional; an empty or absent body means anonymous.
	var req generateRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	img, err := h.svc.GenerateFromTheme(r.Context(), themeID, resolveUserID(r, req.UserID))
	if err != nil {
		writeMappedError(w, err, "Theme not found")
		return
	}
	writeJSON(w, http.StatusOK, img)
}

// babyTransformResponse augments the stored record with the image call's
// elapsed seconds, matching the generated-image response shape.
type babyTransformResponse struct {
	*models.BabyTransform
	GenerationTime int `json:"generationTime"`
}

// BabyTransform handles POST /api/baby-transform (multipart, field "photo").
func (h *Generate) BabyTransform(w http.ResponseWriter, r *http.Request) {
	// Limit the request body to the photo cap plus form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, generation.MaxUploadBytes+4096)
	if err := r.ParseMultipartForm(generation.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Photo is too large (max 10 MiB)")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	contentType, err := generation.SniffContentType(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read photo")
		return
	}

	// Spill the upload to a temp file; cleanup is scoped to this request
	// and runs on every path.
	tmp, err := os.CreateTemp("", "babymorph-upload-*")
	if err != nil {
		slog.Error("create temp upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process photo")
		return
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil {
			slog.Warn("temp upload cleanup failed", "path", tmp.Name(), "error", err)
		}
	}()

	size, err := io.Copy(tmp, file)
	closeErr := tmp.Close()
	if err != nil || closeErr != nil {
		slog.Error("spool upload failed", "copy_error", err, "close_error", closeErr)
		writeError(w, http.StatusInternalServerError, "Failed to process photo")
		return
	}

	var bodyUserID *int64
	if v := r.FormValue("userId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid userId")
			return
		}
		bodyUserID = &id
	}

	upload := &generation.Upload{
		Path:        tmp.Name(),
		ContentType: contentType,
		Size:        size,
	}

	bt, elapsed, err := h.svc.TransformPhoto(r.Context(), upload, resolveUserID(r, bodyUserID))
	if err != nil {
		writeMappedError(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, babyTransformResponse{BabyTransform: bt, GenerationTime: elapsed})
}

// resolveUserID picks the attribution user: an explicit request value wins,
// otherwise the bearer token's subject when one is present.
func resolveUserID(r *http.Request, explicit *int64) *int64 {
	if explicit != nil {
		return explicit
	}
	if claims := middleware.ClaimsFromCtx(r.Context()); claims != nil {
		id := claims.UserID
		return &id
	}
	return nil
}
