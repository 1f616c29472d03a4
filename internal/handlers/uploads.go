// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"babymorph/internal/storage"
)

// Uploads serves files stored by the local-disk blob store. When S3 is
// configured, files carry bucket URLs instead and this handler is idle.
type Uploads struct {
	files *storage.LocalStore // nil when S3 storage is active
}

// NewUploads creates the upload-serving handler.
func NewUploads(files *storage.LocalStore) *Uploads {
	return &Uploads{files: files}
}

// Serve handles GET /uploads/*.
func (h *Uploads) Serve(w http.ResponseWriter, r *http.Request) {
	if h.files == nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	path, ok := h.files.Resolve(chi.URLParam(r, "*"))
	if !ok {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	http.ServeFile(w, r, path)
}
