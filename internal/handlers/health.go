// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"babymorph/internal/ai"
)

// healthPingTimeout bounds the provider connectivity probe so the health
// endpoint stays fast even when the provider hangs.
const healthPingTimeout = 5 * time.Second

// Health serves GET /api/health.
type Health struct {
	provider ai.Provider
}

// NewHealth creates the health handler.
func NewHealth(provider ai.Provider) *Health {
	return &Health{provider: provider}
}

type healthResponse struct {
	Status            string    `json:"status"`
	ProviderConnected bool      `json:"providerConnected"`
	Timestamp         time.Time `json:"timestamp"`
}

// Get reports liveness plus the provider's reachability.
func (h *Health) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	connected := true
	if err := h.provider.Ping(ctx); err != nil {
		slog.Warn("provider health check failed", "error", err)
		connected = false
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:            "ok",
		ProviderConnected: connected,
		Timestamp:         time.Now().UTC(),
	})
}
