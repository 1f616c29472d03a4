// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"babymorph/internal/auth"
	"babymorph/internal/models"
	"babymorph/internal/store"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 8
)

// UserAccounts is the user store surface the auth handlers need.
type UserAccounts interface {
	Create(username, password string, isAdmin bool) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
}

// Auth serves account registration and login. It exists to mint the user
// ids the generation flows attribute records to; everything else about
// identity stays out of the core.
type Auth struct {
	users  UserAccounts
	secret string
}

// NewAuth creates the auth handlers.
func NewAuth(users UserAccounts, secret string) *Auth {
	return &Auth{users: users, secret: secret}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Register handles POST /api/auth/register.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if msg := validateCredentials(req.Username, req.Password); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if _, err := h.users.FindByUsername(req.Username); err == nil {
		writeError(w, http.StatusConflict, "Username is already taken")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeMappedError(w, err, "")
		return
	}

	user, err := h.users.Create(req.Username, req.Password, false)
	if err != nil {
		writeMappedError(w, err, "")
		return
	}

	h.respondWithToken(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.FindByUsername(strings.TrimSpace(req.Username))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err != nil {
		writeMappedError(w, err, "")
		return
	}

	if !h.users.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	h.respondWithToken(w, http.StatusOK, user)
}

func (h *Auth) respondWithToken(w http.ResponseWriter, status int, user *models.User) {
	token, exp, err := auth.NewToken(h.secret, user.ID, user.IsAdmin, auth.DefaultTTL)
	if err != nil {
		writeMappedError(w, err, "")
		return
	}
	writeJSON(w, status, authResponse{User: user, Token: token, ExpiresAt: exp})
}

func validateCredentials(username, password string) string {
	if username == "" {
		return "Username is required."
	}
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return "Username must be between 3 and 50 characters."
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Password must be at least 8 characters."
	}
	return ""
}
