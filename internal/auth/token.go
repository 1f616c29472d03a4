// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth issues and verifies the HS256 bearer tokens that attribute
// generations and transforms to a user and gate the admin theme endpoints.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = 24 * time.Hour

// Claims is the verified identity carried by a bearer token.
type Claims struct {
	UserID  int64
	IsAdmin bool
}

// NewToken signs an HS256 JWT for a user. The subject is the user id;
// the admin flag rides along as a custom claim.
func NewToken(secret string, userID int64, isAdmin bool, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	exp := time.Now().UTC().Add(ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   fmt.Sprintf("%d", userID),
		"admin": isAdmin,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	})

	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// ParseToken verifies a token's signature and expiry and extracts the
// claims. Only HS256 is accepted.
func ParseToken(secret, token string) (*Claims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, err := mc.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("token subject: %w", err)
	}
	var userID int64
	if _, err := fmt.Sscanf(sub, "%d", &userID); err != nil {
		return nil, fmt.Errorf("token subject %q is not a user id", sub)
	}

	isAdmin, _ := mc["admin"].(bool)
	return &Claims{UserID: userID, IsAdmin: isAdmin}, nil
}
