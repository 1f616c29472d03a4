// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"fmt"
	"strings"
)

// Category classifies a provider failure for the caller.
type Category string

const (
	CategoryUnauthorized        Category = "unauthorized"
	CategoryRateLimited         Category = "rate-limited"
	CategoryPolicyViolation     Category = "policy-violation"
	CategoryUpstreamUnavailable Category = "upstream-unavailable"
	CategoryUnknown             Category = "unknown"
)

// GenerationError is returned when the external provider rejects or fails
// a request. Category is the human-readable cause bucket; Status is the
// upstream HTTP status when one was received (0 for transport errors).
type GenerationError struct {
	Category Category
	Status   int
	Message  string
}

func (e *GenerationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("ai: %s (status %d): %s", e.Category, e.Status, e.Message)
	}
	return fmt.Sprintf("ai: %s: %s", e.Category, e.Message)
}

// classifyStatus maps an upstream HTTP response to a GenerationError.
func classifyStatus(status int, body []byte) *GenerationError {
	msg := strings.TrimSpace(string(body))
	if len(msg) > 500 {
		msg = msg[:500]
	}

	var cat Category
	switch {
	case status == 401 || status == 403:
		cat = CategoryUnauthorized
	case status == 429:
		cat = CategoryRateLimited
	case status == 400 && looksLikePolicyRejection(msg):
		cat = CategoryPolicyViolation
	case status >= 500:
		cat = CategoryUpstreamUnavailable
	default:
		cat = CategoryUnknown
	}

	return &GenerationError{Category: cat, Status: status, Message: msg}
}

// looksLikePolicyRejection checks an error body for the markers the
// OpenAI-compatible APIs use for content-policy refusals.
func looksLikePolicyRejection(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "content_policy") ||
		strings.Contains(lower, "content policy") ||
		strings.Contains(lower, "safety system")
}

// transportError wraps a network-level failure (no HTTP response).
func transportError(err error) *GenerationError {
	return &GenerationError{
		Category: CategoryUpstreamUnavailable,
		Message:  err.Error(),
	}
}
