// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai provides the client for the external image- and
// text-generation provider. The backend speaks the OpenAI-compatible API
// (OpenRouter by default), and the Provider interface abstracts it so the
// generation service can be tested against a mock.
package ai

import "context"

// Provider is the external generation service consumed by the generation
// request handler. One call, one synchronous request/response; no retries.
type Provider interface {
	// Name returns the provider identifier (e.g., "openrouter").
	Name() string

	// GenerateImage creates one image from a text prompt and returns the
	// provider-hosted URL. Failures are *GenerationError values carrying
	// a cause category.
	GenerateImage(ctx context.Context, prompt string) (*ImageResult, error)

	// GenerateText sends a chat completion request and returns the
	// assistant's text. Used for the best-effort prompt enhancement
	// sub-call; callers degrade to a fixed fallback on error.
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Ping checks connectivity with a cheap request (model listing).
	Ping(ctx context.Context) error
}

// ImageResult is the outcome of one successful image generation.
type ImageResult struct {
	URL string // provider-hosted image URL, typically short-lived
}

// ProviderConfig holds the credentials and settings for the provider.
type ProviderConfig struct {
	APIKey     string
	BaseURL    string
	ImageModel string
	TextModel  string
	Referer    string // HTTP-Referer header required by OpenRouter
	Title      string // X-Title header shown in OpenRouter dashboards
}
