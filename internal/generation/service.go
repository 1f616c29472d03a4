// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package generation implements the theme-driven generation and baby
// transform flows: validate input, call the external provider once, persist
// the outcome. No retries, no caching; a provider failure surfaces
// immediately and leaves no trace in the stores.
package generation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"babymorph/internal/ai"
	"babymorph/internal/models"
	"babymorph/internal/storage"
)

const (
	// MaxPromptChars is the provider's prompt length ceiling.
	MaxPromptChars = 4000

	// MaxUploadBytes is the photo upload size limit (10 MiB).
	MaxUploadBytes = 10 << 20

	// defaultInstruction is the fixed fallback used when the
	// prompt-enhancement sub-call fails.
	defaultInstruction = "Transform this person into a cute baby version while maintaining their key facial features and characteristics"

	// instructionSystemPrompt drives the prompt-enhancement sub-call.
	instructionSystemPrompt = "You are an expert at creating image generation prompts. " +
		"Create a detailed prompt to transform a person into a baby version while " +
		"maintaining their key features and characteristics. Focus on making the " +
		"face more round, eyes bigger, features softer, but keep the essence of " +
		"the original person."
)

// allowedPhotoTypes are the MIME types accepted for uploaded photos.
var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ThemeStore is the theme lookup surface the service needs.
type ThemeStore interface {
	FindByID(id int64) (*models.Theme, error)
	IncrementUsage(id int64) error
}

// ImageStore persists generated image records.
type ImageStore interface {
	Create(img *models.GeneratedImage) (*models.GeneratedImage, error)
}

// TransformStore persists baby transform records.
type TransformStore interface {
	Create(bt *models.BabyTransform) (*models.BabyTransform, error)
}

// Upload is a photo received by the HTTP layer: a temp file on disk plus
// its sniffed content type. The caller owns the temp file's lifetime.
type Upload struct {
	Path        string
	ContentType string
	Size        int64
}

// Service is the generation request handler. The provider is an injected
// dependency so tests substitute a mock.
type Service struct {
	themes     ThemeStore
	images     ImageStore
	transforms TransformStore
	provider   ai.Provider
	blobs      storage.Blob // nil when durable blob storage is unavailable
	httpClient *http.Client // fetches provider-hosted results for mirroring
}

// NewService wires the generation service.
func NewService(themes ThemeStore, images ImageStore, transforms TransformStore, provider ai.Provider, blobs storage.Blob) *Service {
	return &Service{
		themes:     themes,
		images:     images,
		transforms: transforms,
		provider:   provider,
		blobs:      blobs,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// GenerateFromTheme generates one image from a theme's stored prompt.
// On success the record is persisted and the theme's usage count bumped;
// on failure nothing is written.
func (s *Service) GenerateFromTheme(ctx context.Context, themeID int64, userID *int64) (*models.GeneratedImage, error) {
	theme, err := s.themes.FindByID(themeID)
	if err != nil {
		return nil, err
	}

	prompt := strings.TrimSpace(theme.Prompt)
	if prompt == "" {
		return nil, validationf("theme %d has an empty prompt", themeID)
	}
	if len(prompt) > MaxPromptChars {
		return nil, validationf("prompt is too long (max %d characters)", MaxPromptChars)
	}

	start := time.Now()
	result, err := s.provider.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, err
	}
	elapsed := int(time.Since(start).Seconds())

	img := &models.GeneratedImage{
		ThemeID:        &themeID,
		UserID:         userID,
		ImageURL:       s.mirror(ctx, result.URL, "generated"),
		OriginalPrompt: prompt,
		GenerationTime: elapsed,
	}
	img, err = s.images.Create(img)
	if err != nil {
		return nil, &StorageError{Op: "generated image", Err: err}
	}

	// The record is already persisted and returned to the user; a failed
	// usage bump is logged, not surfaced.
	if err := s.themes.IncrementUsage(themeID); err != nil {
		slog.Warn("theme usage increment failed", "theme_id", themeID, "error", err)
	}

	return img, nil
}

// TransformPhoto runs the baby transform flow for an uploaded photo and
// returns the record plus the image call's elapsed seconds.
func (s *Service) TransformPhoto(ctx context.Context, photo *Upload, userID *int64) (*models.BabyTransform, int, error) {
	if err := ValidatePhoto(photo.Size, photo.ContentType); err != nil {
		return nil, 0, err
	}

	instruction := s.transformInstruction(ctx)

	start := time.Now()
	result, err := s.provider.GenerateImage(ctx, instruction)
	if err != nil {
		return nil, 0, err
	}
	elapsed := int(time.Since(start).Seconds())

	originalURL, err := s.storeOriginal(ctx, photo)
	if err != nil {
		return nil, 0, &StorageError{Op: "original photo", Err: err}
	}

	bt := &models.BabyTransform{
		UserID:              userID,
		OriginalImageURL:    originalURL,
		TransformedImageURL: s.mirror(ctx, result.URL, "transformed"),
	}
	bt, err = s.transforms.Create(bt)
	if err != nil {
		return nil, 0, &StorageError{Op: "baby transform", Err: err}
	}

	return bt, elapsed, nil
}

// ValidatePhoto enforces the upload contract: non-empty, at most 10 MiB,
// MIME type jpeg, png, or webp.
func ValidatePhoto(size int64, contentType string) error {
	if size == 0 {
		return validationf("uploaded photo is empty")
	}
	if size > MaxUploadBytes {
		return validationf("photo is too large (max %d MiB)", MaxUploadBytes>>20)
	}
	if _, ok := allowedPhotoTypes[contentType]; !ok {
		return validationf("unsupported photo type %q (jpeg, png, or webp)", contentType)
	}
	return nil
}

// transformInstruction asks the provider's text model for a transformation
// prompt. Any failure, an empty answer, or an over-long answer degrades to
// the fixed default instruction; this sub-call never fails the operation.
func (s *Service) transformInstruction(ctx context.Context) string {
	text, err := s.provider.GenerateText(ctx, instructionSystemPrompt,
		"Create a baby transformation prompt for: "+defaultInstruction)
	if err != nil {
		slog.Warn("transform prompt generation failed, using default", "error", err)
		return defaultInstruction
	}

	text = strings.TrimSpace(text)
	if text == "" || len(text) > MaxPromptChars {
		slog.Warn("transform prompt unusable, using default", "length", len(text))
		return defaultInstruction
	}
	return text
}

// storeOriginal persists the uploaded photo to blob storage and returns its
// stable URL. A thumbnail is stored next to it on a best-effort basis.
func (s *Service) storeOriginal(ctx context.Context, photo *Upload) (string, error) {
	if s.blobs == nil {
		return "", fmt.Errorf("no blob storage configured")
	}

	f, err := os.Open(photo.Path)
	if err != nil {
		return "", fmt.Errorf("open uploaded photo: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read uploaded photo: %w", err)
	}

	now := time.Now()
	fileID := uuid.New().String()
	ext := allowedPhotoTypes[photo.ContentType]
	key := fmt.Sprintf("originals/%d/%02d/%s%s", now.Year(), now.Month(), fileID, ext)

	url, err := s.blobs.Put(ctx, key, photo.ContentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	if thumb, err := generateThumbnail(bytes.NewReader(data), thumbMaxWidth); err != nil {
		slog.Warn("thumbnail generation failed", "key", key, "error", err)
	} else if thumb != nil {
		tk := fmt.Sprintf("originals/%d/%02d/%s_thumb.jpg", now.Year(), now.Month(), fileID)
		if _, err := s.blobs.Put(ctx, tk, "image/jpeg", bytes.NewReader(thumb), int64(len(thumb))); err != nil {
			slog.Warn("thumbnail upload failed", "key", tk, "error", err)
		}
	}

	return url, nil
}

// mirror downloads a provider-hosted image and re-uploads it to blob
// storage so records reference a stable URL instead of the provider's
// short-lived one. Best-effort: on any failure the provider URL is kept.
func (s *Service) mirror(ctx context.Context, srcURL, prefix string) string {
	if s.blobs == nil {
		return srcURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		slog.Warn("mirror request build failed", "url", srcURL, "error", err)
		return srcURL
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		slog.Warn("mirror download failed", "url", srcURL, "error", err)
		return srcURL
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("mirror download failed", "url", srcURL, "status", resp.StatusCode)
		return srcURL
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 50<<20))
	if err != nil {
		slog.Warn("mirror read failed", "url", srcURL, "error", err)
		return srcURL
	}

	contentType := resp.Header.Get("Content-Type")
	ext := extensionFromType(contentType)
	if ext == "" {
		contentType = "image/png"
		ext = ".png"
	}

	now := time.Now()
	key := fmt.Sprintf("%s/%d/%02d/%s%s", prefix, now.Year(), now.Month(), uuid.New().String(), ext)
	url, err := s.blobs.Put(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		slog.Warn("mirror upload failed", "key", key, "error", err)
		return srcURL
	}

	return url
}

// extensionFromType maps an image content type to a file extension.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	return ""
}

// SniffContentType detects an upload's MIME type from its leading bytes,
// never trusting the client-supplied header or file extension.
func SniffContentType(r io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := r.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("sniff content type: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind after sniff: %w", err)
	}
	return http.DetectContentType(buf[:n]), nil
}
