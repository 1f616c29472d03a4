// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"babymorph/internal/ai"
	"babymorph/internal/models"
	"babymorph/internal/store"
)

// ---------- Fakes ----------

// fakeThemes serves themes from a map and counts usage increments.
type fakeThemes struct {
	mu         sync.Mutex
	themes     map[int64]*models.Theme
	increments map[int64]int
}

func newFakeThemes(themes ...*models.Theme) *fakeThemes {
	f := &fakeThemes{themes: map[int64]*models.Theme{}, increments: map[int64]int{}}
	for _, th := range themes {
		f.themes[th.ID] = th
	}
	return f
}

func (f *fakeThemes) FindByID(id int64) (*models.Theme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	th, ok := f.themes[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *th
	return &cp, nil
}

func (f *fakeThemes) IncrementUsage(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.increments[id]++
	return nil
}

func (f *fakeThemes) incrementsFor(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.increments[id]
}

// fakeImages records created images and can simulate write failures.
type fakeImages struct {
	mu      sync.Mutex
	created []*models.GeneratedImage
	err     error
}

func (f *fakeImages) Create(img *models.GeneratedImage) (*models.GeneratedImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	cp := *img
	cp.ID = int64(len(f.created) + 1)
	f.created = append(f.created, &cp)
	return &cp, nil
}

func (f *fakeImages) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

// fakeTransforms records created baby transforms.
type fakeTransforms struct {
	mu      sync.Mutex
	created []*models.BabyTransform
	err     error
}

func (f *fakeTransforms) Create(bt *models.BabyTransform) (*models.BabyTransform, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	cp := *bt
	cp.ID = int64(len(f.created) + 1)
	f.created = append(f.created, &cp)
	return &cp, nil
}

// mockProvider implements ai.Provider with canned responses and call counts.
type mockProvider struct {
	imageURL   string
	imageErr   error
	text       string
	textErr    error
	imageCalls atomic.Int64
	lastPrompt atomic.Value
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) GenerateImage(_ context.Context, prompt string) (*ai.ImageResult, error) {
	m.imageCalls.Add(1)
	m.lastPrompt.Store(prompt)
	if m.imageErr != nil {
		return nil, m.imageErr
	}
	return &ai.ImageResult{URL: m.imageURL}, nil
}

func (m *mockProvider) GenerateText(_ context.Context, _, _ string) (string, error) {
	return m.text, m.textErr
}

func (m *mockProvider) Ping(_ context.Context) error { return nil }

func testTheme(id int64, prompt string) *models.Theme {
	return &models.Theme{
		ID:       id,
		Name:     "Test Theme",
		Category: models.CategoryGames,
		Prompt:   prompt,
		IsActive: true,
	}
}

// newTestService wires a service from fakes. Blob storage is nil, so
// generated URLs pass through unmirrored.
func newTestService(themes *fakeThemes, images *fakeImages, transforms *fakeTransforms, provider *mockProvider) *Service {
	return NewService(themes, images, transforms, provider, nil)
}

// ---------- GenerateFromTheme ----------

func TestGenerateFromTheme_Success(t *testing.T) {
	themes := newFakeThemes(testTheme(1, "pixel art knight"))
	images := &fakeImages{}
	provider := &mockProvider{imageURL: "https://cdn.example.com/a.png"}
	svc := newTestService(themes, images, &fakeTransforms{}, provider)

	userID := int64(7)
	img, err := svc.GenerateFromTheme(context.Background(), 1, &userID)
	if err != nil {
		t.Fatalf("GenerateFromTheme: unexpected error: %v", err)
	}

	if img.ImageURL != "https://cdn.example.com/a.png" {
		t.Errorf("ImageURL: got %q", img.ImageURL)
	}
	if img.OriginalPrompt != "pixel art knight" {
		t.Errorf("OriginalPrompt: got %q", img.OriginalPrompt)
	}
	if img.ThemeID == nil || *img.ThemeID != 1 {
		t.Errorf("ThemeID: got %v, want 1", img.ThemeID)
	}
	if img.UserID == nil || *img.UserID != 7 {
		t.Errorf("UserID: got %v, want 7", img.UserID)
	}
	if images.count() != 1 {
		t.Errorf("images created: got %d, want 1", images.count())
	}
	if got := themes.incrementsFor(1); got != 1 {
		t.Errorf("usage increments: got %d, want 1", got)
	}
}

func TestGenerateFromTheme_UnknownTheme(t *testing.T) {
	themes := newFakeThemes()
	images := &fakeImages{}
	provider := &mockProvider{imageURL: "https://cdn.example.com/a.png"}
	svc := newTestService(themes, images, &fakeTransforms{}, provider)

	_, err := svc.GenerateFromTheme(context.Background(), 9999, nil)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("error: got %v, want store.ErrNotFound", err)
	}

	// No side effects on failure.
	if provider.imageCalls.Load() != 0 {
		t.Errorf("provider calls: got %d, want 0", provider.imageCalls.Load())
	}
	if images.count() != 0 {
		t.Errorf("images created: got %d, want 0", images.count())
	}
}

func TestGenerateFromTheme_PromptTooLong(t *testing.T) {
	themes := newFakeThemes(testTheme(1, strings.Repeat("x", MaxPromptChars+1)))
	provider := &mockProvider{imageURL: "https://cdn.example.com/a.png"}
	svc := newTestService(themes, &fakeImages{}, &fakeTransforms{}, provider)

	_, err := svc.GenerateFromTheme(context.Background(), 1, nil)

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error: got %v, want *ValidationError", err)
	}
	if provider.imageCalls.Load() != 0 {
		t.Errorf("provider calls: got %d, want 0 — validation must precede the network call", provider.imageCalls.Load())
	}
}

func TestGenerateFromTheme_EmptyPrompt(t *testing.T) {
	themes := newFakeThemes(testTheme(1, "   "))
	provider := &mockProvider{imageURL: "https://cdn.example.com/a.png"}
	svc := newTestService(themes, &fakeImages{}, &fakeTransforms{}, provider)

	_, err := svc.GenerateFromTheme(context.Background(), 1, nil)

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error: got %v, want *ValidationError", err)
	}
}

func TestGenerateFromTheme_ProviderFailureLeavesNoTrace(t *testing.T) {
	themes := newFakeThemes(testTheme(1, "pixel art knight"))
	images := &fakeImages{}
	provider := &mockProvider{
		imageErr: &ai.GenerationError{Category: ai.CategoryRateLimited, Status: 429, Message: "slow down"},
	}
	svc := newTestService(themes, images, &fakeTransforms{}, provider)

	_, err := svc.GenerateFromTheme(context.Background(), 1, nil)

	var genErr *ai.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("error: got %v, want *ai.GenerationError", err)
	}
	if images.count() != 0 {
		t.Errorf("images created: got %d, want 0", images.count())
	}
	if got := themes.incrementsFor(1); got != 0 {
		t.Errorf("usage increments: got %d, want 0", got)
	}
}

func TestGenerateFromTheme_StoreFailure(t *testing.T) {
	themes := newFakeThemes(testTheme(1, "pixel art knight"))
	images := &fakeImages{err: errors.New("connection reset")}
	provider := &mockProvider{imageURL: "https://cdn.example.com/a.png"}
	svc := newTestService(themes, images, &fakeTransforms{}, provider)

	_, err := svc.GenerateFromTheme(context.Background(), 1, nil)

	var stErr *StorageError
	if !errors.As(err, &stErr) {
		t.Fatalf("error: got %v, want *StorageError", err)
	}
	if got := themes.incrementsFor(1); got != 0 {
		t.Errorf("usage increments after failed persist: got %d, want 0", got)
	}
}

func TestGenerateFromTheme_ConcurrentRequests(t *testing.T) {
	themes := newFakeThemes(testTheme(1, "pixel art knight"))
	images := &fakeImages{}
	provider := &mockProvider{imageURL: "https://cdn.example.com/a.png"}
	svc := newTestService(themes, images, &fakeTransforms{}, provider)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.GenerateFromTheme(context.Background(), 1, nil); err != nil {
				t.Errorf("GenerateFromTheme: %v", err)
			}
		}()
	}
	wg.Wait()

	if images.count() != 2 {
		t.Errorf("images created: got %d, want 2", images.count())
	}
	if got := themes.incrementsFor(1); got != 2 {
		t.Errorf("usage increments: got %d, want 2", got)
	}
}

// ---------- TransformPhoto ----------

// writeTempPhoto writes bytes to a temp file and returns an Upload for it.
func writeTempPhoto(t *testing.T, data []byte, contentType string) *Upload {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write temp photo: %v", err)
	}
	return &Upload{Path: path, ContentType: contentType, Size: int64(len(data))}
}

// noNetwork fails every outgoing request so the mirroring step degrades
// to keeping the provider URL instead of touching the network.
type noNetwork struct{}

func (noNetwork) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("network disabled in tests")
}

// memBlob stores Put calls in memory and returns deterministic URLs.
type memBlob struct {
	mu   sync.Mutex
	keys []string
}

func (m *memBlob) Put(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	io.Copy(io.Discard, body)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	return "https://blobs.example.com/" + key, nil
}

func TestTransformPhoto_Success(t *testing.T) {
	transforms := &fakeTransforms{}
	provider := &mockProvider{
		imageURL: "https://cdn.example.com/baby.png",
		text:     "Render the subject as an adorable baby",
	}
	svc := NewService(newFakeThemes(), &fakeImages{}, transforms, provider, &memBlob{})
	svc.httpClient = &http.Client{Transport: noNetwork{}}

	photo := writeTempPhoto(t, jpegHeaderBytes(), "image/jpeg")
	bt, elapsed, err := svc.TransformPhoto(context.Background(), photo, nil)
	if err != nil {
		t.Fatalf("TransformPhoto: unexpected error: %v", err)
	}

	if bt.OriginalImageURL == "" {
		t.Error("OriginalImageURL: empty, want stored upload URL")
	}
	if !strings.Contains(bt.OriginalImageURL, "originals/") {
		t.Errorf("OriginalImageURL: got %q, want originals/ key", bt.OriginalImageURL)
	}
	if bt.TransformedImageURL == "" {
		t.Error("TransformedImageURL: empty")
	}
	if elapsed < 0 {
		t.Errorf("elapsed: got %d", elapsed)
	}
	if got := provider.lastPrompt.Load(); got != "Render the subject as an adorable baby" {
		t.Errorf("image prompt: got %q, want the enhanced instruction", got)
	}
}

func TestTransformPhoto_FallsBackToDefaultInstruction(t *testing.T) {
	provider := &mockProvider{
		imageURL: "https://cdn.example.com/baby.png",
		textErr:  errors.New("text model down"),
	}
	svc := NewService(newFakeThemes(), &fakeImages{}, &fakeTransforms{}, provider, &memBlob{})
	svc.httpClient = &http.Client{Transport: noNetwork{}}

	photo := writeTempPhoto(t, jpegHeaderBytes(), "image/jpeg")
	if _, _, err := svc.TransformPhoto(context.Background(), photo, nil); err != nil {
		t.Fatalf("TransformPhoto: unexpected error: %v", err)
	}

	if got := provider.lastPrompt.Load(); got != defaultInstruction {
		t.Errorf("image prompt: got %q, want the default instruction", got)
	}
}

func TestTransformPhoto_RejectsBeforeProviderCall(t *testing.T) {
	tests := []struct {
		name        string
		size        int64
		contentType string
	}{
		{"empty upload", 0, "image/jpeg"},
		{"oversize upload", MaxUploadBytes + 1, "image/jpeg"},
		{"unsupported type", 1024, "application/pdf"},
		{"gif not allowed", 1024, "image/gif"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockProvider{imageURL: "https://cdn.example.com/baby.png"}
			svc := newTestService(newFakeThemes(), &fakeImages{}, &fakeTransforms{}, provider)

			photo := &Upload{Path: "/nonexistent", ContentType: tt.contentType, Size: tt.size}
			_, _, err := svc.TransformPhoto(context.Background(), photo, nil)

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error: got %v, want *ValidationError", err)
			}
			if provider.imageCalls.Load() != 0 {
				t.Errorf("provider calls: got %d, want 0", provider.imageCalls.Load())
			}
		})
	}
}

func TestTransformPhoto_ProviderFailure(t *testing.T) {
	transforms := &fakeTransforms{}
	provider := &mockProvider{
		imageErr: &ai.GenerationError{Category: ai.CategoryUpstreamUnavailable, Message: "down"},
		text:     "prompt",
	}
	blobs := &memBlob{}
	svc := NewService(newFakeThemes(), &fakeImages{}, transforms, provider, blobs)

	photo := writeTempPhoto(t, jpegHeaderBytes(), "image/jpeg")
	_, _, err := svc.TransformPhoto(context.Background(), photo, nil)

	var genErr *ai.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("error: got %v, want *ai.GenerationError", err)
	}
	if len(transforms.created) != 0 {
		t.Errorf("transforms created: got %d, want 0", len(transforms.created))
	}
	if len(blobs.keys) != 0 {
		t.Errorf("blobs written after provider failure: got %v, want none", blobs.keys)
	}
}

// ---------- ValidatePhoto / SniffContentType ----------

func TestValidatePhoto(t *testing.T) {
	if err := ValidatePhoto(1024, "image/png"); err != nil {
		t.Errorf("valid png: unexpected error: %v", err)
	}
	if err := ValidatePhoto(MaxUploadBytes, "image/webp"); err != nil {
		t.Errorf("exactly at limit: unexpected error: %v", err)
	}
	if err := ValidatePhoto(MaxUploadBytes+1, "image/jpeg"); err == nil {
		t.Error("over limit: expected error")
	}
	if err := ValidatePhoto(0, "image/jpeg"); err == nil {
		t.Error("empty: expected error")
	}
	if err := ValidatePhoto(1024, "text/html"); err == nil {
		t.Error("html: expected error")
	}
}

func TestSniffContentType(t *testing.T) {
	data := jpegHeaderBytes()
	r := strings.NewReader(string(data))

	ct, err := SniffContentType(r)
	if err != nil {
		t.Fatalf("SniffContentType: %v", err)
	}
	if ct != "image/jpeg" {
		t.Errorf("content type: got %q, want image/jpeg", ct)
	}

	// The reader must be rewound for the subsequent spool copy.
	rest, _ := io.ReadAll(r)
	if len(rest) != len(data) {
		t.Errorf("reader position: got %d bytes remaining, want %d", len(rest), len(data))
	}
}

// jpegHeaderBytes returns a minimal buffer that sniffs as image/jpeg.
func jpegHeaderBytes() []byte {
	return append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 64)...)
}
