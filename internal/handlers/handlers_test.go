// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handlers_test.go provides shared fakes and helpers for handler tests.
// Handlers are exercised through a chi router so URL parameters resolve
// the same way they do in production.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"babymorph/internal/ai"
	"babymorph/internal/generation"
	"babymorph/internal/models"
	"babymorph/internal/store"
)

// ---------- Fakes ----------

// fakeCatalog implements ThemeCatalog over an in-memory slice.
type fakeCatalog struct {
	themes  []models.Theme
	listErr error
	created []*models.Theme
	updated map[int64]*models.ThemePatch
	deleted []int64
}

func (f *fakeCatalog) List(category string) ([]models.Theme, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if category == "" {
		return f.themes, nil
	}
	var out []models.Theme
	for _, th := range f.themes {
		if string(th.Category) == category {
			out = append(out, th)
		}
	}
	return out, nil
}

func (f *fakeCatalog) FindByID(id int64) (*models.Theme, error) {
	for i := range f.themes {
		if f.themes[i].ID == id {
			return &f.themes[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeCatalog) Create(t *models.Theme) (*models.Theme, error) {
	cp := *t
	cp.ID = int64(len(f.themes) + len(f.created) + 1)
	f.created = append(f.created, &cp)
	return &cp, nil
}

func (f *fakeCatalog) Update(id int64, p *models.ThemePatch) (*models.Theme, error) {
	th, err := f.FindByID(id)
	if err != nil {
		return nil, err
	}
	if f.updated == nil {
		f.updated = map[int64]*models.ThemePatch{}
	}
	f.updated[id] = p
	cp := *th
	if p.Name != nil {
		cp.Name = *p.Name
	}
	if p.IsActive != nil {
		cp.IsActive = *p.IsActive
	}
	return &cp, nil
}

func (f *fakeCatalog) Delete(id int64) error {
	if _, err := f.FindByID(id); err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeGenService implements GenerationService with canned results.
type fakeGenService struct {
	img        *models.GeneratedImage
	imgErr     error
	bt         *models.BabyTransform
	btElapsed  int
	btErr      error
	gotThemeID int64
	gotUserID  *int64
	gotUpload  *generation.Upload
	calls      int
}

func (f *fakeGenService) GenerateFromTheme(_ context.Context, themeID int64, userID *int64) (*models.GeneratedImage, error) {
	f.calls++
	f.gotThemeID = themeID
	f.gotUserID = userID
	if f.imgErr != nil {
		return nil, f.imgErr
	}
	return f.img, nil
}

func (f *fakeGenService) TransformPhoto(_ context.Context, photo *generation.Upload, userID *int64) (*models.BabyTransform, int, error) {
	f.calls++
	f.gotUpload = photo
	f.gotUserID = userID
	if f.btErr != nil {
		return nil, 0, f.btErr
	}
	return f.bt, f.btElapsed, nil
}

// fakeImageReader implements ImageReader.
type fakeImageReader struct {
	recent []models.GeneratedImage
	byUser map[int64][]models.GeneratedImage
	limit  int
}

func (f *fakeImageReader) ListRecent(limit int) ([]models.GeneratedImage, error) {
	f.limit = limit
	if limit < len(f.recent) {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeImageReader) ListByUser(userID int64) ([]models.GeneratedImage, error) {
	return f.byUser[userID], nil
}

// fakeTransformReader implements TransformReader.
type fakeTransformReader struct {
	byUser map[int64][]models.BabyTransform
}

func (f *fakeTransformReader) ListByUser(userID int64) ([]models.BabyTransform, error) {
	return f.byUser[userID], nil
}

// fakeUsers implements UserAccounts over a map keyed by username.
type fakeUsers struct {
	users  map[string]*models.User
	nextID int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*models.User{}}
}

func (f *fakeUsers) Create(username, password string, isAdmin bool) (*models.User, error) {
	f.nextID++
	u := &models.User{ID: f.nextID, Username: username, PasswordHash: "hash:" + password, IsAdmin: isAdmin}
	f.users[username] = u
	return u, nil
}

func (f *fakeUsers) FindByUsername(username string) (*models.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) CheckPassword(user *models.User, password string) bool {
	return user.PasswordHash == "hash:"+password
}

// stubProvider implements ai.Provider for the health handler.
type stubProvider struct {
	pingErr error
}

func (s *stubProvider) Name() string { return "stub" }
func (s *stubProvider) GenerateImage(context.Context, string) (*ai.ImageResult, error) {
	return &ai.ImageResult{URL: "https://cdn.example.com/x.png"}, nil
}
func (s *stubProvider) GenerateText(context.Context, string, string) (string, error) {
	return "", nil
}
func (s *stubProvider) Ping(context.Context) error { return s.pingErr }

// ---------- Helpers ----------

// serve routes the request through a chi router built by mount and
// returns the recorded response.
func serve(t *testing.T, mount func(r chi.Router), req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	mount(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals the response body into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	raw, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode response %q: %v", raw, err)
	}
}

// errorMessage extracts the "error" field from an error response.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, rec, &body)
	return body["error"]
}

func int64Ptr(v int64) *int64 { return &v }
