package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/wperaltaarriaga/songs-api/internal/core/domain"
	"github.com/wperaltaarriaga/songs-api/internal/core/service"
)

// ---------------------------------------------------------------------------
// In-memory repositories
// ---------------------------------------------------------------------------

type memUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func (r *memUserRepo) FindAll(context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	clone := *user
	clone.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	r.users[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(r.users, id)
	return u, nil
}

type memSongRepo struct {
	songs  map[string]*domain.Song
	nextID int
}

func (r *memSongRepo) FindAll(context.Context) ([]*domain.Song, error) {
	out := make([]*domain.Song, 0, len(r.songs))
	for _, s := range r.songs {
		clone := *s
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memSongRepo) FindByID(_ context.Context, id string) (*domain.Song, error) {
	s, ok := r.songs[id]
	if !ok {
		return nil, domain.ErrSongNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *memSongRepo) Insert(_ context.Context, song *domain.Song) (*domain.Song, error) {
	r.nextID++
	clone := *song
	clone.ID = fmt.Sprintf("s%d", r.nextID)
	r.songs[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *memSongRepo) Update(_ context.Context, song *domain.Song) (*domain.Song, error) {
	if _, ok := r.songs[song.ID]; !ok {
		return nil, domain.ErrSongNotFound
	}
	clone := *song
	r.songs[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *memSongRepo) Delete(_ context.Context, id string) (*domain.Song, error) {
	s, ok := r.songs[id]
	if !ok {
		return nil, domain.ErrSongNotFound
	}
	delete(r.songs, id)
	return s, nil
}

func (r *memSongRepo) CountByAuthor(context.Context) ([]*domain.AuthorReport, error) {
	byAuthor := make(map[string]*domain.AuthorReport)
	for _, s := range r.songs {
		row, ok := byAuthor[s.Author]
		if !ok {
			row = &domain.AuthorReport{Author: s.Author}
			byAuthor[s.Author] = row
		}
		row.Count++
		row.Titles = append(row.Titles, s.Title)
	}
	out := make([]*domain.AuthorReport, 0, len(byAuthor))
	for _, row := range byAuthor {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

// ---------------------------------------------------------------------------
// Harness
// ---------------------------------------------------------------------------

func newTestRouter() *echo.Echo {
	return NewRouter(Deps{
		UserRepo: &memUserRepo{users: make(map[string]*domain.User)},
		SongRepo: &memSongRepo{songs: make(map[string]*domain.Song)},
		Tokens:   service.NewTokenService("test-secret", time.Hour),
		Logger:   zerolog.Nop(),
	})
}

func do(e *echo.Echo, method, path, token string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

type userEnvelope struct {
	User domain.User `json:"user"`
}

type loginEnvelope struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type songEnvelope struct {
	Song domain.Song `json:"song"`
}

func signup(t *testing.T, e *echo.Echo, name, email, role string) domain.User {
	t.Helper()
	rec := do(e, http.MethodPost, "/api/users/create", "", map[string]any{
		"name": name, "email": email, "password": "s3cret", "age": 30, "role": role,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup %s: %d %s", email, rec.Code, rec.Body.String())
	}
	return decode[userEnvelope](t, rec).User
}

func login(t *testing.T, e *echo.Echo, email string) string {
	t.Helper()
	rec := do(e, http.MethodPost, "/api/users/login", "", map[string]any{
		"email": email, "password": "s3cret",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, rec.Code, rec.Body.String())
	}
	return decode[loginEnvelope](t, rec).Token
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func TestRouter_SignupAndLogin(t *testing.T) {
	e := newTestRouter()

	user := signup(t, e, "Alice", "alice@example.com", "")
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role, got %q", user.Role)
	}

	rec := do(e, http.MethodPost, "/api/users/create", "", map[string]any{
		"name": "Alice", "email": "alice@example.com", "password": "s3cret", "age": 30,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate email: expected 409, got %d %s", rec.Code, rec.Body.String())
	}

	token := login(t, e, "alice@example.com")
	if token == "" {
		t.Fatalf("expected token")
	}

	rec = do(e, http.MethodPost, "/api/users/login", "", map[string]any{
		"email": "alice@example.com", "password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", rec.Code)
	}
}

func TestRouter_Signup_ValidationEnvelope(t *testing.T) {
	e := newTestRouter()

	rec := do(e, http.MethodPost, "/api/users/create", "", map[string]any{
		"name": "Kid", "email": "kid@yahoo.com", "password": "s3cret", "age": 10,
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Error  string `json:"error"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Fields) != 2 {
		t.Fatalf("expected email and age field errors, got %+v", envelope.Fields)
	}
}

func TestRouter_ListNeverLeaksPasswords(t *testing.T) {
	e := newTestRouter()
	signup(t, e, "Alice", "alice@example.com", "")
	token := login(t, e, "alice@example.com")

	rec := do(e, http.MethodGet, "/api/users/all", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(strings.ToLower(rec.Body.String()), "password") {
		t.Fatalf("user list leaks password data: %s", rec.Body.String())
	}
}

func TestRouter_AuthAsymmetry(t *testing.T) {
	e := newTestRouter()

	// No token at all: 401.
	rec := do(e, http.MethodGet, "/api/songs/all", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", rec.Code)
	}

	// Token present but invalid: 403.
	rec = do(e, http.MethodGet, "/api/songs/all", "garbage", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("invalid token: expected 403, got %d", rec.Code)
	}
}

func TestRouter_UserUpdate_Ownership(t *testing.T) {
	e := newTestRouter()
	alice := signup(t, e, "Alice", "alice@example.com", "")
	bob := signup(t, e, "Bob", "bob@example.com", "")
	signup(t, e, "Root", "root@example.com", domain.RoleAdmin)

	aliceToken := login(t, e, "alice@example.com")
	adminToken := login(t, e, "root@example.com")

	// Self-update works and empty fields keep their values.
	rec := do(e, http.MethodPatch, "/api/users/update", aliceToken, map[string]any{
		"id": alice.ID, "name": "Alicia",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("self update: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	updated := decode[userEnvelope](t, rec).User
	if updated.Name != "Alicia" || updated.Email != "alice@example.com" {
		t.Fatalf("merge wrong: %+v", updated)
	}

	// Updating someone else is denied.
	rec = do(e, http.MethodPatch, "/api/users/update", aliceToken, map[string]any{
		"id": bob.ID, "name": "Hacked",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cross-user update: expected 403, got %d", rec.Code)
	}

	// Non-admins may not change their own role.
	rec = do(e, http.MethodPatch, "/api/users/update", aliceToken, map[string]any{
		"id": alice.ID, "role": domain.RoleAdmin,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("self role escalation: expected 403, got %d", rec.Code)
	}

	// Admins may update anyone, including roles.
	rec = do(e, http.MethodPatch, "/api/users/update", adminToken, map[string]any{
		"id": bob.ID, "role": domain.RoleAdmin,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin update: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_StatusRoute_AdminOnly(t *testing.T) {
	e := newTestRouter()
	alice := signup(t, e, "Alice", "alice@example.com", "")
	signup(t, e, "Root", "root@example.com", domain.RoleAdmin)

	aliceToken := login(t, e, "alice@example.com")
	adminToken := login(t, e, "root@example.com")

	rec := do(e, http.MethodPatch, "/api/users/status/"+alice.ID, aliceToken, map[string]any{"is_active": false})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin status change: expected 403, got %d", rec.Code)
	}

	rec = do(e, http.MethodPatch, "/api/users/status/"+alice.ID, adminToken, map[string]any{"is_active": false})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin status change: expected 200, got %d %s", rec.Code, rec.Body.String())
	}

	// The deactivated account can no longer log in.
	rec = do(e, http.MethodPost, "/api/users/login", "", map[string]any{
		"email": "alice@example.com", "password": "s3cret",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("inactive login: expected 401, got %d", rec.Code)
	}
}

func TestRouter_UserDelete(t *testing.T) {
	e := newTestRouter()
	alice := signup(t, e, "Alice", "alice@example.com", "")
	bob := signup(t, e, "Bob", "bob@example.com", "")
	signup(t, e, "Root", "root@example.com", domain.RoleAdmin)

	aliceToken := login(t, e, "alice@example.com")
	adminToken := login(t, e, "root@example.com")

	rec := do(e, http.MethodDelete, "/api/users/delete/"+bob.ID, aliceToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cross-user delete: expected 403, got %d", rec.Code)
	}

	rec = do(e, http.MethodDelete, "/api/users/delete/"+bob.ID, adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin delete: expected 200, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodDelete, "/api/users/delete/"+bob.ID, adminToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete of missing user: expected 404, got %d", rec.Code)
	}

	rec = do(e, http.MethodDelete, "/api/users/delete/"+alice.ID, aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("self delete: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
}

// ---------------------------------------------------------------------------
// Songs
// ---------------------------------------------------------------------------

func createSong(t *testing.T, e *echo.Echo, token, title string) domain.Song {
	t.Helper()
	rec := do(e, http.MethodPost, "/api/songs/create", token, map[string]any{
		"title": title, "author": "Charly Garcia", "release_year": 1982, "genre": "rock",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create song: %d %s", rec.Code, rec.Body.String())
	}
	return decode[songEnvelope](t, rec).Song
}

func TestRouter_SongLifecycle(t *testing.T) {
	e := newTestRouter()
	alice := signup(t, e, "Alice", "alice@example.com", "")
	signup(t, e, "Bob", "bob@example.com", "")
	signup(t, e, "Root", "root@example.com", domain.RoleAdmin)

	aliceToken := login(t, e, "alice@example.com")
	bobToken := login(t, e, "bob@example.com")
	adminToken := login(t, e, "root@example.com")

	song := createSong(t, e, aliceToken, "Demoliendo Hoteles")
	if song.CreatedBy != alice.ID {
		t.Fatalf("owner must come from the token, got %q", song.CreatedBy)
	}

	// Another user may read it.
	rec := do(e, http.MethodGet, "/api/songs/song/"+song.ID, bobToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("read: expected 200, got %d", rec.Code)
	}

	// But not modify it, not even an admin: update is owner-only.
	rec = do(e, http.MethodPatch, "/api/songs/update", bobToken, map[string]any{
		"id": song.ID, "title": "Hacked",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cross-user song update: expected 403, got %d", rec.Code)
	}
	rec = do(e, http.MethodPatch, "/api/songs/update", adminToken, map[string]any{
		"id": song.ID, "title": "Hacked",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("admin song update: expected 403, got %d", rec.Code)
	}

	// The owner's patch merges over the stored song.
	rec = do(e, http.MethodPatch, "/api/songs/update", aliceToken, map[string]any{
		"id": song.ID, "genre": "new wave",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("owner update: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	updated := decode[songEnvelope](t, rec).Song
	if updated.Genre != "new wave" || updated.Title != "Demoliendo Hoteles" {
		t.Fatalf("merge wrong: %+v", updated)
	}

	// Delete allows the admin bypass.
	rec = do(e, http.MethodDelete, "/api/songs/delete/"+song.ID, bobToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cross-user delete: expected 403, got %d", rec.Code)
	}
	rec = do(e, http.MethodDelete, "/api/songs/delete/"+song.ID, adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin delete: expected 200, got %d %s", rec.Code, rec.Body.String())
	}

	// Operating on the deleted song reports 404, not 403.
	rec = do(e, http.MethodPatch, "/api/songs/update", aliceToken, map[string]any{
		"id": song.ID, "title": "Gone",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update of missing song: expected 404, got %d", rec.Code)
	}
}

func TestRouter_SongsByAuthorReport(t *testing.T) {
	e := newTestRouter()
	signup(t, e, "Alice", "alice@example.com", "")
	token := login(t, e, "alice@example.com")

	createSong(t, e, token, "Song A")
	createSong(t, e, token, "Song B")

	rec := do(e, http.MethodGet, "/api/songs/report/songs-by-author", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("report: expected 200, got %d %s", rec.Code, rec.Body.String())
	}

	var report struct {
		Authors []domain.AuthorReport `json:"authors"`
		Total   int                   `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Total != 1 || len(report.Authors) != 1 || report.Authors[0].Count != 2 || len(report.Authors[0].Titles) != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

// ---------------------------------------------------------------------------
// Reports, export, misc
// ---------------------------------------------------------------------------

func TestRouter_Indicators(t *testing.T) {
	e := newTestRouter()
	signup(t, e, "Alice", "alice@example.com", "")
	signup(t, e, "Root", "root@example.com", domain.RoleAdmin)
	token := login(t, e, "alice@example.com")

	rec := do(e, http.MethodGet, "/api/users/indicators/users", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("indicators: expected 200, got %d %s", rec.Code, rec.Body.String())
	}

	report := decode[domain.UserIndicators](t, rec)
	if report.TotalUsers != 2 {
		t.Fatalf("expected 2 users, got %d", report.TotalUsers)
	}
	if report.RoleDistribution[domain.RoleAdmin] != 1 || report.RoleDistribution[domain.RoleUser] != 1 {
		t.Fatalf("unexpected distribution: %v", report.RoleDistribution)
	}
}

func TestRouter_ExportUsersPDF(t *testing.T) {
	e := newTestRouter()
	signup(t, e, "Alice", "alice@example.com", "")
	token := login(t, e, "alice@example.com")

	rec := do(e, http.MethodGet, "/api/users/export/users", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("response is not a PDF document")
	}
}

func TestRouter_Health(t *testing.T) {
	e := newTestRouter()

	rec := do(e, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", rec.Code)
	}

	// Readiness reports degraded when no backing stores are configured.
	rec = do(e, http.MethodGet, "/health/ready", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readiness without stores: expected 503, got %d", rec.Code)
	}
}

func TestRouter_MetricsExposeDomainCounters(t *testing.T) {
	e := NewRouter(Deps{
		UserRepo: &memUserRepo{users: make(map[string]*domain.User)},
		SongRepo: &memSongRepo{songs: make(map[string]*domain.Song)},
		Tokens:   service.NewTokenService("test-secret", time.Hour),
		Registry: prometheus.NewRegistry(),
		Logger:   zerolog.Nop(),
	})

	signup(t, e, "Alice", "alice@example.com", "")
	login(t, e, "alice@example.com")

	// The domain counters must come out of the same registry /metrics serves.
	rec := do(e, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `songsapi_users_created_total{role="user"}`) {
		t.Fatalf("users_created_total missing from scrape:\n%s", body)
	}
	if !strings.Contains(body, `songsapi_logins_total{result="ok"}`) {
		t.Fatalf("logins_total missing from scrape")
	}
}

func TestRouter_UnmatchedRoute(t *testing.T) {
	e := newTestRouter()

	rec := do(e, http.MethodGet, "/api/unknown/thing", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/api/unknown/thing") {
		t.Fatalf("404 body must name the path, got %q", rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected plain-text 404, got %q", ct)
	}
}
