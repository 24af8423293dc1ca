package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cliptube/backend/internal/apperr"
	"github.com/cliptube/backend/internal/auth"
	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/repositories"
)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Success    *bool           `json:"success"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response envelope: %v", err)
	}
	return env
}

func authedRequest(method, target string, body io.Reader, userID string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if userID != "" {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	return req
}

// multipartBody builds a multipart form with the given fields and file parts.
func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	for name, contents := range files {
		part, err := writer.CreateFormFile(name, name+".bin")
		if err != nil {
			t.Fatalf("create file part %s: %v", name, err)
		}
		if _, err := part.Write([]byte(contents)); err != nil {
			t.Fatalf("write file part %s: %v", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return buf, writer.FormDataContentType()
}

type stubHasher struct{}

func (stubHasher) HashPassword(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

func registerFields() map[string]string {
	return map[string]string{
		"fullName": "Alice Anderson",
		"email":    "alice@example.com",
		"username": "alice",
		"password": "password123",
	}
}

func TestUserHandlerRegister(t *testing.T) {
	var created models.User
	users := &stubUserStore{
		CreateFunc: func(_ context.Context, user models.User) error {
			created = user
			return nil
		},
	}
	store := &stubMedia{}
	handler := UserHandler{Users: users, Hasher: stubHasher{}, Media: store}

	body, contentType := multipartBody(t, registerFields(), map[string]string{"avatar": "fake image bytes"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}

	if created.Password != "hashed:password123" {
		t.Fatalf("expected hashed password to be stored, got %q", created.Password)
	}
	if created.Avatar == "" {
		t.Fatal("expected the uploaded avatar URL on the stored user")
	}

	env := decodeEnvelope(t, rec)
	if env.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected envelope statusCode %d", env.StatusCode)
	}
	if strings.Contains(string(env.Data), "hashed:") {
		t.Fatal("password hash must not leak into the response")
	}
}

func TestUserHandlerRegisterRequiresAvatar(t *testing.T) {
	handler := UserHandler{Users: &stubUserStore{}, Hasher: stubHasher{}, Media: &stubMedia{}}

	body, contentType := multipartBody(t, registerFields(), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestUserHandlerRegisterConflict(t *testing.T) {
	users := &stubUserStore{
		FindByUsernameFunc: func(_ context.Context, username string) (models.User, error) {
			if username == "alice" {
				return models.User{ID: "existing"}, nil
			}
			return models.User{}, repositories.ErrNotFound
		},
	}
	handler := UserHandler{Users: users, Hasher: stubHasher{}, Media: &stubMedia{}}

	body, contentType := multipartBody(t, registerFields(), map[string]string{"avatar": "img"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	if env.Success == nil || *env.Success {
		t.Fatalf("expected success false in error envelope, got %s", rec.Body.String())
	}
}

func TestUserHandlerRegisterEmailConflict(t *testing.T) {
	users := &stubUserStore{
		FindByIdentifierFunc: func(_ context.Context, identifier string) (models.User, error) {
			if identifier == "alice@example.com" {
				return models.User{ID: "existing"}, nil
			}
			return models.User{}, repositories.ErrNotFound
		},
	}
	handler := UserHandler{Users: users, Hasher: stubHasher{}, Media: &stubMedia{}}

	body, contentType := multipartBody(t, registerFields(), map[string]string{"avatar": "img"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestUserHandlerLogin(t *testing.T) {
	sessions := &stubSessions{
		LoginFunc: func(_ context.Context, identifier, password string) (models.User, models.SessionTokens, error) {
			if identifier != "alice" || password != "password123" {
				t.Fatalf("unexpected credentials %q/%q", identifier, password)
			}
			return models.User{ID: "user-1", Username: "alice"}, models.SessionTokens{
				AccessToken:  "access-token",
				RefreshToken: "refresh-token",
			}, nil
		},
	}
	handler := UserHandler{Sessions: sessions}

	body, _ := json.Marshal(loginRequest{Username: "alice", Password: "password123"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	cookies := rec.Result().Cookies()
	var gotAccess, gotRefresh bool
	for _, c := range cookies {
		switch c.Name {
		case accessCookieName:
			gotAccess = c.Value == "access-token" && c.HttpOnly
		case refreshCookieName:
			gotRefresh = c.Value == "refresh-token" && c.HttpOnly
		}
	}
	if !gotAccess || !gotRefresh {
		t.Fatalf("expected both HTTP-only session cookies, got %+v", cookies)
	}
}

func TestUserHandlerLoginUnknownUser(t *testing.T) {
	sessions := &stubSessions{
		LoginFunc: func(_ context.Context, _, _ string) (models.User, models.SessionTokens, error) {
			return models.User{}, models.SessionTokens{}, apperr.New(apperr.NotFound, "user not found")
		},
	}
	handler := UserHandler{Sessions: sessions}

	body, _ := json.Marshal(loginRequest{Email: "nobody@example.com", Password: "x"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestUserHandlerRefreshFromCookie(t *testing.T) {
	sessions := &stubSessions{
		RefreshFunc: func(_ context.Context, refreshToken string) (models.SessionTokens, error) {
			if refreshToken != "stored-refresh" {
				t.Fatalf("unexpected refresh token %q", refreshToken)
			}
			return models.SessionTokens{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	}
	handler := UserHandler{Sessions: sessions}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "stored-refresh"})
	rec := httptest.NewRecorder()

	handler.Refresh(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUserHandlerRefreshMissingToken(t *testing.T) {
	handler := UserHandler{Sessions: &stubSessions{}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", strings.NewReader("{}"))
	rec := httptest.NewRecorder()

	handler.Refresh(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestUserHandlerLogoutClearsCookies(t *testing.T) {
	handler := UserHandler{Sessions: &stubSessions{}}

	req := authedRequest(http.MethodPost, "/api/v1/users/logout", nil, "user-1")
	rec := httptest.NewRecorder()

	handler.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 && c.Value != "" {
			t.Fatalf("expected cookie %s to be expired, got %+v", c.Name, c)
		}
	}
}

func TestUserHandlerUpdateAccountRequiresAField(t *testing.T) {
	handler := UserHandler{Users: &stubUserStore{}}

	req := authedRequest(http.MethodPatch, "/api/v1/users/update-account", strings.NewReader(`{}`), "user-1")
	rec := httptest.NewRecorder()

	handler.UpdateAccount(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestUserHandlerUpdateAccount(t *testing.T) {
	users := &stubUserStore{
		UpdateProfileFunc: func(_ context.Context, id string, patch repositories.ProfilePatch) (models.User, error) {
			if id != "user-1" {
				t.Fatalf("unexpected user id %q", id)
			}
			if patch.FullName == nil || *patch.FullName != "New Name" {
				t.Fatalf("expected fullName patch, got %+v", patch)
			}
			if patch.Email != nil {
				t.Fatal("email should not be patched")
			}
			return models.User{ID: id, FullName: *patch.FullName}, nil
		},
	}
	handler := UserHandler{Users: users}

	req := authedRequest(http.MethodPatch, "/api/v1/users/update-account",
		strings.NewReader(`{"fullName":"New Name"}`), "user-1")
	rec := httptest.NewRecorder()

	handler.UpdateAccount(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUserHandlerChannelProfilePassesViewer(t *testing.T) {
	views := &stubViews{
		ChannelProfileFunc: func(_ context.Context, username, viewerID string) (models.ChannelProfile, error) {
			if username != "bob" {
				t.Fatalf("unexpected username %q", username)
			}
			if viewerID != "user-1" {
				t.Fatalf("unexpected viewer %q", viewerID)
			}
			return models.ChannelProfile{Username: "bob", SubscriberCount: 2, IsSubscribed: true}, nil
		},
	}
	handler := UserHandler{Views: views}

	req := authedRequest(http.MethodGet, "/api/v1/users/c/bob", nil, "user-1")
	req.SetPathValue("username", "bob")
	rec := httptest.NewRecorder()

	handler.ChannelProfile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var profile models.ChannelProfile
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if !profile.IsSubscribed || profile.SubscriberCount != 2 {
		t.Fatalf("unexpected profile %+v", profile)
	}
}

func TestUserHandlerChannelProfileNotFound(t *testing.T) {
	handler := UserHandler{Views: &stubViews{}}

	req := authedRequest(http.MethodGet, "/api/v1/users/c/ghost", nil, "")
	req.SetPathValue("username", "ghost")
	rec := httptest.NewRecorder()

	handler.ChannelProfile(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
