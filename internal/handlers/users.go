package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cliptube/backend/internal/auth"
	"github.com/cliptube/backend/internal/logging"
	"github.com/cliptube/backend/internal/media"
	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/repositories"
)

// UserHandler implements account registration, session endpoints, and profile
// management.
type UserHandler struct {
	Users    UserStore
	Sessions SessionController
	Hasher   PasswordHasher
	Media    MediaService
	Views    ViewQueries
	NowFunc  func() time.Time
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type updateAccountRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
	Bio      *string `json:"bio"`
	AboutMe  *string `json:"aboutMe"`
}

type sessionResponse struct {
	User         models.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// Register handles POST /api/v1/users/register. The request is multipart: the
// account fields plus a required avatar and an optional cover image.
func (h UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Users == nil || h.Hasher == nil || h.Media == nil {
		logger.Error("registration dependencies unavailable",
			"hasUsers", h.Users != nil, "hasHasher", h.Hasher != nil, "hasMedia", h.Media != nil)
		respondError(ctx, w, errors.New("registration services unavailable"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(ctx, w, invalidInput("expected multipart form data"))
		return
	}

	fullName := strings.TrimSpace(r.FormValue("fullName"))
	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	username := strings.TrimSpace(strings.ToLower(r.FormValue("username")))
	password := r.FormValue("password")

	if fullName == "" || email == "" || username == "" || password == "" {
		respondError(ctx, w, invalidInput("fullName, email, username, and password are required"))
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		respondError(ctx, w, invalidInput("invalid email address"))
		return
	}
	if len(password) < 8 {
		respondError(ctx, w, invalidInput("password must be at least 8 characters"))
		return
	}

	if _, err := h.Users.FindByUsername(ctx, username); err == nil {
		respondError(ctx, w, repositories.ErrConflict)
		return
	} else if !errors.Is(err, repositories.ErrNotFound) {
		respondError(ctx, w, err)
		return
	}
	if _, err := h.Users.FindByIdentifier(ctx, email); err == nil {
		respondError(ctx, w, repositories.ErrConflict)
		return
	} else if !errors.Is(err, repositories.ErrNotFound) {
		respondError(ctx, w, err)
		return
	}

	avatar, ok, err := saveFormFile(r, "avatar")
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if !ok {
		respondError(ctx, w, invalidInput("avatar upload is required"))
		return
	}
	defer avatar.Remove()

	cover, hasCover, err := saveFormFile(r, "coverImage")
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	defer cover.Remove()

	avatarAsset, err := h.Media.Upload(ctx, avatar.Path, "avatars")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var coverURL string
	if hasCover {
		coverAsset, err := h.Media.Upload(ctx, cover.Path, "covers")
		if err != nil {
			deleteAsset(r, h.Media, avatarAsset.URL, media.ResourceImage)
			respondError(ctx, w, err)
			return
		}
		coverURL = coverAsset.URL
	}

	hashed, err := h.Hasher.HashPassword(password)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	now := h.now()
	user := models.User{
		ID:         uuid.NewString(),
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Avatar:     avatarAsset.URL,
		CoverImage: coverURL,
		Password:   hashed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.Users.Create(ctx, user); err != nil {
		deleteAsset(r, h.Media, avatarAsset.URL, media.ResourceImage)
		deleteAsset(r, h.Media, coverURL, media.ResourceImage)
		respondError(ctx, w, err)
		return
	}

	logger.Info("account registered", "userId", user.ID, "username", user.Username)
	respondData(ctx, w, http.StatusCreated, "user registered successfully", user.Sanitized())
}

// Login handles POST /api/v1/users/login. The caller may supply a username or
// an email; the matching account is authenticated against the password.
func (h UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.Sessions == nil {
		logging.FromContext(ctx).Error("session controller unavailable")
		respondError(ctx, w, errors.New("session service unavailable"))
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, invalidInput("invalid request body"))
		return
	}

	identifier := strings.TrimSpace(strings.ToLower(req.Username))
	if identifier == "" {
		identifier = strings.TrimSpace(strings.ToLower(req.Email))
	}
	if identifier == "" || req.Password == "" {
		respondError(ctx, w, invalidInput("username or email and password are required"))
		return
	}

	user, tokens, err := h.Sessions.Login(ctx, identifier, req.Password)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	setSessionCookies(w, tokens)
	respondData(ctx, w, http.StatusOK, "user logged in successfully", sessionResponse{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Logout handles POST /api/v1/users/logout. The stored refresh token is
// discarded and both session cookies are expired.
func (h UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := auth.UserIDFromContext(ctx)

	if err := h.Sessions.Logout(ctx, userID); err != nil {
		respondError(ctx, w, err)
		return
	}

	clearSessionCookies(w)
	respondData(ctx, w, http.StatusOK, "user logged out successfully", nil)
}

// Refresh handles POST /api/v1/users/refresh-token. The refresh token is read
// from the session cookie, falling back to the JSON body.
func (h UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := ""
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			token = strings.TrimSpace(req.RefreshToken)
		}
	}
	if token == "" {
		respondError(ctx, w, invalidInput("refresh token is required"))
		return
	}

	tokens, err := h.Sessions.Refresh(ctx, token)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	setSessionCookies(w, tokens)
	respondData(ctx, w, http.StatusOK, "access token refreshed", models.SessionTokens{
		AccessToken:      tokens.AccessToken,
		AccessExpiresAt:  tokens.AccessExpiresAt,
		RefreshToken:     tokens.RefreshToken,
		RefreshExpiresAt: tokens.RefreshExpiresAt,
	})
}

// ChangePassword handles POST /api/v1/users/change-password.
func (h UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := auth.UserIDFromContext(ctx)

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, invalidInput("invalid request body"))
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		respondError(ctx, w, invalidInput("oldPassword and newPassword are required"))
		return
	}
	if len(req.NewPassword) < 8 {
		respondError(ctx, w, invalidInput("password must be at least 8 characters"))
		return
	}

	if err := h.Sessions.ChangePassword(ctx, userID, req.OldPassword, req.NewPassword); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, "password changed successfully", nil)
}

// CurrentUser handles GET /api/v1/users/current-user.
func (h UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.Users.FindByID(ctx, auth.UserIDFromContext(ctx))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, "current user fetched successfully", user.Sanitized())
}

// UpdateAccount handles PATCH /api/v1/users/update-account. At least one
// profile field must be present; omitted fields are untouched.
func (h UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := auth.UserIDFromContext(ctx)

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, invalidInput("invalid request body"))
		return
	}

	patch := repositories.ProfilePatch{
		FullName: trimmed(req.FullName),
		Email:    lowered(req.Email),
		Bio:      trimmed(req.Bio),
		AboutMe:  trimmed(req.AboutMe),
	}
	if patch.Empty() {
		respondError(ctx, w, invalidInput("at least one of fullName, email, bio, or aboutMe is required"))
		return
	}
	if patch.Email != nil {
		if _, err := mail.ParseAddress(*patch.Email); err != nil {
			respondError(ctx, w, invalidInput("invalid email address"))
			return
		}
	}

	user, err := h.Users.UpdateProfile(ctx, userID, patch)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, "account details updated successfully", user.Sanitized())
}

// UpdateAvatar handles PATCH /api/v1/users/avatar.
func (h UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar")
}

// UpdateCoverImage handles PATCH /api/v1/users/cover-image.
func (h UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage")
}

// updateImage uploads the replacement image first, swaps the stored URL, then
// removes the previous object so a failed upload never strips the old image.
func (h UserHandler) updateImage(w http.ResponseWriter, r *http.Request, kind string) {
	ctx := r.Context()
	userID := auth.UserIDFromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(ctx, w, invalidInput("expected multipart form data"))
		return
	}

	upload, ok, err := saveFormFile(r, kind)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if !ok {
		respondError(ctx, w, invalidInput(kind+" upload is required"))
		return
	}
	defer upload.Remove()

	current, err := h.Users.FindByID(ctx, userID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	folder := "avatars"
	previous := current.Avatar
	if kind == "coverImage" {
		folder = "covers"
		previous = current.CoverImage
	}

	asset, err := h.Media.Upload(ctx, upload.Path, folder)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	user, err := h.Users.UpdateImage(ctx, userID, kind, asset.URL)
	if err != nil {
		deleteAsset(r, h.Media, asset.URL, media.ResourceImage)
		respondError(ctx, w, err)
		return
	}

	deleteAsset(r, h.Media, previous, media.ResourceImage)
	respondData(ctx, w, http.StatusOK, kind+" updated successfully", user.Sanitized())
}

// ChannelProfile handles GET /api/v1/users/c/{username}. Authentication is
// optional; when present, isSubscribed reflects the viewer.
func (h UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := strings.TrimSpace(r.PathValue("username"))
	if username == "" {
		respondError(ctx, w, invalidInput("username is required"))
		return
	}

	profile, err := h.Views.ChannelProfile(ctx, username, auth.UserIDFromContext(ctx))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, "channel profile fetched successfully", profile)
}

// WatchHistory handles GET /api/v1/users/history. Entries are ordered oldest
// watch first; re-watching moves a video to the end.
func (h UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	history, err := h.Views.WatchHistory(ctx, auth.UserIDFromContext(ctx))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, "watch history fetched successfully", history)
}

func (h UserHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

// trimmed normalises an optional string field; nil stays nil, and a value
// that trims to empty is treated as absent.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func lowered(s *string) *string {
	if s = trimmed(s); s == nil {
		return nil
	}
	v := strings.ToLower(*s)
	return &v
}
