package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cliptube/backend/internal/auth"
	"github.com/cliptube/backend/internal/logging"
	"github.com/cliptube/backend/internal/media"
	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/pagination"
	"github.com/cliptube/backend/internal/queries"
	"github.com/cliptube/backend/internal/repositories"
)

// defaultFeedLimit is the page size used when the caller omits limit.
const defaultFeedLimit = 3

// VideoHandler implements the video publishing and feed endpoints.
type VideoHandler struct {
	Videos  VideoStore
	Users   UserStore
	Media   MediaService
	Views   ViewQueries
	NowFunc func() time.Time
}

type updateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// List handles GET /api/v1/videos. Results are published videos only,
// filterable by title substring and owner username.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	opts := queries.FeedOptions{
		Query:    strings.TrimSpace(q.Get("query")),
		Username: strings.TrimSpace(strings.ToLower(q.Get("username"))),
		SortBy:   strings.TrimSpace(q.Get("sortBy")),
		SortDesc: !strings.EqualFold(q.Get("sortType"), "asc"),
	}
	params := pagination.Parse(q.Get("page"), q.Get("limit"), defaultFeedLimit)

	page, err := h.Views.VideoFeed(ctx, opts, params)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, "videos fetched successfully", page)
}

// Publish handles POST /api/v1/videos. The request is multipart with a video
// file, a thumbnail, and the title/description fields; the clip duration comes
// from the media provider during upload.
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	ownerID := auth.UserIDFromContext(ctx)

	if h.Videos == nil || h.Media == nil {
		logger.Error("video dependencies unavailable", "hasVideos", h.Videos != nil, "hasMedia", h.Media != nil)
		respondError(ctx, w, errors.New("video services unavailable"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(ctx, w, invalidInput("expected multipart form data"))
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	if title == "" || description == "" {
		respondError(ctx, w, invalidInput("title and description are required"))
		return
	}

	videoFile, ok, err := saveFormFile(r, "videoFile")
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if !ok {
		respondError(ctx, w, invalidInput("videoFile upload is required"))
		return
	}
	defer videoFile.Remove()

	thumbnail, ok, err := saveFormFile(r, "thumbnail")
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if !ok {
		respondError(ctx, w, invalidInput("thumbnail upload is required"))
		return
	}
	defer thumbnail.Remove()

	videoAsset, err := h.Media.Upload(ctx, videoFile.Path, "videos")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	thumbAsset, err := h.Media.Upload(ctx, thumbnail.Path, "thumbnails")
	if err != nil {
		deleteAsset(r, h.Media, videoAsset.URL, media.ResourceVideo)
		respondError(ctx, w, err)
		return
	}

	now := h.now()
	video := models.Video{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		VideoFile:   videoAsset.URL,
		Thumbnail:   thumbAsset.URL,
		Duration:    videoAsset.Duration,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		deleteAsset(r, h.Media, videoAsset.URL, media.ResourceVideo)
		deleteAsset(r, h.Media, thumbAsset.URL, media.ResourceImage)
		respondError(ctx, w, err)
		return
	}

	logger.Info("video published", "videoId", video.ID, "ownerId", ownerID)
	respondData(ctx, w, http.StatusCreated, "video published successfully", video)
}

// Get handles GET /api/v1/videos/{videoId}. Fetching a video also records it
// in the viewer's watch history; a failed history write is logged, not fatal.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID := r.PathValue("videoId")
	view, err := h.Views.VideoByID(ctx, videoID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if userID := auth.UserIDFromContext(ctx); userID != "" && h.Users != nil {
		if err := h.Users.AppendWatchHistory(ctx, userID, videoID); err != nil {
			logging.FromContext(ctx).Warn("append watch history", "videoId", videoID, "userId", userID, "error", err)
		}
	}

	respondData(ctx, w, http.StatusOK, "video fetched successfully", view)
}

// Update handles PATCH /api/v1/videos/{videoId}. Owner only. The body is
// either JSON with title/description or multipart carrying a replacement
// thumbnail alongside those fields.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, err := h.authorizedVideo(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	patch := repositories.VideoPatch{}
	var newThumb savedUpload

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondError(ctx, w, invalidInput("expected multipart form data"))
			return
		}
		if v := strings.TrimSpace(r.FormValue("title")); v != "" {
			patch.Title = &v
		}
		if v := strings.TrimSpace(r.FormValue("description")); v != "" {
			patch.Description = &v
		}
		upload, ok, err := saveFormFile(r, "thumbnail")
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		if ok {
			newThumb = upload
			defer newThumb.Remove()
		}
	} else {
		var req updateVideoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(ctx, w, invalidInput("invalid request body"))
			return
		}
		patch.Title = trimmed(req.Title)
		patch.Description = trimmed(req.Description)
	}

	previousThumb := ""
	if newThumb.Path != "" {
		asset, err := h.Media.Upload(ctx, newThumb.Path, "thumbnails")
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		patch.Thumbnail = &asset.URL
		previousThumb = video.Thumbnail
	}

	if patch.Empty() {
		respondError(ctx, w, invalidInput("at least one of title, description, or thumbnail is required"))
		return
	}

	updated, err := h.Videos.Update(ctx, video.ID, patch)
	if err != nil {
		if patch.Thumbnail != nil {
			deleteAsset(r, h.Media, *patch.Thumbnail, media.ResourceImage)
		}
		respondError(ctx, w, err)
		return
	}

	deleteAsset(r, h.Media, previousThumb, media.ResourceImage)
	respondData(ctx, w, http.StatusOK, "video updated successfully", updated)
}

// Delete handles DELETE /api/v1/videos/{videoId}. Owner only. The database
// row goes first; provider cleanup failures are logged and the delete still
// succeeds, since the row is the source of truth.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, err := h.authorizedVideo(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Videos.Delete(ctx, video.ID); err != nil {
		respondError(ctx, w, err)
		return
	}

	deleteAsset(r, h.Media, video.VideoFile, media.ResourceVideo)
	deleteAsset(r, h.Media, video.Thumbnail, media.ResourceImage)

	logging.FromContext(ctx).Info("video deleted", "videoId", video.ID)
	respondData(ctx, w, http.StatusOK, "video deleted successfully", nil)
}

// TogglePublish handles PATCH /api/v1/videos/toggle/publish/{videoId}. Owner
// only.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, err := h.authorizedVideo(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	published, err := h.Videos.TogglePublish(ctx, video.ID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, "publish status toggled successfully", map[string]bool{
		"isPublished": published,
	})
}

// authorizedVideo loads the path's video and verifies the authenticated user
// owns it.
func (h VideoHandler) authorizedVideo(r *http.Request) (models.Video, error) {
	videoID := r.PathValue("videoId")
	if videoID == "" {
		return models.Video{}, invalidInput("video id is required")
	}

	video, err := h.Videos.FindByID(r.Context(), videoID)
	if err != nil {
		return models.Video{}, err
	}
	if video.OwnerID != auth.UserIDFromContext(r.Context()) {
		return models.Video{}, forbidden("only the owner can modify this video")
	}
	return video, nil
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
