package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cliptube/backend/internal/auth"
	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/pagination"
)

// defaultCommentLimit is the page size used when the caller omits limit.
const defaultCommentLimit = 10

// CommentHandler implements the per-video comment endpoints.
type CommentHandler struct {
	Comments CommentStore
	Videos   VideoStore
	Views    ViewQueries
	NowFunc  func() time.Time
}

type commentRequest struct {
	Content string `json:"content"`
}

// List handles GET /api/v1/comments/{videoId}. Authentication is optional;
// when present, each comment carries whether the viewer authored it.
func (h CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID := r.PathValue("videoId")
	if videoID == "" {
		respondError(ctx, w, invalidInput("video id is required"))
		return
	}

	q := r.URL.Query()
	params := pagination.Parse(q.Get("page"), q.Get("limit"), defaultCommentLimit)

	page, err := h.Views.CommentsForVideo(ctx, videoID, auth.UserIDFromContext(ctx), params)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, "comments fetched successfully", page)
}

// Add handles POST /api/v1/comments/{videoId}.
func (h CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID := r.PathValue("videoId")
	if videoID == "" {
		respondError(ctx, w, invalidInput("video id is required"))
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, invalidInput("invalid request body"))
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, invalidInput("comment content is required"))
		return
	}

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondError(ctx, w, err)
		return
	}

	now := h.now()
	comment := models.Comment{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		OwnerID:   auth.UserIDFromContext(ctx),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Comments.Create(ctx, comment); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusCreated, "comment added successfully", comment)
}

// Update handles PATCH /api/v1/comments/c/{commentId}. Owner only.
func (h CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comment, err := h.authorizedComment(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, invalidInput("invalid request body"))
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, invalidInput("comment content is required"))
		return
	}

	if err := h.Comments.UpdateContent(ctx, comment.ID, content); err != nil {
		respondError(ctx, w, err)
		return
	}

	comment.Content = content
	respondData(ctx, w, http.StatusOK, "comment updated successfully", comment)
}

// Delete handles DELETE /api/v1/comments/c/{commentId}. Owner only.
func (h CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comment, err := h.authorizedComment(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Comments.Delete(ctx, comment.ID); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, "comment deleted successfully", nil)
}

func (h CommentHandler) authorizedComment(r *http.Request) (models.Comment, error) {
	commentID := r.PathValue("commentId")
	if commentID == "" {
		return models.Comment{}, invalidInput("comment id is required")
	}

	comment, err := h.Comments.FindByID(r.Context(), commentID)
	if err != nil {
		return models.Comment{}, err
	}
	if comment.OwnerID != auth.UserIDFromContext(r.Context()) {
		return models.Comment{}, forbidden("only the author can modify this comment")
	}
	return comment, nil
}

func (h CommentHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
