package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/cliptube/backend/internal/auth"
	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/repositories"
)

// LikeHandler implements like toggling across videos, comments, and tweets.
type LikeHandler struct {
	Likes LikeStore
	Views ViewQueries
}

// ToggleVideo handles POST /api/v1/likes/toggle/v/{videoId}.
func (h LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetVideo, "videoId")
}

// ToggleComment handles POST /api/v1/likes/toggle/c/{commentId}.
func (h LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetComment, "commentId")
}

// ToggleTweet handles POST /api/v1/likes/toggle/t/{tweetId}.
func (h LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetTweet, "tweetId")
}

// toggle flips the like state for one target. A concurrent toggle can race the
// create; a conflict there means the like already exists, so the post-state is
// re-read instead of assumed.
func (h LikeHandler) toggle(w http.ResponseWriter, r *http.Request, target models.LikeTarget, param string) {
	ctx := r.Context()
	userID := auth.UserIDFromContext(ctx)

	targetID := r.PathValue(param)
	if targetID == "" {
		respondError(ctx, w, invalidInput(string(target)+" id is required"))
		return
	}

	existing, err := h.Likes.Find(ctx, target, targetID, userID)
	switch {
	case err == nil:
		if err := h.Likes.Delete(ctx, existing.ID); err != nil {
			respondError(ctx, w, err)
			return
		}
	case errors.Is(err, repositories.ErrNotFound):
		err := h.Likes.Create(ctx, target, targetID, userID, uuid.NewString())
		if err != nil && !errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, err)
			return
		}
	default:
		respondError(ctx, w, err)
		return
	}

	liked, err := h.Likes.Exists(ctx, target, targetID, userID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	message := string(target) + " unliked successfully"
	if liked {
		message = string(target) + " liked successfully"
	}
	respondData(ctx, w, http.StatusOK, message, map[string]bool{"liked": liked})
}

// LikedVideos handles GET /api/v1/likes/videos.
func (h LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videos, err := h.Views.LikedVideos(ctx, auth.UserIDFromContext(ctx))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if len(videos) == 0 {
		respondData(ctx, w, http.StatusOK, "you dont have any liked videos", nil)
		return
	}

	respondData(ctx, w, http.StatusOK, "liked videos fetched successfully", videos)
}
