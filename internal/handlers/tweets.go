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

// defaultTweetLimit is the page size used when the caller omits limit.
const defaultTweetLimit = 5

// TweetHandler implements the short-post endpoints.
type TweetHandler struct {
	Tweets  TweetStore
	Views   ViewQueries
	NowFunc func() time.Time
}

type tweetRequest struct {
	Content string `json:"content"`
}

// Create handles POST /api/v1/tweets.
func (h TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req tweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, invalidInput("invalid request body"))
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, invalidInput("tweet content is required"))
		return
	}

	now := h.now()
	tweet := models.Tweet{
		ID:        uuid.NewString(),
		OwnerID:   auth.UserIDFromContext(ctx),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Tweets.Create(ctx, tweet); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusCreated, "tweet created successfully", tweet)
}

// ListForUser handles GET /api/v1/tweets/user/{userId}, newest first.
func (h TweetHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.PathValue("userId")
	if userID == "" {
		respondError(ctx, w, invalidInput("user id is required"))
		return
	}

	q := r.URL.Query()
	params := pagination.Parse(q.Get("page"), q.Get("limit"), defaultTweetLimit)

	page, err := h.Views.UserTweets(ctx, userID, params)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, "tweets fetched successfully", page)
}

// Update handles PATCH /api/v1/tweets/{tweetId}. Owner only.
func (h TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tweet, err := h.authorizedTweet(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req tweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, invalidInput("invalid request body"))
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, invalidInput("tweet content is required"))
		return
	}

	if err := h.Tweets.UpdateContent(ctx, tweet.ID, content); err != nil {
		respondError(ctx, w, err)
		return
	}

	tweet.Content = content
	respondData(ctx, w, http.StatusOK, "tweet updated successfully", tweet)
}

// Delete handles DELETE /api/v1/tweets/{tweetId}. Owner only.
func (h TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tweet, err := h.authorizedTweet(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Tweets.Delete(ctx, tweet.ID); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, "tweet deleted successfully", nil)
}

func (h TweetHandler) authorizedTweet(r *http.Request) (models.Tweet, error) {
	tweetID := r.PathValue("tweetId")
	if tweetID == "" {
		return models.Tweet{}, invalidInput("tweet id is required")
	}

	tweet, err := h.Tweets.FindByID(r.Context(), tweetID)
	if err != nil {
		return models.Tweet{}, err
	}
	if tweet.OwnerID != auth.UserIDFromContext(r.Context()) {
		return models.Tweet{}, forbidden("only the author can modify this tweet")
	}
	return tweet, nil
}

func (h TweetHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
