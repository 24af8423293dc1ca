package handlers

import (
	"net/http"
	"time"

	"github.com/cliptube/backend/internal/middleware"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users         UserStore
	Sessions      SessionController
	Hasher        PasswordHasher
	Videos        VideoStore
	Comments      CommentStore
	Tweets        TweetStore
	Likes         LikeStore
	Subscriptions SubscriptionStore
	Views         ViewQueries
	Media         MediaService
	Verifier      middleware.TokenVerifier
	Limiter       RateLimiter
	NowFunc       func() time.Time
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux. Credential
// endpoints sit behind the rate limiter; everything under /videos and the
// account surface requires a valid access token.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	users := UserHandler{
		Users:    deps.Users,
		Sessions: deps.Sessions,
		Hasher:   deps.Hasher,
		Media:    deps.Media,
		Views:    deps.Views,
		NowFunc:  deps.NowFunc,
	}
	videos := VideoHandler{
		Videos:  deps.Videos,
		Users:   deps.Users,
		Media:   deps.Media,
		Views:   deps.Views,
		NowFunc: deps.NowFunc,
	}
	comments := CommentHandler{Comments: deps.Comments, Videos: deps.Videos, Views: deps.Views, NowFunc: deps.NowFunc}
	tweets := TweetHandler{Tweets: deps.Tweets, Views: deps.Views, NowFunc: deps.NowFunc}
	likes := LikeHandler{Likes: deps.Likes, Views: deps.Views}
	subscriptions := SubscriptionHandler{Subscriptions: deps.Subscriptions, Users: deps.Users, NowFunc: deps.NowFunc}

	requireAuth := middleware.RequireAuth(deps.Verifier)
	optionalAuth := middleware.OptionalAuth(deps.Verifier)

	mux.HandleFunc("GET /healthz", health.Handle)

	mux.Handle("POST /api/v1/users/register", limited(deps.Limiter, "register", http.HandlerFunc(users.Register)))
	mux.Handle("POST /api/v1/users/login", limited(deps.Limiter, "login", http.HandlerFunc(users.Login)))
	mux.Handle("POST /api/v1/users/refresh-token", limited(deps.Limiter, "refresh", http.HandlerFunc(users.Refresh)))
	mux.Handle("POST /api/v1/users/logout", requireAuth(http.HandlerFunc(users.Logout)))
	mux.Handle("POST /api/v1/users/change-password", requireAuth(http.HandlerFunc(users.ChangePassword)))
	mux.Handle("GET /api/v1/users/current-user", requireAuth(http.HandlerFunc(users.CurrentUser)))
	mux.Handle("PATCH /api/v1/users/update-account", requireAuth(http.HandlerFunc(users.UpdateAccount)))
	mux.Handle("PATCH /api/v1/users/avatar", requireAuth(http.HandlerFunc(users.UpdateAvatar)))
	mux.Handle("PATCH /api/v1/users/cover-image", requireAuth(http.HandlerFunc(users.UpdateCoverImage)))
	mux.Handle("GET /api/v1/users/c/{username}", optionalAuth(http.HandlerFunc(users.ChannelProfile)))
	mux.Handle("GET /api/v1/users/history", requireAuth(http.HandlerFunc(users.WatchHistory)))

	mux.Handle("GET /api/v1/videos", requireAuth(http.HandlerFunc(videos.List)))
	mux.Handle("POST /api/v1/videos", requireAuth(http.HandlerFunc(videos.Publish)))
	mux.Handle("GET /api/v1/videos/{videoId}", requireAuth(http.HandlerFunc(videos.Get)))
	mux.Handle("PATCH /api/v1/videos/{videoId}", requireAuth(http.HandlerFunc(videos.Update)))
	mux.Handle("DELETE /api/v1/videos/{videoId}", requireAuth(http.HandlerFunc(videos.Delete)))
	mux.Handle("PATCH /api/v1/videos/toggle/publish/{videoId}", requireAuth(http.HandlerFunc(videos.TogglePublish)))

	mux.Handle("GET /api/v1/comments/{videoId}", optionalAuth(http.HandlerFunc(comments.List)))
	mux.Handle("POST /api/v1/comments/{videoId}", requireAuth(http.HandlerFunc(comments.Add)))
	mux.Handle("PATCH /api/v1/comments/c/{commentId}", requireAuth(http.HandlerFunc(comments.Update)))
	mux.Handle("DELETE /api/v1/comments/c/{commentId}", requireAuth(http.HandlerFunc(comments.Delete)))

	mux.Handle("POST /api/v1/tweets", requireAuth(http.HandlerFunc(tweets.Create)))
	mux.Handle("GET /api/v1/tweets/user/{userId}", requireAuth(http.HandlerFunc(tweets.ListForUser)))
	mux.Handle("PATCH /api/v1/tweets/{tweetId}", requireAuth(http.HandlerFunc(tweets.Update)))
	mux.Handle("DELETE /api/v1/tweets/{tweetId}", requireAuth(http.HandlerFunc(tweets.Delete)))

	mux.Handle("POST /api/v1/likes/toggle/v/{videoId}", requireAuth(http.HandlerFunc(likes.ToggleVideo)))
	mux.Handle("POST /api/v1/likes/toggle/c/{commentId}", requireAuth(http.HandlerFunc(likes.ToggleComment)))
	mux.Handle("POST /api/v1/likes/toggle/t/{tweetId}", requireAuth(http.HandlerFunc(likes.ToggleTweet)))
	mux.Handle("GET /api/v1/likes/videos", requireAuth(http.HandlerFunc(likes.LikedVideos)))

	mux.Handle("POST /api/v1/subscriptions/c/{channelId}", requireAuth(http.HandlerFunc(subscriptions.Toggle)))
	mux.Handle("GET /api/v1/subscriptions", requireAuth(http.HandlerFunc(subscriptions.ListChannels)))
}

// limited guards a handler with the shared per-IP rate limiter.
func limited(limiter RateLimiter, scope string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowRequest(limiter, r, scope) {
			respondTooManyRequests(r.Context(), w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
