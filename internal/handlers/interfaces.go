package handlers

import (
	"context"

	"github.com/cliptube/backend/internal/media"
	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/pagination"
	"github.com/cliptube/backend/internal/queries"
	"github.com/cliptube/backend/internal/repositories"
)

// UserStore captures the persistence operations required by the user handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	UpdateProfile(ctx context.Context, id string, patch repositories.ProfilePatch) (models.User, error)
	UpdateImage(ctx context.Context, id, kind, url string) (models.User, error)
	AppendWatchHistory(ctx context.Context, userID, videoID string) error
}

// SessionController orchestrates the authentication lifecycle.
type SessionController interface {
	Login(ctx context.Context, identifier, password string) (models.User, models.SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Logout(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

// PasswordHasher hashes plaintext passwords for storage.
type PasswordHasher interface {
	HashPassword(plaintext string) (string, error)
}

// VideoStore captures persistence for video records.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	Update(ctx context.Context, id string, patch repositories.VideoPatch) (models.Video, error)
	Delete(ctx context.Context, id string) error
	TogglePublish(ctx context.Context, id string) (bool, error)
}

// CommentStore captures persistence for comments.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
}

// TweetStore captures persistence for tweets.
type TweetStore interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
}

// LikeStore captures persistence for like toggling.
type LikeStore interface {
	Find(ctx context.Context, target models.LikeTarget, targetID, userID string) (models.Like, error)
	Create(ctx context.Context, target models.LikeTarget, targetID, userID, likeID string) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, target models.LikeTarget, targetID, userID string) (bool, error)
}

// SubscriptionStore captures persistence for subscriber/channel pairs.
type SubscriptionStore interface {
	Find(ctx context.Context, subscriberID, channelID string) (models.Subscription, error)
	Create(ctx context.Context, sub models.Subscription) error
	Delete(ctx context.Context, subscriberID, channelID string) error
	ListChannels(ctx context.Context, subscriberID string) ([]models.OwnerSummary, error)
}

// ViewQueries is the aggregation query layer consumed by handlers.
type ViewQueries interface {
	VideoFeed(ctx context.Context, opts queries.FeedOptions, params pagination.Params) (pagination.Page[models.VideoView], error)
	VideoByID(ctx context.Context, videoID string) (models.VideoView, error)
	CommentsForVideo(ctx context.Context, videoID, viewerID string, params pagination.Params) (pagination.Page[models.CommentView], error)
	ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID string) ([]models.VideoView, error)
	LikedVideos(ctx context.Context, userID string) ([]models.VideoView, error)
	UserTweets(ctx context.Context, userID string, params pagination.Params) (pagination.Page[models.TweetView], error)
}

// MediaService is the delegated media storage provider.
type MediaService = media.Service
