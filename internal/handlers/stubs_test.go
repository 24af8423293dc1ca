package handlers

import (
	"context"

	"github.com/cliptube/backend/internal/media"
	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/pagination"
	"github.com/cliptube/backend/internal/queries"
	"github.com/cliptube/backend/internal/repositories"
)

// Stub collaborators for handler tests. Each method delegates to an optional
// function field and falls back to an empty result.

type stubUserStore struct {
	CreateFunc             func(ctx context.Context, user models.User) error
	FindByIDFunc           func(ctx context.Context, id string) (models.User, error)
	FindByIdentifierFunc   func(ctx context.Context, identifier string) (models.User, error)
	FindByUsernameFunc     func(ctx context.Context, username string) (models.User, error)
	UpdateProfileFunc      func(ctx context.Context, id string, patch repositories.ProfilePatch) (models.User, error)
	UpdateImageFunc        func(ctx context.Context, id, kind, url string) (models.User, error)
	AppendWatchHistoryFunc func(ctx context.Context, userID, videoID string) error

	watchHistoryAppends [][2]string
}

func (s *stubUserStore) Create(ctx context.Context, user models.User) error {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, user)
	}
	return nil
}

func (s *stubUserStore) FindByID(ctx context.Context, id string) (models.User, error) {
	if s.FindByIDFunc != nil {
		return s.FindByIDFunc(ctx, id)
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *stubUserStore) FindByIdentifier(ctx context.Context, identifier string) (models.User, error) {
	if s.FindByIdentifierFunc != nil {
		return s.FindByIdentifierFunc(ctx, identifier)
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *stubUserStore) FindByUsername(ctx context.Context, username string) (models.User, error) {
	if s.FindByUsernameFunc != nil {
		return s.FindByUsernameFunc(ctx, username)
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *stubUserStore) UpdateProfile(ctx context.Context, id string, patch repositories.ProfilePatch) (models.User, error) {
	if s.UpdateProfileFunc != nil {
		return s.UpdateProfileFunc(ctx, id, patch)
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *stubUserStore) UpdateImage(ctx context.Context, id, kind, url string) (models.User, error) {
	if s.UpdateImageFunc != nil {
		return s.UpdateImageFunc(ctx, id, kind, url)
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *stubUserStore) AppendWatchHistory(ctx context.Context, userID, videoID string) error {
	s.watchHistoryAppends = append(s.watchHistoryAppends, [2]string{userID, videoID})
	if s.AppendWatchHistoryFunc != nil {
		return s.AppendWatchHistoryFunc(ctx, userID, videoID)
	}
	return nil
}

type stubSessions struct {
	LoginFunc          func(ctx context.Context, identifier, password string) (models.User, models.SessionTokens, error)
	RefreshFunc        func(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	LogoutFunc         func(ctx context.Context, userID string) error
	ChangePasswordFunc func(ctx context.Context, userID, oldPassword, newPassword string) error
}

func (s *stubSessions) Login(ctx context.Context, identifier, password string) (models.User, models.SessionTokens, error) {
	if s.LoginFunc != nil {
		return s.LoginFunc(ctx, identifier, password)
	}
	return models.User{}, models.SessionTokens{}, repositories.ErrNotFound
}

func (s *stubSessions) Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error) {
	if s.RefreshFunc != nil {
		return s.RefreshFunc(ctx, refreshToken)
	}
	return models.SessionTokens{}, repositories.ErrNotFound
}

func (s *stubSessions) Logout(ctx context.Context, userID string) error {
	if s.LogoutFunc != nil {
		return s.LogoutFunc(ctx, userID)
	}
	return nil
}

func (s *stubSessions) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if s.ChangePasswordFunc != nil {
		return s.ChangePasswordFunc(ctx, userID, oldPassword, newPassword)
	}
	return nil
}

type stubVideoStore struct {
	CreateFunc        func(ctx context.Context, video models.Video) error
	FindByIDFunc      func(ctx context.Context, id string) (models.Video, error)
	UpdateFunc        func(ctx context.Context, id string, patch repositories.VideoPatch) (models.Video, error)
	DeleteFunc        func(ctx context.Context, id string) error
	TogglePublishFunc func(ctx context.Context, id string) (bool, error)
}

func (s *stubVideoStore) Create(ctx context.Context, video models.Video) error {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, video)
	}
	return nil
}

func (s *stubVideoStore) FindByID(ctx context.Context, id string) (models.Video, error) {
	if s.FindByIDFunc != nil {
		return s.FindByIDFunc(ctx, id)
	}
	return models.Video{}, repositories.ErrNotFound
}

func (s *stubVideoStore) Update(ctx context.Context, id string, patch repositories.VideoPatch) (models.Video, error) {
	if s.UpdateFunc != nil {
		return s.UpdateFunc(ctx, id, patch)
	}
	return models.Video{}, repositories.ErrNotFound
}

func (s *stubVideoStore) Delete(ctx context.Context, id string) error {
	if s.DeleteFunc != nil {
		return s.DeleteFunc(ctx, id)
	}
	return nil
}

func (s *stubVideoStore) TogglePublish(ctx context.Context, id string) (bool, error) {
	if s.TogglePublishFunc != nil {
		return s.TogglePublishFunc(ctx, id)
	}
	return false, nil
}

type stubCommentStore struct {
	CreateFunc        func(ctx context.Context, comment models.Comment) error
	FindByIDFunc      func(ctx context.Context, id string) (models.Comment, error)
	UpdateContentFunc func(ctx context.Context, id, content string) error
	DeleteFunc        func(ctx context.Context, id string) error
}

func (s *stubCommentStore) Create(ctx context.Context, comment models.Comment) error {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, comment)
	}
	return nil
}

func (s *stubCommentStore) FindByID(ctx context.Context, id string) (models.Comment, error) {
	if s.FindByIDFunc != nil {
		return s.FindByIDFunc(ctx, id)
	}
	return models.Comment{}, repositories.ErrNotFound
}

func (s *stubCommentStore) UpdateContent(ctx context.Context, id, content string) error {
	if s.UpdateContentFunc != nil {
		return s.UpdateContentFunc(ctx, id, content)
	}
	return nil
}

func (s *stubCommentStore) Delete(ctx context.Context, id string) error {
	if s.DeleteFunc != nil {
		return s.DeleteFunc(ctx, id)
	}
	return nil
}

type stubTweetStore struct {
	CreateFunc        func(ctx context.Context, tweet models.Tweet) error
	FindByIDFunc      func(ctx context.Context, id string) (models.Tweet, error)
	UpdateContentFunc func(ctx context.Context, id, content string) error
	DeleteFunc        func(ctx context.Context, id string) error
}

func (s *stubTweetStore) Create(ctx context.Context, tweet models.Tweet) error {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, tweet)
	}
	return nil
}

func (s *stubTweetStore) FindByID(ctx context.Context, id string) (models.Tweet, error) {
	if s.FindByIDFunc != nil {
		return s.FindByIDFunc(ctx, id)
	}
	return models.Tweet{}, repositories.ErrNotFound
}

func (s *stubTweetStore) UpdateContent(ctx context.Context, id, content string) error {
	if s.UpdateContentFunc != nil {
		return s.UpdateContentFunc(ctx, id, content)
	}
	return nil
}

func (s *stubTweetStore) Delete(ctx context.Context, id string) error {
	if s.DeleteFunc != nil {
		return s.DeleteFunc(ctx, id)
	}
	return nil
}

type stubLikeStore struct {
	FindFunc   func(ctx context.Context, target models.LikeTarget, targetID, userID string) (models.Like, error)
	CreateFunc func(ctx context.Context, target models.LikeTarget, targetID, userID, likeID string) error
	DeleteFunc func(ctx context.Context, id string) error
	ExistsFunc func(ctx context.Context, target models.LikeTarget, targetID, userID string) (bool, error)
}

func (s *stubLikeStore) Find(ctx context.Context, target models.LikeTarget, targetID, userID string) (models.Like, error) {
	if s.FindFunc != nil {
		return s.FindFunc(ctx, target, targetID, userID)
	}
	return models.Like{}, repositories.ErrNotFound
}

func (s *stubLikeStore) Create(ctx context.Context, target models.LikeTarget, targetID, userID, likeID string) error {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, target, targetID, userID, likeID)
	}
	return nil
}

func (s *stubLikeStore) Delete(ctx context.Context, id string) error {
	if s.DeleteFunc != nil {
		return s.DeleteFunc(ctx, id)
	}
	return nil
}

func (s *stubLikeStore) Exists(ctx context.Context, target models.LikeTarget, targetID, userID string) (bool, error) {
	if s.ExistsFunc != nil {
		return s.ExistsFunc(ctx, target, targetID, userID)
	}
	return false, nil
}

type stubSubscriptionStore struct {
	FindFunc         func(ctx context.Context, subscriberID, channelID string) (models.Subscription, error)
	CreateFunc       func(ctx context.Context, sub models.Subscription) error
	DeleteFunc       func(ctx context.Context, subscriberID, channelID string) error
	ListChannelsFunc func(ctx context.Context, subscriberID string) ([]models.OwnerSummary, error)
}

func (s *stubSubscriptionStore) Find(ctx context.Context, subscriberID, channelID string) (models.Subscription, error) {
	if s.FindFunc != nil {
		return s.FindFunc(ctx, subscriberID, channelID)
	}
	return models.Subscription{}, repositories.ErrNotFound
}

func (s *stubSubscriptionStore) Create(ctx context.Context, sub models.Subscription) error {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, sub)
	}
	return nil
}

func (s *stubSubscriptionStore) Delete(ctx context.Context, subscriberID, channelID string) error {
	if s.DeleteFunc != nil {
		return s.DeleteFunc(ctx, subscriberID, channelID)
	}
	return nil
}

func (s *stubSubscriptionStore) ListChannels(ctx context.Context, subscriberID string) ([]models.OwnerSummary, error) {
	if s.ListChannelsFunc != nil {
		return s.ListChannelsFunc(ctx, subscriberID)
	}
	return []models.OwnerSummary{}, nil
}

type stubViews struct {
	VideoFeedFunc        func(ctx context.Context, opts queries.FeedOptions, params pagination.Params) (pagination.Page[models.VideoView], error)
	VideoByIDFunc        func(ctx context.Context, videoID string) (models.VideoView, error)
	CommentsForVideoFunc func(ctx context.Context, videoID, viewerID string, params pagination.Params) (pagination.Page[models.CommentView], error)
	ChannelProfileFunc   func(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
	WatchHistoryFunc     func(ctx context.Context, userID string) ([]models.VideoView, error)
	LikedVideosFunc      func(ctx context.Context, userID string) ([]models.VideoView, error)
	UserTweetsFunc       func(ctx context.Context, userID string, params pagination.Params) (pagination.Page[models.TweetView], error)
}

func (s *stubViews) VideoFeed(ctx context.Context, opts queries.FeedOptions, params pagination.Params) (pagination.Page[models.VideoView], error) {
	if s.VideoFeedFunc != nil {
		return s.VideoFeedFunc(ctx, opts, params)
	}
	return pagination.Page[models.VideoView]{}, nil
}

func (s *stubViews) VideoByID(ctx context.Context, videoID string) (models.VideoView, error) {
	if s.VideoByIDFunc != nil {
		return s.VideoByIDFunc(ctx, videoID)
	}
	return models.VideoView{}, repositories.ErrNotFound
}

func (s *stubViews) CommentsForVideo(ctx context.Context, videoID, viewerID string, params pagination.Params) (pagination.Page[models.CommentView], error) {
	if s.CommentsForVideoFunc != nil {
		return s.CommentsForVideoFunc(ctx, videoID, viewerID, params)
	}
	return pagination.Page[models.CommentView]{}, nil
}

func (s *stubViews) ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error) {
	if s.ChannelProfileFunc != nil {
		return s.ChannelProfileFunc(ctx, username, viewerID)
	}
	return models.ChannelProfile{}, repositories.ErrNotFound
}

func (s *stubViews) WatchHistory(ctx context.Context, userID string) ([]models.VideoView, error) {
	if s.WatchHistoryFunc != nil {
		return s.WatchHistoryFunc(ctx, userID)
	}
	return []models.VideoView{}, nil
}

func (s *stubViews) LikedVideos(ctx context.Context, userID string) ([]models.VideoView, error) {
	if s.LikedVideosFunc != nil {
		return s.LikedVideosFunc(ctx, userID)
	}
	return []models.VideoView{}, nil
}

func (s *stubViews) UserTweets(ctx context.Context, userID string, params pagination.Params) (pagination.Page[models.TweetView], error) {
	if s.UserTweetsFunc != nil {
		return s.UserTweetsFunc(ctx, userID, params)
	}
	return pagination.Page[models.TweetView]{}, nil
}

type stubMedia struct {
	UploadFunc func(ctx context.Context, localPath, folder string) (media.Asset, error)
	DeleteFunc func(ctx context.Context, url, resourceType string) error

	deleted []string
}

func (s *stubMedia) Upload(ctx context.Context, localPath, folder string) (media.Asset, error) {
	if s.UploadFunc != nil {
		return s.UploadFunc(ctx, localPath, folder)
	}
	return media.Asset{URL: "https://media.local/" + folder + "/object"}, nil
}

func (s *stubMedia) Delete(ctx context.Context, url, resourceType string) error {
	s.deleted = append(s.deleted, url)
	if s.DeleteFunc != nil {
		return s.DeleteFunc(ctx, url, resourceType)
	}
	return nil
}
