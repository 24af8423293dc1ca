package models

import "time"

// User represents an account within the ClipTube platform. Password holds the
// bcrypt hash, never the plaintext; RefreshToken is the single active refresh
// token for the account (empty when logged out).
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	Avatar       string    `json:"avatar"`
	CoverImage   string    `json:"coverImage,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	AboutMe      string    `json:"aboutMe,omitempty"`
	Password     string    `json:"-"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// OwnerSummary is the public projection of a user attached to owned entities.
type OwnerSummary struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// Video is an uploaded clip. OwnerID is immutable after creation; Duration is
// supplied by the media provider at upload time.
type Video struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// VideoView is a video denormalized with its owner projection.
type VideoView struct {
	Video
	Owner OwnerSummary `json:"owner"`
}

// Comment is user-authored text attached to a video.
type Comment struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"videoId"`
	OwnerID   string    `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentView annotates a comment with its owner projection and whether the
// requesting viewer authored it.
type CommentView struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	Owner     OwnerSummary `json:"owner"`
	IsOwner   bool         `json:"isOwner"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Tweet is a short standalone post.
type Tweet struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TweetView is a tweet denormalized with its owner projection.
type TweetView struct {
	Tweet
	Owner OwnerSummary `json:"owner"`
}

// LikeTarget names the kind of entity a like points at.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Like records that a user liked exactly one of a video, comment, or tweet.
type Like struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"videoId,omitempty"`
	CommentID string    `json:"commentId,omitempty"`
	TweetID   string    `json:"tweetId,omitempty"`
	LikedBy   string    `json:"likedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// Subscription records that Subscriber follows Channel. Both reference users.
type Subscription struct {
	ID         string    `json:"id"`
	Subscriber string    `json:"subscriber"`
	Channel    string    `json:"channel"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ChannelProfile is the public aggregate view of a user's channel.
type ChannelProfile struct {
	ID              string `json:"id"`
	FullName        string `json:"fullName"`
	Username        string `json:"username"`
	Avatar          string `json:"avatar,omitempty"`
	CoverImage      string `json:"coverImage,omitempty"`
	SubscriberCount int    `json:"subscriberCount"`
	ChannelCount    int    `json:"channelCount"`
	IsSubscribed    bool   `json:"isSubscribed"`
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// Sanitized returns a copy of the user safe for API responses: the password
// hash and refresh token are stripped.
func (u User) Sanitized() User {
	u.Password = ""
	u.RefreshToken = ""
	return u
}
