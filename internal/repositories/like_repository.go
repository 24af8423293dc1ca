package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cliptube/backend/internal/db"
	"github.com/cliptube/backend/internal/models"
)

// PostgresLikeRepository provides PostgreSQL-backed persistence for likes.
type PostgresLikeRepository struct {
	pool db.Pool
}

// NewPostgresLikeRepository constructs a like repository backed by PostgreSQL.
func NewPostgresLikeRepository(pool db.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

// Find returns the like the user holds on the target, or ErrNotFound.
func (r *PostgresLikeRepository) Find(ctx context.Context, target models.LikeTarget, targetID, userID string) (models.Like, error) {
	column, err := targetColumn(target)
	if err != nil {
		return models.Like{}, err
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Like{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, COALESCE(video_id, ''), COALESCE(comment_id, ''), COALESCE(tweet_id, ''), liked_by, created_at
        FROM likes
        WHERE `+column+` = $1 AND liked_by = $2
    `, targetID, userID)

	var like models.Like
	if err := row.Scan(&like.ID, &like.VideoID, &like.CommentID, &like.TweetID, &like.LikedBy, &like.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Like{}, ErrNotFound
		}
		return models.Like{}, fmt.Errorf("select like: %w", err)
	}

	return like, nil
}

// Create inserts a like for the target. The partial unique indexes make a
// concurrent duplicate insert surface as ErrConflict instead of a second row.
func (r *PostgresLikeRepository) Create(ctx context.Context, target models.LikeTarget, targetID, userID, likeID string) error {
	column, err := targetColumn(target)
	if err != nil {
		return err
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO likes (id, `+column+`, liked_by, created_at)
        VALUES ($1, $2, $3, NOW())
    `, likeID, targetID, userID)
	if err != nil {
		return writeError("insert like", err)
	}

	return nil
}

// Delete removes a like by id. Deleting an already removed like is a no-op.
func (r *PostgresLikeRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `DELETE FROM likes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete like: %w", err)
	}

	return nil
}

// Exists reports whether the user currently likes the target.
func (r *PostgresLikeRepository) Exists(ctx context.Context, target models.LikeTarget, targetID, userID string) (bool, error) {
	_, err := r.Find(ctx, target, targetID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func targetColumn(target models.LikeTarget) (string, error) {
	switch target {
	case models.LikeTargetVideo:
		return "video_id", nil
	case models.LikeTargetComment:
		return "comment_id", nil
	case models.LikeTargetTweet:
		return "tweet_id", nil
	default:
		return "", fmt.Errorf("unknown like target %q", target)
	}
}
