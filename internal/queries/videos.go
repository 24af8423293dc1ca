package queries

import (
	"context"
	"fmt"

	"github.com/cliptube/backend/internal/apperr"
	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/pagination"
	"github.com/cliptube/backend/internal/repositories"
)

const videoViewColumns = `
        v.id, v.owner_id, v.title, v.description, v.video_file, v.thumbnail,
        v.duration, v.is_published, v.created_at, v.updated_at,
        u.id, u.full_name, u.username, u.avatar`

// FeedOptions are the caller-controlled knobs of the video feed pipeline.
type FeedOptions struct {
	// Query filters by case-insensitive substring match on the title.
	Query string
	// Username filters by the joined owner's username after sorting.
	Username string
	// SortBy selects the sort field; empty means creation time ascending.
	SortBy   string
	SortDesc bool
}

var feedSortColumns = map[string]string{
	"title":     "v.title",
	"duration":  "v.duration",
	"createdAt": "v.created_at",
}

// VideoFeed runs the published-video feed pipeline: title filter, owner
// lookup projected to public fields, caller-chosen sort, then the owner
// username post-filter. Totals reflect the post-filtered set.
func (q *Queries) VideoFeed(ctx context.Context, opts FeedOptions, params pagination.Params) (pagination.Page[models.VideoView], error) {
	orderBy := "v.created_at ASC"
	if opts.SortBy != "" {
		column, ok := feedSortColumns[opts.SortBy]
		if !ok {
			return pagination.Page[models.VideoView]{}, apperr.New(apperr.InvalidInput, fmt.Sprintf("unsupported sort field %q", opts.SortBy))
		}
		direction := "ASC"
		if opts.SortDesc {
			direction = "DESC"
		}
		orderBy = column + " " + direction
	}

	where := `
        FROM videos v
        JOIN users u ON u.id = v.owner_id
        WHERE v.is_published
          AND ($1 = '' OR v.title ILIKE '%' || $1 || '%')
          AND ($2 = '' OR u.username = $2)`
	args := []any{opts.Query, opts.Username}

	return paginate(ctx, q.pool, params,
		`SELECT COUNT(*)`+where, args,
		`SELECT `+videoViewColumns+where+` ORDER BY `+orderBy+`, v.id`, args,
		scanVideoView)
}

// VideoByID fetches a single video hydrated with its owner projection.
func (q *Queries) VideoByID(ctx context.Context, videoID string) (models.VideoView, error) {
	conn, err := q.pool.Acquire(ctx)
	if err != nil {
		return models.VideoView{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+videoViewColumns+`
        FROM videos v
        JOIN users u ON u.id = v.owner_id
        WHERE v.id = $1
    `, videoID)
	if err != nil {
		return models.VideoView{}, fmt.Errorf("query video: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return models.VideoView{}, fmt.Errorf("query video: %w", err)
		}
		return models.VideoView{}, repositories.ErrNotFound
	}

	view, err := scanVideoView(rows)
	if err != nil {
		return models.VideoView{}, fmt.Errorf("scan video: %w", err)
	}

	return view, nil
}

// WatchHistory hydrates the user's ordered video references, each with its
// owner projection, preserving insertion (viewing) order.
func (q *Queries) WatchHistory(ctx context.Context, userID string) ([]models.VideoView, error) {
	conn, err := q.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+videoViewColumns+`
        FROM watch_history wh
        JOIN videos v ON v.id = wh.video_id
        JOIN users u ON u.id = v.owner_id
        WHERE wh.user_id = $1
        ORDER BY wh.seq
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query watch history: %w", err)
	}
	defer rows.Close()

	history := []models.VideoView{}
	for rows.Next() {
		view, err := scanVideoView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan watch history row: %w", err)
		}
		history = append(history, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watch history: %w", err)
	}

	return history, nil
}

// LikedVideos returns the videos the user has liked, each with its owner
// projection. An empty slice means the user has liked nothing; it is not an
// error.
func (q *Queries) LikedVideos(ctx context.Context, userID string) ([]models.VideoView, error) {
	conn, err := q.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+videoViewColumns+`
        FROM likes l
        JOIN videos v ON v.id = l.video_id
        JOIN users u ON u.id = v.owner_id
        WHERE l.liked_by = $1 AND l.video_id IS NOT NULL
        ORDER BY l.created_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	liked := []models.VideoView{}
	for rows.Next() {
		view, err := scanVideoView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan liked video: %w", err)
		}
		liked = append(liked, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate liked videos: %w", err)
	}

	return liked, nil
}
