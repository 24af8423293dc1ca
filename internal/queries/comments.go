package queries

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/pagination"
)

// CommentsForVideo runs the comment-page pipeline for a video: newest first,
// owner projected to public fields, and each row annotated with whether the
// requesting viewer authored it. viewerID may be empty for anonymous callers.
func (q *Queries) CommentsForVideo(ctx context.Context, videoID, viewerID string, params pagination.Params) (pagination.Page[models.CommentView], error) {
	where := `
        FROM comments c
        JOIN users u ON u.id = c.owner_id
        WHERE c.video_id = $1`

	return paginate(ctx, q.pool, params,
		`SELECT COUNT(*)`+where, []any{videoID},
		`SELECT c.id, c.content, c.created_at,
                u.id, u.full_name, u.username, u.avatar,
                (c.owner_id = $2) AS is_owner`+where+` ORDER BY c.created_at DESC, c.id`,
		[]any{videoID, viewerID},
		scanCommentView)
}

func scanCommentView(rows pgx.Rows) (models.CommentView, error) {
	var view models.CommentView
	err := rows.Scan(&view.ID, &view.Content, &view.CreatedAt,
		&view.Owner.ID, &view.Owner.FullName, &view.Owner.Username, &view.Owner.Avatar,
		&view.IsOwner)
	return view, err
}
