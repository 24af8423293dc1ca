package queries

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/pagination"
)

// UserTweets returns a user's tweets newest first, each with the owner
// projected to public fields.
func (q *Queries) UserTweets(ctx context.Context, userID string, params pagination.Params) (pagination.Page[models.TweetView], error) {
	where := `
        FROM tweets t
        JOIN users u ON u.id = t.owner_id
        WHERE t.owner_id = $1`
	args := []any{userID}

	return paginate(ctx, q.pool, params,
		`SELECT COUNT(*)`+where, args,
		`SELECT t.id, t.owner_id, t.content, t.created_at, t.updated_at,
                u.id, u.full_name, u.username, u.avatar`+where+` ORDER BY t.created_at DESC, t.id`,
		args, scanTweetView)
}

func scanTweetView(rows pgx.Rows) (models.TweetView, error) {
	var view models.TweetView
	err := rows.Scan(&view.ID, &view.OwnerID, &view.Content, &view.CreatedAt, &view.UpdatedAt,
		&view.Owner.ID, &view.Owner.FullName, &view.Owner.Username, &view.Owner.Avatar)
	return view, err
}
