// Package queries implements the aggregation query layer: multi-stage joins
// producing denormalized, paginated view models. Each query is one fixed SQL
// statement whose clause order mirrors its stage order (filter before join,
// join before projection), executed through the shared paginated runner.
package queries

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cliptube/backend/internal/db"
	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/pagination"
)

// Queries executes the aggregation pipelines against the document store.
type Queries struct {
	pool db.Pool
}

// New constructs the aggregation query layer over the provided pool.
func New(pool db.Pool) *Queries {
	return &Queries{pool: pool}
}

// paginate runs the count and page halves of a paginated query and assembles
// the shared result envelope. baseSQL must end with its ORDER BY clause and
// omit LIMIT/OFFSET; countArgs contains the subset of args the count query
// references.
func paginate[T any](ctx context.Context, pool db.Pool, params pagination.Params, countSQL string, countArgs []any, baseSQL string, args []any, scan func(pgx.Rows) (T, error)) (pagination.Page[T], error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return pagination.Page[T]{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int
	if err := conn.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return pagination.Page[T]{}, fmt.Errorf("count query: %w", err)
	}

	pageSQL := fmt.Sprintf("%s LIMIT $%d OFFSET $%d", baseSQL, len(args)+1, len(args)+2)
	rows, err := conn.Query(ctx, pageSQL, append(args, params.Limit, params.Offset())...)
	if err != nil {
		return pagination.Page[T]{}, fmt.Errorf("page query: %w", err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return pagination.Page[T]{}, fmt.Errorf("scan page row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return pagination.Page[T]{}, fmt.Errorf("iterate page rows: %w", err)
	}

	return pagination.NewPage(items, total, params), nil
}

func scanVideoView(rows pgx.Rows) (models.VideoView, error) {
	var view models.VideoView
	err := rows.Scan(&view.ID, &view.OwnerID, &view.Title, &view.Description, &view.VideoFile,
		&view.Thumbnail, &view.Duration, &view.IsPublished, &view.CreatedAt, &view.UpdatedAt,
		&view.Owner.ID, &view.Owner.FullName, &view.Owner.Username, &view.Owner.Avatar)
	return view, err
}
