package queries

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/repositories"
)

// ChannelProfile runs the channel aggregate for an exact lowercased username:
// the subscriptions table is consulted twice, once with the user as channel
// (subscriber count) and once as subscriber (followed-channel count), and
// isSubscribed tests the requester's membership among the subscribers.
// viewerID may be empty for anonymous callers. Returns ErrNotFound when the
// username does not exist.
func (q *Queries) ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error) {
	conn, err := q.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelProfile{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT u.id, u.full_name, u.username, u.avatar, u.cover_image,
               (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id) AS subscriber_count,
               (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS channel_count,
               EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = $2) AS is_subscribed
        FROM users u
        WHERE u.username = $1
    `, strings.ToLower(strings.TrimSpace(username)), viewerID)

	var profile models.ChannelProfile
	err = row.Scan(&profile.ID, &profile.FullName, &profile.Username, &profile.Avatar, &profile.CoverImage,
		&profile.SubscriberCount, &profile.ChannelCount, &profile.IsSubscribed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ChannelProfile{}, repositories.ErrNotFound
		}
		return models.ChannelProfile{}, fmt.Errorf("select channel profile: %w", err)
	}

	return profile, nil
}
