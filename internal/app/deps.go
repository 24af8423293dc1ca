package app

import (
	"context"

	"github.com/cliptube/backend/internal/auth"
	"github.com/cliptube/backend/internal/config"
	"github.com/cliptube/backend/internal/db"
	"github.com/cliptube/backend/internal/handlers"
	"github.com/cliptube/backend/internal/media"
	"github.com/cliptube/backend/internal/middleware"
	"github.com/cliptube/backend/internal/queries"
	"github.com/cliptube/backend/internal/repositories"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	probe := media.NewFFProbe(cfg.Probe.FFProbePath, cfg.Probe.Timeout)
	store, err := media.NewS3Service(ctx, cfg.ObjectStore, probe)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	tokens := auth.NewTokenService(cfg.Auth)
	users := repositories.NewPostgresUserRepository(pool)

	return handlers.Dependencies{
		Users:         users,
		Sessions:      auth.NewSession(tokens, users),
		Hasher:        tokens,
		Videos:        repositories.NewPostgresVideoRepository(pool),
		Comments:      repositories.NewPostgresCommentRepository(pool),
		Tweets:        repositories.NewPostgresTweetRepository(pool),
		Likes:         repositories.NewPostgresLikeRepository(pool),
		Subscriptions: repositories.NewPostgresSubscriptionRepository(pool),
		Views:         queries.New(pool),
		Media:         store,
		Verifier:      tokens,
		Limiter: middleware.NewIPRateLimiter(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Window,
			cfg.RateLimit.Burst,
			cfg.RateLimit.TTL,
		),
	}, nil
}
