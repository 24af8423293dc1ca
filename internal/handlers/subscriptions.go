package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/cliptube/backend/internal/auth"
	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/repositories"
)

// SubscriptionHandler implements channel subscription endpoints.
type SubscriptionHandler struct {
	Subscriptions SubscriptionStore
	Users         UserStore
	NowFunc       func() time.Time
}

// Toggle handles POST /api/v1/subscriptions/c/{channelId}. Subscribing to a
// missing channel is a 404; subscribing to yourself is rejected.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := auth.UserIDFromContext(ctx)

	channelID := r.PathValue("channelId")
	if channelID == "" {
		respondError(ctx, w, invalidInput("channel id is required"))
		return
	}
	if channelID == userID {
		respondError(ctx, w, invalidInput("you cannot subscribe to your own channel"))
		return
	}

	if _, err := h.Users.FindByID(ctx, channelID); err != nil {
		respondError(ctx, w, err)
		return
	}

	existing, err := h.Subscriptions.Find(ctx, userID, channelID)
	switch {
	case err == nil:
		if err := h.Subscriptions.Delete(ctx, existing.Subscriber, existing.Channel); err != nil {
			respondError(ctx, w, err)
			return
		}
		respondData(ctx, w, http.StatusOK, "unsubscribed successfully", map[string]bool{"subscribed": false})
	case errors.Is(err, repositories.ErrNotFound):
		sub := models.Subscription{
			ID:         uuid.NewString(),
			Subscriber: userID,
			Channel:    channelID,
			CreatedAt:  h.now(),
		}
		err := h.Subscriptions.Create(ctx, sub)
		if err != nil && !errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, err)
			return
		}
		respondData(ctx, w, http.StatusOK, "subscribed successfully", map[string]bool{"subscribed": true})
	default:
		respondError(ctx, w, err)
	}
}

// ListChannels handles GET /api/v1/subscriptions, newest subscription first.
func (h SubscriptionHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channels, err := h.Subscriptions.ListChannels(ctx, auth.UserIDFromContext(ctx))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, "subscribed channels fetched successfully", channels)
}

func (h SubscriptionHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
