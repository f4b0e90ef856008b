package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jupiterclapton/social-service/internal/core/domain"
)

type addEdgeFunc func(ctx context.Context, postID, userID string) (*domain.Edge, error)

// POST /api/posts/{post_id}/like/{user_id}
func (h *Handler) handleLike(w http.ResponseWriter, r *http.Request) {
	h.handleInteraction(w, r, "like", h.ledger.AddLike)
}

// POST /api/posts/{post_id}/share/{user_id}
func (h *Handler) handleShare(w http.ResponseWriter, r *http.Request) {
	h.handleInteraction(w, r, "share", h.ledger.AddShare)
}

func (h *Handler) handleInteraction(w http.ResponseWriter, r *http.Request, op string, add addEdgeFunc) {
	postID := chi.URLParam(r, "post_id")
	userID := chi.URLParam(r, "user_id")
	if !validIDs(w, postID, userID) {
		return
	}
	if !requireActor(w, r, userID) {
		return
	}

	edge, err := add(r.Context(), postID, userID)
	h.metrics.observeLedger(op, outcome(err))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEdgeResponse(edge))
}

// POST /api/users/{follower_id}/follow/{following_id}
func (h *Handler) handleFollow(w http.ResponseWriter, r *http.Request) {
	followerID := chi.URLParam(r, "follower_id")
	followingID := chi.URLParam(r, "following_id")
	if !validIDs(w, followerID, followingID) {
		return
	}
	if !requireActor(w, r, followerID) {
		return
	}

	edge, err := h.ledger.AddFollow(r.Context(), followerID, followingID)
	h.metrics.observeLedger("follow", outcome(err))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEdgeResponse(edge))
}

// GET /api/users/{user_id}/followers
func (h *Handler) handleListFollowers(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if !validIDs(w, userID) {
		return
	}

	users, err := h.ledger.ListFollowers(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponses(users))
}

// GET /api/users/{user_id}/following
func (h *Handler) handleListFollowing(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if !validIDs(w, userID) {
		return
	}

	users, err := h.ledger.ListFollowing(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponses(users))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrDuplicateEdge):
		return "duplicate"
	case errors.Is(err, domain.ErrInvalidRelationship):
		return "invalid"
	case errors.Is(err, domain.ErrStorageFailure):
		return "storage_failure"
	default:
		return "error"
	}
}
