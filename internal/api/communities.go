package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"metacircle/metasync/internal/constants"
	"metacircle/metasync/internal/logging"
	"metacircle/metasync/internal/models/entities"
	"metacircle/metasync/internal/store"
)

// GetCommunityBySlug handles GET /api/communities/{slug}.
func (h *Handlers) GetCommunityBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		community, err := h.deps.Store.GetCommunityBySlug(r.Context(), slug)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(w, http.StatusNotFound, "Community not found")
				return
			}
			logging.Error("Failed to load community", "slug", slug, "error", err.Error())
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		respondJSON(w, http.StatusOK, community)
	}
}

// ListCommunitySpaces handles GET /api/communities/{id}/spaces.
func (h *Handlers) ListCommunitySpaces() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		communityID, ok := urlParamInt(r, "id")
		if !ok {
			respondError(w, http.StatusBadRequest, "Invalid community id")
			return
		}

		spaces, err := h.deps.Store.GetCommunitySpaces(r.Context(), communityID)
		if err != nil {
			logging.Error("Failed to list spaces", "community_id", communityID, "error", err.Error())
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if spaces == nil {
			spaces = []entities.Space{}
		}

		respondJSON(w, http.StatusOK, spaces)
	}
}

// GetCommunityStats handles GET /api/communities/{id}/stats.
func (h *Handlers) GetCommunityStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		communityID, ok := urlParamInt(r, "id")
		if !ok {
			respondError(w, http.StatusBadRequest, "Invalid community id")
			return
		}

		stats, err := h.deps.Services.Stats.CommunityStats(r.Context(), communityID)
		if err != nil {
			logging.Error("Failed to aggregate stats", "community_id", communityID, "error", err.Error())
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		respondJSON(w, http.StatusOK, stats)
	}
}

// ListRecentPosts handles GET /api/communities/{id}/posts?limit=.
func (h *Handlers) ListRecentPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		communityID, ok := urlParamInt(r, "id")
		if !ok {
			respondError(w, http.StatusBadRequest, "Invalid community id")
			return
		}
		limit := queryInt(r, "limit", constants.DefaultRecentPostsLimit)

		posts, err := h.deps.Store.GetRecentPosts(r.Context(), communityID, limit)
		if err != nil {
			logging.Error("Failed to list recent posts", "community_id", communityID, "error", err.Error())
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		respondJSON(w, http.StatusOK, posts)
	}
}

// ListUpcomingEvents handles GET /api/communities/{id}/events?limit=.
func (h *Handlers) ListUpcomingEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		communityID, ok := urlParamInt(r, "id")
		if !ok {
			respondError(w, http.StatusBadRequest, "Invalid community id")
			return
		}
		limit := queryInt(r, "limit", constants.DefaultUpcomingEventsLimit)

		events, err := h.deps.Store.GetUpcomingEvents(r.Context(), communityID, limit)
		if err != nil {
			logging.Error("Failed to list upcoming events", "community_id", communityID, "error", err.Error())
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		respondJSON(w, http.StatusOK, events)
	}
}

// ListTopMembers handles GET /api/communities/{id}/members/top?limit=.
func (h *Handlers) ListTopMembers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		communityID, ok := urlParamInt(r, "id")
		if !ok {
			respondError(w, http.StatusBadRequest, "Invalid community id")
			return
		}
		limit := queryInt(r, "limit", constants.DefaultTopMembersLimit)

		members, err := h.deps.Store.GetTopMembers(r.Context(), communityID, limit)
		if err != nil {
			logging.Error("Failed to list top members", "community_id", communityID, "error", err.Error())
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		respondJSON(w, http.StatusOK, members)
	}
}
