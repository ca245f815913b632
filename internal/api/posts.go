package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"metacircle/metasync/internal/common"
	"metacircle/metasync/internal/logging"
	"metacircle/metasync/internal/models/dtos"
	"metacircle/metasync/internal/models/entities"
	"metacircle/metasync/internal/store"
)

// CreatePost handles POST /api/posts: validate, persist, announce.
// Persisting and broadcasting are two separate steps with no atomicity
// between them; a crash in between leaves the post stored but never
// announced.
func (h *Handlers) CreatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.InsertPost
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if errs := common.ValidateStruct(req); errs != nil {
			respondValidationErrors(w, errs)
			return
		}

		post, err := h.deps.Store.CreatePost(r.Context(), req)
		if err != nil {
			logging.Error("Failed to create post", "space_id", req.SpaceID, "error", err.Error())
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.deps.Metrics.EntitiesCreatedTotal.WithLabelValues("post").Inc()
		h.invalidateStatsForSpace(r, post.SpaceID)

		// Author lookup failure is tolerated; the frame and the response
		// simply omit the join.
		withAuthor := entities.PostWithAuthor{Post: *post}
		if author, err := h.deps.Store.GetUser(r.Context(), post.AuthorID); err == nil {
			withAuthor.Author = author
		}

		h.deps.Broadcaster.Broadcast(dtos.WSFrame{Type: dtos.WSTypeNewPost, Data: withAuthor})

		respondJSON(w, http.StatusCreated, withAuthor)
	}
}

// LikePost handles POST /api/posts/{id}/like.
func (h *Handlers) LikePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := urlParamInt(r, "id")
		if !ok {
			respondError(w, http.StatusBadRequest, "Invalid post id")
			return
		}

		post, err := h.deps.Store.LikePost(r.Context(), postID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(w, http.StatusNotFound, "Post not found")
				return
			}
			logging.Error("Failed to like post", "post_id", postID, "error", err.Error())
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		h.deps.Broadcaster.Broadcast(dtos.WSFrame{Type: dtos.WSTypePostLiked, Data: post})

		respondJSON(w, http.StatusOK, post)
	}
}

// invalidateStatsForSpace drops the cached aggregate of the community the
// space belongs to. Best-effort: a dangling space id just means the TTL
// handles expiry instead.
func (h *Handlers) invalidateStatsForSpace(r *http.Request, spaceID int) {
	space, err := h.deps.Store.GetSpace(r.Context(), spaceID)
	if err != nil {
		return
	}
	h.deps.Services.Stats.Invalidate(space.CommunityID)
}
