package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"metacircle/metasync/internal/common"
	"metacircle/metasync/internal/logging"
	"metacircle/metasync/internal/models/dtos"
	"metacircle/metasync/internal/store"
)

// UpdateMemberPoints handles PUT /api/members/{userId}/points with upsert
// semantics; the row's level is always recomputed from the new points
// value.
func (h *Handlers) UpdateMemberPoints() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := urlParamInt(r, "userId")
		if !ok {
			respondError(w, http.StatusBadRequest, "Invalid user id")
			return
		}

		var req dtos.UpdatePointsReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if errs := common.ValidateStruct(req); errs != nil {
			respondValidationErrors(w, errs)
			return
		}

		row, err := h.deps.Store.UpdateMemberPoints(r.Context(), userID, req.CommunityID, *req.Points)
		if err != nil {
			logging.Error("Failed to update member points",
				"user_id", userID,
				"community_id", req.CommunityID,
				"error", err.Error(),
			)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.deps.Services.Stats.Invalidate(req.CommunityID)

		h.deps.Broadcaster.Broadcast(dtos.WSFrame{
			Type: dtos.WSTypePointsUpdated,
			Data: dtos.PointsUpdatedData{
				UserID:      row.UserID,
				CommunityID: row.CommunityID,
				Points:      row.Points,
				Level:       row.Level,
			},
		})

		respondJSON(w, http.StatusOK, row)
	}
}

// GetMemberPoints handles GET /api/members/{userId}/points?communityId=.
func (h *Handlers) GetMemberPoints() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := urlParamInt(r, "userId")
		if !ok {
			respondError(w, http.StatusBadRequest, "Invalid user id")
			return
		}
		communityID := queryInt(r, "communityId", 0)
		if communityID <= 0 {
			respondError(w, http.StatusBadRequest, "communityId query parameter is required")
			return
		}

		row, err := h.deps.Store.GetMemberPoints(r.Context(), userID, communityID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(w, http.StatusNotFound, "No points recorded for this member")
				return
			}
			logging.Error("Failed to load member points", "user_id", userID, "error", err.Error())
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		respondJSON(w, http.StatusOK, row)
	}
}
