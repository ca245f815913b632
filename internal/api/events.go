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

// CreateEvent handles POST /api/events.
func (h *Handlers) CreateEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.InsertEvent
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if errs := common.ValidateStruct(req); errs != nil {
			respondValidationErrors(w, errs)
			return
		}

		event, err := h.deps.Store.CreateEvent(r.Context(), req)
		if err != nil {
			logging.Error("Failed to create event", "space_id", req.SpaceID, "error", err.Error())
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.deps.Metrics.EntitiesCreatedTotal.WithLabelValues("event").Inc()
		h.invalidateStatsForSpace(r, event.SpaceID)

		h.deps.Broadcaster.Broadcast(dtos.WSFrame{Type: dtos.WSTypeNewEvent, Data: event})

		respondJSON(w, http.StatusCreated, event)
	}
}

// JoinEvent handles POST /api/events/{id}/join. Attendance is a bare
// counter; nothing records which users joined.
func (h *Handlers) JoinEvent() http.HandlerFunc {
	return h.attendance(true)
}

// LeaveEvent handles POST /api/events/{id}/leave. The count clamps at
// zero.
func (h *Handlers) LeaveEvent() http.HandlerFunc {
	return h.attendance(false)
}

type attendanceReq struct {
	UserID int `json:"userId" validate:"required"`
}

func (h *Handlers) attendance(join bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := urlParamInt(r, "id")
		if !ok {
			respondError(w, http.StatusBadRequest, "Invalid event id")
			return
		}

		var req attendanceReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if errs := common.ValidateStruct(req); errs != nil {
			respondValidationErrors(w, errs)
			return
		}

		op := h.deps.Store.LeaveEvent
		if join {
			op = h.deps.Store.JoinEvent
		}

		event, err := op(r.Context(), eventID, req.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(w, http.StatusNotFound, "Event not found")
				return
			}
			logging.Error("Failed to update attendance", "event_id", eventID, "error", err.Error())
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		h.deps.Broadcaster.Broadcast(dtos.WSFrame{Type: dtos.WSTypeEventAttendance, Data: event})

		respondJSON(w, http.StatusOK, event)
	}
}
