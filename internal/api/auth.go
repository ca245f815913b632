package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"metacircle/metasync/internal/auth"
	"metacircle/metasync/internal/common"
	"metacircle/metasync/internal/constants"
	"metacircle/metasync/internal/logging"
	"metacircle/metasync/internal/models/dtos"
	"metacircle/metasync/internal/services"
	"metacircle/metasync/internal/store"
)

// Me handles GET /api/auth/me. With a bearer token the token's subject is
// returned; without one it falls back to the demo user, matching the
// pre-login product behavior.
func (h *Handlers) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := constants.DemoUserID
		if claims := auth.GetUserClaims(r.Context()); claims != nil {
			userID = claims.UserID
		}

		user, err := h.deps.Store.GetUser(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(w, http.StatusNotFound, "User not found")
				return
			}
			logging.Error("Failed to load current user", "error", err.Error())
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		respondJSON(w, http.StatusOK, user)
	}
}

// Login handles POST /api/auth/login.
func (h *Handlers) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.LoginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if errs := common.ValidateStruct(req); errs != nil {
			respondValidationErrors(w, errs)
			return
		}

		resp, err := h.deps.Services.Auth.Login(r.Context(), req)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				respondError(w, http.StatusUnauthorized, "Invalid username or password")
				return
			}
			logging.Error("Login failed", "error", err.Error())
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		respondJSON(w, http.StatusOK, resp)
	}
}
