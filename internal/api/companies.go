package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"metacircle/metasync/internal/common"
	"metacircle/metasync/internal/logging"
	"metacircle/metasync/internal/models/dtos"
	"metacircle/metasync/internal/store"
)

// GetCompanyBySlug handles GET /api/companies/{slug}.
func (h *Handlers) GetCompanyBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		company, err := h.deps.Store.GetCompanyBySlug(r.Context(), slug)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(w, http.StatusNotFound, "Company not found")
				return
			}
			logging.Error("Failed to load company", "slug", slug, "error", err.Error())
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		respondJSON(w, http.StatusOK, company)
	}
}

// CreateCompany handles POST /api/companies (admin only; enforced by
// middleware on the route).
func (h *Handlers) CreateCompany() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.InsertCompany
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if errs := common.ValidateStruct(req); errs != nil {
			respondValidationErrors(w, errs)
			return
		}

		company, err := h.deps.Store.CreateCompany(r.Context(), req)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateSlug) {
				respondError(w, http.StatusConflict, "A company with this slug already exists")
				return
			}
			logging.Error("Failed to create company", "slug", req.Slug, "error", err.Error())
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.deps.Metrics.EntitiesCreatedTotal.WithLabelValues("company").Inc()

		respondJSON(w, http.StatusCreated, company)
	}
}
