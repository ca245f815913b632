package api

import (
	"encoding/json"
	"net/http"

	"metacircle/metasync/internal/models/dtos"
)

func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, dtos.ErrorResponse{Message: message})
}

func respondValidationErrors(w http.ResponseWriter, errs []dtos.FieldError) {
	respondJSON(w, http.StatusBadRequest, dtos.ErrorResponse{
		Message: "Invalid request body",
		Errors:  errs,
	})
}
