package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"schoolManager/database"
	"schoolManager/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWriteOutcome keeps the admin UI contract: writes answer with
// {"status":"success"} or {"status":"error"}, the HTTP code carries
// the error taxonomy.
func respondWriteOutcome(w http.ResponseWriter, err error) {
	if err != nil {
		respondWithJSON(w, statusFromError(err), statusResponse{Status: "error"})
		return
	}
	respondWithJSON(w, http.StatusOK, statusResponse{Status: "success"})
}

func statusFromError(err error) int {
	var validationErr *services.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, database.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, database.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrConnectionUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
