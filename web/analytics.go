package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"schoolManager/database"
)

func (s *Server) handleAnalyticsTeachers(w http.ResponseWriter, r *http.Request) {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if claimRole(claims) != database.RoleAdmin {
		respondWithError(w, http.StatusForbidden, "forbidden")
		return
	}

	teachers, err := s.store.ListTeachers()
	if err != nil {
		respondWithError(w, statusFromError(err), "could not list teachers")
		return
	}
	respondWithJSON(w, http.StatusOK, teachers)
}

type analyticsDataRequest struct {
	// Either a teacher id or the string "all"; absent means "all".
	FormateurID interface{} `json:"formateur_id"`
}

// handleAnalyticsData serves the dashboard payload. Teachers are
// pinned to their own data regardless of the requested target; the
// administration can pick any teacher or the whole school.
func (s *Server) handleAnalyticsData(w http.ResponseWriter, r *http.Request) {
	_, claims, _ := jwtauth.FromContext(r.Context())

	var target int64
	if claimRole(claims) == database.RoleTeacher {
		target = claimUserID(claims)
	} else {
		var req analyticsDataRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			if id, ok := req.FormateurID.(float64); ok {
				target = int64(id)
			}
		}
	}

	data, err := s.store.Analytics(target)
	if err != nil {
		s.logger.Errorf("analytics query failed: %v", err)
		respondWithError(w, statusFromError(err), "could not load analytics")
		return
	}
	respondWithJSON(w, http.StatusOK, data)
}
