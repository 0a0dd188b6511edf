package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"schoolManager/database"
	"schoolManager/services"
)

func TestStatusFromError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", database.ErrNotFound, http.StatusNotFound},
		{"duplicate", database.ErrDuplicate, http.StatusConflict},
		{"validation", database.ErrValidation, http.StatusBadRequest},
		{"csv validation", &services.ValidationError{Message: "bad file"}, http.StatusBadRequest},
		{"connection", database.ErrConnectionUnavailable, http.StatusServiceUnavailable},
		{"storage", database.ErrStorage, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusFromError(tc.err))
		})
	}
}

func TestRespondWriteOutcome(t *testing.T) {
	rec := httptest.NewRecorder()
	respondWriteOutcome(rec, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	respondWriteOutcome(rec, database.ErrDuplicate)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"status":"error"}`, rec.Body.String())
}
