package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/courtside/tournament-engine/services"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid argument", services.ErrInvalidArgument, http.StatusBadRequest},
		{"configuration missing", services.ErrConfigurationMissing, http.StatusUnprocessableEntity},
		{"precondition failed", services.ErrPreconditionFailed, http.StatusUnprocessableEntity},
		{"illegal state transition", services.ErrIllegalStateTransition, http.StatusUnprocessableEntity},
		{"conflict", services.ErrConflict, http.StatusConflict},
		{"match not found", services.ErrMatchNotFound, http.StatusNotFound},
		{"tournament not found", services.ErrTournamentNotFound, http.StatusNotFound},
		{"unclassified", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", nil)

			mapServiceErrorToHTTP(rec, req, fmt.Errorf("context: %w", tc.err))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestGetIDFromURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/matches/abc", nil)
	_, err := getIDFromURL(req, "matchID")
	assert.Error(t, err)
}
