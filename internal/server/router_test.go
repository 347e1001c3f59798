package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hiring-pipeline/internal/types"
)

func TestRouter_MutatingEndpointsRequireToken(t *testing.T) {
	s, store := newTestServer(t)
	app := seedApplication(store, types.StageNew)
	router := s.router()

	paths := []string{
		"/applications/" + app.ID.String() + "/stage",
		"/applications/stage/bulk",
		"/applications/" + app.ID.String() + "/reject",
		"/interviews",
		"/scheduling/panel/suggest",
	}

	for _, path := range paths {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{}"))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "POST %s without a token", path)
	}
}

func TestRouter_TokenGrantsAccess(t *testing.T) {
	s, store := newTestServer(t)
	app := seedApplication(store, types.StageNew)
	router := s.router()

	token, err := s.jwtService.GenerateToken(testActor())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/applications/"+app.ID.String()+"/stage",
		strings.NewReader(`{"to_stage":"SCREENING"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRouter_ReadsAreOpen(t *testing.T) {
	s, _ := newTestServer(t)
	router := s.router()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
