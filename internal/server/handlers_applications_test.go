package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hiring-pipeline/internal/types"
)

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandleMoveStage_InvalidID(t *testing.T) {
	s, _ := newTestServer(t)

	req := postJSON("/applications/not-a-uuid/stage", `{"to_stage":"SCREENING"}`)
	req.SetPathValue("id", "not-a-uuid")
	req = withActor(req, testActor())
	w := httptest.NewRecorder()

	s.handleMoveStage(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "Invalid application ID")
}

func TestHandleMoveStage_UnknownStage(t *testing.T) {
	s, store := newTestServer(t)
	app := seedApplication(store, types.StageNew)

	req := postJSON("/applications/"+app.ID.String()+"/stage", `{"to_stage":"LIMBO"}`)
	req.SetPathValue("id", app.ID.String())
	req = withActor(req, testActor())
	w := httptest.NewRecorder()

	s.handleMoveStage(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleMoveStage_MissingActor(t *testing.T) {
	s, store := newTestServer(t)
	app := seedApplication(store, types.StageNew)

	req := postJSON("/applications/"+app.ID.String()+"/stage", `{"to_stage":"SCREENING"}`)
	req.SetPathValue("id", app.ID.String())
	w := httptest.NewRecorder()

	s.handleMoveStage(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleMoveStage_Success(t *testing.T) {
	s, store := newTestServer(t)
	app := seedApplication(store, types.StageNew)

	req := postJSON("/applications/"+app.ID.String()+"/stage", `{"to_stage":"SCREENING"}`)
	req.SetPathValue("id", app.ID.String())
	req = withActor(req, testActor())
	w := httptest.NewRecorder()

	s.handleMoveStage(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.Application
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, types.StageScreening, resp.Stage)
	assert.Equal(t, int64(2), resp.Version)
}

func TestHandleMoveStage_NotFound(t *testing.T) {
	s, _ := newTestServer(t)
	id := uuid.New()

	req := postJSON("/applications/"+id.String()+"/stage", `{"to_stage":"SCREENING"}`)
	req.SetPathValue("id", id.String())
	req = withActor(req, testActor())
	w := httptest.NewRecorder()

	s.handleMoveStage(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleMoveStage_RoleDenied(t *testing.T) {
	s, store := newTestServer(t)
	app := seedApplication(store, types.StageNew)

	interviewer := types.Actor{ID: uuid.New(), Name: "Dev Patel", Role: types.RoleInterviewer}
	req := postJSON("/applications/"+app.ID.String()+"/stage", `{"to_stage":"SCREENING"}`)
	req.SetPathValue("id", app.ID.String())
	req = withActor(req, interviewer)
	w := httptest.NewRecorder()

	s.handleMoveStage(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandleMoveStage_UndefinedTransition(t *testing.T) {
	s, store := newTestServer(t)
	app := seedApplication(store, types.StageNew)

	req := postJSON("/applications/"+app.ID.String()+"/stage", `{"to_stage":"OFFER"}`)
	req.SetPathValue("id", app.ID.String())
	req = withActor(req, testActor())
	w := httptest.NewRecorder()

	s.handleMoveStage(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandleMoveStage_ScorecardsIncomplete(t *testing.T) {
	s, store := newTestServer(t)
	app := seedApplication(store, types.StageInterview)
	store.oracle = false

	req := postJSON("/applications/"+app.ID.String()+"/stage", `{"to_stage":"PANEL"}`)
	req.SetPathValue("id", app.ID.String())
	req = withActor(req, testActor())
	w := httptest.NewRecorder()

	s.handleMoveStage(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Once the panel's scorecards are in, the same move succeeds.
	store.oracle = true
	req = postJSON("/applications/"+app.ID.String()+"/stage", `{"to_stage":"PANEL"}`)
	req.SetPathValue("id", app.ID.String())
	req = withActor(req, testActor())
	w = httptest.NewRecorder()

	s.handleMoveStage(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleBulkMoveStage_PartialFailure(t *testing.T) {
	s, store := newTestServer(t)
	app := seedApplication(store, types.StageNew)
	missing := uuid.New()

	body, err := json.Marshal(types.BulkMoveStageRequest{
		ApplicationIDs: []uuid.UUID{app.ID, missing},
		ToStage:        types.StageScreening,
	})
	require.NoError(t, err)

	req := postJSON("/applications/stage/bulk", string(body))
	req = withActor(req, testActor())
	w := httptest.NewRecorder()

	s.handleBulkMoveStage(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Succeeded []uuid.UUID `json:"succeeded"`
		Failed    []struct {
			ID     uuid.UUID `json:"id"`
			Reason string    `json:"reason"`
		} `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []uuid.UUID{app.ID}, resp.Succeeded)
	require.Len(t, resp.Failed, 1)
	assert.Equal(t, missing, resp.Failed[0].ID)
	assert.Contains(t, resp.Failed[0].Reason, "not found")
}

func TestHandleBulkMoveStage_EmptyIDs(t *testing.T) {
	s, _ := newTestServer(t)

	req := postJSON("/applications/stage/bulk", `{"application_ids":[],"to_stage":"SCREENING"}`)
	req = withActor(req, testActor())
	w := httptest.NewRecorder()

	s.handleBulkMoveStage(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleReject(t *testing.T) {
	s, store := newTestServer(t)
	app := seedApplication(store, types.StageInterview)

	req := postJSON("/applications/"+app.ID.String()+"/reject", `{"reason":"position filled"}`)
	req.SetPathValue("id", app.ID.String())
	req = withActor(req, testActor())
	w := httptest.NewRecorder()

	s.handleReject(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.Application
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, types.StatusRejected, resp.Status)
	require.NotNil(t, resp.RejectedAt)

	// Rejecting again conflicts rather than idempotently succeeding.
	req = postJSON("/applications/"+app.ID.String()+"/reject", `{"reason":"position filled"}`)
	req.SetPathValue("id", app.ID.String())
	req = withActor(req, testActor())
	w = httptest.NewRecorder()

	s.handleReject(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleReject_MissingReason(t *testing.T) {
	s, store := newTestServer(t)
	app := seedApplication(store, types.StageNew)

	req := postJSON("/applications/"+app.ID.String()+"/reject", `{}`)
	req.SetPathValue("id", app.ID.String())
	req = withActor(req, testActor())
	w := httptest.NewRecorder()

	s.handleReject(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetApplication_InvalidID(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/applications/nope", nil)
	req.SetPathValue("id", "nope")
	w := httptest.NewRecorder()

	s.handleGetApplication(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
