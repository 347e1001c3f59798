package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-pipeline/internal/server/middleware"
	"github.com/jonathan/hiring-pipeline/internal/types"
)

// ---------------------------------------------------------------------
// Application Handlers
// ---------------------------------------------------------------------

type CreateApplicationRequest struct {
	CandidateName string    `json:"candidate_name"`
	RequisitionID uuid.UUID `json:"requisition_id"`
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var req CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.CandidateName == "" || req.RequisitionID == uuid.Nil {
		s.errorResponse(w, http.StatusBadRequest, "candidate_name and requisition_id are required")
		return
	}

	app, err := s.db.CreateApplication(r.Context(), req.CandidateName, req.RequisitionID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, app)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	appID, ok := s.pathUUID(w, r, "id", "application ID")
	if !ok {
		return
	}

	app, err := s.db.GetApplication(r.Context(), appID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if app == nil {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleMoveStage(w http.ResponseWriter, r *http.Request) {
	appID, ok := s.pathUUID(w, r, "id", "application ID")
	if !ok {
		return
	}

	var req types.MoveStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.ToStage.IsValid() {
		s.errorResponse(w, http.StatusBadRequest, "Unknown stage: "+string(req.ToStage))
		return
	}

	actor, err := middleware.GetActor(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	app, err := s.workflow.MoveStage(r.Context(), appID, req.ToStage, actor, req.Comment, req.ReasonCategory)
	if err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleBulkMoveStage(w http.ResponseWriter, r *http.Request) {
	var req types.BulkMoveStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.ToStage.IsValid() {
		s.errorResponse(w, http.StatusBadRequest, "Unknown stage: "+string(req.ToStage))
		return
	}

	actor, err := middleware.GetActor(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := s.workflow.BulkMoveStage(r.Context(), req.ApplicationIDs, req.ToStage, actor, req.Comment)
	if err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	appID, ok := s.pathUUID(w, r, "id", "application ID")
	if !ok {
		return
	}

	var req types.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	actor, err := middleware.GetActor(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	app, err := s.workflow.Reject(r.Context(), appID, req.Reason, req.Feedback, actor)
	if err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleListApplicationAudit(w http.ResponseWriter, r *http.Request) {
	appID, ok := s.pathUUID(w, r, "id", "application ID")
	if !ok {
		return
	}

	records, err := s.db.ListAuditByObject(r.Context(), types.AuditObjectApplication, appID, s.queryLimit(r))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"audit": records})
}

func (s *Server) handleListApplicationNotes(w http.ResponseWriter, r *http.Request) {
	appID, ok := s.pathUUID(w, r, "id", "application ID")
	if !ok {
		return
	}

	notes, err := s.db.ListNotesByApplication(r.Context(), appID, s.queryLimit(r))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"notes": notes})
}

// pathUUID parses a UUID path segment, writing a 400 response on failure.
func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, key, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(key))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid "+label)
		return uuid.Nil, false
	}
	return id, true
}

// queryLimit reads the optional "limit" query parameter, defaulting to 50.
func (s *Server) queryLimit(r *http.Request) int {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}
	return limit
}
