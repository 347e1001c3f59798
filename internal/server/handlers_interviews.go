package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/hiring-pipeline/internal/server/middleware"
	"github.com/jonathan/hiring-pipeline/internal/types"
)

// ---------------------------------------------------------------------
// Interview Handlers
// ---------------------------------------------------------------------

func (s *Server) handleScheduleInterview(w http.ResponseWriter, r *http.Request) {
	var req types.ScheduleInterviewRequest
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

	iv, err := s.sched.ScheduleInterview(r.Context(), req, actor)
	if err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, iv)
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	ivID, ok := s.pathUUID(w, r, "id", "interview ID")
	if !ok {
		return
	}

	iv, err := s.db.GetInterview(r.Context(), ivID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if iv == nil {
		s.errorResponse(w, http.StatusNotFound, "Interview not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, iv)
}

func (s *Server) handleListInterviewScorecards(w http.ResponseWriter, r *http.Request) {
	ivID, ok := s.pathUUID(w, r, "id", "interview ID")
	if !ok {
		return
	}

	cards, err := s.db.ListScorecardsByInterview(r.Context(), ivID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"scorecards": cards})
}

func (s *Server) handleRescheduleInterview(w http.ResponseWriter, r *http.Request) {
	ivID, ok := s.pathUUID(w, r, "id", "interview ID")
	if !ok {
		return
	}

	var req types.RescheduleInterviewRequest
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

	iv, err := s.sched.RescheduleInterview(r.Context(), ivID, req.NewStart, req.NewEnd, req.Reason, actor)
	if err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, iv)
}

func (s *Server) handleCancelInterview(w http.ResponseWriter, r *http.Request) {
	ivID, ok := s.pathUUID(w, r, "id", "interview ID")
	if !ok {
		return
	}

	var req types.CancelInterviewRequest
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

	if err := s.sched.CancelInterview(r.Context(), ivID, req.Reason, actor); err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (s *Server) handleCompleteInterview(w http.ResponseWriter, r *http.Request) {
	ivID, ok := s.pathUUID(w, r, "id", "interview ID")
	if !ok {
		return
	}

	actor, err := middleware.GetActor(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := s.sched.CompleteInterview(r.Context(), ivID, actor); err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "completed"})
}

func (s *Server) handleSubmitScorecard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := s.pathUUID(w, r, "id", "scorecard ID")
	if !ok {
		return
	}

	actor, err := middleware.GetActor(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	card, err := s.sched.SubmitScorecard(r.Context(), cardID, actor)
	if err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, card)
}
