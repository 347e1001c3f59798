package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-pipeline/internal/scheduling"
	"github.com/jonathan/hiring-pipeline/internal/types"
)

// ---------------------------------------------------------------------
// Scheduling Handlers
// ---------------------------------------------------------------------

// handleFindSlots answers GET /scheduling/slots. Query parameters:
// participant_ids (comma-separated UUIDs), duration_minutes, from, to
// (RFC 3339), and optional working_hours_start / working_hours_end.
func (s *Server) handleFindSlots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	participantIDs, err := parseUUIDList(q.Get("participant_ids"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid participant_ids: "+err.Error())
		return
	}

	duration, err := strconv.Atoi(q.Get("duration_minutes"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid duration_minutes")
		return
	}

	from, to, err := parseWindow(q)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	req := types.FindSlotsRequest{
		ParticipantIDs:  participantIDs,
		DurationMinutes: duration,
		SearchFrom:      from,
		SearchTo:        to,
	}
	if v := q.Get("working_hours_start"); v != "" {
		if req.WorkingHoursStart, err = strconv.Atoi(v); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid working_hours_start")
			return
		}
	}
	if v := q.Get("working_hours_end"); v != "" {
		if req.WorkingHoursEnd, err = strconv.Atoi(v); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid working_hours_end")
			return
		}
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := scheduling.SlotOptions{
		WorkingHoursStart: req.WorkingHoursStart,
		WorkingHoursEnd:   req.WorkingHoursEnd,
	}
	if opts.WorkingHoursStart == 0 && opts.WorkingHoursEnd == 0 {
		opts.WorkingHoursStart = s.workingHoursStart
		opts.WorkingHoursEnd = s.workingHoursEnd
	}

	slots, err := s.slots.FindAvailableSlots(r.Context(), req.ParticipantIDs, req.DurationMinutes, req.SearchFrom, req.SearchTo, opts)
	if err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"slots": slots})
}

// handlePanelLoad answers GET /scheduling/load. Query parameters:
// participant_ids (comma-separated UUIDs), from, to (RFC 3339).
func (s *Server) handlePanelLoad(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	participantIDs, err := parseUUIDList(q.Get("participant_ids"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid participant_ids: "+err.Error())
		return
	}

	from, to, err := parseWindow(q)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	req := types.PanelLoadRequest{ParticipantIDs: participantIDs, From: from, To: to}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	load, err := s.loads.GetLoad(r.Context(), req.ParticipantIDs, req.From, req.To)
	if err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"load": load})
}

func (s *Server) handleSuggestPanel(w http.ResponseWriter, r *http.Request) {
	var req types.SuggestPanelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.RequiredSize > len(req.Pool) {
		s.errorResponse(w, http.StatusBadRequest, "required_size exceeds pool size")
		return
	}

	lookback := req.LookbackDays
	if lookback == 0 {
		lookback = s.lookbackDays
	}

	panel, err := s.loads.SuggestBalancedPanel(r.Context(), req.Pool, req.RequiredSize, req.InterviewDate, lookback)
	if err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"panel": panel})
}

// parseUUIDList parses a comma-separated list of UUIDs.
func parseUUIDList(raw string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseWindow parses the from/to RFC 3339 query parameters.
func parseWindow(q url.Values) (time.Time, time.Time, error) {
	from, err := time.Parse(time.RFC3339, q.Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, &ErrValidation{Field: "from", Message: "must be RFC 3339"}
	}
	to, err := time.Parse(time.RFC3339, q.Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, &ErrValidation{Field: "to", Message: "must be RFC 3339"}
	}
	return from, to, nil
}
