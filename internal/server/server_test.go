package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hiring-pipeline/internal/config"
	"github.com/jonathan/hiring-pipeline/internal/scheduling"
	"github.com/jonathan/hiring-pipeline/internal/server/middleware"
	"github.com/jonathan/hiring-pipeline/internal/types"
	"github.com/jonathan/hiring-pipeline/internal/workflow"
)

// memStore is an in-memory implementation of every engine collaborator the
// server wires, so handlers can be exercised without a database. Bookings
// are derived from non-cancelled interviews.
type memStore struct {
	mu         sync.Mutex
	apps       map[uuid.UUID]*types.Application
	interviews map[uuid.UUID]*types.Interview
	cards      map[uuid.UUID]*types.Scorecard
	audits     []types.AuditRecord
	notes      []types.Note
	oracle     bool
}

func newMemStore() *memStore {
	return &memStore{
		apps:       make(map[uuid.UUID]*types.Application),
		interviews: make(map[uuid.UUID]*types.Interview),
		cards:      make(map[uuid.UUID]*types.Scorecard),
	}
}

func (m *memStore) putApplication(app *types.Application) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *app
	m.apps[app.ID] = &cp
}

func (m *memStore) GetApplication(_ context.Context, id uuid.UUID) (*types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok {
		return nil, nil
	}
	cp := *app
	return &cp, nil
}

func (m *memStore) UpdateStage(_ context.Context, id uuid.UUID, from, to types.Stage, expectedVersion int64) (*types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok || app.Stage != from || app.Version != expectedVersion {
		return nil, nil
	}
	app.Stage = to
	app.Version++
	app.UpdatedAt = time.Now()
	cp := *app
	return &cp, nil
}

func (m *memStore) MarkRejected(_ context.Context, id uuid.UUID, rejectedAt time.Time, expectedVersion int64) (*types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok || app.Version != expectedVersion || app.Status != types.StatusActive {
		return nil, nil
	}
	app.Status = types.StatusRejected
	app.RejectedAt = &rejectedAt
	app.Version++
	cp := *app
	return &cp, nil
}

func (m *memStore) AllScorecardsSubmitted(context.Context, uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.oracle, nil
}

func (m *memStore) RecordAudit(_ context.Context, rec types.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audits = append(m.audits, rec)
	return nil
}

func (m *memStore) CreateNote(_ context.Context, note types.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = append(m.notes, note)
	return nil
}

func (m *memStore) GetInterview(_ context.Context, id uuid.UUID) (*types.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	iv, ok := m.interviews[id]
	if !ok {
		return nil, nil
	}
	cp := *iv
	cp.Panel = append([]types.PanelMember(nil), iv.Panel...)
	return &cp, nil
}

func (m *memStore) CreateInterview(_ context.Context, iv *types.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *iv
	cp.Panel = append([]types.PanelMember(nil), iv.Panel...)
	m.interviews[iv.ID] = &cp
	return nil
}

func (m *memStore) UpdateSchedule(_ context.Context, id uuid.UUID, start, end time.Time, outcome types.InterviewOutcome) (*types.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	iv, ok := m.interviews[id]
	if !ok {
		return nil, nil
	}
	iv.ScheduledStart = start
	iv.ScheduledEnd = end
	iv.Outcome = outcome
	cp := *iv
	return &cp, nil
}

func (m *memStore) UpdateOutcome(_ context.Context, id uuid.UUID, outcome types.InterviewOutcome) (*types.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	iv, ok := m.interviews[id]
	if !ok {
		return nil, nil
	}
	iv.Outcome = outcome
	cp := *iv
	return &cp, nil
}

func (m *memStore) CreateScorecards(_ context.Context, cards []types.Scorecard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range cards {
		cp := c
		m.cards[c.ID] = &cp
	}
	return nil
}

func (m *memStore) GetScorecard(_ context.Context, id uuid.UUID) (*types.Scorecard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) ListScorecardsByInterview(_ context.Context, interviewID uuid.UUID) ([]types.Scorecard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.Scorecard
	for _, c := range m.cards {
		if c.InterviewID == interviewID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) SetScorecardStatus(_ context.Context, id uuid.UUID, status types.ScorecardStatus, submittedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.cards[id]; ok {
		c.Status = status
		c.SubmittedAt = submittedAt
	}
	return nil
}

func (m *memStore) CancelScorecardsByInterview(_ context.Context, interviewID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cards {
		if c.InterviewID == interviewID && c.Status != types.ScorecardSubmitted {
			c.Status = types.ScorecardCancelled
		}
	}
	return nil
}

func (m *memStore) SetDueAtByInterview(_ context.Context, interviewID uuid.UUID, dueAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cards {
		if c.InterviewID == interviewID {
			c.DueAt = dueAt
		}
	}
	return nil
}

func (m *memStore) MarkOverdueByInterview(_ context.Context, interviewID uuid.UUID, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, c := range m.cards {
		if c.InterviewID == interviewID && c.DueAt.Before(now) &&
			(c.Status == types.ScorecardPending || c.Status == types.ScorecardInProgress) {
			c.Status = types.ScorecardOverdue
			n++
		}
	}
	return n, nil
}

func (m *memStore) ListBookings(_ context.Context, _ []uuid.UUID, from, to time.Time) ([]types.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.Booking
	for _, iv := range m.interviews {
		if iv.Outcome == types.OutcomeCancelled {
			continue
		}
		if !iv.ScheduledStart.Before(to) || !from.Before(iv.ScheduledEnd) {
			continue
		}
		for _, member := range iv.Panel {
			out = append(out, types.Booking{
				ParticipantID: member.UserID,
				InterviewID:   iv.ID,
				Start:         iv.ScheduledStart,
				End:           iv.ScheduledEnd,
			})
		}
	}
	return out, nil
}

func newTestServer(t *testing.T) (*Server, *memStore) {
	t.Helper()
	store := newMemStore()

	graph, err := workflow.NewGraph(workflow.DefaultRules())
	require.NoError(t, err)

	s := &Server{
		jwtService: NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1}),
		workflow:   workflow.NewEngine(graph, store, store, store, store),
		sched:      scheduling.NewEngine(store, store, store, store, store, 0),
		slots:      scheduling.NewSlotFinder(store),
		loads:      scheduling.NewLoadBalancer(store),
	}
	return s, store
}

func testActor() types.Actor {
	return types.Actor{ID: uuid.New(), Name: "Riley Chen", Role: types.RoleRecruiter}
}

// withActor injects an authenticated actor the way the auth middleware does.
func withActor(r *http.Request, actor types.Actor) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ActorKey(), actor)
	return r.WithContext(ctx)
}

func seedApplication(store *memStore, stage types.Stage) *types.Application {
	app := &types.Application{
		ID:            uuid.New(),
		CandidateName: "Jordan Baker",
		RequisitionID: uuid.New(),
		Stage:         stage,
		Status:        types.StatusActive,
		Version:       1,
		CreatedAt:     time.Now(),
	}
	store.putApplication(app)
	return app
}

// TestHealthEndpoint tests the /health endpoint
func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	s.handleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}
