package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/hiring-pipeline/internal/config"
	"github.com/jonathan/hiring-pipeline/internal/db"
	"github.com/jonathan/hiring-pipeline/internal/scheduling"
	"github.com/jonathan/hiring-pipeline/internal/server/middleware"
	"github.com/jonathan/hiring-pipeline/internal/server/ratelimit"
	"github.com/jonathan/hiring-pipeline/internal/sweeper"
	"github.com/jonathan/hiring-pipeline/internal/workflow"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService

	workflow *workflow.Engine
	sched    *scheduling.Engine
	slots    *scheduling.SlotFinder
	loads    *scheduling.LoadBalancer
	sweeper  *sweeper.Sweeper

	workingHoursStart int
	workingHoursEnd   int
	lookbackDays      int
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	App         *config.Config
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.App == nil {
		cfg.App = &config.Config{}
	}

	// Connect to database
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rules := workflow.DefaultRules()
	if cfg.App.RulesPath != "" {
		rules, err = workflow.LoadRulesFile(cfg.App.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load stage rules: %w", err)
		}
	}
	graph, err := workflow.NewGraph(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to build stage graph: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	s := &Server{
		db:                database,
		jwtService:        NewJWTService(jwtConfig),
		workflow:          workflow.NewEngine(graph, database, database, database, database),
		sched:             scheduling.NewEngine(database, database, database, database, database, time.Duration(cfg.App.FeedbackDueHours)*time.Hour),
		slots:             scheduling.NewSlotFinder(database),
		loads:             scheduling.NewLoadBalancer(database),
		sweeper:           sweeper.New(database, time.Duration(cfg.App.SweepIntervalMinutes)*time.Minute),
		workingHoursStart: cfg.App.WorkingHoursStart,
		workingHoursEnd:   cfg.App.WorkingHoursEnd,
		lookbackDays:      cfg.App.LookbackDays,
	}

	// Initialize rate limiter
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.router()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// router builds the route table. Mutating endpoints require a valid bearer
// token; the actor recorded in audit entries comes from the token claims.
func (s *Server) router() http.Handler {
	mux := http.NewServeMux()
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

	mux.HandleFunc("GET /health", s.handleHealth)

	// Application reads
	mux.HandleFunc("GET /applications/{id}", s.handleGetApplication)
	mux.HandleFunc("GET /applications/{id}/audit", s.handleListApplicationAudit)
	mux.HandleFunc("GET /applications/{id}/notes", s.handleListApplicationNotes)

	// Workflow operations
	mux.Handle("POST /applications", auth(http.HandlerFunc(s.handleCreateApplication)))
	mux.Handle("POST /applications/{id}/stage", auth(http.HandlerFunc(s.handleMoveStage)))
	mux.Handle("POST /applications/stage/bulk", auth(http.HandlerFunc(s.handleBulkMoveStage)))
	mux.Handle("POST /applications/{id}/reject", auth(http.HandlerFunc(s.handleReject)))

	// Interview lifecycle
	mux.HandleFunc("GET /interviews/{id}", s.handleGetInterview)
	mux.HandleFunc("GET /interviews/{id}/scorecards", s.handleListInterviewScorecards)
	mux.Handle("POST /interviews", auth(http.HandlerFunc(s.handleScheduleInterview)))
	mux.Handle("POST /interviews/{id}/reschedule", auth(http.HandlerFunc(s.handleRescheduleInterview)))
	mux.Handle("POST /interviews/{id}/cancel", auth(http.HandlerFunc(s.handleCancelInterview)))
	mux.Handle("POST /interviews/{id}/complete", auth(http.HandlerFunc(s.handleCompleteInterview)))
	mux.Handle("POST /scorecards/{id}/submit", auth(http.HandlerFunc(s.handleSubmitScorecard)))

	// Scheduling queries
	mux.HandleFunc("GET /scheduling/slots", s.handleFindSlots)
	mux.HandleFunc("GET /scheduling/load", s.handlePanelLoad)
	mux.Handle("POST /scheduling/panel/suggest", auth(http.HandlerFunc(s.handleSuggestPanel)))

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Background overdue-scorecard sweep runs for the server's lifetime.
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	go func() {
		if err := s.sweeper.Run(sweepCtx); err != nil && err != context.Canceled {
			log.Printf("scorecard sweeper stopped: %v", err)
		}
	}()

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// domainError maps a domain error to its HTTP status and writes the response.
func (s *Server) domainError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		s.errorResponse(w, status, "Internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
// In the future, this could use X-Forwarded-For header (only from trusted proxies).
func (s *Server) extractClientID(r *http.Request) string {
	// Get IP from RemoteAddr (format: "IP:port")
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If parsing fails, use the whole RemoteAddr
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
