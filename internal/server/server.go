// Package server provides the HTTP REST API for the interview coach.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/coordinator"
	"github.com/jonathan/interview-coach/internal/jobs"
	"github.com/jonathan/interview-coach/internal/questions"
	"github.com/jonathan/interview-coach/internal/server/ratelimit"
	"github.com/jonathan/interview-coach/internal/session"
	"github.com/jonathan/interview-coach/internal/types"
)

// Evaluator runs the dual analysis for one answer.
type Evaluator interface {
	Evaluate(ctx context.Context, answer *types.Answer) (*coordinator.Evaluation, error)
}

// JobParser turns posting text into a role profile.
type JobParser interface {
	Analyze(ctx context.Context, posting string) (*jobs.JobInfo, error)
}

// QuestionGenerator produces one practice question per competency.
type QuestionGenerator interface {
	Generate(ctx context.Context, job *jobs.JobInfo, competency types.CompetencyTag) (*questions.Question, error)
}

// Transcriber fills in the transcript and timing data of answers submitted
// as bare recordings.
type Transcriber interface {
	Fill(ctx context.Context, answer *types.Answer) error
}

// Deps carries the services the server exposes. Store may be nil, which
// disables the session endpoints; a nil Transcriber means answers must
// arrive pre-transcribed.
type Deps struct {
	Evaluator   Evaluator
	Transcriber Transcriber
	Jobs        JobParser
	Questions   QuestionGenerator
	Store       *session.Store
	Auth        *config.AuthConfig
	Logger      *zap.Logger
}

// Server is the HTTP API server.
type Server struct {
	httpServer  *http.Server
	evaluator   Evaluator
	transcriber Transcriber
	jobs        JobParser
	questions   QuestionGenerator
	store       *session.Store
	auth        *config.AuthConfig
	jwtService  *JWTService
	rateLimiter *ratelimit.Limiter
	logger      *zap.Logger
}

// New creates a server listening on addr.
func New(addr string, deps Deps) (*Server, error) {
	if deps.Evaluator == nil {
		return nil, fmt.Errorf("server requires an evaluator")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	s := &Server{
		evaluator:   deps.Evaluator,
		transcriber: deps.Transcriber,
		jobs:        deps.Jobs,
		questions:   deps.Questions,
		store:       deps.Store,
		auth:        deps.Auth,
		logger:      deps.Logger,
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
	}
	if deps.Auth != nil {
		s.jwtService = NewJWTService(deps.Auth)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /v1/auth/login", s.handleLogin)
	mux.Handle("POST /v1/answers/evaluate", s.withAuth(http.HandlerFunc(s.handleEvaluate)))
	mux.Handle("POST /v1/jobs/analyze", s.withAuth(http.HandlerFunc(s.handleAnalyzeJob)))
	mux.Handle("POST /v1/questions/generate", s.withAuth(http.HandlerFunc(s.handleGenerateQuestion)))
	mux.Handle("POST /v1/sessions", s.withAuth(http.HandlerFunc(s.handleCreateSession)))
	mux.Handle("GET /v1/sessions/{id}/progress", s.withAuth(http.HandlerFunc(s.handleProgress)))
	mux.Handle("GET /v1/sessions/{id}/feedback", s.withAuth(http.HandlerFunc(s.handleListFeedback)))

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.withRateLimit(s.withLogging(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // evaluation waits on two model calls
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start listens for requests until an interrupt, then shuts down
// gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	if s.store != nil {
		s.store.Close()
	}

	s.logger.Info("server stopped")
	return nil
}

// withAuth requires a valid bearer token when auth is configured. Without
// an auth configuration the API runs open, for local single-user setups.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.jwtService == nil {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			s.errorResponse(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if _, err := s.jwtService.ValidateToken(token); err != nil {
			s.errorResponse(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := clientAddr(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			if info.RetryAfter > 0 {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
			}
			s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
				"error":    "rate_limit_exceeded",
				"limit":    info.Limit,
				"reset_at": info.ResetTime.Format(time.RFC3339),
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// clientAddr extracts the client IP for rate limiting.
func clientAddr(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}
