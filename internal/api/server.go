// Package api exposes the audit engine's Submit/Poll/Cancel contract
// (spec §6) as a small net/http handler set backed by internal/store,
// the way internal/cli's run subcommand drives the same contract
// in-process without the HTTP layer.
package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/seoaudit/engine/internal/orchestrator"
	"github.com/seoaudit/engine/internal/store"
)

// Server holds one audit engine factory and one Store across requests.
// Each Submit call starts its own goroutine and tracks a cancel func
// keyed by the report ID the client was handed, so Cancel can reach
// the right in-flight run.
type Server struct {
	store      store.Store
	newEngine  func() (*orchestrator.Orchestrator, error)
	defaultOps orchestrator.RunOptions

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// New builds a Server. newEngine is called once per Submit, since
// Orchestrator holds per-run state (HostGate, rate limiter) that must
// not be shared across concurrent audits.
func New(s store.Store, newEngine func() (*orchestrator.Orchestrator, error), defaults orchestrator.RunOptions) *Server {
	return &Server{
		store:      s,
		newEngine:  newEngine,
		defaultOps: defaults,
		cancels:    make(map[string]context.CancelFunc),
	}
}

// Handler builds the mux routing submit/poll/cancel to their handlers.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /audits", s.handleSubmit)
	mux.HandleFunc("GET /audits/{id}", s.handlePoll)
	mux.HandleFunc("POST /audits/{id}/cancel", s.handleCancel)
	return mux
}

func (s *Server) trackCancel(id string, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels[id] = cancel
}

func (s *Server) untrackCancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cancels, id)
}

func (s *Server) cancelFunc(id string) (context.CancelFunc, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cancel, ok := s.cancels[id]
	return cancel, ok
}

func newReportID() string {
	return uuid.NewString()
}
