package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/seoaudit/engine/internal/model"
	"github.com/seoaudit/engine/internal/orchestrator"
)

// submitRequest is the POST /audits body. SeedURL is the only required
// field; every other field overrides the server's configured default
// for this run only.
type submitRequest struct {
	SeedURL           string `json:"seed_url"`
	MaxPages          int    `json:"max_pages,omitempty"`
	MaxTimeSeconds    int    `json:"max_time_seconds,omitempty"`
	IncludeSubdomains *bool  `json:"include_subdomains,omitempty"`
	RespectRobots     *bool  `json:"respect_robots,omitempty"`
}

type submitResponse struct {
	ID     string          `json:"id"`
	Status model.RunStatus `json:"status"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	seed, err := url.Parse(req.SeedURL)
	if err != nil || seed.Host == "" {
		writeError(w, http.StatusBadRequest, "seed_url must be an absolute URL")
		return
	}

	opts := s.defaultOps
	if req.MaxPages > 0 {
		opts.MaxPages = req.MaxPages
	}
	if req.MaxTimeSeconds > 0 {
		opts.MaxTime = time.Duration(req.MaxTimeSeconds) * time.Second
	}
	if req.IncludeSubdomains != nil {
		opts.IncludeSubdomains = *req.IncludeSubdomains
	}
	if req.RespectRobots != nil {
		opts.RespectRobots = *req.RespectRobots
	}

	id := newReportID()
	queued := &model.AuditReport{
		ID:        id,
		RootURL:   seed.String(),
		Status:    model.RunQueued,
		StartedAt: time.Now(),
	}
	if err := s.store.Save(r.Context(), queued); err != nil {
		writeError(w, http.StatusInternalServerError, "saving queued report: "+err.Error())
		return
	}

	engine, err := s.newEngine()
	if err != nil {
		queued.Status = model.RunFailed
		queued.FailureReason = "engine unavailable: " + err.Error()
		queued.FinishedAt = time.Now()
		_ = s.store.Save(context.Background(), queued)
		writeError(w, http.StatusInternalServerError, queued.FailureReason)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.trackCancel(id, cancel)

	go s.runAndStore(ctx, cancel, id, engine, seed, opts)

	writeJSON(w, http.StatusAccepted, submitResponse{ID: id, Status: model.RunQueued})
}

// runAndStore drives one audit to completion and persists the final
// report under the ID handed back from Submit — not the ID
// Orchestrator.Run assigns internally, since the client already has
// the Submit-time ID to poll against.
func (s *Server) runAndStore(ctx context.Context, cancel context.CancelFunc, id string, engine *orchestrator.Orchestrator, seed *url.URL, opts orchestrator.RunOptions) {
	defer cancel()
	defer s.untrackCancel(id)

	report, err := engine.Run(ctx, seed, opts)
	if err != nil {
		failed := &model.AuditReport{
			ID:            id,
			RootURL:       seed.String(),
			Status:        model.RunFailed,
			FailureReason: err.Error(),
			FinishedAt:    time.Now(),
		}
		_ = s.store.Save(context.Background(), failed)
		return
	}
	report.ID = id
	_ = s.store.Save(context.Background(), report)
}

func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	report, err := s.store.Load(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "audit not found")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	cancel, ok := s.cancelFunc(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no in-flight audit for that id")
		return
	}
	cancel()
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
