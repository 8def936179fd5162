package cmd_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/seoaudit/engine/internal/api"
	"github.com/seoaudit/engine/internal/model"
	"github.com/seoaudit/engine/internal/orchestrator"
	"github.com/seoaudit/engine/internal/store"
)

// These exercise the api.Server wiring that cmd/seoaudit serve builds,
// since driving cobra's RunE directly would launch a real headless
// browser and perform real network I/O.

// fakeFetchBackend answers every fetch successfully with no links, so
// a run completes after exactly one page without touching the network.
type fakeFetchBackend struct{}

func (fakeFetchBackend) Fetch(_ context.Context, u *url.URL, _ string) model.PageCrawlResult {
	return model.PageCrawlResult{URL: u.String(), HTTPStatus: 200, Title: "ok", WordCount: 100}
}

func TestServerHandler_SubmitThenPoll(t *testing.T) {
	backend := store.NewInMemoryStore()
	srv := api.New(backend, func() (*orchestrator.Orchestrator, error) {
		return orchestrator.New(fakeFetchBackend{}, nil, nil, nil, nil), nil
	}, orchestrator.DefaultRunOptions())

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	body, _ := json.Marshal(map[string]any{"seed_url": "https://example.com/", "max_pages": 1})
	resp, err := http.Post(ts.URL+"/audits", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /audits: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202 Accepted, got %d", resp.StatusCode)
	}

	var submitted struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&submitted); err != nil {
		t.Fatalf("decoding submit response: %v", err)
	}
	if submitted.ID == "" {
		t.Fatal("expected a non-empty audit id")
	}

	pollForCompletion(t, ts.URL, submitted.ID)
}

func TestServerHandler_PollUnknownIDReturns404(t *testing.T) {
	backend := store.NewInMemoryStore()
	srv := api.New(backend, func() (*orchestrator.Orchestrator, error) {
		return orchestrator.New(fakeFetchBackend{}, nil, nil, nil, nil), nil
	}, orchestrator.DefaultRunOptions())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/audits/does-not-exist")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func pollForCompletion(t *testing.T, baseURL, id string) {
	t.Helper()
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/audits/" + id)
		if err != nil {
			t.Fatalf("GET /audits/%s: %v", id, err)
		}
		var report model.AuditReport
		_ = json.NewDecoder(resp.Body).Decode(&report)
		resp.Body.Close()
		if report.Status == model.RunCompleted || report.Status == model.RunFailed {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("audit did not reach a terminal status in time")
}
