package api_test

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

// slowBackend blocks until ctx is cancelled, so a test can submit an
// audit and cancel it before the orchestrator ever finishes a page.
type slowBackend struct{}

func (slowBackend) Fetch(ctx context.Context, u *url.URL, _ string) model.PageCrawlResult {
	<-ctx.Done()
	return model.PageCrawlResult{URL: u.String(), FetchError: &model.FetchError{Kind: model.FetchErrOther, Message: "cancelled"}}
}

func newServer() (*api.Server, store.Store) {
	backend := store.NewInMemoryStore()
	srv := api.New(backend, func() (*orchestrator.Orchestrator, error) {
		return orchestrator.New(slowBackend{}, nil, nil, nil, nil), nil
	}, orchestrator.RunOptions{MaxPages: 50, MaxTime: 5 * time.Second, RespectRobots: false})
	return srv, backend
}

func TestHandleSubmit_RejectsMissingSeedURL(t *testing.T) {
	srv, _ := newServer()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/audits", "application/json", bytes.NewReader([]byte(`{}`)))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for a missing seed_url, got %d", resp.StatusCode)
	}
}

func TestHandleCancel_UnknownIDReturns404(t *testing.T) {
	srv, _ := newServer()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/audits/does-not-exist/cancel", "application/json", nil)
	if err != nil {
		t.Fatalf("POST cancel: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestHandleCancel_StopsAnInFlightRun(t *testing.T) {
	srv, backend := newServer()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	body, _ := json.Marshal(map[string]any{"seed_url": "https://example.com/"})
	resp, err := http.Post(ts.URL+"/audits", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /audits: %v", err)
	}
	var submitted struct{ ID string }
	_ = json.NewDecoder(resp.Body).Decode(&submitted)
	resp.Body.Close()

	cancelResp, err := http.Post(ts.URL+"/audits/"+submitted.ID+"/cancel", "application/json", nil)
	if err != nil {
		t.Fatalf("POST cancel: %v", err)
	}
	defer cancelResp.Body.Close()
	if cancelResp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202 Accepted, got %d", cancelResp.StatusCode)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		report, err := backend.Load(context.Background(), submitted.ID)
		if err == nil && (report.Status == model.RunCompleted || report.Status == model.RunFailed) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected the cancelled run to reach a terminal status")
}
