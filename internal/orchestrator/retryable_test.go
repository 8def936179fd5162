package orchestrator

import (
	"context"
	"net/url"
	"testing"

	"github.com/seoaudit/engine/internal/model"
)

type fakeBackend struct {
	results []model.PageCrawlResult
	calls   int
}

func (f *fakeBackend) Fetch(_ context.Context, _ *url.URL, _ string) model.PageCrawlResult {
	r := f.results[f.calls]
	if f.calls < len(f.results)-1 {
		f.calls++
	}
	return r
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q): %v", raw, err)
	}
	return u
}

func TestFetchWithRetry_SucceedsAfterTransientTimeout(t *testing.T) {
	backend := &fakeBackend{results: []model.PageCrawlResult{
		{FetchError: &model.FetchError{Kind: model.FetchErrTimeout}},
		{URL: "https://example.com/", HTTPStatus: 200},
	}}
	got := fetchWithRetry(context.Background(), backend, mustParse(t, "https://example.com/"), "ua")
	if got.FetchError != nil {
		t.Fatalf("expected eventual success, got FetchError %+v", got.FetchError)
	}
	if backend.calls != 1 {
		t.Fatalf("expected exactly one retry (2 calls), backend.calls = %d", backend.calls)
	}
}

func TestFetchWithRetry_Http4xxIsTerminalNoRetry(t *testing.T) {
	backend := &fakeBackend{results: []model.PageCrawlResult{
		{FetchError: &model.FetchError{Kind: model.FetchErrHTTP4xx, HTTPCode: 404}},
		{URL: "https://example.com/", HTTPStatus: 200},
	}}
	got := fetchWithRetry(context.Background(), backend, mustParse(t, "https://example.com/"), "ua")
	if got.FetchError == nil || got.FetchError.Kind != model.FetchErrHTTP4xx {
		t.Fatalf("expected the terminal 4xx result to be returned as-is, got %+v", got)
	}
	if backend.calls != 1 {
		t.Fatalf("expected a single fetch and no retry for a terminal Http4xx, backend.calls = %d", backend.calls)
	}
}

func TestFetchWithRetry_ReturnsLastResultWhenRetriesExhausted(t *testing.T) {
	failing := model.PageCrawlResult{FetchError: &model.FetchError{Kind: model.FetchErrHTTP5xx, HTTPCode: 503, Message: "bad gateway"}}
	backend := &fakeBackend{results: []model.PageCrawlResult{failing, failing, failing, failing}}
	got := fetchWithRetry(context.Background(), backend, mustParse(t, "https://example.com/"), "ua")
	if got.FetchError == nil || got.FetchError.Kind != model.FetchErrHTTP5xx {
		t.Fatalf("expected the last attempt's FetchError to survive exhaustion, got %+v", got)
	}
	if got.FetchError.Message != "bad gateway" {
		t.Fatalf("expected the last attempt's populated fields to be returned, not a zero value, got %+v", got.FetchError)
	}
}

func TestRetryableFetchKind(t *testing.T) {
	cases := map[model.FetchErrorKind]bool{
		model.FetchErrTimeout:          true,
		model.FetchErrHTTP5xx:          true,
		model.FetchErrDNS:              true,
		model.FetchErrHTTP4xx:          false,
		model.FetchErrTLS:              false,
		model.FetchErrParse:            false,
		model.FetchErrTooManyRedirects: false,
		model.FetchErrOther:            false,
	}
	for kind, want := range cases {
		if got := retryableFetchKind(kind); got != want {
			t.Errorf("retryableFetchKind(%q) = %v, want %v", kind, got, want)
		}
	}
}
