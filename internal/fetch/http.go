// Package fetch implements the two fetch backends that populate a
// model.PageCrawlResult: a standard HTTP backend (http.go) and a headless
// browser backend (headless.go) for JS-heavy pages, behind a common
// Backend interface so the orchestrator can swap one for the other.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/seoaudit/engine/internal/model"
	"golang.org/x/net/html/charset"
)

const (
	maxResponseBytes = 10 * 1024 * 1024
	maxRedirects     = 5
	httpDeadline     = 15 * time.Second
)

// Backend fetches one URL and returns a populated PageCrawlResult. A
// Backend never returns a Go error for a fetch failure — it sets
// PageCrawlResult.FetchError instead, per the contract's "does not throw"
// clause (spec §4.A).
type Backend interface {
	Fetch(ctx context.Context, target *url.URL, userAgent string) model.PageCrawlResult
}

// HTTPBackend is the standard-library fetch path: net/http plus
// goquery-based DOM extraction. It is also the sole producer of the
// js_heavy signal (spec §4.A) — the headless backend never recomputes it.
type HTTPBackend struct {
	client *http.Client
}

// NewHTTPBackend builds an HTTPBackend whose client enforces the
// same-scheme-or-downgrade, max-5-redirect policy spec.md §4.A requires.
func NewHTTPBackend() *HTTPBackend {
	return &HTTPBackend{
		client: &http.Client{
			Timeout:       httpDeadline,
			CheckRedirect: checkRedirect,
		},
	}
}

type redirectCountKey struct{}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	prev := via[len(via)-1]
	if prev.URL.Scheme == "https" && req.URL.Scheme == "http" {
		return fmt.Errorf("refusing https->http downgrade redirect")
	}
	if counter, ok := req.Context().Value(redirectCountKey{}).(*int); ok {
		*counter = len(via)
	}
	return nil
}

func (b *HTTPBackend) Fetch(ctx context.Context, target *url.URL, userAgent string) model.PageCrawlResult {
	start := time.Now()
	result := model.PageCrawlResult{
		URL:       target.String(),
		FetchedAt: start,
		FetchMode: model.FetchHTTP,
		Scheme:    target.Scheme,
	}

	redirects := new(int)
	ctx = context.WithValue(ctx, redirectCountKey{}, redirects)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return withError(result, model.FetchErrOther, 0, err.Error())
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := b.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return withError(result, model.FetchErrTimeout, 0, err.Error())
		}
		if isRedirectErr(err) {
			return withError(result, model.FetchErrTooManyRedirects, 0, err.Error())
		}
		return withError(result, classifyTransportErr(err), 0, err.Error())
	}
	defer resp.Body.Close()

	result.FinalURL = resp.Request.URL.String()
	result.HTTPStatus = resp.StatusCode
	result.RedirectCount = *redirects
	result.DurationMS = time.Since(start).Milliseconds()
	result.Scheme = resp.Request.URL.Scheme
	result.TLSValid = resp.TLS != nil
	result.HSTSPresent = resp.Header.Get("Strict-Transport-Security") != ""

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return withError(result, model.FetchErrHTTP4xx, resp.StatusCode, resp.Status)
	case resp.StatusCode >= 500:
		return withError(result, model.FetchErrHTTP5xx, resp.StatusCode, resp.Status)
	}

	limited := io.LimitReader(resp.Body, maxResponseBytes+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return withError(result, model.FetchErrOther, resp.StatusCode, err.Error())
	}
	if int64(len(raw)) > maxResponseBytes {
		raw = raw[:maxResponseBytes]
		result.Truncated = true
	}
	result.BytesDownloaded = int64(len(raw))

	utf8Reader, err := charset.NewReader(strings.NewReader(string(raw)), resp.Header.Get("Content-Type"))
	if err != nil {
		// Fall back to treating the body as already-UTF8 rather than failing
		// the whole fetch over a charset-detection miss.
		utf8Reader = strings.NewReader(string(raw))
	}

	doc, err := goquery.NewDocumentFromReader(utf8Reader)
	if err != nil {
		return withError(result, model.FetchErrParse, resp.StatusCode, err.Error())
	}

	populateFromDocument(&result, doc)
	result.JSHeavy = detectJSHeavy(&result, doc, raw)

	return result
}

func withError(r model.PageCrawlResult, kind model.FetchErrorKind, httpCode int, msg string) model.PageCrawlResult {
	r.FetchError = &model.FetchError{Kind: kind, HTTPCode: httpCode, Message: msg}
	return r
}

func isRedirectErr(err error) bool {
	return strings.Contains(err.Error(), "redirect")
}

func classifyTransportErr(err error) model.FetchErrorKind {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "no such host") || strings.Contains(msg, "lookup"):
		return model.FetchErrDNS
	case strings.Contains(msg, "certificate") || strings.Contains(msg, "x509"):
		return model.FetchErrTLS
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return model.FetchErrTimeout
	default:
		return model.FetchErrOther
	}
}
