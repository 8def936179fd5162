package robots

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/seoaudit/engine/internal/observe"
	"github.com/seoaudit/engine/internal/robots/cache"
	"github.com/temoto/robotstxt"
)

// RobotsFetcher fetches robots.txt files from hosts and parses them with
// temoto/robotstxt, which implements RFC 9309 group selection and
// longest-match allow/disallow precedence. The fetcher itself only owns
// transport, size limiting, and caching; all matching semantics live in
// the library.
type RobotsFetcher struct {
	httpClient *http.Client
	userAgent  string
	cache      cache.Cache
	sink       observe.Sink
}

// RobotsFetchResult is the outcome of one robots.txt fetch attempt.
type RobotsFetchResult struct {
	Data       *robotstxt.RobotsData
	FetchedAt  time.Time
	SourceURL  string
	HTTPStatus int
}

// NewRobotsFetcher creates a RobotsFetcher. cache may be nil to disable
// caching; sink may be nil to disable observability (tests commonly pass
// nil for both).
func NewRobotsFetcher(sink observe.Sink, userAgent string, c cache.Cache) *RobotsFetcher {
	return &RobotsFetcher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  userAgent,
		cache:      c,
		sink:       sink,
	}
}

// NewRobotsFetcherWithClient is the test/injection entry point, allowing a
// caller to substitute an httptest-backed client.
func NewRobotsFetcherWithClient(sink observe.Sink, userAgent string, httpClient *http.Client, c cache.Cache) *RobotsFetcher {
	return &RobotsFetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
		cache:      c,
		sink:       sink,
	}
}

func cacheKey(scheme, hostname string) string {
	return fmt.Sprintf("%s://%s/robots.txt", scheme, hostname)
}

// Fetch retrieves and parses robots.txt for hostname, consulting the cache
// first. A 4xx status other than 429 still returns a usable RobotsData:
// per RFC 9309, a 4xx response means "no restrictions" and
// temoto/robotstxt encodes that directly in the parsed result, so callers
// never special-case the status code themselves. A 429 or any 5xx status
// returns a retryable RobotsError instead.
func (f *RobotsFetcher) Fetch(ctx context.Context, scheme, hostname string) (RobotsFetchResult, *RobotsError) {
	key := cacheKey(scheme, hostname)
	if f.cache != nil {
		if raw, found := f.cache.Get(key); found {
			if data, err := robotstxt.FromStatusAndString(200, raw); err == nil {
				return RobotsFetchResult{Data: data, SourceURL: key, HTTPStatus: 200}, nil
			}
		}
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key, nil)
	if err != nil {
		return RobotsFetchResult{}, f.fail(ErrCausePreFetchFailure, false, "build request for %s: %v", key, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/plain,text/html,*/*")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return RobotsFetchResult{}, f.fail(ErrCauseHttpFetchFailure, true, "fetch %s: %v", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return RobotsFetchResult{}, f.fail(ErrCauseHttpTooManyRequests, true, "rate limited fetching %s", key)
	}
	if resp.StatusCode >= 500 {
		return RobotsFetchResult{}, f.fail(ErrCauseHttpServerError, true, "server error %d fetching %s", resp.StatusCode, key)
	}

	const maxSize = 500 * 1024
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return RobotsFetchResult{}, f.fail(ErrCauseParseError, true, "read body for %s: %v", key, err)
	}
	if len(body) > maxSize {
		body = body[:maxSize]
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return RobotsFetchResult{}, f.fail(ErrCauseParseError, false, "parse %s: %v", key, err)
	}

	if f.cache != nil && resp.StatusCode < 300 {
		f.cache.Put(key, string(body))
	}
	if f.sink != nil {
		f.sink.RecordFetch(observe.FetchEvent{
			URL:        key,
			HTTPStatus: resp.StatusCode,
			Duration:   time.Since(start),
		})
	}

	return RobotsFetchResult{Data: data, FetchedAt: start, SourceURL: key, HTTPStatus: resp.StatusCode}, nil
}

func (f *RobotsFetcher) fail(cause RobotsErrorCause, retryable bool, format string, args ...any) *RobotsError {
	e := &RobotsError{Message: fmt.Sprintf(format, args...), Retryable: retryable, Cause: cause}
	if f.sink != nil {
		f.sink.RecordError(observe.ErrorEvent{
			Package: "robots",
			Action:  "Fetch",
			Cause:   mapRobotsErrorToObserveCause(e),
			Err:     e,
		})
	}
	return e
}

func (f *RobotsFetcher) UserAgent() string {
	return f.userAgent
}

func (f *RobotsFetcher) HttpClient() *http.Client {
	return f.httpClient
}

func (f *RobotsFetcher) Cache() cache.Cache {
	return f.cache
}
