package orchestrator

import (
	"context"
	"net/url"
	"time"

	"github.com/seoaudit/engine/internal/fetch"
	"github.com/seoaudit/engine/internal/model"
	"github.com/seoaudit/engine/pkg/failure"
	"github.com/seoaudit/engine/pkg/retry"
	"github.com/seoaudit/engine/pkg/timeutil"
)

// fetchRetryParam is the spec §4.D retry policy: up to 2 retries (3
// attempts total), backoff 1s then 3s, no jitter — a fixed, predictable
// schedule on top of the per-host spacing politeness already enforces.
var fetchRetryParam = retry.NewRetryParam(
	time.Second, 0, 1, fetchMaxRetries+1,
	timeutil.NewBackoffParam(time.Second, 3.0, 3*time.Second),
)

// fetchError adapts a model.FetchErrorKind into failure.ClassifiedError
// so pkg/retry's generic Retry can drive the fetch retry loop without
// that package knowing anything about fetch errors specifically.
type fetchError struct {
	kind      model.FetchErrorKind
	retryable bool
}

func (e *fetchError) Error() string { return string(e.kind) }

func (e *fetchError) Severity() failure.Severity {
	if e.retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *fetchError) IsRetryable() bool { return e.retryable }

// retryableFetchKind reports whether kind warrants a retry per spec
// §4.D: Timeout, Http5xx, and Dns (transient resolution hiccups) are
// retried; Http4xx is explicitly terminal, and the remaining kinds
// (ParseError, TooManyRedirects, Tls, Other) indicate a defect that
// retrying the same URL the same way won't fix.
func retryableFetchKind(kind model.FetchErrorKind) bool {
	switch kind {
	case model.FetchErrTimeout, model.FetchErrHTTP5xx, model.FetchErrDNS:
		return true
	default:
		return false
	}
}

// fetchWithRetry drives backend.Fetch through pkg/retry's generic
// Retry, returning the last attempt's PageCrawlResult regardless of
// outcome — retry.Result discards its value on final failure, but the
// caller still needs the failed attempt's FetchError to record in the
// report, so the last result is captured via closure rather than read
// back off the Result.
func fetchWithRetry(ctx context.Context, backend fetch.Backend, target *url.URL, userAgent string) model.PageCrawlResult {
	var last model.PageCrawlResult

	attempt := func() (model.PageCrawlResult, failure.ClassifiedError) {
		last = backend.Fetch(ctx, target, userAgent)
		if last.FetchError == nil {
			return last, nil
		}
		return last, &fetchError{kind: last.FetchError.Kind, retryable: retryableFetchKind(last.FetchError.Kind)}
	}

	result := retry.Retry(fetchRetryParam, attempt)
	if result.Err() != nil {
		return last
	}
	return result.Value()
}
