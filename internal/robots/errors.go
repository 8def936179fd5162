package robots

import (
	"fmt"

	"github.com/seoaudit/engine/internal/observe"
	"github.com/seoaudit/engine/pkg/failure"
)

type RobotsErrorCause string

const (
	// ErrCauseRepeatedFetchFailure = "repeated fetch failure"
	ErrCauseDisallowRoot         = "root disallowed to be crawled"
	ErrCauseInvalidRobotsUrl     = "invalid robots.txt URL"
	ErrCausePreFetchFailure      = "failed before making fetch"
	ErrCauseHttpFetchFailure     = "failed to fetch"
	ErrCauseHttpTooManyRequests  = "too many requests"
	ErrCauseHttpTooManyRedirects = "too many redirects"
	ErrCauseHttpServerError      = "http server error"
	ErrCauseHttpUnexpectedStatus = "unexpected http status"
	ErrCauseParseError           = "failed to parse robots.txt"
)

type RobotsError struct {
	Message   string
	Retryable bool
	Cause     RobotsErrorCause
}

func (e *RobotsError) Error() string {
	return fmt.Sprintf("robots error: %s", e.Cause)
}

func (e *RobotsError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *RobotsError) IsRetryable() bool {
	return e.Retryable
}

// mapRobotsErrorToObserveCause maps robots-local error semantics to the
// canonical observe.ErrorCause table. This mapping is observational only
// and must never be used to derive control-flow decisions.
func mapRobotsErrorToObserveCause(err *RobotsError) observe.ErrorCause {
	switch err.Cause {
	case ErrCauseDisallowRoot:
		return observe.CausePolicyDisallow
	case ErrCauseInvalidRobotsUrl:
		return observe.CauseInvariantViolation
	case ErrCausePreFetchFailure:
		return observe.CauseUnknown
	case ErrCauseHttpFetchFailure:
		return observe.CauseNetworkFailure
	case ErrCauseHttpTooManyRequests:
		return observe.CauseNetworkFailure
	case ErrCauseHttpTooManyRedirects:
		return observe.CauseNetworkFailure
	case ErrCauseHttpServerError:
		return observe.CauseNetworkFailure
	case ErrCauseHttpUnexpectedStatus:
		return observe.CauseNetworkFailure
	case ErrCauseParseError:
		return observe.CauseContentInvalid
	default:
		return observe.CauseUnknown
	}
}
