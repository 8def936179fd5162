package observe_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/seoaudit/engine/internal/observe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFetch_WritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	r := observe.NewRecorder(&buf, "info")

	r.RecordFetch(observe.FetchEvent{
		URL:        "https://example.com/",
		HTTPStatus: 200,
		Duration:   50 * time.Millisecond,
		Tier:       "T1",
	})

	out := buf.String()
	assert.Contains(t, out, `"url":"https://example.com/"`)
	assert.Contains(t, out, `"http_status":200`)
	assert.Contains(t, out, `"tier":"T1"`)
}

func TestRecordError_NeverPanicsOnNilErr(t *testing.T) {
	var buf bytes.Buffer
	r := observe.NewRecorder(&buf, "warn")

	assert.NotPanics(t, func() {
		r.RecordError(observe.ErrorEvent{
			Package: "fetch",
			Action:  "Get",
			Cause:   observe.CauseNetworkFailure,
		})
	})
	assert.Contains(t, buf.String(), `"cause":"network_failure"`)
}

func TestRecordError_IncludesUnderlyingErr(t *testing.T) {
	var buf bytes.Buffer
	r := observe.NewRecorder(&buf, "warn")

	r.RecordError(observe.ErrorEvent{
		Package: "robots",
		Action:  "Fetch",
		Cause:   observe.CausePolicyDisallow,
		Err:     errors.New("disallowed by robots.txt"),
	})

	assert.Contains(t, buf.String(), "disallowed by robots.txt")
}

func TestRecordFinalStats_ReportsReachedCap(t *testing.T) {
	var buf bytes.Buffer
	r := observe.NewRecorder(&buf, "info")

	r.RecordFinalStats(observe.FinalStats{
		TotalPages: 50,
		ReachedCap: true,
	})

	require.Contains(t, buf.String(), `"reached_cap":true`)
}

func TestUnknownLevel_FallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	r := observe.NewRecorder(&buf, "not-a-level")

	r.RecordFetch(observe.FetchEvent{URL: "https://example.com/"})

	assert.Contains(t, buf.String(), `"level":"info"`)
}
