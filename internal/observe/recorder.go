package observe

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Recorder is the zerolog-backed Sink/Finalizer implementation. It holds no
// crawl state beyond the logger itself; every Record* call is a structured
// log line, never a read-modify-write against shared counters.
type Recorder struct {
	log zerolog.Logger
}

// NewRecorder builds a Recorder writing to w at the given level. Pass
// os.Stdout and "info" for normal CLI runs; tests typically pass an
// io.Discard-backed logger or capture into a bytes.Buffer.
func NewRecorder(w io.Writer, level string) *Recorder {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	logger := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return &Recorder{log: logger}
}

// NewDefaultRecorder builds a Recorder writing a human-readable console
// stream to stdout at info level, the shape used by cmd/seoaudit.
func NewDefaultRecorder() *Recorder {
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	return &Recorder{log: zerolog.New(cw).With().Timestamp().Logger()}
}

func (r *Recorder) RecordFetch(e FetchEvent) {
	r.log.Info().
		Str("url", e.URL).
		Int("http_status", e.HTTPStatus).
		Dur("duration", e.Duration).
		Str("content_type", e.ContentType).
		Int("retry_count", e.RetryCount).
		Str("tier", e.Tier).
		Msg("fetch complete")
}

func (r *Recorder) RecordError(e ErrorEvent) {
	ev := r.log.Warn()
	if e.Err != nil {
		ev = ev.Err(e.Err)
	}
	ev.Str("package", e.Package).
		Str("action", e.Action).
		Str("cause", e.Cause.String()).
		Str("url", e.URL).
		Msg("observed error")
}

func (r *Recorder) RecordFinalStats(s FinalStats) {
	r.log.Info().
		Int("total_pages", s.TotalPages).
		Int("total_errors", s.TotalErrors).
		Int("total_factors", s.TotalFactors).
		Int64("duration_ms", s.DurationMS).
		Bool("reached_cap", s.ReachedCap).
		Msg("run finished")
}

var _ Sink = (*Recorder)(nil)
var _ Finalizer = (*Recorder)(nil)
