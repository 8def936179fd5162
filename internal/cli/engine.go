package cmd

import (
	"fmt"
	"os"

	"github.com/seoaudit/engine/internal/config"
	"github.com/seoaudit/engine/internal/fetch"
	"github.com/seoaudit/engine/internal/observe"
	"github.com/seoaudit/engine/internal/orchestrator"
	"github.com/seoaudit/engine/internal/robots"
	"github.com/seoaudit/engine/internal/robots/cache"
)

// buildOrchestrator wires one Orchestrator from a resolved Config, the
// way the teacher's InitConfig wired one Crawler from a resolved
// Config — except the pieces being assembled are an HTTP backend, an
// optional headless backend, a robots.Robot, and an observe.Recorder
// rather than an extraction pipeline.
func buildOrchestrator(cfg *config.Config) (*orchestrator.Orchestrator, error) {
	recorder := newRecorder(cfg.Logging)

	httpBackend := fetch.NewHTTPBackend()

	var headlessBackend *fetch.HeadlessBackend
	monitor := fetch.NewResourceMonitor(cfg.Run.HeadlessPoolSize)
	hb, err := fetch.NewHeadlessBackend(cfg.Run.HeadlessPoolSize, monitor)
	if err != nil {
		// The headless backend is an enhancement, not a dependency the
		// whole system hinges on (spec §4.A) — a run proceeds HTTP-only
		// rather than failing outright when no browser is available.
		recorder.RecordError(observe.ErrorEvent{
			Package: "cli",
			Action:  "buildOrchestrator",
			Cause:   observe.CauseUnknown,
			Err:     fmt.Errorf("headless backend unavailable, continuing HTTP-only: %w", err),
		})
		headlessBackend = nil
	} else {
		headlessBackend = hb
	}

	robotsFetcher := robots.NewRobotsFetcher(recorder, orchestrator.DefaultRunOptions().UserAgent(), cache.NewMemoryCache())
	robot := robots.NewRobot(robotsFetcher, orchestrator.DefaultRunOptions().UserAgent())

	var headlessAsBackend fetch.Backend
	if headlessBackend != nil {
		headlessAsBackend = headlessBackend
	}

	o := orchestrator.New(httpBackend, headlessAsBackend, robot, recorder, recorder)
	return o, nil
}

func newRecorder(cfg config.LoggingConfig) *observe.Recorder {
	if cfg.Format == "json" {
		return observe.NewRecorder(os.Stdout, cfg.Level)
	}
	return observe.NewDefaultRecorder()
}
