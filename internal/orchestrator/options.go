// Package orchestrator drives one audit run from a seed URL to a
// terminal model.AuditReport: it owns admission, concurrency,
// politeness, backend selection, and retries (spec §4.D), delegating
// every other decision — robots policy, page tiering, rule execution,
// OFI classification, scoring — to the package that already owns it.
package orchestrator

import "time"

// RunOptions is the per-run tunable set, named and defaulted after the
// Submit Audit API's option bag rather than internal/config's layered
// file/env/flag Config, so this package does not depend on how a
// process loads its configuration.
type RunOptions struct {
	MaxPages          int
	MaxTime           time.Duration
	IncludeSubdomains bool
	HeadlessPoolSize  int
	UserAgentSuffix   string
	RespectRobots     bool
}

const (
	defaultMaxPages         = 50
	defaultMaxTime          = 15 * time.Minute
	defaultHeadlessPoolSize = 4
	defaultUserAgent        = "seoaudit/1.0"
	perHostConcurrency      = 2
	minHostInterval         = 250 * time.Millisecond
	httpFetchTimeout        = 15 * time.Second
	headlessFetchTimeout    = 20 * time.Second
	fetchMaxRetries         = 2
)

// DefaultRunOptions returns the spec §6/§4.D defaults: 50 pages, 15
// minute wall clock, 4 headless contexts, robots respected.
func DefaultRunOptions() RunOptions {
	return RunOptions{
		MaxPages:          defaultMaxPages,
		MaxTime:           defaultMaxTime,
		IncludeSubdomains: false,
		HeadlessPoolSize:  defaultHeadlessPoolSize,
		UserAgentSuffix:   "",
		RespectRobots:     true,
	}
}

// UserAgent returns the advertised user agent, appending the
// configured suffix so an operator can attribute a run to a specific
// audit without losing the tool's own identity (spec §4.D: "User agent
// advertises the tool's identity").
func (o RunOptions) UserAgent() string {
	if o.UserAgentSuffix == "" {
		return defaultUserAgent
	}
	return defaultUserAgent + " " + o.UserAgentSuffix
}

func (o RunOptions) withDefaults() RunOptions {
	if o.MaxPages <= 0 {
		o.MaxPages = defaultMaxPages
	}
	if o.MaxTime <= 0 {
		o.MaxTime = defaultMaxTime
	}
	if o.HeadlessPoolSize <= 0 {
		o.HeadlessPoolSize = defaultHeadlessPoolSize
	}
	return o
}
