// Package robots enforces RFC 9309 robots.txt policy before a URL is
// fetched. Fetching and caching are local; matching
// (group selection, longest-prefix allow/disallow precedence, wildcard
// and end-anchor handling) is delegated to temoto/robotstxt rather than
// reimplemented here.
package robots

import (
	"context"
	"net/url"
	"time"
)

// Robot fetches robots.txt per host, caches it for the run, and decides
// whether a given URL may be crawled. The orchestrator runs the check
// after a URL is popped off the frontier and before it is fetched.
type Robot struct {
	fetcher   *RobotsFetcher
	userAgent string
}

// NewRobot builds a Robot that evaluates rules for userAgent, using fetcher
// to retrieve and cache each host's robots.txt.
func NewRobot(fetcher *RobotsFetcher, userAgent string) *Robot {
	return &Robot{fetcher: fetcher, userAgent: userAgent}
}

// Decide fetches (or reuses the cached) robots.txt for u's host and returns
// whether u may be crawled.
//
// A fetch failure fails open: the URL is allowed and Reason is set to
// FetchFailedOpen. A host whose operator cannot serve robots.txt has not
// expressed a disallow policy, so refusing to crawl would be more wrong
// than crawling.
func (r *Robot) Decide(ctx context.Context, u *url.URL) (Decision, *RobotsError) {
	result, err := r.fetcher.Fetch(ctx, u.Scheme, u.Host)
	if err != nil {
		return Decision{Url: *u, Allowed: true, Reason: FetchFailedOpen}, err
	}

	group := result.Data.FindGroup(r.userAgent)
	if group == nil {
		return Decision{Url: *u, Allowed: true, Reason: EmptyRuleSet}, nil
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	allowed := group.Test(path)
	reason := DisallowedByRobots
	if allowed {
		reason = AllowedByRobots
	}

	var delay *time.Duration
	if group.CrawlDelay > 0 {
		d := group.CrawlDelay
		delay = &d
	}

	return Decision{Url: *u, Allowed: allowed, Reason: reason, CrawlDelay: delay}, nil
}
