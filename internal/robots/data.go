package robots

import (
	"net/url"
	"time"
)

// DecisionReason explains why Decide reached its Allowed verdict, for
// logging — it is never branched on by callers.
type DecisionReason string

const (
	AllowedByRobots    DecisionReason = "allowed_by_robots"
	DisallowedByRobots DecisionReason = "disallowed_by_robots"
	EmptyRuleSet       DecisionReason = "empty_rule_set"
	FetchFailedOpen    DecisionReason = "fetch_failed_open"
)

// Decision is the verdict Decide returns for one URL.
type Decision struct {
	Url url.URL

	Allowed bool

	Reason DecisionReason

	// CrawlDelay is the robots.txt Crawl-delay for this host, if declared.
	CrawlDelay *time.Duration
}
