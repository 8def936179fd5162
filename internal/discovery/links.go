package discovery

import (
	"net/url"
	"strings"
	"sync"

	"github.com/seoaudit/engine/internal/model"
	"github.com/seoaudit/engine/internal/urlkey"
)

// Resolve turns a raw href found on a page into an absolute URL relative
// to base. Returns ok=false for hrefs that can never be crawl targets
// (empty, fragment-only, javascript:, mailto:, tel:).
func Resolve(base *url.URL, href string) (*url.URL, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return nil, false
	}
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") {
		return nil, false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil, false
	}
	return resolved, true
}

// InScope reports whether target belongs to the crawl's host scope. When
// includeSubdomains is false, only an exact (www.-insensitive) host match
// qualifies; when true, any subdomain of seedHost also qualifies.
func InScope(target *url.URL, seedHost string, includeSubdomains bool) bool {
	targetHost := stripWWW(strings.ToLower(target.Host))
	seed := stripWWW(strings.ToLower(seedHost))

	if targetHost == seed {
		return true
	}
	if includeSubdomains && strings.HasSuffix(targetHost, "."+seed) {
		return true
	}
	return false
}

func stripWWW(host string) string {
	return strings.TrimPrefix(host, "www.")
}

// InLinkCounter tallies, across the whole crawl, how many inbound links
// (one per Record call, so a page linking twice counts twice) point at
// each URL key — the signal the frontier's priority queue sorts
// on as its second ordering key. Concurrency-safe: orchestrator workers
// record links as they extract them, while the frontier reads counts to
// order incoming pushes.
type InLinkCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewInLinkCounter builds an empty counter.
func NewInLinkCounter() *InLinkCounter {
	return &InLinkCounter{counts: map[string]int{}}
}

// Record registers one more inbound link to target, keyed by its
// normalized URL key so that query-parameter or trailing-slash variants
// of the same page accumulate into a single count.
func (c *InLinkCounter) Record(target *url.URL) {
	key := urlkey.Normalize(target)
	c.mu.Lock()
	c.counts[key]++
	c.mu.Unlock()
}

// Count returns the current in-link count for a URL key.
func (c *InLinkCounter) Count(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[key]
}

// PartitionLinks splits a page's extracted links into internal
// (in-scope) and external candidates, resolving each href against base
// first. Malformed or non-crawlable hrefs are silently dropped, matching
// the teacher's filter-then-resolve step in its scheduler.
func PartitionLinks(base *url.URL, links []model.Link, seedHost string, includeSubdomains bool) (internal, external []*url.URL) {
	for _, l := range links {
		resolved, ok := Resolve(base, l.Href)
		if !ok {
			continue
		}
		if InScope(resolved, seedHost, includeSubdomains) {
			internal = append(internal, resolved)
		} else {
			external = append(external, resolved)
		}
	}
	return internal, external
}
