package orchestrator

import (
	"context"
	"net/url"

	"github.com/seoaudit/engine/internal/classifier"
	"github.com/seoaudit/engine/internal/discovery"
	"github.com/seoaudit/engine/internal/frontier"
	"github.com/seoaudit/engine/internal/model"
	"github.com/seoaudit/engine/internal/observe"
	"github.com/seoaudit/engine/internal/rules"
	"github.com/seoaudit/engine/internal/urlkey"
)

// processOne runs the full per-page pipeline for one admitted frontier
// item: robots admission, politeness, fetch (with retry), conditional
// headless re-fetch, final tiering, and link discovery feeding back
// into the frontier. It never returns an error — a disallowed or
// failed page still produces a PageRecord, carrying whatever
// FetchError explains the outcome, so the report always accounts for
// every URL the frontier admitted.
func (o *Orchestrator) processOne(ctx context.Context, item workItem, seed *url.URL, opts RunOptions, queue *frontier.PriorityQueue) model.PageRecord {
	host := item.url.Hostname()

	if o.robot != nil && opts.RespectRobots {
		decision, robotsErr := o.robot.Decide(ctx, item.url)
		if robotsErr == nil && !decision.Allowed {
			return model.PageRecord{
				Crawl: model.PageCrawlResult{
					URL:        item.url.String(),
					FetchError: &model.FetchError{Kind: model.FetchErrOther, Message: string(decision.Reason)},
				},
				Tier: item.tier,
			}
		}
		if robotsErr == nil && decision.CrawlDelay != nil {
			o.limiter.SetCrawlDelay(host, *decision.CrawlDelay)
		}
	}

	if err := o.gate.Acquire(ctx, host); err != nil {
		return model.PageRecord{
			Crawl: model.PageCrawlResult{URL: item.url.String(), FetchError: &model.FetchError{Kind: model.FetchErrTimeout, Message: err.Error()}},
			Tier:  item.tier,
		}
	}
	defer o.gate.Release(host)

	if err := o.limiter.Wait(ctx, host); err != nil {
		return model.PageRecord{
			Crawl: model.PageCrawlResult{URL: item.url.String(), FetchError: &model.FetchError{Kind: model.FetchErrTimeout, Message: err.Error()}},
			Tier:  item.tier,
		}
	}

	ua := opts.UserAgent()
	result := fetchWithRetry(ctx, o.http, item.url, ua)

	if result.FetchError != nil {
		o.limiter.Backoff(host)
	} else {
		o.limiter.ResetBackoff(host)
	}

	if o.headless != nil && NeedsHeadless(item.tier, result) {
		result = o.headless.Fetch(ctx, item.url, ua)
	}

	if o.sink != nil {
		o.sink.RecordFetch(observe.FetchEvent{
			URL:         result.URL,
			HTTPStatus:  result.HTTPStatus,
			ContentType: "",
			Tier:        string(item.tier),
		})
		if result.FetchError != nil {
			o.sink.RecordError(observe.ErrorEvent{
				Package: "orchestrator",
				Action:  "fetch",
				Cause:   fetchErrorCause(result.FetchError.Kind),
				Err:     result.FetchError,
				URL:     result.URL,
			})
		}
	}

	tier, pageType := classifier.Classify(item.url, &result)

	record := model.PageRecord{Crawl: result, Tier: tier, PageType: pageType}

	if result.FetchError == nil {
		seedHost := seed.Hostname()
		internal, _ := discovery.PartitionLinks(item.url, result.Internal, seedHost, opts.IncludeSubdomains)
		for _, link := range internal {
			o.inLinks.Record(link)
			key := urlkey.Normalize(link)
			if queue.Seen(key) {
				continue
			}
			linkTier, _ := classifier.Classify(link, nil)
			queue.Push(*link, key, linkTier, o.inLinks.Count(key))
		}
	}

	return record
}

// fetchErrorCause maps the closed FetchErrorKind taxonomy onto
// observe's closed ErrorCause taxonomy, for reporting only — it must
// never feed back into a retry or admission decision, that remains
// retryableFetchKind's job.
func fetchErrorCause(kind model.FetchErrorKind) observe.ErrorCause {
	switch kind {
	case model.FetchErrDNS, model.FetchErrTimeout, model.FetchErrHTTP5xx, model.FetchErrTooManyRedirects:
		return observe.CauseNetworkFailure
	case model.FetchErrTLS:
		return observe.CauseInvariantViolation
	case model.FetchErrHTTP4xx:
		return observe.CausePolicyDisallow
	case model.FetchErrParse:
		return observe.CauseContentInvalid
	default:
		return observe.CauseUnknown
	}
}

// analyzeAll runs every rule in the catalog against every page, once
// the full page set and its SiteContext (sitemap presence, robots
// presence) are known. This is a single pass, not per-page-then-site-wide,
// since rules.Rule gives every rule the same SiteContext regardless of
// whether it actually reads cross-page fields — running it twice would
// double every per-page factor.
func (o *Orchestrator) analyzeAll(site rules.SiteContext) []model.AuditFactor {
	var factors []model.AuditFactor
	for _, page := range site.AllPages {
		for _, r := range o.catalog.Rules() {
			factors = append(factors, r.Run(page, site)...)
		}
	}
	return factors
}
