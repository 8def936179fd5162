package orchestrator

import "github.com/seoaudit/engine/internal/model"

// thinStaticContentWords is the word-count floor below which a T1 page's
// static HTML is considered too weak to trust on its own, independent
// of whether detectJSHeavy's two-of-four heuristic actually fired.
const thinStaticContentWords = 200

// probableJSGateStatuses are the HTTP statuses a bot-challenge page
// commonly returns instead of the real content (Cloudflare/Akamai-style
// interstitials, rate-limit walls) — seeing one of these on a page this
// system otherwise expects to succeed is itself a signal the static
// fetch never saw the real page.
var probableJSGateStatuses = map[int]bool{
	403: true,
	429: true,
}

// NeedsHeadless implements the widened headless-gating rule of spec
// §4.D: the legacy "T1 AND js_heavy" rule under-triggers because a page
// can be weakly rendered without tripping the js_heavy heuristic (thin
// static content that isn't script-dense) or can be gated behind a
// challenge page that never reaches the parser at all. httpResult is
// the record the HTTP backend already produced for this page.
func NeedsHeadless(tier model.Tier, httpResult model.PageCrawlResult) bool {
	switch tier {
	case model.TierT1:
		return httpResult.JSHeavy ||
			httpResult.WordCount < thinStaticContentWords ||
			probableJSGate(httpResult)
	case model.TierT2:
		return httpResult.JSHeavy
	default:
		return false
	}
}

func probableJSGate(r model.PageCrawlResult) bool {
	if r.FetchError == nil {
		return false
	}
	return r.FetchError.Kind == model.FetchErrHTTP4xx && probableJSGateStatuses[r.FetchError.HTTPCode]
}
