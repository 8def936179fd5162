// Package classifier assigns a priority Tier and a PageType to a URL,
// from the URL shape alone or refined with a fetched page (spec §4.B).
// Classification is pure and deterministic: the orchestrator leans on
// this to pre-budget a run before a single byte has been fetched.
package classifier

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/seoaudit/engine/internal/model"
)

// primaryServiceSlugs mark a page as the commercial core of the site:
// T1 regardless of anything else on the page.
var primaryServiceSlugs = map[string]bool{
	"services":   true,
	"solutions":  true,
	"products":   true,
	"what-we-do": true,
}

// keyLandingSlugs are conversion-path pages: also T1, but distinct from
// primaryServiceSlugs because they describe an action, not an offering.
var keyLandingSlugs = map[string]bool{
	"pricing":     true,
	"quote":       true,
	"get-started": true,
	"book":        true,
}

// secondaryServiceSlugs widen the T2 "contact/about"-style bucket to
// sibling service-description pages that aren't the primary offering
// page matched above (e.g. a standalone "/consulting" page on a site
// whose main offering lives at "/services").
var secondaryServiceSlugs = map[string]bool{
	"solution":   true,
	"consulting": true,
	"offerings":  true,
	"plans":      true,
}

// tier2Slugs are pages whose content matters for trust and conversion
// but aren't the commercial core of the site.
var tier2Slugs = map[string]bool{
	"contact":        true,
	"about":          true,
	"locations":      true,
	"location":       true,
	"service-area":   true,
	"areas-we-serve": true,
	"team":           true,
	"staff":          true,
}

// pageTypeBySlug maps a first path segment to its PageType, independent
// of tier. Slugs absent from this table (blog posts, legal pages,
// anything else) fall through to pattern matching in pageType below.
var pageTypeBySlug = map[string]model.PageType{
	"services":         model.PageTypeService,
	"solutions":        model.PageTypeService,
	"products":         model.PageTypeService,
	"what-we-do":       model.PageTypeService,
	"solution":         model.PageTypeService,
	"consulting":       model.PageTypeService,
	"offerings":        model.PageTypeService,
	"plans":            model.PageTypeService,
	"locations":        model.PageTypeLocation,
	"location":         model.PageTypeLocation,
	"service-area":     model.PageTypeServiceArea,
	"areas-we-serve":   model.PageTypeServiceArea,
	"contact":          model.PageTypeContact,
	"contact-us":       model.PageTypeContact,
	"about":            model.PageTypeAbout,
	"about-us":         model.PageTypeAbout,
	"team":             model.PageTypeAbout,
	"staff":            model.PageTypeAbout,
	"blog":             model.PageTypeBlog,
	"news":             model.PageTypeBlog,
	"articles":         model.PageTypeBlog,
	"privacy":          model.PageTypeLegal,
	"privacy-policy":   model.PageTypeLegal,
	"terms":            model.PageTypeLegal,
	"terms-of-service": model.PageTypeLegal,
	"legal":            model.PageTypeLegal,
	"cookie-policy":    model.PageTypeLegal,
}

var indexPathPattern = regexp.MustCompile(`^index(\.\w+)?$`)

// Classify decides a URL's priority tier and page type. crawl may be
// nil: the orchestrator calls this form to pre-budget the frontier
// before any fetch has happened. When crawl is present its title is
// consulted to catch brand+service homepages whose path alone doesn't
// say so (e.g. "/" already handles this, but a non-root marketing page
// titled "Acme Plumbing Services" should still tier as T1).
func Classify(target *url.URL, crawl *model.PageCrawlResult) (model.Tier, model.PageType) {
	segment := firstSegment(target)

	tier := classifyTier(segment, crawl)
	pageType := classifyPageType(segment, target)
	return tier, pageType
}

func classifyTier(segment string, crawl *model.PageCrawlResult) model.Tier {
	if isHomepage(segment) {
		return model.TierT1
	}
	if primaryServiceSlugs[segment] {
		return model.TierT1
	}
	if crawl != nil && titleSuggestsPrimaryService(crawl.Title) {
		return model.TierT1
	}
	if keyLandingSlugs[segment] {
		return model.TierT1
	}
	if tier2Slugs[segment] || secondaryServiceSlugs[segment] {
		return model.TierT2
	}
	return model.TierT3
}

func classifyPageType(segment string, target *url.URL) model.PageType {
	if isHomepage(segment) {
		return model.PageTypeHome
	}
	if pt, ok := pageTypeBySlug[segment]; ok {
		return pt
	}
	if looksLikeBlogPath(target) {
		return model.PageTypeBlog
	}
	return model.PageTypeOther
}

func isHomepage(segment string) bool {
	return segment == "" || indexPathPattern.MatchString(segment)
}

// firstSegment returns the lowercased first path segment of u, with
// leading/trailing slashes trimmed, the same normalization the
// tiering and page-type tables are keyed on.
func firstSegment(u *url.URL) string {
	path := strings.ToLower(strings.Trim(u.Path, "/"))
	if path == "" {
		return ""
	}
	if idx := strings.Index(path, "/"); idx > 0 {
		path = path[:idx]
	}
	return path
}

// looksLikeBlogPath catches date-prefixed archive paths (e.g.
// "/2024/05/how-to-choose-a-plumber") that don't use a blog-like slug at
// all. It matches only that "/YYYY/MM/" prefix; posts nested under a
// blog-like prefix such as "/blog/..." are left to firstSegment.
var blogArchivePattern = regexp.MustCompile(`^/\d{4}/\d{2}/`)

func looksLikeBlogPath(u *url.URL) bool {
	return blogArchivePattern.MatchString(u.Path)
}

// titleSuggestsPrimaryService is a narrow heuristic: a page whose title
// names a primary-service slug term isn't necessarily at a matching
// path (redirects, trailing marketing pages), but still functions as
// the site's commercial core and should fetch and score as T1.
func titleSuggestsPrimaryService(title string) bool {
	lower := strings.ToLower(title)
	for slug := range primaryServiceSlugs {
		term := strings.ReplaceAll(slug, "-", " ")
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
