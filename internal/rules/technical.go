package rules

import (
	"fmt"
	"time"

	"github.com/seoaudit/engine/internal/model"
)

const excessiveRedirectThreshold = 2

func technicalRules() []Rule {
	return []Rule{
		newRule("technical.h1.missing", model.CategoryTechnicalSEO, true, ruleH1Missing),
		newRule("technical.canonical.missing", model.CategoryTechnicalSEO, false, ruleCanonicalMissing),
		newRule("technical.robots_meta.noindex", model.CategoryTechnicalSEO, false, ruleRobotsMetaNoindex),
		newRule("technical.viewport.missing", model.CategoryTechnicalSEO, true, ruleViewportMissing),
		newRule("technical.lang.missing", model.CategoryTechnicalSEO, false, ruleLangMissing),
		newRule("technical.redirect_chain.excessive", model.CategoryTechnicalSEO, false, ruleRedirectChainExcessive),
		newRule("technical.sitemap.absent", model.CategoryTechnicalSEO, false, ruleSitemapAbsent),
	}
}

func ruleH1Missing(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	evidence := model.Evidence{"h1_count": len(p.Crawl.H1)}
	status := func(e model.Evidence) model.Status {
		if e["h1_count"].(int) == 0 {
			return model.StatusOFI
		}
		return model.StatusOK
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"technical.h1.missing", model.CategoryTechnicalSEO,
		"H1 heading present",
		"A missing H1 removes a strong on-page relevance signal search engines rely on.",
		"", model.ImportanceHigh, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}

func ruleCanonicalMissing(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	evidence := model.Evidence{"canonical_present": p.Crawl.Canonical != ""}
	status := func(e model.Evidence) model.Status {
		if e["canonical_present"].(bool) {
			return model.StatusOK
		}
		return model.StatusOFI
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"technical.canonical.missing", model.CategoryTechnicalSEO,
		"Canonical tag present",
		"A canonical link disambiguates the preferred URL for duplicate or parameterized content.",
		"", model.ImportanceMedium, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}

func ruleRobotsMetaNoindex(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	noindex := containsDirective(p.Crawl.RobotsDirectives, "noindex")
	evidence := model.Evidence{"directives": p.Crawl.RobotsDirectives, "noindex": noindex}
	status := func(e model.Evidence) model.Status {
		if e["noindex"].(bool) {
			return model.StatusOFI
		}
		return model.StatusOK
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"technical.robots_meta.noindex", model.CategoryTechnicalSEO,
		"Page is indexable",
		"A noindex directive removes the page from search results entirely.",
		"", model.ImportanceHigh, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}

func containsDirective(directives []string, want string) bool {
	for _, d := range directives {
		if d == want {
			return true
		}
	}
	return false
}

func ruleViewportMissing(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	evidence := model.Evidence{"viewport_present": p.Crawl.Viewport != ""}
	status := func(e model.Evidence) model.Status {
		if e["viewport_present"].(bool) {
			return model.StatusOK
		}
		return model.StatusOFI
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"technical.viewport.missing", model.CategoryTechnicalSEO,
		"Mobile viewport meta tag present",
		"Without a viewport meta tag mobile browsers render a desktop-width layout, hurting both usability and mobile ranking signals.",
		"", model.ImportanceHigh, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}

func ruleLangMissing(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	evidence := model.Evidence{"lang_present": p.Crawl.Lang != ""}
	status := func(e model.Evidence) model.Status {
		if e["lang_present"].(bool) {
			return model.StatusOK
		}
		return model.StatusOFI
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"technical.lang.missing", model.CategoryTechnicalSEO,
		"Document language declared",
		"A declared lang attribute helps search engines serve the page to the right locale and assists screen readers.",
		"", model.ImportanceLow, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}

func ruleRedirectChainExcessive(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	evidence := model.Evidence{"redirect_count": p.Crawl.RedirectCount, "threshold": excessiveRedirectThreshold}
	status := func(e model.Evidence) model.Status {
		if e["redirect_count"].(int) > excessiveRedirectThreshold {
			return model.StatusOFI
		}
		return model.StatusOK
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"technical.redirect_chain.excessive", model.CategoryTechnicalSEO,
		"Redirect chain within bounds",
		fmt.Sprintf("Chains longer than %d hops waste crawl budget and add latency.", excessiveRedirectThreshold),
		"", model.ImportanceLow, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}

// ruleSitemapAbsent is site-wide: its factor carries an empty PageURL,
// matching spec §3's allowance for a nil PageURL factor. The
// orchestrator's analysis stage runs it once per page; that is still
// correct since it's a pure function of SiteContext and yields an
// identical factor each time, but wasteful — the aggregator dedupes by
// ID + empty PageURL before scoring.
func ruleSitemapAbsent(p model.PageRecord, site SiteContext) []model.AuditFactor {
	evidence := model.Evidence{"sitemap_present": site.SitemapPresent}
	status := func(e model.Evidence) model.Status {
		if e["sitemap_present"].(bool) {
			return model.StatusOK
		}
		return model.StatusOFI
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"technical.sitemap.absent", model.CategoryTechnicalSEO,
		"Sitemap discoverable",
		"A sitemap speeds up discovery of new and updated pages.",
		"", model.ImportanceLow, evidence, status,
		"", p.Tier, p.PageType, time.Now(),
	)}
}
