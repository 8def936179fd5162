// Package aggregator turns a run's raw AuditFactors into the final
// Summary (spec §4.G), grounded on sells-group-research-cli's
// WebsiteScorer.Score/refineScore category-weight-and-renormalize
// pattern: gather signals per page, fold them into per-category
// figures, then refine the totals in one pass rather than re-deriving
// them ad hoc at call sites.
package aggregator

import "github.com/seoaudit/engine/internal/model"

// CategoryWeights are the fixed category weights of spec §4.G. Kept as
// a package-level var rather than a literal at each call site so a
// single definition backs both Aggregate and any future report
// renderer that needs to explain a score.
var CategoryWeights = map[model.Category]float64{
	model.CategoryContentQuality: 0.30,
	model.CategoryTechnicalSEO:   0.30,
	model.CategoryLocalSEOEEAT:   0.20,
	model.CategoryUxPerformance:  0.20,
}

// Aggregate keeps one copy of each site-wide factor (empty PageURL) per
// ID, runs the cross-factor demotion pass of spec §4.F over the
// already OFI-classified factor set, then derives the final Summary
// from the (possibly demoted) factors via model.NewSummary. It does
// not run rules or the OFI engine itself — the orchestrator runs those
// over every page once the crawl has finished; Aggregate is the
// single whole-run pass that needs every page's tier at once.
func Aggregate(factors []model.AuditFactor, pages []model.PageRecord) (demoted []model.AuditFactor, summary model.Summary) {
	seenSiteWide := map[string]bool{}
	kept := make([]model.AuditFactor, 0, len(factors))
	for _, f := range factors {
		if f.PageURL == "" {
			if seenSiteWide[f.ID] {
				continue
			}
			seenSiteWide[f.ID] = true
		}
		kept = append(kept, f)
	}
	demoted = demotePriorityOFIs(kept, pages)
	summary = model.NewSummary(demoted, CategoryWeights)
	return demoted, summary
}

// demotePriorityOFIs downgrades every PriorityOFI back to OFI when the
// run crawled nothing but Tier-3 pages (spec §4.F: "may demote a
// PriorityOFI back to OFI only if every page on the site is T3 (pure
// blog archive)"). A site with no pages at all has no T1/T2 to speak
// of either, but with nothing crawled there's nothing to demote, so an
// empty page set is a no-op rather than a vacuous "all T3" match.
func demotePriorityOFIs(factors []model.AuditFactor, pages []model.PageRecord) []model.AuditFactor {
	if len(pages) == 0 || !allT3(pages) {
		return factors
	}

	out := make([]model.AuditFactor, len(factors))
	for i, f := range factors {
		if f.Status == model.StatusPriorityOFI {
			f.Status = model.StatusOFI
		}
		out[i] = f
	}
	return out
}

func allT3(pages []model.PageRecord) bool {
	for _, p := range pages {
		if p.Tier != model.TierT3 {
			return false
		}
	}
	return true
}
