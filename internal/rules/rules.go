// Package rules is the registry of independent check functions that
// turn one crawled page (plus site-wide context) into AuditFactors
// (spec §4.E). Every rule is a pure function: no I/O, no shared
// mutable state, same input always yields the same factors.
package rules

import "github.com/seoaudit/engine/internal/model"

// SiteContext carries knowledge that spans the whole run, the things a
// single-page rule can't see on its own: every other page's crawl
// result (for NAP-consistency and site-wide architecture checks),
// whether a sitemap was found, and the robots.txt posture of the host.
type SiteContext struct {
	AllPages       []model.PageRecord
	SitemapPresent bool
	RobotsPresent  bool
}

// Rule is a single independent check (spec §4.E). Run must not perform
// I/O and must be side-effect-free; Category and Critical are fixed at
// registration time, not derived from the factors a call happens to
// produce.
type Rule interface {
	ID() string
	Category() model.Category
	Critical() bool
	Run(page model.PageRecord, site SiteContext) []model.AuditFactor
}

// ruleFunc adapts a plain function plus its fixed metadata into a Rule,
// the same "function wrapped in a tiny struct" shape the analyzer
// corpus uses for one-check-per-function rule bodies.
type ruleFunc struct {
	id       string
	category model.Category
	critical bool
	run      func(model.PageRecord, SiteContext) []model.AuditFactor
}

func (r ruleFunc) ID() string                    { return r.id }
func (r ruleFunc) Category() model.Category       { return r.category }
func (r ruleFunc) Critical() bool                 { return r.critical }
func (r ruleFunc) Run(p model.PageRecord, s SiteContext) []model.AuditFactor {
	return r.run(p, s)
}

func newRule(id string, category model.Category, critical bool, run func(model.PageRecord, SiteContext) []model.AuditFactor) Rule {
	return ruleFunc{id: id, category: category, critical: critical, run: run}
}

// Catalog is the registry of all rules available to a run, built once
// at startup and iterated read-only thereafter by the orchestrator's
// analysis stage.
type Catalog struct {
	rules []Rule
}

// NewCatalog builds the catalog wired with the full representative
// cross-section from spec §4.E. Construction never fails: every rule
// in this package is a pure function with no external dependency.
func NewCatalog() *Catalog {
	c := &Catalog{}
	c.rules = append(c.rules, contentRules()...)
	c.rules = append(c.rules, technicalRules()...)
	c.rules = append(c.rules, localRules()...)
	c.rules = append(c.rules, uxRules()...)
	return c
}

// Rules returns the registered rule set in registration order. The
// orchestrator's analysis stage is expected to run them in this order
// to keep factor emission order stable across runs (spec §5's
// single-writer collector discipline).
func (c *Catalog) Rules() []Rule {
	return c.rules
}

// CriticalSet returns the closed set of rule IDs declared critical at
// registration time, the schema internal/ofi consumes to evaluate its
// isCritical predicate. Built from Critical(), never from a name or ID
// regex (spec §4.F, §9 — the legacy defect this corrects).
func (c *Catalog) CriticalSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, r := range c.rules {
		if r.Critical() {
			set[r.ID()] = struct{}{}
		}
	}
	return set
}
