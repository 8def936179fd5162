// Package ofi implements the OFI Classification Engine (spec §4.F): a
// deterministic, stateless re-examination of every non-OK AuditFactor
// against a four-criteria priority matrix, deciding whether a
// deficiency escalates from a routine Opportunity-For-Improvement to a
// Priority OFI.
package ofi

import (
	"regexp"

	"github.com/seoaudit/engine/internal/model"
)

// businessRelevantPageTypes are the page types where a conversion-path
// element (phone, form, service copy) carries Business-Value Impact
// even on a page that isn't itself Tier-1 (spec §4.F criterion 3).
var businessRelevantPageTypes = map[model.PageType]bool{
	model.PageTypeContact:  true,
	model.PageTypeService:  true,
	model.PageTypeLocation: true,
}

// conversionRelevantIDs are factor IDs that concern a conversion
// element for criterion 3's "AND concerns a conversion-relevant
// element" clause.
var conversionRelevantIDs = map[string]bool{
	"local.nap.phone.missing":        true,
	"local.nap.consistency":          true,
	"local.contact_form.missing":     true,
	"local.service_description.thin": true,
}

// seoVisibilityIDs are factor IDs that measure something search
// engines explicitly rely on to index or rank a page (spec §4.F
// criterion 1). Core Web Vitals factors qualify too but are evaluated
// by threshold, not ID membership, in seoVisibilityImpact below.
var seoVisibilityIDs = map[string]bool{
	"content.title.missing":            true,
	"technical.h1.missing":             true,
	"content.meta_description.missing": true,
	"technical.canonical.missing":      true,
	"technical.robots_meta.noindex":    true,
}

// uxImpactIDs are factor IDs that materially break interaction (spec
// §4.F criterion 2).
var uxImpactIDs = map[string]bool{
	"ux.viewport.missing":        true,
	"technical.viewport.missing": true,
	"ux.tap_targets.small":       true,
}

// complianceRiskIDs are factor IDs that indicate a security or legal
// exposure (spec §4.F criterion 4).
var complianceRiskIDs = map[string]bool{
	"security.https.missing": true,
	"security.tls.invalid":   true,
}

var cwvIDPattern = regexp.MustCompile(`^ux\.cwv\.`)

// CriticalSet is the closed set of factor IDs whose membership makes
// isCritical true (spec §4.F). The caller builds this from
// rules.Catalog.CriticalSet() — the OFI engine never computes it
// itself, so the Critical Set stays part of the Rule Catalog's public
// schema, never this package's business.
type CriticalSet map[string]struct{}

// Classify re-evaluates one factor against the four-criteria matrix
// and returns its (possibly escalated) status. It never promotes OK or
// NA — only a factor that already failed (OFI or PriorityOFI going in)
// can come out as PriorityOFI (spec §9's no-promotion invariant).
//
// Classify holds no state and reads nothing but its arguments: the
// same (factor, critical) pair always returns the same status.
func Classify(factor model.AuditFactor, critical CriticalSet) model.Status {
	if factor.Status == model.StatusOK || factor.Status == model.StatusNA {
		return factor.Status
	}

	k := 0
	if seoVisibilityImpact(factor) {
		k++
	}
	if userExperienceImpact(factor) {
		k++
	}
	if businessValueImpact(factor) {
		k++
	}
	if complianceTrustRisk(factor) {
		k++
	}

	_, isCritical := critical[factor.ID]
	tierEligible := factor.TierOfPage == model.TierT1 || factor.TierOfPage == model.TierT2

	if k >= 2 || (isCritical && tierEligible) {
		return model.StatusPriorityOFI
	}
	return model.StatusOFI
}

func seoVisibilityImpact(f model.AuditFactor) bool {
	if seoVisibilityIDs[f.ID] {
		return true
	}
	return cwvIDPattern.MatchString(f.ID)
}

func userExperienceImpact(f model.AuditFactor) bool {
	return uxImpactIDs[f.ID]
}

func businessValueImpact(f model.AuditFactor) bool {
	if f.TierOfPage == model.TierT1 {
		return true
	}
	return businessRelevantPageTypes[f.PageType] && conversionRelevantIDs[f.ID]
}

func complianceTrustRisk(f model.AuditFactor) bool {
	return complianceRiskIDs[f.ID]
}
