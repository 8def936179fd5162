package rules

import (
	"time"

	"github.com/seoaudit/engine/internal/model"
)

// conversionRelevantTypes are the page types where NAP and contact
// signals actually matter for lead generation — a phone number missing
// from a blog post isn't the same finding as one missing from the
// contact page itself.
var conversionRelevantTypes = map[model.PageType]bool{
	model.PageTypeHome:        true,
	model.PageTypeContact:     true,
	model.PageTypeService:     true,
	model.PageTypeLocation:    true,
	model.PageTypeServiceArea: true,
}

func localRules() []Rule {
	return []Rule{
		newRule("local.nap.phone.missing", model.CategoryLocalSEOEEAT, false, ruleNAPPhoneMissing),
		newRule("local.nap.consistency", model.CategoryLocalSEOEEAT, false, ruleNAPConsistency),
		newRule("local.contact_form.missing", model.CategoryLocalSEOEEAT, false, ruleContactFormMissing),
		newRule("local.service_description.thin", model.CategoryLocalSEOEEAT, false, ruleServiceDescriptionThin),
	}
}

func ruleNAPPhoneMissing(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	if !conversionRelevantTypes[p.PageType] {
		evidence := model.Evidence{"applicable": false}
		status := func(model.Evidence) model.Status { return model.StatusNA }
		return []model.AuditFactor{model.NewAuditFactor(
			"local.nap.phone.missing", model.CategoryLocalSEOEEAT,
			"Phone number visible",
			"A visible phone number matters on pages that drive calls.",
			"", model.ImportanceMedium, evidence, status,
			p.Crawl.URL, p.Tier, p.PageType, time.Now(),
		)}
	}

	evidence := model.Evidence{"phones_found": len(p.Crawl.Phones)}
	status := func(e model.Evidence) model.Status {
		if e["phones_found"].(int) == 0 {
			return model.StatusOFI
		}
		return model.StatusOK
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"local.nap.phone.missing", model.CategoryLocalSEOEEAT,
		"Phone number visible",
		"A visible phone number matters on pages that drive calls.",
		"", model.ImportanceMedium, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}

// ruleNAPConsistency is a site-wide factor (PageURL empty): it compares
// the set of distinct phone numbers found across every page in the run.
// More than one distinct number suggests the site's name/address/phone
// data diverges across pages, a trust signal both users and search
// engines penalize.
func ruleNAPConsistency(p model.PageRecord, site SiteContext) []model.AuditFactor {
	distinct := map[string]bool{}
	for _, page := range site.AllPages {
		for _, phone := range page.Crawl.Phones {
			distinct[phone] = true
		}
	}
	evidence := model.Evidence{"distinct_phone_count": len(distinct)}
	status := func(e model.Evidence) model.Status {
		count := e["distinct_phone_count"].(int)
		if count == 0 {
			return model.StatusNA
		}
		if count > 1 {
			return model.StatusOFI
		}
		return model.StatusOK
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"local.nap.consistency", model.CategoryLocalSEOEEAT,
		"Phone number consistent site-wide",
		"Multiple distinct phone numbers across the site confuse both visitors and local-pack matching.",
		"", model.ImportanceMedium, evidence, status,
		"", p.Tier, p.PageType, time.Now(),
	)}
}

func ruleContactFormMissing(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	if p.PageType != model.PageTypeContact {
		evidence := model.Evidence{"applicable": false}
		status := func(model.Evidence) model.Status { return model.StatusNA }
		return []model.AuditFactor{model.NewAuditFactor(
			"local.contact_form.missing", model.CategoryLocalSEOEEAT,
			"Contact form present",
			"The contact page should offer a form as a frictionless lead-capture path.",
			"", model.ImportanceMedium, evidence, status,
			p.Crawl.URL, p.Tier, p.PageType, time.Now(),
		)}
	}

	evidence := model.Evidence{"has_form": p.Crawl.HasForm}
	status := func(e model.Evidence) model.Status {
		if e["has_form"].(bool) {
			return model.StatusOK
		}
		return model.StatusOFI
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"local.contact_form.missing", model.CategoryLocalSEOEEAT,
		"Contact form present",
		"The contact page should offer a form as a frictionless lead-capture path.",
		"", model.ImportanceMedium, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}

const serviceDescriptionMinWords = 100

func ruleServiceDescriptionThin(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	if p.PageType != model.PageTypeService {
		evidence := model.Evidence{"applicable": false}
		status := func(model.Evidence) model.Status { return model.StatusNA }
		return []model.AuditFactor{model.NewAuditFactor(
			"local.service_description.thin", model.CategoryLocalSEOEEAT,
			"Service description substantive",
			"A service page needs enough description to establish expertise and answer buyer questions.",
			"", model.ImportanceMedium, evidence, status,
			p.Crawl.URL, p.Tier, p.PageType, time.Now(),
		)}
	}

	evidence := model.Evidence{"word_count": p.Crawl.WordCount, "threshold": serviceDescriptionMinWords}
	status := func(e model.Evidence) model.Status {
		if e["word_count"].(int) < serviceDescriptionMinWords {
			return model.StatusOFI
		}
		return model.StatusOK
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"local.service_description.thin", model.CategoryLocalSEOEEAT,
		"Service description substantive",
		"A service page needs enough description to establish expertise and answer buyer questions.",
		"", model.ImportanceMedium, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}
