package rules

import (
	"fmt"
	"time"

	"github.com/seoaudit/engine/internal/model"
)

const (
	titleMinLen          = 30
	titleMaxLen          = 60
	metaDescMinLen       = 70
	metaDescMaxLen       = 155
	thinContentWordCount = 200
)

func contentRules() []Rule {
	return []Rule{
		newRule("content.title.missing", model.CategoryContentQuality, true, ruleTitleMissing),
		newRule("content.title.length", model.CategoryContentQuality, false, ruleTitleLength),
		newRule("content.h1.count", model.CategoryContentQuality, false, ruleH1Count),
		newRule("content.word_count.thin", model.CategoryContentQuality, false, ruleThinContent),
		newRule("content.img.alt.missing", model.CategoryContentQuality, false, ruleImgAltMissing),
		newRule("content.meta_description.missing", model.CategoryContentQuality, true, ruleMetaDescMissing),
		newRule("content.meta_description.length", model.CategoryContentQuality, false, ruleMetaDescLength),
	}
}

func ruleTitleMissing(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	evidence := model.Evidence{"title_present": p.Crawl.Title != ""}
	status := func(e model.Evidence) model.Status {
		if e["title_present"].(bool) {
			return model.StatusOK
		}
		return model.StatusOFI
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"content.title.missing", model.CategoryContentQuality,
		"Title tag present",
		"Every page should carry a unique, descriptive <title>.",
		"", model.ImportanceHigh, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}

func ruleTitleLength(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	if p.Crawl.Title == "" {
		return nil // covered by content.title.missing
	}
	length := len(p.Crawl.Title)
	evidence := model.Evidence{"length": length, "min": titleMinLen, "max": titleMaxLen}
	status := func(e model.Evidence) model.Status {
		l := e["length"].(int)
		if l < titleMinLen || l > titleMaxLen {
			return model.StatusOFI
		}
		return model.StatusOK
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"content.title.length", model.CategoryContentQuality,
		"Title length within SERP-friendly range",
		fmt.Sprintf("Recommended title length is %d-%d characters.", titleMinLen, titleMaxLen),
		"", model.ImportanceMedium, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}

func ruleH1Count(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	count := len(p.Crawl.H1)
	evidence := model.Evidence{"h1_count": count}
	status := func(e model.Evidence) model.Status {
		if e["h1_count"].(int) == 1 {
			return model.StatusOK
		}
		return model.StatusOFI
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"content.h1.count", model.CategoryContentQuality,
		"Exactly one H1 heading",
		"A page should carry exactly one H1 summarizing its topic.",
		"", model.ImportanceMedium, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}

func ruleThinContent(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	if p.Crawl.FetchError != nil {
		return nil // spec §3 invariant: word_count is 0 on fetch error, not a content finding
	}
	evidence := model.Evidence{"word_count": p.Crawl.WordCount, "threshold": thinContentWordCount}
	status := func(e model.Evidence) model.Status {
		if e["word_count"].(int) < thinContentWordCount {
			return model.StatusOFI
		}
		return model.StatusOK
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"content.word_count.thin", model.CategoryContentQuality,
		"Sufficient body content",
		fmt.Sprintf("Pages under %d words rarely rank for competitive queries.", thinContentWordCount),
		"", model.ImportanceMedium, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}

// ruleImgAltMissing emits one factor per offending image and reports
// every occurrence it finds. No emission cap is applied, neither here
// nor in the aggregator.
func ruleImgAltMissing(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	var factors []model.AuditFactor
	for i, img := range p.Crawl.Images {
		if img.Alt != "" {
			continue
		}
		evidence := model.Evidence{"src": img.Src, "index": i}
		status := func(model.Evidence) model.Status { return model.StatusOFI }
		factors = append(factors, model.NewAuditFactor(
			"content.img.alt.missing", model.CategoryContentQuality,
			"Image missing alt text",
			"Every <img> should carry descriptive alt text for accessibility and image search.",
			fmt.Sprintf("src=%s", img.Src), model.ImportanceLow, evidence, status,
			p.Crawl.URL, p.Tier, p.PageType, time.Now(),
		))
	}
	return factors
}

func ruleMetaDescMissing(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	evidence := model.Evidence{"present": p.Crawl.MetaDescription != ""}
	status := func(e model.Evidence) model.Status {
		if e["present"].(bool) {
			return model.StatusOK
		}
		return model.StatusOFI
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"content.meta_description.missing", model.CategoryContentQuality,
		"Meta description present",
		"A meta description drives SERP snippet copy and click-through.",
		"", model.ImportanceHigh, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}

func ruleMetaDescLength(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	if p.Crawl.MetaDescription == "" {
		return nil // covered by content.meta_description.missing
	}
	length := len(p.Crawl.MetaDescription)
	evidence := model.Evidence{"length": length, "min": metaDescMinLen, "max": metaDescMaxLen}
	status := func(e model.Evidence) model.Status {
		l := e["length"].(int)
		if l < metaDescMinLen || l > metaDescMaxLen {
			return model.StatusOFI
		}
		return model.StatusOK
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"content.meta_description.length", model.CategoryContentQuality,
		"Meta description length within SERP-friendly range",
		fmt.Sprintf("Recommended length is %d-%d characters.", metaDescMinLen, metaDescMaxLen),
		"", model.ImportanceLow, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}
