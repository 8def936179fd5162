package rules

import (
	"time"

	"github.com/seoaudit/engine/internal/model"
)

const (
	lcpPoorThresholdMS   = 4000
	clsRiskyImageRatio   = 0.3
	smallTapTargetPixels = 44
)

func uxRules() []Rule {
	return []Rule{
		newRule("ux.viewport.missing", model.CategoryUxPerformance, false, ruleUXViewportMissing),
		newRule("ux.tap_targets.small", model.CategoryUxPerformance, false, ruleTapTargetsSmall),
		newRule("ux.cwv.lcp.poor", model.CategoryUxPerformance, true, ruleCWVLCPPoor),
		newRule("ux.cwv.cls.poor", model.CategoryUxPerformance, false, ruleCWVCLSPoor),
		newRule("security.https.missing", model.CategoryUxPerformance, true, ruleHTTPSMissing),
		newRule("security.tls.invalid", model.CategoryUxPerformance, true, ruleTLSInvalid),
	}
}

// ruleUXViewportMissing duplicates technical.viewport.missing's signal
// under the UxPerformance category: spec §4.F criterion 2 (User-Experience
// Impact) names "mobile viewport missing" independently of criterion 1
// (SEO Visibility Impact), so the same underlying measurement is
// cross-registered as its own factor rather than shared between
// categories — the aggregator weights categories separately and a
// missing viewport is a real defect in both.
func ruleUXViewportMissing(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	evidence := model.Evidence{"viewport_present": p.Crawl.Viewport != ""}
	status := func(e model.Evidence) model.Status {
		if e["viewport_present"].(bool) {
			return model.StatusOK
		}
		return model.StatusOFI
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"ux.viewport.missing", model.CategoryUxPerformance,
		"Mobile viewport configured",
		"Without a viewport meta tag, mobile visitors get a desktop layout they must pinch-to-zoom to use.",
		"", model.ImportanceHigh, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}

// ruleTapTargetsSmall approximates tap-target sizing from declared
// <img> width/height attributes, the only rendered-size signal the
// crawl model captures without a full layout engine: any image with
// both dimensions declared and either one under smallTapTargetPixels is
// flagged. Whether the image is wrapped in a link is not checked.
func ruleTapTargetsSmall(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	small := 0
	measured := 0
	for _, img := range p.Crawl.Images {
		if img.Width == nil || img.Height == nil {
			continue
		}
		measured++
		if *img.Width < smallTapTargetPixels || *img.Height < smallTapTargetPixels {
			small++
		}
	}
	evidence := model.Evidence{"small_count": small, "measured_count": measured}
	status := func(e model.Evidence) model.Status {
		if e["measured_count"].(int) == 0 {
			return model.StatusNA
		}
		if e["small_count"].(int) > 0 {
			return model.StatusOFI
		}
		return model.StatusOK
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"ux.tap_targets.small", model.CategoryUxPerformance,
		"Tap targets adequately sized",
		"Interactive elements under 44x44px are hard to tap accurately on a touchscreen.",
		"", model.ImportanceLow, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}

// ruleCWVLCPPoor approximates Largest Contentful Paint from total fetch
// duration: a real CWV pipeline needs a browser performance trace this
// system's fetch backends don't collect, so total time-to-downloaded-DOM
// stands in as a coarse proxy and is flagged only past the documented
// "poor" LCP threshold (spec §4.F criterion 1).
func ruleCWVLCPPoor(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	if p.Crawl.FetchError != nil {
		return nil
	}
	evidence := model.Evidence{"duration_ms": p.Crawl.DurationMS, "threshold_ms": lcpPoorThresholdMS}
	status := func(e model.Evidence) model.Status {
		if e["duration_ms"].(int64) > lcpPoorThresholdMS {
			return model.StatusOFI
		}
		return model.StatusOK
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"ux.cwv.lcp.poor", model.CategoryUxPerformance,
		"Largest Contentful Paint within budget",
		"Pages that take long past first byte to finish loading hurt both perceived performance and ranking signals.",
		"", model.ImportanceHigh, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}

// ruleCWVCLSPoor approximates layout-shift risk from the share of
// images missing explicit width/height — the single most common real
// cause of CLS regressions — rather than a measured shift score, which
// again needs a rendering trace this system doesn't collect.
func ruleCWVCLSPoor(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	if len(p.Crawl.Images) == 0 {
		evidence := model.Evidence{"applicable": false}
		status := func(model.Evidence) model.Status { return model.StatusNA }
		return []model.AuditFactor{model.NewAuditFactor(
			"ux.cwv.cls.poor", model.CategoryUxPerformance,
			"Layout-shift risk low",
			"Images without declared dimensions reserve no space and push content around as they load.",
			"", model.ImportanceMedium, evidence, status,
			p.Crawl.URL, p.Tier, p.PageType, time.Now(),
		)}
	}

	unsized := 0
	for _, img := range p.Crawl.Images {
		if img.Width == nil || img.Height == nil {
			unsized++
		}
	}
	ratio := float64(unsized) / float64(len(p.Crawl.Images))
	evidence := model.Evidence{"unsized_ratio": ratio, "threshold": clsRiskyImageRatio}
	status := func(e model.Evidence) model.Status {
		if e["unsized_ratio"].(float64) >= clsRiskyImageRatio {
			return model.StatusOFI
		}
		return model.StatusOK
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"ux.cwv.cls.poor", model.CategoryUxPerformance,
		"Layout-shift risk low",
		"Images without declared dimensions reserve no space and push content around as they load.",
		"", model.ImportanceMedium, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}

func ruleHTTPSMissing(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	evidence := model.Evidence{"scheme": p.Crawl.Scheme}
	status := func(e model.Evidence) model.Status {
		if e["scheme"].(string) == "https" {
			return model.StatusOK
		}
		return model.StatusOFI
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"security.https.missing", model.CategoryUxPerformance,
		"Served over HTTPS",
		"Plain HTTP pages are marked Not Secure by every major browser and get a ranking penalty.",
		"", model.ImportanceHigh, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}

func ruleTLSInvalid(p model.PageRecord, _ SiteContext) []model.AuditFactor {
	if p.Crawl.Scheme != "https" {
		evidence := model.Evidence{"applicable": false}
		status := func(model.Evidence) model.Status { return model.StatusNA }
		return []model.AuditFactor{model.NewAuditFactor(
			"security.tls.invalid", model.CategoryUxPerformance,
			"Valid TLS certificate",
			"An invalid or expired certificate breaks the connection entirely for most visitors.",
			"", model.ImportanceHigh, evidence, status,
			p.Crawl.URL, p.Tier, p.PageType, time.Now(),
		)}
	}

	tlsErr := p.Crawl.FetchError != nil && p.Crawl.FetchError.Kind == model.FetchErrTLS
	evidence := model.Evidence{"tls_valid": p.Crawl.TLSValid, "tls_error": tlsErr}
	status := func(e model.Evidence) model.Status {
		if e["tls_error"].(bool) || !e["tls_valid"].(bool) {
			return model.StatusOFI
		}
		return model.StatusOK
	}
	return []model.AuditFactor{model.NewAuditFactor(
		"security.tls.invalid", model.CategoryUxPerformance,
		"Valid TLS certificate",
		"An invalid or expired certificate breaks the connection entirely for most visitors.",
		"", model.ImportanceHigh, evidence, status,
		p.Crawl.URL, p.Tier, p.PageType, time.Now(),
	)}
}
