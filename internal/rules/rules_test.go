package rules_test

import (
	"testing"

	"github.com/seoaudit/engine/internal/model"
	"github.com/seoaudit/engine/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog_RegistersExpectedRuleIDs(t *testing.T) {
	catalog := rules.NewCatalog()
	ids := map[string]bool{}
	for _, r := range catalog.Rules() {
		ids[r.ID()] = true
	}

	for _, want := range []string{
		"content.title.missing",
		"technical.h1.missing",
		"local.nap.phone.missing",
		"ux.viewport.missing",
		"security.https.missing",
	} {
		assert.True(t, ids[want], "expected rule %s to be registered", want)
	}
}

func TestCriticalSet_BuiltFromDeclarationNotRegex(t *testing.T) {
	catalog := rules.NewCatalog()
	critical := catalog.CriticalSet()

	assert.Contains(t, critical, "content.title.missing")
	assert.Contains(t, critical, "technical.h1.missing")
	assert.Contains(t, critical, "technical.viewport.missing")
	assert.NotContains(t, critical, "content.title.length")
}

func TestRuleTitleMissing_EmitsOFIWhenAbsent(t *testing.T) {
	catalog := rules.NewCatalog()
	page := model.PageRecord{
		Crawl: model.PageCrawlResult{URL: "https://example.com/", Title: ""},
		Tier:  model.TierT1,
	}
	var found *model.AuditFactor
	for _, r := range catalog.Rules() {
		if r.ID() != "content.title.missing" {
			continue
		}
		factors := r.Run(page, rules.SiteContext{})
		require.Len(t, factors, 1)
		found = &factors[0]
	}
	require.NotNil(t, found)
	assert.Equal(t, model.StatusOFI, found.Status)
	assert.Equal(t, false, found.Evidence["title_present"])
}

func TestRuleImgAltMissing_EmitsOneFactorPerImage(t *testing.T) {
	page := model.PageRecord{
		Crawl: model.PageCrawlResult{
			URL: "https://example.com/",
			Images: []model.Image{
				{Src: "/a.png", Alt: ""},
				{Src: "/b.png", Alt: "b"},
				{Src: "/c.png", Alt: ""},
			},
		},
		Tier: model.TierT3,
	}
	catalog := rules.NewCatalog()
	for _, r := range catalog.Rules() {
		if r.ID() != "content.img.alt.missing" {
			continue
		}
		factors := r.Run(page, rules.SiteContext{})
		require.Len(t, factors, 2)
		for _, f := range factors {
			assert.Equal(t, model.StatusOFI, f.Status)
		}
	}
}

func TestRuleNAPPhoneMissing_NAOnIrrelevantPageType(t *testing.T) {
	page := model.PageRecord{
		Crawl:    model.PageCrawlResult{URL: "https://example.com/blog/post"},
		Tier:     model.TierT3,
		PageType: model.PageTypeBlog,
	}
	catalog := rules.NewCatalog()
	for _, r := range catalog.Rules() {
		if r.ID() != "local.nap.phone.missing" {
			continue
		}
		factors := r.Run(page, rules.SiteContext{})
		require.Len(t, factors, 1)
		assert.Equal(t, model.StatusNA, factors[0].Status)
	}
}

func TestRuleNAPConsistency_FlagsMultipleDistinctPhones(t *testing.T) {
	site := rules.SiteContext{
		AllPages: []model.PageRecord{
			{Crawl: model.PageCrawlResult{Phones: []string{"555-111-2222"}}},
			{Crawl: model.PageCrawlResult{Phones: []string{"555-999-8888"}}},
		},
	}
	catalog := rules.NewCatalog()
	for _, r := range catalog.Rules() {
		if r.ID() != "local.nap.consistency" {
			continue
		}
		factors := r.Run(model.PageRecord{Tier: model.TierT1}, site)
		require.Len(t, factors, 1)
		assert.Equal(t, model.StatusOFI, factors[0].Status)
		assert.Equal(t, "", factors[0].PageURL)
	}
}

func TestRuleHTTPSMissing_OFIOnPlainHTTP(t *testing.T) {
	page := model.PageRecord{Crawl: model.PageCrawlResult{URL: "http://example.com/", Scheme: "http"}}
	catalog := rules.NewCatalog()
	for _, r := range catalog.Rules() {
		if r.ID() != "security.https.missing" {
			continue
		}
		factors := r.Run(page, rules.SiteContext{})
		require.Len(t, factors, 1)
		assert.Equal(t, model.StatusOFI, factors[0].Status)
	}
}
