package fetch

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/seoaudit/engine/internal/model"
)

const jsHeavyWordCountCeiling = 200
const jsHeavyScriptTagFloor = 10
const jsHeavyScriptByteRatio = 0.3

// spaRootMarkers are the root-element fingerprints left behind by the
// major client-rendered frameworks once their JS hasn't run yet: an empty
// mount point with no server-rendered children.
var spaRootMarkers = []string{
	`div#root`,
	`div#app`,
	`[data-reactroot]`,
}

// detectJSHeavy implements the four-criterion heuristic (spec §4.A,
// glossary "js_heavy"): a page is js_heavy when at least two of four
// signals fire. No single signal is trusted alone — a long legacy page
// with a chat widget script would otherwise be misclassified on script
// count, and a short but fully server-rendered page on word count.
func detectJSHeavy(r *model.PageCrawlResult, doc *goquery.Document, raw []byte) bool {
	hits := 0

	if r.WordCount < jsHeavyWordCountCeiling {
		hits++
	}

	scripts := doc.Find("script")
	if scripts.Length() >= jsHeavyScriptTagFloor {
		hits++
	}

	if hasSPARootMarker(doc) {
		hits++
	}

	if scriptByteRatio(doc, raw) >= jsHeavyScriptByteRatio {
		hits++
	}

	return hits >= 2
}

func hasSPARootMarker(doc *goquery.Document) bool {
	for _, sel := range spaRootMarkers {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		if strings.TrimSpace(s.Text()) == "" && s.Children().Length() == 0 {
			return true
		}
	}
	body := doc.Find("body").First()
	if body.Length() > 0 && strings.TrimSpace(body.Text()) == "" && body.Find("script").Length() > 0 {
		return true
	}
	return false
}

func scriptByteRatio(doc *goquery.Document, raw []byte) float64 {
	if len(raw) == 0 {
		return 0
	}
	var scriptBytes int
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		scriptBytes += len(s.Text())
	})
	return float64(scriptBytes) / float64(len(raw))
}
