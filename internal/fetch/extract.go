package fetch

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/seoaudit/engine/internal/model"
)

// phonePattern matches common US-style phone number formatting
// ((555) 123-4567, 555-123-4567, 555.123.4567) in visible body text —
// good enough for the NAP-presence/consistency signal internal/rules
// needs; it is not a general international phone grammar.
var phonePattern = regexp.MustCompile(`\(?\d{3}\)?[-.\s]\d{3}[-.\s]\d{4}`)

// chromeSelector matches the boilerplate elements excluded from the
// visible-text word count: navigation, chrome, and noise the teacher's DOM
// extractor strips before isolating article content. An SEO audit needs
// the opposite isolation (chrome out, everything else in, since the
// signal here is "real" on-page content density, not a single content
// column).
const chromeSelector = "nav, header, footer, aside, script, style, noscript, template"

func populateFromDocument(r *model.PageCrawlResult, doc *goquery.Document) {
	r.Title = strings.TrimSpace(doc.Find("title").First().Text())

	r.H1 = headingTexts(doc, "h1")
	r.H2 = headingTexts(doc, "h2")
	r.H3 = headingTexts(doc, "h3")
	r.H4 = headingTexts(doc, "h4")
	r.H5 = headingTexts(doc, "h5")
	r.H6 = headingTexts(doc, "h6")

	r.MetaDescription = metaContent(doc, "description")
	r.Viewport = metaContent(doc, "viewport")
	r.RobotsDirectives = splitDirectives(metaContent(doc, "robots"))

	if canon, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		r.Canonical = strings.TrimSpace(canon)
	}
	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		r.Lang = strings.TrimSpace(lang)
	}

	r.Internal, r.External = extractLinks(doc, r.FinalURL)
	r.Images = extractImages(doc)

	visible := visibleText(doc)
	r.VisibleText = visible
	r.WordCount = len(strings.Fields(visible))

	r.HasForm = doc.Find("form").Length() > 0
	r.Phones = extractPhones(doc, visible)
}

// extractPhones pulls phone numbers from tel: links first (unambiguous,
// already normalized by whoever authored the page) and falls back to a
// pattern match over visible text for sites that only print the number.
func extractPhones(doc *goquery.Document, visible string) []string {
	seen := map[string]bool{}
	var out []string
	doc.Find(`a[href^="tel:"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		number := strings.TrimPrefix(strings.TrimSpace(href), "tel:")
		if number != "" && !seen[number] {
			seen[number] = true
			out = append(out, number)
		}
	})
	for _, m := range phonePattern.FindAllString(visible, -1) {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func headingTexts(doc *goquery.Document, tag string) []string {
	var out []string
	doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

func metaContent(doc *goquery.Document, name string) string {
	sel := doc.Find(`meta[name="` + name + `"]`).First()
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content)
}

func splitDirectives(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func extractLinks(doc *goquery.Document, baseURL string) (internal, external []model.Link) {
	base := hostOf(baseURL)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
			return
		}
		var rel []string
		if r, ok := s.Attr("rel"); ok {
			rel = strings.Fields(r)
		}
		link := model.Link{Href: href, AnchorText: strings.TrimSpace(s.Text()), RelAttrs: rel}
		if sameHost(href, base) {
			internal = append(internal, link)
		} else {
			external = append(external, link)
		}
	})
	return internal, external
}

func extractImages(doc *goquery.Document) []model.Image {
	var out []model.Image
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, _ := s.Attr("alt")
		loading, _ := s.Attr("loading")
		img := model.Image{Src: strings.TrimSpace(src), Alt: alt, LoadingAttr: loading}
		if w, ok := s.Attr("width"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(w)); err == nil {
				img.Width = &n
			}
		}
		if h, ok := s.Attr("height"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(h)); err == nil {
				img.Height = &n
			}
		}
		out = append(out, img)
	})
	return out
}

// visibleText strips chrome/noise elements and returns the remaining text,
// collapsed to single spaces. It is a clone of the document so the caller's
// doc (used for link/image extraction) is left intact.
func visibleText(doc *goquery.Document) string {
	clone := goquery.CloneDocument(doc)
	clone.Find(chromeSelector).Remove()
	return strings.Join(strings.Fields(clone.Find("body").Text()), " ")
}

func hostOf(rawURL string) string {
	if i := strings.Index(rawURL, "://"); i != -1 {
		rest := rawURL[i+3:]
		if j := strings.IndexAny(rest, "/?#"); j != -1 {
			rest = rest[:j]
		}
		return strings.ToLower(rest)
	}
	return ""
}

func sameHost(href, base string) bool {
	if !strings.Contains(href, "://") {
		return true // relative link
	}
	return hostOf(href) == base
}
