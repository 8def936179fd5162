// Package discovery finds URLs to feed the frontier: from sitemaps and
// from links on already-fetched pages (spec §4.C).
package discovery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxSitemapDepth = 3
	maxSitemapFiles = 50
	maxSitemapBytes = 20 * 1024 * 1024
)

// WalkSitemaps fetches seedURL's sitemap(s) starting from the given
// candidate paths (typically ["/sitemap.xml"], plus whatever
// internal/robots surfaced from the Sitemap: directive) and returns every
// same-host page URL found, recursing into sitemap indexes up to
// maxSitemapDepth levels and visiting at most maxSitemapFiles sitemap
// documents total.
//
// Grounded on JoaquinJoya-website-crawler's discoverSitemapURLs, which
// parses sitemap XML with goquery's HTML parser (goquery's underlying
// tokenizer treats `<loc>` nodes the same in XML or HTML mode) and reads
// `<loc>` text nodes directly rather than unmarshaling a typed XML
// schema.
func WalkSitemaps(ctx context.Context, client *http.Client, seed *url.URL, candidatePaths []string) []string {
	w := &sitemapWalker{client: client, host: seed.Host, seen: map[string]bool{}}
	for _, p := range candidatePaths {
		sitemapURL := seed.ResolveReference(&url.URL{Path: p})
		w.walk(ctx, sitemapURL.String(), 0)
	}
	return w.urls
}

type sitemapWalker struct {
	client *http.Client
	host   string
	seen   map[string]bool
	urls   []string
	visits int
}

func (w *sitemapWalker) walk(ctx context.Context, sitemapURL string, depth int) {
	if depth > maxSitemapDepth || w.visits >= maxSitemapFiles || w.seen[sitemapURL] {
		return
	}
	w.seen[sitemapURL] = true
	w.visits++

	doc, err := w.fetchDoc(ctx, sitemapURL)
	if err != nil {
		return
	}

	var childSitemaps []string
	doc.Find("sitemap loc, sitemapindex loc").Each(func(_ int, s *goquery.Selection) {
		if loc := strings.TrimSpace(s.Text()); loc != "" {
			childSitemaps = append(childSitemaps, loc)
		}
	})

	if len(childSitemaps) > 0 {
		for _, child := range childSitemaps {
			w.walk(ctx, child, depth+1)
		}
		return
	}

	doc.Find("url loc, loc").Each(func(_ int, s *goquery.Selection) {
		loc := strings.TrimSpace(s.Text())
		if loc == "" {
			return
		}
		parsed, err := url.Parse(loc)
		if err != nil || !strings.EqualFold(parsed.Host, w.host) {
			return
		}
		w.urls = append(w.urls, loc)
	})
}

func (w *sitemapWalker) fetchDoc(ctx context.Context, target string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sitemap %s returned %d", target, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSitemapBytes))
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(string(body)))
}
