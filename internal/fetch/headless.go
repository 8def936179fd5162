package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/seoaudit/engine/internal/model"
)

const (
	headlessDeadline = 20 * time.Second
)

// HeadlessBackend re-fetches a page through a real browser for pages the
// orchestrator's NeedsHeadless selects (js_heavy pages, plus thin or
// challenge-gated T1 pages), so the crawl sees rendered DOM instead of
// the pre-hydration shell. It never grants browser permissions and never
// executes a downloaded resource as anything other than page content.
type HeadlessBackend struct {
	pool *PagePool
}

// NewHeadlessBackend launches one browser for the run (via launcher.New,
// headless, certificate errors ignored so self-signed internal sites
// don't hard-fail) and wraps it in a PagePool bounded by poolSize and
// monitor.
func NewHeadlessBackend(poolSize int, monitor *ResourceMonitor) (*HeadlessBackend, error) {
	l := launcher.New().Headless(true).Set("ignore-certificate-errors")
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch headless browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to headless browser: %w", err)
	}

	return &HeadlessBackend{pool: NewPagePool(browser, monitor, poolSize)}, nil
}

// Close shuts down the browser. Called once per run.
func (b *HeadlessBackend) Close() error {
	return b.pool.Close()
}

func (b *HeadlessBackend) Fetch(ctx context.Context, target *url.URL, userAgent string) model.PageCrawlResult {
	start := time.Now()
	result := model.PageCrawlResult{
		URL:       target.String(),
		FetchedAt: start,
		FetchMode: model.FetchHeadless,
		Scheme:    target.Scheme,
	}

	ctx, cancel := context.WithTimeout(ctx, headlessDeadline)
	defer cancel()

	page, err := b.pool.Acquire(ctx)
	if err != nil {
		return withError(result, model.FetchErrTimeout, 0, err.Error())
	}
	defer b.pool.Release(page)

	page = page.Context(ctx)

	if err := page.Navigate(target.String()); err != nil {
		return withError(result, model.FetchErrOther, 0, "navigate: "+err.Error())
	}
	if err := page.WaitLoad(); err != nil {
		return withError(result, model.FetchErrTimeout, 0, "wait load: "+err.Error())
	}
	if err := page.WaitStable(500 * time.Millisecond); err != nil {
		// A page that never stabilizes (streaming content, polling
		// widgets) still has a DOM worth capturing; don't fail the
		// fetch over it.
	}

	_, _ = page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	time.Sleep(300 * time.Millisecond)

	info, err := page.Info()
	if err == nil && info != nil {
		result.FinalURL = info.URL
	}
	if result.FinalURL == "" {
		result.FinalURL = target.String()
	}

	html, err := page.HTML()
	if err != nil {
		return withError(result, model.FetchErrOther, 0, "read html: "+err.Error())
	}

	result.DurationMS = time.Since(start).Milliseconds()
	result.BytesDownloaded = int64(len(html))
	result.HTTPStatus = 200

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return withError(result, model.FetchErrParse, 0, err.Error())
	}

	populateFromDocument(&result, doc)
	// The headless backend exists specifically to render js_heavy pages;
	// once rendered, the page is by definition no longer in that state.
	result.JSHeavy = false

	return result
}
