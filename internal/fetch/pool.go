package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// PagePool hands out browser pages to headless fetches, bounded by both
// the configured headless_pool size and the ResourceMonitor's current
// verdict. Pages are destroyed and recreated on release rather than
// reused across fetches: a page that ran arbitrary third-party JS is not
// trusted to be clean for the next target.
type PagePool struct {
	browser *rod.Browser
	monitor *ResourceMonitor
	maxSize int

	mu          sync.Mutex
	outstanding int
	released    chan struct{}
}

// NewPagePool builds a pool backed by browser, capped at maxSize
// concurrent pages and further throttled by monitor.
func NewPagePool(browser *rod.Browser, monitor *ResourceMonitor, maxSize int) *PagePool {
	if maxSize < 1 {
		maxSize = 1
	}
	return &PagePool{
		browser:  browser,
		monitor:  monitor,
		maxSize:  maxSize,
		released: make(chan struct{}, maxSize),
	}
}

// Acquire blocks until a page slot is available (respecting both maxSize
// and the monitor's current effective size) or ctx is done, then opens a
// fresh page. The caller must call Release exactly once.
func (p *PagePool) Acquire(ctx context.Context) (*rod.Page, error) {
	for {
		effective := p.monitor.EffectivePoolSize()
		if effective > p.maxSize {
			effective = p.maxSize
		}

		p.mu.Lock()
		if p.outstanding < effective {
			p.outstanding++
			p.mu.Unlock()
			break
		}
		p.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-p.released:
		case <-time.After(resourceCacheWindow):
			// re-check in case the monitor's effective size changed.
		}
	}

	page, err := p.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		p.mu.Lock()
		p.outstanding--
		p.mu.Unlock()
		return nil, fmt.Errorf("open headless page: %w", err)
	}
	return page, nil
}

// Release closes the page and frees its slot. It is always called, even
// when the fetch errored or timed out, so a stuck page never leaks a
// permanent slot out of the pool.
func (p *PagePool) Release(page *rod.Page) {
	if page != nil {
		_ = page.Close()
	}
	p.mu.Lock()
	p.outstanding--
	p.mu.Unlock()
	select {
	case p.released <- struct{}{}:
	default:
	}
}

// Close shuts down the underlying browser. Called once per run.
func (p *PagePool) Close() error {
	return p.browser.Close()
}
