package orchestrator

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/seoaudit/engine/internal/aggregator"
	"github.com/seoaudit/engine/internal/classifier"
	"github.com/seoaudit/engine/internal/discovery"
	"github.com/seoaudit/engine/internal/fetch"
	"github.com/seoaudit/engine/internal/frontier"
	"github.com/seoaudit/engine/internal/model"
	"github.com/seoaudit/engine/internal/observe"
	"github.com/seoaudit/engine/internal/ofi"
	"github.com/seoaudit/engine/internal/ratelimit"
	"github.com/seoaudit/engine/internal/robots"
	"github.com/seoaudit/engine/internal/rules"
	"github.com/seoaudit/engine/internal/urlkey"
)

// defaultSitemapPaths are the well-known sitemap locations checked once
// per run to populate SiteContext.SitemapPresent.
var defaultSitemapPaths = []string{"/sitemap.xml", "/sitemap_index.xml"}

// Orchestrator is the crawl's sole control-plane authority (spec §4.D),
// adapted from the teacher's Scheduler discipline — "scheduler decides
// retry/continue/abort, pipeline stages never do" — but restructured
// from one synchronous loop into N workers draining a shared priority
// frontier.
type Orchestrator struct {
	http          fetch.Backend
	headless      fetch.Backend // nil if the headless backend failed to launch
	robot         *robots.Robot
	limiter       ratelimit.Limiter
	gate          *HostGate
	catalog       *rules.Catalog
	inLinks       *discovery.InLinkCounter
	sink          observe.Sink
	finalize      observe.Finalizer
	sitemapClient *http.Client
}

// New builds an Orchestrator. headless may be nil — a run proceeds
// HTTP-only and every NeedsHeadless page is left as its HTTP-fetched
// record rather than failing the run (spec §4.A: the headless path is
// an enhancement, not a dependency the whole system hinges on).
func New(httpBackend fetch.Backend, headlessBackend fetch.Backend, robot *robots.Robot, sink observe.Sink, finalize observe.Finalizer) *Orchestrator {
	return &Orchestrator{
		http:          httpBackend,
		headless:      headlessBackend,
		robot:         robot,
		limiter:       ratelimit.NewHostLimiter(1.0/minHostInterval.Seconds(), 1),
		gate:          NewHostGate(),
		catalog:       rules.NewCatalog(),
		inLinks:       discovery.NewInLinkCounter(),
		sink:          sink,
		finalize:      finalize,
		sitemapClient: http.DefaultClient,
	}
}

// WithSitemapClient overrides the HTTP client used for the one-shot
// sitemap-presence check Run performs before scoring. Exposed for
// tests that must not perform real network I/O.
func (o *Orchestrator) WithSitemapClient(client *http.Client) *Orchestrator {
	o.sitemapClient = client
	return o
}

// workItem is one frontier pop, carrying the classifier's pre-fetch
// tier estimate alongside the URL the budget already admitted it under.
type workItem struct {
	url  *url.URL
	tier model.Tier
}

// Run drives the crawl from seed to a terminal AuditReport. It never
// returns a Go error for a crawl-level failure — budget exhaustion and
// deadline expiry are normal terminal conditions (spec §7) reflected in
// the returned report's fields, not in the error return. The error
// return is reserved for a malformed seed, the one precondition the
// orchestrator itself must reject before starting.
func (o *Orchestrator) Run(ctx context.Context, seed *url.URL, opts RunOptions) (*model.AuditReport, error) {
	if seed == nil || seed.Host == "" || (seed.Scheme != "http" && seed.Scheme != "https") {
		return nil, errors.New("orchestrator: seed must be an absolute http or https URL")
	}
	opts = opts.withDefaults()

	report := &model.AuditReport{
		ID:        uuid.NewString(),
		RootURL:   seed.String(),
		Status:    model.RunRunning,
		StartedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, opts.MaxTime)
	defer cancel()

	budget := NewBudget(opts.MaxPages)
	queue := frontier.NewPriorityQueue()
	seedTier, _ := classifier.Classify(seed, nil)
	queue.Push(*seed, urlkey.Normalize(seed), seedTier, 0)

	var (
		mu      sync.Mutex
		pages   []model.PageRecord
		factors []model.AuditFactor
	)

	var wg sync.WaitGroup
	// headless_pool bounds concurrent browser contexts (spec §6); the
	// HTTP side of the pool is cheaper per unit of concurrency, so the
	// worker count follows a separate, wider cap keyed off politeness
	// rather than the headless pool size.
	workerCount := perHostConcurrency * 4

	work := make(chan workItem, workerCount)
	done := make(chan struct{})

	// outstanding counts items feed has handed to the work channel but
	// no worker has finished handling yet — dispatched-but-unprocessed
	// plus actually-in-flight. feed must see this at zero, not just an
	// empty queue, before it may emit the terminal marker: an item can
	// sit in the buffered channel for a moment before a worker claims
	// it, and processOne only pushes the links it discovers back onto
	// queue right before it returns, so the frontier can refill at any
	// point up until the last outstanding item finishes.
	var outstanding int32

	go o.feed(ctx, queue, work, done, &outstanding)

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range work {
				if !budget.TryAdmit(item.tier) {
					atomic.AddInt32(&outstanding, -1)
					continue
				}
				page := o.processOne(ctx, item, seed, opts, queue)
				atomic.AddInt32(&outstanding, -1)

				mu.Lock()
				pages = append(pages, page)
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	close(done)

	siteCtx := rules.SiteContext{
		AllPages:       pages,
		SitemapPresent: len(discovery.WalkSitemaps(ctx, o.sitemapClient, seed, defaultSitemapPaths)) > 0,
		RobotsPresent:  o.robot != nil,
	}
	factors = o.analyzeAll(siteCtx)

	critical := o.catalog.CriticalSet()
	for i := range factors {
		factors[i].Status = ofi.Classify(factors[i], critical)
	}

	demoted, summary := aggregator.Aggregate(factors, pages)

	report.Pages = pages
	report.Factors = demoted
	report.Summary = summary
	report.ReachedMaxPages = budget.ReachedCap()
	report.FinishedAt = time.Now()
	report.Status = model.RunCompleted

	if o.finalize != nil {
		o.finalize.RecordFinalStats(observe.FinalStats{
			TotalPages:   len(pages),
			TotalErrors:  countErrors(pages),
			TotalFactors: len(demoted),
			DurationMS:   report.Duration().Milliseconds(),
			ReachedCap:   report.ReachedMaxPages,
		})
	}

	return report, nil
}

// feed pops admitted URLs off the frontier and hands them to the
// worker channel until the queue is empty *and* no worker has an item
// outstanding, or the run's context is done. It is the only goroutine
// that pops from queue, so the "pop blocks while empty if any worker
// is still busy, else returns a terminal marker" suspension point
// (spec §5) is realized directly against outstanding rather than a
// fixed idle-poll budget: a page's discovered links only reach queue
// right before processOne returns, which can be arbitrarily later than
// the moment the frontier last looked empty.
func (o *Orchestrator) feed(ctx context.Context, queue *frontier.PriorityQueue, work chan<- workItem, done <-chan struct{}, outstanding *int32) {
	defer close(work)
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		default:
		}

		item, ok := queue.Pop()
		if !ok {
			if atomic.LoadInt32(outstanding) == 0 {
				return
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}

		u := item.URL
		atomic.AddInt32(outstanding, 1)
		select {
		case work <- workItem{url: &u, tier: item.Tier}:
		case <-ctx.Done():
			atomic.AddInt32(outstanding, -1)
			return
		case <-done:
			atomic.AddInt32(outstanding, -1)
			return
		}
	}
}

func countErrors(pages []model.PageRecord) int {
	n := 0
	for _, p := range pages {
		if p.Crawl.FetchError != nil {
			n++
		}
	}
	return n
}
