// Package frontier holds the URLs admitted to a crawl but not yet
// fetched. Item order is a priority, not arrival order: T1 pages starve
// out T3 pages under a page budget, which a FIFO queue cannot express.
package frontier

import (
	"container/heap"
	"net/url"
	"sync"

	"github.com/seoaudit/engine/internal/model"
)

// Item is one URL admitted to the frontier, carrying the ordering keys
// PriorityQueue sorts on. InLinkCount and DiscoveryOrder are set once at
// discovery time and never change afterward.
type Item struct {
	URL            url.URL
	Key            string
	Tier           model.Tier
	InLinkCount    int
	DiscoveryOrder int
}

// innerHeap implements container/heap.Interface, ordered
// (tier_rank_asc, in_link_count_desc, discovery_order_asc) per spec §4.D.
type innerHeap []Item

func (h innerHeap) Len() int { return len(h) }

func (h innerHeap) Less(i, j int) bool {
	ri, rj := h[i].Tier.Rank(), h[j].Tier.Rank()
	if ri != rj {
		return ri < rj
	}
	if h[i].InLinkCount != h[j].InLinkCount {
		return h[i].InLinkCount > h[j].InLinkCount
	}
	return h[i].DiscoveryOrder < h[j].DiscoveryOrder
}

func (h innerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *innerHeap) Push(x any) { *h = append(*h, x.(Item)) }

func (h *innerHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// PriorityQueue is a concurrency-safe wrapper around innerHeap plus a Set
// of already-seen URL keys, so the caller gets admission-ordering and
// dedup in one place — the frontier's two stated responsibilities.
type PriorityQueue struct {
	mu   sync.Mutex
	heap innerHeap
	seen Set[string]
	next int
}

// NewPriorityQueue builds an empty frontier.
func NewPriorityQueue() *PriorityQueue {
	return &PriorityQueue{heap: innerHeap{}, seen: NewSet[string]()}
}

// Push admits a URL at the given tier and in-link count if its key has
// not been seen before. Returns false if it was a duplicate.
func (q *PriorityQueue) Push(u url.URL, key string, tier model.Tier, inLinkCount int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.seen.Contains(key) {
		return false
	}
	q.seen.Add(key)

	item := Item{URL: u, Key: key, Tier: tier, InLinkCount: inLinkCount, DiscoveryOrder: q.next}
	q.next++
	heap.Push(&q.heap, item)
	return true
}

// Pop removes and returns the highest-priority item. The second return
// value is false when the frontier is empty.
func (q *PriorityQueue) Pop() (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.heap.Len() == 0 {
		return Item{}, false
	}
	item := heap.Pop(&q.heap).(Item)
	return item, true
}

// Len returns the number of items currently queued (not yet popped).
func (q *PriorityQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.heap.Len()
}

// Seen reports whether key has ever been pushed, regardless of whether it
// has since been popped.
func (q *PriorityQueue) Seen(key string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.seen.Contains(key)
}
