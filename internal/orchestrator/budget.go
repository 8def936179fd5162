package orchestrator

import (
	"sync"

	"github.com/seoaudit/engine/internal/model"
)

// Budget is the sole page-admission authority for a run (spec §4.D):
// it decides whether a URL popped off the frontier may be processed
// given how many pages have already been admitted, reserving room for
// T1/T2 pages ahead of T3 ones rather than admitting strictly in
// discovery order once the cap is close.
//
// Every tier is refused once max_pages pages have been admitted. Before
// that, only T3 pages can be refused, by the reservation guard in
// wouldStarveHigherTiersLocked. Pages already admitted are never
// evicted to make room for a higher tier.
type Budget struct {
	mu         sync.Mutex
	maxPages   int
	admitted   int
	admittedT3 int
	reachedCap bool
}

// NewBudget builds a Budget capped at maxPages admitted pages.
func NewBudget(maxPages int) *Budget {
	if maxPages < 1 {
		maxPages = 1
	}
	return &Budget{maxPages: maxPages}
}

// TryAdmit reports whether a page at tier may be admitted right now.
// Near the cap, a T3 candidate can be rejected while room remains for
// T1/T2; once the hard cap itself is hit every candidate is rejected
// (the cap is the total across all tiers, not a per-tier sub-budget).
func (b *Budget) TryAdmit(tier model.Tier) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.admitted >= b.maxPages {
		b.reachedCap = true
		return false
	}

	// Reserve room for T1/T2: once fewer slots remain than are needed
	// to keep accepting non-T3 pages at the current rate, a T3
	// candidate yields first.
	if tier == model.TierT3 && b.wouldStarveHigherTiersLocked() {
		b.reachedCap = true
		return false
	}

	b.admitted++
	if tier == model.TierT3 {
		b.admittedT3++
	}
	return true
}

// wouldStarveHigherTiersLocked is a conservative guard: once at least
// half the admitted pages are T3 and at most a quarter of the slots
// remain (maxPages/4, rounded down), further T3 admission is refused so a deep, high-volume
// blog section can't crowd out the T1/T2 pages that drive the score.
// Must be called with mu held.
func (b *Budget) wouldStarveHigherTiersLocked() bool {
	remaining := b.maxPages - b.admitted
	if remaining > b.maxPages/4 {
		return false
	}
	return b.admittedT3*2 >= b.admitted
}

// ReachedCap reports whether any admission was ever refused for
// budget reasons, the value the final report's reached_max_pages flag
// is derived from.
func (b *Budget) ReachedCap() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reachedCap
}

// Admitted returns the number of pages admitted so far.
func (b *Budget) Admitted() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.admitted
}
