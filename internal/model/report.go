package model

import (
	"encoding/json"
	"time"
)

// RunStatus is the lifecycle state of an AuditReport (spec §3).
type RunStatus string

const (
	RunQueued    RunStatus = "Queued"
	RunRunning   RunStatus = "Running"
	RunCompleted RunStatus = "Completed"
	RunFailed    RunStatus = "Failed"
)

// CategoryScore is the weighted score for one Category (spec §4.G).
type CategoryScore struct {
	Category Category `json:"category"`
	Score    float64  `json:"score"`
	Factors  int      `json:"factor_count"`
}

// Summary aggregates factor counts and scores across a completed run.
type Summary struct {
	OK              int             `json:"ok"`
	OFI             int             `json:"ofi"`
	PriorityOFI     int             `json:"priority_ofi"`
	NA              int             `json:"na"`
	Total           int             `json:"total"`
	WeightedScore   float64         `json:"weighted_score"`
	PerCategoryScore []CategoryScore `json:"per_category_score"`
}

// AuditReport is the top-level artifact produced by one crawl run (spec §3).
//
// ConfigSnapshot is a slot for the fully-resolved Config used for the
// run. Nothing in this module fills it, so it is omitted from the JSON
// unless a caller sets it.
type AuditReport struct {
	ID              string        `json:"id"`
	RootURL         string        `json:"root_url"`
	Status          RunStatus     `json:"status"`
	StartedAt       time.Time     `json:"started_at"`
	FinishedAt      time.Time     `json:"finished_at"`
	ReachedMaxPages bool          `json:"reached_max_pages"`
	Pages           []PageRecord  `json:"pages"`
	Factors         []AuditFactor `json:"factors"`
	Summary         Summary       `json:"summary"`
	ConfigSnapshot  json.RawMessage `json:"config_snapshot,omitempty"`
	FailureReason   string        `json:"failure_reason,omitempty"`
}

// Duration returns the wall-clock span of the run. Zero before FinishedAt
// is set.
func (r *AuditReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// NewSummary derives a Summary from a factor set, using the tier-weighted
// scoring formula of spec §4.G:
//
//	score_c = 100 * (Σ w(f)·ok(f)) / (Σ w(f)·applicable(f))
//
// where w(f) is f.TierOfPage.Weight(), ok(f)=1 iff status=OK, and
// applicable(f)=0 iff status=NA (NA factors drop out of both sums
// entirely). A category with zero applicable weight is dropped rather
// than divided by zero. The overall score renormalizes weights over the
// categories actually present, so a run with no LocalSEO_EEAT factors
// doesn't silently lose 20% of the possible score to a phantom category.
// Pure and deterministic: the same factors and category weights always
// produce the same totals, which is what makes the aggregator's
// demotion pass reproducible.
func NewSummary(factors []AuditFactor, categoryWeights map[Category]float64) Summary {
	s := Summary{Total: len(factors)}
	okWeight := map[Category]float64{}
	applicableWeight := map[Category]float64{}
	categoryCounts := map[Category]int{}

	for _, f := range factors {
		switch f.Status {
		case StatusOK:
			s.OK++
		case StatusOFI:
			s.OFI++
		case StatusPriorityOFI:
			s.PriorityOFI++
		case StatusNA:
			s.NA++
		}
		if f.Status == StatusNA {
			continue
		}
		w := float64(f.TierOfPage.Weight())
		categoryCounts[f.Category]++
		applicableWeight[f.Category] += w
		if f.Status == StatusOK {
			okWeight[f.Category] += w
		}
	}

	var weightedSum, weightSum float64
	for cat, denom := range applicableWeight {
		if denom <= 0 {
			continue
		}
		score := 100 * okWeight[cat] / denom
		w := categoryWeights[cat]
		weightedSum += score * w
		weightSum += w
		s.PerCategoryScore = append(s.PerCategoryScore, CategoryScore{
			Category: cat,
			Score:    score,
			Factors:  categoryCounts[cat],
		})
	}
	if weightSum > 0 {
		s.WeightedScore = weightedSum / weightSum
	}
	return s
}
