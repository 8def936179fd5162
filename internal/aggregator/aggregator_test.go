package aggregator_test

import (
	"testing"

	"github.com/seoaudit/engine/internal/aggregator"
	"github.com/seoaudit/engine/internal/model"
	"github.com/stretchr/testify/assert"
)

func t1Page() model.PageRecord { return model.PageRecord{Tier: model.TierT1} }
func t3Page() model.PageRecord { return model.PageRecord{Tier: model.TierT3} }

func TestAggregate_DemotesPriorityOFIWhenEveryPageIsT3(t *testing.T) {
	factors := []model.AuditFactor{
		{ID: "content.title.missing", Status: model.StatusPriorityOFI, TierOfPage: model.TierT3, Category: model.CategoryContentQuality},
	}
	pages := []model.PageRecord{t3Page(), t3Page()}

	demoted, _ := aggregator.Aggregate(factors, pages)

	assert.Equal(t, model.StatusOFI, demoted[0].Status)
}

func TestAggregate_DoesNotDemoteWhenAnyPageIsNotT3(t *testing.T) {
	factors := []model.AuditFactor{
		{ID: "content.title.missing", Status: model.StatusPriorityOFI, TierOfPage: model.TierT3, Category: model.CategoryContentQuality},
	}
	pages := []model.PageRecord{t1Page(), t3Page()}

	demoted, _ := aggregator.Aggregate(factors, pages)

	assert.Equal(t, model.StatusPriorityOFI, demoted[0].Status)
}

func TestAggregate_EmptyPageSetIsNoOp(t *testing.T) {
	factors := []model.AuditFactor{
		{ID: "content.title.missing", Status: model.StatusPriorityOFI, TierOfPage: model.TierT3, Category: model.CategoryContentQuality},
	}

	demoted, _ := aggregator.Aggregate(factors, nil)

	assert.Equal(t, model.StatusPriorityOFI, demoted[0].Status)
}

func TestAggregate_SummaryUsesTierWeightedFormula(t *testing.T) {
	factors := []model.AuditFactor{
		{ID: "a", Status: model.StatusOK, TierOfPage: model.TierT1, Category: model.CategoryContentQuality},
		{ID: "b", Status: model.StatusOFI, TierOfPage: model.TierT2, Category: model.CategoryContentQuality},
	}
	pages := []model.PageRecord{t1Page()}

	_, summary := aggregator.Aggregate(factors, pages)

	// score_c = 100 * (3*1) / (3+2) = 60
	assert.InDelta(t, 60.0, summary.PerCategoryScore[0].Score, 0.001)
	assert.InDelta(t, 60.0, summary.WeightedScore, 0.001)
}

func TestAggregate_NAFactorsDropOutOfBothSums(t *testing.T) {
	factors := []model.AuditFactor{
		{ID: "a", Status: model.StatusOK, TierOfPage: model.TierT1, Category: model.CategoryLocalSEOEEAT},
		{ID: "b", Status: model.StatusNA, TierOfPage: model.TierT1, Category: model.CategoryLocalSEOEEAT},
	}

	_, summary := aggregator.Aggregate(factors, nil)

	assert.InDelta(t, 100.0, summary.PerCategoryScore[0].Score, 0.001)
	assert.Equal(t, 1, summary.NA)
}
