package matching

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"carematch-workers/internal/models"
)

func money(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func budgetRange(min, max int64) models.BudgetRange {
	return models.BudgetRange{Min: money(min), Max: money(max)}
}

func TestOverlapBudget_Classification(t *testing.T) {
	budget := budgetRange(2000, 3000)

	tests := []struct {
		name       string
		rate       int64
		wantStatus BudgetStatus
		wantPct    int
	}{
		{"below range is favorable", 1500, BudgetBelow, 100},
		{"within range", 2500, BudgetWithin, 100},
		{"exactly at min", 2000, BudgetWithin, 100},
		{"exactly at max", 3000, BudgetWithin, 100},
		{"above range", 3500, BudgetNoMatch, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := OverlapBudget(&budget, money(tt.rate))
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, tt.wantPct, result.Percent)
			assert.Equal(t, tt.wantPct == 100, result.WithinBudget)
		})
	}
}

func TestOverlapBudget_AboveRangeDifference(t *testing.T) {
	budget := budgetRange(2000, 3000)

	result := OverlapBudget(&budget, money(3500))

	assert.Equal(t, BudgetNoMatch, result.Status)
	if assert.NotNil(t, result.Difference) {
		assert.True(t, result.Difference.Equal(decimal.NewFromInt(500)))
	}
	if assert.NotNil(t, result.DifferencePercent) {
		assert.Equal(t, 17, *result.DifferencePercent) // round(500/3000*100)
	}
}

func TestOverlapBudget_Unconstrained(t *testing.T) {
	budget := budgetRange(2000, 3000)

	tests := []struct {
		name       string
		budget     *models.BudgetRange
		rate       *decimal.Decimal
		wantStatus BudgetStatus
	}{
		{"no rate never eliminates", &budget, nil, BudgetNoRate},
		{"nil budget", nil, money(2500), BudgetNone},
		{"empty budget range", &models.BudgetRange{}, money(2500), BudgetNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := OverlapBudget(tt.budget, tt.rate)
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, 100, result.Percent)
			assert.True(t, result.WithinBudget)
			assert.Nil(t, result.Difference)
		})
	}
}

func TestOverlapBudget_OpenBounds(t *testing.T) {
	minOnly := models.BudgetRange{Min: money(2000)}
	result := OverlapBudget(&minOnly, money(999999))
	assert.Equal(t, BudgetWithin, result.Status, "missing max defaults to +inf")

	maxOnly := models.BudgetRange{Max: money(3000)}
	result = OverlapBudget(&maxOnly, money(100))
	assert.Equal(t, BudgetWithin, result.Status, "missing min defaults to 0")
}

func TestFindBestRateMatch_PicksHighestOverlap(t *testing.T) {
	budgets := map[models.RateKind]models.BudgetRange{
		models.RateMonthly: budgetRange(2000, 3000),
		models.RateHourly:  budgetRange(15, 25),
	}
	rates := map[models.RateKind]decimal.Decimal{
		models.RateMonthly: decimal.NewFromInt(5000), // above budget
		models.RateHourly:  decimal.NewFromInt(20),   // within budget
	}

	kind, result := FindBestRateMatch(budgets, rates)

	assert.Equal(t, models.RateHourly, kind)
	assert.Equal(t, BudgetWithin, result.Status)
}

func TestFindBestRateMatch_TieBrokenByKindOrder(t *testing.T) {
	budgets := map[models.RateKind]models.BudgetRange{
		models.RateMonthly: budgetRange(2000, 3000),
		models.RateHourly:  budgetRange(15, 25),
		models.RateDaily:   budgetRange(100, 200),
	}
	rates := map[models.RateKind]decimal.Decimal{
		models.RateDaily:   decimal.NewFromInt(150),
		models.RateHourly:  decimal.NewFromInt(20),
		models.RateMonthly: decimal.NewFromInt(2500),
	}

	kind, result := FindBestRateMatch(budgets, rates)

	assert.Equal(t, models.RateMonthly, kind, "monthly wins ties over hourly and daily")
	assert.Equal(t, BudgetWithin, result.Status)
}

func TestFindBestRateMatch_NoCommonKind(t *testing.T) {
	budgets := map[models.RateKind]models.BudgetRange{
		models.RateMonthly: budgetRange(2000, 3000),
	}

	kind, result := FindBestRateMatch(budgets, map[models.RateKind]decimal.Decimal{
		models.RateHourly: decimal.NewFromInt(20),
	})
	assert.Equal(t, models.RateKind(""), kind)
	assert.Equal(t, BudgetNone, result.Status)
	assert.Equal(t, 100, result.Percent)

	kind, result = FindBestRateMatch(budgets, nil)
	assert.Equal(t, models.RateKind(""), kind)
	assert.Equal(t, BudgetNoRate, result.Status)
	assert.Equal(t, 100, result.Percent)
}
