// internal/matching/budget.go
package matching

import (
	"github.com/shopspring/decimal"

	"carematch-workers/internal/models"
)

// BudgetStatus classifies how a quoted rate relates to a budget range.
type BudgetStatus string

const (
	BudgetWithin  BudgetStatus = "within_budget"
	BudgetBelow   BudgetStatus = "below_budget"
	BudgetNoMatch BudgetStatus = "no_match"
	BudgetNoRate  BudgetStatus = "no_rate"
	BudgetNone    BudgetStatus = "no_budget"
)

// BudgetOverlap is the result of comparing one quoted rate against one
// budget range. Percent is binary: the criterion either matches (100) or
// does not (0). Difference and DifferencePercent are only set when the rate
// exceeds the budget ceiling.
type BudgetOverlap struct {
	Percent           int              `json:"percent"`
	WithinBudget      bool             `json:"withinBudget"`
	Status            BudgetStatus     `json:"status"`
	Difference        *decimal.Decimal `json:"difference,omitempty"`
	DifferencePercent *int             `json:"differencePercent,omitempty"`
}

// OverlapBudget applies the classification rules in order: a missing rate or
// an unconstrained budget never penalizes, a rate below the floor is
// favorable, a rate inside [min, max] matches, and only a rate above the
// ceiling is a miss.
func OverlapBudget(budget *models.BudgetRange, rate *decimal.Decimal) BudgetOverlap {
	if rate == nil {
		return BudgetOverlap{Percent: 100, WithinBudget: true, Status: BudgetNoRate}
	}
	if budget == nil || budget.Unconstrained() {
		return BudgetOverlap{Percent: 100, WithinBudget: true, Status: BudgetNone}
	}

	min := decimal.Zero
	if budget.Min != nil {
		min = *budget.Min
	}

	if rate.LessThan(min) {
		return BudgetOverlap{Percent: 100, WithinBudget: true, Status: BudgetBelow}
	}

	if budget.Max == nil || rate.LessThanOrEqual(*budget.Max) {
		return BudgetOverlap{Percent: 100, WithinBudget: true, Status: BudgetWithin}
	}

	diff := rate.Sub(*budget.Max)
	overlap := BudgetOverlap{Status: BudgetNoMatch, Difference: &diff}
	if !budget.Max.IsZero() {
		pct := int(diff.Div(*budget.Max).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
		overlap.DifferencePercent = &pct
	}
	return overlap
}

// FindBestRateMatch evaluates every rate kind both sides expose and returns
// the kind with the highest overlap, ties broken in RateKindOrder (monthly,
// hourly, daily). When the two sides share no rate kind, the comparison is
// unconstrained: a provider is never eliminated for quoting in a different
// granularity than the household budgets in.
func FindBestRateMatch(budgets map[models.RateKind]models.BudgetRange, rates map[models.RateKind]decimal.Decimal) (models.RateKind, BudgetOverlap) {
	var bestKind models.RateKind
	var best BudgetOverlap
	found := false

	for _, kind := range models.RateKindOrder {
		rate, hasRate := rates[kind]
		budget, hasBudget := budgets[kind]
		if !hasRate || !hasBudget {
			continue
		}
		overlap := OverlapBudget(&budget, &rate)
		if !found || overlap.Percent > best.Percent {
			bestKind, best, found = kind, overlap, true
		}
	}

	if !found {
		if len(rates) == 0 {
			return "", BudgetOverlap{Percent: 100, WithinBudget: true, Status: BudgetNoRate}
		}
		return "", BudgetOverlap{Percent: 100, WithinBudget: true, Status: BudgetNone}
	}
	return bestKind, best
}
