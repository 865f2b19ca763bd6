// internal/matching/engine.go
package matching

import (
	"fmt"
	"math"
	"time"

	"carematch-workers/internal/models"
)

// MaxScore is the scale every final score is expressed on.
const MaxScore = 100

// Criterion names one weighted component of the final score.
type Criterion string

const (
	CriterionDistance   Criterion = "distance"
	CriterionSchedule   Criterion = "schedule"
	CriterionBudget     Criterion = "budget"
	CriterionExperience Criterion = "experience"
	CriterionReputation Criterion = "reputation"
	CriterionRecency    Criterion = "recency"
)

// Weights is the criterion weight table. The fields must sum to 1.0; Valid
// enforces that so a weight change stays a one-line diff with a guard.
type Weights struct {
	Distance   float64
	Schedule   float64
	Budget     float64
	Experience float64
	Reputation float64
	Recency    float64
}

// DefaultWeights is the production weight table.
func DefaultWeights() Weights {
	return Weights{
		Schedule:   0.25,
		Distance:   0.20,
		Budget:     0.20,
		Experience: 0.15,
		Reputation: 0.12,
		Recency:    0.08,
	}
}

// Valid reports whether the weights sum to 1.0 within float tolerance.
func (w Weights) Valid() bool {
	sum := w.Distance + w.Schedule + w.Budget + w.Experience + w.Reputation + w.Recency
	return math.Abs(sum-1.0) < 1e-9
}

// ScoreComponent is one criterion's contribution to the final score.
type ScoreComponent struct {
	Raw      float64 `json:"raw"`    // normalized [0,1]
	Weight   float64 `json:"weight"` // share of the total
	Weighted float64 `json:"weightedContribution"`
}

// MatchResult is the engine's sole output. It is constructed fresh per call
// and never mutated afterwards. When Eligible is false the score is still
// computed for observability, but it must not be read as a ranking signal.
type MatchResult struct {
	Score              int                          `json:"score"`
	Eligible           bool                         `json:"isEligible"`
	EliminationReasons []string                     `json:"eliminationReasons"`
	Breakdown          map[Criterion]ScoreComponent `json:"breakdown"`
	Schedule           ScheduleOverlap              `json:"schedule"`
	Budget             BudgetOverlap                `json:"budget"`
	DistanceKm         *float64                     `json:"distanceKm,omitempty"`
}

// Engine computes compatibility between one request and one provider. It is
// stateless and safe for concurrent use.
type Engine struct {
	weights Weights
}

// NewEngine builds an engine with the given weight table; invalid weights
// fall back to the defaults.
func NewEngine(w Weights) *Engine {
	if !w.Valid() {
		w = DefaultWeights()
	}
	return &Engine{weights: w}
}

// Score evaluates one request/provider pair. Elimination is checked first
// and independently of scoring; every failing hard filter is collected so a
// caller can surface all blocking issues at once. The weighted score is
// always computed. now is explicit so results are deterministic.
func (e *Engine) Score(job models.JobRequirements, household models.HouseholdProfile, children []models.ChildProfile, provider models.ProviderProfile, now time.Time) MatchResult {
	inScope := childrenInScope(job, children)

	result := MatchResult{
		EliminationReasons: e.eliminate(job, household, inScope, provider, now),
		Breakdown:          make(map[Criterion]ScoreComponent, 6),
	}
	result.Eligible = len(result.EliminationReasons) == 0

	// Distance
	var distanceRaw = 0.5 // neutral when either address has no coordinates
	if household.Coordinates != nil && provider.Coordinates != nil {
		d := Distance(*provider.Coordinates, *household.Coordinates)
		result.DistanceKm = &d
		radius := provider.TravelRadius.Km()
		ratio := d / radius
		if ratio >= 1 {
			distanceRaw = 0
		} else {
			distanceRaw = clamp01(1 - ratio*ratio)
		}
	}
	e.addComponent(&result, CriterionDistance, distanceRaw, e.weights.Distance)

	// Schedule
	result.Schedule = OverlapSchedules(household.Needed, provider.Available)
	scheduleRaw := float64(result.Schedule.Percent) / 100
	if household.Needed != nil && provider.Available == nil {
		// Unknown availability is neutral, not a total miss.
		scheduleRaw = 0.5
	}
	e.addComponent(&result, CriterionSchedule, scheduleRaw, e.weights.Schedule)

	// Budget
	_, result.Budget = FindBestRateMatch(household.Budgets, provider.Rates)
	e.addComponent(&result, CriterionBudget, float64(result.Budget.Percent)/100, e.weights.Budget)

	// Experience
	e.addComponent(&result, CriterionExperience, experienceRaw(provider.ExperienceYears), e.weights.Experience)

	// Reputation
	e.addComponent(&result, CriterionReputation, reputationRaw(provider.AverageRating, provider.ReviewCount), e.weights.Reputation)

	// Recency
	e.addComponent(&result, CriterionRecency, recencyRaw(provider.LastActiveAt, now), e.weights.Recency)

	var sum float64
	for _, c := range result.Breakdown {
		sum += c.Weighted
	}
	result.Score = clampScore(int(math.Round(sum * MaxScore)))

	return result
}

func (e *Engine) addComponent(result *MatchResult, criterion Criterion, raw, weight float64) {
	raw = clamp01(raw)
	result.Breakdown[criterion] = ScoreComponent{
		Raw:      raw,
		Weight:   weight,
		Weighted: raw * weight,
	}
}

// eliminate applies every hard filter and returns the full list of failures.
// Filters only fire on explicit, present, conflicting data: a missing
// optional field never disqualifies.
func (e *Engine) eliminate(job models.JobRequirements, household models.HouseholdProfile, children []models.ChildProfile, provider models.ProviderProfile, now time.Time) []string {
	var reasons []string

	if provider.MaxChildren > 0 && len(children) > provider.MaxChildren {
		reasons = append(reasons, fmt.Sprintf("request covers %d children but provider cares for at most %d", len(children), provider.MaxChildren))
	}

	if len(provider.AgeRanges) > 0 {
		covered := provider.AgeRangeSet()
		for _, child := range children {
			bracket := child.AgeRangeAt(now)
			if _, ok := covered[bracket]; !ok {
				reasons = append(reasons, fmt.Sprintf("provider has no experience with %s children", bracket))
				break
			}
		}
	}

	if len(job.MandatoryTags) > 0 {
		tags := provider.TagSet()
		for _, required := range job.MandatoryTags {
			if _, ok := tags[required]; !ok {
				reasons = append(reasons, fmt.Sprintf("missing mandatory requirement %q", required))
			}
		}
	}

	if len(household.EngagementTypes) > 0 && len(provider.EngagementTypes) > 0 {
		if !engagementIntersects(household.EngagementTypes, provider.EngagementTypes) {
			reasons = append(reasons, "no common engagement type")
		}
	}

	if household.HasPets && provider.AcceptsPets != nil && !*provider.AcceptsPets {
		reasons = append(reasons, "household has pets the provider does not accept")
	}

	if household.ExpectsDomesticHelp && len(provider.Activities) > 0 && !provider.AcceptsActivity(models.ActivityDomesticHelp) {
		reasons = append(reasons, "household expects domestic help the provider does not offer")
	}

	if anySpecialNeeds(children) && len(provider.Activities) > 0 && !provider.AcceptsActivity(models.ActivitySpecialNeeds) {
		reasons = append(reasons, "provider does not care for special-needs children")
	}

	if provider.DocumentValidated != nil && !*provider.DocumentValidated {
		reasons = append(reasons, "provider documents not validated")
	} else if provider.DocumentExpiresAt != nil && provider.DocumentExpiresAt.Before(now) {
		reasons = append(reasons, "provider documents expired")
	}
	if provider.IdentityValidated != nil && !*provider.IdentityValidated {
		reasons = append(reasons, "provider identity not validated")
	}
	if provider.BackgroundChecked != nil && !*provider.BackgroundChecked {
		reasons = append(reasons, "provider background check not passed")
	}

	return reasons
}

// childrenInScope filters the children list to the ids the job names. An
// empty id list keeps every child.
func childrenInScope(job models.JobRequirements, children []models.ChildProfile) []models.ChildProfile {
	if len(job.ChildIDs) == 0 {
		return children
	}
	ids := make(map[string]struct{}, len(job.ChildIDs))
	for _, id := range job.ChildIDs {
		ids[id] = struct{}{}
	}
	var scoped []models.ChildProfile
	for _, c := range children {
		if _, ok := ids[c.ID]; ok {
			scoped = append(scoped, c)
		}
	}
	return scoped
}

func engagementIntersects(a, b []models.EngagementType) bool {
	set := make(map[models.EngagementType]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	for _, t := range b {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}

func anySpecialNeeds(children []models.ChildProfile) bool {
	for _, c := range children {
		if c.SpecialNeeds {
			return true
		}
	}
	return false
}

// experienceRaw uses the same tiers the rest of the marketplace applies to
// caregiver seniority.
func experienceRaw(years int) float64 {
	switch {
	case years >= 5:
		return 1.0
	case years >= 3:
		return 0.8
	case years >= 1:
		return 0.6
	default:
		return 0.3
	}
}

// reputationRaw shrinks the average rating toward neutral when few reviews
// exist. Zero reviews is neutral, never a penalty.
func reputationRaw(avgRating float64, reviewCount int) float64 {
	if reviewCount <= 0 {
		return 0.5
	}
	const priorWeight = 10.0
	n := float64(reviewCount)
	rated := clamp01(avgRating / 5.0)
	return (rated*n + 0.5*priorWeight) / (n + priorWeight)
}

// recencyRaw decays linearly from full credit inside a 7-day grace window
// down to a 0.2 floor at 180 days of inactivity. Unknown activity is
// neutral.
func recencyRaw(lastActiveAt *time.Time, now time.Time) float64 {
	if lastActiveAt == nil {
		return 0.5
	}
	const (
		graceDays = 7.0
		floorAt   = 180.0
		floor     = 0.2
	)
	days := now.Sub(*lastActiveAt).Hours() / 24
	if days <= graceDays {
		return 1.0
	}
	if days >= floorAt {
		return floor
	}
	return 1.0 - (days-graceDays)/(floorAt-graceDays)*(1.0-floor)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
