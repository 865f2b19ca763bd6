// internal/matching/rank.go
package matching

import (
	"sort"
	"time"

	"carematch-workers/internal/models"
)

// RankedCandidate pairs a provider with its match result.
type RankedCandidate struct {
	Provider models.ProviderProfile `json:"provider"`
	Result   MatchResult            `json:"result"`
}

// RankCandidates scores every provider against the same request, drops
// ineligible candidates and those at or below minScore, and returns the
// rest ordered by descending score, truncated to limit (default 5).
func (e *Engine) RankCandidates(job models.JobRequirements, household models.HouseholdProfile, children []models.ChildProfile, providers []models.ProviderProfile, limit, minScore int, now time.Time) []RankedCandidate {
	var ranked []RankedCandidate
	for _, p := range providers {
		result := e.Score(job, household, children, p, now)
		if !result.Eligible || result.Score <= minScore {
			continue
		}
		ranked = append(ranked, RankedCandidate{Provider: p, Result: result})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.Score > ranked[j].Result.Score
	})

	if limit <= 0 {
		limit = 5
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
