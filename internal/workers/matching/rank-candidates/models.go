// internal/workers/matching/rank-candidates/models.go
package rankcandidates

import (
	"carematch-workers/internal/matching"
	"carematch-workers/internal/models"
)

type Input struct {
	Job       models.JobRequirements  `json:"job"`
	Household models.HouseholdProfile `json:"household"`
	Children  []models.ChildProfile   `json:"children"`

	// Providers carries inline snapshots; ProviderIDs is resolved against
	// the snapshot store when Providers is empty.
	Providers   []models.ProviderProfile `json:"providers,omitempty"`
	ProviderIDs []string                 `json:"providerIds,omitempty"`

	Limit    int `json:"limit,omitempty"`
	MinScore int `json:"minScore,omitempty"`
}

type RankedMatch struct {
	ProviderID string               `json:"providerId"`
	Score      int                  `json:"score"`
	Match      matching.MatchResult `json:"match"`
}

type Output struct {
	RankedMatches       []RankedMatch `json:"rankedMatches"`
	CandidatesEvaluated int           `json:"candidatesEvaluated"`
}
