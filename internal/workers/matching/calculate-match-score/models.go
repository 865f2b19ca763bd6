// internal/workers/matching/calculate-match-score/models.go
package calculatematchscore

import (
	"carematch-workers/internal/matching"
	"carematch-workers/internal/models"
)

type Input struct {
	Job        models.JobRequirements  `json:"job"`
	Household  models.HouseholdProfile `json:"household"`
	Children   []models.ChildProfile   `json:"children"`
	ProviderID string                  `json:"providerId"`
	// Provider, when set, skips the snapshot lookup.
	Provider *models.ProviderProfile `json:"provider,omitempty"`
}

type Output struct {
	ProviderID string               `json:"providerId"`
	Match      matching.MatchResult `json:"match"`
	// MeetsSchedule is the binary schedule gate over the configured
	// minimum overlap percentage, for workflows that branch on it.
	MeetsSchedule bool `json:"meetsSchedule"`
}
