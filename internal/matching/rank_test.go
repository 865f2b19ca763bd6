package matching

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carematch-workers/internal/models"
)

func TestRankCandidates_OrdersByScoreDescending(t *testing.T) {
	strong := createTestProvider()

	weaker := createTestProvider()
	weaker.ID = "provider-2"
	weaker.ExperienceYears = 1
	weaker.ReviewCount = 0
	weaker.AverageRating = 0

	weakest := createTestProvider()
	weakest.ID = "provider-3"
	weakest.ExperienceYears = 0
	weakest.Available = mornings() // empty schedule: every needed day is missing
	weakest.Coordinates = &rioDeJaneiro

	ranked := newTestEngine().RankCandidates(createTestJob(), createTestHousehold(), createTestChildren(),
		[]models.ProviderProfile{weakest, weaker, strong}, 10, 0, testNow)

	require.Len(t, ranked, 3)
	assert.Equal(t, "provider-1", ranked[0].Provider.ID)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Result.Score, ranked[i].Result.Score)
	}
}

func TestRankCandidates_ExcludesIneligible(t *testing.T) {
	eligible := createTestProvider()

	blocked := createTestProvider()
	blocked.ID = "provider-blocked"
	blocked.BackgroundChecked = boolPtr(false)

	ranked := newTestEngine().RankCandidates(createTestJob(), createTestHousehold(), createTestChildren(),
		[]models.ProviderProfile{blocked, eligible}, 10, 0, testNow)

	require.Len(t, ranked, 1)
	assert.Equal(t, "provider-1", ranked[0].Provider.ID)
}

func TestRankCandidates_MinScoreFilter(t *testing.T) {
	provider := createTestProvider()

	ranked := newTestEngine().RankCandidates(createTestJob(), createTestHousehold(), createTestChildren(),
		[]models.ProviderProfile{provider}, 10, 99, testNow)

	assert.Empty(t, ranked, "score must strictly exceed minScore")
}

func TestRankCandidates_TruncatesToLimit(t *testing.T) {
	var providers []models.ProviderProfile
	for i := 0; i < 8; i++ {
		p := createTestProvider()
		p.ID = "provider-" + string(rune('a'+i))
		providers = append(providers, p)
	}

	ranked := newTestEngine().RankCandidates(createTestJob(), createTestHousehold(), createTestChildren(), providers, 3, 0, testNow)
	assert.Len(t, ranked, 3)

	// Zero limit falls back to the default of 5.
	ranked = newTestEngine().RankCandidates(createTestJob(), createTestHousehold(), createTestChildren(), providers, 0, 0, testNow)
	assert.Len(t, ranked, 5)
}

func TestRankCandidates_EmptyPool(t *testing.T) {
	ranked := newTestEngine().RankCandidates(createTestJob(), createTestHousehold(), createTestChildren(), nil, 5, 0, testNow)
	assert.Empty(t, ranked)
}

func TestRankCandidates_StableForEqualScores(t *testing.T) {
	a := createTestProvider()
	a.ID = "provider-a"
	b := createTestProvider()
	b.ID = "provider-b"
	b.Rates = map[models.RateKind]decimal.Decimal{models.RateMonthly: decimal.NewFromInt(2500)}

	ranked := newTestEngine().RankCandidates(createTestJob(), createTestHousehold(), createTestChildren(),
		[]models.ProviderProfile{a, b}, 10, 0, testNow)

	require.Len(t, ranked, 2)
	assert.Equal(t, "provider-a", ranked[0].Provider.ID, "input order is preserved on ties")
}
