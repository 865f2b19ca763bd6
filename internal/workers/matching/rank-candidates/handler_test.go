// internal/workers/matching/rank-candidates/handler_test.go
package rankcandidates

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"carematch-workers/internal/common/logger"
	"carematch-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return &Config{
		CacheTTL:        10 * time.Minute,
		Timeout:         15 * time.Second,
		DefaultLimit:    5,
		DefaultMinScore: 0,
	}
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func setupMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func money(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func createTestInput() *Input {
	birth := time.Now().UTC().AddDate(-4, 0, 0)
	min := money("1500")
	max := money("3000")
	return &Input{
		Job: models.JobRequirements{ID: "job-1"},
		Household: models.HouseholdProfile{
			ID: "household-1",
			Budgets: map[models.RateKind]models.BudgetRange{
				models.RateMonthly: {Min: &min, Max: &max},
			},
		},
		Children: []models.ChildProfile{
			{ID: "child-1", BirthDate: &birth},
		},
	}
}

// testProvider builds an eligible snapshot whose score scales with rating.
func testProvider(id string, rating float64) models.ProviderProfile {
	return models.ProviderProfile{
		ID:              id,
		ExperienceYears: 6,
		AgeRanges:       []models.AgeRange{models.AgePreschool},
		Rates: map[models.RateKind]decimal.Decimal{
			models.RateMonthly: money("2200"),
		},
		AverageRating: rating,
		ReviewCount:   30,
	}
}

func TestHandler_Execute_RanksInlineProviders(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()
	_, redisClient := setupMiniRedis(t)

	handler := NewHandler(createTestConfig(), db, redisClient, logger.NewTestLogger(t))

	input := createTestInput()
	input.Providers = []models.ProviderProfile{
		testProvider("provider-low", 2.0),
		testProvider("provider-high", 5.0),
		testProvider("provider-mid", 3.5),
	}

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	require.Len(t, output.RankedMatches, 3)
	assert.Equal(t, "provider-high", output.RankedMatches[0].ProviderID)
	assert.Equal(t, "provider-mid", output.RankedMatches[1].ProviderID)
	assert.Equal(t, "provider-low", output.RankedMatches[2].ProviderID)
	assert.Equal(t, 3, output.CandidatesEvaluated)

	for i := 1; i < len(output.RankedMatches); i++ {
		assert.LessOrEqual(t, output.RankedMatches[i].Score, output.RankedMatches[i-1].Score)
	}
}

func TestHandler_Execute_AppliesLimitAndMinScore(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()
	_, redisClient := setupMiniRedis(t)

	handler := NewHandler(createTestConfig(), db, redisClient, logger.NewTestLogger(t))

	input := createTestInput()
	for i := 0; i < 8; i++ {
		input.Providers = append(input.Providers, testProvider(string(rune('a'+i)), 4.5))
	}

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Len(t, output.RankedMatches, 5) // default limit
	assert.Equal(t, 8, output.CandidatesEvaluated)

	input.Limit = 2
	input.MinScore = 100 // nothing clears a perfect threshold
	output, err = handler.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Empty(t, output.RankedMatches)
}

func TestHandler_Execute_ExcludesIneligible(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()
	_, redisClient := setupMiniRedis(t)

	handler := NewHandler(createTestConfig(), db, redisClient, logger.NewTestLogger(t))

	blocked := testProvider("provider-blocked", 5.0)
	refuse := false
	blocked.AcceptsPets = &refuse

	input := createTestInput()
	input.Household.HasPets = true
	input.Providers = []models.ProviderProfile{
		blocked,
		testProvider("provider-ok", 3.0),
	}

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	require.Len(t, output.RankedMatches, 1)
	assert.Equal(t, "provider-ok", output.RankedMatches[0].ProviderID)
}

func TestHandler_Execute_FetchesSnapshotsByID(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	mr, redisClient := setupMiniRedis(t)

	handler := NewHandler(createTestConfig(), db, redisClient, logger.NewTestLogger(t))

	// provider-a is cached, provider-b comes from the database
	cached, _ := json.Marshal(testProvider("provider-a", 4.0))
	require.NoError(t, redisClient.Set(context.Background(), "provider:snapshot:provider-a", cached, 0).Err())

	fromDB := testProvider("provider-b", 0)
	profileJSON, _ := json.Marshal(fromDB)
	mock.ExpectQuery("SELECT provider_id, profile").
		WithArgs(pq.Array([]string{"provider-b"})).
		WillReturnRows(sqlmock.NewRows([]string{"provider_id", "profile", "average_rating", "review_count", "last_active_at"}).
			AddRow("provider-b", profileJSON, 4.9, 40, nil))

	input := createTestInput()
	input.ProviderIDs = []string{"provider-a", "provider-b"}

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, 2, output.CandidatesEvaluated)
	assert.Len(t, output.RankedMatches, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.True(t, mr.Exists("provider:snapshot:provider-b"))
}

func TestHandler_Execute_NoCandidates(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()
	_, redisClient := setupMiniRedis(t)

	handler := NewHandler(createTestConfig(), db, redisClient, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrNoCandidates)
}
