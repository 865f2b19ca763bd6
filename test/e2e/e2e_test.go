// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carematch-workers/internal/common/logger"
	"carematch-workers/internal/models"

	buildmatchresponse "carematch-workers/internal/workers/matching/build-match-response"
	calculatematchscore "carematch-workers/internal/workers/matching/calculate-match-score"
	rankcandidates "carematch-workers/internal/workers/matching/rank-candidates"
)

// These tests exercise the matching pipeline against real Postgres and Redis.
// Set CAREMATCH_E2E=1 and have both services running locally before enabling.

func setupInfra(t *testing.T) (*sql.DB, *redis.Client) {
	if os.Getenv("CAREMATCH_E2E") == "" {
		t.Skip("Skipping e2e test: CAREMATCH_E2E not set")
	}

	dsn := os.Getenv("CAREMATCH_E2E_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres password=postgres dbname=carematch sslmode=disable"
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	if err := db.Ping(); err != nil {
		t.Skipf("Skipping e2e test: Postgres not available: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Skipping e2e test: Redis not available: %v", err)
	}

	return db, rdb
}

func seedSnapshots(t *testing.T, db *sql.DB, rdb *redis.Client) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS provider_snapshots (
			provider_id    TEXT PRIMARY KEY,
			profile        JSONB NOT NULL,
			average_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			review_count   INTEGER NOT NULL DEFAULT 0,
			last_active_at TIMESTAMPTZ
		)`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM provider_snapshots WHERE provider_id LIKE 'e2e-%'`)
	require.NoError(t, err)

	rates := map[models.RateKind]decimal.Decimal{
		models.RateMonthly: decimal.RequireFromString("2200"),
	}
	profiles := []struct {
		id     string
		rating float64
		count  int
	}{
		{"e2e-provider-1", 4.9, 35},
		{"e2e-provider-2", 3.2, 12},
	}

	for _, p := range profiles {
		profile := models.ProviderProfile{
			ExperienceYears: 6,
			AgeRanges:       []models.AgeRange{models.AgePreschool},
			Rates:           rates,
		}
		raw, _ := json.Marshal(profile)
		_, err = db.Exec(`
			INSERT INTO provider_snapshots (provider_id, profile, average_rating, review_count, last_active_at)
			VALUES ($1, $2, $3, $4, NOW())`, p.id, raw, p.rating, p.count)
		require.NoError(t, err)
		// seeded rows must not be served from a previous run's cache
		rdb.Del(context.Background(), "provider:snapshot:"+p.id)
	}
}

func pipelineRequest() (models.JobRequirements, models.HouseholdProfile, []models.ChildProfile) {
	birth := time.Now().UTC().AddDate(-4, 0, 0)
	min := decimal.RequireFromString("1500")
	max := decimal.RequireFromString("3000")

	job := models.JobRequirements{ID: "e2e-job-1"}
	household := models.HouseholdProfile{
		ID: "e2e-household-1",
		Budgets: map[models.RateKind]models.BudgetRange{
			models.RateMonthly: {Min: &min, Max: &max},
		},
	}
	children := []models.ChildProfile{{ID: "e2e-child-1", BirthDate: &birth}}
	return job, household, children
}

func TestMatchingPipeline(t *testing.T) {
	db, rdb := setupInfra(t)
	defer db.Close()
	defer rdb.Close()

	seedSnapshots(t, db, rdb)
	job, household, children := pipelineRequest()

	// 1. Score a single candidate by snapshot id
	scoreHandler := calculatematchscore.NewHandler(
		&calculatematchscore.Config{CacheTTL: time.Minute, Timeout: 10 * time.Second},
		db, rdb, logger.NewTestLogger(t),
	)
	scoreOut, err := scoreHandler.Execute(context.Background(), &calculatematchscore.Input{
		Job:        job,
		Household:  household,
		Children:   children,
		ProviderID: "e2e-provider-1",
	})
	require.NoError(t, err)
	assert.True(t, scoreOut.Match.Eligible)
	assert.Greater(t, scoreOut.Match.Score, 0)

	// second call must be served from the snapshot cache
	cached := rdb.Exists(context.Background(), "provider:snapshot:e2e-provider-1").Val()
	assert.Equal(t, int64(1), cached)

	// 2. Rank the candidate pool by snapshot ids
	rankHandler := rankcandidates.NewHandler(
		&rankcandidates.Config{CacheTTL: time.Minute, Timeout: 15 * time.Second, DefaultLimit: 5},
		db, rdb, logger.NewTestLogger(t),
	)
	rankOut, err := rankHandler.Execute(context.Background(), &rankcandidates.Input{
		Job:         job,
		Household:   household,
		Children:    children,
		ProviderIDs: []string{"e2e-provider-1", "e2e-provider-2"},
	})
	require.NoError(t, err)
	require.Len(t, rankOut.RankedMatches, 2)
	assert.Equal(t, "e2e-provider-1", rankOut.RankedMatches[0].ProviderID)

	// 3. Wrap the shortlist in the response envelope
	responseHandler := buildmatchresponse.NewHandler(
		&buildmatchresponse.Config{AppVersion: "e2e", Timeout: 10 * time.Second},
		logger.NewTestLogger(t),
	)

	shortlist, _ := json.Marshal(rankOut)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(shortlist, &data))

	respOut, err := responseHandler.Execute(context.Background(), &buildmatchresponse.Input{
		ResponseType: buildmatchresponse.TypeShortlist,
		RequestID:    "e2e-req-1",
		Data:         data,
	})
	require.NoError(t, err)
	assert.Equal(t, "success", respOut.Response.Status)
	assert.Equal(t, "e2e-req-1", respOut.Response.RequestID)
}

func TestMatchingPipeline_SnapshotMiss(t *testing.T) {
	db, rdb := setupInfra(t)
	defer db.Close()
	defer rdb.Close()

	seedSnapshots(t, db, rdb)
	job, household, children := pipelineRequest()

	scoreHandler := calculatematchscore.NewHandler(
		&calculatematchscore.Config{CacheTTL: time.Minute, Timeout: 10 * time.Second},
		db, rdb, logger.NewTestLogger(t),
	)
	_, err := scoreHandler.Execute(context.Background(), &calculatematchscore.Input{
		Job:        job,
		Household:  household,
		Children:   children,
		ProviderID: "e2e-provider-missing",
	})
	assert.ErrorIs(t, err, calculatematchscore.ErrSnapshotNotFound)
}
