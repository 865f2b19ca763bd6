// internal/workers/matching/calculate-match-score/handler.go
package calculatematchscore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"carematch-workers/internal/common/logger"
	"carematch-workers/internal/common/metrics"
	"carematch-workers/internal/matching"
	"carematch-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "calculate-match-score"
)

var (
	ErrSnapshotNotFound = errors.New("SNAPSHOT_NOT_FOUND")
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	engine *matching.Engine
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redis *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		redis:  redis,
		engine: matching.NewEngine(matching.DefaultWeights()),
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		code := "MATCH_SCORE_FAILED"
		if errors.Is(err, ErrSnapshotNotFound) {
			code = "SNAPSHOT_NOT_FOUND"
		}
		h.failJob(client, job, code, err.Error())
		return err
	}

	h.completeJob(client, job, output)
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	var provider *models.ProviderProfile
	if input.Provider != nil {
		provider = input.Provider
	} else if input.ProviderID != "" {
		var err error
		provider, err = h.getProviderSnapshot(ctx, input.ProviderID)
		if err != nil {
			return nil, err
		}
	} else {
		return nil, fmt.Errorf("%w: neither provider nor providerId given", ErrSnapshotNotFound)
	}

	result := h.engine.Score(input.Job, input.Household, input.Children, *provider, time.Now().UTC())
	meetsSchedule := matching.MeetsScheduleRequirement(input.Household.Needed, provider.Available, h.config.MinSchedulePercent)

	metrics.MatchesScored.Inc()
	metrics.MatchScoreDistribution.Observe(float64(result.Score))
	if !result.Eligible && len(result.EliminationReasons) > 0 {
		metrics.MatchEliminations.WithLabelValues(eliminationLabel(result.EliminationReasons[0])).Inc()
	}

	h.logger.Info("match score calculated", map[string]interface{}{
		"jobId":         input.Job.ID,
		"providerId":    provider.ID,
		"score":         result.Score,
		"eligible":      result.Eligible,
		"meetsSchedule": meetsSchedule,
	})

	return &Output{
		ProviderID:    provider.ID,
		Match:         result,
		MeetsSchedule: meetsSchedule,
	}, nil
}

// getProviderSnapshot reads the scoring snapshot with a cache-aside on Redis.
// The snapshot row keeps the slow-moving profile as one JSON document next to
// the columns that churn (rating, review count, last activity).
func (h *Handler) getProviderSnapshot(ctx context.Context, providerID string) (*models.ProviderProfile, error) {
	cacheKey := "provider:snapshot:" + providerID
	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var profile models.ProviderProfile
		if err := json.Unmarshal([]byte(val), &profile); err == nil {
			return &profile, nil
		}
	}

	row := h.db.QueryRowContext(ctx, `
		SELECT profile, average_rating, review_count, last_active_at
		FROM provider_snapshots WHERE provider_id = $1`, providerID)

	var (
		profileJSON []byte
		rating      float64
		reviewCount int
		lastActive  sql.NullTime
	)
	err := row.Scan(&profileJSON, &rating, &reviewCount, &lastActive)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: provider %s", ErrSnapshotNotFound, providerID)
	}
	if err != nil {
		return nil, err
	}

	var profile models.ProviderProfile
	if err := json.Unmarshal(profileJSON, &profile); err != nil {
		return nil, fmt.Errorf("decode snapshot for provider %s: %w", providerID, err)
	}
	profile.ID = providerID
	profile.AverageRating = rating
	profile.ReviewCount = reviewCount
	if lastActive.Valid {
		t := lastActive.Time
		profile.LastActiveAt = &t
	}

	data, _ := json.Marshal(profile)
	h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)

	return &profile, nil
}

// eliminationLabel folds a free-form elimination reason into a bounded label
// value so the counter keeps low cardinality.
func eliminationLabel(reason string) string {
	switch {
	case strings.Contains(reason, "at most"):
		return "capacity"
	case strings.Contains(reason, "no experience with"):
		return "age_range"
	case strings.Contains(reason, "mandatory requirement"):
		return "mandatory_tag"
	case strings.Contains(reason, "engagement type"):
		return "engagement"
	case strings.Contains(reason, "pets"):
		return "pets"
	case strings.Contains(reason, "domestic help"):
		return "domestic_help"
	case strings.Contains(reason, "special-needs"):
		return "special_needs"
	case strings.Contains(reason, "documents"):
		return "documents"
	case strings.Contains(reason, "identity"):
		return "identity"
	case strings.Contains(reason, "background"):
		return "background"
	default:
		return "other"
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
