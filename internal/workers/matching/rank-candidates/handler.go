// internal/workers/matching/rank-candidates/handler.go
package rankcandidates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	commonerrors "carematch-workers/internal/common/errors"
	"carematch-workers/internal/common/logger"
	"carematch-workers/internal/common/metrics"
	"carematch-workers/internal/matching"
	"carematch-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "rank-candidates"
)

var (
	ErrNoCandidates = errors.New("no candidates to rank")
)

type Handler struct {
	config     *Config
	db         *sql.DB
	redis      *redis.Client
	engine     *matching.Engine
	logger     logger.Logger
	errHandler *commonerrors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, redis *redis.Client, log logger.Logger) *Handler {
	workerLog := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		db:         db,
		redis:      redis,
		engine:     matching.NewEngine(matching.DefaultWeights()),
		logger:     workerLog,
		errHandler: commonerrors.NewErrorHandler(workerLog),
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
		stdErr := classifyError(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.errHandler.HandleJobError(ctx, client, job, stdErr)
		return err
	}

	h.completeJob(client, job, output)
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	providers := input.Providers
	if len(providers) == 0 && len(input.ProviderIDs) > 0 {
		var err error
		providers, err = h.getProviderSnapshots(ctx, input.ProviderIDs)
		if err != nil {
			return nil, err
		}
	}
	if len(providers) == 0 {
		return nil, ErrNoCandidates
	}

	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}
	minScore := input.MinScore
	if minScore <= 0 {
		minScore = h.config.DefaultMinScore
	}

	ranked := h.engine.RankCandidates(input.Job, input.Household, input.Children, providers, limit, minScore, time.Now().UTC())

	matches := make([]RankedMatch, 0, len(ranked))
	for _, c := range ranked {
		matches = append(matches, RankedMatch{
			ProviderID: c.Provider.ID,
			Score:      c.Result.Score,
			Match:      c.Result,
		})
		metrics.MatchScoreDistribution.Observe(float64(c.Result.Score))
	}
	metrics.MatchesScored.Add(float64(len(providers)))

	h.logger.Info("candidates ranked", map[string]interface{}{
		"jobId":     input.Job.ID,
		"evaluated": len(providers),
		"returned":  len(matches),
	})

	return &Output{
		RankedMatches:       matches,
		CandidatesEvaluated: len(providers),
	}, nil
}

// getProviderSnapshots resolves ids against Redis first and batch-reads the
// misses from Postgres in one query. Missing rows are skipped rather than
// failing the whole ranking.
func (h *Handler) getProviderSnapshots(ctx context.Context, ids []string) ([]models.ProviderProfile, error) {
	providers := make([]models.ProviderProfile, 0, len(ids))
	var misses []string

	for _, id := range ids {
		val, err := h.redis.Get(ctx, "provider:snapshot:"+id).Result()
		if err != nil {
			misses = append(misses, id)
			continue
		}
		var profile models.ProviderProfile
		if err := json.Unmarshal([]byte(val), &profile); err != nil {
			misses = append(misses, id)
			continue
		}
		providers = append(providers, profile)
	}

	if len(misses) == 0 {
		return providers, nil
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT provider_id, profile, average_rating, review_count, last_active_at
		FROM provider_snapshots WHERE provider_id = ANY($1)`, pq.Array(misses))
	if err != nil {
		return nil, commonerrors.NewSnapshotFetchFailedError(fmt.Sprintf("fetch provider snapshots: %v", err))
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id          string
			profileJSON []byte
			rating      float64
			reviewCount int
			lastActive  sql.NullTime
		)
		if err := rows.Scan(&id, &profileJSON, &rating, &reviewCount, &lastActive); err != nil {
			return nil, err
		}

		var profile models.ProviderProfile
		if err := json.Unmarshal(profileJSON, &profile); err != nil {
			h.logger.Warn("skipping undecodable snapshot", map[string]interface{}{
				"providerId": id,
				"error":      err,
			})
			continue
		}
		profile.ID = id
		profile.AverageRating = rating
		profile.ReviewCount = reviewCount
		if lastActive.Valid {
			t := lastActive.Time
			profile.LastActiveAt = &t
		}
		providers = append(providers, profile)

		data, _ := json.Marshal(profile)
		h.redis.Set(ctx, "provider:snapshot:"+id, data, h.config.CacheTTL)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return providers, nil
}

// classifyError maps execute errors onto the standard error codes so the
// retry policy in the error handler applies.
func classifyError(err error) *commonerrors.StandardError {
	if stdErr, ok := err.(*commonerrors.StandardError); ok {
		return stdErr
	}
	if errors.Is(err, ErrNoCandidates) {
		return commonerrors.New(commonerrors.ErrCodeRankingFailed, "no candidates to rank", err.Error(), false)
	}
	return commonerrors.New(commonerrors.ErrCodeRankingFailed, "ranking failed", err.Error(), false)
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
