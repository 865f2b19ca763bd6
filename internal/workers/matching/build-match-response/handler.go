// internal/workers/matching/build-match-response/handler.go
package buildmatchresponse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"carematch-workers/internal/common/logger"
	"carematch-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"
)

const TaskType = "build-match-response"

var (
	ErrUnknownResponseType = errors.New("UNKNOWN_RESPONSE_TYPE")
	ErrSchemaInvalid       = errors.New("RESPONSE_SCHEMA_INVALID")
)

type Handler struct {
	config  *Config
	logger  logger.Logger
	schemas map[string]map[string]interface{}
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
		schemas: responseSchemas(),
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
		errorCode := "RESPONSE_BUILD_ERROR"
		if errors.Is(err, ErrUnknownResponseType) {
			errorCode = "UNKNOWN_RESPONSE_TYPE"
		} else if errors.Is(err, ErrSchemaInvalid) {
			errorCode = "RESPONSE_SCHEMA_INVALID"
		}
		h.failJob(client, job, errorCode, err.Error())
		return err
	}

	h.completeJob(client, job, output)
	return nil
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	schema, ok := h.schemas[input.ResponseType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResponseType, input.ResponseType)
	}

	if err := h.validateData(schema, input.Data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}

	payload := ResponsePayload{
		RequestID: input.RequestID,
		Status:    "success",
		Data:      input.Data,
		Metadata: ResponseMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   h.config.AppVersion,
		},
	}

	return &Output{Response: payload}, nil
}

func (h *Handler) validateData(schemaMap, data map[string]interface{}) error {
	if len(schemaMap) == 0 {
		return nil
	}

	schemaLoader := gojsonschema.NewGoLoader(schemaMap)
	documentLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("data validation failed: %v", errs)
	}

	return nil
}

// responseSchemas holds the envelope contracts for the workflow outputs. The
// score bounds mirror what the engine guarantees, so a violation here means a
// producer upstream is broken.
func responseSchemas() map[string]map[string]interface{} {
	matchSchema := map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"providerId", "match"},
		"properties": map[string]interface{}{
			"providerId": map[string]interface{}{"type": "string", "minLength": 1},
			"match": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"score", "isEligible"},
				"properties": map[string]interface{}{
					"score": map[string]interface{}{
						"type":    "integer",
						"minimum": 0,
						"maximum": 100,
					},
					"isEligible": map[string]interface{}{"type": "boolean"},
					"eliminationReasons": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string"},
					},
				},
			},
		},
	}

	shortlistSchema := map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"rankedMatches"},
		"properties": map[string]interface{}{
			"rankedMatches": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"providerId", "score"},
					"properties": map[string]interface{}{
						"providerId": map[string]interface{}{"type": "string", "minLength": 1},
						"score": map[string]interface{}{
							"type":    "integer",
							"minimum": 0,
							"maximum": 100,
						},
					},
				},
			},
			"candidatesEvaluated": map[string]interface{}{
				"type":    "integer",
				"minimum": 0,
			},
		},
	}

	return map[string]map[string]interface{}{
		TypeMatchResult: matchSchema,
		TypeShortlist:   shortlistSchema,
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
