// internal/workers/matching/build-match-response/handler_test.go
package buildmatchresponse

import (
	"context"
	"testing"
	"time"

	"carematch-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return &Config{
		AppVersion: "1.0.0-test",
		Timeout:    10 * time.Second,
	}
}

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(createTestConfig(), logger.NewTestLogger(t))
}

func validMatchData() map[string]interface{} {
	return map[string]interface{}{
		"providerId": "provider-1",
		"match": map[string]interface{}{
			"score":              87,
			"isEligible":         true,
			"eliminationReasons": []interface{}{},
		},
	}
}

func TestHandler_Execute_MatchResultEnvelope(t *testing.T) {
	handler := createTestHandler(t)

	input := &Input{
		ResponseType: TypeMatchResult,
		RequestID:    "req-1",
		Data:         validMatchData(),
	}

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "req-1", output.Response.RequestID)
	assert.Equal(t, "success", output.Response.Status)
	assert.Equal(t, "1.0.0-test", output.Response.Metadata.Version)
	assert.NotEmpty(t, output.Response.Metadata.Timestamp)

	ts, err := time.Parse(time.RFC3339, output.Response.Metadata.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), ts, time.Minute)
}

func TestHandler_Execute_ShortlistEnvelope(t *testing.T) {
	handler := createTestHandler(t)

	input := &Input{
		ResponseType: TypeShortlist,
		RequestID:    "req-2",
		Data: map[string]interface{}{
			"rankedMatches": []interface{}{
				map[string]interface{}{"providerId": "provider-1", "score": 92},
				map[string]interface{}{"providerId": "provider-2", "score": 85},
			},
			"candidatesEvaluated": 7,
		},
	}

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "success", output.Response.Status)
}

func TestHandler_Execute_UnknownResponseType(t *testing.T) {
	handler := createTestHandler(t)

	input := &Input{
		ResponseType: "invoice",
		RequestID:    "req-3",
		Data:         validMatchData(),
	}

	output, err := handler.Execute(context.Background(), input)

	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrUnknownResponseType)
}

func TestHandler_Execute_SchemaViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(data map[string]interface{})
	}{
		{
			name: "missing providerId",
			mutate: func(data map[string]interface{}) {
				delete(data, "providerId")
			},
		},
		{
			name: "score above maximum",
			mutate: func(data map[string]interface{}) {
				data["match"].(map[string]interface{})["score"] = 250
			},
		},
		{
			name: "score not an integer",
			mutate: func(data map[string]interface{}) {
				data["match"].(map[string]interface{})["score"] = "high"
			},
		},
		{
			name: "missing eligibility flag",
			mutate: func(data map[string]interface{}) {
				delete(data["match"].(map[string]interface{}), "isEligible")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t)

			data := validMatchData()
			tt.mutate(data)

			output, err := handler.Execute(context.Background(), &Input{
				ResponseType: TypeMatchResult,
				RequestID:    "req-4",
				Data:         data,
			})

			assert.Nil(t, output)
			assert.ErrorIs(t, err, ErrSchemaInvalid)
		})
	}
}

func TestHandler_Execute_ShortlistRejectsMalformedEntries(t *testing.T) {
	handler := createTestHandler(t)

	input := &Input{
		ResponseType: TypeShortlist,
		RequestID:    "req-5",
		Data: map[string]interface{}{
			"rankedMatches": []interface{}{
				map[string]interface{}{"score": 92}, // providerId missing
			},
		},
	}

	output, err := handler.Execute(context.Background(), input)

	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrSchemaInvalid)
}
