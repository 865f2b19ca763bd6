// internal/workers/matching/build-match-response/models.go
package buildmatchresponse

type Input struct {
	ResponseType string                 `json:"responseType"`
	RequestID    string                 `json:"requestId"`
	Data         map[string]interface{} `json:"data"`
}

type Output struct {
	Response ResponsePayload `json:"response"`
}

type ResponsePayload struct {
	RequestID string                 `json:"requestId"`
	Status    string                 `json:"status"` // "success" or "error"
	Data      map[string]interface{} `json:"data"`
	Metadata  ResponseMetadata       `json:"metadata"`
}

type ResponseMetadata struct {
	Timestamp string `json:"timestamp"` // ISO 8601
	Version   string `json:"version"`
}

// Response types
const (
	TypeMatchResult = "match_result"
	TypeShortlist   = "shortlist"
)
