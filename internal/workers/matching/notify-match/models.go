// internal/workers/matching/notify-match/models.go
package notifymatch

type Input struct {
	RecipientID      string                 `json:"recipientId"`
	RecipientType    string                 `json:"recipientType"` // "household" or "provider"
	NotificationType string                 `json:"notificationType"`
	JobID            string                 `json:"jobId,omitempty"`
	ProviderName     string                 `json:"providerName,omitempty"`
	Score            int                    `json:"score,omitempty"`
	Priority         string                 `json:"priority,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Notification types
const (
	TypeMatchFound     = "match_found"
	TypeShortlistReady = "shortlist_ready"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

// Recipient types
const (
	RecipientTypeHousehold = "household"
	RecipientTypeProvider  = "provider"
)
