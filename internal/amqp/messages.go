package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ReportJobMessage asks the worker to render an owner's report for a filter
// selection and deliver it to the share targets. The message carries only
// the selection; the worker fetches the transactions itself so the payload
// stays small and the data is fresh at delivery time.
type ReportJobMessage struct {
	JobID       uuid.UUID `json:"job_id"`
	OwnerKey    string    `json:"owner_key"`
	UserName    string    `json:"user_name"`
	FilterMode  string    `json:"filter_mode"`
	RefMonth    string    `json:"ref_month,omitempty"`    // DateLayout, specific_month only
	CustomStart string    `json:"custom_start,omitempty"` // DateLayout, custom only
	CustomEnd   string    `json:"custom_end,omitempty"`   // DateLayout, custom only
	NotifyEmail string    `json:"notify_email,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewReportJobMessage creates a report job with a fresh job ID.
func NewReportJobMessage(ownerKey, userName, filterMode string) *ReportJobMessage {
	return &ReportJobMessage{
		JobID:      uuid.New(),
		OwnerKey:   ownerKey,
		UserName:   userName,
		FilterMode: filterMode,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportJobMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportJobMessageFromJSON creates a message from JSON bytes
func ReportJobMessageFromJSON(data []byte) (*ReportJobMessage, error) {
	var msg ReportJobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
