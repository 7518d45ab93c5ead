package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationEventToJSON(t *testing.T) {
	event := NotificationEvent{
		UserID:    "user123",
		Recipient: "assignee@example.com",
		EventType: "task.assigned",
		Subject:   "Task Assigned",
		Message:   "Task: write report",
		Timestamp: "2023-01-01T00:00:00Z",
	}

	data, err := event.ToJSON()
	assert.NoError(t, err)

	var result NotificationEvent
	err = json.Unmarshal(data, &result)
	assert.NoError(t, err)
	assert.Equal(t, event, result)
}

func TestNotificationEventFromJSON(t *testing.T) {
	data := `{
		"user_id": "user123",
		"recipient": "assigner@example.com",
		"event_type": "task.status_changed",
		"subject": "Task Status Update",
		"message": "Current Status: completed",
		"timestamp": "2023-01-01T00:00:00Z"
	}`

	var event NotificationEvent
	err := event.FromJSON([]byte(data))
	assert.NoError(t, err)
	assert.Equal(t, "user123", event.UserID)
	assert.Equal(t, "assigner@example.com", event.Recipient)
	assert.Equal(t, "task.status_changed", event.EventType)
	assert.Equal(t, "Current Status: completed", event.Message)
}
