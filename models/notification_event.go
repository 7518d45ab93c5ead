package models

import "encoding/json"

// NotificationEvent is the payload published to the notification topic and
// handed to the mail consumer
type NotificationEvent struct {
	UserID    string `json:"user_id"`
	Recipient string `json:"recipient"`
	EventType string `json:"event_type"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (e *NotificationEvent) FromJSON(data []byte) error {
	return json.Unmarshal(data, e)
}

func (e NotificationEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
