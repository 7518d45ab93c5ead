package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is an append-only audit record written alongside every mutation
type Event struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Event     string          `gorm:"not null" json:"event"`
	Entity    string          `gorm:"not null" json:"entity"`
	ActorID   string          `gorm:"not null" json:"actor_id"`
	Timestamp time.Time       `gorm:"not null" json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

func NewEvent(event, entity, actorID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Event:     event,
		Entity:    entity,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Data:      dataBytes,
	}, nil
}
