package models

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskStatus is the closed set of lifecycle states for tasks and sub-tasks
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// TaskStatusFromString converts a string to a TaskStatus
func TaskStatusFromString(statusStr string) (TaskStatus, error) {
	switch statusStr {
	case "pending":
		return StatusPending, nil
	case "in-progress":
		return StatusInProgress, nil
	case "completed":
		return StatusCompleted, nil
	default:
		return "", errors.New("invalid task status")
	}
}

// TaskPriority is the closed set of priority levels
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// TaskPriorityFromString converts a string to a TaskPriority
func TaskPriorityFromString(priorityStr string) (TaskPriority, error) {
	switch priorityStr {
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	default:
		return "", errors.New("invalid task priority")
	}
}

type Task struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string       `gorm:"not null" json:"title"`
	AssignedByID uuid.UUID    `gorm:"type:uuid;not null" json:"assigned_by_id"`
	AssignedBy   *User        `gorm:"foreignKey:AssignedByID" json:"assigned_by,omitempty"`
	AssignedToID uuid.UUID    `gorm:"type:uuid;not null" json:"assigned_to_id"`
	AssignedTo   *User        `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	StartDate    time.Time    `gorm:"not null" json:"start_date"`
	EndDate      time.Time    `gorm:"not null" json:"end_date"`
	Status       TaskStatus   `gorm:"type:varchar(50);not null" json:"status"`
	Priority     TaskPriority `gorm:"type:varchar(50);not null" json:"priority"`
	Description  string       `json:"description"`
	SubTasks     []SubTask    `gorm:"foreignKey:TaskID" json:"sub_tasks,omitempty"`
	Comments     []Comment    `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
	CreatedAt    time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null" json:"updated_at"`
}

// BeforeCreate assigns an ID and pins the immutable start date
func (t *Task) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.StartDate.IsZero() {
		t.StartDate = time.Now().UTC()
	}
	return nil
}

func (t *Task) FromJSON(data []byte) error {
	return json.Unmarshal(data, t)
}

func (t *Task) ToJSON() ([]byte, error) {
	return json.Marshal(t)
}
