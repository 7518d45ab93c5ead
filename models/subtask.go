package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubTask struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"task_id"`
	Title        string     `gorm:"not null" json:"title"`
	Status       TaskStatus `gorm:"type:varchar(50);not null;default:'pending'" json:"status"`
	AssignedToID *uuid.UUID `gorm:"type:uuid" json:"assigned_to_id,omitempty"`
	AssignedTo   *User      `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

func (st *SubTask) BeforeCreate(tx *gorm.DB) (err error) {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	return nil
}

// Outstanding reports whether the sub-task still counts against parent completion
func (st *SubTask) Outstanding() bool {
	return st.Status == StatusPending || st.Status == StatusInProgress
}
