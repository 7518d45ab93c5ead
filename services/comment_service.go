package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"tasktrail/tasktrail/broker"
	"tasktrail/tasktrail/database"
	"tasktrail/tasktrail/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentServiceInterface interface {
	AddComment(db *database.Database, taskID string, authorID uuid.UUID, text string) (models.Comment, error)
	ListComments(db *database.Database, taskID string) ([]models.Comment, error)
}

type CommentService struct{}

// AddComment persists a comment on an existing task. Text must be non-empty
// and at most 400 characters; comments are immutable once created.
func (s *CommentService) AddComment(db *database.Database, taskID string, authorID uuid.UUID, text string) (models.Comment, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.Comment{}, ErrCommentEmpty
	}
	if utf8.RuneCountInString(trimmed) > models.MaxCommentLength {
		return models.Comment{}, ErrCommentTooLong
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Comment{}, tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Comment{}, ErrTaskNotFound
		}
		return models.Comment{}, err
	}

	comment := models.Comment{
		TaskID: task.ID,
		UserID: authorID,
		Text:   trimmed,
	}

	if err := tx.Create(&comment).Error; err != nil {
		tx.Rollback()
		return models.Comment{}, err
	}

	event, err := models.NewEvent(
		string(broker.CommentCreated),
		"comment",
		authorID.String(),
		map[string]interface{}{
			"comment_id": comment.ID.String(),
			"task_id":    task.ID.String(),
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Comment{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Comment{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Comment{}, err
	}

	return comment, nil
}

// ListComments returns the comments of a task, newest first. The result is
// always a sequence, whatever its length.
func (s *CommentService) ListComments(db *database.Database, taskID string) ([]models.Comment, error) {
	var task models.Task
	if err := db.DB.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	var comments []models.Comment
	err := db.DB.Preload("User").
		Where("task_id = ?", task.ID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

var CommentServiceInstance CommentServiceInterface = &CommentService{}
