package services

import (
	"errors"
	"strings"
	"time"

	"tasktrail/tasktrail/broker"
	"tasktrail/tasktrail/database"
	"tasktrail/tasktrail/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateTaskInput carries the task creation form fields
type CreateTaskInput struct {
	Title         string `json:"title" binding:"required"`
	Priority      string `json:"priority" binding:"required"`
	Status        string `json:"status" binding:"required"`
	EndDate       string `json:"end_date" binding:"required"`
	AssigneeEmail string `json:"assignee_email" binding:"required"`
	Description   string `json:"description"`
}

// UpdateTaskInput carries a partial task update; nil fields are untouched
type UpdateTaskInput struct {
	Title       *string `json:"title"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	EndDate     *string `json:"end_date"`
	Description *string `json:"description"`
}

// TaskSummary is the dashboard roll-up of the scoped task set
type TaskSummary struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
}

type TaskServiceInterface interface {
	CreateTask(db *database.Database, input CreateTaskInput, assignerID uuid.UUID) (models.Task, error)
	GetTaskById(db *database.Database, id string) (models.Task, error)
	GetTasksForUser(db *database.Database, userID uuid.UUID, role models.UserRole) ([]models.Task, error)
	GetTaskSummary(db *database.Database, userID uuid.UUID, role models.UserRole) (TaskSummary, error)
	SearchTasks(db *database.Database, query string) ([]models.Task, error)
	UpdateTask(db *database.Database, id string, input UpdateTaskInput, actorID uuid.UUID, actorRole models.UserRole) (models.Task, error)
	DeleteTask(db *database.Database, id string) error
}

type TaskService struct{}

const dateLayout = "2006-01-02"

// CreateTask validates the form, resolves the assignee by email and persists
// the task. The assignment notification goes out only after the commit.
func (s *TaskService) CreateTask(db *database.Database, input CreateTaskInput, assignerID uuid.UUID) (models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return models.Task{}, ErrInvalidInput
	}

	priority, err := models.TaskPriorityFromString(input.Priority)
	if err != nil {
		return models.Task{}, ErrInvalidInput
	}

	status, err := models.TaskStatusFromString(input.Status)
	if err != nil {
		return models.Task{}, ErrInvalidInput
	}

	endDate, err := time.Parse(dateLayout, input.EndDate)
	if err != nil {
		return models.Task{}, ErrInvalidInput
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	var assignee models.User
	if err := tx.Where("email = ?", NormalizeEmail(input.AssigneeEmail)).First(&assignee).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrAssigneeNotFound
		}
		return models.Task{}, err
	}

	task := models.Task{
		Title:        strings.TrimSpace(input.Title),
		AssignedByID: assignerID,
		AssignedToID: assignee.ID,
		EndDate:      endDate,
		Status:       status,
		Priority:     priority,
		Description:  input.Description,
	}

	if err := tx.Create(&task).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	event, err := models.NewEvent(
		string(broker.TaskCreated),
		"task",
		assignerID.String(),
		map[string]interface{}{
			"task_id":        task.ID.String(),
			"assigned_to_id": task.AssignedToID.String(),
			"title":          task.Title,
			"status":         string(task.Status),
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	// Reload with participants so the notification has the assigner identity
	created, err := s.GetTaskById(db, task.ID.String())
	if err != nil {
		return task, nil
	}

	NotificationServiceInstance.NotifyTaskAssigned(created)
	s.publishTaskEvent(broker.TaskCreated, created)

	return created, nil
}

func (s *TaskService) GetTaskById(db *database.Database, id string) (models.Task, error) {
	var task models.Task
	err := db.DB.Preload("AssignedBy").Preload("AssignedTo").First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	return task, nil
}

// GetTasksForUser returns every task for admins, and only tasks the user
// assigned or received otherwise. Newest first.
func (s *TaskService) GetTasksForUser(db *database.Database, userID uuid.UUID, role models.UserRole) ([]models.Task, error) {
	var tasks []models.Task
	query := db.DB.Preload("AssignedBy").Preload("AssignedTo")

	if role != models.AdminRole {
		query = query.Where("assigned_by_id = ? OR assigned_to_id = ?", userID, userID)
	}

	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskService) GetTaskSummary(db *database.Database, userID uuid.UUID, role models.UserRole) (TaskSummary, error) {
	var summary TaskSummary

	scoped := func() *gorm.DB {
		query := db.DB.Model(&models.Task{})
		if role != models.AdminRole {
			query = query.Where("assigned_by_id = ? OR assigned_to_id = ?", userID, userID)
		}
		return query
	}

	if err := scoped().Count(&summary.Total).Error; err != nil {
		return TaskSummary{}, err
	}
	if err := scoped().Where("status = ?", models.StatusPending).Count(&summary.Pending).Error; err != nil {
		return TaskSummary{}, err
	}
	if err := scoped().Where("status = ?", models.StatusInProgress).Count(&summary.InProgress).Error; err != nil {
		return TaskSummary{}, err
	}
	if err := scoped().Where("status = ?", models.StatusCompleted).Count(&summary.Completed).Error; err != nil {
		return TaskSummary{}, err
	}

	return summary, nil
}

// SearchTasks matches a case-insensitive substring against title, end date
// text and status. A blank query returns everything; input that cannot match
// anything still yields a result set, never an error.
func (s *TaskService) SearchTasks(db *database.Database, query string) ([]models.Task, error) {
	var tasks []models.Task
	q := db.DB.Preload("AssignedBy").Preload("AssignedTo")

	trimmed := strings.TrimSpace(query)
	if trimmed != "" {
		pattern := "%" + strings.ToLower(trimmed) + "%"
		q = q.Where(
			"LOWER(title) LIKE ? OR LOWER(CAST(end_date AS TEXT)) LIKE ? OR LOWER(status) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTask applies a partial update. Only the assigner, the assignee or an
// admin may touch the task; a status change notifies the assigner.
func (s *TaskService) UpdateTask(db *database.Database, id string, input UpdateTaskInput, actorID uuid.UUID, actorRole models.UserRole) (models.Task, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}

	if actorRole != models.AdminRole && task.AssignedByID != actorID && task.AssignedToID != actorID {
		tx.Rollback()
		return models.Task{}, ErrForbidden
	}

	previousStatus := task.Status

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			tx.Rollback()
			return models.Task{}, ErrInvalidInput
		}
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Priority != nil {
		priority, err := models.TaskPriorityFromString(*input.Priority)
		if err != nil {
			tx.Rollback()
			return models.Task{}, ErrInvalidInput
		}
		task.Priority = priority
	}
	if input.Status != nil {
		status, err := models.TaskStatusFromString(*input.Status)
		if err != nil {
			tx.Rollback()
			return models.Task{}, ErrInvalidInput
		}
		task.Status = status
	}
	if input.EndDate != nil {
		endDate, err := time.Parse(dateLayout, *input.EndDate)
		if err != nil {
			tx.Rollback()
			return models.Task{}, ErrInvalidInput
		}
		task.EndDate = endDate
	}
	if input.Description != nil {
		task.Description = *input.Description
	}

	if err := tx.Save(&task).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	event, err := models.NewEvent(
		string(broker.TaskUpdated),
		"task",
		actorID.String(),
		map[string]interface{}{
			"task_id": task.ID.String(),
			"title":   task.Title,
			"status":  string(task.Status),
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	updated, err := s.GetTaskById(db, id)
	if err != nil {
		return task, nil
	}

	if updated.Status != previousStatus {
		NotificationServiceInstance.NotifyStatusChanged(updated)
	}
	s.publishTaskEvent(broker.TaskUpdated, updated)

	return updated, nil
}

// DeleteTask removes the task, its comments and its sub-tasks in one
// transaction. A missing id is an explicit not-found.
func (s *TaskService) DeleteTask(db *database.Database, id string) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	if err := tx.Where("task_id = ?", task.ID).Delete(&models.Comment{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Where("task_id = ?", task.ID).Delete(&models.SubTask{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&task).Error; err != nil {
		tx.Rollback()
		return err
	}

	event, err := models.NewEvent(
		string(broker.TaskDeleted),
		"task",
		task.AssignedByID.String(),
		map[string]interface{}{
			"task_id": task.ID.String(),
		},
	)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	s.publishTaskEvent(broker.TaskDeleted, task)

	return nil
}

func (s *TaskService) publishTaskEvent(eventType broker.EventType, task models.Task) {
	payload, err := task.ToJSON()
	if err != nil {
		return
	}
	broker.DefaultProducer.PublishMessage(broker.TaskSubject, string(eventType), string(payload))
}

var TaskServiceInstance TaskServiceInterface = &TaskService{}
