package services

import (
	"errors"
	"strings"

	"tasktrail/tasktrail/broker"
	"tasktrail/tasktrail/database"
	"tasktrail/tasktrail/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateSubTaskInput carries the sub-task creation form fields
type CreateSubTaskInput struct {
	Title         string `json:"title" binding:"required"`
	Status        string `json:"status"`
	AssigneeEmail string `json:"assignee_email"`
}

// UpdateSubTaskInput carries a partial sub-task update; nil fields are untouched
type UpdateSubTaskInput struct {
	Title         *string `json:"title"`
	Status        *string `json:"status"`
	AssigneeEmail *string `json:"assignee_email"`
}

type SubTaskServiceInterface interface {
	CreateSubTask(db *database.Database, taskID string, input CreateSubTaskInput, actorID uuid.UUID) (models.SubTask, error)
	GetSubTaskById(db *database.Database, id string) (models.SubTask, error)
	ListSubTasks(db *database.Database, taskID string) ([]models.SubTask, error)
	UpdateSubTask(db *database.Database, id string, input UpdateSubTaskInput, actorID uuid.UUID) (models.SubTask, error)
}

type SubTaskService struct{}

// CreateSubTask adds a sub-task under an existing parent and immediately
// re-derives the parent status: a parent with nothing left outstanding is
// completed, a completed parent gaining outstanding work drops back to
// in-progress.
func (s *SubTaskService) CreateSubTask(db *database.Database, taskID string, input CreateSubTaskInput, actorID uuid.UUID) (models.SubTask, error) {
	if strings.TrimSpace(input.Title) == "" {
		return models.SubTask{}, ErrInvalidInput
	}

	status := models.StatusPending
	if input.Status != "" {
		parsed, err := models.TaskStatusFromString(input.Status)
		if err != nil {
			return models.SubTask{}, ErrInvalidInput
		}
		status = parsed
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.SubTask{}, tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.SubTask{}, ErrTaskNotFound
		}
		return models.SubTask{}, err
	}

	subTask := models.SubTask{
		TaskID: task.ID,
		Title:  strings.TrimSpace(input.Title),
		Status: status,
	}

	if input.AssigneeEmail != "" {
		var assignee models.User
		if err := tx.Where("email = ?", NormalizeEmail(input.AssigneeEmail)).First(&assignee).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.SubTask{}, ErrAssigneeNotFound
			}
			return models.SubTask{}, err
		}
		subTask.AssignedToID = &assignee.ID
	}

	if err := tx.Create(&subTask).Error; err != nil {
		tx.Rollback()
		return models.SubTask{}, err
	}

	if err := s.aggregateAfterChange(tx, &task); err != nil {
		tx.Rollback()
		return models.SubTask{}, err
	}

	event, err := models.NewEvent(
		string(broker.SubTaskCreated),
		"subtask",
		actorID.String(),
		map[string]interface{}{
			"subtask_id": subTask.ID.String(),
			"task_id":    task.ID.String(),
			"title":      subTask.Title,
			"status":     string(subTask.Status),
		},
	)
	if err != nil {
		tx.Rollback()
		return models.SubTask{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.SubTask{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.SubTask{}, err
	}

	return subTask, nil
}

func (s *SubTaskService) GetSubTaskById(db *database.Database, id string) (models.SubTask, error) {
	var subTask models.SubTask
	if err := db.DB.Preload("AssignedTo").First(&subTask, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.SubTask{}, ErrSubTaskNotFound
		}
		return models.SubTask{}, err
	}
	return subTask, nil
}

// ListSubTasks returns the sub-tasks of a parent after re-deriving statuses:
// a completed parent completes its own sub-tasks, otherwise the parent is
// completed when all sub-tasks are and in-progress when any is not. A parent
// with no sub-tasks is left untouched.
func (s *SubTaskService) ListSubTasks(db *database.Database, taskID string) ([]models.SubTask, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	var subTasks []models.SubTask
	if err := tx.Where("task_id = ?", task.ID).Order("created_at ASC").Find(&subTasks).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if len(subTasks) > 0 {
		if task.Status == models.StatusCompleted {
			// Terminal parent status cascades down, scoped to this parent only
			if err := tx.Model(&models.SubTask{}).
				Where("task_id = ? AND status <> ?", task.ID, models.StatusCompleted).
				Update("status", models.StatusCompleted).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
			for i := range subTasks {
				subTasks[i].Status = models.StatusCompleted
			}
		} else {
			outstanding := 0
			for _, st := range subTasks {
				if st.Outstanding() {
					outstanding++
				}
			}

			derived := models.StatusCompleted
			if outstanding > 0 {
				derived = models.StatusInProgress
			}

			if task.Status != derived {
				if err := tx.Model(&task).Update("status", derived).Error; err != nil {
					tx.Rollback()
					return nil, err
				}
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	return subTasks, nil
}

// UpdateSubTask edits a sub-task and re-derives the parent status
func (s *SubTaskService) UpdateSubTask(db *database.Database, id string, input UpdateSubTaskInput, actorID uuid.UUID) (models.SubTask, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.SubTask{}, tx.Error
	}

	var subTask models.SubTask
	if err := tx.First(&subTask, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.SubTask{}, ErrSubTaskNotFound
		}
		return models.SubTask{}, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			tx.Rollback()
			return models.SubTask{}, ErrInvalidInput
		}
		subTask.Title = strings.TrimSpace(*input.Title)
	}
	if input.Status != nil {
		status, err := models.TaskStatusFromString(*input.Status)
		if err != nil {
			tx.Rollback()
			return models.SubTask{}, ErrInvalidInput
		}
		subTask.Status = status
	}
	if input.AssigneeEmail != nil {
		if *input.AssigneeEmail == "" {
			subTask.AssignedToID = nil
		} else {
			var assignee models.User
			if err := tx.Where("email = ?", NormalizeEmail(*input.AssigneeEmail)).First(&assignee).Error; err != nil {
				tx.Rollback()
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.SubTask{}, ErrAssigneeNotFound
				}
				return models.SubTask{}, err
			}
			subTask.AssignedToID = &assignee.ID
		}
	}

	if err := tx.Save(&subTask).Error; err != nil {
		tx.Rollback()
		return models.SubTask{}, err
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", subTask.TaskID).Error; err != nil {
		tx.Rollback()
		return models.SubTask{}, err
	}

	if err := s.aggregateAfterChange(tx, &task); err != nil {
		tx.Rollback()
		return models.SubTask{}, err
	}

	event, err := models.NewEvent(
		string(broker.SubTaskUpdated),
		"subtask",
		actorID.String(),
		map[string]interface{}{
			"subtask_id": subTask.ID.String(),
			"task_id":    subTask.TaskID.String(),
			"status":     string(subTask.Status),
		},
	)
	if err != nil {
		tx.Rollback()
		return models.SubTask{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.SubTask{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.SubTask{}, err
	}

	return subTask, nil
}

// aggregateAfterChange persists the parent status implied by its sub-tasks
// right after one of them changed: nothing outstanding means completed, and
// a completed parent with outstanding work reverts to in-progress.
func (s *SubTaskService) aggregateAfterChange(tx *gorm.DB, task *models.Task) error {
	var outstanding int64
	err := tx.Model(&models.SubTask{}).
		Where("task_id = ? AND status IN ?", task.ID,
			[]models.TaskStatus{models.StatusPending, models.StatusInProgress}).
		Count(&outstanding).Error
	if err != nil {
		return err
	}

	derived := task.Status
	if outstanding == 0 {
		derived = models.StatusCompleted
	} else if task.Status == models.StatusCompleted {
		derived = models.StatusInProgress
	}

	if derived == task.Status {
		return nil
	}

	task.Status = derived
	return tx.Model(task).Update("status", derived).Error
}

var SubTaskServiceInstance SubTaskServiceInterface = &SubTaskService{}
