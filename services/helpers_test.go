package services

import (
	"testing"
	"time"

	"tasktrail/tasktrail/database"
	"tasktrail/tasktrail/models"
)

// recordingNotifier captures notifications instead of publishing them
type recordingNotifier struct {
	assigned      []models.Task
	statusChanged []models.Task
}

func (r *recordingNotifier) NotifyTaskAssigned(task models.Task) {
	r.assigned = append(r.assigned, task)
}

func (r *recordingNotifier) NotifyStatusChanged(task models.Task) {
	r.statusChanged = append(r.statusChanged, task)
}

// swapNotifier installs a recorder for the duration of a test
func swapNotifier(t *testing.T) *recordingNotifier {
	t.Helper()
	recorder := &recordingNotifier{}
	previous := NotificationServiceInstance
	NotificationServiceInstance = recorder
	t.Cleanup(func() { NotificationServiceInstance = previous })
	return recorder
}

func seedUser(t *testing.T, db *database.Database, email string, role models.UserRole) models.User {
	t.Helper()
	user := models.User{
		Email:        email,
		PasswordHash: "$2a$10$seeded.hash.not.used.in.these.tests",
		Role:         role,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return user
}

func seedTask(t *testing.T, db *database.Database, title string, assigner, assignee models.User, status models.TaskStatus, createdAt time.Time) models.Task {
	t.Helper()
	task := models.Task{
		Title:        title,
		AssignedByID: assigner.ID,
		AssignedToID: assignee.ID,
		StartDate:    createdAt,
		EndDate:      createdAt.AddDate(0, 0, 7),
		Status:       status,
		Priority:     models.PriorityMedium,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	if err := db.DB.Create(&task).Error; err != nil {
		t.Fatalf("failed to seed task %s: %v", title, err)
	}
	return task
}

func seedSubTask(t *testing.T, db *database.Database, task models.Task, title string, status models.TaskStatus) models.SubTask {
	t.Helper()
	subTask := models.SubTask{
		TaskID: task.ID,
		Title:  title,
		Status: status,
	}
	if err := db.DB.Create(&subTask).Error; err != nil {
		t.Fatalf("failed to seed sub-task %s: %v", title, err)
	}
	return subTask
}
