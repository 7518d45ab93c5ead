package services

import (
	"fmt"
	"log"
	"time"

	"tasktrail/tasktrail/broker"
	"tasktrail/tasktrail/models"
)

type NotificationServiceInterface interface {
	NotifyTaskAssigned(task models.Task)
	NotifyStatusChanged(task models.Task)
}

// NotificationService formats task notifications and hands them to the
// broker. Delivery happens out of band; nothing here ever fails the
// mutation that triggered it.
type NotificationService struct{}

func (s *NotificationService) NotifyTaskAssigned(task models.Task) {
	if task.AssignedTo == nil {
		log.Printf("Task %s has no loaded assignee, skipping assignment notification", task.ID)
		return
	}

	s.publish(task, broker.TaskAssigned, "Task Assigned",
		task.AssignedTo.ID.String(), task.AssignedTo.Email)
}

func (s *NotificationService) NotifyStatusChanged(task models.Task) {
	if task.AssignedBy == nil {
		log.Printf("Task %s has no loaded assigner, skipping status notification", task.ID)
		return
	}

	s.publish(task, broker.TaskStatusChanged, "Task Status Update",
		task.AssignedBy.ID.String(), task.AssignedBy.Email)
}

func (s *NotificationService) publish(task models.Task, eventType broker.EventType, subject, userID, recipient string) {
	event := models.NotificationEvent{
		UserID:    userID,
		Recipient: recipient,
		EventType: string(eventType),
		Subject:   subject,
		Message:   FormatTaskMessage(task),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	eventJSON, err := event.ToJSON()
	if err != nil {
		log.Printf("Failed to marshal notification event for task %s: %v", task.ID, err)
		return
	}

	if err := broker.DefaultProducer.PublishMessage(broker.NotificationSubject, userID, string(eventJSON)); err != nil {
		log.Printf("Failed to publish notification for task %s: %v", task.ID, err)
	}
}

// FormatTaskMessage renders the plain-text notification body
func FormatTaskMessage(task models.Task) string {
	assignedBy := ""
	if task.AssignedBy != nil {
		assignedBy = task.AssignedBy.Email
	}

	return fmt.Sprintf(`Task: %s,
Description: %s,
Assigned By: %s,
Priority: %s,
Start Date: %s,
End Date: %s,
Current Status: %s`,
		task.Title,
		task.Description,
		assignedBy,
		task.Priority,
		task.StartDate.Format("2006-01-02"),
		task.EndDate.Format("2006-01-02"),
		task.Status,
	)
}

var NotificationServiceInstance NotificationServiceInterface = &NotificationService{}
