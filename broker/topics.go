package broker

// NATS subjects used by the application
const (
	UserSubject         = "user_events"
	TaskSubject         = "task_events"
	SubTaskSubject      = "subtask_events"
	CommentSubject      = "comment_events"
	NotificationSubject = "notification_events"
)

type EventType string

// Standardized event types in format: <resource>.<action>
const (
	UserCreated EventType = "user.created"

	TaskCreated EventType = "task.created"
	TaskUpdated EventType = "task.updated"
	TaskDeleted EventType = "task.deleted"

	SubTaskCreated EventType = "subtask.created"
	SubTaskUpdated EventType = "subtask.updated"

	CommentCreated EventType = "comment.created"

	TaskAssigned      EventType = "task.assigned"
	TaskStatusChanged EventType = "task.status_changed"
)
