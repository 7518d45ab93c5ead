package routes

import (
	"errors"
	"net/http"

	"tasktrail/tasktrail/database"
	"tasktrail/tasktrail/services"

	"github.com/gin-gonic/gin"
)

func RegisterSubTaskRoutes(group *gin.RouterGroup, db *database.Database, subTaskService services.SubTaskServiceInterface) {
	group.GET("/tasks/:id/subtasks", func(c *gin.Context) { ListSubTasks(c, db, subTaskService) })
	group.POST("/tasks/:id/subtasks", func(c *gin.Context) { CreateSubTask(c, db, subTaskService) })
	group.PUT("/subtasks/:id", func(c *gin.Context) { UpdateSubTask(c, db, subTaskService) })
}

func CreateSubTask(c *gin.Context, db *database.Database, subTaskService services.SubTaskServiceInterface) {
	userID, _, ok := currentIdentity(c)
	if !ok {
		return
	}

	var input services.CreateSubTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subTask, err := subTaskService.CreateSubTask(db, c.Param("id"), input, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, services.ErrAssigneeNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No user found with email " + input.AssigneeEmail})
		case errors.Is(err, services.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sub-task data"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		}
		return
	}
	c.JSON(http.StatusCreated, subTask)
}

// ListSubTasks returns a parent's sub-tasks; the service re-derives the
// parent status as part of the listing.
func ListSubTasks(c *gin.Context, db *database.Database, subTaskService services.SubTaskServiceInterface) {
	subTasks, err := subTaskService.ListSubTasks(db, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	c.JSON(http.StatusOK, subTasks)
}

func UpdateSubTask(c *gin.Context, db *database.Database, subTaskService services.SubTaskServiceInterface) {
	userID, _, ok := currentIdentity(c)
	if !ok {
		return
	}

	var input services.UpdateSubTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subTask, err := subTaskService.UpdateSubTask(db, c.Param("id"), input, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSubTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Sub-task not found"})
		case errors.Is(err, services.ErrAssigneeNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Assignee not found"})
		case errors.Is(err, services.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sub-task data"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		}
		return
	}
	c.JSON(http.StatusOK, subTask)
}
