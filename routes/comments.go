package routes

import (
	"errors"
	"net/http"

	"tasktrail/tasktrail/database"
	"tasktrail/tasktrail/services"

	"github.com/gin-gonic/gin"
)

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

func RegisterCommentRoutes(group *gin.RouterGroup, db *database.Database, commentService services.CommentServiceInterface) {
	group.GET("/tasks/:id/comments", func(c *gin.Context) { ListComments(c, db, commentService) })
	group.POST("/tasks/:id/comments", func(c *gin.Context) { AddComment(c, db, commentService) })
}

func AddComment(c *gin.Context, db *database.Database, commentService services.CommentServiceInterface) {
	userID, _, ok := currentIdentity(c)
	if !ok {
		return
	}

	var request commentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := commentService.AddComment(db, c.Param("id"), userID, request.Text)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, services.ErrCommentEmpty):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Comment text is required"})
		case errors.Is(err, services.ErrCommentTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Comment text exceeds 400 characters"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		}
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListComments returns the comments of a task, newest first
func ListComments(c *gin.Context, db *database.Database, commentService services.CommentServiceInterface) {
	comments, err := commentService.ListComments(db, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	c.JSON(http.StatusOK, comments)
}
