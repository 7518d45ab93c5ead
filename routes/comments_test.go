package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"tasktrail/tasktrail/database"
	"tasktrail/tasktrail/models"
	"tasktrail/tasktrail/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type MockCommentService struct{}

func (m *MockCommentService) AddComment(db *database.Database, taskID string, authorID uuid.UUID, text string) (models.Comment, error) {
	if taskID != knownTaskID.String() {
		return models.Comment{}, services.ErrTaskNotFound
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.Comment{}, services.ErrCommentEmpty
	}
	if utf8.RuneCountInString(trimmed) > models.MaxCommentLength {
		return models.Comment{}, services.ErrCommentTooLong
	}
	return models.Comment{
		ID:        uuid.New(),
		TaskID:    knownTaskID,
		UserID:    authorID,
		Text:      trimmed,
		CreatedAt: time.Now(),
	}, nil
}

func (m *MockCommentService) ListComments(db *database.Database, taskID string) ([]models.Comment, error) {
	if taskID != knownTaskID.String() {
		return nil, services.ErrTaskNotFound
	}
	return []models.Comment{
		{ID: uuid.New(), TaskID: knownTaskID, UserID: testUserID, Text: "newer"},
		{ID: uuid.New(), TaskID: knownTaskID, UserID: testUserID, Text: "older"},
	}, nil
}

func setupCommentRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/v1")
	group.Use(identityStub(testUserID, models.MemberRole))
	RegisterCommentRoutes(group, &database.Database{}, &MockCommentService{})
	return router
}

func TestAddCommentRoute(t *testing.T) {
	router := setupCommentRouter()

	body, _ := json.Marshal(map[string]string{"text": "looks good"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/tasks/"+knownTaskID.String()+"/comments", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var comment models.Comment
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &comment))
	assert.Equal(t, "looks good", comment.Text)
	assert.Equal(t, testUserID, comment.UserID)
}

func TestAddCommentRoute_TooLong(t *testing.T) {
	router := setupCommentRouter()

	body, _ := json.Marshal(map[string]string{"text": strings.Repeat("x", models.MaxCommentLength+1)})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/tasks/"+knownTaskID.String()+"/comments", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddCommentRoute_MissingText(t *testing.T) {
	router := setupCommentRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/tasks/"+knownTaskID.String()+"/comments", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddCommentRoute_TaskMissing(t *testing.T) {
	router := setupCommentRouter()

	body, _ := json.Marshal(map[string]string{"text": "lost"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/tasks/"+uuid.NewString()+"/comments", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListCommentsRoute(t *testing.T) {
	router := setupCommentRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/tasks/"+knownTaskID.String()+"/comments", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var comments []models.Comment
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &comments))
	assert.Len(t, comments, 2)
	assert.Equal(t, "newer", comments[0].Text)
}
