package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tasktrail/tasktrail/database"
	"tasktrail/tasktrail/models"
	"tasktrail/tasktrail/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var knownSubTaskID = uuid.Must(uuid.Parse("223e4567-e89b-12d3-a456-426614174002"))

type MockSubTaskService struct{}

func (m *MockSubTaskService) CreateSubTask(db *database.Database, taskID string, input services.CreateSubTaskInput, actorID uuid.UUID) (models.SubTask, error) {
	if taskID != knownTaskID.String() {
		return models.SubTask{}, services.ErrTaskNotFound
	}
	status := models.StatusPending
	if input.Status != "" {
		parsed, err := models.TaskStatusFromString(input.Status)
		if err != nil {
			return models.SubTask{}, services.ErrInvalidInput
		}
		status = parsed
	}
	return models.SubTask{ID: uuid.New(), TaskID: knownTaskID, Title: input.Title, Status: status}, nil
}

func (m *MockSubTaskService) GetSubTaskById(db *database.Database, id string) (models.SubTask, error) {
	if id == knownSubTaskID.String() {
		return models.SubTask{ID: knownSubTaskID, TaskID: knownTaskID, Title: "Existing"}, nil
	}
	return models.SubTask{}, services.ErrSubTaskNotFound
}

func (m *MockSubTaskService) ListSubTasks(db *database.Database, taskID string) ([]models.SubTask, error) {
	if taskID != knownTaskID.String() {
		return nil, services.ErrTaskNotFound
	}
	return []models.SubTask{
		{ID: knownSubTaskID, TaskID: knownTaskID, Title: "Existing", Status: models.StatusPending},
	}, nil
}

func (m *MockSubTaskService) UpdateSubTask(db *database.Database, id string, input services.UpdateSubTaskInput, actorID uuid.UUID) (models.SubTask, error) {
	if id != knownSubTaskID.String() {
		return models.SubTask{}, services.ErrSubTaskNotFound
	}
	subTask := models.SubTask{ID: knownSubTaskID, TaskID: knownTaskID, Title: "Existing", Status: models.StatusPending}
	if input.Status != nil {
		parsed, err := models.TaskStatusFromString(*input.Status)
		if err != nil {
			return models.SubTask{}, services.ErrInvalidInput
		}
		subTask.Status = parsed
	}
	return subTask, nil
}

func setupSubTaskRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/v1")
	group.Use(identityStub(testUserID, models.MemberRole))
	RegisterSubTaskRoutes(group, &database.Database{}, &MockSubTaskService{})
	return router
}

func TestCreateSubTaskRoute(t *testing.T) {
	router := setupSubTaskRouter()

	body, _ := json.Marshal(map[string]string{"title": "gather data", "status": "completed"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/tasks/"+knownTaskID.String()+"/subtasks", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var subTask models.SubTask
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &subTask))
	assert.Equal(t, models.StatusCompleted, subTask.Status)
}

func TestCreateSubTaskRoute_ParentMissing(t *testing.T) {
	router := setupSubTaskRouter()

	body, _ := json.Marshal(map[string]string{"title": "orphan"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/tasks/"+uuid.NewString()+"/subtasks", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSubTasksRoute(t *testing.T) {
	router := setupSubTaskRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/tasks/"+knownTaskID.String()+"/subtasks", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var subTasks []models.SubTask
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &subTasks))
	assert.Len(t, subTasks, 1)
}

func TestUpdateSubTaskRoute(t *testing.T) {
	router := setupSubTaskRouter()

	body, _ := json.Marshal(map[string]string{"status": "completed"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/v1/subtasks/"+knownSubTaskID.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var subTask models.SubTask
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &subTask))
	assert.Equal(t, models.StatusCompleted, subTask.Status)
}

func TestUpdateSubTaskRoute_InvalidStatus(t *testing.T) {
	router := setupSubTaskRouter()

	body, _ := json.Marshal(map[string]string{"status": "blocked"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/v1/subtasks/"+knownSubTaskID.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
