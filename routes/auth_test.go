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

type MockAuthService struct{}

func (m *MockAuthService) Login(db *database.Database, email, password string) (string, error) {
	if email == "alice@example.com" && password == "hunter22" {
		return "valid-token", nil
	}
	return "", services.ErrInvalidCredentials
}

func (m *MockAuthService) GenerateToken(user models.User) (string, error) {
	return "valid-token", nil
}

func (m *MockAuthService) ValidateToken(tokenString string) (*services.JWTClaims, error) {
	if tokenString == "valid-token" {
		return &services.JWTClaims{UserID: testUserID, Email: "alice@example.com", Role: "member"}, nil
	}
	return nil, services.ErrInvalidToken
}

func (m *MockAuthService) HashPassword(password string) (string, error) {
	return "hashed-" + password, nil
}

func (m *MockAuthService) ComparePasswords(hashedPassword, password string) error {
	if hashedPassword != "hashed-"+password {
		return services.ErrInvalidCredentials
	}
	return nil
}

type MockUserService struct{}

func (m *MockUserService) Register(db *database.Database, input services.RegisterInput) (models.User, error) {
	if input.Password != input.ConfirmPassword {
		return models.User{}, services.ErrPasswordMismatch
	}
	if input.Email == "taken@example.com" {
		return models.User{}, services.ErrEmailExists
	}
	return models.User{ID: uuid.New(), Email: input.Email, Role: models.MemberRole}, nil
}

func (m *MockUserService) CreateUser(db *database.Database, input services.CreateUserInput) (models.User, error) {
	return models.User{ID: uuid.New(), Email: input.Email, Role: models.MemberRole}, nil
}

func (m *MockUserService) GetUserById(db *database.Database, id string) (models.User, error) {
	if id == testUserID.String() {
		return models.User{ID: testUserID, Email: "alice@example.com", Role: models.MemberRole}, nil
	}
	return models.User{}, services.ErrUserNotFound
}

func (m *MockUserService) GetUserByEmail(db *database.Database, email string) (models.User, error) {
	return models.User{}, services.ErrUserNotFound
}

func (m *MockUserService) GetUsers(db *database.Database, params map[string]interface{}) ([]models.User, error) {
	return []models.User{{ID: testUserID, Email: "alice@example.com"}}, nil
}

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterAuthRoutes(router, &database.Database{}, &MockAuthService{}, &MockUserService{})
	return router
}

func TestLoginRoute_Success(t *testing.T) {
	router := setupAuthRouter()

	body, _ := json.Marshal(map[string]string{"email": "alice@example.com", "password": "hunter22"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response loginResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "valid-token", response.Token)
}

func TestLoginRoute_InvalidCredentials(t *testing.T) {
	router := setupAuthRouter()

	body, _ := json.Marshal(map[string]string{"email": "alice@example.com", "password": "wrong"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// The response must not disclose whether the account exists
	assert.Contains(t, w.Body.String(), "Invalid email or password")
}

func TestRegisterRoute_Success(t *testing.T) {
	router := setupAuthRouter()

	body, _ := json.Marshal(map[string]string{
		"email":            "new@example.com",
		"password":         "hunter22",
		"confirm_password": "hunter22",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "valid-token")
}

func TestRegisterRoute_PasswordMismatch(t *testing.T) {
	router := setupAuthRouter()

	body, _ := json.Marshal(map[string]string{
		"email":            "new@example.com",
		"password":         "hunter22",
		"confirm_password": "hunter23",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterRoute_DuplicateEmail(t *testing.T) {
	router := setupAuthRouter()

	body, _ := json.Marshal(map[string]string{
		"email":            "taken@example.com",
		"password":         "hunter22",
		"confirm_password": "hunter22",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}
