package services

import (
	"errors"
	"strings"

	"tasktrail/tasktrail/broker"
	"tasktrail/tasktrail/database"
	"tasktrail/tasktrail/models"

	"gorm.io/gorm"
)

// RegisterInput carries the self-registration form fields
type RegisterInput struct {
	Email           string `json:"email" binding:"required,email"`
	PhoneNo         string `json:"phone_no"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// CreateUserInput carries the admin user-creation form fields
type CreateUserInput struct {
	Email    string `json:"email" binding:"required,email"`
	PhoneNo  string `json:"phone_no"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type UserServiceInterface interface {
	Register(db *database.Database, input RegisterInput) (models.User, error)
	CreateUser(db *database.Database, input CreateUserInput) (models.User, error)
	GetUserById(db *database.Database, id string) (models.User, error)
	GetUserByEmail(db *database.Database, email string) (models.User, error)
	GetUsers(db *database.Database, params map[string]interface{}) ([]models.User, error)
}

type UserService struct {
	authService AuthServiceInterface
}

func NewUserService(authService AuthServiceInterface) *UserService {
	return &UserService{authService: authService}
}

// NormalizeEmail canonicalizes an address the way assignee lookup expects it
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user from the public signup flow. Any violation leaves
// the store unchanged and returns a validation error.
func (s *UserService) Register(db *database.Database, input RegisterInput) (models.User, error) {
	if input.Password != input.ConfirmPassword {
		return models.User{}, ErrPasswordMismatch
	}

	return s.createUser(db, NormalizeEmail(input.Email), input.PhoneNo, input.Password, models.MemberRole)
}

// CreateUser creates a user from the admin-only creation form
func (s *UserService) CreateUser(db *database.Database, input CreateUserInput) (models.User, error) {
	role := models.MemberRole
	if input.Role != "" {
		parsed, err := models.UserRoleFromString(input.Role)
		if err != nil {
			return models.User{}, ErrInvalidInput
		}
		role = parsed
	}

	return s.createUser(db, NormalizeEmail(input.Email), input.PhoneNo, input.Password, role)
}

func (s *UserService) createUser(db *database.Database, email, phoneNo, password string, role models.UserRole) (models.User, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.User{}, tx.Error
	}

	var count int64
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}
	if count > 0 {
		tx.Rollback()
		return models.User{}, ErrEmailExists
	}

	if phoneNo != "" {
		if err := tx.Model(&models.User{}).Where("phone_no = ?", phoneNo).Count(&count).Error; err != nil {
			tx.Rollback()
			return models.User{}, err
		}
		if count > 0 {
			tx.Rollback()
			return models.User{}, ErrPhoneExists
		}
	}

	passwordHash, err := s.authService.HashPassword(password)
	if err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if phoneNo != "" {
		user.PhoneNo = &phoneNo
	}

	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	event, err := models.NewEvent(
		string(broker.UserCreated),
		"user",
		user.ID.String(),
		map[string]interface{}{
			"user_id": user.ID.String(),
			"email":   user.Email,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	return user, nil
}

func (s *UserService) GetUserById(db *database.Database, id string) (models.User, error) {
	var user models.User
	if err := db.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) GetUserByEmail(db *database.Database, email string) (models.User, error) {
	var user models.User
	if err := db.DB.Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) GetUsers(db *database.Database, params map[string]interface{}) ([]models.User, error) {
	var users []models.User
	query := db.DB

	if email, ok := params["email"].(string); ok && email != "" {
		query = query.Where("email = ?", NormalizeEmail(email))
	}

	if role, ok := params["role"].(string); ok && role != "" {
		query = query.Where("role = ?", role)
	}

	result := query.Order("created_at DESC").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

var UserServiceInstance UserServiceInterface
