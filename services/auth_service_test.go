package services

import (
	"testing"

	"tasktrail/tasktrail/models"
	"tasktrail/tasktrail/testutils"

	"github.com/stretchr/testify/assert"
)

func TestHashAndComparePasswords(t *testing.T) {
	authService := NewAuthService("test-secret", 1)

	hash, err := authService.HashPassword("hunter22")
	assert.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.NoError(t, authService.ComparePasswords(hash, "hunter22"))
	assert.Error(t, authService.ComparePasswords(hash, "hunter23"))
}

func TestLogin_Success(t *testing.T) {
	db, close := testutils.SetupTestDB()
	defer close()

	authService := NewAuthService("test-secret", 1)
	hash, err := authService.HashPassword("hunter22")
	assert.NoError(t, err)

	user := models.User{
		Email:        "alice@example.com",
		PasswordHash: hash,
		Role:         models.AdminRole,
	}
	assert.NoError(t, db.DB.Create(&user).Error)

	tokenString, err := authService.Login(db, "alice@example.com", "hunter22")
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := authService.ValidateToken(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

// Wrong password and unknown email must be indistinguishable to the caller
func TestLogin_InvalidCredentials(t *testing.T) {
	db, close := testutils.SetupTestDB()
	defer close()

	authService := NewAuthService("test-secret", 1)
	hash, _ := authService.HashPassword("hunter22")
	assert.NoError(t, db.DB.Create(&models.User{
		Email:        "alice@example.com",
		PasswordHash: hash,
		Role:         models.MemberRole,
	}).Error)

	_, wrongPassword := authService.Login(db, "alice@example.com", "wrong")
	_, unknownEmail := authService.Login(db, "nobody@example.com", "hunter22")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestValidateToken_RejectsTampered(t *testing.T) {
	authService := NewAuthService("test-secret", 1)
	other := NewAuthService("other-secret", 1)

	tokenString, err := authService.GenerateToken(models.User{Email: "alice@example.com", Role: models.MemberRole})
	assert.NoError(t, err)

	_, err = other.ValidateToken(tokenString)
	assert.Error(t, err)
}
