package services

import "errors"

// Common errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrSubTaskNotFound    = errors.New("sub-task not found")
	ErrAssigneeNotFound   = errors.New("no user found with that email")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("not a participant of this task")
	ErrEmailExists        = errors.New("email is already registered")
	ErrPhoneExists        = errors.New("phone number is already registered")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrCommentEmpty       = errors.New("comment text is required")
	ErrCommentTooLong     = errors.New("comment text exceeds 400 characters")
	ErrInternal           = errors.New("internal server error")
)
