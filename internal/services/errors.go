package services

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUsernameTaken      = errors.New("username already in use")

	ErrTaskNotFound  = errors.New("task not found")
	ErrTaskNotOwned  = errors.New("task belongs to another user")
	ErrEmptyTaskText = errors.New("task text must not be empty")
	ErrBadTarget     = errors.New("target pomodoros must be at least 1")
	ErrBadProjectRef = errors.New("project reference does not resolve to an owned project")

	ErrProjectNotFound = errors.New("project not found")
	ErrProjectNotOwned = errors.New("project belongs to another user")
	ErrEmptyName       = errors.New("project name must not be empty")
	ErrNameTooLong     = errors.New("project name is too long")
	ErrDuplicateName   = errors.New("project with this name already exists")
)
