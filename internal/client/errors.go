package client

import "fmt"

// The error taxonomy mirrors the server's HTTP statuses so callers can
// branch on kind without parsing messages.

type ValidationError struct {
	Message string
}

func (err *ValidationError) Error() string { return err.Message }

type AuthenticationError struct {
	Message string
}

func (err *AuthenticationError) Error() string { return err.Message }

type AuthorizationError struct {
	Message string
}

func (err *AuthorizationError) Error() string { return err.Message }

type NotFoundError struct {
	Message string
}

func (err *NotFoundError) Error() string { return err.Message }

// TransientIOError covers network failures and server-side errors of
// unspecified cause. Mutations that hit one are rolled back locally.
type TransientIOError struct {
	Message string
	Err     error
}

func (err *TransientIOError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("%s: %v", err.Message, err.Err)
	}
	return err.Message
}

func (err *TransientIOError) Unwrap() error { return err.Err }

func errorFromStatus(status int, message string) error {
	switch status {
	case 400:
		return &ValidationError{Message: message}
	case 401:
		return &AuthenticationError{Message: message}
	case 403:
		return &AuthorizationError{Message: message}
	case 404:
		return &NotFoundError{Message: message}
	}
	return &TransientIOError{Message: message}
}
