package common

import "fmt"

// NotFoundError indicates a named resource does not exist.
type NotFoundError struct {
	Resource string
	Name     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Resource, e.Name)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, name string) *NotFoundError {
	return &NotFoundError{Resource: resource, Name: name}
}

// ValidationError indicates invalid input data.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// UnauthorizedError indicates missing or invalid authentication.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	if e.Message == "" {
		return "unauthorized"
	}
	return e.Message
}

// NewUnauthorizedError creates a new UnauthorizedError.
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// ChannelDisabledError indicates a channel was requested while switched off in configuration.
type ChannelDisabledError struct {
	Channel string
}

func (e *ChannelDisabledError) Error() string {
	return fmt.Sprintf("%s notifications are disabled in configuration", e.Channel)
}

// NewChannelDisabledError creates a new ChannelDisabledError.
func NewChannelDisabledError(channel string) *ChannelDisabledError {
	return &ChannelDisabledError{Channel: channel}
}
