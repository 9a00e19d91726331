package services

import (
	"errors"

	"github.com/dmitrijs2005/taskboard/internal/client/client"
	"github.com/dmitrijs2005/taskboard/internal/common"
)

type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Notifier receives user-facing outcomes of background operations.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(level Level, message string)

func (f NotifierFunc) Notify(level Level, message string) { f(level, message) }

type nopNotifier struct{}

func (nopNotifier) Notify(Level, string) {}

const connectionErrorMessage = "Connection error. Please try again."

var ErrNotSignedIn = errors.New("not signed in")

// Error is a failed operation with a message safe to show the user.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// UserMessage turns err into text for the user: connection failures get a
// generic retry hint, server and validation errors keep their own message,
// anything else becomes fallback.
func UserMessage(err error, fallback string) string {
	var (
		se     *Error
		apiErr *client.APIError
		ve     *common.ValidationError
	)
	switch {
	case errors.As(err, &se):
		return se.Message
	case errors.Is(err, client.ErrUnavailable):
		return connectionErrorMessage
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, ErrNotSignedIn):
		return "Please log in first"
	case errors.Is(err, common.ErrorNotFound):
		return "Task not found"
	}
	return fallback
}

func surface(n Notifier, err error, fallback string) error {
	msg := UserMessage(err, fallback)
	n.Notify(LevelError, msg)
	return &Error{Message: msg, Err: err}
}
