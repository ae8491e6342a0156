package models

import (
	"errors"
	"fmt"
)

type AppError struct {
	AppErrorType AppErrorType
	Err          error
}

type AppErrorType string

func (e AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.AppErrorType, e.Err)
	}
	return string(e.AppErrorType)
}

func (e AppError) Unwrap() error {
	return e.Err
}

const (
	ErrCasesFailed AppErrorType = "one or more cases failed"
)

// Case level failures. None of them abort a batch; they end up in Report.Message.
var (
	ErrDependencyNotFound  = errors.New("dependency not found")
	ErrMissingHost         = errors.New("no host configured for case or project")
	ErrTransportFailure    = errors.New("request failed")
	ErrUnsupportedMethod   = errors.New("request method not supported")
	ErrFileNotFound        = errors.New("file not found")
	ErrInvalidCase         = errors.New("invalid case")
	ErrDependCountMismatch = errors.New("extend keys and extend values differ in length")
	// ErrExpectedCountMismatch is raised when expected keys and values are not paired.
	ErrExpectedCountMismatch = errors.New("expected keys and expected values differ in length")
)

var (
	ErrEmptyBatch     = errors.New("batch has no cases")
	ErrRecordNotFound = errors.New("record not found")
)
