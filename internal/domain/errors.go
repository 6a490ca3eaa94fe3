package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"

	// Interview specific errors
	CodeSessionNotFound   ErrorCode = "SESSION_NOT_FOUND"
	CodeQuestionNotFound  ErrorCode = "QUESTION_NOT_FOUND"
	CodeQuestionAnswered  ErrorCode = "QUESTION_ALREADY_ANSWERED"
	CodeInterviewComplete ErrorCode = "INTERVIEW_COMPLETE"
	CodeLLMServiceError   ErrorCode = "LLM_SERVICE_ERROR"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewSessionNotFoundError(sessionID string) *DomainError {
	return NewError(CodeSessionNotFound, fmt.Sprintf("Session not found: %s", sessionID), nil)
}

func NewQuestionNotFoundError(sessionID string, questionID int) *DomainError {
	return &DomainError{
		Code:    CodeQuestionNotFound,
		Message: fmt.Sprintf("Question %d not found in session %s", questionID, sessionID),
		Context: map[string]interface{}{"session_id": sessionID, "question_id": questionID},
	}
}

func NewQuestionAnsweredError(questionID int) *DomainError {
	return NewError(CodeQuestionAnswered, fmt.Sprintf("Question %d has already been answered", questionID), nil)
}

func NewInterviewCompleteError(sessionID string) *DomainError {
	return NewError(CodeInterviewComplete, fmt.Sprintf("Interview %s is already complete", sessionID), nil)
}

func NewLLMServiceError(cause error) *DomainError {
	return NewError(CodeLLMServiceError, "Failed to process with LLM service", cause)
}
