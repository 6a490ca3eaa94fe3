package validation

import (
	"prepmate/internal/domain"
	"regexp"
	"strings"
)

const maxAnswerLength = 4000

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateStartRequest validates the start-interview request
func (v *Validator) ValidateStartRequest(role, difficulty string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(role) == "" {
		errors = append(errors, domain.NewMissingFieldError("role"))
	}

	if difficulty != "" && !domain.IsValidDifficulty(difficulty) {
		errors = append(errors, domain.NewInvalidFormatError("difficulty", difficulty))
	}

	return errors
}

// ValidateSubmitAnswerRequest validates the submit-answer request
func (v *Validator) ValidateSubmitAnswerRequest(sessionID string, questionID int, answer string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	errors = append(errors, v.ValidateSessionID(sessionID)...)

	if questionID < 0 {
		errors = append(errors, domain.NewOutOfRangeError("question_id", questionID, 0, 1<<30))
	}

	if strings.TrimSpace(answer) == "" {
		errors = append(errors, domain.NewMissingFieldError("answer"))
	} else if len(answer) > maxAnswerLength {
		errors = append(errors, domain.NewOutOfRangeError("answer", len(answer), 1, maxAnswerLength))
	}

	return errors
}

// ValidateSessionID validates a session identifier path or body parameter
func (v *Validator) ValidateSessionID(sessionID string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(sessionID) == "" {
		errors = append(errors, domain.NewMissingFieldError("session_id"))
	} else if !isValidULID(sessionID) {
		errors = append(errors, domain.NewInvalidFormatError("session_id", sessionID))
	}

	return errors
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	// ULID is 26 characters long, Crockford's Base32
	if len(s) != 26 {
		return false
	}
	validULID := regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	return validULID.MatchString(s)
}
