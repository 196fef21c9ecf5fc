package service

import (
	"regexp"
	"strings"

	"tasker-be/internal/apperrors"
)

const minPasswordLength = 7

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// normalizeName trims the name and rejects empty values
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.NewValidationError("name", "must not be empty")
	}
	return name, nil
}

// normalizeEmail lowercases and trims the email and checks its format
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return "", apperrors.NewValidationError("email", "is invalid")
	}
	return email, nil
}

// validatePassword enforces the minimum length and the forbidden substring
func validatePassword(password string) error {
	password = strings.TrimSpace(password)
	if len(password) < minPasswordLength {
		return apperrors.NewValidationError("password", "must be at least 7 characters")
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return apperrors.NewValidationError("password", `cannot contain "password"`)
	}
	return nil
}

// normalizeDescription trims the task description and rejects empty values
func normalizeDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", apperrors.NewValidationError("description", "must not be empty")
	}
	return description, nil
}

// validateAge rejects negative ages
func validateAge(age int) error {
	if age < 0 {
		return apperrors.NewValidationError("age", "must be a positive value")
	}
	return nil
}
