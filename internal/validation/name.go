package validation

import (
	"errors"
	"strings"
	"unicode"
)

// ValidateUsername validates a login name. Usernames are case-sensitive.
func ValidateUsername(username string) error {
	if username == "" {
		return errors.New("username is required")
	}

	if len(username) > 50 {
		return errors.New("username is too long (max 50 characters)")
	}

	if strings.IndexFunc(username, unicode.IsSpace) >= 0 {
		return errors.New("username must not contain spaces")
	}

	return nil
}

func ValidateExerciseName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("exercise name is required")
	}

	if len(trimmed) > 100 {
		return errors.New("exercise name is too long (max 100 characters)")
	}

	return nil
}
