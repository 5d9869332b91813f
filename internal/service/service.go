package service

import (
	"errors"
	"time"
)

var (
	// ErrReference means a referenced record, such as a workout's owner, does not exist.
	ErrReference = errors.New("referenced record does not exist")
	// ErrValidation means the input is malformed or incomplete.
	ErrValidation = errors.New("validation failed")
)

// Clock returns the current time. Services take one so tests can freeze time.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

func clockOrDefault(now Clock) Clock {
	if now == nil {
		return utcNow
	}
	return now
}
