package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserPatchColumns(t *testing.T) {
	u := NewUser("sam", "hash", time.Now())
	u.FirstName = "Sam"
	u.Age = 30
	u.Goal = StringList{"strength"}

	same := "Sam"
	age := 31
	goal := []string{"strength", "endurance"}
	cols := UserPatch{FirstName: &same, Age: &age, Goal: &goal}.Columns(u)

	assert.Equal(t, map[string]any{
		"age":  31,
		"goal": StringList{"strength", "endurance"},
	}, cols)

	unchanged := []string{"strength"}
	assert.Empty(t, UserPatch{Goal: &unchanged}.Columns(u))
}

func TestNewUser(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	u := NewUser("sam", "", now)
	assert.False(t, u.HasPassword())
	assert.Equal(t, now, u.LastUse)
	assert.Equal(t, StringList{}, u.Goal)
	assert.NotEmpty(t, u.ID)
}
