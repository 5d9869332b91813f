package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           string     `db:"id"`
	Username     string     `db:"username"`
	FirstName    string     `db:"first_name"`
	LastName     string     `db:"last_name"`
	Age          int        `db:"age"`
	Height       int        `db:"height"`
	Weight       int        `db:"weight"`
	Sex          string     `db:"sex"`
	Experience   int        `db:"experience"`
	LastUse      time.Time  `db:"last_use"`
	Goal         StringList `db:"goal"`
	PasswordHash string     `db:"hashed_password"`
	CreatedAt    time.Time  `db:"created_at"`
	ModifiedAt   time.Time  `db:"modified_at"`
}

var UserColumns = []string{
	"id", "username", "first_name", "last_name", "age", "height", "weight",
	"sex", "experience", "last_use", "goal", "hashed_password",
	"created_at", "modified_at",
}

// NewUser returns a user with a fresh id whose timestamps and LastUse are now.
func NewUser(username, passwordHash string, now time.Time) *User {
	now = now.UTC()
	return &User{
		ID:           uuid.New().String(),
		Username:     username,
		Goal:         StringList{},
		PasswordHash: passwordHash,
		LastUse:      now,
		CreatedAt:    now,
		ModifiedAt:   now,
	}
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// UserPatch holds optional profile changes. Password is plain text and is
// hashed by the service before it reaches the store.
type UserPatch struct {
	FirstName  *string
	LastName   *string
	Age        *int
	Height     *int
	Weight     *int
	Sex        *string
	Experience *int
	Goal       *[]string
	Password   *string
}

// Columns returns the stored columns the patch changes relative to u.
// Unchanged values are left out.
func (p UserPatch) Columns(u *User) map[string]any {
	cols := map[string]any{}
	setString(cols, "first_name", p.FirstName, u.FirstName)
	setString(cols, "last_name", p.LastName, u.LastName)
	setString(cols, "sex", p.Sex, u.Sex)
	setInt(cols, "age", p.Age, u.Age)
	setInt(cols, "height", p.Height, u.Height)
	setInt(cols, "weight", p.Weight, u.Weight)
	setInt(cols, "experience", p.Experience, u.Experience)
	if p.Goal != nil && !slices.Equal(*p.Goal, []string(u.Goal)) {
		cols["goal"] = StringList(*p.Goal)
	}
	return cols
}

func setString(cols map[string]any, col string, v *string, cur string) {
	if v != nil && *v != cur {
		cols[col] = *v
	}
}

func setInt(cols map[string]any, col string, v *int, cur int) {
	if v != nil && *v != cur {
		cols[col] = *v
	}
}
