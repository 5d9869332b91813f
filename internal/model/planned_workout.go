package model

import (
	"time"

	"github.com/google/uuid"
)

type PlannedWorkout struct {
	ID           string       `db:"id"`
	Name         *string      `db:"name"`
	Notes        string       `db:"notes"`
	Performances Performances `db:"exercise_performances"`
	UserID       string       `db:"user_id"`
	CreatedAt    time.Time    `db:"created_at"`
	ModifiedAt   time.Time    `db:"modified_at"`
}

var PlannedWorkoutColumns = []string{
	"id", "name", "notes", "exercise_performances", "user_id",
	"created_at", "modified_at",
}

func NewPlannedWorkout(userID string, name *string, notes string, perfs Performances, now time.Time) *PlannedWorkout {
	now = now.UTC()
	if perfs == nil {
		perfs = Performances{}
	}
	return &PlannedWorkout{
		ID:           uuid.New().String(),
		Name:         name,
		Notes:        notes,
		Performances: perfs,
		UserID:       userID,
		CreatedAt:    now,
		ModifiedAt:   now,
	}
}

func (p *PlannedWorkout) ExerciseIDs() []string {
	return p.Performances.ExerciseIDs()
}

type PlannedWorkoutPatch struct {
	Name  *string
	Notes *string
	Items *[]WorkoutItem
}

func (p PlannedWorkoutPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Notes != nil {
		cols["notes"] = *p.Notes
	}
	return cols
}

type PlannedWorkoutDetail struct {
	PlannedWorkout *PlannedWorkout
	Exercises      []ExercisePerformance
}
