package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultExerciseCategory  = "Strength"
	DefaultExerciseEquipment = "None"
)

type Exercise struct {
	ID          string     `db:"id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	Category    string     `db:"category"`
	Equipment   string     `db:"equipment"`
	Muscles     StringList `db:"muscles"`
	SubMuscles  StringList `db:"sub_muscles"`
	CreatedAt   time.Time  `db:"created_at"`
	ModifiedAt  time.Time  `db:"modified_at"`
}

var ExerciseColumns = []string{
	"id", "name", "description", "category", "equipment", "muscles",
	"sub_muscles", "created_at", "modified_at",
}

// ExerciseDescriptor is the inline description of an exercise as callers
// send it, keyed the way workout payloads spell it.
type ExerciseDescriptor struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Equipment   string   `json:"equipment,omitempty"`
	Muscles     []string `json:"muscles,omitempty"`
	SubMuscles  []string `json:"sub_muscles,omitempty"`
}

// NewExercise builds an exercise from d, filling in the default category,
// equipment and empty muscle lists.
func NewExercise(d ExerciseDescriptor, now time.Time) *Exercise {
	now = now.UTC()
	e := &Exercise{
		ID:          uuid.New().String(),
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Equipment:   d.Equipment,
		Muscles:     StringList(d.Muscles),
		SubMuscles:  StringList(d.SubMuscles),
		CreatedAt:   now,
		ModifiedAt:  now,
	}
	if e.Category == "" {
		e.Category = DefaultExerciseCategory
	}
	if e.Equipment == "" {
		e.Equipment = DefaultExerciseEquipment
	}
	if e.Muscles == nil {
		e.Muscles = StringList{}
	}
	if e.SubMuscles == nil {
		e.SubMuscles = StringList{}
	}
	return e
}

type ExercisePatch struct {
	Name        *string
	Description *string
	Category    *string
	Equipment   *string
	Muscles     *[]string
	SubMuscles  *[]string
}

func (p ExercisePatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Category != nil {
		cols["category"] = *p.Category
	}
	if p.Equipment != nil {
		cols["equipment"] = *p.Equipment
	}
	if p.Muscles != nil {
		cols["muscles"] = StringList(*p.Muscles)
	}
	if p.SubMuscles != nil {
		cols["sub_muscles"] = StringList(*p.SubMuscles)
	}
	return cols
}

// ExerciseCatalog lists all exercises with the distinct categories and
// equipment they use.
type ExerciseCatalog struct {
	Exercises  []*Exercise
	Categories []string
	Equipment  []string
}
