package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidExerciseRef = errors.New("invalid exercise reference")

// Set is one set of an exercise performance. Weight and reps are kept
// exactly as the client sent them, usually as strings such as "135".
type Set struct {
	Weight json.RawMessage `json:"weight,omitempty"`
	Reps   json.RawMessage `json:"reps,omitempty"`
}

// NewSet builds a set with string-encoded weight and reps.
func NewSet(weight, reps string) Set {
	w, _ := json.Marshal(weight)
	r, _ := json.Marshal(reps)
	return Set{Weight: w, Reps: r}
}

// WeightValue reads the weight as a number, 0 when absent or not numeric.
func (s Set) WeightValue() float64 {
	return numeric(s.Weight)
}

// RepsValue reads the reps as a number, 0 when absent or not numeric.
func (s Set) RepsValue() float64 {
	return numeric(s.Reps)
}

func numeric(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// Performance binds an exercise to the sets performed for it.
type Performance struct {
	ExerciseID string `json:"exercise_id"`
	Sets       []Set  `json:"sets"`
}

// MarshalJSON keeps empty set lists as [] rather than null.
func (p Performance) MarshalJSON() ([]byte, error) {
	type alias Performance
	if p.Sets == nil {
		p.Sets = []Set{}
	}
	return json.Marshal(alias(p))
}

// ExerciseIDs lists the exercise ids in performance order.
func (p Performances) ExerciseIDs() []string {
	ids := make([]string, len(p))
	for i, perf := range p {
		ids[i] = perf.ExerciseID
	}
	return ids
}

// ExerciseRef names an exercise either by id or by an inline descriptor.
// When both are present the id wins and the descriptor is the fallback.
type ExerciseRef struct {
	ID         uuid.UUID
	Descriptor ExerciseDescriptor
}

func ByID(id uuid.UUID) ExerciseRef {
	return ExerciseRef{ID: id}
}

func Inline(d ExerciseDescriptor) ExerciseRef {
	return ExerciseRef{Descriptor: d}
}

func (r ExerciseRef) HasID() bool {
	return r.ID != uuid.Nil
}

// WorkoutItem is one exercise entry of an incoming workout payload.
type WorkoutItem struct {
	ItemID          string              `json:"item_id,omitempty"`
	Name            string              `json:"name,omitempty"`
	Description     string              `json:"description,omitempty"`
	Category        string              `json:"category,omitempty"`
	Equipment       string              `json:"equipment,omitempty"`
	Muscles         []string            `json:"muscles,omitempty"`
	SubMuscles      []string            `json:"sub_muscles,omitempty"`
	ExerciseDetails *ExerciseDescriptor `json:"exerciseDetails,omitempty"`
	Sets            []Set               `json:"sets"`
}

// Ref decides how the item refers to its exercise. The item's own name wins
// over exerciseDetails.name; the other descriptive fields come from
// exerciseDetails when it is present.
func (it WorkoutItem) Ref() (ExerciseRef, error) {
	var ref ExerciseRef

	if it.ItemID != "" {
		id, err := uuid.Parse(it.ItemID)
		if err != nil {
			return ref, fmt.Errorf("%w: item_id %q: %v", ErrInvalidExerciseRef, it.ItemID, err)
		}
		ref.ID = id
	}

	if it.ExerciseDetails != nil {
		ref.Descriptor = *it.ExerciseDetails
		if strings.TrimSpace(it.Name) != "" {
			ref.Descriptor.Name = it.Name
		}
	} else {
		ref.Descriptor = ExerciseDescriptor{
			Name:        it.Name,
			Description: it.Description,
			Category:    it.Category,
			Equipment:   it.Equipment,
			Muscles:     it.Muscles,
			SubMuscles:  it.SubMuscles,
		}
	}
	ref.Descriptor.Name = strings.TrimSpace(ref.Descriptor.Name)

	if !ref.HasID() && ref.Descriptor.Name == "" {
		return ref, fmt.Errorf("%w: item needs an item_id or a name", ErrInvalidExerciseRef)
	}
	return ref, nil
}
