package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/templui/gymapp/internal/repository"
	"github.com/templui/gymapp/internal/service"
	"github.com/templui/gymapp/internal/store"
)

// errExists marks a record whose natural key is already stored.
var errExists = errors.New("record already exists")

func exportAll[T any, R any](ctx context.Context, load func(context.Context) ([]*T, error), conv func(*T) R) ([]any, error) {
	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, conv(item))
	}
	return out, nil
}

func (s *Syncer) exportUsers(ctx context.Context) ([]any, error) {
	return exportAll(ctx, s.repos.Users.All, fromUser)
}

func (s *Syncer) exportExercises(ctx context.Context) ([]any, error) {
	return exportAll(ctx, s.repos.Exercises.All, fromExercise)
}

func (s *Syncer) exportWorkouts(ctx context.Context) ([]any, error) {
	return exportAll(ctx, s.repos.Workouts.All, fromWorkout)
}

func (s *Syncer) exportPlannedWorkouts(ctx context.Context) ([]any, error) {
	return exportAll(ctx, s.repos.PlannedWorkouts.All, fromPlannedWorkout)
}

// importUser keys users by username.
func (s *Syncer) importUser(ctx context.Context, raw json.RawMessage) error {
	rec, err := decodeRecord[userRecord](raw)
	if err != nil {
		return err
	}
	rec.Username = strings.TrimSpace(rec.Username)
	if rec.Username == "" {
		return fmt.Errorf("%w: user without username", service.ErrValidation)
	}

	_, err = s.repos.Users.ByUsername(ctx, rec.Username)
	if err == nil {
		return errExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	user, err := rec.toUser(s.now(), s.hash)
	if err != nil {
		return fmt.Errorf("user %q: %w", rec.Username, err)
	}
	err = s.repos.Users.Create(ctx, user)
	if err != nil {
		return fmt.Errorf("user %q: %w", rec.Username, err)
	}
	return nil
}

// importExercise keys exercises by name.
func (s *Syncer) importExercise(ctx context.Context, raw json.RawMessage) error {
	rec, err := decodeRecord[exerciseRecord](raw)
	if err != nil {
		return err
	}
	rec.Name = strings.TrimSpace(rec.Name)
	if rec.Name == "" {
		return fmt.Errorf("%w: exercise without name", service.ErrValidation)
	}

	_, err = s.repos.Exercises.ByName(ctx, rec.Name)
	if err == nil {
		return errExists
	}
	if !errors.Is(err, repository.ErrExerciseNotFound) {
		return err
	}

	exercise, err := rec.toExercise(s.now())
	if err != nil {
		return fmt.Errorf("exercise %q: %w", rec.Name, err)
	}
	err = s.repos.Exercises.Create(ctx, exercise)
	if err != nil {
		return fmt.Errorf("exercise %q: %w", rec.Name, err)
	}
	return nil
}

// importWorkout keys workouts by item_id, so a record without one is
// rejected.
func (s *Syncer) importWorkout(ctx context.Context, raw json.RawMessage) error {
	rec, err := decodeRecord[workoutRecord](raw)
	if err != nil {
		return err
	}
	if strings.TrimSpace(rec.ItemID) == "" {
		return fmt.Errorf("%w: workout without item_id", service.ErrValidation)
	}

	workout, err := rec.toWorkout(s.now())
	if err != nil {
		return fmt.Errorf("workout %q: %w", rec.ItemID, err)
	}

	exists, err := s.repos.Workouts.Exists(ctx, workout.ID)
	if err != nil {
		return err
	}
	if exists {
		return errExists
	}

	err = s.repos.Workouts.Create(ctx, workout)
	if errors.Is(err, store.ErrForeignKey) {
		return fmt.Errorf("workout %s: %w: user %s: %w", workout.ID, service.ErrReference, workout.UserID, err)
	}
	if err != nil {
		return fmt.Errorf("workout %s: %w", workout.ID, err)
	}
	return nil
}

func (s *Syncer) importPlannedWorkout(ctx context.Context, raw json.RawMessage) error {
	rec, err := decodeRecord[plannedWorkoutRecord](raw)
	if err != nil {
		return err
	}
	if strings.TrimSpace(rec.ItemID) == "" {
		return fmt.Errorf("%w: planned workout without item_id", service.ErrValidation)
	}

	planned, err := rec.toPlannedWorkout(s.now())
	if err != nil {
		return fmt.Errorf("planned workout %q: %w", rec.ItemID, err)
	}

	exists, err := s.repos.PlannedWorkouts.Exists(ctx, planned.ID)
	if err != nil {
		return err
	}
	if exists {
		return errExists
	}

	err = s.repos.PlannedWorkouts.Create(ctx, planned)
	if errors.Is(err, store.ErrForeignKey) {
		return fmt.Errorf("planned workout %s: %w: user %s: %w", planned.ID, service.ErrReference, planned.UserID, err)
	}
	if err != nil {
		return fmt.Errorf("planned workout %s: %w", planned.ID, err)
	}
	return nil
}
