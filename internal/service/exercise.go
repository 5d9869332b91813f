package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/templui/gymapp/internal/model"
	"github.com/templui/gymapp/internal/observability"
	"github.com/templui/gymapp/internal/repository"
	"github.com/templui/gymapp/internal/validation"
)

var ErrExerciseNameTaken = errors.New("exercise name already taken")

type ExerciseService struct {
	exerciseRepository repository.ExerciseRepository
	now                Clock
}

func NewExerciseService(exerciseRepository repository.ExerciseRepository, now Clock) *ExerciseService {
	return &ExerciseService{
		exerciseRepository: exerciseRepository,
		now:                clockOrDefault(now),
	}
}

func (s *ExerciseService) Create(ctx context.Context, d model.ExerciseDescriptor) (*model.Exercise, error) {
	d.Name = strings.TrimSpace(d.Name)
	err := validation.ValidateExerciseName(d.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	exercise := model.NewExercise(d, s.now())
	err = s.exerciseRepository.Create(ctx, exercise)
	if errors.Is(err, repository.ErrDuplicateExerciseName) {
		return nil, fmt.Errorf("%w: %q: %w", ErrExerciseNameTaken, d.Name, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}

	return exercise, nil
}

func (s *ExerciseService) ByID(ctx context.Context, id string) (*model.Exercise, error) {
	return s.exerciseRepository.ByID(ctx, id)
}

func (s *ExerciseService) ByName(ctx context.Context, name string) (*model.Exercise, error) {
	return s.exerciseRepository.ByName(ctx, strings.TrimSpace(name))
}

// Join pairs each performance with its exercise record, keeping performance
// order. Performances whose exercise has since been deleted are left out.
func (s *ExerciseService) Join(ctx context.Context, perfs model.Performances) ([]model.ExercisePerformance, error) {
	exercises, err := s.exerciseRepository.ByIDs(ctx, perfs.ExerciseIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to load exercises: %w", err)
	}

	var joined []model.ExercisePerformance
	for _, perf := range perfs {
		exercise, ok := exercises[perf.ExerciseID]
		if !ok {
			continue
		}
		joined = append(joined, model.ExercisePerformance{
			Exercise: exercise,
			Sets:     perf.Sets,
		})
	}
	return joined, nil
}

func (s *ExerciseService) All(ctx context.Context) ([]*model.Exercise, error) {
	return s.exerciseRepository.All(ctx)
}

// Catalog returns every exercise together with the categories and equipment in use.
func (s *ExerciseService) Catalog(ctx context.Context) (*model.ExerciseCatalog, error) {
	exercises, err := s.exerciseRepository.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	categories, err := s.exerciseRepository.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	equipment, err := s.exerciseRepository.Equipment(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}

	return &model.ExerciseCatalog{
		Exercises:  exercises,
		Categories: categories,
		Equipment:  equipment,
	}, nil
}

func (s *ExerciseService) Update(ctx context.Context, id string, patch model.ExercisePatch) (*model.Exercise, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		err := validation.ValidateExerciseName(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		patch.Name = &name
	}

	cols := patch.Columns()
	if len(cols) == 0 {
		return s.exerciseRepository.ByID(ctx, id)
	}

	exercise, err := s.exerciseRepository.Update(ctx, id, cols)
	if errors.Is(err, repository.ErrDuplicateExerciseName) {
		return nil, fmt.Errorf("%w: %w", ErrExerciseNameTaken, err)
	}
	return exercise, err
}

// Delete removes the exercise. Workouts that reference it keep the dangling id.
func (s *ExerciseService) Delete(ctx context.Context, id string) error {
	return s.exerciseRepository.Delete(ctx, id)
}

// Resolve maps a reference onto a stored exercise. An id is looked up
// first; otherwise, or when the id is unknown, the exercise is found by
// exact name or created from the descriptor. Names are never duplicated:
// losing a concurrent create to the unique constraint returns the winner.
func (s *ExerciseService) Resolve(ctx context.Context, ref model.ExerciseRef) (*model.Exercise, error) {
	if ref.HasID() {
		exercise, err := s.exerciseRepository.ByID(ctx, ref.ID.String())
		if err == nil {
			observability.RecordResolution("id")
			return exercise, nil
		}
		if !errors.Is(err, repository.ErrExerciseNotFound) {
			return nil, fmt.Errorf("failed to get exercise: %w", err)
		}
		if strings.TrimSpace(ref.Descriptor.Name) == "" {
			return nil, fmt.Errorf("%w: exercise %s: %w", ErrReference, ref.ID, err)
		}
	}

	d := ref.Descriptor
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return nil, fmt.Errorf("%w: exercise name is required", ErrValidation)
	}

	exercise, err := s.exerciseRepository.ByName(ctx, d.Name)
	if err == nil {
		observability.RecordResolution("name")
		return exercise, nil
	}
	if !errors.Is(err, repository.ErrExerciseNotFound) {
		return nil, fmt.Errorf("failed to find exercise by name: %w", err)
	}

	exercise = model.NewExercise(d, s.now())
	err = s.exerciseRepository.Create(ctx, exercise)
	if errors.Is(err, repository.ErrDuplicateExerciseName) {
		winner, lookupErr := s.exerciseRepository.ByName(ctx, d.Name)
		if lookupErr != nil {
			return nil, fmt.Errorf("failed to reload exercise %q: %w", d.Name, lookupErr)
		}
		observability.RecordResolution("name")
		return winner, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}

	slog.Debug("exercise created from reference", "exercise_id", exercise.ID, "name", exercise.Name)
	observability.RecordResolution("created")
	return exercise, nil
}
