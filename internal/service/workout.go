package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/templui/gymapp/internal/model"
	"github.com/templui/gymapp/internal/observability"
	"github.com/templui/gymapp/internal/repository"
	"github.com/templui/gymapp/internal/store"
)

type CreateWorkoutInput struct {
	UserID string
	model.WorkoutDraft
	Items []model.WorkoutItem
}

type WorkoutService struct {
	workoutRepository repository.WorkoutRepository
	exerciseService   *ExerciseService
	builder           performanceBuilder
	now               Clock
}

func NewWorkoutService(
	workoutRepository repository.WorkoutRepository,
	userRepository repository.UserRepository,
	exerciseService *ExerciseService,
	now Clock,
) *WorkoutService {
	return &WorkoutService{
		workoutRepository: workoutRepository,
		exerciseService:   exerciseService,
		builder: performanceBuilder{
			userRepository:  userRepository,
			exerciseService: exerciseService,
		},
		now: clockOrDefault(now),
	}
}

// Create builds a workout from the input items and stores it in one insert.
// The owner must exist; otherwise ErrReference is returned and nothing is
// written.
func (s *WorkoutService) Create(ctx context.Context, in CreateWorkoutInput) (workout *model.Workout, err error) {
	defer func() { observability.RecordBuild("workout", err) }()

	perfs, err := s.builder.build(ctx, in.UserID, in.Items)
	if err != nil {
		return nil, err
	}

	workout = model.NewWorkout(in.UserID, in.WorkoutDraft, perfs, s.now())
	err = s.workoutRepository.Create(ctx, workout)
	if errors.Is(err, store.ErrForeignKey) {
		return nil, fmt.Errorf("%w: user %s: %w", ErrReference, in.UserID, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create workout: %w", err)
	}

	return workout, nil
}

func (s *WorkoutService) ByID(ctx context.Context, id string) (*model.Workout, error) {
	return s.workoutRepository.ByID(ctx, id)
}

func (s *WorkoutService) ByUser(ctx context.Context, userID string) ([]*model.Workout, error) {
	return s.workoutRepository.ByUser(ctx, userID)
}

func (s *WorkoutService) All(ctx context.Context) ([]*model.Workout, error) {
	return s.workoutRepository.All(ctx)
}

// Update applies the patch. New items rebuild the performances; a changed
// start or end re-derives the duration when both ends are known and no
// explicit duration is given.
func (s *WorkoutService) Update(ctx context.Context, id string, patch model.WorkoutPatch) (*model.Workout, error) {
	existing, err := s.workoutRepository.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cols := patch.Columns()
	if patch.Items != nil {
		perfs, err := s.builder.resolve(ctx, *patch.Items)
		if err != nil {
			return nil, err
		}
		cols["exercise_performances"] = perfs
	}

	if (patch.StartTime != nil || patch.EndTime != nil) && patch.Duration == nil {
		start := coalesce(patch.StartTime, existing.StartTime)
		end := coalesce(patch.EndTime, existing.EndTime)
		if start != nil && end != nil {
			_, minutes := model.DeriveDuration(start, end, s.now())
			cols["duration"] = *minutes
		}
	}

	if len(cols) == 0 {
		return existing, nil
	}
	return s.workoutRepository.Update(ctx, id, cols)
}

func (s *WorkoutService) Delete(ctx context.Context, id string) error {
	return s.workoutRepository.Delete(ctx, id)
}

// Detail joins each performance with its exercise record.
func (s *WorkoutService) Detail(ctx context.Context, id string) (*model.WorkoutDetail, error) {
	workout, err := s.workoutRepository.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exercises, err := s.exerciseService.Join(ctx, workout.Performances)
	if err != nil {
		return nil, err
	}
	return &model.WorkoutDetail{Workout: workout, Exercises: exercises}, nil
}

func (s *WorkoutService) Summary(ctx context.Context, id string) (model.WorkoutSummary, error) {
	workout, err := s.workoutRepository.ByID(ctx, id)
	if err != nil {
		return model.WorkoutSummary{}, err
	}
	return workout.Summary(), nil
}

func coalesce[T any](a, b *T) *T {
	if a != nil {
		return a
	}
	return b
}
