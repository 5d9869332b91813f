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

type CreatePlannedWorkoutInput struct {
	UserID string
	Name   *string
	Notes  string
	Items  []model.WorkoutItem
}

type PlannedWorkoutService struct {
	plannedWorkoutRepository repository.PlannedWorkoutRepository
	exerciseService          *ExerciseService
	builder                  performanceBuilder
	now                      Clock
}

func NewPlannedWorkoutService(
	plannedWorkoutRepository repository.PlannedWorkoutRepository,
	userRepository repository.UserRepository,
	exerciseService *ExerciseService,
	now Clock,
) *PlannedWorkoutService {
	return &PlannedWorkoutService{
		plannedWorkoutRepository: plannedWorkoutRepository,
		exerciseService:          exerciseService,
		builder: performanceBuilder{
			userRepository:  userRepository,
			exerciseService: exerciseService,
		},
		now: clockOrDefault(now),
	}
}

func (s *PlannedWorkoutService) Create(ctx context.Context, in CreatePlannedWorkoutInput) (planned *model.PlannedWorkout, err error) {
	defer func() { observability.RecordBuild("planned_workout", err) }()

	perfs, err := s.builder.build(ctx, in.UserID, in.Items)
	if err != nil {
		return nil, err
	}

	planned = model.NewPlannedWorkout(in.UserID, in.Name, in.Notes, perfs, s.now())
	err = s.plannedWorkoutRepository.Create(ctx, planned)
	if errors.Is(err, store.ErrForeignKey) {
		return nil, fmt.Errorf("%w: user %s: %w", ErrReference, in.UserID, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create planned workout: %w", err)
	}

	return planned, nil
}

func (s *PlannedWorkoutService) ByID(ctx context.Context, id string) (*model.PlannedWorkout, error) {
	return s.plannedWorkoutRepository.ByID(ctx, id)
}

func (s *PlannedWorkoutService) Detail(ctx context.Context, id string) (*model.PlannedWorkoutDetail, error) {
	planned, err := s.plannedWorkoutRepository.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exercises, err := s.exerciseService.Join(ctx, planned.Performances)
	if err != nil {
		return nil, err
	}
	return &model.PlannedWorkoutDetail{PlannedWorkout: planned, Exercises: exercises}, nil
}

func (s *PlannedWorkoutService) ByUser(ctx context.Context, userID string) ([]*model.PlannedWorkout, error) {
	return s.plannedWorkoutRepository.ByUser(ctx, userID)
}

func (s *PlannedWorkoutService) All(ctx context.Context) ([]*model.PlannedWorkout, error) {
	return s.plannedWorkoutRepository.All(ctx)
}

func (s *PlannedWorkoutService) Update(ctx context.Context, id string, patch model.PlannedWorkoutPatch) (*model.PlannedWorkout, error) {
	cols := patch.Columns()
	if patch.Items != nil {
		perfs, err := s.builder.resolve(ctx, *patch.Items)
		if err != nil {
			return nil, err
		}
		cols["exercise_performances"] = perfs
	}

	if len(cols) == 0 {
		return s.plannedWorkoutRepository.ByID(ctx, id)
	}
	return s.plannedWorkoutRepository.Update(ctx, id, cols)
}

func (s *PlannedWorkoutService) Delete(ctx context.Context, id string) error {
	return s.plannedWorkoutRepository.Delete(ctx, id)
}
