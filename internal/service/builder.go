package service

import (
	"context"
	"fmt"

	"github.com/templui/gymapp/internal/model"
	"github.com/templui/gymapp/internal/repository"
)

// performanceBuilder turns an ordered list of workout items into embedded
// performances, resolving each item's exercise on the way.
type performanceBuilder struct {
	userRepository  repository.UserRepository
	exerciseService *ExerciseService
}

// build checks the owner before anything is resolved, so a missing user
// never leaves lazily created exercises behind. A failure on item n still
// keeps the exercises created for items before it.
func (b performanceBuilder) build(ctx context.Context, userID string, items []model.WorkoutItem) (model.Performances, error) {
	err := b.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return b.resolve(ctx, items)
}

func (b performanceBuilder) requireUser(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}
	ok, err := b.userRepository.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: user %s: %w", ErrReference, userID, repository.ErrUserNotFound)
	}
	return nil
}

func (b performanceBuilder) resolve(ctx context.Context, items []model.WorkoutItem) (model.Performances, error) {
	perfs := make(model.Performances, 0, len(items))
	for i, item := range items {
		ref, err := item.Ref()
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %w", ErrValidation, i, err)
		}

		exercise, err := b.exerciseService.Resolve(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve item %d: %w", i, err)
		}

		sets := make([]model.Set, len(item.Sets))
		copy(sets, item.Sets)
		perfs = append(perfs, model.Performance{ExerciseID: exercise.ID, Sets: sets})
	}
	return perfs, nil
}
