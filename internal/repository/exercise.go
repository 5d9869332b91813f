package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/templui/gymapp/internal/model"
	"github.com/templui/gymapp/internal/store"
)

var (
	ErrExerciseNotFound      = errors.New("exercise not found")
	ErrDuplicateExerciseName = errors.New("exercise name already exists")
)

type ExerciseRepository interface {
	Create(ctx context.Context, exercise *model.Exercise) error
	ByID(ctx context.Context, id string) (*model.Exercise, error)
	ByName(ctx context.Context, name string) (*model.Exercise, error)
	ByIDs(ctx context.Context, ids []string) (map[string]*model.Exercise, error)
	Update(ctx context.Context, id string, cols map[string]any) (*model.Exercise, error)
	Delete(ctx context.Context, id string) error
	All(ctx context.Context) ([]*model.Exercise, error)
	Categories(ctx context.Context) ([]string, error)
	Equipment(ctx context.Context) ([]string, error)
}

type exerciseRepository struct {
	table *store.Table[model.Exercise]
}

func NewExerciseRepository(db *sqlx.DB, now func() time.Time) ExerciseRepository {
	table := store.NewTable[model.Exercise](db, store.Schema{Name: "exercises", Columns: model.ExerciseColumns})
	return &exerciseRepository{table: table.WithClock(now)}
}

func (r *exerciseRepository) Create(ctx context.Context, exercise *model.Exercise) error {
	err := r.table.Insert(ctx, exercise)
	if store.IsDuplicateOn(err, "name") {
		return fmt.Errorf("%w: %w", ErrDuplicateExerciseName, err)
	}
	return err
}

func (r *exerciseRepository) ByID(ctx context.Context, id string) (*model.Exercise, error) {
	exercise, err := r.table.Get(ctx, id)
	return exercise, notFound(err, ErrExerciseNotFound)
}

func (r *exerciseRepository) ByName(ctx context.Context, name string) (*model.Exercise, error) {
	exercise, err := r.table.FindOne(ctx, sq.Eq{"name": name})
	return exercise, notFound(err, ErrExerciseNotFound)
}

// ByIDs loads the given exercises in one query, keyed by id. Unknown ids are
// simply absent from the result.
func (r *exerciseRepository) ByIDs(ctx context.Context, ids []string) (map[string]*model.Exercise, error) {
	out := make(map[string]*model.Exercise, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	exercises, err := r.table.Find(ctx, sq.Eq{"id": ids})
	if err != nil {
		return nil, err
	}
	for _, e := range exercises {
		out[e.ID] = e
	}
	return out, nil
}

func (r *exerciseRepository) Update(ctx context.Context, id string, cols map[string]any) (*model.Exercise, error) {
	exercise, err := r.table.Update(ctx, id, cols)
	if store.IsDuplicateOn(err, "name") {
		return nil, fmt.Errorf("%w: %w", ErrDuplicateExerciseName, err)
	}
	return exercise, notFound(err, ErrExerciseNotFound)
}

func (r *exerciseRepository) Delete(ctx context.Context, id string) error {
	return notFound(r.table.Delete(ctx, id), ErrExerciseNotFound)
}

func (r *exerciseRepository) All(ctx context.Context) ([]*model.Exercise, error) {
	return r.table.All(ctx)
}

func (r *exerciseRepository) Categories(ctx context.Context) ([]string, error) {
	return r.table.Distinct(ctx, "category")
}

func (r *exerciseRepository) Equipment(ctx context.Context) ([]string, error) {
	return r.table.Distinct(ctx, "equipment")
}
