package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/templui/gymapp/internal/model"
	"github.com/templui/gymapp/internal/store"
)

var ErrWorkoutNotFound = errors.New("workout not found")

type WorkoutRepository interface {
	Create(ctx context.Context, workout *model.Workout) error
	ByID(ctx context.Context, id string) (*model.Workout, error)
	ByUser(ctx context.Context, userID string) ([]*model.Workout, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id string, cols map[string]any) (*model.Workout, error)
	Delete(ctx context.Context, id string) error
	All(ctx context.Context) ([]*model.Workout, error)
}

type workoutRepository struct {
	table *store.Table[model.Workout]
}

func NewWorkoutRepository(db *sqlx.DB, now func() time.Time) WorkoutRepository {
	table := store.NewTable[model.Workout](db, store.Schema{Name: "workouts", Columns: model.WorkoutColumns})
	return &workoutRepository{table: table.WithClock(now)}
}

func (r *workoutRepository) Create(ctx context.Context, workout *model.Workout) error {
	return r.table.Insert(ctx, workout)
}

func (r *workoutRepository) ByID(ctx context.Context, id string) (*model.Workout, error) {
	workout, err := r.table.Get(ctx, id)
	return workout, notFound(err, ErrWorkoutNotFound)
}

func (r *workoutRepository) ByUser(ctx context.Context, userID string) ([]*model.Workout, error) {
	return r.table.Find(ctx, sq.Eq{"user_id": userID})
}

func (r *workoutRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.table.Exists(ctx, sq.Eq{"id": id})
}

func (r *workoutRepository) Update(ctx context.Context, id string, cols map[string]any) (*model.Workout, error) {
	workout, err := r.table.Update(ctx, id, cols)
	return workout, notFound(err, ErrWorkoutNotFound)
}

func (r *workoutRepository) Delete(ctx context.Context, id string) error {
	return notFound(r.table.Delete(ctx, id), ErrWorkoutNotFound)
}

func (r *workoutRepository) All(ctx context.Context) ([]*model.Workout, error) {
	return r.table.All(ctx)
}
