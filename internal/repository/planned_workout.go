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

var ErrPlannedWorkoutNotFound = errors.New("planned workout not found")

type PlannedWorkoutRepository interface {
	Create(ctx context.Context, plannedWorkout *model.PlannedWorkout) error
	ByID(ctx context.Context, id string) (*model.PlannedWorkout, error)
	ByUser(ctx context.Context, userID string) ([]*model.PlannedWorkout, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id string, cols map[string]any) (*model.PlannedWorkout, error)
	Delete(ctx context.Context, id string) error
	All(ctx context.Context) ([]*model.PlannedWorkout, error)
}

type plannedWorkoutRepository struct {
	table *store.Table[model.PlannedWorkout]
}

func NewPlannedWorkoutRepository(db *sqlx.DB, now func() time.Time) PlannedWorkoutRepository {
	table := store.NewTable[model.PlannedWorkout](db, store.Schema{Name: "planned_workouts", Columns: model.PlannedWorkoutColumns})
	return &plannedWorkoutRepository{table: table.WithClock(now)}
}

func (r *plannedWorkoutRepository) Create(ctx context.Context, plannedWorkout *model.PlannedWorkout) error {
	return r.table.Insert(ctx, plannedWorkout)
}

func (r *plannedWorkoutRepository) ByID(ctx context.Context, id string) (*model.PlannedWorkout, error) {
	planned, err := r.table.Get(ctx, id)
	return planned, notFound(err, ErrPlannedWorkoutNotFound)
}

func (r *plannedWorkoutRepository) ByUser(ctx context.Context, userID string) ([]*model.PlannedWorkout, error) {
	return r.table.Find(ctx, sq.Eq{"user_id": userID})
}

func (r *plannedWorkoutRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.table.Exists(ctx, sq.Eq{"id": id})
}

func (r *plannedWorkoutRepository) Update(ctx context.Context, id string, cols map[string]any) (*model.PlannedWorkout, error) {
	planned, err := r.table.Update(ctx, id, cols)
	return planned, notFound(err, ErrPlannedWorkoutNotFound)
}

func (r *plannedWorkoutRepository) Delete(ctx context.Context, id string) error {
	return notFound(r.table.Delete(ctx, id), ErrPlannedWorkoutNotFound)
}

func (r *plannedWorkoutRepository) All(ctx context.Context) ([]*model.PlannedWorkout, error) {
	return r.table.All(ctx)
}
