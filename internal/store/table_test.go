package store

import (
	"context"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/gymapp/internal/model"
	"github.com/templui/gymapp/internal/testutil"
)

func newTables(t *testing.T, clock *testutil.Clock) (*sqlx.DB, *Table[model.User], *Table[model.Exercise], *Table[model.Workout]) {
	t.Helper()
	database := testutil.NewDB(t)
	users := NewTable[model.User](database, Schema{Name: "users", Columns: model.UserColumns}).WithClock(clock.Now)
	exercises := NewTable[model.Exercise](database, Schema{Name: "exercises", Columns: model.ExerciseColumns}).WithClock(clock.Now)
	workouts := NewTable[model.Workout](database, Schema{Name: "workouts", Columns: model.WorkoutColumns}).WithClock(clock.Now)
	return database, users, exercises, workouts
}

func TestTableInsertAndGet(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(testutil.Epoch)
	_, _, exercises, _ := newTables(t, clock)

	bench := model.NewExercise(model.ExerciseDescriptor{
		Name:    "Bench Press",
		Muscles: []string{"Chest", "Triceps"},
	}, clock.Now())
	require.NoError(t, exercises.Insert(ctx, bench))

	got, err := exercises.Get(ctx, bench.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bench Press", got.Name)
	assert.Equal(t, model.DefaultExerciseCategory, got.Category)
	assert.Equal(t, model.DefaultExerciseEquipment, got.Equipment)
	assert.Equal(t, model.StringList{"Chest", "Triceps"}, got.Muscles)
	assert.Equal(t, model.StringList{}, got.SubMuscles)
	assert.WithinDuration(t, testutil.Epoch, got.CreatedAt, time.Millisecond)
	assert.WithinDuration(t, testutil.Epoch, got.ModifiedAt, time.Millisecond)
}

func TestTableInsertDuplicateKey(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(testutil.Epoch)
	_, _, exercises, _ := newTables(t, clock)

	require.NoError(t, exercises.Insert(ctx, model.NewExercise(model.ExerciseDescriptor{Name: "Squat"}, clock.Now())))

	err := exercises.Insert(ctx, model.NewExercise(model.ExerciseDescriptor{Name: "Squat"}, clock.Now()))
	require.ErrorIs(t, err, ErrDuplicateKey)

	n, err := exercises.Count(ctx, sq.Eq{"name": "Squat"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTableGetNotFound(t *testing.T) {
	clock := testutil.NewClock(testutil.Epoch)
	_, _, exercises, _ := newTables(t, clock)

	_, err := exercises.Get(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrNotFound)

	var storeErr *Error
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "get", storeErr.Op)
	assert.Equal(t, "exercises", storeErr.Table)
}

func TestTableForeignKey(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(testutil.Epoch)
	_, users, _, workouts := newTables(t, clock)

	orphan := model.NewWorkout(uuid.NewString(), model.WorkoutDraft{}, nil, clock.Now())
	err := workouts.Insert(ctx, orphan)
	require.ErrorIs(t, err, ErrForeignKey)

	owner := model.NewUser("lifter", "hash", clock.Now())
	require.NoError(t, users.Insert(ctx, owner))
	require.NoError(t, workouts.Insert(ctx, model.NewWorkout(owner.ID, model.WorkoutDraft{}, nil, clock.Now())))

	// deleting the owner cascades to the workout
	require.NoError(t, users.Delete(ctx, owner.ID))
	n, err := workouts.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTableUpdate(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(testutil.Epoch)
	_, _, exercises, _ := newTables(t, clock)

	row := model.NewExercise(model.ExerciseDescriptor{Name: "Deadlift"}, clock.Now())
	require.NoError(t, exercises.Insert(ctx, row))

	clock.Advance(time.Hour)
	got, err := exercises.Update(ctx, row.ID, map[string]any{
		"equipment": "Barbell",
		"muscles":   model.StringList{"Hamstrings"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Barbell", got.Equipment)
	assert.Equal(t, model.StringList{"Hamstrings"}, got.Muscles)
	assert.WithinDuration(t, testutil.Epoch, got.CreatedAt, time.Millisecond)
	assert.WithinDuration(t, testutil.Epoch.Add(time.Hour), got.ModifiedAt, time.Millisecond)

	t.Run("immutable column", func(t *testing.T) {
		_, err := exercises.Update(ctx, row.ID, map[string]any{"created_at": clock.Now()})
		require.ErrorIs(t, err, ErrInvalidPatch)

		_, err = exercises.Update(ctx, row.ID, map[string]any{"id": uuid.NewString()})
		require.ErrorIs(t, err, ErrInvalidPatch)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := exercises.Update(ctx, row.ID, map[string]any{"colour": "red"})
		require.ErrorIs(t, err, ErrUnknownColumn)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := exercises.Update(ctx, uuid.NewString(), map[string]any{"equipment": "Cable"})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTableDelete(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(testutil.Epoch)
	_, _, exercises, _ := newTables(t, clock)

	row := model.NewExercise(model.ExerciseDescriptor{Name: "Plank"}, clock.Now())
	require.NoError(t, exercises.Insert(ctx, row))
	require.NoError(t, exercises.Delete(ctx, row.ID))

	ok, err := exercises.Exists(ctx, sq.Eq{"id": row.ID})
	require.NoError(t, err)
	assert.False(t, ok)

	err = exercises.Delete(ctx, row.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTableFindOrdersByCreation(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(testutil.Epoch)
	_, _, exercises, _ := newTables(t, clock)

	for _, name := range []string{"Row", "Curl", "Dip"} {
		require.NoError(t, exercises.Insert(ctx, model.NewExercise(model.ExerciseDescriptor{Name: name, Category: "Pull"}, clock.Now())))
		clock.Advance(time.Minute)
	}
	require.NoError(t, exercises.Insert(ctx, model.NewExercise(model.ExerciseDescriptor{Name: "Run", Category: "Cardio"}, clock.Now())))

	pulls, err := exercises.Find(ctx, sq.Eq{"category": "Pull"})
	require.NoError(t, err)
	require.Len(t, pulls, 3)
	assert.Equal(t, "Row", pulls[0].Name)
	assert.Equal(t, "Curl", pulls[1].Name)
	assert.Equal(t, "Dip", pulls[2].Name)

	all, err := exercises.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	one, err := exercises.FindOne(ctx, sq.Eq{"name": "Run"})
	require.NoError(t, err)
	assert.Equal(t, "Cardio", one.Category)
}

func TestTableDistinct(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(testutil.Epoch)
	_, _, exercises, _ := newTables(t, clock)

	rows := []model.ExerciseDescriptor{
		{Name: "Bike", Category: "Cardio", Equipment: "Machine"},
		{Name: "Squat", Category: "Strength", Equipment: "Barbell"},
		{Name: "Lunge", Category: "Strength"},
	}
	for _, d := range rows {
		require.NoError(t, exercises.Insert(ctx, model.NewExercise(d, clock.Now())))
	}

	categories, err := exercises.Distinct(ctx, "category")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cardio", "Strength"}, categories)

	equipment, err := exercises.Distinct(ctx, "equipment")
	require.NoError(t, err)
	assert.Equal(t, []string{"Barbell", "Machine", "None"}, equipment)

	_, err = exercises.Distinct(ctx, "password")
	require.ErrorIs(t, err, ErrUnknownColumn)
}

func TestTableEmptyDistinct(t *testing.T) {
	clock := testutil.NewClock(testutil.Epoch)
	_, _, exercises, _ := newTables(t, clock)

	categories, err := exercises.Distinct(context.Background(), "category")
	require.NoError(t, err)
	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}
