package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/gymapp/internal/model"
	"github.com/templui/gymapp/internal/store"
	"github.com/templui/gymapp/internal/testutil"
)

func TestExerciseRepositoryByIDs(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(testutil.Epoch)
	repo := NewExerciseRepository(testutil.NewDB(t), clock.Now)

	a := model.NewExercise(model.ExerciseDescriptor{Name: "A"}, clock.Now())
	b := model.NewExercise(model.ExerciseDescriptor{Name: "B"}, clock.Now())
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	found, err := repo.ByIDs(ctx, []string{a.ID, uuid.NewString(), b.ID, a.ID})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "A", found[a.ID].Name)
	assert.Equal(t, "B", found[b.ID].Name)

	empty, err := repo.ByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRepositoryErrorsKeepStoreChain(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(testutil.Epoch)
	database := testutil.NewDB(t)
	users := NewUserRepository(database, clock.Now)
	exercises := NewExerciseRepository(database, clock.Now)

	_, err := users.ByID(ctx, uuid.NewString())
	require.ErrorIs(t, err, ErrUserNotFound)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, exercises.Create(ctx, model.NewExercise(model.ExerciseDescriptor{Name: "Row"}, clock.Now())))
	err = exercises.Create(ctx, model.NewExercise(model.ExerciseDescriptor{Name: "Row"}, clock.Now()))
	require.ErrorIs(t, err, ErrDuplicateExerciseName)
	require.ErrorIs(t, err, store.ErrDuplicateKey)

	_, err = exercises.ByName(ctx, "row")
	require.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestDuplicateIDIsNotANameClash(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(testutil.Epoch)
	database := testutil.NewDB(t)
	users := NewUserRepository(database, clock.Now)
	exercises := NewExerciseRepository(database, clock.Now)

	first := model.NewUser("test1", "hash", clock.Now())
	require.NoError(t, users.Create(ctx, first))

	same := model.NewUser("test2", "hash", clock.Now())
	same.ID = first.ID
	err := users.Create(ctx, same)
	require.ErrorIs(t, err, store.ErrDuplicateKey)
	assert.NotErrorIs(t, err, ErrDuplicateUsername)

	err = users.Create(ctx, model.NewUser("test1", "hash", clock.Now()))
	require.ErrorIs(t, err, ErrDuplicateUsername)

	squat := model.NewExercise(model.ExerciseDescriptor{Name: "Squat"}, clock.Now())
	require.NoError(t, exercises.Create(ctx, squat))

	clash := model.NewExercise(model.ExerciseDescriptor{Name: "Front Squat"}, clock.Now())
	clash.ID = squat.ID
	err = exercises.Create(ctx, clash)
	require.ErrorIs(t, err, store.ErrDuplicateKey)
	assert.NotErrorIs(t, err, ErrDuplicateExerciseName)
}
