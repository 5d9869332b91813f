package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/templui/gymapp/internal/model"
	"github.com/templui/gymapp/internal/repository"
	"github.com/templui/gymapp/internal/service"
	"github.com/templui/gymapp/internal/testutil"
)

type fixture struct {
	clock *testutil.Clock

	userRepository     repository.UserRepository
	exerciseRepository repository.ExerciseRepository
	workoutRepository  repository.WorkoutRepository
	plannedRepository  repository.PlannedWorkoutRepository

	users     *service.UserService
	exercises *service.ExerciseService
	workouts  *service.WorkoutService
	planned   *service.PlannedWorkoutService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewDB(t)
	clock := testutil.NewClock(testutil.Epoch)

	f := &fixture{
		clock:              clock,
		userRepository:     repository.NewUserRepository(database, clock.Now),
		exerciseRepository: repository.NewExerciseRepository(database, clock.Now),
		workoutRepository:  repository.NewWorkoutRepository(database, clock.Now),
		plannedRepository:  repository.NewPlannedWorkoutRepository(database, clock.Now),
	}
	f.users = service.NewUserService(f.userRepository, clock.Now)
	f.exercises = service.NewExerciseService(f.exerciseRepository, clock.Now)
	f.workouts = service.NewWorkoutService(f.workoutRepository, f.userRepository, f.exercises, clock.Now)
	f.planned = service.NewPlannedWorkoutService(f.plannedRepository, f.userRepository, f.exercises, clock.Now)
	return f
}

// user stores a user directly, skipping the password hashing of Signup.
func (f *fixture) user(t *testing.T, username string) *model.User {
	t.Helper()
	u := model.NewUser(username, "$2a$10$fixture", f.clock.Now())
	require.NoError(t, f.userRepository.Create(context.Background(), u))
	return u
}

func (f *fixture) exerciseCount(t *testing.T) int {
	t.Helper()
	all, err := f.exercises.All(context.Background())
	require.NoError(t, err)
	return len(all)
}
