package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/gymapp/internal/model"
	"github.com/templui/gymapp/internal/repository"
	"github.com/templui/gymapp/internal/storage"
	"github.com/templui/gymapp/internal/testutil"
)

type env struct {
	dir    string
	clock  *testutil.Clock
	repos  Repositories
	syncer *Syncer
}

func fakeHash(password string) (string, error) {
	return "hashed:" + password, nil
}

func newEnv(t *testing.T, opts ...Option) *env {
	t.Helper()
	database := testutil.NewDB(t)
	clock := testutil.NewClock(testutil.Epoch)
	dir := t.TempDir()

	repos := Repositories{
		Users:           repository.NewUserRepository(database, clock.Now),
		Exercises:       repository.NewExerciseRepository(database, clock.Now),
		Workouts:        repository.NewWorkoutRepository(database, clock.Now),
		PlannedWorkouts: repository.NewPlannedWorkoutRepository(database, clock.Now),
	}
	opts = append([]Option{WithClock(clock.Now), WithPasswordHasher(fakeHash)}, opts...)
	return &env{
		dir:    dir,
		clock:  clock,
		repos:  repos,
		syncer: New(dir, repos, opts...),
	}
}

func (e *env) write(t *testing.T, collection, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(e.syncer.Path(collection), []byte(body), 0644))
}

func (e *env) user(t *testing.T, username string) *model.User {
	t.Helper()
	u := model.NewUser(username, "hashed:secret", e.clock.Now())
	require.NoError(t, e.repos.Users.Create(context.Background(), u))
	return u
}

func TestImportMissingFile(t *testing.T) {
	e := newEnv(t)

	n, err := e.syncer.Import(context.Background(), Users, e.syncer.Path(Users))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestImportUnknownCollection(t *testing.T) {
	e := newEnv(t)

	_, err := e.syncer.Import(context.Background(), "sessions", filepath.Join(e.dir, "sessions.json"))
	require.ErrorIs(t, err, ErrUnknownCollection)
}

func TestImportIsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ownerID, squatID := uuid.NewString(), uuid.NewString()

	e.write(t, Users, fmt.Sprintf(`[
		{"item_id": %q, "username": "test1", "hashed_password": "$2a$10$x", "goal": ["strength"]},
		{"username": "test2", "password": "plain-text-1"}
	]`, ownerID))
	e.write(t, Exercises, fmt.Sprintf(`[
		{"item_id": %q, "name": "Squat", "category": "Legs"},
		{"name": "Bench Press"}
	]`, squatID))
	e.write(t, Workouts, fmt.Sprintf(`[
		{"item_id": %[1]q, "date": "2024-03-01T10:00:00Z", "user_id": %[2]q,
		 "exercise_performances": [{"exercise_id": %[3]q, "sets": [{"weight": "100", "reps": "5"}]}]},
		{"date": "2024-03-01T10:00:00Z", "user_id": %[2]q, "exercise_performances": []}
	]`, uuid.NewString(), ownerID, squatID))
	e.write(t, PlannedWorkouts, fmt.Sprintf(`[
		{"item_id": %[1]q, "name": "Legs", "user_id": %[2]q, "exercises": [%[3]q]},
		{"name": "No id", "user_id": %[2]q}
	]`, uuid.NewString(), ownerID, squatID))

	report := e.syncer.ImportAll(ctx)
	require.NoError(t, report.Err())
	assert.Equal(t, 6, report.Total())
	assert.Equal(t, 1, report.Results[2].Failed)
	assert.Equal(t, 1, report.Results[3].Failed)

	again := e.syncer.ImportAll(ctx)
	require.NoError(t, again.Err())
	assert.Zero(t, again.Total())
	for i, res := range again.Results {
		if i < 2 {
			assert.Equal(t, 2, res.Skipped, res.Collection)
		} else {
			assert.Equal(t, 1, res.Skipped, res.Collection)
			assert.Equal(t, 1, res.Failed, res.Collection)
		}
	}

	users, err := e.repos.Users.All(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	exercises, err := e.repos.Exercises.All(ctx)
	require.NoError(t, err)
	assert.Len(t, exercises, 2)
	workouts, err := e.repos.Workouts.All(ctx)
	require.NoError(t, err)
	assert.Len(t, workouts, 1)
	planned, err := e.repos.PlannedWorkouts.All(ctx)
	require.NoError(t, err)
	assert.Len(t, planned, 1)

	test2, err := e.repos.Users.ByUsername(ctx, "test2")
	require.NoError(t, err)
	assert.Equal(t, "hashed:plain-text-1", test2.PasswordHash)

	squat, err := e.repos.Exercises.ByName(ctx, "Squat")
	require.NoError(t, err)
	assert.Equal(t, squatID, squat.ID)
	assert.Equal(t, "Legs", squat.Category)
	bench, err := e.repos.Exercises.ByName(ctx, "Bench Press")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultExerciseCategory, bench.Category)
	assert.Equal(t, model.DefaultExerciseEquipment, bench.Equipment)
}

func TestImportSkipsBadRecords(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	var b strings.Builder
	b.WriteString("[")
	for i := range 10 {
		if i > 0 {
			b.WriteString(",")
		}
		if i == 4 {
			b.WriteString(`{"description": "nameless"}`)
			continue
		}
		fmt.Fprintf(&b, `{"name": "Exercise %d"}`, i)
	}
	b.WriteString("]")
	e.write(t, Exercises, b.String())

	res := e.syncer.importCollection(ctx, Exercises, e.syncer.Path(Exercises))
	require.NoError(t, res.Err)
	assert.Equal(t, 9, res.Count)
	assert.Equal(t, 1, res.Failed)

	all, err := e.repos.Exercises.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 9)
}

func TestImportSkipsUsersWithoutPassword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.write(t, Users, `[{"username": "ghost"}, {"username": "real", "password": "hunter22x"}]`)

	res := e.syncer.importCollection(ctx, Users, e.syncer.Path(Users))
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 1, res.Skipped)

	_, err := e.repos.Users.ByUsername(ctx, "ghost")
	require.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestImportAllContinuesPastBrokenCollection(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.write(t, Users, `[{"username": "test1", "hashed_password": "h"}]`)
	e.write(t, Exercises, `{"name": "not an array"`)

	report := e.syncer.ImportAll(ctx)
	require.Error(t, report.Err())
	require.Len(t, report.Results, len(Collections))
	assert.Equal(t, 1, report.Results[0].Count)
	assert.Error(t, report.Results[1].Err)
	assert.NoError(t, report.Results[2].Err)

	_, err := e.repos.Users.ByUsername(ctx, "test1")
	require.NoError(t, err)
}

func TestImportWorkouts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "test1")
	squat, bench := uuid.NewString(), uuid.NewString()
	legacyID, heavyID := "5f0e2a8c-1d3b-4c5e-8f7a-9b0c1d2e3f40", uuid.NewString()

	e.write(t, Workouts, fmt.Sprintf(`[
		{
			"item_id": %[3]q,
			"item_created": "2024-02-01T08:00:00",
			"date": "2024-02-01",
			"start_time": "2024-02-01T07:00:00Z",
			"end_time": "2024-02-01T08:15:00Z",
			"duration": 75,
			"exercises": [%[1]q, %[2]q],
			"user_id": %[4]q
		},
		{
			"item_id": %[6]q,
			"date": "2024-02-02T07:00:00Z",
			"exercises": [%[1]q],
			"exercise_performances": [{"exercise_id": %[1]q, "sets": [{"weight": "100", "reps": "5"}]}],
			"user_id": %[4]q
		},
		{
			"item_id": %[7]q,
			"date": "2024-02-03T07:00:00Z",
			"exercises": [%[2]q],
			"exercise_performances": [{"exercise_id": %[1]q, "sets": []}],
			"user_id": %[4]q
		},
		{
			"item_id": %[8]q,
			"date": "2024-02-04T07:00:00Z",
			"user_id": %[5]q
		},
		{
			"item_id": %[9]q,
			"exercises": [],
			"user_id": %[4]q
		},
		{
			"date": "2024-02-05T07:00:00Z",
			"exercise_performances": [],
			"user_id": %[4]q
		}
	]`, squat, bench, legacyID, owner.ID, uuid.NewString(), heavyID, uuid.NewString(), uuid.NewString(), uuid.NewString()))

	res := e.syncer.importCollection(ctx, Workouts, e.syncer.Path(Workouts))
	require.NoError(t, res.Err)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, 4, res.Failed)

	legacy, err := e.repos.Workouts.ByID(ctx, legacyID)
	require.NoError(t, err)
	assert.Equal(t, []string{squat, bench}, legacy.ExerciseIDs())
	for _, perf := range legacy.Performances {
		assert.Empty(t, perf.Sets)
	}
	assert.Equal(t, 75, *legacy.Duration)
	assert.WithinDuration(t, time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC), legacy.CreatedAt, time.Millisecond)
	assert.WithinDuration(t, legacy.CreatedAt, legacy.ModifiedAt, time.Millisecond)

	heavy, err := e.repos.Workouts.ByID(ctx, heavyID)
	require.NoError(t, err)
	assert.Equal(t, []string{squat}, heavy.ExerciseIDs())

	res = e.syncer.importCollection(ctx, Workouts, e.syncer.Path(Workouts))
	require.NoError(t, res.Err)
	assert.Zero(t, res.Count)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 4, res.Failed)

	mine, err := e.repos.Workouts.ByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestImportPlannedWorkouts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "test1")
	row := uuid.NewString()

	e.write(t, PlannedWorkouts, fmt.Sprintf(`[
		{"item_id": %[4]q, "name": "Pull day", "exercises": [%[1]q], "user_id": %[2]q},
		{"item_id": %[5]q, "name": "Orphan", "user_id": %[3]q},
		{"name": "Anonymous", "user_id": %[2]q}
	]`, row, owner.ID, uuid.NewString(), uuid.NewString(), uuid.NewString()))

	res := e.syncer.importCollection(ctx, PlannedWorkouts, e.syncer.Path(PlannedWorkouts))
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 2, res.Failed)

	planned, err := e.repos.PlannedWorkouts.ByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, planned, 1)
	assert.Equal(t, "Pull day", *planned[0].Name)
	assert.Equal(t, []string{row}, planned[0].ExerciseIDs())
}

// seed fills the store through the repositories with one record graph.
func seed(t *testing.T, e *env) {
	t.Helper()
	ctx := context.Background()

	owner := e.user(t, "test1")
	owner2 := e.user(t, "test2")

	e.clock.Advance(time.Minute)
	squat := model.NewExercise(model.ExerciseDescriptor{Name: "Squat", Equipment: "Barbell", Muscles: []string{"Quads"}}, e.clock.Now())
	require.NoError(t, e.repos.Exercises.Create(ctx, squat))
	plank := model.NewExercise(model.ExerciseDescriptor{Name: "Plank", Category: "Core"}, e.clock.Now())
	require.NoError(t, e.repos.Exercises.Create(ctx, plank))

	e.clock.Advance(time.Minute)
	name := "Legs"
	start := e.clock.Now().Add(-time.Hour)
	w := model.NewWorkout(owner.ID, model.WorkoutDraft{Name: &name, StartTime: &start, Notes: "heavy"}, model.Performances{
		{ExerciseID: squat.ID, Sets: []model.Set{model.NewSet("120", "5"), model.NewSet("125", "3")}},
		{ExerciseID: plank.ID},
	}, e.clock.Now())
	require.NoError(t, e.repos.Workouts.Create(ctx, w))
	require.NoError(t, e.repos.Workouts.Create(ctx, model.NewWorkout(owner2.ID, model.WorkoutDraft{}, nil, e.clock.Now())))

	e.clock.Advance(time.Minute)
	plan := model.NewPlannedWorkout(owner2.ID, nil, "next week", model.Performances{{ExerciseID: plank.ID}}, e.clock.Now())
	require.NoError(t, e.repos.PlannedWorkouts.Create(ctx, plan))

	e.clock.Advance(time.Minute)
	_, err := e.repos.Users.Update(ctx, owner.ID, map[string]any{"weight": 90})
	require.NoError(t, err)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newEnv(t)
	seed(t, src)

	report := src.syncer.ExportAll(ctx)
	require.NoError(t, report.Err())
	assert.Equal(t, 2+2+2+1, report.Total())

	dst := newEnv(t)
	dst.syncer = New(src.dir, dst.repos, WithClock(dst.clock.Now), WithPasswordHasher(fakeHash))
	imported := dst.syncer.ImportAll(ctx)
	require.NoError(t, imported.Err())
	assert.Equal(t, 7, imported.Total())

	out := t.TempDir()
	for _, name := range Collections {
		_, err := dst.syncer.Export(ctx, name, filepath.Join(out, name+".json"))
		require.NoError(t, err)

		want, err := os.ReadFile(src.syncer.Path(name))
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(out, name+".json"))
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got), name)
	}
}

func TestExportEmptyStore(t *testing.T) {
	e := newEnv(t)

	n, err := e.syncer.Export(context.Background(), Workouts, e.syncer.Path(Workouts))
	require.NoError(t, err)
	assert.Zero(t, n)

	data, err := os.ReadFile(e.syncer.Path(Workouts))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestExportReplacesFile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.write(t, Users, `[{"username": "stale"}]`)
	e.user(t, "fresh")

	_, err := e.syncer.Export(ctx, Users, e.syncer.Path(Users))
	require.NoError(t, err)

	data, err := os.ReadFile(e.syncer.Path(Users))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"username": "fresh"`)
	assert.NotContains(t, string(data), "stale")

	entries, err := os.ReadDir(e.dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.HasSuffix(entry.Name(), ".tmp"), entry.Name())
	}
}

func TestMirror(t *testing.T) {
	ctx := context.Background()
	mirrorDir := t.TempDir()
	mirror, err := storage.NewLocalStorage(mirrorDir)
	require.NoError(t, err)

	src := newEnv(t, WithMirror(mirror, "snapshots"))
	seed(t, src)
	require.NoError(t, src.syncer.ExportAll(ctx).Err())

	for _, name := range Collections {
		assert.FileExists(t, filepath.Join(mirrorDir, "snapshots", name+".json"))
	}

	dst := newEnv(t, WithMirror(mirror, "snapshots"))
	report := dst.syncer.ImportAll(ctx)
	require.NoError(t, report.Err())
	assert.Equal(t, 7, report.Total())

	// fetched files are cached next to the local snapshots
	assert.FileExists(t, dst.syncer.Path(Users))
}
