// Package seed fills an empty database with demo users, the exercise pool
// and a history of workouts.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/templui/gymapp/internal/app"
	"github.com/templui/gymapp/internal/model"
	"github.com/templui/gymapp/internal/service"
)

type Options struct {
	WorkoutsPerUser int
	Seed            uint64
	Now             time.Time
}

type Summary struct {
	Users     int
	Exercises int
	Workouts  int
}

// Run creates the demo data through the regular services. Existing users
// and exercises are reused, so running it twice only adds workouts.
func Run(ctx context.Context, a *app.App, opts Options) (Summary, error) {
	var sum Summary
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	rng := newRand(opts.Seed)

	exercises := map[string]*model.Exercise{}
	for _, group := range muscleGroups {
		for _, entry := range exercisePool[group] {
			exercise, err := a.ExerciseService.Resolve(ctx, model.Inline(entry.descriptor()))
			if err != nil {
				return sum, fmt.Errorf("failed to seed exercise %q: %w", entry.name, err)
			}
			exercises[entry.name] = exercise
			sum.Exercises++
		}
	}

	for _, su := range seedUsers {
		user, err := ensureUser(ctx, a.UserService, su.input)
		if err != nil {
			return sum, err
		}
		sum.Users++

		for i := range opts.WorkoutsPerUser {
			in := workoutInput(rng, user.ID, su.profile, exercises, i, opts)
			_, err := a.WorkoutService.Create(ctx, in)
			if err != nil {
				return sum, fmt.Errorf("failed to seed workout %d for %s: %w", i+1, user.Username, err)
			}
			sum.Workouts++
		}
		slog.Info("seeded user", "username", user.Username, "workouts", opts.WorkoutsPerUser)
	}

	return sum, nil
}

func ensureUser(ctx context.Context, users *service.UserService, in signup) (*model.User, error) {
	user, err := users.Signup(ctx, service.SignupInput{
		Username:   in.username,
		Password:   in.password,
		FirstName:  "Test",
		LastName:   in.lastName,
		Age:        in.age,
		Height:     in.height,
		Weight:     in.weight,
		Sex:        in.sex,
		Experience: in.experience,
		Goal:       []string{in.goal},
	})
	if errors.Is(err, service.ErrUsernameTaken) {
		return users.ByUsername(ctx, in.username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to seed user %q: %w", in.username, err)
	}
	return user, nil
}

func workoutInput(rng *rand.Rand, userID string, p profile, exercises map[string]*model.Exercise, i int, opts Options) service.CreateWorkoutInput {
	tmpl := workoutTemplates[i%len(workoutTemplates)]
	date := opts.Now.AddDate(0, 0, -(opts.WorkoutsPerUser - i))

	used := map[string]bool{}
	var items []model.WorkoutItem
	count := between(rng, 4, 6)
	for j := range count {
		group := tmpl.groups[j%len(tmpl.groups)]
		var available []poolEntry
		for _, e := range exercisePool[group] {
			if !used[e.name] {
				available = append(available, e)
			}
		}
		if len(available) == 0 {
			continue
		}
		entry := available[rng.IntN(len(available))]
		used[entry.name] = true

		exercise := exercises[entry.name]
		sets := make([]model.Set, p.sets)
		for k := range sets {
			sets[k] = model.NewSet(
				strconv.Itoa(between(rng, p.minWeight, p.maxWeight)),
				strconv.Itoa(between(rng, p.minReps, p.maxReps)),
			)
		}
		items = append(items, model.WorkoutItem{
			ItemID: exercise.ID,
			Name:   exercise.Name,
			Sets:   sets,
		})
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), between(rng, 6, 20), 0, 0, 0, time.UTC)
	end := start.Add(time.Duration(between(rng, 45, 90)) * time.Minute)
	name := fmt.Sprintf("%s - Session %d", tmpl.name, i+1)

	return service.CreateWorkoutInput{
		UserID: userID,
		WorkoutDraft: model.WorkoutDraft{
			Name:      &name,
			Date:      &date,
			StartTime: &start,
			EndTime:   &end,
			Notes:     fmt.Sprintf("Week %d - Feeling good!", i/7+1),
		},
		Items: items,
	}
}

// newRand returns a generator whose sequence depends only on seed.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// between returns a random int in [lo, hi].
func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}
