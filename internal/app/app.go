package app

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/gymapp/internal/config"
	"github.com/templui/gymapp/internal/db"
	"github.com/templui/gymapp/internal/logger"
	"github.com/templui/gymapp/internal/repository"
	"github.com/templui/gymapp/internal/service"
	"github.com/templui/gymapp/internal/snapshot"
	"github.com/templui/gymapp/internal/storage"
)

type App struct {
	Cfg                   *config.Config
	DB                    *sqlx.DB
	UserService           *service.UserService
	ExerciseService       *service.ExerciseService
	WorkoutService        *service.WorkoutService
	PlannedWorkoutService *service.PlannedWorkoutService
	Snapshots             *snapshot.Syncer
}

// New opens the database, applies migrations and wires every service onto
// the one database handle.
func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	mirror, err := storage.New(cfg)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return Wire(cfg, database, mirror, nil), nil
}

// Wire builds the App on an already migrated database. A nil clock means
// wall time; a nil mirror disables snapshot mirroring.
func Wire(cfg *config.Config, database *sqlx.DB, mirror storage.Storage, now service.Clock) *App {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	// Repositories
	userRepository := repository.NewUserRepository(database, now)
	exerciseRepository := repository.NewExerciseRepository(database, now)
	workoutRepository := repository.NewWorkoutRepository(database, now)
	plannedWorkoutRepository := repository.NewPlannedWorkoutRepository(database, now)

	// Services
	userService := service.NewUserService(userRepository, now)
	exerciseService := service.NewExerciseService(exerciseRepository, now)
	workoutService := service.NewWorkoutService(workoutRepository, userRepository, exerciseService, now)
	plannedWorkoutService := service.NewPlannedWorkoutService(plannedWorkoutRepository, userRepository, exerciseService, now)

	opts := []snapshot.Option{
		snapshot.WithClock(now),
		snapshot.WithLogger(logger.Component("snapshot")),
	}
	if mirror != nil {
		opts = append(opts, snapshot.WithMirror(mirror, cfg.SnapshotS3Prefix))
	}
	snapshots := snapshot.New(cfg.JSONDataPath, snapshot.Repositories{
		Users:           userRepository,
		Exercises:       exerciseRepository,
		Workouts:        workoutRepository,
		PlannedWorkouts: plannedWorkoutRepository,
	}, opts...)

	return &App{
		Cfg:                   cfg,
		DB:                    database,
		UserService:           userService,
		ExerciseService:       exerciseService,
		WorkoutService:        workoutService,
		PlannedWorkoutService: plannedWorkoutService,
		Snapshots:             snapshots,
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
